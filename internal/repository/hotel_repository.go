package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// HotelRepo reads the hotel-level attributes the reservation core
// depends on.  Hotel administration happens elsewhere.
type HotelRepo struct {
    db *sql.DB
}

// NewHotelRepo returns a new HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// ByID loads a hotel row.
func (r *HotelRepo) ByID(ctx context.Context, id uint64) (*model.Hotel, error) {
    const q = `SELECT id, name, cancel_cutoff_hours, created_at FROM hotels WHERE id = ?`
    var h model.Hotel
    err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.Name, &h.CancelCutoffHours, &h.CreatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return &h, nil
}

// CancelCutoff returns how long before check-in a confirmed booking for
// this hotel may still be cancelled.
func (r *HotelRepo) CancelCutoff(ctx context.Context, hotelID uint64) (time.Duration, error) {
    h, err := r.ByID(ctx, hotelID)
    if err != nil {
        return 0, err
    }
    return time.Duration(h.CancelCutoffHours) * time.Hour, nil
}

// RoomTypeRepo reads room types for capacity validation on the quote
// and booking paths.
type RoomTypeRepo struct {
    db *sql.DB
}

// NewRoomTypeRepo returns a new RoomTypeRepo bound to the given database.
func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo { return &RoomTypeRepo{db: db} }

// ByID loads a room type.
func (r *RoomTypeRepo) ByID(ctx context.Context, id uint64) (*model.RoomType, error) {
    const q = `SELECT id, hotel_id, name, max_guests, created_at FROM room_types WHERE id = ?`
    var rt model.RoomType
    err := r.db.QueryRowContext(ctx, q, id).Scan(&rt.ID, &rt.HotelID, &rt.Name, &rt.MaxGuests, &rt.CreatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return &rt, nil
}

// RoomRepo reads rooms for booking-time validation.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// ByID loads an active room.  Inactive and missing rooms both surface
// as ErrNotFound so callers cannot book retired inventory.
func (r *RoomRepo) ByID(ctx context.Context, id uint64) (*model.Room, error) {
    const q = `SELECT id, hotel_id, room_type_id, number, is_active, created_at
               FROM rooms WHERE id = ? AND is_active = 1`
    var room model.Room
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &room.ID, &room.HotelID, &room.RoomTypeID, &room.Number, &room.IsActive, &room.CreatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return &room, nil
}
