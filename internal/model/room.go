package model

import "time"

// Hotel holds the few hotel-level attributes the reservation core needs.
// Hotel administration lives elsewhere; this core only reads the
// cancellation policy when deciding whether a confirmed booking may
// still be cancelled.
type Hotel struct {
    ID                  uint64    // hotels.id
    Name                string    // hotels.name
    CancelCutoffHours   int       // hotels.cancel_cutoff_hours before check-in
    CreatedAt           time.Time // hotels.created_at
}

// RoomType groups rooms that share pricing.  Rate plans reference room
// types by id only; resolution looks the type up explicitly rather than
// holding back-references.
type RoomType struct {
    ID        uint64    // room_types.id
    HotelID   uint64    // room_types.hotel_id
    Name      string    // room_types.name
    MaxGuests int       // room_types.max_guests
    CreatedAt time.Time // room_types.created_at
}

// Room is a physical, bookable room belonging to a room type.
type Room struct {
    ID         uint64    // rooms.id
    HotelID    uint64    // rooms.hotel_id
    RoomTypeID uint64    // rooms.room_type_id
    Number     string    // rooms.number
    IsActive   bool      // rooms.is_active
    CreatedAt  time.Time // rooms.created_at
}
