package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// BookingRepo provides access to the bookings table.  All timestamp
// columns are stored in UTC; date columns hold calendar dates only.
//
// Every status transition is a single conditional UPDATE keyed on the
// current status.  RowsAffected tells the caller whether its guard
// matched; zero rows means another writer already moved the booking and
// is reported as moved=false, never as an error.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, code, hotel_id, room_id, room_type_id,
    guest_name, guest_email, guest_phone, check_in, check_out, guests,
    status, payment_status, soft_hold_expires_at, total_amount_cents,
    price_breakdown, payment_ref, cancel_reason, created_at, updated_at`

// Create inserts a new booking row and populates the generated ID and
// timestamps on the provided model.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings
        (code, hotel_id, room_id, room_type_id, guest_name, guest_email, guest_phone,
         check_in, check_out, guests, status, payment_status, soft_hold_expires_at,
         total_amount_cents, price_breakdown)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    var expires interface{}
    if b.SoftHoldExpiresAt != nil {
        expires = b.SoftHoldExpiresAt.UTC()
    }
    result, err := r.db.ExecContext(ctx, q,
        b.Code, b.HotelID, b.RoomID, b.RoomTypeID, b.GuestName, b.GuestEmail, b.GuestPhone,
        model.DateOnly(b.CheckIn), model.DateOnly(b.CheckOut), b.Guests,
        string(b.Status), string(b.PaymentStatus), expires,
        b.TotalAmountCents, []byte(b.PriceBreakdown),
    )
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    loaded, err := r.ByID(ctx, b.ID)
    if err != nil {
        return err
    }
    b.CreatedAt = loaded.CreatedAt
    b.UpdatedAt = loaded.UpdatedAt
    return nil
}

// ByID loads a booking by primary key.  ErrNotFound is returned when no
// row exists.
func (r *BookingRepo) ByID(ctx context.Context, id uint64) (*model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// ByCode loads a booking by its confirmation code.
func (r *BookingRepo) ByCode(ctx context.Context, code string) (*model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE code = ?`
    return r.scanOne(r.db.QueryRowContext(ctx, q, code))
}

func (r *BookingRepo) scanOne(row *sql.Row) (*model.Booking, error) {
    var b model.Booking
    var status, payStatus string
    var expires sql.NullTime
    var breakdown []byte
    var payRef, cancelReason sql.NullString
    err := row.Scan(
        &b.ID, &b.Code, &b.HotelID, &b.RoomID, &b.RoomTypeID,
        &b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.CheckIn, &b.CheckOut, &b.Guests,
        &status, &payStatus, &expires, &b.TotalAmountCents,
        &breakdown, &payRef, &cancelReason, &b.CreatedAt, &b.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    b.Status = model.BookingStatus(status)
    b.PaymentStatus = model.PaymentState(payStatus)
    if expires.Valid {
        t := expires.Time.UTC()
        b.SoftHoldExpiresAt = &t
    }
    b.PriceBreakdown = breakdown
    if payRef.Valid {
        v := payRef.String
        b.PaymentRef = &v
    }
    if cancelReason.Valid {
        v := cancelReason.String
        b.CancelReason = &v
    }
    return &b, nil
}

// ConfirmIfPending performs the guarded PENDING→CONFIRMED transition.
// The payment status is set to PAID and the soft hold expiry cleared in
// the same statement, so the invariant that only pending rows carry an
// expiry holds under any interleaving.
func (r *BookingRepo) ConfirmIfPending(ctx context.Context, id uint64, paymentRef string) (bool, error) {
    const q = `UPDATE bookings
               SET status = ?, payment_status = ?, payment_ref = ?, soft_hold_expires_at = NULL
               WHERE id = ? AND status = ?`
    result, err := r.db.ExecContext(ctx, q,
        string(model.BookingConfirmed), string(model.PaymentPaid), paymentRef,
        id, string(model.BookingPending))
    if err != nil {
        return false, err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// ExpireIfPending performs the guarded PENDING→EXPIRED transition.  The
// guard includes the deadline comparison, so a stray timestamp on a row
// that already left PENDING can never match.
func (r *BookingRepo) ExpireIfPending(ctx context.Context, id uint64, now time.Time) (bool, error) {
    const q = `UPDATE bookings
               SET status = ?, soft_hold_expires_at = NULL
               WHERE id = ? AND status = ? AND soft_hold_expires_at IS NOT NULL AND soft_hold_expires_at <= ?`
    result, err := r.db.ExecContext(ctx, q,
        string(model.BookingExpired), id, string(model.BookingPending), now.UTC())
    if err != nil {
        return false, err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// CancelIfStatus performs the guarded transition from the expected
// status to CANCELLED, recording the reason.
func (r *BookingRepo) CancelIfStatus(ctx context.Context, id uint64, from model.BookingStatus, reason string) (bool, error) {
    const q = `UPDATE bookings
               SET status = ?, cancel_reason = ?, soft_hold_expires_at = NULL
               WHERE id = ? AND status = ?`
    result, err := r.db.ExecContext(ctx, q,
        string(model.BookingCancelled), reason, id, string(from))
    if err != nil {
        return false, err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// SetStatusIf performs a plain guarded status change with no side
// columns (check-in, check-out).
func (r *BookingRepo) SetStatusIf(ctx context.Context, id uint64, from, to model.BookingStatus) (bool, error) {
    const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
    result, err := r.db.ExecContext(ctx, q, string(to), id, string(from))
    if err != nil {
        return false, err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// ListExpiredPending returns pending bookings whose hold deadline lies
// strictly before now, oldest deadline first, for the sweep.
func (r *BookingRepo) ListExpiredPending(ctx context.Context, now time.Time) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + `
               FROM bookings
               WHERE status = ? AND soft_hold_expires_at IS NOT NULL AND soft_hold_expires_at < ?
               ORDER BY soft_hold_expires_at ASC`
    rows, err := r.db.QueryContext(ctx, q, string(model.BookingPending), now.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    for rows.Next() {
        var b model.Booking
        var status, payStatus string
        var expires sql.NullTime
        var breakdown []byte
        var payRef, cancelReason sql.NullString
        if err := rows.Scan(
            &b.ID, &b.Code, &b.HotelID, &b.RoomID, &b.RoomTypeID,
            &b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.CheckIn, &b.CheckOut, &b.Guests,
            &status, &payStatus, &expires, &b.TotalAmountCents,
            &breakdown, &payRef, &cancelReason, &b.CreatedAt, &b.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        b.Status = model.BookingStatus(status)
        b.PaymentStatus = model.PaymentState(payStatus)
        if expires.Valid {
            t := expires.Time.UTC()
            b.SoftHoldExpiresAt = &t
        }
        b.PriceBreakdown = breakdown
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// CountOverlapping counts live (pending or confirmed) bookings for a
// room intersecting the half-open range [checkIn, checkOut).
func (r *BookingRepo) CountOverlapping(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (int, error) {
    const q = `SELECT COUNT(*) FROM bookings
               WHERE room_id = ?
                 AND status IN (?, ?)
                 AND check_in < ? AND check_out > ?`
    var n int
    err := r.db.QueryRowContext(ctx, q, roomID,
        string(model.BookingPending), string(model.BookingConfirmed),
        model.DateOnly(checkOut), model.DateOnly(checkIn)).Scan(&n)
    if err != nil {
        return 0, err
    }
    return n, nil
}

// ExpireOverdueForRoom retires every overdue pending hold on a room in
// one guarded statement.  Used opportunistically before availability
// checks so stale holds never block a live guest.
func (r *BookingRepo) ExpireOverdueForRoom(ctx context.Context, roomID uint64, now time.Time) (int, error) {
    const q = `UPDATE bookings
               SET status = ?, soft_hold_expires_at = NULL
               WHERE room_id = ? AND status = ? AND soft_hold_expires_at IS NOT NULL AND soft_hold_expires_at <= ?`
    result, err := r.db.ExecContext(ctx, q,
        string(model.BookingExpired), roomID, string(model.BookingPending), now.UTC())
    if err != nil {
        return 0, err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return 0, err
    }
    return int(n), nil
}
