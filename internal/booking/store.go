// Package booking owns the reservation lifecycle: hold creation, the
// guarded status transitions, the hold-expiration sweep and payment
// reconciliation.  Concurrency between competing writers (a confirming
// webhook racing the sweeper, duplicate webhook deliveries, overlapping
// sweep runs) is resolved entirely by the store's conditional updates:
// whichever caller's status guard matches wins, the loser observes a
// no-op and treats it as success.
package booking

import (
    "context"
    "errors"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// ErrCancellationWindowClosed is returned when a confirmed booking is
// cancelled after the hotel's cancellation cutoff has passed.  It maps
// to a user-facing rejection, not a system error.
var ErrCancellationWindowClosed = errors.New("cancellation window closed")

// Store is the persistence surface for bookings.  All transition
// methods are conditional updates keyed on (id, expected status); they
// report whether the row actually moved so callers can distinguish a
// win from a lost race without treating the loss as a failure.
type Store interface {
    // Create inserts a new booking row and fills in its generated ID.
    Create(ctx context.Context, b *model.Booking) error

    // ByID loads a booking by primary key.
    ByID(ctx context.Context, id uint64) (*model.Booking, error)

    // ByCode loads a booking by confirmation code.
    ByCode(ctx context.Context, code string) (*model.Booking, error)

    // ConfirmIfPending atomically moves PENDING→CONFIRMED, sets
    // payment_status=PAID, records the gateway reference and clears the
    // soft hold expiry.  Returns false when the guard missed.
    ConfirmIfPending(ctx context.Context, id uint64, paymentRef string) (bool, error)

    // ExpireIfPending atomically moves PENDING→EXPIRED, guarded on the
    // hold deadline having passed.  Returns false when the guard missed.
    ExpireIfPending(ctx context.Context, id uint64, now time.Time) (bool, error)

    // CancelIfStatus atomically moves from→CANCELLED recording the
    // reason and clearing any hold expiry.  Returns false on guard miss.
    CancelIfStatus(ctx context.Context, id uint64, from model.BookingStatus, reason string) (bool, error)

    // SetStatusIf atomically moves from→to with no side columns; used
    // for check-in and check-out.  Returns false on guard miss.
    SetStatusIf(ctx context.Context, id uint64, from, to model.BookingStatus) (bool, error)

    // ListExpiredPending returns pending bookings whose hold deadline is
    // strictly before now, ordered by deadline ascending.
    ListExpiredPending(ctx context.Context, now time.Time) ([]model.Booking, error)

    // CountOverlapping counts pending or confirmed bookings for the room
    // whose [check_in, check_out) range intersects the given one.
    CountOverlapping(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (int, error)

    // ExpireOverdueForRoom retires every overdue pending hold on a room
    // in one guarded statement, returning the number of rows moved.
    ExpireOverdueForRoom(ctx context.Context, roomID uint64, now time.Time) (int, error)
}

// PaymentStore appends rows to the payments audit trail.
type PaymentStore interface {
    Append(ctx context.Context, p *model.Payment) error
}

// PolicySource resolves the cancellation cutoff for a hotel.  Hotel
// administration is an external collaborator; only the cutoff is read
// here.
type PolicySource interface {
    CancelCutoff(ctx context.Context, hotelID uint64) (time.Duration, error)
}
