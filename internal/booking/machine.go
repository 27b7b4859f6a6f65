package booking

import (
    "context"
    "encoding/json"
    "log"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
)

// Outcome is the result of a guarded transition.  A guard miss means
// another writer already moved the booking; that is a normal, expected
// result and is reported as OutcomeNoOp rather than an error so callers
// never retry or raise on it.
type Outcome int

const (
    // OutcomeApplied means this caller's guard matched and the row moved.
    OutcomeApplied Outcome = iota
    // OutcomeNoOp means the booking had already left the expected state.
    OutcomeNoOp
)

// StateMachine enforces the legal booking transitions:
//
//  PENDING    → CONFIRMED | CANCELLED | EXPIRED
//  CONFIRMED  → CHECKED_IN | CANCELLED
//  CHECKED_IN → CHECKED_OUT
//
// CHECKED_IN, CHECKED_OUT, CANCELLED and EXPIRED are terminal for status
// changes.  Every transition is a single conditional store update; the
// machine holds no in-process state and is safe for concurrent use.
type StateMachine struct {
    Store    Store
    Policies PolicySource
    HoldTTL  time.Duration
    Now      func() time.Time
}

// NewStateMachine constructs a StateMachine.  Store and policies must be
// non-nil; holdTTL bounds how long a PENDING hold reserves the room.
func NewStateMachine(store Store, policies PolicySource, holdTTL time.Duration) *StateMachine {
    if store == nil || policies == nil {
        panic("nil dependency passed to NewStateMachine")
    }
    return &StateMachine{Store: store, Policies: policies, HoldTTL: holdTTL, Now: func() time.Time { return time.Now().UTC() }}
}

// CreateHoldInput carries everything CreateHold needs beyond the quote.
type CreateHoldInput struct {
    HotelID    uint64
    RoomID     uint64
    GuestName  string
    GuestEmail string
    GuestPhone string
}

// CreateHold persists a new booking in PENDING with the quote frozen as
// its immutable price snapshot and a soft hold expiring HoldTTL from
// now.  Before checking availability it opportunistically retires the
// room's overdue holds through the same guarded path the sweeper uses,
// so a stale hold never blocks a live guest.
func (m *StateMachine) CreateHold(ctx context.Context, in CreateHoldInput, quote *pricing.Quote) (*model.Booking, error) {
    if quote == nil {
        return nil, &pricing.ValidationError{Field: "quote", Message: "missing"}
    }
    if in.GuestEmail == "" {
        return nil, &pricing.ValidationError{Field: "guest_email", Message: "required"}
    }
    checkIn, err := time.Parse("2006-01-02", quote.CheckIn)
    if err != nil {
        return nil, &pricing.ValidationError{Field: "check_in", Message: "malformed date"}
    }
    checkOut, err := time.Parse("2006-01-02", quote.CheckOut)
    if err != nil {
        return nil, &pricing.ValidationError{Field: "check_out", Message: "malformed date"}
    }
    now := m.Now()

    if n, err := m.Store.ExpireOverdueForRoom(ctx, in.RoomID, now); err == nil && n > 0 {
        log.Printf("booking: retired %d overdue holds for room %d before create", n, in.RoomID)
    } else if err != nil {
        return nil, err
    }

    overlap, err := m.Store.CountOverlapping(ctx, in.RoomID, checkIn, checkOut)
    if err != nil {
        return nil, err
    }
    if overlap > 0 {
        return nil, &pricing.ValidationError{Field: "room_id", Message: "room not available for these dates"}
    }

    snapshot, err := json.Marshal(quote)
    if err != nil {
        return nil, err
    }
    expires := now.Add(m.HoldTTL)
    b := &model.Booking{
        Code:              uuid.NewString(),
        HotelID:           in.HotelID,
        RoomID:            in.RoomID,
        RoomTypeID:        quote.RoomTypeID,
        GuestName:         in.GuestName,
        GuestEmail:        in.GuestEmail,
        GuestPhone:        in.GuestPhone,
        CheckIn:           checkIn,
        CheckOut:          checkOut,
        Guests:            quote.Guests,
        Status:            model.BookingPending,
        PaymentStatus:     model.PaymentPending,
        SoftHoldExpiresAt: &expires,
        TotalAmountCents:  quote.TotalCents,
        PriceBreakdown:    snapshot,
    }
    if err := m.Store.Create(ctx, b); err != nil {
        return nil, err
    }
    return b, nil
}

// Confirm moves PENDING→CONFIRMED, marking the booking paid and clearing
// its hold.  A guard miss (already confirmed, expired or cancelled) is a
// no-op success: payment webhooks are delivered at least once and a
// replay must never surface as a failure.
func (m *StateMachine) Confirm(ctx context.Context, id uint64, paymentRef string) (Outcome, error) {
    moved, err := m.Store.ConfirmIfPending(ctx, id, paymentRef)
    if err != nil {
        return OutcomeNoOp, err
    }
    if !moved {
        return OutcomeNoOp, nil
    }
    return OutcomeApplied, nil
}

// Expire moves PENDING→EXPIRED when the hold deadline has passed.  The
// store guard also covers the deadline, so a confirm racing this call
// cannot be clobbered and an expire on a non-pending row is ignored even
// if a stray timestamp is still set.
func (m *StateMachine) Expire(ctx context.Context, id uint64) (Outcome, error) {
    moved, err := m.Store.ExpireIfPending(ctx, id, m.Now())
    if err != nil {
        return OutcomeNoOp, err
    }
    if !moved {
        return OutcomeNoOp, nil
    }
    return OutcomeApplied, nil
}

// Cancel moves a PENDING or CONFIRMED booking to CANCELLED.  Pending
// holds may always be cancelled.  Confirmed bookings additionally
// require now to be before the hotel's cancellation cutoff relative to
// check-in, else ErrCancellationWindowClosed.
func (m *StateMachine) Cancel(ctx context.Context, id uint64, reason string) (Outcome, error) {
    b, err := m.Store.ByID(ctx, id)
    if err != nil {
        return OutcomeNoOp, err
    }
    switch b.Status {
    case model.BookingPending:
        moved, err := m.Store.CancelIfStatus(ctx, id, model.BookingPending, reason)
        if err != nil || !moved {
            return OutcomeNoOp, err
        }
        return OutcomeApplied, nil
    case model.BookingConfirmed:
        cutoff, err := m.Policies.CancelCutoff(ctx, b.HotelID)
        if err != nil {
            return OutcomeNoOp, err
        }
        if !m.Now().Before(model.DateOnly(b.CheckIn).Add(-cutoff)) {
            return OutcomeNoOp, ErrCancellationWindowClosed
        }
        moved, err := m.Store.CancelIfStatus(ctx, id, model.BookingConfirmed, reason)
        if err != nil || !moved {
            return OutcomeNoOp, err
        }
        return OutcomeApplied, nil
    default:
        return OutcomeNoOp, nil
    }
}

// CheckIn moves CONFIRMED→CHECKED_IN.
func (m *StateMachine) CheckIn(ctx context.Context, id uint64) (Outcome, error) {
    moved, err := m.Store.SetStatusIf(ctx, id, model.BookingConfirmed, model.BookingCheckedIn)
    if err != nil || !moved {
        return OutcomeNoOp, err
    }
    return OutcomeApplied, nil
}

// CheckOut moves CHECKED_IN→CHECKED_OUT.
func (m *StateMachine) CheckOut(ctx context.Context, id uint64) (Outcome, error) {
    moved, err := m.Store.SetStatusIf(ctx, id, model.BookingCheckedIn, model.BookingCheckedOut)
    if err != nil || !moved {
        return OutcomeNoOp, err
    }
    return OutcomeApplied, nil
}
