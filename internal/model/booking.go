package model

import (
    "encoding/json"
    "time"
)

// BookingStatus enumerates the reservation lifecycle states persisted in
// bookings.status.  Transitions between states are owned by the booking
// state machine; nothing else writes this column.
type BookingStatus string

const (
    BookingPending    BookingStatus = "PENDING"
    BookingConfirmed  BookingStatus = "CONFIRMED"
    BookingCheckedIn  BookingStatus = "CHECKED_IN"
    BookingCheckedOut BookingStatus = "CHECKED_OUT"
    BookingCancelled  BookingStatus = "CANCELLED"
    BookingExpired    BookingStatus = "EXPIRED"
    BookingNoShow     BookingStatus = "NO_SHOW"
)

// PaymentState enumerates bookings.payment_status.  PAID is only ever set
// together with the PENDING→CONFIRMED transition; a REFUNDED refinement
// may still apply to a cancelled booking.
type PaymentState string

const (
    PaymentPending  PaymentState = "PENDING"
    PaymentPaid     PaymentState = "PAID"
    PaymentFailed   PaymentState = "FAILED"
    PaymentRefunded PaymentState = "REFUNDED"
)

// Booking records a guest's reservation of a room for a date range.
// A booking starts as a soft hold: status PENDING with a non-null
// SoftHoldExpiresAt.  Exactly one of payment reconciliation, the hold
// sweeper or an explicit cancellation terminates the hold.  The price
// breakdown captured at creation is immutable; later rate-plan changes
// never reprice an existing booking.
//
// Fields:
//  ID                – primary key identifier.
//  Code              – opaque unique confirmation code handed to the guest.
//  HotelID           – hotel being booked.
//  RoomID            – room being booked.
//  RoomTypeID        – room type used for pricing.
//  GuestName         – contact snapshot taken at creation.
//  GuestEmail        – contact snapshot taken at creation.
//  GuestPhone        – contact snapshot taken at creation.
//  CheckIn           – arrival date (inclusive).
//  CheckOut          – departure date (exclusive).
//  Guests            – number of guests.
//  Status            – lifecycle state, see BookingStatus.
//  PaymentStatus     – payment refinement, see PaymentState.
//  SoftHoldExpiresAt – hold deadline; non-nil iff Status is PENDING.
//  TotalAmountCents  – total of the snapshot, in cents.
//  PriceBreakdown    – itemized quote JSON frozen at creation.
//  PaymentRef        – external gateway reference once paid.
//  CancelReason      – operator or guest supplied reason, if cancelled.
type Booking struct {
    ID                uint64          // bookings.id
    Code              string          // bookings.code
    HotelID           uint64          // bookings.hotel_id
    RoomID            uint64          // bookings.room_id
    RoomTypeID        uint64          // bookings.room_type_id
    GuestName         string          // bookings.guest_name
    GuestEmail        string          // bookings.guest_email
    GuestPhone        string          // bookings.guest_phone
    CheckIn           time.Time       // bookings.check_in (DATE)
    CheckOut          time.Time       // bookings.check_out (DATE)
    Guests            int             // bookings.guests
    Status            BookingStatus   // bookings.status
    PaymentStatus     PaymentState    // bookings.payment_status
    SoftHoldExpiresAt *time.Time      // bookings.soft_hold_expires_at (nullable)
    TotalAmountCents  int64           // bookings.total_amount_cents
    PriceBreakdown    json.RawMessage // bookings.price_breakdown (JSON)
    PaymentRef        *string         // bookings.payment_ref (nullable)
    CancelReason      *string         // bookings.cancel_reason (nullable)
    CreatedAt         time.Time       // bookings.created_at
    UpdatedAt         time.Time       // bookings.updated_at
}

// Nights returns the number of nights between check-in and check-out.
func (b *Booking) Nights() int {
    return int(DateOnly(b.CheckOut).Sub(DateOnly(b.CheckIn)) / (24 * time.Hour))
}
