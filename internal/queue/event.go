// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after payment reconciliation wins
// the PENDING→CONFIRMED transition.  It carries enough for downstream
// consumers to log or notify without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID        uint64 `json:"booking_id"`
    Code             string `json:"code"`
    HotelID          uint64 `json:"hotel_id"`
    RoomID           uint64 `json:"room_id"`
    GuestEmail       string `json:"guest_email"`
    CheckIn          string `json:"check_in"`
    CheckOut         string `json:"check_out"`
    TotalAmountCents int64  `json:"total_amount_cents"`
    PaymentRef       string `json:"payment_ref"`
    ConfirmedAt      string `json:"confirmed_at"`
}
