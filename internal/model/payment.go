package model

import "time"

// PaymentOutcome enumerates payments.status.  Rows are an append-only
// audit trail; a booking accumulates one row per gateway attempt.
type PaymentOutcome string

const (
    PaymentSucceeded     PaymentOutcome = "SUCCEEDED"
    PaymentAttemptFailed PaymentOutcome = "FAILED"
)

// Payment is one recorded gateway attempt for a booking.  Rows are only
// ever inserted, never updated; retries produce additional rows.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – booking the attempt belongs to.
//  ProviderRef   – external gateway reference for the attempt.
//  AmountCents   – charged amount in cents.
//  Currency      – ISO currency code.
//  Status        – SUCCEEDED or FAILED.
//  FailureReason – gateway-supplied reason for failed attempts.
type Payment struct {
    ID            uint64         // payments.id
    BookingID     uint64         // payments.booking_id
    ProviderRef   string         // payments.provider_ref
    AmountCents   int64          // payments.amount_cents
    Currency      string         // payments.currency
    Status        PaymentOutcome // payments.status
    FailureReason *string        // payments.failure_reason (nullable)
    CreatedAt     time.Time      // payments.created_at
}
