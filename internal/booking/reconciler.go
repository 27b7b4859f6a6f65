package booking

import (
    "context"
    "errors"
    "log"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/queue"
)

// ErrBadSignature is returned when a webhook body fails HMAC
// verification.  Such payloads are dropped without retry.
var ErrBadSignature = errors.New("webhook signature verification failed")

// ReconcileResult classifies how an event was handled.  Everything but a
// processing error is acknowledged to the gateway with success so
// at-least-once delivery stops redelivering.
type ReconcileResult int

const (
    // ReconcileApplied: the event won the confirm and was recorded.
    ReconcileApplied ReconcileResult = iota
    // ReconcileDuplicate: the booking was already paid; no side effects.
    ReconcileDuplicate
    // ReconcileRecorded: a failed attempt was appended to the audit trail.
    ReconcileRecorded
    // ReconcileDropped: malformed event (no booking correlation id).
    ReconcileDropped
    // ReconcileIgnored: unrecognized event type.
    ReconcileIgnored
)

// PublishFunc delivers a confirmation event to the broker.  Publishing
// is best effort; a broker outage never fails reconciliation.
type PublishFunc func(ctx context.Context, ev queue.BookingConfirmedEvent) error

// Reconciler consumes gateway payment notifications.  Deliveries are
// signed, at least once, and may arrive duplicated or out of order; all
// idempotency lives here and in the store guard, never in the gateway.
type Reconciler struct {
    Machine  *StateMachine
    Payments PaymentStore
    Secret   []byte
    Publish  PublishFunc
}

// NewReconciler constructs a Reconciler.  Publish may be nil to disable
// event fan-out (tests, broker-less deployments).
func NewReconciler(machine *StateMachine, payments PaymentStore, secret []byte, publish PublishFunc) *Reconciler {
    if machine == nil || payments == nil {
        panic("nil dependency passed to NewReconciler")
    }
    return &Reconciler{Machine: machine, Payments: payments, Secret: secret, Publish: publish}
}

// Process verifies, decodes and applies one webhook delivery.  The error
// return distinguishes the two non-success shapes the transport needs:
// ErrBadSignature (drop, no retry) versus any other error (processing
// failure after a valid signature, surfaced as 5xx to trigger gateway
// redelivery).
func (r *Reconciler) Process(ctx context.Context, body []byte, signature string) (ReconcileResult, error) {
    if !VerifySignature(r.Secret, body, signature) {
        return ReconcileDropped, ErrBadSignature
    }
    ev, err := ParseGatewayEvent(body)
    if err != nil {
        // Signature was valid but the body is not our schema; treat as a
        // processing failure so the gateway redelivers.
        return ReconcileDropped, err
    }
    switch e := ev.(type) {
    case PaymentSucceeded:
        return r.applySucceeded(ctx, e)
    case PaymentFailed:
        return r.applyFailed(ctx, e)
    case UnrecognizedEvent:
        log.Printf("reconciler: ignoring event id=%s type=%q", e.EventID, e.Type)
        return ReconcileIgnored, nil
    default:
        return ReconcileIgnored, nil
    }
}

func (r *Reconciler) applySucceeded(ctx context.Context, e PaymentSucceeded) (ReconcileResult, error) {
    if e.BookingID == 0 {
        log.Printf("reconciler: dropping succeeded event id=%s without booking_id metadata", e.EventID)
        return ReconcileDropped, nil
    }
    b, err := r.Machine.Store.ByID(ctx, e.BookingID)
    if err != nil {
        return ReconcileDropped, err
    }
    if b.PaymentStatus == model.PaymentPaid {
        // Duplicate delivery; the first one already did all the work.
        return ReconcileDuplicate, nil
    }

    outcome, err := r.Machine.Confirm(ctx, e.BookingID, e.ProviderRef)
    if err != nil {
        return ReconcileDropped, err
    }
    if err := r.Payments.Append(ctx, &model.Payment{
        BookingID:   e.BookingID,
        ProviderRef: e.ProviderRef,
        AmountCents: e.AmountCents,
        Currency:    e.Currency,
        Status:      model.PaymentSucceeded,
    }); err != nil {
        return ReconcileDropped, err
    }
    if outcome != OutcomeApplied {
        // Lost the race against the sweeper or a cancellation after the
        // paid check above. The payment is on record for follow-up; the
        // booking state stays untouched.
        log.Printf("reconciler: booking %d already left PENDING, payment %s recorded", e.BookingID, e.ProviderRef)
        return ReconcileDuplicate, nil
    }

    if r.Publish != nil {
        confirmed := queue.BookingConfirmedEvent{
            BookingID:        b.ID,
            Code:             b.Code,
            HotelID:          b.HotelID,
            RoomID:           b.RoomID,
            GuestEmail:       b.GuestEmail,
            CheckIn:          model.DateOnly(b.CheckIn).Format("2006-01-02"),
            CheckOut:         model.DateOnly(b.CheckOut).Format("2006-01-02"),
            TotalAmountCents: b.TotalAmountCents,
            PaymentRef:       e.ProviderRef,
            ConfirmedAt:      r.Machine.Now().Format(time.RFC3339),
        }
        if err := r.Publish(ctx, confirmed); err != nil {
            log.Printf("reconciler: publish booking.confirmed failed for %d: %v", b.ID, err)
        }
    }
    return ReconcileApplied, nil
}

// applyFailed records the attempt without touching booking status: the
// hold stays PENDING and remains eligible for a retry or for the sweep.
func (r *Reconciler) applyFailed(ctx context.Context, e PaymentFailed) (ReconcileResult, error) {
    if e.BookingID == 0 {
        log.Printf("reconciler: dropping failed event id=%s without booking_id metadata", e.EventID)
        return ReconcileDropped, nil
    }
    reason := e.Reason
    if err := r.Payments.Append(ctx, &model.Payment{
        BookingID:     e.BookingID,
        ProviderRef:   e.ProviderRef,
        AmountCents:   e.AmountCents,
        Currency:      e.Currency,
        Status:        model.PaymentAttemptFailed,
        FailureReason: &reason,
    }); err != nil {
        return ReconcileDropped, err
    }
    return ReconcileRecorded, nil
}
