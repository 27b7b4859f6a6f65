package handler

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
)

var webhookSecret = []byte("whsec_handler_test")

// stubStore satisfies booking.Store with empty data; webhook transport
// tests only exercise paths that stop before real persistence.
type stubStore struct{}

func (stubStore) Create(context.Context, *model.Booking) error { return nil }
func (stubStore) ByID(context.Context, uint64) (*model.Booking, error) {
    return nil, repository.ErrNotFound
}
func (stubStore) ByCode(context.Context, string) (*model.Booking, error) {
    return nil, repository.ErrNotFound
}
func (stubStore) ConfirmIfPending(context.Context, uint64, string) (bool, error) { return false, nil }
func (stubStore) ExpireIfPending(context.Context, uint64, time.Time) (bool, error) {
    return false, nil
}
func (stubStore) CancelIfStatus(context.Context, uint64, model.BookingStatus, string) (bool, error) {
    return false, nil
}
func (stubStore) SetStatusIf(context.Context, uint64, model.BookingStatus, model.BookingStatus) (bool, error) {
    return false, nil
}
func (stubStore) ListExpiredPending(context.Context, time.Time) ([]model.Booking, error) {
    return nil, nil
}
func (stubStore) CountOverlapping(context.Context, uint64, time.Time, time.Time) (int, error) {
    return 0, nil
}
func (stubStore) ExpireOverdueForRoom(context.Context, uint64, time.Time) (int, error) {
    return 0, nil
}

type stubPayments struct{ appended int }

func (p *stubPayments) Append(context.Context, *model.Payment) error {
    p.appended++
    return nil
}

type stubPolicy struct{}

func (stubPolicy) CancelCutoff(context.Context, uint64) (time.Duration, error) {
    return 24 * time.Hour, nil
}

func postWebhook(h *WebhookHandler, body, signature string) *httptest.ResponseRecorder {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    if signature != "" {
        req.Header.Set(signatureHeader, signature)
    }
    rec := httptest.NewRecorder()
    _ = h.HandlePaymentEvent(e.NewContext(req, rec))
    return rec
}

func newWebhookHandler(pay *stubPayments) *WebhookHandler {
    machine := booking.NewStateMachine(stubStore{}, stubPolicy{}, 15*time.Minute)
    return NewWebhookHandler(booking.NewReconciler(machine, pay, webhookSecret, nil))
}

func TestHandlePaymentEventBadSignature(t *testing.T) {
    h := newWebhookHandler(&stubPayments{})
    body := `{"id":"evt_1","type":"payment.succeeded","data":{}}`
    rec := postWebhook(h, body, "deadbeef")
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("status = %d, want 400", rec.Code)
    }
    rec = postWebhook(h, body, "")
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("missing header status = %d, want 400", rec.Code)
    }
}

func TestHandlePaymentEventUnrecognizedTypeAcked(t *testing.T) {
    h := newWebhookHandler(&stubPayments{})
    body := `{"id":"evt_2","type":"customer.updated","data":{}}`
    rec := postWebhook(h, body, booking.SignPayload(webhookSecret, []byte(body)))
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, want 200", rec.Code)
    }
}

func TestHandlePaymentEventMalformedBodyIs500(t *testing.T) {
    h := newWebhookHandler(&stubPayments{})
    body := `{"id":`
    rec := postWebhook(h, body, booking.SignPayload(webhookSecret, []byte(body)))
    if rec.Code != http.StatusInternalServerError {
        t.Fatalf("status = %d, want 500 so the gateway redelivers", rec.Code)
    }
}

func TestHandlePaymentEventFailedAttemptAcked(t *testing.T) {
    pay := &stubPayments{}
    h := newWebhookHandler(pay)
    body := `{"id":"evt_3","type":"payment.failed","data":{"payment_ref":"pi_1","reason":"card_declined","metadata":{"booking_id":"8"}}}`
    rec := postWebhook(h, body, booking.SignPayload(webhookSecret, []byte(body)))
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, want 200", rec.Code)
    }
    if pay.appended != 1 {
        t.Fatalf("payment rows = %d, want 1", pay.appended)
    }
}

func TestHandlePaymentEventUnknownBookingIs500(t *testing.T) {
    h := newWebhookHandler(&stubPayments{})
    body := `{"id":"evt_4","type":"payment.succeeded","data":{"payment_ref":"pi_1","metadata":{"booking_id":"404"}}}`
    rec := postWebhook(h, body, booking.SignPayload(webhookSecret, []byte(body)))
    if rec.Code != http.StatusInternalServerError {
        t.Fatalf("status = %d, want 500", rec.Code)
    }
}
