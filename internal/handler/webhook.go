package handler

import (
    "errors"
    "io"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/booking"
)

// signatureHeader carries the gateway's hex HMAC-SHA256 of the body.
const signatureHeader = "X-Gateway-Signature"

// WebhookHandler receives payment gateway notifications.  The response
// codes implement the at-least-once contract: a bad signature is 400
// and will not be retried; a processing failure after a valid signature
// is 500 so the gateway redelivers; everything else (applied,
// duplicate, unrecognized, missing correlation id) acknowledges with
// 200 to stop redelivery.
type WebhookHandler struct {
    Reconciler *booking.Reconciler
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(rec *booking.Reconciler) *WebhookHandler {
    if rec == nil {
        panic("nil reconciler passed to NewWebhookHandler")
    }
    return &WebhookHandler{Reconciler: rec}
}

// HandlePaymentEvent handles POST /v1/webhooks/payment.
func (h *WebhookHandler) HandlePaymentEvent(c echo.Context) error {
    body, err := io.ReadAll(c.Request().Body)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
    }
    result, err := h.Reconciler.Process(c.Request().Context(), body, c.Request().Header.Get(signatureHeader))
    if err != nil {
        if errors.Is(err, booking.ErrBadSignature) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid signature"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to process event"})
    }
    switch result {
    case booking.ReconcileApplied:
        return c.JSON(http.StatusOK, echo.Map{"received": true, "applied": true})
    case booking.ReconcileDuplicate:
        return c.JSON(http.StatusOK, echo.Map{"received": true, "duplicate": true})
    default:
        return c.JSON(http.StatusOK, echo.Map{"received": true})
    }
}
