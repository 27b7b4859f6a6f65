// Package gateway is the outbound payment-gateway client.  Inbound
// notifications (webhooks) are handled by the booking reconciler; this
// client only creates charge intents correlated to bookings.
package gateway

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "time"

    "github.com/google/uuid"
)

// ErrUnknownOutcome is returned when the gateway call timed out or the
// response could not be read.  The charge may or may not exist; callers
// must never treat this as success.  A booking is only ever marked paid
// by a verified gateway notification, not by this client.
var ErrUnknownOutcome = errors.New("payment gateway outcome unknown")

// Intent is the gateway's handle for a pending charge.  ClientSecret is
// passed to the guest's client to complete payment.
type Intent struct {
    Ref          string `json:"ref"`
    ClientSecret string `json:"client_secret"`
}

// Client calls the payment gateway with a bounded timeout.
type Client struct {
    baseURL string
    apiKey  string
    http    *http.Client
}

// New constructs a Client.  Timeout bounds every outbound call.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
    if timeout <= 0 {
        timeout = 10 * time.Second
    }
    return &Client{
        baseURL: baseURL,
        apiKey:  apiKey,
        http:    &http.Client{Timeout: timeout},
    }
}

type intentRequest struct {
    AmountCents    int64             `json:"amount_cents"`
    Currency       string            `json:"currency"`
    IdempotencyKey string            `json:"idempotency_key"`
    Metadata       map[string]string `json:"metadata"`
}

// CreateIntent asks the gateway to open a charge for a booking.  The
// booking id travels in metadata so the webhook can correlate the
// asynchronous outcome back to the hold.  A fresh idempotency key makes
// accidental double submission on retries safe on the gateway side.
func (c *Client) CreateIntent(ctx context.Context, bookingID uint64, amountCents int64, currency string) (*Intent, error) {
    payload := intentRequest{
        AmountCents:    amountCents,
        Currency:       currency,
        IdempotencyKey: uuid.NewString(),
        Metadata:       map[string]string{"booking_id": fmt.Sprintf("%d", bookingID)},
    }
    body, err := json.Marshal(payload)
    if err != nil {
        return nil, err
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/intents", bytes.NewReader(body))
    if err != nil {
        return nil, err
    }
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("Authorization", "Bearer "+c.apiKey)

    resp, err := c.http.Do(req)
    if err != nil {
        // Timeouts and transport failures leave the charge in an unknown
        // state; surface that explicitly instead of guessing.
        return nil, fmt.Errorf("%w: %v", ErrUnknownOutcome, err)
    }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
        return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
    }
    var intent Intent
    if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
        return nil, fmt.Errorf("%w: decoding response: %v", ErrUnknownOutcome, err)
    }
    return &intent, nil
}
