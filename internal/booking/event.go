package booking

import (
    "crypto/hmac"
    "crypto/sha256"
    "encoding/hex"
    "encoding/json"
    "strconv"
    "strings"
)

// GatewayEvent is the decoded form of an inbound payment notification.
// The webhook body is duck-typed on the wire; at the boundary it is
// decoded into exactly one of PaymentSucceeded, PaymentFailed or
// UnrecognizedEvent so downstream code never re-inspects raw JSON.
type GatewayEvent interface{ isGatewayEvent() }

// PaymentSucceeded reports a completed charge.  BookingID is zero when
// the event metadata did not carry a correlation id.
type PaymentSucceeded struct {
    EventID     string
    ProviderRef string
    BookingID   uint64
    AmountCents int64
    Currency    string
}

// PaymentFailed reports a failed charge attempt.
type PaymentFailed struct {
    EventID     string
    ProviderRef string
    BookingID   uint64
    AmountCents int64
    Currency    string
    Reason      string
}

// UnrecognizedEvent is any event type this core does not handle.  It is
// acknowledged and ignored, not treated as an error.
type UnrecognizedEvent struct {
    EventID string
    Type    string
}

func (PaymentSucceeded) isGatewayEvent()  {}
func (PaymentFailed) isGatewayEvent()     {}
func (UnrecognizedEvent) isGatewayEvent() {}

// wireEvent mirrors the gateway's JSON envelope.
type wireEvent struct {
    ID   string `json:"id"`
    Type string `json:"type"`
    Data struct {
        PaymentRef  string            `json:"payment_ref"`
        AmountCents int64             `json:"amount_cents"`
        Currency    string            `json:"currency"`
        Reason      string            `json:"reason"`
        Metadata    map[string]string `json:"metadata"`
    } `json:"data"`
}

// ParseGatewayEvent decodes a webhook body into its tagged variant.  An
// undecodable body is a malformed payload error; an unknown event type
// is not.
func ParseGatewayEvent(body []byte) (GatewayEvent, error) {
    var w wireEvent
    if err := json.Unmarshal(body, &w); err != nil {
        return nil, err
    }
    bookingID, _ := strconv.ParseUint(strings.TrimSpace(w.Data.Metadata["booking_id"]), 10, 64)
    switch w.Type {
    case "payment.succeeded":
        return PaymentSucceeded{
            EventID:     w.ID,
            ProviderRef: w.Data.PaymentRef,
            BookingID:   bookingID,
            AmountCents: w.Data.AmountCents,
            Currency:    w.Data.Currency,
        }, nil
    case "payment.failed":
        return PaymentFailed{
            EventID:     w.ID,
            ProviderRef: w.Data.PaymentRef,
            BookingID:   bookingID,
            AmountCents: w.Data.AmountCents,
            Currency:    w.Data.Currency,
            Reason:      w.Data.Reason,
        }, nil
    default:
        return UnrecognizedEvent{EventID: w.ID, Type: w.Type}, nil
    }
}

// SignPayload computes the hex HMAC-SHA256 the gateway attaches in its
// signature header.  Exposed so tests and tooling can produce valid
// signatures.
func SignPayload(secret, body []byte) string {
    mac := hmac.New(sha256.New, secret)
    mac.Write(body)
    return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook body against the signature header in
// constant time.
func VerifySignature(secret, body []byte, signature string) bool {
    expected, err := hex.DecodeString(strings.TrimSpace(signature))
    if err != nil {
        return false
    }
    mac := hmac.New(sha256.New, secret)
    mac.Write(body)
    return hmac.Equal(mac.Sum(nil), expected)
}
