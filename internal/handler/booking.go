package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/gateway"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/repository"
)

// BookingHandler serves guest reservation endpoints: hold creation,
// lookup by confirmation code and cancellation.  JWT authentication is
// applied by middleware before any of these run.
type BookingHandler struct {
    Machine    *booking.StateMachine
    Calculator *pricing.Calculator
    Rooms      *repository.RoomRepo
    RoomTypes  *repository.RoomTypeRepo
    Payments   *repository.PaymentRepo
    Gateway    *gateway.Client
    Currency   string
}

// NewBookingHandler constructs a BookingHandler with its dependencies.
func NewBookingHandler(machine *booking.StateMachine, calc *pricing.Calculator, rooms *repository.RoomRepo, roomTypes *repository.RoomTypeRepo, payments *repository.PaymentRepo, gw *gateway.Client, currency string) *BookingHandler {
    if machine == nil || calc == nil || rooms == nil || roomTypes == nil || payments == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Machine: machine, Calculator: calc, Rooms: rooms, RoomTypes: roomTypes, Payments: payments, Gateway: gw, Currency: currency}
}

type createBookingRequest struct {
    RoomID     uint64 `json:"room_id"`
    CheckIn    string `json:"check_in"`
    CheckOut   string `json:"check_out"`
    Guests     int    `json:"guests"`
    GuestName  string `json:"guest_name"`
    GuestEmail string `json:"guest_email"`
    GuestPhone string `json:"guest_phone"`
}

// CreateBooking handles POST /v1/bookings.  It prices the stay, creates
// a pending hold with the quote frozen as its snapshot, then opens a
// payment intent at the gateway.  A gateway timeout leaves the hold in
// place with an unknown payment outcome; the booking only ever becomes
// paid through a verified webhook, never from this request path.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    var req createBookingRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.RoomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
    }
    checkIn, err := time.Parse(dateLayout, req.CheckIn)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
    }
    checkOut, err := time.Parse(dateLayout, req.CheckOut)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
    }

    ctx := c.Request().Context()
    room, err := h.Rooms.ByID(ctx, req.RoomID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    rt, err := h.RoomTypes.ByID(ctx, room.RoomTypeID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if req.Guests > rt.MaxGuests {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests exceeds room type capacity", "field": "guests"})
    }

    quote, err := h.Calculator.Quote(ctx, room.RoomTypeID, checkIn, checkOut, req.Guests)
    if err != nil {
        if ve := pricing.AsValidation(err); ve != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
        }
        if errors.Is(err, pricing.ErrNoRateAvailable) {
            return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no rate available for the requested stay"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to price stay"})
    }

    b, err := h.Machine.CreateHold(ctx, booking.CreateHoldInput{
        HotelID:    room.HotelID,
        RoomID:     room.ID,
        GuestName:  req.GuestName,
        GuestEmail: req.GuestEmail,
        GuestPhone: req.GuestPhone,
    }, quote)
    if err != nil {
        if ve := pricing.AsValidation(err); ve != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
    }

    resp := echo.Map{
        "booking": bookingResponse(b),
        "quote":   quote,
    }
    if h.Gateway != nil {
        intent, err := h.Gateway.CreateIntent(ctx, b.ID, b.TotalAmountCents, h.Currency)
        if err != nil {
            // Unknown gateway outcome: keep the hold, let the guest retry
            // payment before the hold expires.
            c.Logger().Warnf("payment intent for booking %d failed: %v", b.ID, err)
        } else {
            resp["payment_intent"] = intent
        }
    }
    return c.JSON(http.StatusCreated, resp)
}

// GetBooking handles GET /v1/bookings/:code.  The response includes the
// payment attempt trail so a guest can see a declined attempt alongside
// the still-pending hold.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    ctx := c.Request().Context()
    b, err := h.Machine.Store.ByCode(ctx, c.Param("code"))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    attempts, err := h.Payments.ListByBooking(ctx, b.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "booking":  bookingResponse(b),
        "payments": paymentResponses(attempts),
    })
}

func paymentResponses(rows []model.Payment) []echo.Map {
    out := make([]echo.Map, 0, len(rows))
    for _, p := range rows {
        entry := echo.Map{
            "provider_ref": p.ProviderRef,
            "amount_cents": p.AmountCents,
            "currency":     p.Currency,
            "status":       p.Status,
            "created_at":   p.CreatedAt.UTC().Format(time.RFC3339),
        }
        if p.FailureReason != nil {
            entry["failure_reason"] = *p.FailureReason
        }
        out = append(out, entry)
    }
    return out
}

type cancelRequest struct {
    Reason string `json:"reason"`
}

// CancelBooking handles DELETE /v1/bookings/:code.  Pending holds may
// always be cancelled; confirmed bookings only before the hotel's
// cancellation cutoff, which maps to 409 once closed.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    ctx := c.Request().Context()
    b, err := h.Machine.Store.ByCode(ctx, c.Param("code"))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    var req cancelRequest
    _ = c.Bind(&req)

    outcome, err := h.Machine.Cancel(ctx, b.ID, req.Reason)
    if err != nil {
        if errors.Is(err, booking.ErrCancellationWindowClosed) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "cancellation window closed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
    }
    if outcome == booking.OutcomeNoOp {
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking can no longer be cancelled"})
    }
    return c.NoContent(http.StatusNoContent)
}

// bookingResponse shapes a booking for JSON output without exposing
// internal columns.
func bookingResponse(b *model.Booking) echo.Map {
    resp := echo.Map{
        "code":               b.Code,
        "hotel_id":           b.HotelID,
        "room_id":            b.RoomID,
        "room_type_id":       b.RoomTypeID,
        "check_in":           model.DateOnly(b.CheckIn).Format(dateLayout),
        "check_out":          model.DateOnly(b.CheckOut).Format(dateLayout),
        "guests":             b.Guests,
        "nights":             b.Nights(),
        "status":             b.Status,
        "payment_status":     b.PaymentStatus,
        "total_amount_cents": b.TotalAmountCents,
    }
    if b.SoftHoldExpiresAt != nil {
        resp["hold_expires_at"] = b.SoftHoldExpiresAt.UTC().Format(time.RFC3339)
    }
    return resp
}
