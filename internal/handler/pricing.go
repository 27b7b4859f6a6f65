package handler

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/repository"
)

// PricingHandler serves the public quote endpoint.  Quotes are pure
// reads; the response is cacheable and carries the full itemized
// breakdown a client needs to display before creating a hold.
type PricingHandler struct {
    Calculator *pricing.Calculator
    RoomTypes  *repository.RoomTypeRepo
}

// NewPricingHandler constructs a PricingHandler.
func NewPricingHandler(calc *pricing.Calculator, roomTypes *repository.RoomTypeRepo) *PricingHandler {
    if calc == nil || roomTypes == nil {
        panic("nil dependency passed to NewPricingHandler")
    }
    return &PricingHandler{Calculator: calc, RoomTypes: roomTypes}
}

const dateLayout = "2006-01-02"

// parseDateParam parses a required YYYY-MM-DD query parameter.
func parseDateParam(c echo.Context, name string) (time.Time, *pricing.ValidationError) {
    raw := c.QueryParam(name)
    if raw == "" {
        return time.Time{}, &pricing.ValidationError{Field: name, Message: "required"}
    }
    t, err := time.Parse(dateLayout, raw)
    if err != nil {
        return time.Time{}, &pricing.ValidationError{Field: name, Message: "must be YYYY-MM-DD"}
    }
    return t, nil
}

// GetQuote handles GET /v1/quotes.  Query parameters: room_type_id,
// check_in, check_out, guests.  Responds 200 with the breakdown, 400
// with a structured validation error, or 422 when no rate covers the
// stay.
func (h *PricingHandler) GetQuote(c echo.Context) error {
    roomTypeID, err := strconv.ParseUint(c.QueryParam("room_type_id"), 10, 64)
    if err != nil || roomTypeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_type_id"})
    }
    checkIn, verr := parseDateParam(c, "check_in")
    if verr != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error(), "field": verr.Field})
    }
    checkOut, verr := parseDateParam(c, "check_out")
    if verr != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error(), "field": verr.Field})
    }
    guests, err := strconv.Atoi(c.QueryParam("guests"))
    if err != nil {
        guests = 1
    }

    ctx := c.Request().Context()
    rt, err := h.RoomTypes.ByID(ctx, roomTypeID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if guests > rt.MaxGuests {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests exceeds room type capacity", "field": "guests"})
    }

    quote, err := h.Calculator.Quote(ctx, roomTypeID, checkIn, checkOut, guests)
    if err != nil {
        if ve := pricing.AsValidation(err); ve != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
        }
        if errors.Is(err, pricing.ErrNoRateAvailable) {
            return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no rate available for the requested stay"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to price stay"})
    }
    return c.JSON(http.StatusOK, quote)
}
