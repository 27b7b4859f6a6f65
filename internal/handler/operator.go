package handler

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/repository"
)

// OperatorHandler serves front-desk and revenue-management endpoints:
// check-in/check-out transitions and bulk rate-plan updates.  Routes
// are gated to the OPERATOR role by middleware; the operator's hotel id
// travels in the JWT "hotel_id" claim and scopes bulk updates.
type OperatorHandler struct {
    Machine *booking.StateMachine
    Bulk    *pricing.BulkUpdater
}

// NewOperatorHandler constructs an OperatorHandler.
func NewOperatorHandler(machine *booking.StateMachine, bulk *pricing.BulkUpdater) *OperatorHandler {
    if machine == nil || bulk == nil {
        panic("nil dependency passed to NewOperatorHandler")
    }
    return &OperatorHandler{Machine: machine, Bulk: bulk}
}

// hotelID extracts the operator's hotel scope from the JWT claims
// stored in context by the auth middleware.
func hotelID(c echo.Context) (uint64, error) {
    switch v := c.Get("hotel_id").(type) {
    case float64:
        return uint64(v), nil
    case string:
        if n, err := strconv.ParseUint(v, 10, 64); err == nil {
            return n, nil
        }
    case uint64:
        return v, nil
    }
    return 0, errors.New("missing hotel_id claim")
}

// transition looks the booking up by code and applies one guarded state
// change, mapping a guard miss to 409.
func (h *OperatorHandler) transition(c echo.Context, apply func(ctx echo.Context, id uint64) (booking.Outcome, error)) error {
    b, err := h.Machine.Store.ByCode(c.Request().Context(), c.Param("code"))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    outcome, err := apply(c, b.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
    }
    if outcome == booking.OutcomeNoOp {
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not in the required state"})
    }
    return c.JSON(http.StatusOK, echo.Map{"code": b.Code, "status": "updated"})
}

// CheckIn handles POST /v1/operator/bookings/:code/check-in.
func (h *OperatorHandler) CheckIn(c echo.Context) error {
    return h.transition(c, func(c echo.Context, id uint64) (booking.Outcome, error) {
        return h.Machine.CheckIn(c.Request().Context(), id)
    })
}

// CheckOut handles POST /v1/operator/bookings/:code/check-out.
func (h *OperatorHandler) CheckOut(c echo.Context) error {
    return h.transition(c, func(c echo.Context, id uint64) (booking.Outcome, error) {
        return h.Machine.CheckOut(c.Request().Context(), id)
    })
}

type bulkUpdateRequest struct {
    StartDate string             `json:"start_date"`
    EndDate   string             `json:"end_date"`
    Updates   []pricing.BulkItem `json:"updates"`
}

// BulkUpdateRates handles POST /v1/operator/rate-plans/bulk.  The batch
// is validated structurally up front; per-plan failures are isolated
// and reported, so a partial success responds 207 rather than hiding
// the failed items.
func (h *OperatorHandler) BulkUpdateRates(c echo.Context) error {
    hid, err := hotelID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req bulkUpdateRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    start, err := time.Parse(dateLayout, req.StartDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
    }
    end, err := time.Parse(dateLayout, req.EndDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
    }

    result, err := h.Bulk.Apply(c.Request().Context(), pricing.BulkRequest{
        HotelID:   hid,
        StartDate: start,
        EndDate:   end,
        Items:     req.Updates,
    })
    if err != nil {
        if ve := pricing.AsValidation(err); ve != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to apply updates"})
    }
    status := http.StatusOK
    if len(result.Errors) > 0 {
        status = http.StatusMultiStatus
    }
    return c.JSON(status, echo.Map{
        "success":       len(result.Errors) == 0,
        "updated_count": result.UpdatedCount,
        "results":       result.Results,
        "errors":        result.Errors,
    })
}
