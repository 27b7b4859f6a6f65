package handler

import (
    "crypto/subtle"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/booking"
)

// sweepSecretHeader authenticates the external scheduler.
const sweepSecretHeader = "X-Sweep-Secret"

// SweepHandler exposes the hold-expiration sweep to an external timer.
// The endpoint is idempotent and safe under duplicate or concurrent
// invocation; correctness comes from the store guard, not from this
// layer.
type SweepHandler struct {
    Sweeper *booking.Sweeper
    Secret  string
}

// NewSweepHandler constructs a SweepHandler.
func NewSweepHandler(sweeper *booking.Sweeper, secret string) *SweepHandler {
    if sweeper == nil {
        panic("nil sweeper passed to NewSweepHandler")
    }
    return &SweepHandler{Sweeper: sweeper, Secret: secret}
}

// Run handles POST /v1/internal/sweep.
func (h *SweepHandler) Run(c echo.Context) error {
    provided := c.Request().Header.Get(sweepSecretHeader)
    if subtle.ConstantTimeCompare([]byte(provided), []byte(h.Secret)) != 1 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    result, err := h.Sweeper.Run(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sweep failed"})
    }
    return c.JSON(http.StatusOK, result)
}
