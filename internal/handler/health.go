package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by load balancers and monitoring.
// It also reports which ticket rollback mode the service runs with.
func (h *Handler) Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "status":        "ok",
        "rollback_mode": h.Svc.RollbackMode().String(),
    })
}
