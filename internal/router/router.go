package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/handler"
)

// RegisterRoutes registers the health check and every /v1 route.  The
// middleware in mw (rate limiting, response cache) wraps the /v1 group
// only, so health probes are never limited or cached.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, mw ...echo.MiddlewareFunc) {
	e.GET("/healthz", h.Health)

	v1 := e.Group("/v1", mw...)
	registerEvents(v1, h)
	registerUsers(v1, h)
	registerTickets(v1, h)
}
