package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/handler"
)

// registerTickets maps /v1/tickets.  POST runs the full creation protocol
// and links the ticket from its user and event.
func registerTickets(g *echo.Group, h *handler.Handler) {
	g.GET("/tickets", h.ListTickets)
	g.POST("/tickets", h.CreateTicket)
	g.GET("/tickets/:id", h.GetTicket)
	g.PUT("/tickets/:id", h.UpdateTicket)
	g.DELETE("/tickets/:id", h.DeleteTicket)
}
