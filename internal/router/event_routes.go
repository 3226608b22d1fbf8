package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/handler"
)

// registerEvents maps /v1/events.  Attendees and tickets are sub-resources
// of an event; removing an attendee is not supported.
func registerEvents(g *echo.Group, h *handler.Handler) {
	g.GET("/events", h.ListEvents)
	g.POST("/events", h.CreateEvent)
	g.GET("/events/:id", h.GetEvent)
	g.PUT("/events/:id", h.UpdateEvent)
	g.DELETE("/events/:id", h.DeleteEvent)

	g.GET("/events/:id/attendees", h.EventAttendees)
	g.POST("/events/:id/attendees", h.AttachAttendee)
	g.GET("/events/:id/tickets", h.EventTickets)
	g.POST("/events/:id/tickets", h.AttachEventTicket)
	g.DELETE("/events/:id/tickets/:ticket_id", h.DetachEventTicket)
}
