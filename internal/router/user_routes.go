package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/handler"
)

func registerUsers(g *echo.Group, h *handler.Handler) {
	g.GET("/users", h.ListUsers)
	g.POST("/users", h.CreateUser)
	g.GET("/users/:id", h.GetUser)
	g.PUT("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.DeleteUser)

	g.GET("/users/:id/tickets", h.UserTickets)
	g.POST("/users/:id/tickets", h.AttachUserTicket)
	g.DELETE("/users/:id/tickets/:ticket_id", h.DetachUserTicket)
}
