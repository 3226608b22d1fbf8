package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// ListEvents handles GET /v1/events.
func (h *Handler) ListEvents(c echo.Context) error {
    events, err := h.Svc.ListEvents(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, items(events))
}

// CreateEvent handles POST /v1/events.
func (h *Handler) CreateEvent(c echo.Context) error {
    var p model.EventPayload
    if err := c.Bind(&p); err != nil {
        return badRequest(c, "invalid request body")
    }
    e, err := h.Svc.CreateEvent(c.Request().Context(), p)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, e)
}

// GetEvent handles GET /v1/events/:id.
func (h *Handler) GetEvent(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    e, err := h.Svc.GetEvent(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, e)
}

// UpdateEvent handles PUT /v1/events/:id.  Attendee and ticket links are
// kept whatever the body says.
func (h *Handler) UpdateEvent(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    var p model.EventPayload
    if err := c.Bind(&p); err != nil {
        return badRequest(c, "invalid request body")
    }
    e, err := h.Svc.UpdateEvent(c.Request().Context(), id, p)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, e)
}

// DeleteEvent handles DELETE /v1/events/:id.  Tickets for the event are
// left in place.
func (h *Handler) DeleteEvent(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    if err := h.Svc.DeleteEvent(c.Request().Context(), id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// EventAttendees handles GET /v1/events/:id/attendees.
func (h *Handler) EventAttendees(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    users, err := h.Svc.EventAttendees(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, items(users))
}

// AttachAttendee handles POST /v1/events/:id/attendees with {"user_id": n}.
func (h *Handler) AttachAttendee(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    var body struct {
        UserID *uint64 `json:"user_id"`
    }
    if err := c.Bind(&body); err != nil || body.UserID == nil {
        return badRequest(c, "user_id is required")
    }
    e, err := h.Svc.AttachAttendee(c.Request().Context(), id, *body.UserID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, e)
}

// EventTickets handles GET /v1/events/:id/tickets.
func (h *Handler) EventTickets(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    tickets, err := h.Svc.EventTickets(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, items(tickets))
}

// AttachEventTicket handles POST /v1/events/:id/tickets with {"ticket_id": n}.
func (h *Handler) AttachEventTicket(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    var body struct {
        TicketID *uint64 `json:"ticket_id"`
    }
    if err := c.Bind(&body); err != nil || body.TicketID == nil {
        return badRequest(c, "ticket_id is required")
    }
    e, err := h.Svc.AttachEventTicket(c.Request().Context(), id, *body.TicketID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, e)
}

// DetachEventTicket handles DELETE /v1/events/:id/tickets/:ticket_id.
func (h *Handler) DetachEventTicket(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    ticketID, err := paramID(c, "ticket_id")
    if err != nil {
        return badRequest(c, "invalid ticket_id")
    }
    e, err := h.Svc.DetachEventTicket(c.Request().Context(), id, ticketID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, e)
}
