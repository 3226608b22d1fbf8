package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// ListUsers handles GET /v1/users.
func (h *Handler) ListUsers(c echo.Context) error {
    users, err := h.Svc.ListUsers(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, items(users))
}

// CreateUser handles POST /v1/users.  The password is stored as given.
func (h *Handler) CreateUser(c echo.Context) error {
    var p model.UserPayload
    if err := c.Bind(&p); err != nil {
        return badRequest(c, "invalid request body")
    }
    u, err := h.Svc.CreateUser(c.Request().Context(), p)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, u)
}

func (h *Handler) GetUser(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    u, err := h.Svc.GetUser(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateUser(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    var p model.UserPayload
    if err := c.Bind(&p); err != nil {
        return badRequest(c, "invalid request body")
    }
    u, err := h.Svc.UpdateUser(c.Request().Context(), id, p)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, u)
}

// DeleteUser handles DELETE /v1/users/:id.  The user's tickets and
// attendee entries are left in place.
func (h *Handler) DeleteUser(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    if err := h.Svc.DeleteUser(c.Request().Context(), id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// UserTickets handles GET /v1/users/:id/tickets.
func (h *Handler) UserTickets(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    tickets, err := h.Svc.UserTickets(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, items(tickets))
}

// AttachUserTicket handles POST /v1/users/:id/tickets with {"ticket_id": n}.
func (h *Handler) AttachUserTicket(c echo.Context) error {
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
    u, err := h.Svc.AttachUserTicket(c.Request().Context(), id, *body.TicketID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, u)
}

// DetachUserTicket handles DELETE /v1/users/:id/tickets/:ticket_id.  Every
// occurrence of the ticket is removed from the user's list.
func (h *Handler) DetachUserTicket(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    ticketID, err := paramID(c, "ticket_id")
    if err != nil {
        return badRequest(c, "invalid ticket_id")
    }
    u, err := h.Svc.DetachUserTicket(c.Request().Context(), id, ticketID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, u)
}
