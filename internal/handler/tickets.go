package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticketing/internal/model"
    "github.com/iliyamo/event-ticketing/internal/queue"
)

// ticketBody is the request body of POST and PUT /v1/tickets.  Both ids are
// required; zero is a valid id so presence is checked with pointers.
type ticketBody struct {
    EventID *uint64 `json:"event_id"`
    UserID  *uint64 `json:"user_id"`
}

func bindTicket(c echo.Context) (model.TicketPayload, bool) {
    var b ticketBody
    if err := c.Bind(&b); err != nil || b.EventID == nil || b.UserID == nil {
        return model.TicketPayload{}, false
    }
    return model.TicketPayload{EventID: *b.EventID, UserID: *b.UserID}, true
}

func (h *Handler) ListTickets(c echo.Context) error {
    tickets, err := h.Svc.ListTickets(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, items(tickets))
}

// CreateTicket handles POST /v1/tickets.  On success the ticket is linked
// from its user and event and a ticket.created event is published.
func (h *Handler) CreateTicket(c echo.Context) error {
    p, ok := bindTicket(c)
    if !ok {
        return badRequest(c, "event_id and user_id are required")
    }
    ctx := c.Request().Context()
    t, err := h.Svc.CreateTicket(ctx, p)
    if err != nil {
        return writeError(c, err)
    }
    ev := queue.TicketEvent{
        Type:       queue.TicketCreated,
        TicketID:   t.ID,
        EventID:    t.EventID,
        UserID:     t.UserID,
        OccurredAt: t.CreatedAt.Format(time.RFC3339),
    }
    if e, err := h.Svc.GetEvent(ctx, t.EventID); err == nil {
        ev.EventName = e.Name
    }
    h.publish(ctx, ev)
    return c.JSON(http.StatusCreated, t)
}

func (h *Handler) GetTicket(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    t, err := h.Svc.GetTicket(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, t)
}

// UpdateTicket handles PUT /v1/tickets/:id.  Only the ticket row changes;
// the link lists of the old and new user and event are not touched.
func (h *Handler) UpdateTicket(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    p, ok := bindTicket(c)
    if !ok {
        return badRequest(c, "event_id and user_id are required")
    }
    t, err := h.Svc.UpdateTicket(c.Request().Context(), id, p)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, t)
}

// DeleteTicket handles DELETE /v1/tickets/:id.
func (h *Handler) DeleteTicket(c echo.Context) error {
    id, err := paramID(c, "id")
    if err != nil {
        return badRequest(c, "invalid id")
    }
    ctx := c.Request().Context()
    t, err := h.Svc.GetTicket(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    if err := h.Svc.DeleteTicket(ctx, id); err != nil {
        return writeError(c, err)
    }
    h.publish(ctx, queue.TicketEvent{
        Type:       queue.TicketDeleted,
        TicketID:   t.ID,
        EventID:    t.EventID,
        UserID:     t.UserID,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    })
    return c.NoContent(http.StatusNoContent)
}
