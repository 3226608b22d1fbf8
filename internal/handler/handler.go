// Package handler exposes the ticketing service over HTTP.  Handlers bind
// and validate path parameters and bodies, call exactly one service
// operation and translate its errors to status codes.
package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticketing/internal/queue"
    "github.com/iliyamo/event-ticketing/internal/ticketing"
)

// Publisher sends ticket lifecycle events.  Failures are logged by the
// handler and never change the response.
type Publisher interface {
    Publish(ctx context.Context, ev queue.TicketEvent) error
}

// Handler serves every /v1 route.
type Handler struct {
    Svc *ticketing.Service
    Pub Publisher // may be nil
}

// New constructs a Handler and panics if the service is nil.
func New(svc *ticketing.Service, pub Publisher) *Handler {
    if svc == nil {
        panic("nil service passed to handler.New")
    }
    return &Handler{Svc: svc, Pub: pub}
}

func (h *Handler) publish(ctx context.Context, ev queue.TicketEvent) {
    if h.Pub == nil {
        return
    }
    if err := h.Pub.Publish(ctx, ev); err != nil {
        log.Printf("handler: publish %s for ticket %d: %v", ev.Type, ev.TicketID, err)
    }
}

// paramID parses the named path parameter as an entity id.
func paramID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// items wraps a listing so empty results encode as [] rather than null.
func items[T any](xs []T) echo.Map {
    if xs == nil {
        xs = []T{}
    }
    return echo.Map{"items": xs}
}

// writeError maps a service error to a response.  An association failure
// carries the ticket it was about so clients can see which id was burnt
// and whether the partial writes were undone.
func writeError(c echo.Context, err error) error {
    var ae *ticketing.AssociationError
    switch {
    case errors.As(err, &ae):
        return c.JSON(http.StatusConflict, echo.Map{
            "error":       ae.Error(),
            "ticket":      ae.Ticket,
            "rolled_back": ae.RolledBack,
        })
    case errors.Is(err, ticketing.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    }
    log.Printf("handler: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
