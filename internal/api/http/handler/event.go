package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Defimaso/Diario362-sub001/internal/api/http/middleware"
	"github.com/Defimaso/Diario362-sub001/internal/service/event"
	"github.com/Defimaso/Diario362-sub001/internal/service/recipient"
	"github.com/Defimaso/Diario362-sub001/pkg/authorize"
	pasetotoken "github.com/Defimaso/Diario362-sub001/pkg/paseto"
)

// Events is the slice of the pipeline the HTTP surface needs.
type Events interface {
	Dispatch(ctx context.Context, e event.Event) (event.Result, error)
	Submit(ctx context.Context, e event.Event) error
}

type EventHandler struct {
	events Events
}

func NewEventHandler(events Events) *EventHandler {
	return &EventHandler{events: events}
}

func mapEventError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, event.ErrUnknownType), errors.Is(err, event.ErrMissingClient):
		return badRequest(c, err.Error())
	case errors.Is(err, event.ErrShuttingDown):
		return serviceUnavailable(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "dispatch event", "error", err)
		return internalError(c)
	}
}

// POST /events
//
// The author defaults to the caller so coach-authored events never notify
// the coach who wrote them. Callers without a staff role may only raise
// client-authored events about themselves, and are always the author.
func (h *EventHandler) Emit(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	var e event.Event
	if err := c.Bind().JSON(&e); err != nil {
		return badRequest(c, "invalid request body")
	}

	uid := claims.UserID
	if authorize.IsStaff(middleware.RolesFromFiber(c)) {
		if e.AuthorID == nil {
			e.AuthorID = &uid
		}
	} else {
		if e.ClientID == uuid.Nil {
			e.ClientID = uid
		}
		if e.ClientID != uid {
			return forbidden(c, "clients may only raise events about themselves")
		}
		if t, ok := recipient.TargetingFor(e.Type); ok && !t.ClientAuthored {
			return forbidden(c, "event type is reserved for staff")
		}
		e.AuthorID = &uid
	}

	if c.Query("async") == "true" {
		if err := h.events.Submit(c.Context(), e); err != nil {
			return mapEventError(c, err)
		}
		return accepted(c, fiber.Map{"success": true, "queued": true})
	}

	res, err := h.events.Dispatch(c.Context(), e)
	if err != nil {
		return mapEventError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"sent":       res.Sent,
		"inApp":      res.InApp,
		"recipients": res.Recipients,
		"failed":     res.Failed,
		"removed":    res.Removed,
	})
}
