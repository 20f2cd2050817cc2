package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Defimaso/Diario362-sub001/internal/service/assignment"
)

type AssignmentHandler struct {
	svc assignment.Service
}

func NewAssignmentHandler(svc assignment.Service) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

func mapAssignmentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, assignment.ErrClientNotFound), errors.Is(err, assignment.ErrCoachNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, assignment.ErrNotACoach):
		return unprocessable(c, err.Error())
	default:
		return internalError(c)
	}
}

// PUT /admin/clients/:id/coach
func (h *AssignmentHandler) Assign(c fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid client id")
	}

	var body struct {
		CoachID uuid.UUID `json:"coachId"`
	}
	if err := c.Bind().JSON(&body); err != nil || body.CoachID == uuid.Nil {
		return badRequest(c, "coachId is required")
	}

	if err := h.svc.AssignCoach(c.Context(), clientID, body.CoachID); err != nil {
		return mapAssignmentError(c, err)
	}

	return noContent(c)
}

// DELETE /admin/clients/:id/coach
func (h *AssignmentHandler) Clear(c fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid client id")
	}

	if err := h.svc.ClearCoach(c.Context(), clientID); err != nil {
		return mapAssignmentError(c, err)
	}

	return noContent(c)
}
