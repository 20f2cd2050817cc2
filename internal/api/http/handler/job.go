package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Defimaso/Diario362-sub001/internal/service/absence"
	"github.com/Defimaso/Diario362-sub001/internal/service/reminder"
)

type AbsenceJob interface {
	Run(ctx context.Context) (absence.Summary, error)
}

type ReminderJob interface {
	Run(ctx context.Context) (reminder.Summary, error)
}

// JobHandler triggers the periodic jobs on demand, both from the external
// scheduler webhook and from the admin surface.
type JobHandler struct {
	absence  AbsenceJob
	reminder ReminderJob
}

func NewJobHandler(absence AbsenceJob, reminder ReminderJob) *JobHandler {
	return &JobHandler{absence: absence, reminder: reminder}
}

// POST /jobs/absence-scan
func (h *JobHandler) AbsenceScan(c fiber.Ctx) error {
	sum, err := h.absence.Run(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "absence scan", "error", err)
		return internalError(c)
	}
	return ok(c, sum)
}

// POST /jobs/daily-reminder
func (h *JobHandler) DailyReminder(c fiber.Ctx) error {
	sum, err := h.reminder.Run(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "daily reminder", "error", err)
		return internalError(c)
	}
	return ok(c, sum)
}
