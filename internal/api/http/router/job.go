package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Defimaso/Diario362-sub001/internal/api/http/handler"
	"github.com/Defimaso/Diario362-sub001/pkg/authorize"
)

// registerJobRoutes exposes the jobs to the external scheduler.
func (r *Router) registerJobRoutes(
	api fiber.Router,
	jh *handler.JobHandler,
	webhook fiber.Handler,
) {
	jobs := api.Group("/jobs", webhook)
	jobs.Post("/absence-scan", jh.AbsenceScan)
	jobs.Post("/daily-reminder", jh.DailyReminder)
}

func (r *Router) registerAdminRoutes(
	api fiber.Router,
	jh *handler.JobHandler,
	ah *handler.AssignmentHandler,
	authRequired fiber.Handler,
	requirePriv func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	admin := api.Group("/admin", authRequired)

	runJob := requirePriv(authorize.ResourceJob, authorize.ActionExecute)
	admin.Post("/jobs/absence-scan", runJob, jh.AbsenceScan)
	admin.Post("/jobs/daily-reminder", runJob, jh.DailyReminder)

	manage := requirePriv(authorize.ResourceCoachAssignment, authorize.ActionManage)
	admin.Put("/clients/:id/coach", manage, ah.Assign)
	admin.Delete("/clients/:id/coach", manage, ah.Clear)
}
