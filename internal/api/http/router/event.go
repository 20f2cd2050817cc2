package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Defimaso/Diario362-sub001/internal/api/http/handler"
	"github.com/Defimaso/Diario362-sub001/pkg/authorize"
)

func (r *Router) registerEventRoutes(
	api fiber.Router,
	eh *handler.EventHandler,
	authRequired fiber.Handler,
	requirePriv func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	api.Post("/events", authRequired, requirePriv(authorize.ResourceEvent, authorize.ActionCreate), eh.Emit)
}
