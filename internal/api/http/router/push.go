package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Defimaso/Diario362-sub001/internal/api/http/handler"
)

func (r *Router) registerPushRoutes(
	api fiber.Router,
	ph *handler.PushHandler,
	authRequired fiber.Handler,
) {
	p := api.Group("/push")

	// The key is public; the service worker fetches it before login.
	p.Get("/vapid-public-key", ph.PublicKey)

	subs := p.Group("/subscriptions", authRequired)
	subs.Post("/", ph.Subscribe)
	subs.Delete("/", ph.Unsubscribe)
}
