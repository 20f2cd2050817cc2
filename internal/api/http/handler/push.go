package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Defimaso/Diario362-sub001/internal/service/push"
	pasetotoken "github.com/Defimaso/Diario362-sub001/pkg/paseto"
)

type PushHandler struct {
	subs      push.Subscriptions
	publicKey string
}

func NewPushHandler(subs push.Subscriptions, publicKey string) *PushHandler {
	return &PushHandler{subs: subs, publicKey: publicKey}
}

func mapPushError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, push.ErrInvalidSubscription):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /push/vapid-public-key
func (h *PushHandler) PublicKey(c fiber.Ctx) error {
	return ok(c, fiber.Map{"publicKey": h.publicKey})
}

// POST /push/subscriptions
//
// Body is the browser's PushSubscription.toJSON() shape.
func (h *PushHandler) Subscribe(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	var body struct {
		Endpoint string `json:"endpoint"`
		Keys     struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		} `json:"keys"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	sub, err := h.subs.Register(c.Context(), push.RegisterRequest{
		UserID:   claims.UserID,
		Endpoint: body.Endpoint,
		P256dh:   body.Keys.P256dh,
		Auth:     body.Keys.Auth,
	})
	if err != nil {
		return mapPushError(c, err)
	}

	return created(c, sub)
}

// DELETE /push/subscriptions
func (h *PushHandler) Unsubscribe(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	var body struct {
		Endpoint string `json:"endpoint"`
	}
	if err := c.Bind().JSON(&body); err != nil || body.Endpoint == "" {
		return badRequest(c, "endpoint is required")
	}

	// Opting out twice is not an error.
	if err := h.subs.Unregister(c.Context(), claims.UserID, body.Endpoint); err != nil &&
		!errors.Is(err, push.ErrSubscriptionMissing) {
		return mapPushError(c, err)
	}

	return noContent(c)
}
