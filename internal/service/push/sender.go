package push

import (
	"context"
	"fmt"
	"io"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
	"github.com/Defimaso/Diario362-sub001/pkg/vapid"
)

// Sender signs, encrypts and transmits one message to one subscription. It
// returns the push service status code; err is set only when no response
// was received.
type Sender interface {
	Send(ctx context.Context, sub schema.PushSubscription, message []byte) (status int, err error)
}

type WebPushSender struct {
	keys       *vapid.KeyPair
	subscriber string
	ttl        int
	urgency    webpush.Urgency
	client     *http.Client
}

func NewWebPushSender(cfg config.PushConfig, keys *vapid.KeyPair) *WebPushSender {
	return &WebPushSender{
		keys:       keys,
		subscriber: cfg.Subscriber,
		ttl:        cfg.TTLSeconds,
		urgency:    urgency(cfg.Urgency),
		client:     &http.Client{Timeout: cfg.SendTimeout()},
	}
}

// WithHTTPClient replaces the transport, used by tests.
func (s *WebPushSender) WithHTTPClient(c *http.Client) *WebPushSender {
	s.client = c
	return s
}

func (s *WebPushSender) Send(ctx context.Context, sub schema.PushSubscription, message []byte) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, message, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.subscriber,
		TTL:             s.ttl,
		Urgency:         s.urgency,
		VAPIDPublicKey:  s.keys.PublicKeyString(),
		VAPIDPrivateKey: s.keys.PrivateKeyString(),
	})
	if err != nil {
		return 0, fmt.Errorf("webpush send: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func urgency(s string) webpush.Urgency {
	switch s {
	case "very-low":
		return webpush.UrgencyVeryLow
	case "low":
		return webpush.UrgencyLow
	case "high":
		return webpush.UrgencyHigh
	default:
		return webpush.UrgencyNormal
	}
}
