package push

import (
	"encoding/json"

	"github.com/Defimaso/Diario362-sub001/internal/service/notification"
)

// Payload is the JSON document the service worker receives.
type Payload struct {
	Title string      `json:"title"`
	Body  string      `json:"body"`
	Icon  string      `json:"icon,omitempty"`
	Badge string      `json:"badge,omitempty"`
	Data  PayloadData `json:"data"`
	Tag   string      `json:"tag,omitempty"`
}

type PayloadData struct {
	URL string `json:"url"`
}

// Branding fills icon and badge on every payload.
type Branding struct {
	Icon  string
	Badge string
}

func (b Branding) Payload(c notification.Content) Payload {
	return Payload{
		Title: c.Title,
		Body:  c.Body,
		Icon:  b.Icon,
		Badge: b.Badge,
		Data:  PayloadData{URL: c.Link},
		Tag:   c.Tag,
	}
}

func (p Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}
