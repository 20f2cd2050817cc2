package recipient

import "github.com/Defimaso/Diario362-sub001/internal/schema"

// Audience selects whose inbox an event lands in.
type Audience int

const (
	AudienceClient Audience = iota
	AudienceCoaches
)

func (a Audience) String() string {
	switch a {
	case AudienceClient:
		return "client"
	case AudienceCoaches:
		return "coaches"
	default:
		return "unknown"
	}
}

// Targeting is the static recipient policy of one event type.
type Targeting struct {
	Audience Audience
	// ExcludeAuthor drops the acting user from the result.
	ExcludeAuthor bool
	// AdminFallback routes orphaned clients to every admin.
	AdminFallback bool
	// ClientAuthored marks events a client may raise about themselves.
	ClientAuthored bool
}

var targetings = map[string]Targeting{
	schema.TypeNewCheckin:     {Audience: AudienceCoaches, ClientAuthored: true},
	schema.TypeVideoUploaded:  {Audience: AudienceCoaches, ClientAuthored: true},
	schema.TypeVideoFeedback:  {Audience: AudienceClient},
	schema.TypeCoachFeedback:  {Audience: AudienceClient},
	schema.TypeCoachMaterial:  {Audience: AudienceClient},
	schema.TypeClientFeedback: {Audience: AudienceCoaches, AdminFallback: true, ClientAuthored: true},
	schema.TypeCoachNote:      {Audience: AudienceCoaches, ExcludeAuthor: true},
	schema.TypeDay2:           {Audience: AudienceCoaches},
	schema.TypeDay5:           {Audience: AudienceCoaches},
	schema.TypeCoachAlert:     {Audience: AudienceCoaches, AdminFallback: true},
}

// TargetingFor reports the policy of eventType. Push-only types have none.
func TargetingFor(eventType string) (Targeting, bool) {
	t, ok := targetings[eventType]
	return t, ok
}
