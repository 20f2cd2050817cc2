package notification

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

// Metadata keys read by the composer.
const (
	MetaExerciseName = "exercise_name"
	MetaCheckNumber  = "check_number"
	MetaRating       = "rating"
	MetaDays         = "days"
	MetaNote         = "note"
	MetaClientName   = "client_name"
)

// DefaultSubjectName stands in for a client without a profile name.
const DefaultSubjectName = "Cliente"

type Input struct {
	Type        string
	ClientID    uuid.UUID
	SubjectName string
	// AuthorName names the staff member behind coach-authored types. Empty
	// falls back to the generic wording.
	AuthorName string
	Metadata   map[string]any
}

// Content is what every channel renders: the in-app row and the push payload.
type Content struct {
	Type     string
	Title    string
	Body     string
	Link     string
	Tag      string
	Metadata map[string]any
}

type template struct {
	title string
	body  func(in Input) string
	link  func(in Input) string
}

func coachLink(in Input) string { return "/coach-dashboard?client=" + in.ClientID.String() }
func clientLink(path string) func(Input) string {
	return func(Input) string { return path }
}

var templates = map[string]template{
	schema.TypeNewCheckin: {
		title: "Nuovo check-in",
		body: func(in Input) string {
			if n := metaString(in.Metadata, MetaCheckNumber); n != "" {
				return fmt.Sprintf("%s ha completato il check-in #%s", in.SubjectName, n)
			}
			return in.SubjectName + " ha completato il check-in"
		},
		link: coachLink,
	},
	schema.TypeVideoUploaded: {
		title: "Nuovo video caricato",
		body: func(in Input) string {
			if ex := metaString(in.Metadata, MetaExerciseName); ex != "" {
				return fmt.Sprintf("%s ha caricato un video: %s", in.SubjectName, ex)
			}
			return in.SubjectName + " ha caricato un nuovo video"
		},
		link: coachLink,
	},
	schema.TypeVideoFeedback: {
		title: "Feedback sul tuo video",
		body: func(in Input) string {
			if ex := metaString(in.Metadata, MetaExerciseName); ex != "" {
				return "Il tuo coach ha commentato il video: " + ex
			}
			return "Il tuo coach ha commentato il tuo video"
		},
		link: clientLink("/video-feedback"),
	},
	schema.TypeCoachFeedback: {
		title: "Nuovo feedback dal coach",
		body: func(in Input) string {
			who := authorOr(in, "Il tuo coach")
			if n := metaString(in.Metadata, MetaCheckNumber); n != "" {
				return fmt.Sprintf("%s ha lasciato un feedback sul check #%s", who, n)
			}
			return who + " ha lasciato un feedback"
		},
		link: clientLink("/progressi"),
	},
	schema.TypeCoachMaterial: {
		title: "Nuovo materiale disponibile",
		body: func(Input) string {
			return "Il tuo coach ha caricato nuovo materiale per te"
		},
		link: clientLink("/materiali"),
	},
	schema.TypeClientFeedback: {
		title: "Feedback da un cliente",
		body: func(in Input) string {
			if r := metaString(in.Metadata, MetaRating); r != "" {
				return fmt.Sprintf("%s ha lasciato un feedback (%s/5)", in.SubjectName, r)
			}
			return in.SubjectName + " ha lasciato un feedback"
		},
		link: coachLink,
	},
	schema.TypeCoachNote: {
		title: "Nuova nota sul cliente",
		body: func(in Input) string {
			note := metaString(in.Metadata, MetaNote)
			switch author := strings.TrimSpace(in.AuthorName); {
			case author != "" && note != "":
				return fmt.Sprintf("Nota di %s su %s: %s", author, in.SubjectName, truncate(note, 120))
			case author != "":
				return fmt.Sprintf("%s ha aggiunto una nota su %s", author, in.SubjectName)
			case note != "":
				return fmt.Sprintf("Nota su %s: %s", in.SubjectName, truncate(note, 120))
			}
			return "È stata aggiunta una nota su " + in.SubjectName
		},
		link: coachLink,
	},
	schema.TypeDay2: {
		title: "Cliente inattivo",
		body: func(in Input) string {
			return fmt.Sprintf("%s non fa check-in da %s giorni", in.SubjectName, daysOr(in.Metadata, "2"))
		},
		link: coachLink,
	},
	schema.TypeDay5: {
		title: "Cliente inattivo da giorni",
		body: func(in Input) string {
			return fmt.Sprintf("%s non fa check-in da %s giorni", in.SubjectName, daysOr(in.Metadata, "5"))
		},
		link: coachLink,
	},
	schema.TypeCoachAlert: {
		title: "⚠️ Attenzione richiesta",
		body: func(in Input) string {
			return fmt.Sprintf("%s è assente da %s giorni: contattalo", in.SubjectName, daysOr(in.Metadata, "5"))
		},
		link: coachLink,
	},
	schema.TypeDailyReminder: {
		title: "Ricordati il check-in di oggi",
		body: func(Input) string {
			return "Non hai ancora completato il check-in giornaliero. Bastano due minuti!"
		},
		link: clientLink("/"),
	},
}

// Compose renders the content for in. It performs no I/O and returns the
// same output for the same input.
func Compose(in Input) (Content, error) {
	tpl, ok := templates[in.Type]
	if !ok {
		return Content{}, fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
	}
	if strings.TrimSpace(in.SubjectName) == "" {
		in.SubjectName = DefaultSubjectName
	}

	meta := make(map[string]any, len(in.Metadata)+1)
	for k, v := range in.Metadata {
		meta[k] = v
	}
	if in.ClientID != uuid.Nil {
		meta["client_id"] = in.ClientID.String()
	}

	return Content{
		Type:     in.Type,
		Title:    tpl.title,
		Body:     tpl.body(in),
		Link:     tpl.link(in),
		Tag:      tag(in),
		Metadata: meta,
	}, nil
}

// Known reports whether t has a template.
func Known(t string) bool {
	_, ok := templates[t]
	return ok
}

// tag collapses repeated notifications about the same client on the device.
func tag(in Input) string {
	if in.ClientID == uuid.Nil {
		return in.Type
	}
	return in.Type + "-" + in.ClientID.String()
}

func metaString(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode as float64.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}

func authorOr(in Input, fallback string) string {
	if a := strings.TrimSpace(in.AuthorName); a != "" {
		return a
	}
	return fallback
}

func daysOr(m map[string]any, fallback string) string {
	if d := metaString(m, MetaDays); d != "" {
		return d
	}
	return fallback
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
