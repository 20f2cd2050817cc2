package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Defimaso/Diario362-sub001/internal/schema"
)

func TestCompose_Deterministic(t *testing.T) {
	client := uuid.MustParse("0190f5a0-0000-7000-8000-000000000001")
	in := Input{
		Type:        schema.TypeVideoUploaded,
		ClientID:    client,
		SubjectName: "Giulia",
		Metadata:    map[string]any{MetaExerciseName: "Squat"},
	}

	a, err := Compose(in)
	require.NoError(t, err)
	b, err := Compose(in)
	require.NoError(t, err)

	assert.Equal(t, a.Title, b.Title)
	assert.Equal(t, a.Body, b.Body)
	assert.Equal(t, a.Link, b.Link)
	assert.Equal(t, "Giulia ha caricato un video: Squat", a.Body)
	assert.Equal(t, "/coach-dashboard?client="+client.String(), a.Link)
}

func TestCompose_Templates(t *testing.T) {
	client := uuid.New()

	tests := []struct {
		name string
		in   Input
		want string
	}{
		{
			name: "check-in with number",
			in:   Input{Type: schema.TypeNewCheckin, SubjectName: "Luca", Metadata: map[string]any{MetaCheckNumber: float64(12)}},
			want: "Luca ha completato il check-in #12",
		},
		{
			name: "check-in without number",
			in:   Input{Type: schema.TypeNewCheckin, SubjectName: "Luca"},
			want: "Luca ha completato il check-in",
		},
		{
			name: "client feedback rating",
			in:   Input{Type: schema.TypeClientFeedback, SubjectName: "Sara", Metadata: map[string]any{MetaRating: "4"}},
			want: "Sara ha lasciato un feedback (4/5)",
		},
		{
			name: "absence days",
			in:   Input{Type: schema.TypeDay5, SubjectName: "Marta", Metadata: map[string]any{MetaDays: 6}},
			want: "Marta non fa check-in da 6 giorni",
		},
		{
			name: "missing subject name",
			in:   Input{Type: schema.TypeDay2},
			want: "Cliente non fa check-in da 2 giorni",
		},
		{
			name: "coach feedback",
			in:   Input{Type: schema.TypeCoachFeedback, ClientID: client, Metadata: map[string]any{MetaCheckNumber: "3"}},
			want: "Il tuo coach ha lasciato un feedback sul check #3",
		},
		{
			name: "coach feedback names the author",
			in:   Input{Type: schema.TypeCoachFeedback, ClientID: client, AuthorName: "Serena"},
			want: "Serena ha lasciato un feedback",
		},
		{
			name: "coach note with author and text",
			in:   Input{Type: schema.TypeCoachNote, SubjectName: "Giulia", AuthorName: "Serena", Metadata: map[string]any{MetaNote: "ginocchio ok"}},
			want: "Nota di Serena su Giulia: ginocchio ok",
		},
		{
			name: "coach note with author only",
			in:   Input{Type: schema.TypeCoachNote, SubjectName: "Giulia", AuthorName: "  Serena "},
			want: "Serena ha aggiunto una nota su Giulia",
		},
		{
			name: "coach note anonymous",
			in:   Input{Type: schema.TypeCoachNote, SubjectName: "Giulia"},
			want: "È stata aggiunta una nota su Giulia",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compose(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Body)
			assert.NotEmpty(t, got.Title)
			assert.NotEmpty(t, got.Link)
		})
	}
}

func TestCompose_MetadataBag(t *testing.T) {
	client := uuid.New()
	meta := map[string]any{MetaNote: "mobilità spalla"}

	got, err := Compose(Input{Type: schema.TypeCoachNote, ClientID: client, SubjectName: "Anna", Metadata: meta})
	require.NoError(t, err)

	assert.Equal(t, client.String(), got.Metadata["client_id"])
	assert.Equal(t, "mobilità spalla", got.Metadata[MetaNote])
	assert.Equal(t, schema.TypeCoachNote+"-"+client.String(), got.Tag)
	// The caller's map is not mutated.
	assert.NotContains(t, meta, "client_id")
}

func TestCompose_DailyReminderIsClientless(t *testing.T) {
	got, err := Compose(Input{Type: schema.TypeDailyReminder})
	require.NoError(t, err)
	assert.Equal(t, schema.TypeDailyReminder, got.Tag)
	assert.Equal(t, "/", got.Link)
}

func TestCompose_UnknownType(t *testing.T) {
	_, err := Compose(Input{Type: "nope"})
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.False(t, Known("nope"))
	assert.True(t, Known(schema.TypeCoachAlert))
}
