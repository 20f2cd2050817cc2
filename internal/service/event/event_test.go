package event_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/internal/repo/repotest"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
	"github.com/Defimaso/Diario362-sub001/internal/service/event"
	"github.com/Defimaso/Diario362-sub001/internal/service/notification"
	"github.com/Defimaso/Diario362-sub001/internal/service/push"
	"github.com/Defimaso/Diario362-sub001/internal/service/recipient"
	"github.com/Defimaso/Diario362-sub001/internal/staff"
)

type countingSender struct {
	mu    sync.Mutex
	calls int
	gone  map[string]bool
}

func (s *countingSender) Send(_ context.Context, sub schema.PushSubscription, _ []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.gone[sub.Endpoint] {
		return 410, nil
	}
	return 201, nil
}

type env struct {
	db       *repo.Client
	sender   *countingSender
	pipeline *event.Pipeline
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := repotest.New(t)
	dir := staff.New("boss@diario.it", []staff.Entry{
		{Email: "serena@diario.it", LegacyName: "Serena"},
		{Email: "ilaria@diario.it", LegacyName: "Ilaria"},
	})
	sender := &countingSender{gone: map[string]bool{}}
	resolver := recipient.New(db.AssignmentView(), dir, "_")
	dispatcher := push.NewDispatcher(db.Subscriptions(), sender, config.PushConfig{Workers: 4})

	return &env{
		db:     db,
		sender: sender,
		pipeline: event.New(resolver, notification.NewWriter(db.Notifications()), dispatcher, db.Profiles(),
			event.Options{AsyncTimeout: 5 * time.Second}),
	}
}

func (e *env) count(t *testing.T, user uuid.UUID) int64 {
	t.Helper()
	n, err := e.db.Notifications().CountForUser(context.Background(), user)
	require.NoError(t, err)
	return n
}

func TestDispatch_InAppRowPerRecipientRegardlessOfSubscriptions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	client := repotest.Profile(t, e.db, "client@diario.it", "Giulia", schema.RoleClient)
	serena := repotest.Profile(t, e.db, "serena@diario.it", "Serena", schema.RoleCoach)
	ilaria := repotest.Profile(t, e.db, "ilaria@diario.it", "Ilaria", schema.RoleCoach)
	boss := repotest.Profile(t, e.db, "boss@diario.it", "Boss", schema.RoleSuperAdmin)
	require.NoError(t, e.db.Assignments().SetLegacy(ctx, client.ID, "Serena_Ilaria"))

	// serena: none, ilaria: one, boss: three (one expired).
	_, err := e.db.Subscriptions().Upsert(ctx, ilaria.ID, "https://push.example/i1", "k", "a")
	require.NoError(t, err)
	for _, ep := range []string{"https://push.example/b1", "https://push.example/b2", "https://push.example/b3"} {
		_, err := e.db.Subscriptions().Upsert(ctx, boss.ID, ep, "k", "a")
		require.NoError(t, err)
	}
	e.sender.gone["https://push.example/b3"] = true

	res, err := e.pipeline.Dispatch(ctx, event.Event{Type: schema.TypeNewCheckin, ClientID: client.ID})
	require.NoError(t, err)

	assert.Equal(t, event.Result{Recipients: 3, InApp: 3, Sent: 3, Failed: 1, Removed: 1}, res)
	for _, id := range []uuid.UUID{serena.ID, ilaria.ID, boss.ID} {
		assert.EqualValues(t, 1, e.count(t, id))
	}
	assert.Zero(t, e.count(t, client.ID))

	rows, err := e.db.Notifications().List(ctx, serena.ID, false, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Giulia ha completato il check-in", rows[0].Message)
}

func TestDispatch_SubjectNameFallsBackToMetadata(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	coach := repotest.Profile(t, e.db, "coach@diario.it", "Coach", schema.RoleCoach)
	clientID := uuid.New()
	// No profile for the client, so the direct assignment is also absent;
	// give it a legacy row instead.
	require.NoError(t, e.db.Assignments().SetLegacy(ctx, clientID, "Serena"))
	serena := repotest.Profile(t, e.db, "serena@diario.it", "Serena", schema.RoleCoach)

	_, err := e.pipeline.Dispatch(ctx, event.Event{
		Type:     schema.TypeVideoUploaded,
		ClientID: clientID,
		Metadata: map[string]any{notification.MetaClientName: "Paolo"},
	})
	require.NoError(t, err)

	rows, err := e.db.Notifications().List(ctx, serena.ID, false, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Paolo ha caricato un nuovo video", rows[0].Message)
	assert.Zero(t, e.count(t, coach.ID))
}

func TestDispatch_AuthorNameReachesMessage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	client := repotest.Profile(t, e.db, "giulia@diario.it", "Giulia", schema.RoleClient)
	serena := repotest.Profile(t, e.db, "serena@diario.it", "Serena", schema.RoleCoach)

	_, err := e.pipeline.Dispatch(ctx, event.Event{
		Type:       schema.TypeCoachFeedback,
		ClientID:   client.ID,
		AuthorID:   &serena.ID,
		AuthorName: "Serena",
		Metadata:   map[string]any{notification.MetaCheckNumber: float64(4)},
	})
	require.NoError(t, err)

	rows, err := e.db.Notifications().List(ctx, client.ID, false, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Serena ha lasciato un feedback sul check #4", rows[0].Message)
}

func TestDispatch_NoRecipientsIsNotAnError(t *testing.T) {
	e := newEnv(t)
	client := repotest.Profile(t, e.db, "orphan@diario.it", "Orfano", schema.RoleClient)

	res, err := e.pipeline.Dispatch(context.Background(), event.Event{Type: schema.TypeNewCheckin, ClientID: client.ID})
	require.NoError(t, err)
	assert.Equal(t, event.Result{}, res)
	assert.Zero(t, e.sender.calls)
}

func TestDispatch_RejectsInvalidEvents(t *testing.T) {
	e := newEnv(t)

	_, err := e.pipeline.Dispatch(context.Background(), event.Event{Type: "bogus", ClientID: uuid.New()})
	assert.ErrorIs(t, err, event.ErrUnknownType)

	_, err = e.pipeline.Dispatch(context.Background(), event.Event{Type: schema.TypeDailyReminder, ClientID: uuid.New()})
	assert.ErrorIs(t, err, event.ErrUnknownType)

	_, err = e.pipeline.Dispatch(context.Background(), event.Event{Type: schema.TypeNewCheckin})
	assert.ErrorIs(t, err, event.ErrMissingClient)
}

func TestSubmit_DetachedFromCaller(t *testing.T) {
	e := newEnv(t)
	client := repotest.Profile(t, e.db, "client@diario.it", "Giulia", schema.RoleClient)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, e.pipeline.Submit(ctx, event.Event{Type: schema.TypeCoachFeedback, ClientID: client.ID}))
	cancel()

	waitCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	require.NoError(t, e.pipeline.Wait(waitCtx))

	assert.EqualValues(t, 1, e.count(t, client.ID))
	assert.ErrorIs(t, e.pipeline.Submit(context.Background(), event.Event{Type: schema.TypeCoachFeedback, ClientID: client.ID}), event.ErrShuttingDown)
}
