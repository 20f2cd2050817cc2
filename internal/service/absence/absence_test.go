package absence_test

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/internal/repo/repotest"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
	"github.com/Defimaso/Diario362-sub001/internal/service/absence"
	"github.com/Defimaso/Diario362-sub001/internal/service/event"
	"github.com/Defimaso/Diario362-sub001/internal/service/notification"
	"github.com/Defimaso/Diario362-sub001/internal/service/push"
	"github.com/Defimaso/Diario362-sub001/internal/service/recipient"
	"github.com/Defimaso/Diario362-sub001/internal/staff"
)

type okSender struct{}

func (okSender) Send(context.Context, schema.PushSubscription, []byte) (int, error) { return 201, nil }

var rome, _ = time.LoadLocation("Europe/Rome")

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestDaysSince(t *testing.T) {
	// 00:30 in Rome is still the 13th in UTC.
	now := time.Date(2026, 10, 13, 22, 30, 0, 0, time.UTC).In(rome)
	assert.Equal(t, 6, absence.DaysSince(date(2026, 10, 8), now))
	assert.Equal(t, 0, absence.DaysSince(date(2026, 10, 14), now))
}

func TestKindsFor(t *testing.T) {
	assert.Empty(t, absence.KindsFor(0))
	assert.Empty(t, absence.KindsFor(1))
	assert.Equal(t, []string{schema.AbsenceDay2}, absence.KindsFor(2))
	assert.Equal(t, []string{schema.AbsenceDay2}, absence.KindsFor(4))
	assert.Equal(t, []string{schema.AbsenceDay5, schema.AbsenceCoachAlert}, absence.KindsFor(5))
	assert.Equal(t, []string{schema.AbsenceDay5, schema.AbsenceCoachAlert}, absence.KindsFor(30))
}

func TestRun_SixDaysAbsentAlertsCoach(t *testing.T) {
	db := repotest.New(t)
	ctx := context.Background()

	coach := repotest.Profile(t, db, "coach@diario.it", "Coach", schema.RoleCoach)
	client := repotest.Profile(t, db, "client@diario.it", "Giulia", schema.RoleClient)
	recent := repotest.Profile(t, db, "recent@diario.it", "Recente", schema.RoleClient)
	require.NoError(t, db.Profiles().SetCoach(ctx, client.ID, &coach.ID))
	require.NoError(t, db.Profiles().SetCoach(ctx, recent.ID, &coach.ID))

	require.NoError(t, db.CheckIns().Create(ctx, client.ID, date(2026, 10, 8)))
	require.NoError(t, db.CheckIns().Create(ctx, recent.ID, date(2026, 10, 13)))

	pipeline := event.New(
		recipient.New(db.AssignmentView(), staff.New("boss@diario.it", nil), "_"),
		notification.NewWriter(db.Notifications()),
		push.NewDispatcher(db.Subscriptions(), okSender{}, config.PushConfig{}),
		db.Profiles(),
		event.Options{},
	)
	scanner := absence.NewScanner(db.CheckIns(), db.AbsenceLedger(), pipeline, rome).
		WithClock(func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, rome) })

	sum, err := scanner.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, absence.Summary{Scanned: 2, Absent: 1, Emitted: 2, InApp: 2}, sum)

	ledger, err := db.AbsenceLedger().ListForUser(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	kinds := []string{ledger[0].NotificationType, ledger[1].NotificationType}
	assert.ElementsMatch(t, []string{schema.AbsenceDay5, schema.AbsenceCoachAlert}, kinds)

	rows, err := db.Notifications().List(ctx, coach.ID, false, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.ElementsMatch(t, []string{schema.TypeDay5, schema.TypeCoachAlert}, []string{rows[0].Type, rows[1].Type})
	assert.Contains(t, rows[0].Message, "Giulia")

	// A second run repeats the emissions.
	_, err = scanner.Run(ctx)
	require.NoError(t, err)
	ledger, err = db.AbsenceLedger().ListForUser(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, ledger, 4)
}

type staticSource []repo.ClientLastCheckIn

func (s staticSource) LatestPerClient(context.Context) ([]repo.ClientLastCheckIn, error) { return s, nil }

type memLedger struct{ rows []uuid.UUID }

func (l *memLedger) Append(_ context.Context, id uuid.UUID, _ string) error {
	l.rows = append(l.rows, id)
	return nil
}

type flakyPipeline struct {
	fail  uuid.UUID
	calls []uuid.UUID
}

func (p *flakyPipeline) Dispatch(_ context.Context, e event.Event) (event.Result, error) {
	p.calls = append(p.calls, e.ClientID)
	if e.ClientID == p.fail {
		return event.Result{}, errors.New("resolver down")
	}
	return event.Result{Recipients: 1, InApp: 1}, nil
}

func TestRun_FailingClientDoesNotStopScan(t *testing.T) {
	bad, good := uuid.New(), uuid.New()
	src := staticSource{
		{ClientID: bad, FullName: "Bad", LastDate: date(2026, 10, 11)},
		{ClientID: good, FullName: "Good", LastDate: date(2026, 10, 11)},
	}
	ledger := &memLedger{}
	pipe := &flakyPipeline{fail: bad}

	sum, err := absence.NewScanner(src, ledger, pipe, time.UTC).
		WithClock(func() time.Time { return date(2026, 10, 14) }).
		Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, absence.Summary{Scanned: 2, Absent: 2, Emitted: 1, InApp: 1, Failures: 1}, sum)
	assert.Equal(t, []uuid.UUID{bad, good}, pipe.calls)
	assert.Len(t, ledger.rows, 2)
}
