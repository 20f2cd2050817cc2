package reminder_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Defimaso/Diario362-sub001/config"
	"github.com/Defimaso/Diario362-sub001/internal/repo/repotest"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
	"github.com/Defimaso/Diario362-sub001/internal/service/push"
	"github.com/Defimaso/Diario362-sub001/internal/service/reminder"
)

type recordingSender struct {
	mu    sync.Mutex
	users map[uuid.UUID]int
	body  []byte
}

func (s *recordingSender) Send(_ context.Context, sub schema.PushSubscription, msg []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[sub.UserID]++
	s.body = msg
	return 201, nil
}

func TestRun_RemindsOnlyUsersWithoutTodaysCheckIn(t *testing.T) {
	db := repotest.New(t)
	ctx := context.Background()
	today := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	users := make([]uuid.UUID, 10)
	for i := range users {
		users[i] = uuid.New()
		_, err := db.Subscriptions().Upsert(ctx, users[i], "https://push.example/"+users[i].String(), "k", "a")
		require.NoError(t, err)
	}
	for _, u := range users[:3] {
		require.NoError(t, db.CheckIns().Create(ctx, u, today))
	}
	// Yesterday's check-in does not count.
	require.NoError(t, db.CheckIns().Create(ctx, users[5], today.AddDate(0, 0, -1)))

	sender := &recordingSender{users: map[uuid.UUID]int{}}
	dispatcher := push.NewDispatcher(db.Subscriptions(), sender, config.PushConfig{Workers: 3})
	b := reminder.NewBroadcaster(db.Subscriptions(), db.CheckIns(), dispatcher, push.Branding{Icon: "/icon.png"}, time.UTC).
		WithClock(func() time.Time { return today.Add(20 * time.Hour) })

	sum, err := b.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, reminder.Summary{Subscribed: 10, CheckedIn: 3, Targeted: 7, Sent: 7}, sum)
	assert.Len(t, sender.users, 7)
	for _, u := range users[:3] {
		assert.NotContains(t, sender.users, u)
	}
	assert.Contains(t, string(sender.body), `"tag":"daily_reminder"`)

	for _, u := range users {
		n, err := db.Notifications().CountForUser(ctx, u)
		require.NoError(t, err)
		assert.Zero(t, n)
	}
}

func TestRun_NobodyToRemind(t *testing.T) {
	db := repotest.New(t)
	sender := &recordingSender{users: map[uuid.UUID]int{}}
	dispatcher := push.NewDispatcher(db.Subscriptions(), sender, config.PushConfig{})

	sum, err := reminder.NewBroadcaster(db.Subscriptions(), db.CheckIns(), dispatcher, push.Branding{}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reminder.Summary{}, sum)
	assert.Empty(t, sender.users)
}
