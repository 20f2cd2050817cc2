package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Defimaso/Diario362-sub001/config"
)

func TestNewScheduler(t *testing.T) {
	c, err := NewScheduler(config.SchedulerConfig{
		Timezone:     "Europe/Rome",
		AbsenceSpec:  "0 9 * * *",
		ReminderSpec: "0 20 * * *",
	}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
	assert.Equal(t, "Europe/Rome", c.Location().String())
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(config.SchedulerConfig{
		AbsenceSpec:  "every morning",
		ReminderSpec: "0 20 * * *",
	}, nil, nil)
	assert.Error(t, err)
}
