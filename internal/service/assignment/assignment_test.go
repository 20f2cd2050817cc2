package assignment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Defimaso/Diario362-sub001/internal/repo/repotest"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
	"github.com/Defimaso/Diario362-sub001/internal/service/assignment"
	"github.com/Defimaso/Diario362-sub001/internal/staff"
)

func TestAssignCoach_SyncsLegacyRow(t *testing.T) {
	db := repotest.New(t)
	ctx := context.Background()
	dir := staff.New("boss@diario.it", []staff.Entry{{Email: "serena@diario.it", LegacyName: "Serena"}})
	svc := assignment.New(db, dir)

	client := repotest.Profile(t, db, "client@diario.it", "Giulia", schema.RoleClient)
	serena := repotest.Profile(t, db, "serena@diario.it", "Serena", schema.RoleCoach)
	require.NoError(t, db.Assignments().SetLegacy(ctx, client.ID, "Ilaria_Marco"))

	require.NoError(t, svc.AssignCoach(ctx, client.ID, serena.ID))

	direct, err := db.Profiles().DirectCoachID(ctx, client.ID)
	require.NoError(t, err)
	require.NotNil(t, direct)
	assert.Equal(t, serena.ID, *direct)

	name, ok, err := db.Assignments().LegacyCoachName(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Serena", name)
}

func TestAssignCoach_CoachOutsideDirectoryKeepsLegacyRow(t *testing.T) {
	db := repotest.New(t)
	ctx := context.Background()
	svc := assignment.New(db, staff.New("boss@diario.it", nil))

	client := repotest.Profile(t, db, "client@diario.it", "Giulia", schema.RoleClient)
	coach := repotest.Profile(t, db, "new@diario.it", "Nuovo", schema.RoleCoach)
	require.NoError(t, db.Assignments().SetLegacy(ctx, client.ID, "Ilaria"))

	require.NoError(t, svc.AssignCoach(ctx, client.ID, coach.ID))

	name, _, err := db.Assignments().LegacyCoachName(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ilaria", name)
}

func TestAssignCoach_Errors(t *testing.T) {
	db := repotest.New(t)
	ctx := context.Background()
	svc := assignment.New(db, staff.New("", nil))

	client := repotest.Profile(t, db, "client@diario.it", "Giulia", schema.RoleClient)
	other := repotest.Profile(t, db, "other@diario.it", "Altro", schema.RoleClient)
	coach := repotest.Profile(t, db, "coach@diario.it", "Coach", schema.RoleCoach)

	assert.ErrorIs(t, svc.AssignCoach(ctx, client.ID, uuid.New()), assignment.ErrCoachNotFound)
	assert.ErrorIs(t, svc.AssignCoach(ctx, client.ID, other.ID), assignment.ErrNotACoach)
	assert.ErrorIs(t, svc.AssignCoach(ctx, uuid.New(), coach.ID), assignment.ErrClientNotFound)
}

func TestClearCoach(t *testing.T) {
	db := repotest.New(t)
	ctx := context.Background()
	svc := assignment.New(db, staff.New("", nil))

	client := repotest.Profile(t, db, "client@diario.it", "Giulia", schema.RoleClient)
	coach := repotest.Profile(t, db, "coach@diario.it", "Coach", schema.RoleCoach)
	require.NoError(t, svc.AssignCoach(ctx, client.ID, coach.ID))

	require.NoError(t, svc.ClearCoach(ctx, client.ID))
	direct, err := db.Profiles().DirectCoachID(ctx, client.ID)
	require.NoError(t, err)
	assert.Nil(t, direct)

	assert.ErrorIs(t, svc.ClearCoach(ctx, uuid.New()), assignment.ErrClientNotFound)
}
