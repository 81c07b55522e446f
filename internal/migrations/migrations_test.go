package migrations_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/strata/internal/migrations"
	"github.com/pthm/strata/pkg/migrator"
)

func TestAll_Sequence(t *testing.T) {
	all := migrations.All()
	require.NoError(t, migrator.Validate(all))

	var got []string
	for _, s := range all {
		got = append(got, s.Version+" "+s.Name)
	}
	assert.Equal(t, []string{
		"20240108093000 CreateUsersTable",
		"20240108094500 CreateDepartmentsTable",
		"20240109101500 CreateProfileTables",
		"20240110113000 CreateClientsTable",
		"20240112090000 CreateProjectsTable",
		"20240112093000 CreateProjectTypesTable",
		"20240112100000 CreateProjectDocumentsTable",
		"20240115140000 CreateTaskTypesTable",
		"20240116090000 CreateTasksTable",
		"20240116093000 CreateTaskActivityTable",
		"20240116094500 CreateTaskChecklistTable",
		"20240116100000 CreateTaskFilesTable",
		"20240220120000 CreateRolesAndAlterUsersRoleId",
	}, got)

	assert.Equal(t, "20240220120000", migrations.Latest())
}

func TestAll_EveryStepReversible(t *testing.T) {
	for _, s := range migrations.All() {
		assert.NotEmpty(t, s.Up, s.Name)
		assert.NotEmpty(t, s.Down, s.Name)
		assert.True(t, s.Transactional(migrator.DirectionUp), s.Name)
		assert.True(t, s.Transactional(migrator.DirectionDown), s.Name)
	}
}

func TestFind(t *testing.T) {
	s, ok := migrations.Find("CreateTasksTable")
	require.True(t, ok)
	assert.Equal(t, "20240116090000", s.Version)

	s, ok = migrations.Find("20240220120000")
	require.True(t, ok)
	assert.Equal(t, "CreateRolesAndAlterUsersRoleId", s.Name)

	_, ok = migrations.Find("nope")
	assert.False(t, ok)
}

func TestSuperseded_CollideWithCanonical(t *testing.T) {
	superseded := migrations.Superseded()
	require.Len(t, superseded, 2)

	for _, s := range superseded {
		t.Run(s.Name, func(t *testing.T) {
			steps := append(migrations.All(), s)
			plan, err := migrator.PlanForward(steps, nil)
			assert.Nil(t, plan)
			require.True(t, migrator.IsDuplicateVersionErr(err))

			var dup *migrator.DuplicateVersionError
			require.True(t, errors.As(err, &dup))
			assert.Equal(t, s.Version, dup.Version)
			assert.Contains(t, dup.Names, s.Name)
		})
	}
}

func TestSuperseded_TaskTypesCollision(t *testing.T) {
	var billing migrator.Step
	for _, s := range migrations.Superseded() {
		if s.Name == "CreateTaskTypesTableWithBilling" {
			billing = s
		}
	}
	require.NotEmpty(t, billing.Version)

	err := migrator.Validate(append(migrations.All(), billing))
	var dup *migrator.DuplicateVersionError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "20240115140000", dup.Version)
	assert.Equal(t, []string{"CreateTaskTypesTable", "CreateTaskTypesTableWithBilling"}, dup.Names)
}

func TestPolicies_Unique(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range migrations.Policies() {
		key := p.Table + "." + p.Column
		assert.False(t, seen[key], "duplicate policy for %s", key)
		seen[key] = true
	}
	assert.Len(t, seen, 20)
}
