package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		body, err := fs.ReadFile(migrationsFS, "migrations/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}

	tasks, err := fs.ReadFile(migrationsFS, "migrations/00002_create_tasks_table.sql")
	require.NoError(t, err)
	assert.Contains(t, string(tasks), importDedupConstraint)
}

func TestMigrate_UnknownCommand(t *testing.T) {
	err := Migrate(nil, "reset", discardLogger())
	assert.ErrorContains(t, err, "unknown migration command")
}

func TestMaskDatabaseURL(t *testing.T) {
	masked := MaskDatabaseURL("postgres://planner:s3cret@db:5432/planner")
	assert.NotContains(t, masked, "s3cret")
	assert.Contains(t, masked, "@db:5432/planner")
	assert.Equal(t, "postgres://db/planner", MaskDatabaseURL("postgres://db/planner"))
}
