package migrations

import (
	"errors"
	"testing"

	"github.com/pushp314/coursehub-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func appliedIDs(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var ids []string
	require.NoError(t, db.Model(&MigrationRecord{}).Order("id").Pluck("id", &ids).Error)
	return ids
}

func TestRunSkipsPostgresOnlyStepsOnSQLite(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, NewMigrator(db).Run())
	assert.Equal(t, []string{"003_add_published_chapter_index"}, appliedIDs(t, db))

	assert.True(t, db.Migrator().HasIndex("chapters", "idx_chapters_published"))

	// Second run is a no-op
	require.NoError(t, NewMigrator(db).Run())
	assert.Len(t, appliedIDs(t, db), 1)
}

func TestRunChecksDependencies(t *testing.T) {
	db := testutil.NewTestDB(t)
	noop := func(*gorm.DB) error { return nil }

	m := &Migrator{db: db, migrations: []Migration{
		{ID: "a", Name: "a", Up: noop},
		{ID: "b", Name: "b", Up: noop, DependsOn: []string{"a"}},
	}}
	require.NoError(t, m.Run())
	assert.Equal(t, []string{"a", "b"}, appliedIDs(t, db))

	m = &Migrator{db: db, migrations: []Migration{
		{ID: "c", Name: "c", Up: noop, DependsOn: []string{"missing"}},
	}}
	err := m.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depends on missing")
}

func TestFailedMigrationIsNotRecorded(t *testing.T) {
	db := testutil.NewTestDB(t)
	boom := errors.New("boom")

	m := &Migrator{db: db, migrations: []Migration{
		{ID: "bad", Name: "bad", Up: func(*gorm.DB) error { return boom }},
	}}
	err := m.Run()
	require.ErrorIs(t, err, boom)
	assert.Empty(t, appliedIDs(t, db))
}

func TestRollbackRevertsLatest(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, NewMigrator(db).Run())

	id, err := NewMigrator(db).Rollback()
	require.NoError(t, err)
	assert.Equal(t, "003_add_published_chapter_index", id)
	assert.Empty(t, appliedIDs(t, db))
	assert.False(t, db.Migrator().HasIndex("chapters", "idx_chapters_published"))

	id, err = NewMigrator(db).Rollback()
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestCourseTitleIndexMatchesCatalogFilter(t *testing.T) {
	// the listing filters on LOWER(title); an index on the bare column is never used
	assert.Contains(t, courseTitleTrgmIndex, "lower(title) gin_trgm_ops")
}
