package migration_test

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/pkg/database"
	"github.com/shashiranjanraj/kasir/pkg/migration"
)

type note struct {
	ID   uint
	Body string
}

type createNotes struct{}

func (createNotes) Up(db *gorm.DB) error   { return db.AutoMigrate(&note{}) }
func (createNotes) Down(db *gorm.DB) error { return db.Migrator().DropTable(&note{}) }

type addNoteIndex struct{}

func (addNoteIndex) Up(db *gorm.DB) error {
	return db.Exec("CREATE INDEX idx_notes_body ON notes(body)").Error
}
func (addNoteIndex) Down(db *gorm.DB) error {
	return db.Exec("DROP INDEX idx_notes_body").Error
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestRunAndRollbackBatches(t *testing.T) {
	db := openDB(t)
	first := migration.Entry{Name: "20260101000000_create_notes", Migration: createNotes{}}
	second := migration.Entry{Name: "20260102000000_add_note_index", Migration: addNoteIndex{}}

	var out bytes.Buffer
	n, err := migration.New(db).WithOutput(&out).WithEntries(first).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, out.String(), "20260101000000_create_notes")
	assert.True(t, db.Migrator().HasTable(&note{}))

	runner := migration.New(db).WithOutput(io.Discard).WithEntries(second, first)
	n, err = runner.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only the new migration runs")

	status, err := runner.Status()
	require.NoError(t, err)
	assert.Equal(t, []migration.Status{
		{Name: first.Name, Ran: true, Batch: 1},
		{Name: second.Name, Ran: true, Batch: 2},
	}, status)

	n, err = runner.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 1, n, "rollback reverts the last batch only")
	assert.True(t, db.Migrator().HasTable(&note{}))

	n, err = runner.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, db.Migrator().HasTable(&note{}))

	n, err = runner.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRunNothingPending(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer
	n, err := migration.New(db).WithOutput(&out).WithEntries().Run()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, out.String(), "Nothing to migrate.")
}

func TestRollbackUnknownMigration(t *testing.T) {
	db := openDB(t)
	_, err := migration.New(db).WithOutput(io.Discard).
		WithEntries(migration.Entry{Name: "20260101000000_create_notes", Migration: createNotes{}}).
		Run()
	require.NoError(t, err)

	_, err = migration.New(db).WithOutput(io.Discard).WithEntries().Rollback()
	assert.ErrorContains(t, err, "not registered")
}

func TestPending(t *testing.T) {
	db := openDB(t)
	runner := migration.New(db).WithOutput(io.Discard).
		WithEntries(migration.Entry{Name: "20260101000000_create_notes", Migration: createNotes{}})

	pending, err := runner.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = runner.Run()
	require.NoError(t, err)
	pending, err = runner.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}
