//go:build unit

package journal_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/infrastructure/repositories/journal"
)

func newJournal(t *testing.T) *journal.SQLiteJournalRepository {
	t.Helper()
	repo, err := journal.NewSQLiteJournalRepository(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func begin(t *testing.T, repo *journal.SQLiteJournalRepository, id string, startedAt time.Time) {
	t.Helper()
	require.NoError(t, repo.Begin(context.Background(), entities.RunRecord{
		ID:        id,
		Project:   "demo",
		Version:   "1.0.0",
		Phase:     entities.PhasePreparing,
		Build:     entities.BuildPending,
		StartedAt: startedAt,
	}))
}

func TestSQLiteJournalRepository(t *testing.T) {
	t.Parallel()

	t.Run("should record a run from begin to finish", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newJournal(t)
		ctx := context.Background()
		begin(t, repo, "run-1", time.Now())

		// when
		require.NoError(t, repo.Transition(ctx, "run-1", entities.PhaseCommitting))
		require.NoError(t, repo.Finish(ctx, entities.ReleaseReport{
			RunID:   "run-1",
			Phase:   entities.PhaseFailed,
			Version: "1.1.0",
			Branch:  "dev/1.1.0",
			Build:   entities.BuildPending,
			Err:     &entities.PhaseError{Phase: entities.PhaseCommitting, Err: entities.ErrConflict},
		}))
		records, err := repo.Recent(ctx, 10)

		// then
		require.NoError(t, err)
		require.Len(t, records, 1)
		record := records[0]
		assert.Equal(t, "run-1", record.ID)
		assert.Equal(t, "demo", record.Project)
		assert.Equal(t, "1.1.0", record.Version)
		assert.Equal(t, "dev/1.1.0", record.Branch)
		assert.Equal(t, entities.PhaseFailed, record.Phase)
		assert.Contains(t, record.Error, "conflicts")
		assert.NotNil(t, record.FinishedAt)
	})

	t.Run("should list the newest runs first up to the limit", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newJournal(t)
		now := time.Now()
		begin(t, repo, "old", now.Add(-2*time.Hour))
		begin(t, repo, "new", now)
		begin(t, repo, "mid", now.Add(-time.Hour))

		// when
		records, err := repo.Recent(context.Background(), 2)

		// then
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "new", records[0].ID)
		assert.Equal(t, "mid", records[1].ID)
		assert.Nil(t, records[0].FinishedAt)
	})

	t.Run("should fail to update a run that was never begun", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newJournal(t)

		// when
		err := repo.Transition(context.Background(), "ghost", entities.PhaseDone)

		// then
		require.Error(t, err)
	})

	t.Run("should reject a duplicate run id", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newJournal(t)
		begin(t, repo, "run-1", time.Now())

		// when
		err := repo.Begin(context.Background(), entities.RunRecord{ID: "run-1", StartedAt: time.Now()})

		// then
		require.Error(t, err)
	})
}

func TestNoopJournalRepository(t *testing.T) {
	t.Parallel()

	t.Run("should accept every call and return no history", func(t *testing.T) {
		t.Parallel()

		// given
		repo := journal.NoopJournalRepository{}
		ctx := context.Background()

		// when
		beginErr := repo.Begin(ctx, entities.RunRecord{ID: "run-1"})
		records, recentErr := repo.Recent(ctx, 5)

		// then
		require.NoError(t, beginErr)
		require.NoError(t, recentErr)
		assert.Empty(t, records)
	})
}
