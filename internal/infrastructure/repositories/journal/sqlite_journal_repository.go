// Package journal persists release runs in SQLite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
	"github.com/rios0rios0/releaseflow/internal/domain/repositories"
)

// SQLiteJournalRepository records runs in a single `runs` table.
type SQLiteJournalRepository struct {
	db *sql.DB
}

// NewSQLiteJournalRepository opens (and migrates) the journal at path.
func NewSQLiteJournalRepository(path string) (*SQLiteJournalRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	it := &SQLiteJournalRepository{db: db}
	if err = it.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return it, nil
}

var _ repositories.JournalRepository = (*SQLiteJournalRepository)(nil)

// Close closes the database connection.
func (it *SQLiteJournalRepository) Close() error {
	return it.db.Close()
}

func (it *SQLiteJournalRepository) migrate() error {
	_, err := it.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		version TEXT NOT NULL,
		branch TEXT NOT NULL DEFAULT '',
		phase TEXT NOT NULL,
		build TEXT NOT NULL DEFAULT 'pending',
		error TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL,
		finished_at DATETIME
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`)
	return err
}

func (it *SQLiteJournalRepository) Begin(ctx context.Context, record entities.RunRecord) error {
	_, err := it.db.ExecContext(ctx, `
		INSERT INTO runs (id, project, version, branch, phase, build, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Project, record.Version, record.Branch,
		string(record.Phase), string(record.Build), record.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (it *SQLiteJournalRepository) Transition(
	ctx context.Context,
	runID string,
	phase entities.ReleasePhase,
) error {
	result, err := it.db.ExecContext(ctx, `UPDATE runs SET phase = ? WHERE id = ?`, string(phase), runID)
	if err != nil {
		return fmt.Errorf("update run phase: %w", err)
	}
	return requireRow(result, runID)
}

func (it *SQLiteJournalRepository) Finish(ctx context.Context, report entities.ReleaseReport) error {
	message := ""
	if report.Err != nil {
		message = report.Err.Error()
	}

	result, err := it.db.ExecContext(ctx, `
		UPDATE runs
		SET phase = ?, version = ?, branch = ?, build = ?, error = ?, finished_at = ?
		WHERE id = ?`,
		string(report.Phase), report.Version, report.Branch, string(report.Build),
		message, time.Now().UTC(), report.RunID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return requireRow(result, report.RunID)
}

func (it *SQLiteJournalRepository) Recent(ctx context.Context, limit int) ([]entities.RunRecord, error) {
	rows, err := it.db.QueryContext(ctx, `
		SELECT id, project, version, branch, phase, build, error, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []entities.RunRecord
	for rows.Next() {
		var (
			record     entities.RunRecord
			phase      string
			build      string
			finishedAt sql.NullTime
		)
		if err = rows.Scan(
			&record.ID, &record.Project, &record.Version, &record.Branch,
			&phase, &build, &record.Error, &record.StartedAt, &finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		record.Phase = entities.ReleasePhase(phase)
		record.Build = entities.BuildOutcome(build)
		if finishedAt.Valid {
			finished := finishedAt.Time
			record.FinishedAt = &finished
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func requireRow(result sql.Result, runID string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("run %s is not journaled", runID)
	}
	return nil
}
