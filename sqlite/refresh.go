package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fwojciec/uvdocs"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ uvdocs.RefreshLog = (*RefreshLog)(nil)

// RefreshLog implements uvdocs.RefreshLog using SQLite.
type RefreshLog struct {
	db *DB
}

// NewRefreshLog creates a new RefreshLog.
func NewRefreshLog(db *DB) *RefreshLog {
	return &RefreshLog{db: db}
}

// RecordRefresh appends rec to the history. An empty ID is generated.
func (l *RefreshLog) RecordRefresh(ctx context.Context, rec *uvdocs.RefreshRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO refreshes (id, version, forced, succeeded, failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Version, rec.Forced, rec.Succeeded, rec.Failed,
		formatTime(rec.StartedAt), formatTime(rec.FinishedAt))
	if err != nil {
		return uvdocs.Errorf(uvdocs.ECACHEIO, "recording refresh: %v", err)
	}
	return nil
}

// LastRefresh returns the most recently recorded refresh.
func (l *RefreshLog) LastRefresh(ctx context.Context) (*uvdocs.RefreshRecord, error) {
	var rec uvdocs.RefreshRecord
	var startedAt, finishedAt string

	err := l.db.QueryRowContext(ctx, `
		SELECT id, version, forced, succeeded, failed, started_at, finished_at
		FROM refreshes
		ORDER BY rowid DESC
		LIMIT 1
	`).Scan(&rec.ID, &rec.Version, &rec.Forced, &rec.Succeeded, &rec.Failed, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, uvdocs.Errorf(uvdocs.ENOTFOUND, "no refresh recorded")
	}
	if err != nil {
		return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "reading refresh history: %v", err)
	}

	if rec.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if rec.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &rec, nil
}
