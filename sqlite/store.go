package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/uvdocs"
)

// Compile-time interface verification.
var _ uvdocs.CacheStore = (*CacheStore)(nil)

// CacheStore implements uvdocs.CacheStore using SQLite. Each section is
// stored as one JSON payload and replaced wholesale.
type CacheStore struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(db *DB) *CacheStore {
	return &CacheStore{db: db, Now: time.Now}
}

// hashPayload computes the xxHash of a payload as a hex string.
func hashPayload(payload []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(payload))
}

// Document returns the cached document for section. A missing or
// unreadable payload returns ENOTFOUND; other read faults return ECACHEIO.
func (s *CacheStore) Document(ctx context.Context, section string) (*uvdocs.Document, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM sections WHERE name = ?`, section).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, uvdocs.Errorf(uvdocs.ENOTFOUND, "no cached data for section %q", section)
	}
	if err != nil {
		return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "reading section %q: %v", section, err)
	}

	var doc uvdocs.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil || doc.Type != uvdocs.DocumentType {
		return nil, uvdocs.Errorf(uvdocs.ENOTFOUND, "no cached data for section %q (unreadable payload)", section)
	}
	if doc.Elements == nil {
		doc.Elements = []*uvdocs.Element{}
	}
	return &doc, nil
}

// Version returns the stored version record.
func (s *CacheStore) Version(ctx context.Context) (*uvdocs.VersionRecord, error) {
	var rec uvdocs.VersionRecord
	err := s.db.QueryRowContext(ctx, `SELECT version FROM versions WHERE id = 1`).Scan(&rec.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, uvdocs.Errorf(uvdocs.ENOTFOUND, "no version recorded")
	}
	if err != nil {
		return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "reading version: %v", err)
	}
	return &rec, nil
}

// SetVersion replaces the stored version record.
func (s *CacheStore) SetVersion(ctx context.Context, rec uvdocs.VersionRecord) error {
	return s.setVersion(ctx, s.db.db, rec)
}

func (s *CacheStore) setVersion(ctx context.Context, ex execer, rec uvdocs.VersionRecord) error {
	if rec.Version == "" {
		return uvdocs.Errorf(uvdocs.EINVALID, "version required")
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO versions (id, version, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET version = excluded.version, updated_at = excluded.updated_at
	`, rec.Version, formatTime(s.Now()))
	if err != nil {
		return uvdocs.Errorf(uvdocs.ECACHEIO, "writing version: %v", err)
	}
	return nil
}

// PutDocument replaces the stored document for doc.Section and reports
// whether its content changed.
func (s *CacheStore) PutDocument(ctx context.Context, doc *uvdocs.Document) (uvdocs.PutResult, error) {
	return s.putDocument(ctx, s.db.db, doc)
}

func (s *CacheStore) putDocument(ctx context.Context, ex execer, doc *uvdocs.Document) (uvdocs.PutResult, error) {
	if err := doc.Validate(); err != nil {
		return uvdocs.PutResult{}, err
	}
	doc.Type = uvdocs.DocumentType

	payload, err := json.Marshal(doc)
	if err != nil {
		return uvdocs.PutResult{}, uvdocs.Errorf(uvdocs.ECACHEIO, "encoding section %q: %v", doc.Section, err)
	}
	hash := hashPayload(payload)

	var previous string
	err = ex.QueryRowContext(ctx, `SELECT content_hash FROM sections WHERE name = ?`, doc.Section).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return uvdocs.PutResult{}, uvdocs.Errorf(uvdocs.ECACHEIO, "reading section %q: %v", doc.Section, err)
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO sections (name, payload, content_hash, element_count, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload,
			content_hash = excluded.content_hash,
			element_count = excluded.element_count,
			updated_at = excluded.updated_at
	`, doc.Section, string(payload), hash, len(doc.Elements), formatTime(s.Now()))
	if err != nil {
		return uvdocs.PutResult{}, uvdocs.Errorf(uvdocs.ECACHEIO, "writing section %q: %v", doc.Section, err)
	}

	return uvdocs.PutResult{Hash: hash, Changed: previous != hash}, nil
}

// Commit writes rec and docs in a single transaction. Either all of them
// become visible or none do.
func (s *CacheStore) Commit(ctx context.Context, rec uvdocs.VersionRecord, docs []*uvdocs.Document) error {
	err := s.db.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.setVersion(ctx, tx, rec); err != nil {
			return err
		}
		for _, doc := range docs {
			if _, err := s.putDocument(ctx, tx, doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && uvdocs.ErrorCode(err) == uvdocs.EINTERNAL {
		return uvdocs.Errorf(uvdocs.ECACHEIO, "committing refresh: %v", err)
	}
	return err
}

// Sections returns the names of all cached sections, sorted by name.
func (s *CacheStore) Sections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM sections ORDER BY name`)
	if err != nil {
		return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "listing sections: %v", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "listing sections: %v", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "listing sections: %v", err)
	}
	return names, nil
}

// Clear removes every cached document and the version record. Refresh
// history and notes are kept.
func (s *CacheStore) Clear(ctx context.Context) error {
	err := s.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sections`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM versions`)
		return err
	})
	if err != nil {
		return uvdocs.Errorf(uvdocs.ECACHEIO, "clearing cache: %v", err)
	}
	return nil
}

// SectionInfo summarizes one cached section without decoding its payload.
type SectionInfo struct {
	Name         string
	ContentHash  string
	ElementCount int
	UpdatedAt    time.Time
}

// SectionInfos returns a summary of every cached section, sorted by name.
func (s *CacheStore) SectionInfos(ctx context.Context) ([]*SectionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, content_hash, element_count, updated_at FROM sections ORDER BY name
	`)
	if err != nil {
		return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "listing sections: %v", err)
	}
	defer rows.Close()

	infos := make([]*SectionInfo, 0)
	for rows.Next() {
		var info SectionInfo
		var updatedAt string
		if err := rows.Scan(&info.Name, &info.ContentHash, &info.ElementCount, &updatedAt); err != nil {
			return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "listing sections: %v", err)
		}
		if info.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "listing sections: %v", err)
		}
		infos = append(infos, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, uvdocs.Errorf(uvdocs.ECACHEIO, "listing sections: %v", err)
	}
	return infos, nil
}
