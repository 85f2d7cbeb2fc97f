package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id       TEXT PRIMARY KEY,
	query    TEXT NOT NULL,
	taken_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS snapshot_leads (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
	position    INTEGER NOT NULL,
	lead        TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, position)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, query model.ScrapeRequest, leads []model.BusinessLead) (*Snapshot, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal query")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, query, taken_at) VALUES (?, ?, ?)`,
		id, string(queryJSON), now,
	); err != nil {
		return nil, eris.Wrap(err, "sqlite: insert snapshot")
	}

	// Position preserves upstream order: filtering and export must see leads
	// exactly as the backend returned them.
	for i, l := range leads {
		leadJSON, err := json.Marshal(l)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: marshal lead")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_leads (snapshot_id, position, lead) VALUES (?, ?, ?)`,
			id, i, string(leadJSON),
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: insert lead")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit")
	}

	return &Snapshot{ID: id, Query: query, Leads: leads, TakenAt: now}, nil
}

func (s *SQLiteStore) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, taken_at FROM snapshots ORDER BY rowid DESC LIMIT 1`,
	)

	var snap Snapshot
	var queryJSON string
	if err := row.Scan(&snap.ID, &queryJSON, &snap.TakenAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: scan snapshot")
	}
	if err := json.Unmarshal([]byte(queryJSON), &snap.Query); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal query")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT lead FROM snapshot_leads WHERE snapshot_id = ? ORDER BY position`,
		snap.ID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query leads")
	}
	defer rows.Close()

	for rows.Next() {
		var leadJSON string
		if err := rows.Scan(&leadJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		var l model.BusinessLead
		if err := json.Unmarshal([]byte(leadJSON), &l); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal lead")
		}
		snap.Leads = append(snap.Leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate leads")
	}

	return &snap, nil
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, taken_at FROM snapshots ORDER BY rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query snapshots")
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var queryJSON string
		if err := rows.Scan(&snap.ID, &queryJSON, &snap.TakenAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot")
		}
		if err := json.Unmarshal([]byte(queryJSON), &snap.Query); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal query")
		}
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: iterate snapshots")
}
