package records

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/contre95/photoimport/src/media"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore keeps both record sets in one SQLite table. Each row carries
// the run that wrote it.
type SqliteStore struct {
	mu      sync.Mutex
	db      *sql.DB
	runID   string
	pending []row
}

type row struct {
	set  media.RecordSet
	path string
	at   time.Time
}

// NewSqliteStore opens the database and creates the schema.
func NewSqliteStore(path, runID string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db, runID: runID}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			record_set TEXT NOT NULL,
			run_id TEXT,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_records_set ON records(record_set);
	`)
	if err != nil {
		return fmt.Errorf("failed to create records table: %w", err)
	}
	return nil
}

// Load reads every recorded path.
func (s *SqliteStore) Load(ctx context.Context) (*media.Records, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT path, record_set FROM records`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := media.NewRecords()
	for rows.Next() {
		var path, set string
		if err := rows.Scan(&path, &set); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records.Add(media.RecordSet(set), path)
	}
	return records, rows.Err()
}

// Append queues a row until the next Flush.
func (s *SqliteStore) Append(ctx context.Context, set media.RecordSet, path string) error {
	if set != media.Imported && set != media.Errored {
		return fmt.Errorf("unknown record set %q", set)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, row{set: set, path: path, at: time.Now()})
	return nil
}

// Flush commits the queued rows in one transaction.
func (s *SqliteStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush(ctx)
}

func (s *SqliteStore) flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (path, record_set, run_id, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range s.pending {
		if _, err := stmt.ExecContext(ctx, r.path, string(r.set), s.runID, r.at.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", r.path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	s.pending = s.pending[:0]
	return nil
}

// Close flushes and closes the database.
func (s *SqliteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flush(context.Background()); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}
