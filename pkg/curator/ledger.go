package curator

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Ledger records which (task, algorithm) pairs have already been
// curated, so repeated batches never emit duplicate examples.
type Ledger interface {
	// Reserve claims the pair. It returns false when the pair was
	// already present, without error.
	Reserve(ctx context.Context, taskNorm, algorithmID string) (bool, error)

	// Release gives a reservation back, so the pair can be curated
	// again after a failed export. Releasing an absent pair is a no-op.
	Release(ctx context.Context, taskNorm, algorithmID string) error

	Close() error
}

// SQLiteLedger persists reservations in a local SQLite database, so
// deduplication survives restarts and spans export targets.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens (and if needed initializes) the ledger at path.
func NewSQLiteLedger(path string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("curator: open ledger: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS curated (
			task_norm    TEXT NOT NULL,
			algorithm_id TEXT NOT NULL,
			created_at   TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (task_norm, algorithm_id)
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("curator: init ledger schema: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

// Reserve claims the pair via INSERT OR IGNORE, reading the affected
// row count to distinguish a fresh claim from a replay.
func (l *SQLiteLedger) Reserve(ctx context.Context, taskNorm, algorithmID string) (bool, error) {
	res, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO curated (task_norm, algorithm_id) VALUES (?, ?)`,
		taskNorm, algorithmID,
	)
	if err != nil {
		return false, fmt.Errorf("curator: reserve: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("curator: reserve: %w", err)
	}
	return n > 0, nil
}

func (l *SQLiteLedger) Release(ctx context.Context, taskNorm, algorithmID string) error {
	_, err := l.db.ExecContext(ctx,
		`DELETE FROM curated WHERE task_norm = ? AND algorithm_id = ?`,
		taskNorm, algorithmID,
	)
	if err != nil {
		return fmt.Errorf("curator: release: %w", err)
	}
	return nil
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// MemoryLedger is an in-process Ledger for tests and ad-hoc runs.
type MemoryLedger struct {
	mu   sync.Mutex
	seen map[[2]string]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{seen: make(map[[2]string]struct{})}
}

func (l *MemoryLedger) Reserve(_ context.Context, taskNorm, algorithmID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := [2]string{taskNorm, algorithmID}
	if _, ok := l.seen[key]; ok {
		return false, nil
	}
	l.seen[key] = struct{}{}
	return true, nil
}

func (l *MemoryLedger) Release(_ context.Context, taskNorm, algorithmID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.seen, [2]string{taskNorm, algorithmID})
	return nil
}

func (l *MemoryLedger) Close() error { return nil }
