package audit

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the AuditRepository interface
type SQLiteStore struct {
	sqlStore
}

// NewSQLiteStore creates a new SQLite audit store
func NewSQLiteStore(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS engagement_audit (
			submission_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			raid_id TEXT NOT NULL,
			verdict TEXT NOT NULL,
			record BLOB NOT NULL,
			recorded_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Create index on expires_at for faster cleanup
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_audit_expires_at ON engagement_audit(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	store := &SQLiteStore{sqlStore{
		db:     db,
		logger: logger,
		upsert: `
			INSERT OR REPLACE INTO engagement_audit
				(submission_id, user_id, raid_id, verdict, record, recorded_at, expires_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}}

	go store.startCleanupTask()

	return store, nil
}
