package audit

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the AuditRepository interface
type MySQLStore struct {
	sqlStore
}

// NewMySQLStore creates a new MySQL audit store
func NewMySQLStore(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS engagement_audit (
			submission_id VARCHAR(128) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			raid_id VARCHAR(255) NOT NULL,
			verdict VARCHAR(16) NOT NULL,
			record LONGBLOB NOT NULL,
			recorded_at BIGINT NOT NULL,
			expires_at BIGINT NOT NULL,
			INDEX idx_audit_expires_at (expires_at),
			INDEX idx_audit_user_id (user_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	store := &MySQLStore{sqlStore{
		db:     db,
		logger: logger,
		upsert: `
			INSERT INTO engagement_audit
				(submission_id, user_id, raid_id, verdict, record, recorded_at, expires_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				user_id = VALUES(user_id),
				raid_id = VALUES(raid_id),
				verdict = VALUES(verdict),
				record = VALUES(record),
				recorded_at = VALUES(recorded_at),
				expires_at = VALUES(expires_at)
		`,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}}

	go store.startCleanupTask()

	return store, nil
}
