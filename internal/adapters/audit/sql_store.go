package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/core"
)

// sqlStore carries the queries shared by the SQLite and MySQL stores.
// Expiry is stored as unix seconds so both dialects compare it the same way.
type sqlStore struct {
	db          *sql.DB
	logger      *zap.Logger
	upsert      string
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

func (s *sqlStore) Get(ctx context.Context, submissionID string) (*core.AuditRecord, error) {
	var data []byte
	var expiresAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT record, expires_at
		FROM engagement_audit
		WHERE submission_id = ?
	`, submissionID).Scan(&data, &expiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query audit record: %w", err)
	}

	if time.Now().Unix() >= expiresAt {
		return nil, ErrExpired
	}

	return decodeRecord(data)
}

func (s *sqlStore) Set(ctx context.Context, record *core.AuditRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.upsert,
		record.SubmissionID,
		record.UserID,
		record.RaidID,
		string(record.Decision.Verdict),
		data,
		record.RecordedAt.Unix(),
		record.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}

	return nil
}

func (s *sqlStore) Delete(ctx context.Context, submissionID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM engagement_audit
		WHERE submission_id = ?
	`, submissionID)

	if err != nil {
		return fmt.Errorf("failed to delete audit record: %w", err)
	}

	return nil
}

func (s *sqlStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM engagement_audit
		WHERE expires_at <= ?
	`, time.Now().Unix())

	if err != nil {
		return fmt.Errorf("failed to clean up expired audit records: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Cleaned up expired audit records", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

func (s *sqlStore) startCleanupTask() {
	if s.cleanupFreq <= 0 {
		return
	}

	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Cleanup(context.Background()); err != nil {
				s.logger.Error("Failed to clean up audit records", zap.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database connection
func (s *sqlStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close audit database", zap.Error(err))
		}
	})
}
