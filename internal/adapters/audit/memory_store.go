package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/core"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the AuditRepository interface
type MemoryStore struct {
	entries     map[string]memoryEntry
	mu          sync.RWMutex
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMemoryStore creates a new in-memory audit store
func NewMemoryStore(logger *zap.Logger, cleanupFreq time.Duration) *MemoryStore {
	store := &MemoryStore{
		entries:     make(map[string]memoryEntry),
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go store.startCleanupTask()
	}

	return store
}

// Get retrieves the audit record of a submission
func (s *MemoryStore) Get(ctx context.Context, submissionID string) (*core.AuditRecord, error) {
	s.mu.RLock()
	entry, ok := s.entries[submissionID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		return nil, ErrExpired
	}

	return decodeRecord(entry.data)
}

// Set stores an audit record, replacing any earlier one for the submission
func (s *MemoryStore) Set(ctx context.Context, record *core.AuditRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[record.SubmissionID] = memoryEntry{data: data, expiresAt: record.ExpiresAt}
	return nil
}

// Delete removes an audit record
func (s *MemoryStore) Delete(ctx context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, submissionID)
	return nil
}

// Cleanup removes expired records
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			expiredCount++
		}
	}

	s.logger.Debug("Cleaned up expired audit records", zap.Int("expired_count", expiredCount))
	return nil
}

func (s *MemoryStore) startCleanupTask() {
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

// Stop stops the background cleanup task
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
