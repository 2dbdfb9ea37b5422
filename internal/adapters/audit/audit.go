// Package audit holds the stores behind core.AuditRepository
package audit

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mikey/engagement-integrity/internal/core"
)

var (
	// ErrNotFound is returned when no audit record exists for a submission
	ErrNotFound = errors.New("audit record not found")
	// ErrExpired is returned when an audit record is past its retention
	ErrExpired = errors.New("audit record expired")
	// ErrMissingID is returned when storing a record without a submission ID
	ErrMissingID = errors.New("audit record has no submission id")
)

func encodeRecord(record *core.AuditRecord) ([]byte, error) {
	if record == nil || record.SubmissionID == "" {
		return nil, ErrMissingID
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit record: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (*core.AuditRecord, error) {
	var record core.AuditRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode audit record: %w", err)
	}
	return &record, nil
}
