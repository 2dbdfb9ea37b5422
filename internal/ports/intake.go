package ports

import (
	"context"
	"io"

	"github.com/mikey/engagement-integrity/internal/core"
)

// SubmissionIntake defines how engagement claims enter the service
type SubmissionIntake interface {
	// ProcessSubmission evaluates one submission and reports the outcome
	ProcessSubmission(ctx context.Context, s *core.Submission) (*core.Outcome, error)

	// ProcessStream evaluates a single JSON submission, or one per line when jsonl is set
	ProcessStream(ctx context.Context, r io.Reader, jsonl bool) (*BatchSummary, error)

	// Start starts the intake
	Start() error

	// Stop stops the intake
	Stop() error
}

// BatchSummary tallies the outcomes of a stream of submissions
type BatchSummary struct {
	Total   int                  `json:"total"`
	Verdict map[core.Verdict]int `json:"verdicts"`
	Invalid int                  `json:"invalid"`
	Failed  int                  `json:"failed"`
}

// NewBatchSummary returns an empty summary
func NewBatchSummary() *BatchSummary {
	return &BatchSummary{Verdict: make(map[core.Verdict]int)}
}
