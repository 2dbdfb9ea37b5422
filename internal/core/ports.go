package core

import (
	"context"
	"time"
)

// Evaluator pairs an applicability predicate with a scoring function.
// Evaluate must be pure: the same submission and reference time always
// produce the same result.
type Evaluator struct {
	Kind     EvaluatorKind
	Validate func(s *Submission) bool
	Evaluate func(s *Submission, now time.Time) EvaluationResult
}

// Orchestrator runs the applicable evaluators against a submission
type Orchestrator interface {
	// Evaluate returns one result per applicable evaluator, in KindOrder
	Evaluate(ctx context.Context, s *Submission, now time.Time) ([]EvaluationResult, error)
}

// DecisionPolicy fuses evaluator results into a single verdict
type DecisionPolicy func(results []EvaluationResult) AggregateDecision

// AuditRepository persists evaluated submissions for dispute resolution
type AuditRepository interface {
	// Get retrieves the audit record of a submission
	Get(ctx context.Context, submissionID string) (*AuditRecord, error)

	// Set stores an audit record
	Set(ctx context.Context, record *AuditRecord) error

	// Delete removes an audit record
	Delete(ctx context.Context, submissionID string) error

	// Cleanup removes expired records
	Cleanup(ctx context.Context) error
}

// ReviewSummarizer writes moderator notes for held submissions
type ReviewSummarizer interface {
	Summarize(ctx context.Context, s *Submission, d *AggregateDecision) (*ReviewNote, error)
}

// AllowlistChecker reports users whose held submissions are admitted without review
type AllowlistChecker interface {
	IsAllowed(userID string) bool
}
