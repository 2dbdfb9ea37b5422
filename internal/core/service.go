package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAuditDisabled is returned by operations that need the audit trail when
// auditing is switched off
var ErrAuditDisabled = errors.New("audit trail is disabled")

// ReasonAllowlisted is added to a decision promoted by the allowlist
const ReasonAllowlisted = "allowlisted_user"

// IntegrityService is the core service for engagement verification
type IntegrityService struct {
	orchestrator Orchestrator
	policy       DecisionPolicy
	audit        AuditRepository
	summarizer   ReviewSummarizer
	allowlist    AllowlistChecker
	logger       *zap.Logger
	timeout      time.Duration
	auditEnabled bool
	auditTTL     time.Duration
	clock        func() time.Time
}

// NewIntegrityService creates a new integrity service. The summarizer and
// allowlist may be nil.
func NewIntegrityService(
	orchestrator Orchestrator,
	policy DecisionPolicy,
	audit AuditRepository,
	summarizer ReviewSummarizer,
	allowlist AllowlistChecker,
	logger *zap.Logger,
	timeout time.Duration,
	auditEnabled bool,
	auditTTL time.Duration,
) *IntegrityService {
	return &IntegrityService{
		orchestrator: orchestrator,
		policy:       policy,
		audit:        audit,
		summarizer:   summarizer,
		allowlist:    allowlist,
		logger:       logger,
		timeout:      timeout,
		auditEnabled: auditEnabled && audit != nil,
		auditTTL:     auditTTL,
		clock:        time.Now,
	}
}

// SetClock replaces the source of evaluation reference times
func (s *IntegrityService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Process evaluates a submission, fuses a verdict and records the outcome.
// The caller's submission is left untouched; a copy receives the generated ID.
func (s *IntegrityService) Process(ctx context.Context, submission *Submission) (*Outcome, error) {
	if err := submission.Validate(); err != nil {
		return nil, err
	}

	claim := *submission
	if claim.ID == "" {
		claim.ID = uuid.NewString()
	}
	now := s.clock().UTC()

	decision, err := s.decide(ctx, &claim, now)
	if err != nil {
		return nil, err
	}

	var note *ReviewNote
	if decision.Verdict == VerdictFlag && s.summarizer != nil {
		note, err = s.summarizer.Summarize(ctx, &claim, &decision)
		if err != nil {
			s.logger.Error("Failed to summarize held submission",
				zap.String("submission_id", claim.ID),
				zap.Error(err))
			note = nil
		}
	}

	if s.auditEnabled {
		record := &AuditRecord{
			SubmissionID: claim.ID,
			UserID:       claim.UserID,
			RaidID:       claim.RaidID,
			Submission:   claim,
			Decision:     decision,
			ReviewNote:   note,
			EvaluatedAt:  now,
			RecordedAt:   s.clock().UTC(),
			ExpiresAt:    now.Add(s.auditTTL),
		}
		if err := s.audit.Set(ctx, record); err != nil {
			s.logger.Error("Failed to write audit record",
				zap.String("submission_id", claim.ID),
				zap.Error(err))
		}
	}

	s.logger.Info("Submission processed",
		zap.String("submission_id", claim.ID),
		zap.String("user_id", claim.UserID),
		zap.String("raid_id", claim.RaidID),
		zap.String("verdict", string(decision.Verdict)),
		zap.Float64("trust_score", decision.TrustScore),
		zap.Strings("reasons", decision.Reasons))

	return &Outcome{
		SubmissionID:     claim.ID,
		Decision:         decision,
		UserMessage:      decision.UserMessage(),
		ModeratorSummary: decision.ModeratorSummary(),
		ReviewNote:       note,
		EvaluatedAt:      now,
	}, nil
}

// Replay re-runs the pipeline over a stored submission at its original
// reference time and compares the result with the stored decision
func (s *IntegrityService) Replay(ctx context.Context, submissionID string) (*ReplayResult, error) {
	if !s.auditEnabled {
		return nil, ErrAuditDisabled
	}

	record, err := s.audit.Get(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit record %s: %w", submissionID, err)
	}

	recomputed, err := s.decide(ctx, &record.Submission, record.EvaluatedAt)
	if err != nil {
		return nil, err
	}

	matches, err := sameDecision(&record.Decision, &recomputed)
	if err != nil {
		return nil, err
	}
	if !matches {
		s.logger.Warn("Replayed decision differs from the stored one",
			zap.String("submission_id", submissionID),
			zap.String("stored", string(record.Decision.Verdict)),
			zap.String("recomputed", string(recomputed.Verdict)))
	}

	return &ReplayResult{
		SubmissionID: submissionID,
		Stored:       record.Decision,
		Recomputed:   recomputed,
		Matches:      matches,
	}, nil
}

// AuditRecord returns the stored trail of a submission
func (s *IntegrityService) AuditRecord(ctx context.Context, submissionID string) (*AuditRecord, error) {
	if !s.auditEnabled {
		return nil, ErrAuditDisabled
	}
	return s.audit.Get(ctx, submissionID)
}

// CleanupAudit removes expired audit records
func (s *IntegrityService) CleanupAudit(ctx context.Context) error {
	if !s.auditEnabled {
		return ErrAuditDisabled
	}
	return s.audit.Cleanup(ctx)
}

func (s *IntegrityService) decide(ctx context.Context, claim *Submission, now time.Time) (AggregateDecision, error) {
	evalCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		evalCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	results, err := s.orchestrator.Evaluate(evalCtx, claim, now)
	if err != nil {
		return AggregateDecision{}, fmt.Errorf("failed to evaluate submission %s: %w", claim.ID, err)
	}

	decision := s.policy(results)

	if decision.Verdict == VerdictFlag && s.allowlist != nil && s.allowlist.IsAllowed(claim.UserID) {
		s.logger.Info("Admitting held submission for allowlisted user",
			zap.String("user_id", claim.UserID),
			zap.String("action", "allowlist_bypass"))
		decision.Verdict = VerdictAdmit
		decision.Reasons = append(decision.Reasons, ReasonAllowlisted)
	}

	return decision, nil
}

// decisions round-trip through storage, so compare their encoded form
func sameDecision(a, b *AggregateDecision) (bool, error) {
	left, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("failed to encode stored decision: %w", err)
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("failed to encode recomputed decision: %w", err)
	}
	return bytes.Equal(left, right), nil
}
