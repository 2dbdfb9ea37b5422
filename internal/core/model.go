package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidSubmission is returned when a submission lacks the identifiers
// needed to attribute a verdict
var ErrInvalidSubmission = errors.New("invalid engagement submission")

// ActionType is the kind of engagement a user claims to have performed
type ActionType string

const (
	ActionLike    ActionType = "like"
	ActionRetweet ActionType = "retweet"
	ActionQuote   ActionType = "quote"
	ActionComment ActionType = "comment"
	ActionVerify  ActionType = "verify"
)

// Evidence is an optional attestation attached to a submission. It arrives
// either as an opaque string or as a structured object.
type Evidence struct {
	Raw      string        `json:"-"`
	Type     string        `json:"type,omitempty"`
	URL      string        `json:"url,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Provided reports whether the evidence carries anything at all
func (e *Evidence) Provided() bool {
	if e == nil {
		return false
	}
	return strings.TrimSpace(e.Raw) != "" || e.Type != "" || e.URL != ""
}

// UnmarshalJSON accepts "screenshot" as well as {"type":"video","url":"...","duration":30}.
// Duration in the object form is given in seconds.
func (e *Evidence) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*e = Evidence{Raw: raw}
		return nil
	}

	var obj struct {
		Type     string  `json:"type"`
		URL      string  `json:"url"`
		Duration float64 `json:"duration"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("evidence must be a string or an object: %w", err)
	}
	*e = Evidence{
		Type:     obj.Type,
		URL:      obj.URL,
		Duration: time.Duration(obj.Duration * float64(time.Second)),
	}
	return nil
}

// MarshalJSON mirrors UnmarshalJSON
func (e Evidence) MarshalJSON() ([]byte, error) {
	if e.Raw != "" {
		return json.Marshal(e.Raw)
	}
	return json.Marshal(struct {
		Type     string  `json:"type,omitempty"`
		URL      string  `json:"url,omitempty"`
		Duration float64 `json:"duration,omitempty"`
	}{e.Type, e.URL, e.Duration.Seconds()})
}

// RecentEngagement is a prior action by the same user inside the current burst window
type RecentEngagement struct {
	ActionType     ActionType `json:"actionType"`
	Timestamp      time.Time  `json:"timestamp"`
	SubmissionText string     `json:"submissionText,omitempty"`
}

// HistoryEntry is a prior action by the same user, spanning raids and sessions
type HistoryEntry struct {
	RaidID    string    `json:"raidId"`
	Timestamp time.Time `json:"timestamp"`
}

// Submission is an engagement claim. It is never mutated by evaluation.
type Submission struct {
	ID                     string             `json:"id,omitempty"`
	UserID                 string             `json:"userId"`
	RaidID                 string             `json:"raidId"`
	ActionType             ActionType         `json:"actionType,omitempty"`
	Text                   string             `json:"text,omitempty"`
	TargetContent          string             `json:"targetContent,omitempty"`
	Topics                 []string           `json:"topics,omitempty"`
	Evidence               *Evidence          `json:"evidence,omitempty"`
	SuspiciousPatternsHint []string           `json:"suspiciousPatternsHint,omitempty"`
	SubmittedAt            time.Time          `json:"submittedAt"`
	RecentEngagements      []RecentEngagement `json:"recentEngagements,omitempty"`
	// nil means the caller supplied no history at all; an empty slice means
	// the caller looked and found none
	EngagementHistory []HistoryEntry `json:"engagementHistory"`
}

// Validate checks the identifiers a verdict is attributed to
func (s *Submission) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil submission", ErrInvalidSubmission)
	}
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("%w: missing userId", ErrInvalidSubmission)
	}
	if strings.TrimSpace(s.RaidID) == "" {
		return fmt.Errorf("%w: missing raidId", ErrInvalidSubmission)
	}
	return nil
}

// HasHint reports whether the upstream detector flagged any of the given patterns
func (s *Submission) HasHint(patterns ...string) bool {
	for _, h := range s.SuspiciousPatternsHint {
		for _, p := range patterns {
			if strings.EqualFold(h, p) {
				return true
			}
		}
	}
	return false
}

// EvaluatorKind identifies the evaluator that produced a result
type EvaluatorKind string

const (
	KindContentRelevance         EvaluatorKind = "content_relevance"
	KindSpamScore                EvaluatorKind = "spam_score"
	KindEngagementFraud          EvaluatorKind = "engagement_fraud"
	KindParticipationConsistency EvaluatorKind = "participation_consistency"
	KindEngagementQuality        EvaluatorKind = "engagement_quality"
)

// KindOrder is the canonical ordering of evaluator kinds in a result set
var KindOrder = []EvaluatorKind{
	KindContentRelevance,
	KindSpamScore,
	KindEngagementFraud,
	KindParticipationConsistency,
	KindEngagementQuality,
}

// QualityTier buckets the engagement quality score
type QualityTier string

const (
	TierExceptional QualityTier = "exceptional"
	TierHigh        QualityTier = "high"
	TierGood        QualityTier = "good"
	TierBasic       QualityTier = "basic"
	TierLow         QualityTier = "low"
)

// Details carries evaluator-specific diagnostics
type Details struct {
	BaseScore              float64     `json:"baseScore,omitempty"`
	TargetProvided         bool        `json:"targetProvided,omitempty"`
	IntervalsCount         int         `json:"intervalsCount,omitempty"`
	CoefficientOfVariation float64     `json:"coefficientOfVariation,omitempty"`
	Tier                   QualityTier `json:"tier,omitempty"`
}

// EvaluationResult is the output of a single evaluator for a single submission
type EvaluationResult struct {
	Kind  EvaluatorKind `json:"kind"`
	Score float64       `json:"score"`
	// Indicators are in detection order. For participation_consistency these are its flags.
	Indicators []string `json:"indicators"`
	// Verdict is the evaluator's boolean shortcut (isSpam, isFraud, bonusEligible);
	// nil for advisory evaluators.
	Verdict     *bool     `json:"verdict,omitempty"`
	Details     Details   `json:"details"`
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

// HasIndicator reports whether the named indicator fired
func (r *EvaluationResult) HasIndicator(name string) bool {
	for _, i := range r.Indicators {
		if i == name {
			return true
		}
	}
	return false
}

// VerdictTrue is true only when the evaluator has a verdict and it is positive
func (r *EvaluationResult) VerdictTrue() bool {
	return r.Verdict != nil && *r.Verdict
}

// Verdict is the fused admit/flag/reject outcome
type Verdict string

const (
	VerdictAdmit  Verdict = "admit"
	VerdictFlag   Verdict = "flag"
	VerdictReject Verdict = "reject"
)

// AggregateDecision is what the raid coordinator acts upon
type AggregateDecision struct {
	Verdict             Verdict            `json:"verdict"`
	TrustScore          float64            `json:"trustScore"`
	Reasons             []string           `json:"reasons,omitempty"`
	ContributingResults []EvaluationResult `json:"contributingResults"`
}

// Result returns the contributing result of the given kind, if any
func (d *AggregateDecision) Result(kind EvaluatorKind) (*EvaluationResult, bool) {
	for i := range d.ContributingResults {
		if d.ContributingResults[i].Kind == kind {
			return &d.ContributingResults[i], true
		}
	}
	return nil, false
}

// UserMessage is safe to show the submitting user. It never names indicators.
func (d *AggregateDecision) UserMessage() string {
	switch d.Verdict {
	case VerdictAdmit:
		return "engagement accepted"
	case VerdictFlag:
		return "engagement held for review"
	default:
		return "engagement not accepted"
	}
}

// ModeratorSummary lists every fired indicator, for moderators only
func (d *AggregateDecision) ModeratorSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "verdict=%s trust=%.3f", d.Verdict, d.TrustScore)
	if len(d.Reasons) > 0 {
		fmt.Fprintf(&b, " reasons=[%s]", strings.Join(d.Reasons, ", "))
	}
	for _, r := range d.ContributingResults {
		fmt.Fprintf(&b, "\n  %s score=%.3f", r.Kind, r.Score)
		if len(r.Indicators) > 0 {
			fmt.Fprintf(&b, " indicators=[%s]", strings.Join(r.Indicators, ", "))
		}
	}
	return b.String()
}

// ReviewNote is a moderator-facing summary of a flagged submission
type ReviewNote struct {
	Summary           string    `json:"summary"`
	RecommendedAction string    `json:"recommendedAction"`
	Confidence        float64   `json:"confidence"`
	ModelUsed         string    `json:"modelUsed"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

// AuditRecord is the persisted trail of one evaluated submission
type AuditRecord struct {
	SubmissionID string            `json:"submissionId"`
	UserID       string            `json:"userId"`
	RaidID       string            `json:"raidId"`
	Submission   Submission        `json:"submission"`
	Decision     AggregateDecision `json:"decision"`
	ReviewNote   *ReviewNote       `json:"reviewNote,omitempty"`
	EvaluatedAt  time.Time         `json:"evaluatedAt"`
	RecordedAt   time.Time         `json:"recordedAt"`
	ExpiresAt    time.Time         `json:"expiresAt"`
}

// Outcome is returned to the raid coordinator for one processed submission
type Outcome struct {
	SubmissionID     string            `json:"submissionId"`
	Decision         AggregateDecision `json:"decision"`
	UserMessage      string            `json:"userMessage"`
	ModeratorSummary string            `json:"moderatorSummary"`
	ReviewNote       *ReviewNote       `json:"reviewNote,omitempty"`
	EvaluatedAt      time.Time         `json:"evaluatedAt"`
}

// ReplayResult compares a stored decision with one recomputed from the same
// submission and reference time
type ReplayResult struct {
	SubmissionID string            `json:"submissionId"`
	Stored       AggregateDecision `json:"stored"`
	Recomputed   AggregateDecision `json:"recomputed"`
	Matches      bool              `json:"matches"`
}
