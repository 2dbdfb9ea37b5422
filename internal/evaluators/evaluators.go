// Package evaluators holds the rule-based scoring units of the engagement
// integrity pipeline. Every evaluator is a pure function of the submission
// and the reference time; none of them performs I/O or logs.
package evaluators

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/mikey/engagement-integrity/internal/core"
)

// Verdict thresholds. A score exactly at the threshold is positive.
const (
	SpamThreshold  = 0.7
	FraudThreshold = 0.6
	BonusThreshold = 0.7
)

// All returns every evaluator in canonical order
func All() []core.Evaluator {
	return []core.Evaluator{
		ContentRelevance(),
		SpamScore(),
		EngagementFraud(),
		ParticipationConsistency(),
		EngagementQuality(),
	}
}

// IsSpam applies the spam threshold
func IsSpam(score float64) bool {
	return score >= SpamThreshold
}

// IsFraud applies the fraud threshold
func IsFraud(score float64) bool {
	return score >= FraudThreshold
}

// IsBonusEligible applies the quality bonus threshold
func IsBonusEligible(score float64) bool {
	return score >= BonusThreshold
}

// finalizeScore clamps to [0,1] and rounds away accumulated float error so
// that summed weights compare exactly against thresholds
func finalizeScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return math.Round(score*1e9) / 1e9
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func boolPtr(b bool) *bool {
	return &b
}

// indicators is an insertion-ordered set
type indicators []string

func (i *indicators) add(name string) {
	if slices.Contains(*i, name) {
		return
	}
	*i = append(*i, name)
}

func (i indicators) list() []string {
	if i == nil {
		return []string{}
	}
	return []string(i)
}

func newResult(kind core.EvaluatorKind, score float64, ind indicators, now time.Time) core.EvaluationResult {
	return core.EvaluationResult{
		Kind:        kind,
		Score:       finalizeScore(score),
		Indicators:  ind.list(),
		EvaluatedAt: now,
	}
}
