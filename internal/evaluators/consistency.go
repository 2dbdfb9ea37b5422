package evaluators

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mikey/engagement-integrity/internal/core"
)

var consistencyTriggers = []string{"raid", "engag"}

const (
	neutralConsistency     = 0.5
	highVarianceCV         = 0.8
	rapidSequenceInterval  = 5.0 // seconds
	sessionHoppingGroups   = 3
	sessionHoppingPerGroup = 2.0
	sessionHoppingPenalty  = 0.15
)

// ParticipationConsistency scores how regular the user's participation
// timing is across raids. Lower variance in inter-arrival time scores higher.
func ParticipationConsistency() core.Evaluator {
	return core.Evaluator{
		Kind:     core.KindParticipationConsistency,
		Validate: validateConsistency,
		Evaluate: evaluateConsistency,
	}
}

func validateConsistency(s *core.Submission) bool {
	if s.EngagementHistory != nil {
		return true
	}
	return containsAny(strings.ToLower(s.Text), consistencyTriggers)
}

func evaluateConsistency(s *core.Submission, now time.Time) core.EvaluationResult {
	var flags indicators

	stamps := make([]time.Time, 0, len(s.EngagementHistory))
	for _, h := range s.EngagementHistory {
		if !h.Timestamp.IsZero() {
			stamps = append(stamps, h.Timestamp)
		}
	}
	if len(stamps) < 2 {
		flags.add("insufficient_history")
		return newResult(core.KindParticipationConsistency, neutralConsistency, flags, now)
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	intervals := make([]float64, 0, len(stamps)-1)
	for i := 1; i < len(stamps); i++ {
		intervals = append(intervals, stamps[i].Sub(stamps[i-1]).Seconds())
	}

	cv := coefficientOfVariation(intervals)
	base := 1 - math.Min(1, cv)
	score := base

	if cv > highVarianceCV {
		flags.add("high_variance_intervals")
	}

	for _, iv := range intervals {
		if iv < rapidSequenceInterval {
			flags.add("rapid_sequence_events")
			break
		}
	}

	groups := make(map[string]int)
	for _, h := range s.EngagementHistory {
		groups[h.RaidID]++
	}
	perGroup := float64(len(s.EngagementHistory)) / float64(len(groups))
	if len(groups) >= sessionHoppingGroups && perGroup < sessionHoppingPerGroup {
		flags.add("session_hopping")
		score -= sessionHoppingPenalty
	}

	res := newResult(core.KindParticipationConsistency, score, flags, now)
	res.Details = core.Details{
		BaseScore:              finalizeScore(base),
		IntervalsCount:         len(intervals),
		CoefficientOfVariation: cv,
	}
	return res
}

// coefficientOfVariation is the population standard deviation over the mean.
// A zero mean counts as maximal inconsistency.
func coefficientOfVariation(values []float64) float64 {
	if len(values) == 0 {
		return 1
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 1
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance) / mean
}
