package evaluators

import (
	"strings"
	"time"

	"github.com/mikey/engagement-integrity/internal/core"
)

var fraudTriggers = []string{"engag", "raid", "tweet"}

var highValueActions = map[core.ActionType]bool{
	core.ActionVerify:  true,
	core.ActionQuote:   true,
	core.ActionComment: true,
}

const (
	noEvidenceWeight      = 0.3
	patternHintWeight     = 0.3
	burstWeight           = 0.3
	identicalActionWeight = 0.1
	repeatedTextWeight    = 0.2
	timestampWeight       = 0.25

	burstWindow          = 10 * time.Second
	burstMinimum         = 5
	identicalMinimum     = 5
	identicalMajority    = 0.8
	repeatedTextMinimum  = 3
	timestampClusterSize = 5
)

// EngagementFraud scores the likelihood that a claimed engagement was faked
// or automated, from the claim itself and the user's recent burst window
func EngagementFraud() core.Evaluator {
	return core.Evaluator{
		Kind:     core.KindEngagementFraud,
		Validate: validateFraud,
		Evaluate: evaluateFraud,
	}
}

func validateFraud(s *core.Submission) bool {
	if s.ActionType != "" || len(s.RecentEngagements) > 0 {
		return true
	}
	return containsAny(strings.ToLower(s.Text), fraudTriggers)
}

func evaluateFraud(s *core.Submission, now time.Time) core.EvaluationResult {
	var ind indicators
	score := 0.0

	if s.ActionType == "" {
		ind.add("missing_action_type")
	} else if highValueActions[s.ActionType] && !s.Evidence.Provided() {
		score += noEvidenceWeight
		ind.add("no_evidence_high_value")
	}

	if s.HasHint("rapid_fire", "bot_like_behavior") {
		score += patternHintWeight
		ind.add("suspicious_patterns_flag")
	}

	recent := s.RecentEngagements

	if countWithin(recent, now, burstWindow) >= burstMinimum {
		score += burstWeight
		ind.add("burst_activity_10s")
	}

	if len(recent) >= identicalMinimum && dominantActionShare(recent) > identicalMajority {
		score += identicalActionWeight
		ind.add("identical_actions_majority")
	}

	if maxRepeatedText(recent) >= repeatedTextMinimum {
		score += repeatedTextWeight
		ind.add("repeated_text_patterns")
	}

	if largestTimestampCluster(recent) >= timestampClusterSize {
		score += timestampWeight
		ind.add("same_timestamp_cluster")
	}

	res := newResult(core.KindEngagementFraud, score, ind, now)
	res.Verdict = boolPtr(IsFraud(res.Score))
	return res
}

// countWithin counts engagements no older than window relative to now
func countWithin(recent []core.RecentEngagement, now time.Time, window time.Duration) int {
	n := 0
	for _, e := range recent {
		if e.Timestamp.IsZero() {
			continue
		}
		if now.Sub(e.Timestamp) <= window {
			n++
		}
	}
	return n
}

func dominantActionShare(recent []core.RecentEngagement) float64 {
	if len(recent) == 0 {
		return 0
	}
	counts := make(map[core.ActionType]int)
	top := 0
	for _, e := range recent {
		counts[e.ActionType]++
		if counts[e.ActionType] > top {
			top = counts[e.ActionType]
		}
	}
	return float64(top) / float64(len(recent))
}

func maxRepeatedText(recent []core.RecentEngagement) int {
	counts := make(map[string]int)
	top := 0
	for _, e := range recent {
		text := strings.ToLower(strings.TrimSpace(e.SubmissionText))
		if text == "" {
			continue
		}
		counts[text]++
		if counts[text] > top {
			top = counts[text]
		}
	}
	return top
}

func largestTimestampCluster(recent []core.RecentEngagement) int {
	counts := make(map[int64]int)
	top := 0
	for _, e := range recent {
		if e.Timestamp.IsZero() {
			continue
		}
		ms := e.Timestamp.UnixMilli()
		counts[ms]++
		if counts[ms] > top {
			top = counts[ms]
		}
	}
	return top
}
