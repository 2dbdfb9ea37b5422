package evaluators

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/utils"
)

var spamTriggers = []string{
	"engage", "raid", "tweet", "retweet", "comment", "quote", "like", "follow",
	"giveaway", "promo", "check out", "click here",
}

// keyword signals, in detection order
var spamKeywords = []struct {
	phrase string
	weight float64
}{
	{"free", 0.20},
	{"giveaway", 0.20},
	{"promo", 0.20},
	{"follow me", 0.25},
	{"buy now", 0.30},
	{"click here", 0.25},
}

const (
	exclamationWeight   = 0.15
	exclamationMinimum  = 3
	multipleURLsWeight  = 0.15
	multipleURLsMinimum = 2
	capsWeight          = 0.20
	capsRatioThreshold  = 0.4
	capsMinimumLength   = 12
)

// SpamScore scores promotional and shouty submission text. Higher is spammier.
func SpamScore() core.Evaluator {
	return core.Evaluator{
		Kind:     core.KindSpamScore,
		Validate: validateSpam,
		Evaluate: evaluateSpam,
	}
}

func validateSpam(s *core.Submission) bool {
	return containsAny(strings.ToLower(s.Text), spamTriggers)
}

func evaluateSpam(s *core.Submission, now time.Time) core.EvaluationResult {
	var ind indicators
	score := 0.0
	raw := s.Text
	lower := strings.ToLower(raw)

	if strings.Count(raw, "!") >= exclamationMinimum {
		score += exclamationWeight
		ind.add("excessive_exclamations")
	}

	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw.phrase) {
			score += kw.weight
			ind.add(kw.phrase)
		}
	}

	if len(utils.URLPattern().FindAllString(raw, -1)) >= multipleURLsMinimum {
		score += multipleURLsWeight
		ind.add("multiple_urls")
	}

	if length := utf8.RuneCountInString(raw); length > capsMinimumLength {
		upper := 0
		for _, r := range raw {
			if unicode.IsUpper(r) {
				upper++
			}
		}
		if float64(upper)/float64(length) > capsRatioThreshold {
			score += capsWeight
			ind.add("excessive_caps")
		}
	}

	res := newResult(core.KindSpamScore, score, ind, now)
	res.Verdict = boolPtr(IsSpam(res.Score))
	return res
}
