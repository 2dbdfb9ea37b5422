package evaluators

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/utils"
)

var qualityTriggers = []string{"engag", "raid", "tweet", "like", "retweet", "comment", "quote"}

var qualityVocabulary = []string{
	"because", "however", "therefore", "although", "moreover", "furthermore",
	"specifically", "particularly", "detailed", "explanation", "example",
	"solution", "approach", "insightful", "thoughtful", "comprehensive",
	"analysis", "perspective",
}

// highest value first; ties resolve to the earlier entry
var engagementValues = []struct {
	kind  string
	value float64
}{
	{"comment", 0.4},
	{"quote", 0.3},
	{"share", 0.2},
	{"retweet", 0.2},
	{"like", 0.1},
}

var communityWords = []string{"community", "together", "us", "we", "team", "help", "support"}

var emotionalWords = []string{"feel", "think", "believe", "appreciate", "understand", "respect"}

var lowQualityPhrases = []string{"follow me", "check out", "buy now", "click here", "100%", "!!!"}

const (
	qualityBaseline   = 0.5
	detailedLength    = 100
	detailedBonus     = 0.2
	briefLength       = 20
	briefPenalty      = 0.1
	vocabularyStep    = 0.1
	vocabularyCap     = 0.3
	communityBonus    = 0.15
	lowQualityPenalty = 0.3
	emotionalBonus    = 0.1
)

// EngagementQuality scores the substance of the user's engagement text and
// maps it to a reward tier
func EngagementQuality() core.Evaluator {
	return core.Evaluator{
		Kind:     core.KindEngagementQuality,
		Validate: validateQuality,
		Evaluate: evaluateQuality,
	}
}

func validateQuality(s *core.Submission) bool {
	return containsAny(strings.ToLower(s.Text), qualityTriggers)
}

func evaluateQuality(s *core.Submission, now time.Time) core.EvaluationResult {
	var ind indicators
	score := qualityBaseline
	lower := strings.ToLower(s.Text)
	tokens := utils.TokenSet(utils.Tokenize(s.Text))

	length := utf8.RuneCountInString(s.Text)
	switch {
	case length > detailedLength:
		score += detailedBonus
		ind.add("detailed_content")
	case length < briefLength:
		score -= briefPenalty
		ind.add("brief_content")
	}

	if matches := countWords(tokens, qualityVocabulary); matches > 0 {
		bonus := float64(matches) * vocabularyStep
		if bonus > vocabularyCap {
			bonus = vocabularyCap
		}
		score += bonus
		ind.add("quality_language")
	}

	for _, ev := range engagementValues {
		if strings.Contains(lower, ev.kind) {
			score += ev.value
			ind.add(ev.kind + "_engagement")
			break
		}
	}

	if countWords(tokens, communityWords) > 0 {
		score += communityBonus
		ind.add("community_focused")
	}

	if containsAny(lower, lowQualityPhrases) {
		score -= lowQualityPenalty
		ind.add("potential_spam")
	}

	if countWords(tokens, emotionalWords) > 0 {
		score += emotionalBonus
		ind.add("emotional_intelligence")
	}

	res := newResult(core.KindEngagementQuality, score, ind, now)
	res.Verdict = boolPtr(IsBonusEligible(res.Score))
	res.Details = core.Details{Tier: TierFor(res.Score)}
	return res
}

// TierFor maps a quality score to its reward tier
func TierFor(score float64) core.QualityTier {
	switch {
	case score >= 0.8:
		return core.TierExceptional
	case score >= 0.65:
		return core.TierHigh
	case score >= 0.5:
		return core.TierGood
	case score >= 0.35:
		return core.TierBasic
	default:
		return core.TierLow
	}
}

// countWords counts the distinct vocabulary words present as whole tokens
func countWords(tokens map[string]struct{}, vocabulary []string) int {
	n := 0
	for _, w := range vocabulary {
		if _, ok := tokens[w]; ok {
			n++
		}
	}
	return n
}
