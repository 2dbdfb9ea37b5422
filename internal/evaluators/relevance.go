package evaluators

import (
	"strings"
	"time"

	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/utils"
)

var relevanceTriggers = []string{"comment", "quote", "reply", "retweet", "analysis", "discuss", "engage"}

var genericPhrases = []string{"great post", "nice", "cool", "awesome", "gm", "gn", "love it"}

const (
	topicBonus      = 0.1
	genericPenalty  = 0.1
	highOverlap     = 0.5
	moderateOverlap = 0.25
)

// ContentRelevance scores how closely the user's text tracks the raided post
func ContentRelevance() core.Evaluator {
	return core.Evaluator{
		Kind:     core.KindContentRelevance,
		Validate: validateRelevance,
		Evaluate: evaluateRelevance,
	}
}

func validateRelevance(s *core.Submission) bool {
	if strings.TrimSpace(s.TargetContent) != "" {
		return true
	}
	return containsAny(strings.ToLower(s.Text), relevanceTriggers)
}

func evaluateRelevance(s *core.Submission, now time.Time) core.EvaluationResult {
	var ind indicators

	userTokens := utils.Tokenize(s.Text)
	base := utils.Jaccard(userTokens, utils.Tokenize(s.TargetContent))
	score := base

	if topicMatches(userTokens, s.Topics) {
		score += topicBonus
		if score > 1 {
			score = 1
		}
		ind.add("topic_match")
	}

	if containsAny(strings.ToLower(s.Text), genericPhrases) {
		score -= genericPenalty
		if score < 0 {
			score = 0
		}
		ind.add("generic_phrase_penalty")
	}

	switch {
	case base >= highOverlap:
		ind.add("high_token_overlap")
	case base >= moderateOverlap:
		ind.add("moderate_token_overlap")
	default:
		ind.add("low_token_overlap")
	}

	res := newResult(core.KindContentRelevance, score, ind, now)
	res.Details = core.Details{
		BaseScore:      finalizeScore(base),
		TargetProvided: strings.TrimSpace(s.TargetContent) != "",
	}
	return res
}

// a topic matches when every one of its tokens appears in the user's tokens
func topicMatches(userTokens []string, topics []string) bool {
	if len(topics) == 0 || len(userTokens) == 0 {
		return false
	}
	set := utils.TokenSet(userTokens)
	for _, topic := range topics {
		topicTokens := utils.Tokenize(topic)
		if len(topicTokens) == 0 {
			continue
		}
		all := true
		for _, t := range topicTokens {
			if _, ok := set[t]; !ok {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
