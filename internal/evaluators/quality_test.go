package evaluators

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/engagement-integrity/internal/core"
)

func TestEngagementQualityDetailedComment(t *testing.T) {
	assert := assert.New(t)

	text := "I left a comment on the raid post because the analysis of token unlocks was strong, and I think our community should read it."
	require.Greater(t, utf8.RuneCountInString(text), 100)

	sub := &core.Submission{Text: text}
	ev := EngagementQuality()
	assert.True(ev.Validate(sub))

	res := ev.Evaluate(sub, fixedNow)
	assert.Equal(1.0, res.Score)
	assert.Equal([]string{"detailed_content", "quality_language", "comment_engagement", "community_focused", "emotional_intelligence"}, res.Indicators)
	assert.Equal(core.TierExceptional, res.Details.Tier)
	assert.True(res.VerdictTrue())
}

func TestEngagementQualitySignals(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		text       string
		score      float64
		tier       core.QualityTier
		indicators []string
	}{
		{
			text:       "liked it",
			score:      0.5,
			tier:       core.TierGood,
			indicators: []string{"brief_content", "like_engagement"},
		},
		{
			text:       "retweet and follow me for more!!!",
			score:      0.4,
			tier:       core.TierBasic,
			indicators: []string{"retweet_engagement", "potential_spam"},
		},
		{
			text:       "please quote or comment on the raid",
			score:      0.9,
			tier:       core.TierExceptional,
			indicators: []string{"comment_engagement"},
		},
		{
			text:       "shared the raid tweet with the team",
			score:      0.85,
			tier:       core.TierExceptional,
			indicators: []string{"share_engagement", "community_focused"},
		},
		{
			text:       "tweet seen, nothing more because reasons",
			score:      0.6,
			tier:       core.TierGood,
			indicators: []string{"quality_language"},
		},
	}

	for _, fix := range fixtures {
		res := EngagementQuality().Evaluate(&core.Submission{Text: fix.text}, fixedNow)
		assert.InDelta(fix.score, res.Score, 1e-9, fix.text)
		assert.Equal(fix.tier, res.Details.Tier, fix.text)
		assert.Equal(fix.indicators, res.Indicators, fix.text)
		assert.Equal(IsBonusEligible(res.Score), res.VerdictTrue(), fix.text)
	}
}

func TestEngagementQualityVocabularyCap(t *testing.T) {
	assert := assert.New(t)

	text := "tweet: however therefore moreover furthermore specifically"
	res := EngagementQuality().Evaluate(&core.Submission{Text: text}, fixedNow)
	assert.InDelta(0.8, res.Score, 1e-9)
	assert.Equal([]string{"quality_language"}, res.Indicators)
}

func TestTierFor(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(core.TierExceptional, TierFor(0.8))
	assert.Equal(core.TierHigh, TierFor(0.79))
	assert.Equal(core.TierHigh, TierFor(0.65))
	assert.Equal(core.TierGood, TierFor(0.5))
	assert.Equal(core.TierBasic, TierFor(0.35))
	assert.Equal(core.TierLow, TierFor(0.3499))
	assert.Equal(core.TierLow, TierFor(0))
}

func TestEngagementQualityValidate(t *testing.T) {
	assert := assert.New(t)
	ev := EngagementQuality()

	assert.False(ev.Validate(&core.Submission{Text: "gm frens"}))
	assert.True(ev.Validate(&core.Submission{Text: "Engaged with the post"}))
}
