package evaluators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/engagement-integrity/internal/core"
)

const raidTarget = "Launching our new staking dashboard today"

func TestContentRelevanceScenarioD(t *testing.T) {
	assert := assert.New(t)

	sub := &core.Submission{Text: "nice", TargetContent: raidTarget}
	ev := ContentRelevance()
	assert.True(ev.Validate(sub))

	res := ev.Evaluate(sub, fixedNow)
	assert.Equal(0.0, res.Score)
	assert.Equal(0.0, res.Details.BaseScore)
	assert.True(res.HasIndicator("low_token_overlap"))
	assert.True(res.HasIndicator("generic_phrase_penalty"))
	assert.True(res.Details.TargetProvided)
	assert.Nil(res.Verdict)
}

func TestContentRelevanceOverlapBands(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		text       string
		topics     []string
		score      float64
		indicators []string
	}{
		{
			text:       "staking dashboard launching today",
			topics:     []string{"Staking"},
			score:      4.0/6.0 + 0.1,
			indicators: []string{"topic_match", "high_token_overlap"},
		},
		{
			text:       "staking today is fun",
			score:      0.25,
			indicators: []string{"moderate_token_overlap"},
		},
		{
			text:       raidTarget,
			topics:     []string{"new staking"},
			score:      1,
			indicators: []string{"topic_match", "high_token_overlap"},
		},
		{
			text:       "awesome staking dashboard launching today",
			score:      4.0/7.0 - 0.1,
			indicators: []string{"generic_phrase_penalty", "high_token_overlap"},
		},
		{
			text:       "unrelated words entirely",
			topics:     []string{"defi"},
			score:      0,
			indicators: []string{"low_token_overlap"},
		},
	}

	for _, fix := range fixtures {
		res := ContentRelevance().Evaluate(&core.Submission{Text: fix.text, TargetContent: raidTarget, Topics: fix.topics}, fixedNow)
		assert.InDelta(fix.score, res.Score, 1e-9, fix.text)
		assert.Equal(fix.indicators, res.Indicators, fix.text)
	}
}

func TestContentRelevanceWithoutTarget(t *testing.T) {
	assert := assert.New(t)

	sub := &core.Submission{Text: "Dropped a comment on the thread"}
	ev := ContentRelevance()
	assert.True(ev.Validate(sub))

	res := ev.Evaluate(sub, fixedNow)
	assert.Equal(0.0, res.Score)
	assert.False(res.Details.TargetProvided)
	assert.Equal([]string{"low_token_overlap"}, res.Indicators)
}

func TestContentRelevanceValidate(t *testing.T) {
	assert := assert.New(t)
	ev := ContentRelevance()

	assert.False(ev.Validate(&core.Submission{Text: "just vibing"}))
	assert.False(ev.Validate(&core.Submission{Text: "just vibing", TargetContent: "   "}))
	assert.True(ev.Validate(&core.Submission{Text: "Let's DISCUSS"}))
	assert.True(ev.Validate(&core.Submission{TargetContent: raidTarget}))
}
