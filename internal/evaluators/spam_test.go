package evaluators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/engagement-integrity/internal/core"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestSpamScoreScenarioA(t *testing.T) {
	assert := assert.New(t)

	sub := &core.Submission{Text: "CLICK HERE!!! Free giveaway, follow me and buy now!"}
	ev := SpamScore()
	assert.True(ev.Validate(sub))

	res := ev.Evaluate(sub, fixedNow)
	assert.Equal(core.KindSpamScore, res.Kind)
	assert.GreaterOrEqual(res.Score, SpamThreshold)
	assert.Equal(1.0, res.Score)
	assert.Equal([]string{"excessive_exclamations", "free", "giveaway", "follow me", "buy now", "click here"}, res.Indicators)
	assert.True(res.VerdictTrue())
	assert.Equal(fixedNow, res.EvaluatedAt)
}

func TestSpamThresholdBoundary(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsSpam(0.7))
	assert.False(IsSpam(0.6999))

	// 0.25 + 0.25 + 0.20 lands exactly on the threshold
	res := SpamScore().Evaluate(&core.Submission{Text: "follow me, click here free"}, fixedNow)
	assert.Equal(0.7, res.Score)
	assert.Equal([]string{"free", "follow me", "click here"}, res.Indicators)
	assert.True(res.VerdictTrue())
}

func TestSpamSignals(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		text       string
		score      float64
		indicators []string
		spam       bool
	}{
		{text: "promo giveaway", score: 0.4, indicators: []string{"giveaway", "promo"}},
		{text: "THIS IS A GREAT RAID TODAY", score: 0.2, indicators: []string{"excessive_caps"}},
		{text: "GO RAID", score: 0, indicators: []string{}},
		{text: "check out https://a.io and https://b.io", score: 0.15, indicators: []string{"multiple_urls"}},
		{text: "one link https://a.io only", score: 0, indicators: []string{}},
		{text: "raid!! now!", score: 0.15, indicators: []string{"excessive_exclamations"}},
		{text: "BUY NOW, free PROMO, click here, follow me", score: 1, indicators: []string{"free", "promo", "follow me", "buy now", "click here"}, spam: true},
	}

	for _, fix := range fixtures {
		res := SpamScore().Evaluate(&core.Submission{Text: fix.text}, fixedNow)
		assert.InDelta(fix.score, res.Score, 1e-9, fix.text)
		assert.Equal(fix.indicators, res.Indicators, fix.text)
		assert.Equal(fix.spam, res.VerdictTrue(), fix.text)
	}
}

func TestSpamValidate(t *testing.T) {
	assert := assert.New(t)
	ev := SpamScore()

	assert.False(ev.Validate(&core.Submission{Text: "hello world"}))
	assert.False(ev.Validate(&core.Submission{}))
	assert.True(ev.Validate(&core.Submission{Text: "please Retweet this"}))
	assert.True(ev.Validate(&core.Submission{Text: "Click Here for more"}))
}
