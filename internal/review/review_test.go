package review

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/utils"
)

func TestParseResponse(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		text       string
		summary    string
		action     string
		confidence float64
	}{
		{
			text:       `{"summary":"Promotional text.","recommended_action":"reject","confidence":0.8}`,
			summary:    "Promotional text.",
			action:     ActionReject,
			confidence: 0.8,
		},
		{
			text:       "Sure, here it is:\n```json\n{\"summary\":\" Looks fine. \",\"recommended_action\":\"ADMIT\",\"confidence\":1.4}\n```",
			summary:    "Looks fine.",
			action:     ActionAdmit,
			confidence: 1,
		},
		{
			text:       `{"summary":"Unclear.","recommended_action":"escalate","confidence":-2}`,
			summary:    "Unclear.",
			action:     ActionReview,
			confidence: 0,
		},
	}

	for _, fix := range fixtures {
		resp, err := ParseResponse(fix.text)
		require.NoError(t, err, fix.text)
		assert.Equal(fix.summary, resp.Summary)
		assert.Equal(fix.action, resp.RecommendedAction)
		assert.Equal(fix.confidence, resp.Confidence)
	}
}

func TestParseResponseErrors(t *testing.T) {
	_, err := ParseResponse("I cannot help with that.")
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = ParseResponse("{not json}")
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	assert := assert.New(t)

	sub := &core.Submission{
		UserID:        "u1",
		RaidID:        "r9",
		ActionType:    core.ActionQuote,
		Text:          strings.Repeat("free giveaway ", 50) + "\x00",
		TargetContent: "Launching our new staking dashboard today",
	}
	d := &core.AggregateDecision{
		Verdict: core.VerdictFlag,
		Reasons: []string{"spam_score"},
		ContributingResults: []core.EvaluationResult{
			{Kind: core.KindSpamScore, Score: 0.9, Indicators: []string{"free", "giveaway"}},
			{Kind: core.KindContentRelevance, Score: 0.1, Indicators: []string{}},
		},
	}

	prompt := BuildPrompt(utils.NewTextProcessor(zap.NewNop()), sub, d, 64)
	assert.Contains(prompt, "User: u1")
	assert.Contains(prompt, "Action: quote")
	assert.Contains(prompt, "Evidence provided: false")
	assert.Contains(prompt, "Decision: flag (spam_score)")
	assert.Contains(prompt, "- spam_score: score 0.90, indicators: free, giveaway")
	assert.Contains(prompt, "- content_relevance: score 0.10\n")
	assert.Contains(prompt, "[... truncated ...]")
	assert.NotContains(prompt, "\x00")
}

func TestNote(t *testing.T) {
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	note := (&Response{Summary: "s", RecommendedAction: ActionReview, Confidence: 0.5}).Note("gpt-4", at)
	assert.Equal(t, &core.ReviewNote{Summary: "s", RecommendedAction: ActionReview, Confidence: 0.5, ModelUsed: "gpt-4", GeneratedAt: at}, note)
}
