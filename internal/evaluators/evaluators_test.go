package evaluators

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/engagement-integrity/internal/core"
)

func propertyFixtures() []*core.Submission {
	burst := make([]core.RecentEngagement, 7)
	for i := range burst {
		burst[i] = core.RecentEngagement{ActionType: core.ActionRetweet, Timestamp: fixedNow, SubmissionText: "LFG"}
	}
	return []*core.Submission{
		{},
		{Text: "CLICK HERE!!! Free giveaway, follow me and buy now! https://a.io https://b.io PROMO PROMO"},
		{ActionType: core.ActionVerify, SuspiciousPatternsHint: []string{"bot_like_behavior"}, RecentEngagements: burst},
		{Text: "nice", TargetContent: raidTarget, Topics: []string{"staking"}},
		{Text: "raid", EngagementHistory: []core.HistoryEntry{{RaidID: "a", Timestamp: fixedNow}, {RaidID: "b", Timestamp: fixedNow}, {RaidID: "c", Timestamp: fixedNow}}},
		{Text: "comment because however therefore moreover community we us feel think 100% !!! follow me buy now"},
		{Text: "🚀🚀🚀 retweet ✨", TargetContent: "🚀"},
	}
}

func TestScoresStayInRange(t *testing.T) {
	for _, sub := range propertyFixtures() {
		for _, ev := range All() {
			res := ev.Evaluate(sub, fixedNow)
			assert.False(t, math.IsNaN(res.Score), "%s: NaN", ev.Kind)
			assert.GreaterOrEqual(t, res.Score, 0.0, "%s", ev.Kind)
			assert.LessOrEqual(t, res.Score, 1.0, "%s", ev.Kind)
			assert.NotNil(t, res.Indicators, "%s", ev.Kind)
		}
	}
}

func TestEvaluationIsDeterministic(t *testing.T) {
	for _, sub := range propertyFixtures() {
		for _, ev := range All() {
			first, err := json.Marshal(ev.Evaluate(sub, fixedNow))
			require.NoError(t, err)
			second, err := json.Marshal(ev.Evaluate(sub, fixedNow))
			require.NoError(t, err)
			assert.Equal(t, string(first), string(second), "%s", ev.Kind)
		}
	}
}

func TestVerdictsMatchThresholds(t *testing.T) {
	for _, sub := range propertyFixtures() {
		spam := SpamScore().Evaluate(sub, fixedNow)
		assert.Equal(t, spam.Score >= 0.7, spam.VerdictTrue())

		fraud := EngagementFraud().Evaluate(sub, fixedNow)
		assert.Equal(t, fraud.Score >= 0.6, fraud.VerdictTrue())
	}
}

func TestEvaluationDoesNotMutateSubmission(t *testing.T) {
	sub := &core.Submission{
		Text: "raid comment",
		EngagementHistory: []core.HistoryEntry{
			{RaidID: "b", Timestamp: fixedNow.Add(time.Hour)},
			{RaidID: "a", Timestamp: fixedNow},
		},
	}
	before, err := json.Marshal(sub)
	require.NoError(t, err)

	for _, ev := range All() {
		ev.Evaluate(sub, fixedNow)
	}

	after, err := json.Marshal(sub)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestAllOrder(t *testing.T) {
	var kinds []core.EvaluatorKind
	for _, ev := range All() {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, core.KindOrder, kinds)
}
