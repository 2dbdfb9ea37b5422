package evaluators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/engagement-integrity/internal/core"
)

func TestConsistencyInsufficientHistory(t *testing.T) {
	assert := assert.New(t)

	histories := [][]core.HistoryEntry{
		{},
		{{RaidID: "r1", Timestamp: fixedNow}},
		// untimestamped entries do not count
		{{RaidID: "r1", Timestamp: fixedNow}, {RaidID: "r2"}, {RaidID: "r3"}},
	}

	for _, h := range histories {
		sub := &core.Submission{Text: "anything at all", EngagementHistory: h}
		ev := ParticipationConsistency()
		assert.True(ev.Validate(sub))

		res := ev.Evaluate(sub, fixedNow)
		assert.Equal(0.5, res.Score)
		assert.Equal([]string{"insufficient_history"}, res.Indicators)
		assert.Nil(res.Verdict)
	}
}

func TestConsistencyScenarioE(t *testing.T) {
	assert := assert.New(t)

	sub := &core.Submission{EngagementHistory: []core.HistoryEntry{
		{RaidID: "r3", Timestamp: fixedNow.Add(2 * time.Minute)},
		{RaidID: "r1", Timestamp: fixedNow},
		{RaidID: "r2", Timestamp: fixedNow.Add(time.Minute)},
	}}

	res := ParticipationConsistency().Evaluate(sub, fixedNow)
	assert.Equal([]string{"session_hopping"}, res.Indicators)
	assert.Equal(1.0, res.Details.BaseScore)
	assert.InDelta(0.85, res.Score, 1e-9)
	assert.Equal(2, res.Details.IntervalsCount)
}

func TestConsistencyIrregularTiming(t *testing.T) {
	assert := assert.New(t)

	sub := &core.Submission{EngagementHistory: []core.HistoryEntry{
		{RaidID: "r1", Timestamp: fixedNow},
		{RaidID: "r1", Timestamp: fixedNow.Add(time.Second)},
		{RaidID: "r1", Timestamp: fixedNow.Add(101 * time.Second)},
	}}

	// intervals 1s and 100s: mean 50.5, population stddev 49.5
	res := ParticipationConsistency().Evaluate(sub, fixedNow)
	assert.InDelta(1-49.5/50.5, res.Score, 1e-9)
	assert.InDelta(49.5/50.5, res.Details.CoefficientOfVariation, 1e-9)
	assert.Equal([]string{"high_variance_intervals", "rapid_sequence_events"}, res.Indicators)
}

func TestConsistencyZeroMean(t *testing.T) {
	assert := assert.New(t)

	sub := &core.Submission{EngagementHistory: []core.HistoryEntry{
		{RaidID: "r1", Timestamp: fixedNow},
		{RaidID: "r1", Timestamp: fixedNow},
	}}

	res := ParticipationConsistency().Evaluate(sub, fixedNow)
	assert.Equal(0.0, res.Score)
	assert.Equal(1.0, res.Details.CoefficientOfVariation)
	assert.Equal([]string{"high_variance_intervals", "rapid_sequence_events"}, res.Indicators)
}

func TestConsistencySteadyParticipant(t *testing.T) {
	assert := assert.New(t)

	var history []core.HistoryEntry
	for i, raid := range []string{"r1", "r1", "r2", "r2", "r3", "r3"} {
		history = append(history, core.HistoryEntry{RaidID: raid, Timestamp: fixedNow.Add(time.Duration(i) * time.Hour)})
	}

	res := ParticipationConsistency().Evaluate(&core.Submission{EngagementHistory: history}, fixedNow)
	assert.Equal(1.0, res.Score)
	assert.Empty(res.Indicators)
	assert.Equal(5, res.Details.IntervalsCount)
}

func TestConsistencyValidate(t *testing.T) {
	assert := assert.New(t)
	ev := ParticipationConsistency()

	assert.False(ev.Validate(&core.Submission{Text: "hello"}))
	assert.True(ev.Validate(&core.Submission{Text: "joined the RAID"}))
	assert.True(ev.Validate(&core.Submission{EngagementHistory: []core.HistoryEntry{}}))
}
