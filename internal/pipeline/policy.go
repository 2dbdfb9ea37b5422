package pipeline

import (
	"math"

	"github.com/mikey/engagement-integrity/internal/core"
)

// neutral trust when no weighted evaluator contributed
const neutralTrust = 0.5

// PolicyWeights are the relative contributions to the trust score. Fraud is
// never weighted; it only gates.
type PolicyWeights struct {
	ContentRelevance         float64
	SpamScore                float64
	ParticipationConsistency float64
	EngagementQuality        float64
}

// PolicyConfig tunes the weighted decision policy
type PolicyConfig struct {
	Weights            PolicyWeights
	FlagSessionHopping bool
}

// DefaultPolicyConfig weights every trust signal equally
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		Weights: PolicyWeights{
			ContentRelevance:         1,
			SpamScore:                1,
			ParticipationConsistency: 1,
			EngagementQuality:        1,
		},
		FlagSessionHopping: true,
	}
}

// NewWeightedPolicy returns the default fusion policy:
//   - reject when the fraud evaluator says isFraud
//   - flag when the spam evaluator says isSpam, or the participant is session hopping
//   - admit otherwise
//
// The trust score is the weighted mean of the non-fraud scores, with the spam
// score inverted. Rejections carry a trust score of 0.
func NewWeightedPolicy(cfg PolicyConfig) core.DecisionPolicy {
	return func(results []core.EvaluationResult) core.AggregateDecision {
		d := core.AggregateDecision{
			Verdict:             core.VerdictAdmit,
			ContributingResults: append([]core.EvaluationResult{}, results...),
		}

		if fraud, ok := d.Result(core.KindEngagementFraud); ok && fraud.VerdictTrue() {
			d.Verdict = core.VerdictReject
			d.Reasons = []string{string(core.KindEngagementFraud)}
			return d
		}

		d.TrustScore = trustScore(results, cfg.Weights)

		if spam, ok := d.Result(core.KindSpamScore); ok && spam.VerdictTrue() {
			d.Verdict = core.VerdictFlag
			d.Reasons = append(d.Reasons, string(core.KindSpamScore))
		}
		if cfg.FlagSessionHopping {
			if pc, ok := d.Result(core.KindParticipationConsistency); ok && pc.HasIndicator("session_hopping") {
				d.Verdict = core.VerdictFlag
				d.Reasons = append(d.Reasons, "session_hopping")
			}
		}
		return d
	}
}

// CountingPolicy wraps a policy and records each verdict in metrics
func CountingPolicy(policy core.DecisionPolicy) core.DecisionPolicy {
	return func(results []core.EvaluationResult) core.AggregateDecision {
		d := policy(results)
		decisionsTotal.WithLabelValues(string(d.Verdict)).Inc()
		return d
	}
}

func trustScore(results []core.EvaluationResult, w PolicyWeights) float64 {
	sum, total := 0.0, 0.0
	for _, r := range results {
		var weight, value float64
		switch r.Kind {
		case core.KindContentRelevance:
			weight, value = w.ContentRelevance, r.Score
		case core.KindSpamScore:
			weight, value = w.SpamScore, 1-r.Score
		case core.KindParticipationConsistency:
			weight, value = w.ParticipationConsistency, r.Score
		case core.KindEngagementQuality:
			weight, value = w.EngagementQuality, r.Score
		default:
			continue
		}
		if weight <= 0 {
			continue
		}
		sum += weight * value
		total += weight
	}
	if total == 0 {
		return neutralTrust
	}
	score := sum / total
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return math.Round(score*1e9) / 1e9
}
