// Package pipeline runs evaluators against a submission and fuses their
// results into a single verdict.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mikey/engagement-integrity/internal/core"
)

// ErrNoEvaluators is returned when an orchestrator is built without evaluators
var ErrNoEvaluators = errors.New("no evaluators configured")

// Orchestrator runs every applicable evaluator and collects the results.
// It computes no scores itself.
type Orchestrator struct {
	evaluators []core.Evaluator
	logger     *zap.Logger
	parallel   bool
}

// NewOrchestrator creates an orchestrator over the given evaluators
func NewOrchestrator(evaluators []core.Evaluator, logger *zap.Logger, parallel bool) (*Orchestrator, error) {
	if len(evaluators) == 0 {
		return nil, ErrNoEvaluators
	}
	return &Orchestrator{
		evaluators: evaluators,
		logger:     logger,
		parallel:   parallel,
	}, nil
}

// Evaluate runs the applicable evaluators. A failing evaluator is logged and
// left out of the result set; it never fails the whole evaluation.
func (o *Orchestrator) Evaluate(ctx context.Context, s *core.Submission, now time.Time) ([]core.EvaluationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation not started: %w", err)
	}

	start := time.Now()
	defer func() {
		orchestrationDuration.Observe(time.Since(start).Seconds())
	}()

	slots := make([]*core.EvaluationResult, len(o.evaluators))

	if o.parallel {
		var g errgroup.Group
		for i, ev := range o.evaluators {
			i, ev := i, ev
			g.Go(func() error {
				slots[i] = o.run(ev, s, now)
				return nil
			})
		}

		done := make(chan struct{})
		go func() {
			_ = g.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, fmt.Errorf("evaluation aborted: %w", ctx.Err())
		}
	} else {
		for i, ev := range o.evaluators {
			slots[i] = o.run(ev, s, now)
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("evaluation aborted: %w", err)
		}
	}

	results := make([]core.EvaluationResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return kindRank(results[i].Kind) < kindRank(results[j].Kind)
	})

	o.logger.Debug("Submission evaluated",
		zap.String("user_id", s.UserID),
		zap.String("raid_id", s.RaidID),
		zap.Int("results", len(results)),
		zap.Int("evaluators", len(o.evaluators)))

	return results, nil
}

// run executes one evaluator, returning nil when it does not apply or fails
func (o *Orchestrator) run(ev core.Evaluator, s *core.Submission, now time.Time) (res *core.EvaluationResult) {
	kind := string(ev.Kind)
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Evaluator failed, excluding result",
				zap.String("kind", kind),
				zap.Any("panic", r))
			evaluatorFailures.WithLabelValues(kind).Inc()
			res = nil
		}
	}()

	if !ev.Validate(s) {
		evaluatorSkips.WithLabelValues(kind).Inc()
		return nil
	}

	r := ev.Evaluate(s, now)
	if math.IsNaN(r.Score) || r.Score < 0 || r.Score > 1 {
		o.logger.Error("Evaluator produced an out-of-range score, excluding result",
			zap.String("kind", kind),
			zap.Float64("score", r.Score))
		evaluatorFailures.WithLabelValues(kind).Inc()
		return nil
	}
	if r.Kind == "" {
		r.Kind = ev.Kind
	}

	evaluationsTotal.WithLabelValues(kind).Inc()
	return &r
}

func kindRank(kind core.EvaluatorKind) int {
	for i, k := range core.KindOrder {
		if k == kind {
			return i
		}
	}
	return len(core.KindOrder)
}
