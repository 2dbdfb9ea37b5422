package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/config"
	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/evaluators"
	"github.com/mikey/engagement-integrity/internal/pipeline"
)

// PipelineFactory creates the evaluator orchestrator and decision policy
type PipelineFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewPipelineFactory creates a new pipeline factory
func NewPipelineFactory(cfg *config.Config, logger *zap.Logger) *PipelineFactory {
	return &PipelineFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateOrchestrator creates an orchestrator over every built-in evaluator
func (f *PipelineFactory) CreateOrchestrator() (core.Orchestrator, error) {
	evalCfg, err := f.cfg.GetEvaluation()
	if err != nil {
		return nil, err
	}
	orch, err := pipeline.NewOrchestrator(evaluators.All(), f.logger, evalCfg.Parallel)
	if err != nil {
		return nil, err
	}
	return orch, nil
}

// CreatePolicy creates the weighted decision policy, with verdict metrics
func (f *PipelineFactory) CreatePolicy() (core.DecisionPolicy, error) {
	policyCfg, err := f.cfg.GetPolicy()
	if err != nil {
		return nil, err
	}
	return pipeline.CountingPolicy(pipeline.NewWeightedPolicy(pipeline.PolicyConfig{
		Weights: pipeline.PolicyWeights{
			ContentRelevance:         policyCfg.Weights.ContentRelevance,
			SpamScore:                policyCfg.Weights.SpamScore,
			ParticipationConsistency: policyCfg.Weights.ParticipationConsistency,
			EngagementQuality:        policyCfg.Weights.EngagementQuality,
		},
		FlagSessionHopping: policyCfg.FlagSessionHopping,
	})), nil
}
