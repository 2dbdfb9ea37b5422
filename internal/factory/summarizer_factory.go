package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/adapters/bedrock"
	"github.com/mikey/engagement-integrity/internal/adapters/gemini"
	"github.com/mikey/engagement-integrity/internal/adapters/openai"
	"github.com/mikey/engagement-integrity/internal/config"
	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/utils"
)

// SummarizerFactory creates review summarizers
type SummarizerFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewSummarizerFactory creates a new summarizer factory
func NewSummarizerFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *SummarizerFactory {
	return &SummarizerFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateSummarizer creates a review summarizer based on the configuration.
// It returns nil for provider "none".
func (f *SummarizerFactory) CreateSummarizer() (core.ReviewSummarizer, error) {
	provider := f.cfg.GetReview().Provider

	switch provider {
	case "", "none":
		return nil, nil
	case "bedrock":
		return summarizerOrErr(bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateSummarizer())
	case "gemini":
		return summarizerOrErr(gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateSummarizer())
	case "openai":
		return summarizerOrErr(openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateSummarizer())
	default:
		return nil, fmt.Errorf("unsupported review provider: %s", provider)
	}
}

// summarizerOrErr keeps a failed constructor from yielding a typed nil interface
func summarizerOrErr[S core.ReviewSummarizer](s S, err error) (core.ReviewSummarizer, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
