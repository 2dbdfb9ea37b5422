package gemini

import (
	"errors"

	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/config"
	"github.com/mikey/engagement-integrity/internal/utils"
)

// Factory creates Gemini review summarizers
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for Gemini summarizers
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateSummarizer creates a new Gemini summarizer
func (f *Factory) CreateSummarizer() (*Summarizer, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	return NewSummarizer(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		f.cfg.GetReview().MaxTextSize,
		f.logger,
		f.textProcessor,
	)
}
