package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/review"
	"github.com/mikey/engagement-integrity/internal/utils"
)

// Summarizer is an implementation of the ReviewSummarizer interface using Google Gemini
type Summarizer struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxTextSize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewSummarizer creates a new Gemini review summarizer
func NewSummarizer(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxTextSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Summarizer, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SystemInstruction = genai.NewUserContent(genai.Text(review.SystemPrompt))
	model.ResponseMIMEType = "application/json"

	return &Summarizer{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxTextSize:   maxTextSize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *Summarizer) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Summarize writes a moderator note for a held submission
func (c *Summarizer) Summarize(ctx context.Context, s *core.Submission, d *core.AggregateDecision) (*core.ReviewNote, error) {
	prompt := review.BuildPrompt(c.textProcessor, s, d, c.maxTextSize)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, errors.New("empty response from Gemini")
	}

	parsed, err := review.ParseResponse(text)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Review note generated",
		zap.String("submission_id", s.ID),
		zap.String("model", c.modelName),
		zap.String("recommended_action", parsed.RecommendedAction))

	return parsed.Note(c.modelName, time.Now()), nil
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
