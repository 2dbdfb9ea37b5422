package config

import (
	"fmt"
	"time"
)

// EvaluationConfig controls how evaluators are run
type EvaluationConfig struct {
	Timeout  time.Duration
	Parallel bool
}

// WeightsConfig are the trust score weights of the decision policy
type WeightsConfig struct {
	ContentRelevance         float64
	SpamScore                float64
	ParticipationConsistency float64
	EngagementQuality        float64
}

// PolicyConfig represents the decision policy configuration
type PolicyConfig struct {
	Weights            WeightsConfig
	FlagSessionHopping bool
}

// AuditConfig represents the audit trail configuration
type AuditConfig struct {
	Enabled          bool
	Type             string
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	RedisURL         string
}

// ReviewConfig selects the provider writing moderator notes
type ReviewConfig struct {
	Provider    string
	MaxTextSize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GetEvaluation returns the evaluation configuration
func (c *Config) GetEvaluation() (EvaluationConfig, error) {
	timeout, err := c.GetDuration("evaluation.timeout")
	if err != nil {
		return EvaluationConfig{}, err
	}
	return EvaluationConfig{
		Timeout:  timeout,
		Parallel: c.GetBool("evaluation.parallel"),
	}, nil
}

// GetPolicy returns the decision policy configuration
func (c *Config) GetPolicy() (PolicyConfig, error) {
	w := WeightsConfig{
		ContentRelevance:         c.GetFloat64("policy.weights.content_relevance"),
		SpamScore:                c.GetFloat64("policy.weights.spam_score"),
		ParticipationConsistency: c.GetFloat64("policy.weights.participation_consistency"),
		EngagementQuality:        c.GetFloat64("policy.weights.engagement_quality"),
	}
	for name, value := range map[string]float64{
		"content_relevance":         w.ContentRelevance,
		"spam_score":                w.SpamScore,
		"participation_consistency": w.ParticipationConsistency,
		"engagement_quality":        w.EngagementQuality,
	} {
		if value < 0 {
			return PolicyConfig{}, fmt.Errorf("policy weight %s must not be negative: %v", name, value)
		}
	}
	return PolicyConfig{
		Weights:            w,
		FlagSessionHopping: c.GetBool("policy.flag_session_hopping"),
	}, nil
}

// GetAudit returns the audit trail configuration
func (c *Config) GetAudit() (AuditConfig, error) {
	ttl, err := c.GetDuration("audit.ttl")
	if err != nil {
		return AuditConfig{}, err
	}
	cleanupFreq, err := c.GetDuration("audit.cleanup_frequency")
	if err != nil {
		return AuditConfig{}, err
	}
	return AuditConfig{
		Enabled:          c.GetBool("audit.enabled"),
		Type:             c.GetString("audit.type"),
		TTL:              ttl,
		CleanupFrequency: cleanupFreq,
		SQLitePath:       c.GetString("audit.sqlite_path"),
		MySQLDSN:         c.GetString("audit.mysql_dsn"),
		RedisURL:         c.GetString("audit.redis_url"),
	}, nil
}

// GetReview returns the review summarizer configuration
func (c *Config) GetReview() ReviewConfig {
	return ReviewConfig{
		Provider:    c.GetString("review.provider"),
		MaxTextSize: c.GetInt("review.max_text_size"),
	}
}

// GetAllowlist returns the allowlisted user IDs
func (c *Config) GetAllowlist() []string {
	return c.GetStringSlice("allowlist.users")
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}
