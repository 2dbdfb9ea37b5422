package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/config"
	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/utils"
)

func heldDecision() (*core.Submission, *core.AggregateDecision) {
	sub := &core.Submission{ID: "sub-1", UserID: "u1", RaidID: "r1", Text: "FREE giveaway, buy now"}
	d := &core.AggregateDecision{
		Verdict: core.VerdictFlag,
		Reasons: []string{"spam_score"},
		ContributingResults: []core.EvaluationResult{
			{Kind: core.KindSpamScore, Score: 0.7, Indicators: []string{"free", "giveaway", "buy now"}},
		},
	}
	return sub, d
}

func fakeServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		assert.Equal(t, "gpt-test", req.Model)
		assert.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "indicators: free, giveaway, buy now")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID: "chatcmpl-1",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		})
	}))
}

func newTestSummarizer(t *testing.T, url string) *Summarizer {
	t.Helper()
	cfg := config.NewFromViper(config.NewEmptyViper())
	cfg.Set("openai.api_key", "test-key")
	cfg.Set("openai.base_url", url+"/v1")
	cfg.Set("openai.model_name", "gpt-test")

	s, err := NewFactory(cfg, zap.NewNop(), utils.NewTextProcessor(zap.NewNop())).CreateSummarizer()
	require.NoError(t, err)
	return s
}

func TestSummarize(t *testing.T) {
	assert := assert.New(t)

	srv := fakeServer(t, `{"summary":"Promotional wording only.","recommended_action":"reject","confidence":0.85}`)
	defer srv.Close()

	sub, d := heldDecision()
	note, err := newTestSummarizer(t, srv.URL).Summarize(context.Background(), sub, d)
	require.NoError(t, err)
	assert.Equal("Promotional wording only.", note.Summary)
	assert.Equal("reject", note.RecommendedAction)
	assert.Equal(0.85, note.Confidence)
	assert.Equal("gpt-test", note.ModelUsed)
	assert.False(note.GeneratedAt.IsZero())
}

func TestSummarizeUnparseable(t *testing.T) {
	srv := fakeServer(t, "no idea")
	defer srv.Close()

	sub, d := heldDecision()
	_, err := newTestSummarizer(t, srv.URL).Summarize(context.Background(), sub, d)
	assert.Error(t, err)
}

func TestFactoryRequiresKey(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	_, err := NewFactory(cfg, zap.NewNop(), utils.NewTextProcessor(zap.NewNop())).CreateSummarizer()
	assert.Error(t, err)
}
