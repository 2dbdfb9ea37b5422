package factory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/adapters/audit"
	"github.com/mikey/engagement-integrity/internal/config"
	"github.com/mikey/engagement-integrity/internal/core"
)

func testConfig() *config.Config {
	return config.NewFromViper(config.NewEmptyViper())
}

func TestAuditFactory(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig()
	f := NewAuditFactory(cfg, zap.NewNop())

	repo, err := f.CreateAuditRepository()
	require.NoError(t, err)
	assert.IsType(&audit.MemoryStore{}, repo)
	repo.(*audit.MemoryStore).Stop()

	cfg.Set("audit.type", "sqlite")
	cfg.Set("audit.sqlite_path", filepath.Join(t.TempDir(), "nested", "audit.db"))
	repo, err = f.CreateAuditRepository()
	require.NoError(t, err)
	assert.IsType(&audit.SQLiteStore{}, repo)
	repo.(*audit.SQLiteStore).Stop()

	cfg.Set("audit.type", "tape")
	_, err = f.CreateAuditRepository()
	assert.Error(err)

	cfg.Set("audit.enabled", false)
	repo, err = f.CreateAuditRepository()
	require.NoError(t, err)
	assert.Nil(repo)
}

func TestSummarizerFactory(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig()
	f := NewSummarizerFactory(cfg, zap.NewNop(), NewTextProcessorFactory(zap.NewNop()).CreateTextProcessor())

	s, err := f.CreateSummarizer()
	require.NoError(t, err)
	assert.Nil(s)

	cfg.Set("review.provider", "openai")
	s, err = f.CreateSummarizer()
	assert.Error(err)
	assert.True(s == nil)

	cfg.Set("openai.api_key", "test-key")
	s, err = f.CreateSummarizer()
	require.NoError(t, err)
	assert.NotNil(s)

	cfg.Set("review.provider", "oracle")
	_, err = f.CreateSummarizer()
	assert.Error(err)
}

func TestPipelineFactory(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig()
	f := NewPipelineFactory(cfg, zap.NewNop())

	orch, err := f.CreateOrchestrator()
	require.NoError(t, err)
	assert.NotNil(orch)

	policy, err := f.CreatePolicy()
	require.NoError(t, err)
	d := policy(nil)
	assert.Equal(core.VerdictAdmit, d.Verdict)

	cfg.Set("policy.weights.engagement_quality", -0.5)
	_, err = f.CreatePolicy()
	assert.Error(err)
}
