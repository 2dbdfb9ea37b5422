package allowlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestChecker(t *testing.T) {
	assert := assert.New(t)

	c := NewChecker([]string{" mod-1 ", "partner-7", "", "mod-1"}, zap.NewNop())
	assert.Equal(2, c.Len())
	assert.True(c.IsAllowed("mod-1"))
	assert.True(c.IsAllowed("partner-7"))
	assert.False(c.IsAllowed("MOD-1"))
	assert.False(c.IsAllowed(""))
	assert.False(c.IsAllowed("someone"))
}

func TestEmptyChecker(t *testing.T) {
	c := NewChecker(nil, nil)
	assert.Zero(t, c.Len())
	assert.False(t, c.IsAllowed("mod-1"))
}
