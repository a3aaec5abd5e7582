package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voyahq/tripdesk/internal/common/cnst"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

func TestAuthorize(t *testing.T) {
	admin := Principal{UserID: 1, Role: cnst.RoleAdmin}
	agent := Principal{UserID: 2, Role: cnst.RoleAgent}

	assert.NoError(t, admin.Authorize(99))
	assert.NoError(t, agent.Authorize(2))
	assert.ErrorIs(t, agent.Authorize(3), errorx.ErrForbidden)
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, Principal{Role: cnst.RoleAdmin}.RequireAdmin())
	assert.ErrorIs(t, Principal{Role: cnst.RoleAgent}.RequireAdmin(), errorx.ErrForbidden)
}

func TestAgentFilter(t *testing.T) {
	admin := Principal{UserID: 1, Role: cnst.RoleAdmin}
	agent := Principal{UserID: 2, Role: cnst.RoleAgent}

	// admin: nil means all agents, a request passes through
	assert.Nil(t, admin.AgentFilter(nil))
	requested := uint(7)
	assert.Equal(t, &requested, admin.AgentFilter(&requested))

	// agent: always locked to own id, requests are ignored
	got := agent.AgentFilter(&requested)
	assert.NotNil(t, got)
	assert.Equal(t, uint(2), *got)
	got = agent.AgentFilter(nil)
	assert.NotNil(t, got)
	assert.Equal(t, uint(2), *got)
}
