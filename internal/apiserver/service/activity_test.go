package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyahq/tripdesk/internal/common/cnst"
)

func TestRecentActivityScopedToAgent(t *testing.T) {
	env := newTestEnv(t)
	mira := env.seedUser(t, "Mira Leka", cnst.RoleAgent)
	dion := env.seedUser(t, "Dion Prifti", cnst.RoleAgent)
	admin := env.seedUser(t, "Root Admin", cnst.RoleAdmin)

	// Each create logs a client entry and a booking entry.
	_, err := env.bookings.Create(t.Context(), mira, bookingReq(1, 100, "new"))
	require.NoError(t, err)
	_, err = env.bookings.Create(t.Context(), dion, bookingReq(2, 100, "new"))
	require.NoError(t, err)

	entries, err := env.activity.Recent(t.Context(), mira, 50)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, mira.UserID, e.UserID)
	}

	entries, err = env.activity.Recent(t.Context(), admin, 50)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestRecentActivityLimitClamped(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "Root Admin", cnst.RoleAdmin)

	entries, err := env.activity.Recent(t.Context(), admin, -5)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = env.activity.Recent(t.Context(), admin, 100000)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
