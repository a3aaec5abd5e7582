package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyahq/tripdesk/internal/common/cnst"
	"github.com/voyahq/tripdesk/internal/common/config"
	"github.com/voyahq/tripdesk/internal/common/dto"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "Root Admin", cnst.RoleAdmin)

	created, err := env.users.Create(t.Context(), admin, &dto.CreateUserRequest{
		FullName: "Mira Leka",
		Email:    "Mira.Leka@Agency.Test",
		Password: "correct-horse",
		Role:     "agent",
	})
	require.NoError(t, err)
	assert.Equal(t, "mira.leka@agency.test", created.Email)

	// Login is case-insensitive on the email.
	user, err := env.users.Authenticate(t.Context(), "MIRA.LEKA@agency.test", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = env.users.Authenticate(t.Context(), "mira.leka@agency.test", "wrong")
	assert.ErrorIs(t, err, errorx.ErrInvalidCredentials)

	_, err = env.users.Authenticate(t.Context(), "nobody@agency.test", "correct-horse")
	assert.ErrorIs(t, err, errorx.ErrInvalidCredentials)
}

func TestAuthenticateRejectsInactive(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "Root Admin", cnst.RoleAdmin)

	inactive := false
	_, err := env.users.Create(t.Context(), admin, &dto.CreateUserRequest{
		FullName: "Gone Agent",
		Email:    "gone@agency.test",
		Password: "correct-horse",
		Role:     "agent",
		IsActive: &inactive,
	})
	require.NoError(t, err)

	_, err = env.users.Authenticate(t.Context(), "gone@agency.test", "correct-horse")
	assert.ErrorIs(t, err, errorx.ErrInvalidCredentials)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "Root Admin", cnst.RoleAdmin)

	req := &dto.CreateUserRequest{
		FullName: "Mira Leka", Email: "mira@agency.test",
		Password: "correct-horse", Role: "agent",
	}
	_, err := env.users.Create(t.Context(), admin, req)
	require.NoError(t, err)

	_, err = env.users.Create(t.Context(), admin, req)
	assert.ErrorIs(t, err, errorx.ErrDuplicateEmail)
}

func TestUserManagementAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "Mira Leka", cnst.RoleAgent)

	_, err := env.users.List(t.Context(), agent)
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	_, err = env.users.Create(t.Context(), agent, &dto.CreateUserRequest{
		FullName: "Sneaky", Email: "sneaky@agency.test", Password: "password1", Role: "admin",
	})
	assert.ErrorIs(t, err, errorx.ErrForbidden)
}

func TestUpdateUserKeepsPasswordWhenOmitted(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "Root Admin", cnst.RoleAdmin)

	created, err := env.users.Create(t.Context(), admin, &dto.CreateUserRequest{
		FullName: "Mira Leka", Email: "mira@agency.test",
		Password: "correct-horse", Role: "agent",
	})
	require.NoError(t, err)

	_, err = env.users.Update(t.Context(), admin, created.ID, &dto.UpdateUserRequest{
		FullName: "Mira L.", Email: "mira@agency.test", Role: "agent",
	})
	require.NoError(t, err)

	_, err = env.users.Authenticate(t.Context(), "mira@agency.test", "correct-horse")
	assert.NoError(t, err)

	_, err = env.users.Update(t.Context(), admin, created.ID, &dto.UpdateUserRequest{
		FullName: "Mira L.", Email: "mira@agency.test", Role: "agent", Password: "new-secret-1",
	})
	require.NoError(t, err)

	_, err = env.users.Authenticate(t.Context(), "mira@agency.test", "correct-horse")
	assert.ErrorIs(t, err, errorx.ErrInvalidCredentials)
	_, err = env.users.Authenticate(t.Context(), "mira@agency.test", "new-secret-1")
	assert.NoError(t, err)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "Root Admin", cnst.RoleAdmin)

	_, err := env.users.Create(t.Context(), admin, &dto.CreateUserRequest{
		FullName: "Mira Leka", Email: "mira@agency.test", Password: "correct-horse", Role: "agent",
	})
	require.NoError(t, err)
	second, err := env.users.Create(t.Context(), admin, &dto.CreateUserRequest{
		FullName: "Dion Prifti", Email: "dion@agency.test", Password: "correct-horse", Role: "agent",
	})
	require.NoError(t, err)

	_, err = env.users.Update(t.Context(), admin, second.ID, &dto.UpdateUserRequest{
		FullName: "Dion Prifti", Email: "mira@agency.test", Role: "agent",
	})
	assert.ErrorIs(t, err, errorx.ErrDuplicateEmail)

	// Keeping your own email is not a conflict.
	_, err = env.users.Update(t.Context(), admin, second.ID, &dto.UpdateUserRequest{
		FullName: "Dion Prifti", Email: "dion@agency.test", Role: "agent",
	})
	assert.NoError(t, err)
}

func TestEnsureSuperAdminIdempotent(t *testing.T) {
	env := newTestEnv(t)
	cfg := &config.SuperAdminConfig{Email: "root@agency.test", Password: "bootstrap-secret"}

	require.NoError(t, env.users.EnsureSuperAdmin(t.Context(), cfg))
	require.NoError(t, env.users.EnsureSuperAdmin(t.Context(), cfg))

	user, err := env.users.Authenticate(t.Context(), "root@agency.test", "bootstrap-secret")
	require.NoError(t, err)
	assert.Equal(t, cnst.RoleAdmin, user.Role)
	assert.Equal(t, "System Admin", user.FullName)

	// Unconfigured bootstrap is a no-op.
	require.NoError(t, env.users.EnsureSuperAdmin(t.Context(), &config.SuperAdminConfig{}))
}
