package auth

import (
	"testing"

	"academy/config"
	"academy/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTServiceForTest(t *testing.T) *jwtService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	tokenService, err := NewJWTService(cfg)
	require.NoError(t, err)

	svc, ok := tokenService.(*jwtService)
	require.True(t, ok)

	return svc
}

func TestJWTService_RequiresSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newJWTServiceForTest(t)
	profileID := uuid.New()

	access, refresh, err := svc.GenerateTokens(profileID, entity.RoleTeacher, entity.StatusApproved)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, profileID, claims.ProfileID)
	assert.Equal(t, entity.RoleTeacher, claims.Role)
	assert.Equal(t, entity.StatusApproved, claims.Status)
	assert.Equal(t, "access", claims.Type)
}

func TestJWTService_RejectsRefreshTokenAsAccess(t *testing.T) {
	svc := newJWTServiceForTest(t)

	_, refresh, err := svc.GenerateTokens(uuid.New(), entity.RoleStudent, entity.StatusApproved)
	require.NoError(t, err)

	// Refresh tokens are signed with a different secret.
	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc := newJWTServiceForTest(t)

	access, _, err := svc.GenerateTokens(uuid.New(), entity.RoleStudent, entity.StatusApproved)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(access + "x")
	assert.Error(t, err)
}
