package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/platform/config"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

func newTestService() *Service {
	return NewService(config.JWTConfig{
		SigningKey: "test-signing-key",
		Issuer:     "vouch-test",
		Audience:   "vouch-api",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
}

func TestIssueAndValidatePair(t *testing.T) {
	svc := newTestService()
	userID := id.NewUserID()

	pair, err := svc.IssuePair(userID, id.RoleVerifier, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, id.RoleVerifier, claims.Role)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	svc := newTestService()
	pair, err := svc.IssuePair(id.NewUserID(), id.RoleCandidate, time.Now())
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	claims, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, id.RoleCandidate, claims.Role)

	_, err = svc.Refresh(pair.AccessToken)
	require.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := newTestService()
	pair, err := svc.IssuePair(id.NewUserID(), id.RoleCandidate, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestForeignKeyRejected(t *testing.T) {
	svc := newTestService()
	other := NewService(config.JWTConfig{
		SigningKey: "different-key",
		Issuer:     "vouch-test",
		Audience:   "vouch-api",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})

	pair, err := other.IssuePair(id.NewUserID(), id.RoleAdmin, time.Now())
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	require.Error(t, err)
}
