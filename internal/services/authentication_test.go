package services

import (
	"context"
	"testing"
	"time"

	"viralbite/internal/models"

	"github.com/stretchr/testify/require"
)

type denylistFake struct {
	revoked map[string]bool
}

func newDenylistFake() *denylistFake {
	return &denylistFake{revoked: map[string]bool{}}
}

func (d *denylistFake) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl > 0 {
		d.revoked[jti] = true
	}
	return nil
}

func (d *denylistFake) Revoked(ctx context.Context, jti string) (bool, error) {
	return d.revoked[jti], nil
}

func TestAuthenticationRoundTrip(t *testing.T) {
	auth, err := NewAuthentication("test-secret", newDenylistFake())
	require.NoError(t, err)

	user := &models.User{ID: 42, Name: "Mika", Role: models.RoleInfluencer}
	token, err := auth.CreateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := auth.Validate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, int64(42), identity.ID)
	require.Equal(t, "Mika", identity.Name)
	require.Equal(t, models.RoleInfluencer, identity.Role)
}

func TestAuthenticationRejectsWrongSecret(t *testing.T) {
	issuer, err := NewAuthentication("secret-a", newDenylistFake())
	require.NoError(t, err)
	verifier, err := NewAuthentication("secret-b", newDenylistFake())
	require.NoError(t, err)

	token, err := issuer.CreateToken(&models.User{ID: 1, Name: "x", Role: models.RoleRestaurant})
	require.NoError(t, err)

	_, err = verifier.Validate(context.Background(), token)
	require.Error(t, err)
}

func TestAuthenticationRejectsGarbage(t *testing.T) {
	auth, err := NewAuthentication("test-secret", newDenylistFake())
	require.NoError(t, err)

	_, err = auth.Validate(context.Background(), "not-a-token")
	require.Error(t, err)
}

func TestAuthenticationRevoke(t *testing.T) {
	auth, err := NewAuthentication("test-secret", newDenylistFake())
	require.NoError(t, err)

	user := &models.User{ID: 7, Name: "Ana", Role: models.RoleRestaurant}
	token, err := auth.CreateToken(user)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = auth.Validate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Revoke(ctx, token))

	_, err = auth.Validate(ctx, token)
	require.Error(t, err, "revoked tokens no longer validate")
}

func TestAuthenticationRevokeIgnoresInvalidTokens(t *testing.T) {
	auth, err := NewAuthentication("test-secret", newDenylistFake())
	require.NoError(t, err)

	require.NoError(t, auth.Revoke(context.Background(), "garbage"))
}

func TestNewAuthenticationRequiresSecret(t *testing.T) {
	_, err := NewAuthentication("", newDenylistFake())
	require.Error(t, err)
}
