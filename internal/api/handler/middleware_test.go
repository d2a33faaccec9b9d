package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"viralbite/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type verifierFake struct {
	identities map[string]*models.UserFromAuth
}

func (v *verifierFake) Validate(ctx context.Context, token string) (*models.UserFromAuth, error) {
	identity, ok := v.identities[token]
	if !ok {
		return nil, errors.New("token revoked")
	}
	return identity, nil
}

func newTestRouter() *echo.Echo {
	verifier := &verifierFake{identities: map[string]*models.UserFromAuth{
		"admin-token":      {ID: 1, Name: "ops", Role: models.RoleAdmin},
		"restaurant-token": {ID: 2, Name: "resto", Role: models.RoleRestaurant},
	}}

	r := echo.New()
	r.Use(Authn(verifier))

	admin := r.Group("/admin")
	admin.Use(RequireRole(models.RoleAdmin))
	admin.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	return r
}

func doRequest(r *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireRoleUnauthenticated(t *testing.T) {
	r := newTestRouter()
	rec := doRequest(r, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleInvalidToken(t *testing.T) {
	r := newTestRouter()
	rec := doRequest(r, "expired-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleWrongRole(t *testing.T) {
	r := newTestRouter()
	rec := doRequest(r, "restaurant-token")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAdminPasses(t *testing.T) {
	r := newTestRouter()
	rec := doRequest(r, "admin-token")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "pong", rec.Body.String())
}
