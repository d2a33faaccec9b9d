package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"viralbite/internal/models"
	"viralbite/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type ctxKey string

var ctxKeyAuthUser ctxKey = "AUTH_USER"

// Authn verifies a Bearer token and stores the identity in the request
// context. It does NOT terminate unauthenticated requests; guards that need
// a user resolve it explicitly or sit behind RequireRole.
func Authn(verifier interface {
	Validate(ctx context.Context, token string) (*models.UserFromAuth, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return next(c)
			}

			user, err := verifier.Validate(c.Request().Context(), token)
			if err != nil {
				// a client error, but no detail leaves the server
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), -1)
				return nil
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthUser, user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireRole terminates requests that lack a verified identity (401) or
// carry the wrong role (403).
func RequireRole(roles ...models.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userAuth, ok := c.Request().Context().Value(ctxKeyAuthUser).(*models.UserFromAuth)
			if !ok {
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("missing session"), errorx.Authn), -1)
				return nil
			}

			for _, role := range roles {
				if userAuth.Role == role {
					return next(c)
				}
			}

			//nolint:errcheck
			httpx.Abort(c, errorx.Wrap(errors.New("insufficient role"), errorx.Authn), http.StatusForbidden)
			return nil
		}
	}
}

// ResolveValidUser loads the persisted account behind the token identity.
func ResolveValidUser(ctx context.Context, container *do.Injector) (*models.User, error) {
	userAuth, ok := ctx.Value(ctxKeyAuthUser).(*models.UserFromAuth)
	if !ok {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](container)
	if err != nil {
		return nil, err
	}

	return serviceUser.ResolveUser(ctx, userAuth)
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.Split(header, "Bearer")
	if len(parts) != 2 {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
