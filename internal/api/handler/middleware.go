package handler

import (
	"context"
	"errors"
	"strings"

	"fireuai/internal/models"
	"fireuai/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type ctxKey string

var ctxKeyAuthClaims ctxKey = "AUTH_CLAIMS"

func Authn(authentication *services.Authentication) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, "Bearer")
			if len(parts) != 2 {
				return next(c)
			}

			token := strings.TrimSpace(parts[1])
			if len(token) == 0 {
				return next(c)
			}

			claims, err := authentication.Validate(token)
			if err != nil {
				// although it's a client error, we don't want to leak details
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), -1)
				return nil
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthClaims, claims)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func ResolveValidUser(ctx context.Context, container *do.Injector) (*models.User, error) {
	claims, ok := ctx.Value(ctxKeyAuthClaims).(*services.CustomClaims)
	if !ok {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](container)
	if err != nil {
		return nil, err
	}

	return serviceUser.GetUser(ctx, claims.ID)
}

// AdminOnly re-checks the role against storage; a token minted before a
// demotion must not keep admin access.
func AdminOnly(container *do.Injector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := ResolveValidUser(c.Request().Context(), container)
			if err != nil {
				//nolint:errcheck
				httpx.Abort(c, err, -1)
				return nil
			}

			serviceUser, err := do.Invoke[*services.ServiceUser](container)
			if err != nil {
				return err
			}

			admin, err := serviceUser.IsAdmin(c.Request().Context(), user.ID)
			if err != nil {
				return err
			}
			if !admin {
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("admin only"), errorx.Authn), -1)
				return nil
			}

			return next(c)
		}
	}
}
