package middleware

import (
	"net/http"

	"notetaker/cmd/internal/domain/entity"
	"notetaker/cmd/internal/infrastructure/tokens"
	"notetaker/cmd/internal/utils"
	"notetaker/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type Authenticator interface {
	Authenticate(raw string) (*entity.User, *tokens.Claims, apierror.ErrorResponse)
}

type AuthMiddlewareConfig struct {
	Authenticator Authenticator
}

// NewAuthMiddleware creates the handler with dependencies injected
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := utils.BearerToken(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
			}

			user, claims, apierr := cfg.Authenticator.Authenticate(raw)
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}

			c.Set(utils.ContextKeyUser, user)
			c.Set(utils.ContextKeyClaims, claims)
			return next(c)
		}
	}
}
