package utils

import (
	"notetaker/cmd/internal/domain/entity"
	"notetaker/cmd/internal/infrastructure/tokens"
	"notetaker/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	ContextKeyUser   = "user"
	ContextKeyClaims = "claims"
)

func GetUserFromContext(c echo.Context) (*entity.User, apierror.ErrorResponse) {
	val := c.Get(ContextKeyUser)
	if val == nil {
		log.Warnf("route %s attempted to read nil user from context", c.Request().URL)
		return nil, apierror.UnauthorizedError
	}

	user, ok := val.(*entity.User)
	if !ok {
		log.Warnf("expected user type at 'user' context key, got %T", val)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

// GetClaimsFromContext returns the claims of the access token that authenticated the request.
func GetClaimsFromContext(c echo.Context) (*tokens.Claims, apierror.ErrorResponse) {
	val := c.Get(ContextKeyClaims)
	if val == nil {
		return nil, apierror.UnauthorizedError
	}

	claims, ok := val.(*tokens.Claims)
	if !ok {
		log.Warnf("expected claims type at 'claims' context key, got %T", val)
		return nil, apierror.InternalServerError
	}
	return claims, nil
}

// ParseID parses a path parameter holding a resource ID.
func ParseID(c echo.Context, name string) (int64, apierror.ErrorResponse) {
	id, err := parsePositiveInt(c.Param(name))
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError(name, "int64")
	}
	return id, nil
}

// ParseOptionalQueryID parses an optional query parameter holding a resource ID.
// A missing or blank parameter yields nil.
func ParseOptionalQueryID(c echo.Context, name string) (*int64, apierror.ErrorResponse) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	id, err := parsePositiveInt(raw)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError(name, "int64")
	}
	return &id, nil
}
