package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

var errNotPositive = errors.New("value must be a positive integer")

// BearerToken extracts the raw token from the Authorization header.
// It returns an empty string if the header is missing or uses another scheme.
func BearerToken(c echo.Context) string {
	header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func parsePositiveInt(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}

	if id <= 0 {
		return 0, errNotPositive
	}
	return id, nil
}
