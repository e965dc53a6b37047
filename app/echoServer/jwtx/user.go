package jwtx

import (
	"errors"

	"github.com/labstack/echo/v4"

	jwtutil "bookrent/util/jwt"
)

// ContextKey is where the auth middleware stores the verified claims.
const ContextKey = "user"

var ErrNoClaims = errors.New("no verified claims in context")

func Claims(c echo.Context) (*jwtutil.Claims, error) {
	claims, ok := c.Get(ContextKey).(*jwtutil.Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}

func UserIDFromContext(c echo.Context) (int64, error) {
	claims, err := Claims(c)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
