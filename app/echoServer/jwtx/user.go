package jwtx

import (
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func UserIDFromContext(c echo.Context) (int64, error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return 0, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid jwt claims")
	}

	if f, ok := claims["sub"].(float64); ok {
		return int64(f), nil
	}
	return 0, errors.New("sub missing in claims")
}

// ActorFromContext resolves the audit identity of the caller: the numeric
// user id as text, or "system" when no authenticated user is present.
func ActorFromContext(c echo.Context) string {
	if uid, ok := c.Get("user_id").(int64); ok && uid > 0 {
		return strconv.FormatInt(uid, 10)
	}
	return "system"
}
