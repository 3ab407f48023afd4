package httpserver

import (
	"net/http"
	"strings"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/labstack/echo/v4"
)

const claimsKey = "claims"

// JWTAuth checks the Bearer token and stores its claims on the echo context.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}

			claims, err := auth.ClaimsFromToken(token, secret)
			if err != nil || claims == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}
