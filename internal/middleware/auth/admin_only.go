package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tedas/villa_api/internal/auth"
)

func AdminOnly(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := claimsFromRequest(c, tokens)
			if err != nil {
				return err
			}
			if claims.Role != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			setUserContext(c, claims)
			return next(c)
		}
	}
}
