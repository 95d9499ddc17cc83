package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tedas/villa_api/internal/auth"
)

// RequireLogin validates the Authorization bearer token (signature, expiry,
// audience) and puts the caller's identity into the echo context.
func RequireLogin(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := claimsFromRequest(c, tokens)
			if err != nil {
				return err
			}
			setUserContext(c, claims)
			return next(c)
		}
	}
}

func claimsFromRequest(c echo.Context, tokens *auth.TokenService) (*auth.AccessClaims, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	claims, err := tokens.DecodeAccessToken(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}
	return claims, nil
}

func setUserContext(c echo.Context, claims *auth.AccessClaims) {
	c.Set("userID", claims.Subject)
	c.Set("username", claims.Name)
	c.Set("role", claims.Role)
}
