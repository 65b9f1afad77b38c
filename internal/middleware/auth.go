package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"rental-backend/internal/auth"
)

const identityKey = "identity"

// RequireAuth validates the bearer token and stores the caller's identity in
// the request context. Handlers read it back with IdentityFrom and pass it
// explicitly into the service layer.
func RequireAuth(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := auth.ExtractToken(c.Request().Header.Get("Authorization"))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed authorization header")
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(identityKey, auth.Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
			})
			return next(c)
		}
	}
}

// IdentityFrom returns the identity set by RequireAuth.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	ident, ok := c.Get(identityKey).(auth.Identity)
	return ident, ok
}

// SetIdentity injects an identity directly, used by handler tests.
func SetIdentity(c echo.Context, ident auth.Identity) {
	c.Set(identityKey, ident)
}
