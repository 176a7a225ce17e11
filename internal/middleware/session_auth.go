package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/snapgram/backend/internal/api"
	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const (
	userKey  = "user"
	tokenKey = "sessionToken"
)

// SessionResolver turns a session token into the signed-in profile
type SessionResolver interface {
	GetCurrentUser(ctx context.Context, token string) (*models.User, error)
}

// SessionAuth requires a valid "Bearer <session token>" header and stores
// the signed-in user and the token in the context.
func SessionAuth(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}
			token := parts[1]

			user, err := resolver.GetCurrentUser(c.Request().Context(), token)
			if err != nil {
				if api.KindOf(err) == api.KindTransient {
					return echo.NewHTTPError(http.StatusServiceUnavailable, "Session store unavailable")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
			}

			c.Set(userKey, user)
			c.Set(tokenKey, token)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by SessionAuth
func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(userKey).(*models.User)
	return user, ok && user != nil
}

// SessionToken returns the token stored by SessionAuth
func SessionToken(c echo.Context) string {
	token, _ := c.Get(tokenKey).(string)
	return token
}
