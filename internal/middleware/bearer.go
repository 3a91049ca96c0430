package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecomove/ecomove/internal/utils"
)

// TokenResolver maps a stored token hash to its owning user id. It is
// satisfied by repository.TokenRepo.
type TokenResolver interface {
	Resolve(ctx context.Context, tokenHash string) (string, error)
}

// BearerAuth returns an Echo middleware that resolves the bearer
// token from the Authorization header through the token store and
// injects the owning user id into the request context. Tokens are
// opaque random values; the store holds only their SHA-256 hashes, so
// the raw header value is hashed before lookup. Protected handlers
// read the identity via c.Get("user_id").
func BearerAuth(tokens TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			userID, err := tokens.Resolve(ctx, utils.HashToken(raw))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set("user_id", userID)
			return next(c)
		}
	}
}
