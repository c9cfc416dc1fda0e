package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AdminKey returns an Echo middleware that gates back-office endpoints
// (train and wagon creation) behind a shared admin key.  The request
// must carry the plain key in the X-Admin-Key header; only its bcrypt
// hash is configured on the server.  When no hash is configured the
// back-office surface is disabled entirely rather than left open.
func AdminKey(keyHash string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if keyHash == "" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin endpoints disabled"})
			}
			key := c.Request().Header.Get("X-Admin-Key")
			if key == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing admin key"})
			}
			if bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)) != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid admin key"})
			}
			return next(c)
		}
	}
}
