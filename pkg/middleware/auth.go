// Package middleware holds the route middleware shared by the web API.
package middleware

import (
	"fmt"

	"github.com/fincore/bankapi/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JwtProtected guards a route with the session token. The token is accepted
// from the Authorization header or from the login cookie.
func JwtProtected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.Secret)},
		TokenLookup: fmt.Sprintf("header:Authorization,cookie:%s", cfg.CookieName),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			c.Set(fiber.HeaderContentType, "application/problem+json")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"type":     "about:blank",
				"title":    "Unauthorized",
				"status":   fiber.StatusUnauthorized,
				"detail":   "missing or invalid session token",
				"instance": c.OriginalURL(),
			})
		},
	})
}
