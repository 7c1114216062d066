// Package webapi assembles the HTTP application: middleware, routes and the
// top-level error handler.
package webapi

import (
	"github.com/fincore/bankapi/pkg/config"
	authsvc "github.com/fincore/bankapi/pkg/service/auth"
	ledgersvc "github.com/fincore/bankapi/pkg/service/ledger"
	usersvc "github.com/fincore/bankapi/pkg/service/user"
	"github.com/fincore/bankapi/webapi/auth"
	"github.com/fincore/bankapi/webapi/common"
	"github.com/fincore/bankapi/webapi/transaction"
	"github.com/fincore/bankapi/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/swagger"
)

// Services bundles the application services the routes depend on.
type Services struct {
	User   *usersvc.Service
	Auth   *authsvc.Service
	Ledger *ledgersvc.Service
}

// New builds the fiber application with all middleware and routes wired.
func New(svc Services, cfg *config.App) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "bankapi",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default to 500 if status code cannot be determined
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ProblemDetailsJSON(c, utils.StatusMessage(status), err, status)
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(c, "Too Many Requests", nil, "Rate limit exceeded", fiber.StatusTooManyRequests)
		},
	}))
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("App is working! 🚀")
	})
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth.Routes(app, svc.Auth, cfg)
	user.Routes(app, svc.User, svc.Auth, cfg)
	transaction.Routes(app, svc.Ledger, svc.Auth, cfg)

	return app
}
