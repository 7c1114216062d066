// Package auth exposes the login route.
package auth

import (
	"time"

	"github.com/fincore/bankapi/pkg/config"
	"github.com/fincore/bankapi/pkg/money"
	authsvc "github.com/fincore/bankapi/pkg/service/auth"
	"github.com/fincore/bankapi/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the auth routes.
func Routes(app *fiber.App, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/login", Login(authSvc, cfg))
}

// Login authenticates by CPF and password and issues a session token.
// @Summary Log in
// @Description Authenticate with CPF and password, returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /login [post]
func Login(authSvc *authsvc.Service, cfg *config.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err // error response already written
		}
		u, err := authSvc.Login(c.Context(), input.CPF, input.Password)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Login failed", err)
		}
		token, err := authSvc.GenerateToken(u)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Login failed", err, fiber.StatusInternalServerError)
		}
		c.Cookie(&fiber.Cookie{
			Name:     cfg.Jwt.CookieName,
			Value:    token,
			Expires:  time.Now().Add(cfg.Jwt.Expiry),
			HTTPOnly: true,
			SameSite: "Strict",
		})
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login successful", LoginResponse{
			UserID:       u.ID.String(),
			FullName:     u.FullName,
			CPF:          u.CPF,
			TotalBalance: money.ToReais(u.TotalBalance),
			Token:        token,
		})
	}
}
