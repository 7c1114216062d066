// Package user exposes the registration and account routes.
package user

import (
	"github.com/fincore/bankapi/pkg/config"
	"github.com/fincore/bankapi/pkg/middleware"
	authsvc "github.com/fincore/bankapi/pkg/service/auth"
	usersvc "github.com/fincore/bankapi/pkg/service/user"
	"github.com/fincore/bankapi/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Routes registers the user routes.
func Routes(app *fiber.App, userSvc *usersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/register", Register(userSvc))
	app.Get("/user", middleware.JwtProtected(cfg.Jwt), GetUser(userSvc, authSvc))
}

// Register creates a new account.
// @Summary Register a new account
// @Description Create an account with full name, email, password, CPF and birth date
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /register [post]
func Register(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err // error response already written
		}
		u, err := userSvc.Register(c.Context(), usersvc.RegisterInput{
			FullName:  input.FullName,
			Email:     input.Email,
			Password:  input.Password,
			CPF:       input.CPF,
			BirthDate: input.BirthDate,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't register user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered", newUserResponse(u))
	}
}

// GetUser returns the account of the given id, or the session's account when
// no id is given.
// @Summary Get account
// @Description Retrieve an account by id, defaulting to the session's account
// @Tags users
// @Produce json
// @Param id query string false "User ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /user [get]
// @Security Bearer
func GetUser(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uuid.UUID
		var err error
		if raw := c.Query("id"); raw != "" {
			id, err = uuid.Parse(raw)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid user ID", err, "User ID must be a valid UUID", fiber.StatusBadRequest)
			}
		} else {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing user context", fiber.StatusUnauthorized)
			}
			id, err = authSvc.GetCurrentUserID(token)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
			}
		}
		u, err := userSvc.Get(c.Context(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "User not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", newUserResponse(u))
	}
}
