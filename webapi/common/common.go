// Package common holds the response envelope, the RFC 9457 problem-details
// writer and the request binding helpers shared by all route handlers.
package common

import (
	"errors"

	"github.com/fincore/bankapi/pkg/domain/ledger"
	"github.com/fincore/bankapi/pkg/domain/user"
	"github.com/fincore/bankapi/pkg/money"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// ProblemDetailsJSON writes a problem-details response. Extras may carry a
// string detail and an int status override; when no status is given the
// error is mapped through ErrorToStatusCode.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, extras ...any) error {
	status := 0
	detail := ""
	for _, e := range extras {
		switch v := e.(type) {
		case int:
			status = v
		case string:
			detail = v
		}
	}
	if status == 0 {
		if err != nil {
			status = ErrorToStatusCode(err)
		} else {
			status = fiber.StatusBadRequest
		}
	}
	if detail == "" && err != nil {
		detail = err.Error()
	}
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(status).JSON(pd)
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ledger.ErrTransactionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ledger.ErrCounterpartyNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, user.ErrCPFAlreadyRegistered):
		return fiber.StatusConflict
	case errors.Is(err, user.ErrEmailAlreadyRegistered):
		return fiber.StatusConflict
	case errors.Is(err, user.ErrUserUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fiber.StatusBadRequest
	case errors.Is(err, ledger.ErrSelfTransfer):
		return fiber.StatusBadRequest
	case errors.Is(err, ledger.ErrCounterpartyRequired):
		return fiber.StatusBadRequest
	case errors.Is(err, ledger.ErrInvalidType):
		return fiber.StatusBadRequest
	case errors.Is(err, user.ErrInvalidCPF):
		return fiber.StatusBadRequest
	case errors.Is(err, money.ErrAmountMustBePositive):
		return fiber.StatusBadRequest
	case errors.Is(err, money.ErrInvalidAmount):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. On failure it writes the 400 problem-details
// response and returns a nil struct; the returned error is the write
// result, so handlers can return it directly without triggering the app
// error handler.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}
