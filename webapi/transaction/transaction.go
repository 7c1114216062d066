// Package transaction exposes the transaction lifecycle and statement routes.
package transaction

import (
	"strconv"
	"time"

	"github.com/fincore/bankapi/pkg/config"
	"github.com/fincore/bankapi/pkg/domain/ledger"
	"github.com/fincore/bankapi/pkg/dto"
	"github.com/fincore/bankapi/pkg/middleware"
	"github.com/fincore/bankapi/pkg/money"
	authsvc "github.com/fincore/bankapi/pkg/service/auth"
	ledgersvc "github.com/fincore/bankapi/pkg/service/ledger"
	"github.com/fincore/bankapi/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// maxAttachmentBytes bounds the data-URI attachment, roughly a 1 MB file
// after base64 expansion.
const maxAttachmentBytes = 1_500_000

// Routes registers the transaction routes.
func Routes(app *fiber.App, ledgerSvc *ledgersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/transactions", CreateTransaction(ledgerSvc))
	app.Get("/transactions", ListTransactions(ledgerSvc))
	app.Get("/transactions/last", middleware.JwtProtected(cfg.Jwt), LastTransaction(ledgerSvc, authSvc))
	app.Patch("/transactions", AmendTransaction(ledgerSvc))
	app.Put("/transactions/:id", UpdateTransactionValue(ledgerSvc))
	app.Delete("/transactions/:id", DeleteTransaction(ledgerSvc))
}

// CreateTransaction records a deposit, withdrawal or transfer and applies it
// to the affected balances.
// @Summary Create a transaction
// @Description Record a deposit, withdrawal or transfer and apply it to the balance
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "Transaction data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions [post]
func CreateTransaction(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if input == nil {
			return err // error response already written
		}
		userID, err := uuid.Parse(input.UserID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err, fiber.StatusBadRequest)
		}
		value, err := money.PositiveFromReais(input.Value)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid value", err)
		}
		tx, newBalance, err := ledgerSvc.CreateTransaction(c.Context(), ledgersvc.CreateInput{
			UserID:  userID,
			Type:    ledger.Type(input.Type),
			Value:   value,
			CPFDest: input.CPFDest,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't create transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction created", CreateTransactionResponse{
			Transaction: newTransactionResponse(tx),
			NewBalance:  money.ToReais(newBalance),
		})
	}
}

// ListTransactions returns one statement page for a user: owned transactions
// plus transfers received on the user's CPF.
// @Summary List transactions
// @Description One statement page, filterable by type, counterparty CPF, value and date range
// @Tags transactions
// @Produce json
// @Param userId query string true "User ID"
// @Param type query string false "Transaction type"
// @Param search query string false "Counterparty CPF fragment"
// @Param valorMin query number false "Minimum value in reais"
// @Param valorMax query number false "Maximum value in reais"
// @Param dataInicio query string false "Start date (inclusive)"
// @Param dataFim query string false "End date (inclusive)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions [get]
func ListTransactions(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := uuid.Parse(c.Query("userId"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err, "userId must be a valid UUID", fiber.StatusBadRequest)
		}
		filter, err := parseListFilter(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid filter", err, fiber.StatusBadRequest)
		}
		page, err := ledgerSvc.ListTransactions(c.Context(), userID, filter)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions listed", newListResponse(page))
	}
}

// AmendTransaction changes a transaction's value, moving only the difference
// through the affected balances, and optionally replaces its attachment.
// @Summary Amend a transaction
// @Description Change a transaction's value and optionally its attachment
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body AmendTransactionRequest true "Amendment data"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions [patch]
func AmendTransaction(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[AmendTransactionRequest](c)
		if input == nil {
			return err // error response already written
		}
		id, err := uuid.Parse(input.ID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, fiber.StatusBadRequest)
		}
		value, err := money.PositiveFromReais(input.Value)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid value", err)
		}
		var attach *ledgersvc.Attachment
		if input.Attachment != nil {
			if len(*input.Attachment) > maxAttachmentBytes {
				return common.ProblemDetailsJSON(c, "Attachment too large", nil, fiber.StatusBadRequest)
			}
			attach = &ledgersvc.Attachment{Data: *input.Attachment}
			if input.AttachmentName != nil {
				attach.Name = *input.AttachmentName
			}
		}
		tx, newBalance, err := ledgerSvc.AmendTransactionValue(c.Context(), id, value, attach)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't amend transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction amended", CreateTransactionResponse{
			Transaction: newTransactionResponse(tx),
			NewBalance:  money.ToReais(newBalance),
		})
	}
}

// UpdateTransactionValue changes only a transaction's value.
// @Summary Update a transaction's value
// @Description Change a transaction's value, moving only the difference
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body UpdateValueRequest true "New value"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [put]
func UpdateTransactionValue(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, "Transaction ID must be a valid UUID", fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[UpdateValueRequest](c)
		if input == nil {
			return err // error response already written
		}
		value, err := money.PositiveFromReais(input.Value)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid value", err)
		}
		tx, newBalance, err := ledgerSvc.AmendTransactionValue(c.Context(), id, value, nil)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't update transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction updated", CreateTransactionResponse{
			Transaction: newTransactionResponse(tx),
			NewBalance:  money.ToReais(newBalance),
		})
	}
}

// DeleteTransaction removes a transaction and reverses its effect on the
// affected balances.
// @Summary Delete a transaction
// @Description Remove a transaction and reverse its balance effect
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [delete]
func DeleteTransaction(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, "Transaction ID must be a valid UUID", fiber.StatusBadRequest)
		}
		if err := ledgerSvc.DeleteTransaction(c.Context(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't delete transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction deleted", nil)
	}
}

// LastTransaction returns the session user's most recent transaction of the
// given type, used by the client to prefill forms.
// @Summary Last transaction of a type
// @Description The session user's most recent transaction of the given type
// @Tags transactions
// @Produce json
// @Param userId query string false "User ID, defaults to the session user"
// @Param type query string true "Transaction type"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/last [get]
// @Security Bearer
func LastTransaction(ledgerSvc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var userID uuid.UUID
		var err error
		if raw := c.Query("userId"); raw != "" {
			userID, err = uuid.Parse(raw)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid user ID", err, "userId must be a valid UUID", fiber.StatusBadRequest)
			}
		} else {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing user context", fiber.StatusUnauthorized)
			}
			userID, err = authSvc.GetCurrentUserID(token)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Unauthorized", err, fiber.StatusUnauthorized)
			}
		}
		tx, err := ledgerSvc.LastTransaction(c.Context(), userID, c.Query("type"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't get last transaction", err)
		}
		if tx == nil {
			return common.SuccessResponseJSON(c, fiber.StatusOK, "No transaction of this type yet", nil)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Last transaction found", newTransactionResponse(tx))
	}
}

func parseListFilter(c *fiber.Ctx) (*dto.TransactionListFilter, error) {
	filter := &dto.TransactionListFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
	}
	var err error
	if raw := c.Query("page"); raw != "" {
		if filter.Page, err = strconv.Atoi(raw); err != nil {
			return nil, err
		}
	}
	if raw := c.Query("pageSize"); raw != "" {
		if filter.PageSize, err = strconv.Atoi(raw); err != nil {
			return nil, err
		}
	}
	if raw := c.Query("valorMin"); raw != "" {
		if filter.ValueMin, err = parseReais(raw); err != nil {
			return nil, err
		}
	}
	if raw := c.Query("valorMax"); raw != "" {
		if filter.ValueMax, err = parseReais(raw); err != nil {
			return nil, err
		}
	}
	if raw := c.Query("dataInicio"); raw != "" {
		if filter.DateFrom, err = parseDate(raw, false); err != nil {
			return nil, err
		}
	}
	if raw := c.Query("dataFim"); raw != "" {
		if filter.DateTo, err = parseDate(raw, true); err != nil {
			return nil, err
		}
	}
	return filter, nil
}

func parseReais(raw string) (*money.Amount, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	cents, err := money.FromReais(v)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}

// parseDate accepts RFC 3339 timestamps and plain dates. A plain end date is
// shifted to the following midnight so the whole day is covered by the
// exclusive upper bound.
func parseDate(raw string, end bool) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if end {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
