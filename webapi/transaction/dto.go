package transaction

import (
	"time"

	"github.com/fincore/bankapi/pkg/dto"
	"github.com/fincore/bankapi/pkg/money"
)

// CreateTransactionRequest is the creation payload. Value is in decimal
// reais; cpfDest is required for transfers.
type CreateTransactionRequest struct {
	UserID  string  `json:"userId" validate:"required,uuid"`
	Type    string  `json:"type" validate:"required,oneof=deposit withdrawal transfer"`
	Value   float64 `json:"value" validate:"required,gt=0"`
	CPFDest string  `json:"cpfDest" validate:"required_if=Type transfer"`
}

// AmendTransactionRequest changes a transaction's value and optionally
// replaces its attachment.
type AmendTransactionRequest struct {
	ID             string  `json:"id" validate:"required,uuid"`
	Value          float64 `json:"value" validate:"required,gt=0"`
	Attachment     *string `json:"attachment,omitempty"`
	AttachmentName *string `json:"attachmentName,omitempty"`
}

// UpdateValueRequest changes only a transaction's value.
type UpdateValueRequest struct {
	Value float64 `json:"value" validate:"required,gt=0"`
}

// TransactionResponse is the transaction shape returned by the API. Value is
// in decimal reais.
type TransactionResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Type           string    `json:"type"`
	Value          float64   `json:"value"`
	CPFOrigin      string    `json:"cpfOrigin,omitempty"`
	NameOrigin     string    `json:"nameOrigin,omitempty"`
	CPFDest        string    `json:"cpfDest,omitempty"`
	NameDest       string    `json:"nameDest,omitempty"`
	Attachment     string    `json:"attachment,omitempty"`
	AttachmentName string    `json:"attachmentName,omitempty"`
	IsReceived     bool      `json:"isReceived,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateTransactionResponse pairs the stored transaction with the owner's
// resulting balance so the client can refresh its header in one round trip.
type CreateTransactionResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	NewBalance  float64             `json:"newBalance"`
}

// ListTransactionsResponse is one statement page plus the total match count.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalCount   int64                 `json:"totalCount"`
}

func newTransactionResponse(tx *dto.TransactionRead) TransactionResponse {
	return TransactionResponse{
		ID:             tx.ID.String(),
		UserID:         tx.UserID.String(),
		Type:           tx.Type,
		Value:          money.ToReais(tx.Value),
		CPFOrigin:      tx.CPFOrigin,
		NameOrigin:     tx.NameOrigin,
		CPFDest:        tx.CPFDest,
		NameDest:       tx.NameDest,
		Attachment:     tx.Attachment,
		AttachmentName: tx.AttachmentName,
		IsReceived:     tx.IsReceived,
		CreatedAt:      tx.CreatedAt,
	}
}

func newListResponse(page *dto.TransactionPage) ListTransactionsResponse {
	out := ListTransactionsResponse{
		Transactions: make([]TransactionResponse, 0, len(page.Transactions)),
		TotalCount:   page.TotalCount,
	}
	for _, tx := range page.Transactions {
		out.Transactions = append(out.Transactions, newTransactionResponse(tx))
	}
	return out
}
