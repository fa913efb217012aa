package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction Request DTOs

// CreateTransactionRequest contains data for recording a transaction
type CreateTransactionRequest struct {
	AccountID   uuid.UUID       `json:"account_id" validate:"required"`
	ToAccountID *uuid.UUID      `json:"to_account_id,omitempty"`
	Amount      decimal.Decimal `json:"amount" validate:"required,positive_amount"`
	Type        string          `json:"type" validate:"required,transaction_type"`
	Category    string          `json:"category" validate:"required,min=1,max=100"`
	Date        time.Time       `json:"date" validate:"required"`
	Description string          `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateTransactionRequest contains the full replacement state of a
// transaction. Updates are whole-record so balance effects can be
// reversed and reapplied deterministically.
type UpdateTransactionRequest struct {
	AccountID   uuid.UUID       `json:"account_id" validate:"required"`
	ToAccountID *uuid.UUID      `json:"to_account_id,omitempty"`
	Amount      decimal.Decimal `json:"amount" validate:"required,positive_amount"`
	Type        string          `json:"type" validate:"required,transaction_type"`
	Category    string          `json:"category" validate:"required,min=1,max=100"`
	Date        time.Time       `json:"date" validate:"required"`
	Description string          `json:"description,omitempty" validate:"omitempty,max=500"`
}

// Transaction Response DTOs

// TransactionResponse is the public view of a transaction with
// resolved account names
type TransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     uuid.UUID       `json:"account_id"`
	AccountName   string          `json:"account_name,omitempty"`
	ToAccountID   *uuid.UUID      `json:"to_account_id,omitempty"`
	ToAccountName string          `json:"to_account_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TransactionListResponse wraps a collection of transactions
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}
