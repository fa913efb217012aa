package handlers

import (
	"errors"
	"net/http"

	"fintrack-api/internal/dto"
	apierrors "fintrack-api/internal/errors"
	"fintrack-api/internal/models"
	"fintrack-api/internal/repositories"
	"fintrack-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction endpoints
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// List returns the authenticated user's transactions
// @Summary List transactions
// @Description Get all transactions of the authenticated user, newest first
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse{data=dto.TransactionListResponse} "Transactions"
// @Failure 401 {object} errors.ErrorResponse "Missing or invalid token - AUTH_002"
// @Router /trans [get]
func (h *TransactionHandler) List(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	transactions, err := h.transactionService.ListForUser(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		responses = append(responses, toTransactionResponse(&transactions[i]))
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.TransactionListResponse{
			Transactions: responses,
			Count:        len(responses),
		},
	})
}

// Get returns a single transaction owned by the authenticated user
// @Summary Get transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse} "Transaction"
// @Failure 400 {object} errors.ErrorResponse "Invalid transaction ID - VALIDATION_003"
// @Failure 404 {object} errors.ErrorResponse "Transaction not found - TRANSACTION_001"
// @Router /trans/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails("Invalid transaction ID"))
	}

	transaction, err := h.transactionService.GetByID(transactionID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return SendError(c, apierrors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toTransactionResponse(transaction),
	})
}

// Create records a new transaction
// @Summary Create transaction
// @Description Record an income, expense, or transfer. The affected account
// @Description balances are adjusted atomically with the record write.
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} SuccessResponse{data=dto.TransactionResponse} "Transaction created"
// @Failure 400 {object} errors.ErrorResponse "Validation error - TRANSACTION_002 to TRANSACTION_007"
// @Failure 404 {object} errors.ErrorResponse "Account not found - ACCOUNT_001"
// @Router /trans [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	transaction, err := h.transactionService.Create(userID, &req)
	if err != nil {
		return h.sendTransactionError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toTransactionResponse(transaction),
		Message: "Transaction recorded successfully",
	})
}

// Update replaces a transaction
// @Summary Update transaction
// @Description Replace a transaction. The old version's balance effects are
// @Description reversed and the new version's applied atomically.
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Replacement transaction"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse} "Transaction updated"
// @Failure 400 {object} errors.ErrorResponse "Validation error - TRANSACTION_002 to TRANSACTION_007"
// @Failure 404 {object} errors.ErrorResponse "Transaction or account not found - TRANSACTION_001 or ACCOUNT_001"
// @Router /trans/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails("Invalid transaction ID"))
	}

	var req dto.UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	transaction, err := h.transactionService.Update(transactionID, userID, &req)
	if err != nil {
		return h.sendTransactionError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    toTransactionResponse(transaction),
		Message: "Transaction updated successfully",
	})
}

// Delete removes a transaction and reverses its balance effects
// @Summary Delete transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} SuccessResponse "Transaction deleted"
// @Failure 400 {object} errors.ErrorResponse "Invalid transaction ID - VALIDATION_003"
// @Failure 404 {object} errors.ErrorResponse "Transaction not found - TRANSACTION_001"
// @Router /trans/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails("Invalid transaction ID"))
	}

	if err := h.transactionService.Delete(transactionID, userID); err != nil {
		return h.sendTransactionError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Transaction deleted successfully",
	})
}

func (h *TransactionHandler) sendTransactionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repositories.ErrTransactionNotFound):
		return SendError(c, apierrors.TransactionNotFound)
	case errors.Is(err, repositories.ErrAccountNotFound):
		return SendError(c, apierrors.AccountNotFound)
	case errors.Is(err, models.ErrInvalidTransactionType):
		return SendError(c, apierrors.TransactionInvalidType)
	case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrAmountTooLarge):
		return SendError(c, apierrors.TransactionInvalidAmount, apierrors.WithDetails(err.Error()))
	case errors.Is(err, models.ErrTransferTargetMissing):
		return SendError(c, apierrors.TransactionMissingTarget)
	case errors.Is(err, models.ErrTransferSameAccount):
		return SendError(c, apierrors.TransactionSelfTransfer)
	case errors.Is(err, models.ErrUnexpectedTransferTarget):
		return SendError(c, apierrors.TransactionUnexpectedTarget)
	}
	return SendSystemError(c, err)
}

func toTransactionResponse(transaction *models.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:          transaction.ID,
		AccountID:   transaction.AccountID,
		ToAccountID: transaction.ToAccountID,
		Amount:      transaction.Amount,
		Type:        transaction.Type,
		Category:    transaction.Category,
		Date:        transaction.Date,
		Description: transaction.Description,
		CreatedAt:   transaction.CreatedAt,
		UpdatedAt:   transaction.UpdatedAt,
	}

	if transaction.Account.ID != uuid.Nil {
		resp.AccountName = transaction.Account.Name
	}
	if transaction.ToAccount != nil {
		resp.ToAccountName = transaction.ToAccount.Name
	}

	return resp
}
