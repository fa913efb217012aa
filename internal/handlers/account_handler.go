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

// AccountHandler handles account endpoints
type AccountHandler struct {
	accountService services.AccountServiceInterface
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService services.AccountServiceInterface) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// GetAccounts returns the authenticated user's accounts
// @Summary List accounts
// @Description Get all accounts owned by the authenticated user
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse{data=dto.AccountListResponse} "Accounts"
// @Failure 401 {object} errors.ErrorResponse "Missing or invalid token - AUTH_002"
// @Router /accounts/get-accounts [get]
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	accounts, err := h.accountService.ListForUser(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	responses := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, toAccountResponse(&accounts[i]))
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.AccountListResponse{
			Accounts: responses,
			Count:    len(responses),
		},
	})
}

// CreateAccount opens a new account for the authenticated user
// @Summary Create account
// @Description Create a new account with a zero balance
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} SuccessResponse{data=dto.AccountResponse} "Account created"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Failure 401 {object} errors.ErrorResponse "Missing or invalid token - AUTH_002"
// @Router /accounts/create-account [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	account, err := h.accountService.Create(userID, &req)
	if err != nil {
		if errors.Is(err, models.ErrAccountNameRequired) {
			return SendError(c, apierrors.ValidationRequiredField, apierrors.WithDetails("name is required"))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toAccountResponse(account),
		Message: "Account created successfully",
	})
}

// UpdateAccount updates an account owned by the authenticated user
// @Summary Update account
// @Description Apply partial changes to an account. Balances cannot be
// @Description edited directly, only through transactions.
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param request body dto.UpdateAccountRequest true "Account changes"
// @Success 200 {object} SuccessResponse{data=dto.AccountResponse} "Updated account"
// @Failure 400 {object} errors.ErrorResponse "Invalid account ID - ACCOUNT_003"
// @Failure 404 {object} errors.ErrorResponse "Account not found - ACCOUNT_001"
// @Router /accounts/update-account/{id} [put]
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, apierrors.AccountInvalidID)
	}

	var req dto.UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	account, err := h.accountService.Update(accountID, userID, &req)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return SendError(c, apierrors.AccountNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    toAccountResponse(account),
		Message: "Account updated successfully",
	})
}

// DeleteAccount removes an account owned by the authenticated user
// @Summary Delete account
// @Description Delete an account. Refused while transactions still reference it.
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} SuccessResponse "Account deleted"
// @Failure 400 {object} errors.ErrorResponse "Invalid account ID - ACCOUNT_003"
// @Failure 404 {object} errors.ErrorResponse "Account not found - ACCOUNT_001"
// @Failure 409 {object} errors.ErrorResponse "Account still referenced by transactions - ACCOUNT_002"
// @Router /accounts/delete-account/{id} [delete]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, apierrors.AccountInvalidID)
	}

	if err := h.accountService.Delete(accountID, userID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return SendError(c, apierrors.AccountNotFound)
		}
		if errors.Is(err, repositories.ErrAccountHasTransactions) {
			return SendError(c, apierrors.AccountHasTransactions)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Account deleted successfully",
	})
}

func toAccountResponse(account *models.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   account.Balance,
		Currency:  account.Currency,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}
