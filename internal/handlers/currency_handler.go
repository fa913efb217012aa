package handlers

import (
	"errors"
	"net/http"

	"fintrack-api/internal/dto"
	apierrors "fintrack-api/internal/errors"
	"fintrack-api/internal/services"

	"github.com/labstack/echo/v4"
)

// CurrencyHandler handles exchange rate endpoints
type CurrencyHandler struct {
	currencyService services.CurrencyServiceInterface
}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler(currencyService services.CurrencyServiceInterface) *CurrencyHandler {
	return &CurrencyHandler{
		currencyService: currencyService,
	}
}

// GetRates returns the active daily rate snapshot
// @Summary Get exchange rates
// @Description Get the current daily rate snapshot, fetching from the
// @Description provider at most once per UTC day
// @Tags Currency
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse{data=dto.RatesResponse} "Rate snapshot"
// @Failure 503 {object} errors.ErrorResponse "Rates unavailable - CURRENCY_001"
// @Router /currency/get-rates [get]
func (h *CurrencyHandler) GetRates(c echo.Context) error {
	rates, err := h.currencyService.GetRates(c.Request().Context())
	if err != nil {
		return h.sendCurrencyError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: rates,
	})
}

// Convert converts an amount between two currencies
// @Summary Convert currency
// @Description Convert an amount between currencies via the base currency.
// @Description Unknown codes are treated as rate 1.
// @Tags Currency
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ConvertCurrencyRequest true "Conversion query"
// @Success 200 {object} SuccessResponse{data=dto.ConvertCurrencyResponse} "Conversion result"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Failure 503 {object} errors.ErrorResponse "Rates unavailable - CURRENCY_001"
// @Router /currency/convert [post]
func (h *CurrencyHandler) Convert(c echo.Context) error {
	var req dto.ConvertCurrencyRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	result, err := h.currencyService.Convert(c.Request().Context(), &req)
	if err != nil {
		return h.sendCurrencyError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: result,
	})
}

// Supported lists the currency codes available for conversion
// @Summary List supported currencies
// @Description List the codes in the active snapshot, or a fixed fallback
// @Description list of major currencies when no snapshot is available
// @Tags Currency
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse{data=dto.SupportedCurrenciesResponse} "Currency codes"
// @Router /currency/supported [get]
func (h *CurrencyHandler) Supported(c echo.Context) error {
	result, err := h.currencyService.SupportedCurrencies(c.Request().Context())
	if err != nil {
		return h.sendCurrencyError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: result,
	})
}

// Refresh forces a provider fetch (admin only)
// @Summary Refresh exchange rates
// @Description Force a provider fetch and overwrite today's snapshot
// @Tags Currency
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse{data=dto.RatesResponse} "Fresh snapshot"
// @Failure 403 {object} errors.ErrorResponse "Admin role required - AUTH_005"
// @Failure 502 {object} errors.ErrorResponse "Provider fetch failed - CURRENCY_003"
// @Router /currency/refresh [post]
func (h *CurrencyHandler) Refresh(c echo.Context) error {
	rates, err := h.currencyService.Refresh(c.Request().Context())
	if err != nil {
		return h.sendCurrencyError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    rates,
		Message: "Rates refreshed successfully",
	})
}

func (h *CurrencyHandler) sendCurrencyError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrRatesUnavailable):
		return SendError(c, apierrors.CurrencyRatesUnavailable)
	case errors.Is(err, services.ErrRateRefreshFailed):
		return SendError(c, apierrors.CurrencyRefreshFailed)
	}
	return SendSystemError(c, err)
}
