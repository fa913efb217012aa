package dto

import "time"

// Currency Request DTOs

// ConvertCurrencyRequest contains a conversion query
type ConvertCurrencyRequest struct {
	From   string  `json:"from" validate:"required,currency_code"`
	To     string  `json:"to" validate:"required,currency_code"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Currency Response DTOs

// RatesResponse contains the active daily rate snapshot
type RatesResponse struct {
	BaseCurrency string             `json:"base_currency"`
	Date         time.Time          `json:"date"`
	Rates        map[string]float64 `json:"rates"`
	Stale        bool               `json:"stale,omitempty"`
}

// ConvertCurrencyResponse contains a conversion result
type ConvertCurrencyResponse struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	Amount          float64 `json:"amount"`
	ConvertedAmount float64 `json:"converted_amount"`
	Rate            float64 `json:"rate"`
}

// SupportedCurrenciesResponse lists currency codes available for conversion
type SupportedCurrenciesResponse struct {
	Currencies []string `json:"currencies"`
	Count      int      `json:"count"`
}
