package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CurrencyRate is one calendar day's exchange-rate snapshot relative to the
// base currency. Date is truncated to UTC midnight and unique; a snapshot is
// immutable once stored except for an explicit refresh, which replaces it.
type CurrencyRate struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Date         time.Time `gorm:"not null;uniqueIndex" json:"date"`
	BaseCurrency string    `gorm:"type:varchar(3);not null;default:'USD'" json:"base_currency"`
	Rates        RatesMap  `gorm:"type:text;not null" json:"rates"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (cr *CurrencyRate) BeforeCreate(tx *gorm.DB) error {
	if cr.ID == uuid.Nil {
		cr.ID = uuid.New()
	}

	if cr.BaseCurrency == "" {
		cr.BaseCurrency = DefaultCurrency
	}

	if cr.CreatedAt.IsZero() {
		cr.CreatedAt = time.Now()
	}

	return cr.Validate()
}

func (cr *CurrencyRate) Validate() error {
	if cr.Date.IsZero() {
		return errors.New("snapshot date is required")
	}

	if len(cr.Rates) == 0 {
		return errors.New("snapshot rates are required")
	}

	return nil
}

// Rate returns the stored rate for a currency code. Unknown codes resolve to
// 1, a deliberately lenient policy so conversions involving untracked
// currencies degrade to the base rate instead of failing.
func (cr *CurrencyRate) Rate(code string) float64 {
	if rate, ok := cr.Rates[code]; ok && rate != 0 {
		return rate
	}
	return 1
}

func (cr *CurrencyRate) TableName() string {
	return "currency_rates"
}

// SnapshotDay truncates a point in time to its UTC calendar day.
func SnapshotDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RatesMap stores currency-code to rate mappings as a JSON column. The text
// representation keeps it portable between PostgreSQL and SQLite.
type RatesMap map[string]float64

func (m RatesMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	bytes, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

func (m *RatesMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RatesMap", value)
	}

	return json.Unmarshal(bytes, m)
}
