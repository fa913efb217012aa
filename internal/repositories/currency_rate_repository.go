package repositories

import (
	"errors"
	"fmt"
	"time"

	"fintrack-api/internal/models"

	"gorm.io/gorm"
)

var ErrSnapshotNotFound = errors.New("currency rate snapshot not found")

// currencyRateRepository implements CurrencyRateRepositoryInterface
type currencyRateRepository struct {
	db *gorm.DB
}

// NewCurrencyRateRepository creates a new currency rate repository
func NewCurrencyRateRepository(db *gorm.DB) CurrencyRateRepositoryInterface {
	return &currencyRateRepository{db: db}
}

// Create persists a new daily snapshot
func (r *currencyRateRepository) Create(snapshot *models.CurrencyRate) error {
	if err := r.db.Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to create rate snapshot: %w", err)
	}
	return nil
}

// GetByDate retrieves the snapshot for a calendar day
func (r *currencyRateRepository) GetByDate(day time.Time) (*models.CurrencyRate, error) {
	var snapshot models.CurrencyRate
	if err := r.db.Where("date = ?", models.SnapshotDay(day)).
		First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get rate snapshot: %w", err)
	}
	return &snapshot, nil
}

// GetLatest retrieves the most recent snapshot by date
func (r *currencyRateRepository) GetLatest() (*models.CurrencyRate, error) {
	var snapshot models.CurrencyRate
	if err := r.db.Order("date DESC").First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get latest rate snapshot: %w", err)
	}
	return &snapshot, nil
}

// ReplaceForDate upserts the snapshot for its calendar day. Delete-then-insert
// inside one transaction keeps the unique date index satisfied on both
// PostgreSQL and the SQLite test driver.
func (r *currencyRateRepository) ReplaceForDate(snapshot *models.CurrencyRate) error {
	snapshot.Date = models.SnapshotDay(snapshot.Date)

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", snapshot.Date).
			Delete(&models.CurrencyRate{}).Error; err != nil {
			return fmt.Errorf("failed to clear existing snapshot: %w", err)
		}

		if err := tx.Create(snapshot).Error; err != nil {
			return fmt.Errorf("failed to store rate snapshot: %w", err)
		}

		return nil
	})
}
