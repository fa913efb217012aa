package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"fintrack-api/internal/dto"
	"fintrack-api/internal/models"
	"fintrack-api/internal/repositories"
)

var (
	ErrRatesUnavailable  = errors.New("exchange rates are unavailable")
	ErrRateRefreshFailed = errors.New("exchange rate refresh failed")
)

// fallbackCurrencies is served when no rate snapshot has ever been stored
// and the provider cannot be reached
var fallbackCurrencies = []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "CNY", "INR"}

// CurrencyService serves exchange rates from a daily snapshot cache. The
// provider is queried at most once per UTC day: the first request after
// midnight fetches and stores a snapshot, every later request that day is
// a cache hit. When the provider is down the most recent stored snapshot
// is served instead, marked stale.
type CurrencyService struct {
	rateRepo     repositories.CurrencyRateRepositoryInterface
	fetcher      RateFetcher
	baseCurrency string
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
	now          func() time.Time
}

// NewCurrencyService creates a new currency service
func NewCurrencyService(
	rateRepo repositories.CurrencyRateRepositoryInterface,
	fetcher RateFetcher,
	baseCurrency string,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) *CurrencyService {
	if baseCurrency == "" {
		baseCurrency = models.DefaultCurrency
	}
	return &CurrencyService{
		rateRepo:     rateRepo,
		fetcher:      fetcher,
		baseCurrency: baseCurrency,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// GetRates returns the active daily snapshot, fetching a fresh one from
// the provider if today's is missing
func (s *CurrencyService) GetRates(ctx context.Context) (*dto.RatesResponse, error) {
	snapshot, stale, err := s.activeSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	return s.buildRatesResponse(snapshot, stale), nil
}

// Convert converts an amount between two currencies using the active
// snapshot. Both legs go through the base currency, so the effective rate
// is rate(to) divided by rate(from). Codes missing from the snapshot are
// treated as rate 1.
func (s *CurrencyService) Convert(ctx context.Context, req *dto.ConvertCurrencyRequest) (*dto.ConvertCurrencyResponse, error) {
	snapshot, _, err := s.activeSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	from := strings.ToUpper(strings.TrimSpace(req.From))
	to := strings.ToUpper(strings.TrimSpace(req.To))

	rateFrom := snapshot.Rate(from)
	rateTo := snapshot.Rate(to)

	amountInBase := req.Amount / rateFrom
	converted := amountInBase * rateTo

	return &dto.ConvertCurrencyResponse{
		From:            from,
		To:              to,
		Amount:          req.Amount,
		ConvertedAmount: converted,
		Rate:            rateTo / rateFrom,
	}, nil
}

// SupportedCurrencies lists the codes present in the active snapshot,
// sorted. When no snapshot can be obtained a fixed fallback list of major
// currencies is returned so clients can still render a picker.
func (s *CurrencyService) SupportedCurrencies(ctx context.Context) (*dto.SupportedCurrenciesResponse, error) {
	snapshot, _, err := s.activeSnapshot(ctx)
	if err != nil {
		codes := append([]string(nil), fallbackCurrencies...)
		return &dto.SupportedCurrenciesResponse{
			Currencies: codes,
			Count:      len(codes),
		}, nil
	}

	codes := make([]string, 0, len(snapshot.Rates))
	for code := range snapshot.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return &dto.SupportedCurrenciesResponse{
		Currencies: codes,
		Count:      len(codes),
	}, nil
}

// Refresh forces a provider fetch and overwrites today's snapshot
func (s *CurrencyService) Refresh(ctx context.Context) (*dto.RatesResponse, error) {
	snapshot, err := s.fetchSnapshot(ctx)
	if err != nil {
		s.logger.Error("rate refresh failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrRateRefreshFailed, err)
	}

	if err := s.rateRepo.ReplaceForDate(snapshot); err != nil {
		return nil, fmt.Errorf("failed to store rate snapshot: %w", err)
	}

	s.logger.Info("rate snapshot refreshed",
		"date", snapshot.Date,
		"currencies", len(snapshot.Rates))

	return s.buildRatesResponse(snapshot, false), nil
}

// activeSnapshot returns today's snapshot, fetching and caching it when
// missing. On fetch failure the latest stored snapshot is returned with
// stale set. With no snapshot at all the error is ErrRatesUnavailable.
func (s *CurrencyService) activeSnapshot(ctx context.Context) (*models.CurrencyRate, bool, error) {
	today := models.SnapshotDay(s.now())

	snapshot, err := s.rateRepo.GetByDate(today)
	if err == nil {
		return snapshot, false, nil
	}
	if !errors.Is(err, repositories.ErrSnapshotNotFound) {
		return nil, false, fmt.Errorf("failed to load rate snapshot: %w", err)
	}

	fresh, fetchErr := s.fetchSnapshot(ctx)
	if fetchErr == nil {
		if err := s.rateRepo.ReplaceForDate(fresh); err != nil {
			return nil, false, fmt.Errorf("failed to store rate snapshot: %w", err)
		}
		return fresh, false, nil
	}

	s.logger.Warn("rate fetch failed, falling back to latest snapshot", "error", fetchErr)

	latest, latestErr := s.rateRepo.GetLatest()
	if latestErr != nil {
		if errors.Is(latestErr, repositories.ErrSnapshotNotFound) {
			return nil, false, ErrRatesUnavailable
		}
		return nil, false, fmt.Errorf("failed to load latest snapshot: %w", latestErr)
	}

	return latest, true, nil
}

func (s *CurrencyService) fetchSnapshot(ctx context.Context) (*models.CurrencyRate, error) {
	start := s.now()

	rates, err := s.fetcher.FetchRates(ctx, s.baseCurrency)
	s.recordFetch(err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	return &models.CurrencyRate{
		Date:         models.SnapshotDay(s.now()),
		BaseCurrency: s.baseCurrency,
		Rates:        rates,
	}, nil
}

func (s *CurrencyService) recordFetch(success bool, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if !success {
		status = "failed"
	}
	s.metrics.IncrementCounter("currency.rate_fetch", map[string]string{"status": status})
	s.metrics.RecordProcessingTime("currency.rate_fetch", duration)
}

func (s *CurrencyService) buildRatesResponse(snapshot *models.CurrencyRate, stale bool) *dto.RatesResponse {
	return &dto.RatesResponse{
		BaseCurrency: snapshot.BaseCurrency,
		Date:         snapshot.Date,
		Rates:        snapshot.Rates,
		Stale:        stale,
	}
}
