package history

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

const DEDUPE_WINDOW = time.Hour
const RETENTION = 30 * 24 * time.Hour
const DEFAULT_TOLERANCE_DAYS = 2.0

// Store keeps an append-only price series per location key. Series never interact.
type Store interface {
	// Record appends the sample unless the newest stored sample is less than an hour
	// older than it, then prunes samples past retention. Reports whether it was stored.
	Record(ctx context.Context, locationKey string, sample models.PriceSample) (bool, error)

	// PriceApproximatelyDaysAgo returns the price of the sample closest to now-days,
	// provided it lies within toleranceDays of that instant.
	PriceApproximatelyDaysAgo(ctx context.Context, locationKey string, days, toleranceDays float64) (decimal.Decimal, bool, error)

	Samples(ctx context.Context, locationKey string) ([]models.PriceSample, error)
	Forget(ctx context.Context, locationKey string) error
	Close() error
}

type Clock func() time.Time

func days(n float64) time.Duration {
	return time.Duration(n * float64(24*time.Hour))
}

// closest picks the first sample nearest to target within tolerance.
func closest(samples []models.PriceSample, target time.Time, tolerance time.Duration) (decimal.Decimal, bool) {
	var best *models.PriceSample
	var bestDiff time.Duration

	for i := range samples {
		diff := samples[i].Timestamp.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if diff > tolerance {
			continue
		}
		if best == nil || diff < bestDiff {
			best = &samples[i]
			bestDiff = diff
		}
	}

	if best == nil {
		return decimal.Zero, false
	}
	return best.Price, true
}
