package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

type series struct {
	mu      sync.Mutex
	samples []models.PriceSample
}

type memoryStore struct {
	mu     sync.RWMutex
	series map[string]*series
	now    Clock
}

// NewMemoryStore holds each location's series behind its own lock, so cycles for
// different locations never wait on each other.
func NewMemoryStore(now Clock) Store {
	if now == nil {
		now = time.Now
	}
	return &memoryStore{
		series: make(map[string]*series),
		now:    now,
	}
}

func (store *memoryStore) get(locationKey string, create bool) *series {
	store.mu.RLock()
	s, ok := store.series[locationKey]
	store.mu.RUnlock()
	if ok || !create {
		return s
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if s, ok = store.series[locationKey]; !ok {
		s = &series{}
		store.series[locationKey] = s
	}
	return s
}

func (store *memoryStore) Record(ctx context.Context, locationKey string, sample models.PriceSample) (bool, error) {
	s := store.get(locationKey, true)
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := false
	if n := len(s.samples); n == 0 || sample.Timestamp.Sub(s.samples[n-1].Timestamp) >= DEDUPE_WINDOW {
		s.samples = append(s.samples, sample)
		stored = true
	}

	cutoff := store.now().Add(-RETENTION)
	s.samples = slices.DeleteFunc(s.samples, func(p models.PriceSample) bool {
		return p.Timestamp.Before(cutoff)
	})

	return stored, nil
}

func (store *memoryStore) PriceApproximatelyDaysAgo(ctx context.Context, locationKey string, daysAgo, toleranceDays float64) (decimal.Decimal, bool, error) {
	s := store.get(locationKey, false)
	if s == nil {
		return decimal.Zero, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	price, ok := closest(s.samples, store.now().Add(-days(daysAgo)), days(toleranceDays))
	return price, ok, nil
}

func (store *memoryStore) Samples(ctx context.Context, locationKey string) ([]models.PriceSample, error) {
	s := store.get(locationKey, false)
	if s == nil {
		return []models.PriceSample{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	samples := make([]models.PriceSample, len(s.samples))
	copy(samples, s.samples)
	return samples, nil
}

func (store *memoryStore) Forget(ctx context.Context, locationKey string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.series, locationKey)
	return nil
}

func (store *memoryStore) Close() error {
	return nil
}
