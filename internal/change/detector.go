package change

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

const DEFAULT_THRESHOLD = 0.03

// Detector compares each cycle's cheapest price with the previous cycle's for the same
// location. The week-old comparison lives in the history store.
type Detector struct {
	mu       sync.Mutex
	previous map[string]decimal.Decimal
}

func NewDetector() *Detector {
	return &Detector{
		previous: make(map[string]decimal.Decimal),
	}
}

// Observe returns false on the first observation for a location, which only sets the baseline.
func (d *Detector) Observe(locationKey string, station models.StationRecord, thresholds models.Thresholds) (models.ChangeEvent, bool) {
	current := station.Price

	d.mu.Lock()
	previous, tracking := d.previous[locationKey]
	d.previous[locationKey] = current
	d.mu.Unlock()

	if !tracking {
		return models.ChangeEvent{}, false
	}

	delta := current.Sub(previous)
	event := models.ChangeEvent{
		Kind:          models.NoSignificantChange,
		LocationKey:   locationKey,
		Delta:         delta,
		PreviousPrice: previous,
		CurrentPrice:  current,
		Station:       station,
	}

	switch {
	case delta.LessThanOrEqual(thresholds.Drop.Neg()):
		event.Kind = models.PriceDrop
	case delta.GreaterThanOrEqual(thresholds.Increase):
		event.Kind = models.PriceIncrease
	}

	return event, true
}

func (d *Detector) Previous(locationKey string) (decimal.Decimal, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	price, ok := d.previous[locationKey]
	return price, ok
}

func (d *Detector) Reset(locationKey string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.previous, locationKey)
}
