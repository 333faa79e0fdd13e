package internal

import (
	"context"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rm-hull/nl-fuel-prices/internal/change"
	"github.com/rm-hull/nl-fuel-prices/internal/history"
	"github.com/rm-hull/nl-fuel-prices/internal/metrics"
	"github.com/rm-hull/nl-fuel-prices/internal/models"
	"github.com/rm-hull/nl-fuel-prices/internal/stats"
)

const WEEK_AGO_DAYS = 7.0
const PRICE_BUCKET_CENTS = 3

const MESSAGE_UNAVAILABLE = "Fuel price data is temporarily unavailable"
const MESSAGE_NO_STATIONS = "No stations found"

var ATTRIBUTION = []string{
	"Fuel prices provided by the DirectLease tank service",
	"Geocoding data © OpenStreetMap contributors, ODbL",
}

type RetailerLookup interface {
	Lookup(brand string) *models.Retailer
}

// Notifier is told about significant price changes for locations that asked for them.
type Notifier interface {
	PriceChanged(ctx context.Context, loc models.LocationConfig, event models.ChangeEvent)
}

type EngineConfig struct {
	FanOut      int
	Concurrency int
}

type Engine struct {
	client    TankServiceClient
	store     history.Store
	detector  *change.Detector
	retailers RetailerLookup
	notifier  Notifier
	config    EngineConfig
	now       func() time.Time

	group  singleflight.Group
	mu     sync.RWMutex
	latest map[string]*models.CycleResult
}

// NewEngine wires the pipeline; retailers and notifier may be nil.
func NewEngine(client TankServiceClient, store history.Store, retailers RetailerLookup, notifier Notifier, config EngineConfig) *Engine {
	if config.FanOut <= 0 {
		config.FanOut = DEFAULT_FAN_OUT
	}
	if config.Concurrency <= 0 {
		config.Concurrency = config.FanOut
	}

	return &Engine{
		client:    client,
		store:     store,
		detector:  change.NewDetector(),
		retailers: retailers,
		notifier:  notifier,
		config:    config,
		now:       time.Now,
		latest:    make(map[string]*models.CycleResult),
	}
}

// RunCycle refreshes one location. Concurrent calls for the same location share a single run.
// The result is returned even when the data source was unavailable, alongside the error.
// The shared run is bounded by REFRESH_TIMEOUT rather than by any one caller's context; a
// caller that gives up gets its context error while the run completes for the others.
func (e *Engine) RunCycle(ctx context.Context, loc models.LocationConfig) (*models.CycleResult, error) {
	key := loc.Key()
	ch := e.group.DoChan(key, func() (interface{}, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), REFRESH_TIMEOUT)
		defer cancel()
		return e.runCycle(runCtx, loc)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			log.Printf("joined in-flight refresh for %s", key)
		}
		result, _ := res.Val.(*models.CycleResult)
		return result, res.Err
	}
}

func (e *Engine) runCycle(ctx context.Context, loc models.LocationConfig) (*models.CycleResult, error) {
	key := loc.Key()
	started := time.Now()

	aggregated, err := e.discover(ctx, loc)
	cycle := &models.CycleResult{
		LocationKey: key,
		Location:    loc,
		Outcome:     models.OutcomeOK,
		Result:      aggregated,
	}

	switch {
	case err != nil:
		cycle.Outcome = models.OutcomeUnavailable
		err = errors.Mark(errors.Wrapf(err, "refresh of %s failed", loc.DisplayName()), ErrDataSourceUnavailable)
	case aggregated.Cheapest == nil:
		cycle.Outcome = models.OutcomeNoStations
	default:
		e.track(ctx, loc, cycle)
	}

	cycle.CompletedAt = e.now()
	metrics.CyclesTotal.WithLabelValues(key, string(cycle.Outcome)).Inc()
	metrics.StationsResolved.WithLabelValues(key).Set(float64(aggregated.TotalStations))

	e.mu.Lock()
	e.latest[key] = cycle
	e.mu.Unlock()

	log.Printf("refreshed %s: outcome=%s, stations=%d, events=%d (took %s)",
		loc.DisplayName(), cycle.Outcome, aggregated.TotalStations, len(cycle.Events), time.Since(started))
	return cycle, err
}

// track runs the stateful part of a cycle: history, week-ago lookup and change detection.
func (e *Engine) track(ctx context.Context, loc models.LocationConfig, cycle *models.CycleResult) {
	key := cycle.LocationKey
	cheapest := *cycle.Result.Cheapest
	metrics.CheapestPrice.WithLabelValues(key, string(loc.FuelType)).Set(cheapest.Price.InexactFloat64())

	sample := models.PriceSample{
		Timestamp: e.now(),
		Price:     cheapest.Price,
		StationID: cheapest.ID,
	}
	if _, err := e.store.Record(ctx, key, sample); err != nil {
		log.Printf("failed to record price history for %s: %v", key, err)
	}

	weekAgo, found, err := e.store.PriceApproximatelyDaysAgo(ctx, key, WEEK_AGO_DAYS, history.DEFAULT_TOLERANCE_DAYS)
	if err != nil {
		log.Printf("failed to look up week-old price for %s: %v", key, err)
	} else if found {
		cycle.PriceWeekAgo = &weekAgo
	}

	event, ok := e.detector.Observe(key, cheapest, loc.Thresholds())
	if !ok {
		return
	}
	metrics.ChangeEvents.WithLabelValues(key, string(event.Kind)).Inc()
	if !event.Significant() {
		return
	}

	cycle.Events = append(cycle.Events, event)
	log.Printf("%s at %s: %s -> %s (%s)", event.Kind, loc.DisplayName(), event.PreviousPrice, event.CurrentPrice, event.Delta)
	if loc.NotifyOnChange && e.notifier != nil {
		e.notifier.PriceChanged(ctx, loc, event)
	}
}

// discover lists candidates and resolves them through a bounded pool. Slots are indexed
// by candidate position so fetch order survives into the stable price sort.
func (e *Engine) discover(ctx context.Context, loc models.LocationConfig) (models.AggregationResult, error) {
	candidates, err := e.client.ListCandidates(ctx, loc.Latitude, loc.Longitude, loc.RadiusKm, e.config.FanOut)
	if err != nil {
		return stats.Aggregate(nil), err
	}

	slots := make([]*models.StationRecord, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Concurrency)

	for i, candidate := range candidates {
		g.Go(func() error {
			record, err := e.client.Resolve(gctx, candidate, loc.FuelType)
			if err != nil {
				kind := Classify(err)
				metrics.DetailFailures.WithLabelValues(string(kind)).Inc()
				log.Printf("skipping station %s (%s): %v", candidate.ID, kind, err)
				return nil
			}
			if e.retailers != nil {
				record.Retailer = e.retailers.Lookup(record.Brand)
			}
			slots[i] = record
			return nil
		})
	}
	_ = g.Wait()

	resolved := make([]models.StationRecord, 0, len(slots))
	for _, record := range slots {
		if record != nil {
			resolved = append(resolved, *record)
		}
	}

	return stats.Aggregate(resolved), nil
}

// Search answers an ad-hoc query. It leaves history and change detection untouched.
func (e *Engine) Search(ctx context.Context, loc models.LocationConfig) (*models.SearchResponse, error) {
	aggregated, err := e.discover(ctx, loc)

	response := &models.SearchResponse{
		Status:      models.OutcomeOK,
		Location:    loc,
		Results:     aggregated.Stations,
		Cheapest:    aggregated.Cheapest,
		Total:       aggregated.TotalStations,
		Attribution: ATTRIBUTION,
		LastUpdated: e.client.LastUpdated(),
	}

	switch {
	case err != nil:
		response.Status = models.OutcomeUnavailable
		response.Message = MESSAGE_UNAVAILABLE
		return response, errors.Mark(errors.Wrap(err, "search failed"), ErrDataSourceUnavailable)
	case aggregated.Cheapest == nil:
		response.Status = models.OutcomeNoStations
		response.Message = MESSAGE_NO_STATIONS
	default:
		response.Statistics = stats.Derive(aggregated.Stations, PRICE_BUCKET_CENTS)
	}

	return response, nil
}

func (e *Engine) Latest(locationKey string) (*models.CycleResult, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cycle, ok := e.latest[locationKey]
	return cycle, ok
}

// LatestAll returns the most recent result of every location that has run, ordered by key.
func (e *Engine) LatestAll() []*models.CycleResult {
	e.mu.RLock()
	results := make([]*models.CycleResult, 0, len(e.latest))
	for _, cycle := range e.latest {
		results = append(results, cycle)
	}
	e.mu.RUnlock()

	slices.SortFunc(results, func(a, b *models.CycleResult) int {
		return strings.Compare(a.LocationKey, b.LocationKey)
	})
	return results
}

func (e *Engine) History(ctx context.Context, locationKey string) ([]models.PriceSample, error) {
	return e.store.Samples(ctx, locationKey)
}

// Reset drops all state kept for a location, as when it has been reconfigured.
func (e *Engine) Reset(ctx context.Context, locationKey string) error {
	e.detector.Reset(locationKey)

	e.mu.Lock()
	delete(e.latest, locationKey)
	e.mu.Unlock()

	return e.store.Forget(ctx, locationKey)
}

func (e *Engine) LastUpdated() *time.Time {
	return e.client.LastUpdated()
}
