package internal

import (
	"context"
	"fmt"
	"log"
	"net/http"
	neturl "net/url"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"github.com/kofalt/go-memoize"

	"github.com/rm-hull/nl-fuel-prices/internal/metrics"
	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

const DEFAULT_BASE_URL = "https://tankservice.app-it-up.com/Tankservice/v2"

type TankServiceClient interface {
	ListCandidates(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]models.StationCandidate, error)
	Resolve(ctx context.Context, candidate models.StationCandidate, fuelType models.FuelType) (*models.StationRecord, error)
	LastUpdated() *time.Time
}

type ClientConfig struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	DirectoryCacheTTL time.Duration
	FuelKeys          FuelKeyTable
	PriceDivisor      float64
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:           DEFAULT_BASE_URL,
		UserAgent:         USER_AGENT,
		Timeout:           10 * time.Second,
		DirectoryCacheTTL: 5 * time.Minute,
		FuelKeys:          DefaultFuelKeys(),
		PriceDivisor:      DEFAULT_PRICE_DIVISOR,
	}
}

type tankServiceClient struct {
	config ClientConfig
	client *resty.Client
	signer Signer
	cache  *memoize.Memoizer
	now    func() time.Time

	mu          sync.RWMutex
	lastFetched time.Time
}

func NewTankServiceClient(config ClientConfig, signer Signer) TankServiceClient {
	if config.BaseURL == "" {
		config.BaseURL = DEFAULT_BASE_URL
	}
	if config.UserAgent == "" {
		config.UserAgent = USER_AGENT
	}
	if config.FuelKeys == nil {
		config.FuelKeys = DefaultFuelKeys()
	}
	if config.PriceDivisor <= 0 {
		config.PriceDivisor = DEFAULT_PRICE_DIVISOR
	}

	client := resty.New().
		SetTimeout(config.Timeout).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json")

	var cache *memoize.Memoizer
	if config.DirectoryCacheTTL > 0 {
		cache = memoize.NewMemoizer(config.DirectoryCacheTTL, 2*config.DirectoryCacheTTL)
	}

	return &tankServiceClient{
		config: config,
		client: client,
		signer: signer,
		cache:  cache,
		now:    time.Now,
	}
}

func (c *tankServiceClient) ListCandidates(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]models.StationCandidate, error) {
	places, err := c.places(ctx)
	if err != nil {
		log.Printf("tank service directory unavailable (%s): %v", Classify(err), err)
		return []models.StationCandidate{}, err
	}

	candidates := SelectCandidates(places, lat, lon, radiusKm, limit)
	log.Printf("selected %d candidate stations within %gkm of %.4f,%.4f from %d listed", len(candidates), radiusKm, lat, lon, len(places))
	return candidates, nil
}

func (c *tankServiceClient) places(ctx context.Context) ([]models.Place, error) {
	if c.cache == nil {
		return c.fetchPlaces(ctx)
	}

	// shared by every caller waiting on the key
	result, err, cached := c.cache.Memoize("places", func() (interface{}, error) {
		return c.fetchPlaces(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	if cached {
		log.Printf("using cached tank service directory")
	}
	return result.([]models.Place), nil
}

func (c *tankServiceClient) fetchPlaces(ctx context.Context) ([]models.Place, error) {
	url := fmt.Sprintf("%s/places?fmt=web&country=NL&lang=en", c.config.BaseURL)
	body, err := c.get(ctx, url, "places")
	if err != nil {
		return nil, err
	}

	places, err := models.DecodePlaces(body)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to decode directory listing"), ErrSchema)
	}

	c.mu.Lock()
	c.lastFetched = c.now()
	c.mu.Unlock()

	return places, nil
}

func (c *tankServiceClient) Resolve(ctx context.Context, candidate models.StationCandidate, fuelType models.FuelType) (*models.StationRecord, error) {
	url := fmt.Sprintf("%s/places/%s?_v48&lang=en", c.config.BaseURL, neturl.PathEscape(candidate.ID))
	body, err := c.get(ctx, url, "detail")
	if err != nil {
		return nil, err
	}

	detail, err := models.DecodePlaceDetail(body)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to decode station %s", candidate.ID), ErrSchema)
	}

	return BuildStationRecord(candidate, detail, fuelType, c.config.FuelKeys, c.config.PriceDivisor, c.now())
}

func (c *tankServiceClient) LastUpdated() *time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.lastFetched.IsZero() {
		return nil
	}
	lastFetched := c.lastFetched
	return &lastFetched
}

// get signs every request individually; signatures are single use.
func (c *tankServiceClient) get(ctx context.Context, url, endpoint string) ([]byte, error) {
	log.Printf("GET %s", url)
	started := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Checksum", c.signer.Sign(url)).
		Get(url)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(started).Seconds())
		return nil, errors.Mark(fmt.Errorf("failed to fetch from %s: %w", url, err), ErrTransport)
	}
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode())).Observe(time.Since(started).Seconds())

	if resp.StatusCode() == http.StatusForbidden {
		log.Printf("tank service blocked request to %s, the checksum was rejected or the client IP is blocked", url)
		return nil, errors.Mark(&HTTPStatusError{URL: url, Status: resp.Status(), StatusCode: resp.StatusCode()}, ErrRejected)
	}
	if resp.StatusCode() > 299 {
		return nil, errors.Mark(&HTTPStatusError{URL: url, Status: resp.Status(), StatusCode: resp.StatusCode()}, ErrUpstreamStatus)
	}

	return resp.Body(), nil
}
