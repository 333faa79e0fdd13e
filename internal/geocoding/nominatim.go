package geocoding

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/kofalt/go-memoize"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DEFAULT_BASE_URL = "https://nominatim.openstreetmap.org"
const USER_AGENT = "nl-fuel-prices/1.0 (+https://github.com/rm-hull/nl-fuel-prices)"

var (
	ErrInvalidPostcode = errors.New("invalid Dutch postcode")
	ErrNotFound        = errors.New("postcode not found")
	ErrUnavailable     = errors.New("geocoding service unavailable")
)

type Result struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Postcode     string  `json:"postcode"`
	City         string  `json:"city,omitempty"`
	Municipality string  `json:"municipality,omitempty"`
	Province     string  `json:"province,omitempty"`
	DisplayName  string  `json:"display_name,omitempty"`
}

type Geocoder interface {
	Geocode(ctx context.Context, postcode string) (*Result, error)
}

type Config struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:   DEFAULT_BASE_URL,
		UserAgent: USER_AGENT,
		Timeout:   15 * time.Second,
		CacheTTL:  24 * time.Hour,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		State        string `json:"state"`
	} `json:"address"`
}

type nominatim struct {
	client *resty.Client
	cache  *memoize.Memoizer
}

func NewNominatim(config Config) Geocoder {
	if config.BaseURL == "" {
		config.BaseURL = DEFAULT_BASE_URL
	}
	if config.UserAgent == "" {
		config.UserAgent = USER_AGENT
	}

	var cache *memoize.Memoizer
	if config.CacheTTL > 0 {
		cache = memoize.NewMemoizer(config.CacheTTL, config.CacheTTL)
	}

	return &nominatim{
		client: resty.New().
			SetBaseURL(config.BaseURL).
			SetTimeout(config.Timeout).
			SetHeader("User-Agent", config.UserAgent).
			SetHeader("Accept", "application/json"),
		cache: cache,
	}
}

// Geocode resolves a Dutch postcode to coordinates. Lookups are memoized per normalized postcode.
func (n *nominatim) Geocode(ctx context.Context, postcode string) (*Result, error) {
	if !ValidatePostcode(postcode) {
		return nil, errors.Mark(errors.Newf("%q is not a postcode like 1234 AB", postcode), ErrInvalidPostcode)
	}
	postcode = NormalizePostcode(postcode)

	if n.cache == nil {
		return n.lookup(ctx, postcode)
	}

	result, err, _ := n.cache.Memoize(postcode, func() (interface{}, error) {
		return n.lookup(ctx, postcode)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Result), nil
}

func (n *nominatim) lookup(ctx context.Context, postcode string) (*Result, error) {
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":              fmt.Sprintf("%s, Netherlands", postcode),
			"format":         "json",
			"countrycodes":   "nl",
			"limit":          "1",
			"addressdetails": "1",
		}).
		Get("/search")
	if err != nil {
		return nil, errors.Mark(fmt.Errorf("failed to geocode %s: %w", postcode, err), ErrUnavailable)
	}
	if resp.StatusCode() != http.StatusOK {
		log.Printf("nominatim returned %s for %s", resp.Status(), postcode)
		return nil, errors.Mark(errors.Newf("nominatim returned %s", resp.Status()), ErrUnavailable)
	}

	var results []nominatimResult
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to decode nominatim response"), ErrUnavailable)
	}
	if len(results) == 0 {
		return nil, errors.Mark(errors.Newf("no results for postcode %s", postcode), ErrNotFound)
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "invalid latitude %q", first.Lat), ErrUnavailable)
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "invalid longitude %q", first.Lon), ErrUnavailable)
	}

	city := first.Address.City
	for _, alt := range []string{first.Address.Town, first.Address.Village, first.Address.Municipality} {
		if city == "" {
			city = alt
		}
	}

	log.Printf("geocoded %s to %.5f,%.5f (%s)", postcode, lat, lon, city)
	return &Result{
		Latitude:     lat,
		Longitude:    lon,
		Postcode:     postcode,
		City:         city,
		Municipality: first.Address.Municipality,
		Province:     first.Address.State,
		DisplayName:  first.DisplayName,
	}, nil
}
