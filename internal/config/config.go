package config

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rm-hull/nl-fuel-prices/internal"
	"github.com/rm-hull/nl-fuel-prices/internal/change"
	"github.com/rm-hull/nl-fuel-prices/internal/geo"
	"github.com/rm-hull/nl-fuel-prices/internal/geocoding"
	"github.com/rm-hull/nl-fuel-prices/internal/history"
	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

const DEFAULT_RADIUS_KM = 10
const MAX_RADIUS_KM = 50

var weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

type UpstreamConfig struct {
	BaseURL           string              `yaml:"base_url"`
	Timeout           time.Duration       `yaml:"timeout"`
	DirectoryCacheTTL time.Duration       `yaml:"directory_cache_ttl"`
	FanOut            int                 `yaml:"fan_out"`
	Concurrency       int                 `yaml:"concurrency"`
	PriceDivisor      float64             `yaml:"price_divisor"`
	FuelKeys          map[string][]string `yaml:"fuel_keys"`
}

type HistoryConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type Config struct {
	Upstream  UpstreamConfig          `yaml:"upstream"`
	Geocoder  geocoding.Config        `yaml:"geocoder"`
	History   HistoryConfig           `yaml:"history"`
	Schedule  models.ScheduleConfig   `yaml:"schedule"`
	Locations []models.LocationConfig `yaml:"locations"`
}

func Default() *Config {
	client := internal.DefaultClientConfig()
	fuelKeys := make(map[string][]string, len(client.FuelKeys))
	for fuelType, keys := range client.FuelKeys {
		fuelKeys[string(fuelType)] = slices.Clone(keys)
	}

	return &Config{
		Upstream: UpstreamConfig{
			BaseURL:           client.BaseURL,
			Timeout:           client.Timeout,
			DirectoryCacheTTL: client.DirectoryCacheTTL,
			FanOut:            internal.DEFAULT_FAN_OUT,
			Concurrency:       internal.DEFAULT_FAN_OUT,
			PriceDivisor:      client.PriceDivisor,
			FuelKeys:          fuelKeys,
		},
		Geocoder: geocoding.DefaultConfig(),
		History: HistoryConfig{
			Backend: history.BACKEND_MEMORY,
			Path:    history.IN_MEMORY,
		},
		Schedule: models.ScheduleConfig{
			Interval:        60 * time.Minute,
			Times:           []string{"06:00", "12:00", "18:00"},
			DailyReportTime: "08:00",
			DailyReportDays: slices.Clone(weekdays),
			Timezone:        "Europe/Amsterdam",
		},
	}
}

// Load reads a YAML config file over the defaults, fills in per-location defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

func (c *Config) ApplyDefaults() {
	for i := range c.Locations {
		loc := &c.Locations[i]
		if loc.RadiusKm == 0 {
			loc.RadiusKm = DEFAULT_RADIUS_KM
		}
		if loc.FuelType == "" {
			loc.FuelType = models.FuelEuro95
		}
		loc.FuelType = models.FuelType(strings.ToLower(string(loc.FuelType)))
		if loc.DropThreshold == 0 {
			loc.DropThreshold = change.DEFAULT_THRESHOLD
		}
		if loc.IncreaseThreshold == 0 {
			loc.IncreaseThreshold = change.DEFAULT_THRESHOLD
		}
		if loc.Postcode != "" {
			loc.Postcode = geocoding.NormalizePostcode(loc.Postcode)
		}
	}
}

func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base URL cannot be empty")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be greater than 0")
	}
	if c.Upstream.FanOut <= 0 {
		return fmt.Errorf("fan out must be greater than 0")
	}
	if c.Upstream.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be greater than 0")
	}
	if c.Upstream.PriceDivisor <= 0 {
		return fmt.Errorf("price divisor must be greater than 0")
	}
	for fuelType := range c.Upstream.FuelKeys {
		if !models.FuelType(fuelType).Valid() {
			return fmt.Errorf("fuel keys configured for unknown fuel type '%s'", fuelType)
		}
	}

	if c.History.Backend != history.BACKEND_MEMORY && c.History.Backend != history.BACKEND_SQLITE {
		return fmt.Errorf("unknown history backend '%s'", c.History.Backend)
	}
	if c.History.Backend == history.BACKEND_SQLITE && c.History.Path == "" {
		return fmt.Errorf("history path cannot be empty for sqlite")
	}

	if err := c.validateSchedule(); err != nil {
		return err
	}

	for i, loc := range c.Locations {
		if err := validateLocation(loc); err != nil {
			return fmt.Errorf("location %d (%s): %w", i, loc.DisplayName(), err)
		}
	}

	return nil
}

func (c *Config) validateSchedule() error {
	if c.Schedule.Interval < time.Minute {
		return fmt.Errorf("refresh interval must be at least a minute, got %s", c.Schedule.Interval)
	}
	for _, t := range c.Schedule.Times {
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("invalid scheduled refresh time '%s' (expected HH:MM)", t)
		}
	}
	if _, err := time.Parse("15:04", c.Schedule.DailyReportTime); err != nil {
		return fmt.Errorf("invalid daily report time '%s' (expected HH:MM)", c.Schedule.DailyReportTime)
	}
	if len(c.Schedule.DailyReportDays) == 0 {
		return fmt.Errorf("daily report needs at least one day")
	}
	for _, day := range c.Schedule.DailyReportDays {
		if !slices.Contains(weekdays, strings.ToLower(day)) {
			return fmt.Errorf("invalid daily report day '%s'", day)
		}
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", c.Schedule.Timezone, err)
	}
	return nil
}

func validateLocation(loc models.LocationConfig) error {
	hasCoordinates := loc.Latitude != 0 || loc.Longitude != 0
	if !hasCoordinates && loc.Postcode == "" {
		return fmt.Errorf("either coordinates or a postcode are required")
	}
	if hasCoordinates && !geo.ValidCoordinates(loc.Latitude, loc.Longitude) {
		return fmt.Errorf("invalid coordinates %f,%f", loc.Latitude, loc.Longitude)
	}
	if loc.Postcode != "" && !geocoding.ValidatePostcode(loc.Postcode) {
		return fmt.Errorf("invalid postcode '%s'", loc.Postcode)
	}
	if !(loc.RadiusKm >= 1 && loc.RadiusKm <= MAX_RADIUS_KM) {
		return fmt.Errorf("radius must be between 1 and %d km, got %g", MAX_RADIUS_KM, loc.RadiusKm)
	}
	if !loc.FuelType.Valid() {
		return fmt.Errorf("unknown fuel type '%s'", loc.FuelType)
	}
	if !(loc.DropThreshold >= 0 && loc.IncreaseThreshold >= 0) {
		return fmt.Errorf("thresholds cannot be negative")
	}
	return nil
}

// ResolveLocations geocodes locations configured by postcode only, then rejects duplicates.
func (c *Config) ResolveLocations(ctx context.Context, geocoder geocoding.Geocoder) error {
	seen := make(map[string]string, len(c.Locations))
	for i := range c.Locations {
		loc := &c.Locations[i]
		if loc.Latitude == 0 && loc.Longitude == 0 {
			result, err := geocoder.Geocode(ctx, loc.Postcode)
			if err != nil {
				return fmt.Errorf("failed to geocode location %d (%s): %w", i, loc.Postcode, err)
			}
			loc.Latitude = result.Latitude
			loc.Longitude = result.Longitude
			if loc.City == "" {
				loc.City = result.City
			}
			if loc.Province == "" {
				loc.Province = result.Province
			}
		}

		if name, ok := seen[loc.Key()]; ok {
			return fmt.Errorf("locations '%s' and '%s' describe the same search", name, loc.DisplayName())
		}
		seen[loc.Key()] = loc.DisplayName()
	}
	return nil
}

func (c *Config) ClientConfig() internal.ClientConfig {
	fuelKeys := make(internal.FuelKeyTable, len(c.Upstream.FuelKeys))
	for fuelType, keys := range c.Upstream.FuelKeys {
		normalised := make([]string, 0, len(keys))
		for _, key := range keys {
			normalised = append(normalised, strings.ToLower(strings.TrimSpace(key)))
		}
		fuelKeys[models.FuelType(fuelType)] = normalised
	}

	return internal.ClientConfig{
		BaseURL:           c.Upstream.BaseURL,
		UserAgent:         internal.USER_AGENT,
		Timeout:           c.Upstream.Timeout,
		DirectoryCacheTTL: c.Upstream.DirectoryCacheTTL,
		FuelKeys:          fuelKeys,
		PriceDivisor:      c.Upstream.PriceDivisor,
	}
}

func (c *Config) EngineConfig() internal.EngineConfig {
	return internal.EngineConfig{
		FanOut:      c.Upstream.FanOut,
		Concurrency: c.Upstream.Concurrency,
	}
}

func (c *Config) Location(key string) (models.LocationConfig, bool) {
	for _, loc := range c.Locations {
		if loc.Key() == key {
			return loc, true
		}
	}
	return models.LocationConfig{}, false
}
