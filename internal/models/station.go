package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type FuelType string

const (
	FuelEuro95 FuelType = "euro95"
	FuelEuro98 FuelType = "euro98"
	FuelDiesel FuelType = "diesel"
	FuelLPG    FuelType = "lpg"
	FuelAdBlue FuelType = "adblue"
)

var FuelTypeNames = map[FuelType]string{
	FuelEuro95: "Euro 95 (E10)",
	FuelEuro98: "Euro 98",
	FuelDiesel: "Diesel",
	FuelLPG:    "LPG",
	FuelAdBlue: "AdBlue",
}

func (f FuelType) Valid() bool {
	_, ok := FuelTypeNames[f]
	return ok
}

func (f FuelType) DisplayName() string {
	if name, ok := FuelTypeNames[f]; ok {
		return name
	}
	return string(f)
}

// StationCandidate only lives for the duration of one cycle.
type StationCandidate struct {
	ID         string  `json:"id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
	Brand      string  `json:"brand,omitempty"`
	City       string  `json:"city,omitempty"`
}

type StationRecord struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Address      string          `json:"address"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	FuelType     FuelType        `json:"fuel_type"`
	Price        decimal.Decimal `json:"price"`
	OpeningHours string          `json:"opening_hours"`
	Amenities    []string        `json:"amenities,omitempty"`
	IsUnmanned   bool            `json:"is_unmanned"`
	HasShop      bool            `json:"has_shop"`
	IsOpen24h    bool            `json:"is_open_24h"`
	DistanceKm   float64         `json:"distance_km"`
	Rank         int             `json:"rank"`
	LastUpdated  time.Time       `json:"last_updated"`
	Retailer     *Retailer       `json:"retailer,omitempty"`
}

type AggregationResult struct {
	Stations      []StationRecord `json:"stations"`
	Cheapest      *StationRecord  `json:"cheapest,omitempty"`
	TotalStations int             `json:"total_stations"`
}

type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeNoStations  Outcome = "no_stations"
	OutcomeUnavailable Outcome = "unavailable"
)

// CycleResult is everything one pipeline run for a location produced.
type CycleResult struct {
	LocationKey  string            `json:"location_key"`
	Location     LocationConfig    `json:"location"`
	Outcome      Outcome           `json:"outcome"`
	Result       AggregationResult `json:"result"`
	Events       []ChangeEvent     `json:"events,omitempty"`
	PriceWeekAgo *decimal.Decimal  `json:"price_week_ago,omitempty"`
	CompletedAt  time.Time         `json:"completed_at"`
}

// PriceChangeWeek is nil unless both a cheapest station and a week-old price exist.
func (c *CycleResult) PriceChangeWeek() *decimal.Decimal {
	if c.PriceWeekAgo == nil || c.Result.Cheapest == nil {
		return nil
	}
	delta := c.Result.Cheapest.Price.Sub(*c.PriceWeekAgo)
	return &delta
}
