package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SearchStatistics struct {
	CheapestStations  []string        `json:"cheapest_stations"`
	LowestPrice       decimal.Decimal `json:"lowest_price"`
	AveragePrice      decimal.Decimal `json:"average_price"`
	HighestPrice      decimal.Decimal `json:"highest_price"`
	PriceRange        decimal.Decimal `json:"price_range"`
	StandardDeviation float64         `json:"standard_deviation"`
	PriceDistribution map[string]int  `json:"price_distribution"`
	BrandDistribution map[string]int  `json:"brand_distribution"`
}

type SearchResponse struct {
	Status      Outcome           `json:"status"`
	Message     string            `json:"message,omitempty"`
	Location    LocationConfig    `json:"location"`
	Results     []StationRecord   `json:"results"`
	Cheapest    *StationRecord    `json:"cheapest,omitempty"`
	Total       int               `json:"total_stations"`
	Statistics  *SearchStatistics `json:"statistics,omitempty"`
	Attribution []string          `json:"attribution"`
	LastUpdated *time.Time        `json:"last_updated,omitempty"`
}

type LocationSummary struct {
	Key          string           `json:"key"`
	Location     LocationConfig   `json:"location"`
	Outcome      Outcome          `json:"outcome,omitempty"`
	Cheapest     *StationRecord   `json:"cheapest,omitempty"`
	Total        int              `json:"total_stations"`
	PriceWeekAgo *decimal.Decimal `json:"price_week_ago,omitempty"`
	LastUpdated  *time.Time       `json:"last_updated,omitempty"`
}

type LocationDetail struct {
	LocationSummary
	Stations    []StationRecord   `json:"stations"`
	Statistics  *SearchStatistics `json:"statistics,omitempty"`
	History     []PriceSample     `json:"history"`
	Attribution []string          `json:"attribution"`
}
