package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceSample struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	StationID string          `json:"station_id"`
}

type ChangeKind string

const (
	PriceDrop           ChangeKind = "price_drop"
	PriceIncrease       ChangeKind = "price_increase"
	NoSignificantChange ChangeKind = "no_significant_change"
)

type ChangeEvent struct {
	Kind          ChangeKind      `json:"kind"`
	LocationKey   string          `json:"location_key"`
	Delta         decimal.Decimal `json:"delta"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	Station       StationRecord   `json:"station"`
}

// Significant reports whether the event should be surfaced downstream.
func (e ChangeEvent) Significant() bool {
	return e.Kind == PriceDrop || e.Kind == PriceIncrease
}
