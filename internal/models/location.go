package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type LocationConfig struct {
	Name              string   `yaml:"name" json:"name"`
	Postcode          string   `yaml:"postcode,omitempty" json:"postcode,omitempty"`
	City              string   `yaml:"city,omitempty" json:"city,omitempty"`
	Province          string   `yaml:"province,omitempty" json:"province,omitempty"`
	Latitude          float64  `yaml:"latitude" json:"latitude"`
	Longitude         float64  `yaml:"longitude" json:"longitude"`
	RadiusKm          float64  `yaml:"radius_km" json:"radius_km"`
	FuelType          FuelType `yaml:"fuel_type" json:"fuel_type"`
	DropThreshold     float64  `yaml:"drop_threshold" json:"drop_threshold"`
	IncreaseThreshold float64  `yaml:"increase_threshold" json:"increase_threshold"`
	NotifyOnChange    bool     `yaml:"notify_on_change" json:"notify_on_change"`
	DailyReport       bool     `yaml:"daily_report" json:"daily_report"`
}

// Key identifies a configured search; history and change detection state never cross keys.
// It is safe to use as a URL path segment.
func (loc LocationConfig) Key() string {
	return fmt.Sprintf("%s_%.5f_%.5f_%g", loc.FuelType, loc.Latitude, loc.Longitude, loc.RadiusKm)
}

func (loc LocationConfig) DisplayName() string {
	if loc.Name != "" {
		return loc.Name
	}
	if loc.City != "" {
		return loc.City
	}
	return "Unknown"
}

type Thresholds struct {
	Drop     decimal.Decimal
	Increase decimal.Decimal
}

func (loc LocationConfig) Thresholds() Thresholds {
	return Thresholds{
		Drop:     decimal.NewFromFloat(loc.DropThreshold),
		Increase: decimal.NewFromFloat(loc.IncreaseThreshold),
	}
}
