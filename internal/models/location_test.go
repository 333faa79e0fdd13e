package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationKey(t *testing.T) {
	loc := LocationConfig{Latitude: 52.0907, Longitude: 5.1214, RadiusKm: 10, FuelType: FuelEuro95}
	assert.Equal(t, "euro95_52.09070_5.12140_10", loc.Key())

	other := loc
	other.Name = "renamed"
	other.DropThreshold = 0.05
	assert.Equal(t, loc.Key(), other.Key())

	other.RadiusKm = 7.5
	assert.Equal(t, "euro95_52.09070_5.12140_7.5", other.Key())

	other = loc
	other.FuelType = FuelDiesel
	assert.NotEqual(t, loc.Key(), other.Key())
}

func TestLocationDisplayName(t *testing.T) {
	assert.Equal(t, "Thuis", LocationConfig{Name: "Thuis", City: "Utrecht"}.DisplayName())
	assert.Equal(t, "Utrecht", LocationConfig{City: "Utrecht"}.DisplayName())
	assert.Equal(t, "Unknown", LocationConfig{}.DisplayName())
}

func TestThresholds(t *testing.T) {
	thresholds := LocationConfig{DropThreshold: 0.03, IncreaseThreshold: 0.05}.Thresholds()
	assert.Equal(t, "0.03", thresholds.Drop.String())
	assert.Equal(t, "0.05", thresholds.Increase.String())
}

func TestFuelType(t *testing.T) {
	assert.True(t, FuelAdBlue.Valid())
	assert.False(t, FuelType("kerosene").Valid())
	assert.Equal(t, "Euro 95 (E10)", FuelEuro95.DisplayName())
	assert.Equal(t, "kerosene", FuelType("kerosene").DisplayName())
}
