package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

func TestDerive(t *testing.T) {
	shell := &models.Retailer{Name: "Shell"}
	stations := Aggregate([]models.StationRecord{
		record("a", "1.899"),
		record("b", "1.799"),
		record("c", "1.999"),
		record("d", "1.799"),
	}).Stations
	stations[3].Retailer = shell

	stats := Derive(stations, 3)
	require.NotNil(t, stats)

	assert.Equal(t, "1.799", stats.LowestPrice.StringFixed(3))
	assert.Equal(t, "1.999", stats.HighestPrice.StringFixed(3))
	assert.Equal(t, "1.874", stats.AveragePrice.StringFixed(3))
	assert.Equal(t, "0.200", stats.PriceRange.StringFixed(3))
	assert.Equal(t, []string{"b", "d"}, stats.CheapestStations)
	assert.InDelta(t, 0.0829, stats.StandardDeviation, 0.0001)

	assert.Equal(t, map[string]int{"177-179": 2, "189-191": 1, "198-200": 1}, stats.PriceDistribution)
	assert.Equal(t, map[string]int{"Tinq": 3, "Shell": 1}, stats.BrandDistribution)
}

func TestDeriveEmpty(t *testing.T) {
	assert.Nil(t, Derive(nil, 3))
}
