package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

func record(id, price string) models.StationRecord {
	return models.StationRecord{ID: id, Name: "Station " + id, Brand: "Tinq", Price: decimal.RequireFromString(price)}
}

func ids(stations []models.StationRecord) []string {
	out := make([]string, 0, len(stations))
	for _, s := range stations {
		out = append(out, s.ID)
	}
	return out
}

func TestAggregateRanksByPrice(t *testing.T) {
	result := Aggregate([]models.StationRecord{
		record("a", "1.899"),
		record("b", "1.779"),
		record("c", "1.949"),
		record("d", "1.829"),
	})

	require.Equal(t, 4, result.TotalStations)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(result.Stations))
	for i, s := range result.Stations {
		assert.Equal(t, i+1, s.Rank)
		if i > 0 {
			assert.True(t, result.Stations[i-1].Price.LessThan(s.Price))
		}
	}

	require.NotNil(t, result.Cheapest)
	assert.Equal(t, result.Stations[0], *result.Cheapest)
	assert.Equal(t, 1, result.Cheapest.Rank)
}

func TestAggregateTiesKeepFetchOrder(t *testing.T) {
	result := Aggregate([]models.StationRecord{
		record("x", "1.899"),
		record("y", "1.799"),
		record("z", "1.799"),
	})

	assert.Equal(t, []string{"y", "z", "x"}, ids(result.Stations))
	assert.Equal(t, []int{1, 2, 3}, []int{result.Stations[0].Rank, result.Stations[1].Rank, result.Stations[2].Rank})
}

func TestAggregateEmpty(t *testing.T) {
	result := Aggregate(nil)

	assert.Equal(t, 0, result.TotalStations)
	assert.Nil(t, result.Cheapest)
	assert.Empty(t, result.Stations)
}

func TestAggregateDropsDuplicatesAndNonPositivePrices(t *testing.T) {
	result := Aggregate([]models.StationRecord{
		record("a", "1.899"),
		record("a", "1.699"),
		record("b", "0"),
		record("c", "1.799"),
	})

	assert.Equal(t, []string{"c", "a"}, ids(result.Stations))
	assert.Equal(t, "1.899", result.Stations[1].Price.StringFixed(3))
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	input := []models.StationRecord{record("a", "1.899"), record("b", "1.799")}
	_ = Aggregate(input)

	assert.Equal(t, "a", input[0].ID)
	assert.Zero(t, input[0].Rank)
}
