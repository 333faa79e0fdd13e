package stats

import (
	"slices"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

// Aggregate ranks the resolved stations by price. Ties keep their fetch order, duplicate
// station ids keep their first occurrence and records without a positive price are dropped.
func Aggregate(resolved []models.StationRecord) models.AggregationResult {
	seen := make(map[string]struct{}, len(resolved))
	stations := make([]models.StationRecord, 0, len(resolved))

	for _, record := range resolved {
		if !record.Price.IsPositive() {
			continue
		}
		if _, dup := seen[record.ID]; dup {
			continue
		}
		seen[record.ID] = struct{}{}
		stations = append(stations, record)
	}

	slices.SortStableFunc(stations, func(a, b models.StationRecord) int {
		return a.Price.Cmp(b.Price)
	})

	for i := range stations {
		stations[i].Rank = i + 1
	}

	result := models.AggregationResult{
		Stations:      stations,
		TotalStations: len(stations),
	}
	if len(stations) > 0 {
		result.Cheapest = &stations[0]
	}
	return result
}
