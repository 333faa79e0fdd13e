package stats

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Derive summarises a ranked station list; prices are bucketed in whole cents.
func Derive(stations []models.StationRecord, bucketCents int) *models.SearchStatistics {
	if len(stations) == 0 {
		return nil
	}
	if bucketCents <= 0 {
		bucketCents = 3
	}

	stats := &models.SearchStatistics{
		CheapestStations:  make([]string, 0),
		PriceDistribution: make(map[string]int),
		BrandDistribution: make(map[string]int),
	}

	lowestPrice := stations[0].Price
	highestPrice := stations[0].Price
	sum := decimal.Zero

	for _, s := range stations {
		if s.Price.LessThan(lowestPrice) {
			lowestPrice = s.Price
		}
		if s.Price.GreaterThan(highestPrice) {
			highestPrice = s.Price
		}
		sum = sum.Add(s.Price)
	}

	for _, s := range stations {
		if s.Price.Equal(lowestPrice) {
			stats.CheapestStations = append(stats.CheapestStations, s.ID)
		}
	}

	avgPrice := sum.Div(decimal.NewFromInt(int64(len(stations))))
	stats.LowestPrice = lowestPrice
	stats.HighestPrice = highestPrice
	stats.AveragePrice = avgPrice.Round(3)
	stats.PriceRange = highestPrice.Sub(lowestPrice)

	// Standard deviation
	if len(stations) > 1 {
		avg := avgPrice.InexactFloat64()
		variance := 0.0
		for _, s := range stations {
			variance += math.Pow(s.Price.InexactFloat64()-avg, 2)
		}
		variance /= float64(len(stations))
		stats.StandardDeviation = math.Sqrt(variance)
	}

	for _, s := range stations {
		cents := int(s.Price.Mul(hundred).IntPart())
		bucketStart := (cents / bucketCents) * bucketCents
		bucketEnd := bucketStart + bucketCents - 1
		bucketKey := fmt.Sprintf("%d-%d", bucketStart, bucketEnd)
		stats.PriceDistribution[bucketKey]++
	}

	// Brand distribution - count results by retailer, falling back to the reported brand
	for _, s := range stations {
		if s.Retailer != nil {
			stats.BrandDistribution[s.Retailer.Name]++
		} else if s.Brand != "" {
			stats.BrandDistribution[s.Brand]++
		}
	}

	return stats
}
