package routes

import (
	"log"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/rm-hull/nl-fuel-prices/internal"
	"github.com/rm-hull/nl-fuel-prices/internal/models"
	"github.com/rm-hull/nl-fuel-prices/internal/stats"
)

func Locations(engine *internal.Engine, locations []models.LocationConfig) func(c *gin.Context) {
	return func(c *gin.Context) {
		summaries := make([]models.LocationSummary, 0, len(locations))
		for _, loc := range locations {
			cycle, _ := engine.Latest(loc.Key())
			summaries = append(summaries, summarize(loc, cycle))
		}

		c.JSON(http.StatusOK, gin.H{
			"locations":    summaries,
			"attribution":  internal.ATTRIBUTION,
			"last_updated": engine.LastUpdated(),
		})
	}
}

func Location(engine *internal.Engine, locations []models.LocationConfig) func(c *gin.Context) {
	byKey := index(locations)

	return func(c *gin.Context) {
		loc, ok := byKey[c.Param("key")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown location"})
			return
		}

		samples, err := engine.History(c.Request.Context(), loc.Key())
		if err != nil {
			log.Printf("error while fetching price history for %s: %v", loc.Key(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		cycle, _ := engine.Latest(loc.Key())
		detail := models.LocationDetail{
			LocationSummary: summarize(loc, cycle),
			Stations:        []models.StationRecord{},
			History:         samples,
			Attribution:     internal.ATTRIBUTION,
		}
		if cycle != nil {
			detail.Stations = cycle.Result.Stations
			detail.Statistics = stats.Derive(cycle.Result.Stations, internal.PRICE_BUCKET_CENTS)
		}

		c.JSON(http.StatusOK, detail)
	}
}

func Refresh(engine *internal.Engine, locations []models.LocationConfig) func(c *gin.Context) {
	byKey := index(locations)

	return func(c *gin.Context) {
		loc, ok := byKey[c.Param("key")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown location"})
			return
		}

		cycle, err := engine.RunCycle(c.Request.Context(), loc)
		switch {
		case errors.Is(err, internal.ErrDataSourceUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   internal.MESSAGE_UNAVAILABLE,
				"outcome": models.OutcomeUnavailable,
			})
		case err != nil:
			log.Printf("error while refreshing %s: %v", loc.Key(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
		default:
			c.JSON(http.StatusOK, cycle)
		}
	}
}

// Forget drops the history and change detection baseline kept for a location.
func Forget(engine *internal.Engine, locations []models.LocationConfig) func(c *gin.Context) {
	byKey := index(locations)

	return func(c *gin.Context) {
		loc, ok := byKey[c.Param("key")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown location"})
			return
		}

		if err := engine.Reset(c.Request.Context(), loc.Key()); err != nil {
			log.Printf("error while resetting %s: %v", loc.Key(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func summarize(loc models.LocationConfig, cycle *models.CycleResult) models.LocationSummary {
	summary := models.LocationSummary{
		Key:      loc.Key(),
		Location: loc,
	}
	if cycle != nil {
		summary.Outcome = cycle.Outcome
		summary.Cheapest = cycle.Result.Cheapest
		summary.Total = cycle.Result.TotalStations
		summary.PriceWeekAgo = cycle.PriceWeekAgo
		completedAt := cycle.CompletedAt
		summary.LastUpdated = &completedAt
	}
	return summary
}

func index(locations []models.LocationConfig) map[string]models.LocationConfig {
	byKey := make(map[string]models.LocationConfig, len(locations))
	for _, loc := range locations {
		byKey[loc.Key()] = loc
	}
	return byKey
}
