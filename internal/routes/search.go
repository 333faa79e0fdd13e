package routes

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/rm-hull/nl-fuel-prices/internal"
	"github.com/rm-hull/nl-fuel-prices/internal/geo"
	"github.com/rm-hull/nl-fuel-prices/internal/geocoding"
	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

const DEFAULT_RADIUS_KM = 10
const MIN_RADIUS_KM = 1
const MAX_RADIUS_KM = 50

func Search(engine *internal.Engine, geocoder geocoding.Geocoder) func(c *gin.Context) {
	return func(c *gin.Context) {
		fuelType := models.FuelType(strings.ToLower(c.DefaultQuery("fuel", string(models.FuelEuro95))))
		if !fuelType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown fuel type '%s'", fuelType)})
			return
		}

		radius, err := parseRadius(c.Query("radius"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		loc := models.LocationConfig{RadiusKm: radius, FuelType: fuelType}

		if postcode := c.Query("postcode"); postcode != "" {
			result, err := geocoder.Geocode(c.Request.Context(), postcode)
			switch {
			case errors.Is(err, geocoding.ErrInvalidPostcode):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			case errors.Is(err, geocoding.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			case err != nil:
				log.Printf("error while geocoding %s: %v", postcode, err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Geocoding is temporarily unavailable"})
				return
			}

			loc.Name = result.Postcode
			loc.Postcode = result.Postcode
			loc.City = result.City
			loc.Province = result.Province
			loc.Latitude = result.Latitude
			loc.Longitude = result.Longitude
		} else {
			loc.Latitude, loc.Longitude, err = parseLatLon(c.Query("lat"), c.Query("lon"))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			loc.Name = fmt.Sprintf("%.5f,%.5f", loc.Latitude, loc.Longitude)
		}

		response, err := engine.Search(c.Request.Context(), loc)
		if err != nil {
			log.Printf("error while searching fuel prices: %v", err)
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

func parseRadius(radiusStr string) (float64, error) {
	if radiusStr == "" {
		return DEFAULT_RADIUS_KM, nil
	}

	radius, err := strconv.ParseFloat(strings.TrimSpace(radiusStr), 64)
	if err != nil || !(radius >= MIN_RADIUS_KM && radius <= MAX_RADIUS_KM) {
		return 0, fmt.Errorf("radius must be between %d and %d km", MIN_RADIUS_KM, MAX_RADIUS_KM)
	}
	return radius, nil
}

func parseLatLon(latStr, lonStr string) (float64, float64, error) {
	if latStr == "" || lonStr == "" {
		return 0, 0, fmt.Errorf("either lat and lon or a postcode are required")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lat value '%s': not a valid float", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lon value '%s': not a valid float", lonStr)
	}
	if !geo.ValidCoordinates(lat, lon) {
		return 0, 0, fmt.Errorf("coordinates %f,%f are out of range", lat, lon)
	}

	return lat, lon, nil
}
