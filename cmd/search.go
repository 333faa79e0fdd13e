package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/rm-hull/nl-fuel-prices/internal"
	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

type SearchOptions struct {
	Postcode  string
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	FuelType  string
}

// Search runs a single ad-hoc search and prints the response as JSON on stdout.
func Search(configFile string, opts SearchOptions) error {

	svc, err := bootstrap(configFile)
	if err != nil {
		return err
	}
	defer svc.Close()

	loc := models.LocationConfig{
		Latitude:  opts.Latitude,
		Longitude: opts.Longitude,
		RadiusKm:  opts.RadiusKm,
		FuelType:  models.FuelType(strings.ToLower(opts.FuelType)),
	}
	if !loc.FuelType.Valid() {
		return fmt.Errorf("unknown fuel type '%s'", opts.FuelType)
	}

	ctx, cancel := context.WithTimeout(context.Background(), internal.REFRESH_TIMEOUT)
	defer cancel()

	if opts.Postcode != "" {
		result, err := svc.geocoder.Geocode(ctx, opts.Postcode)
		if err != nil {
			return fmt.Errorf("failed to geocode %s: %w", opts.Postcode, err)
		}
		loc.Name = result.Postcode
		loc.Postcode = result.Postcode
		loc.City = result.City
		loc.Province = result.Province
		loc.Latitude = result.Latitude
		loc.Longitude = result.Longitude
	}

	response, err := svc.engine.Search(ctx, loc)
	if err != nil {
		log.Printf("search failed: %v", err)
	}

	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if encErr := encoder.Encode(response); encErr != nil {
		return fmt.Errorf("failed to encode response: %w", encErr)
	}
	return err
}
