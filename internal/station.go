package internal

import (
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/rm-hull/nl-fuel-prices/internal/geo"
	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

const DEFAULT_FAN_OUT = 5
const DEFAULT_PRICE_DIVISOR = 1000

// FuelKeyTable maps a fuel grade onto the (lower-cased) keys the tank service uses for it.
// The keys were established empirically, so they are configurable rather than fixed.
type FuelKeyTable map[models.FuelType][]string

func DefaultFuelKeys() FuelKeyTable {
	return FuelKeyTable{
		models.FuelEuro95: {"e10"},
		models.FuelEuro98: {"e5", "super98"},
		models.FuelDiesel: {"diesel"},
		models.FuelLPG:    {"lpg"},
		models.FuelAdBlue: {"adblue"},
	}
}

func (t FuelKeyTable) Matches(fuelType models.FuelType, key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	return slices.Contains(t[fuelType], key)
}

// SelectCandidates keeps the places within radiusKm of the origin, nearest first, truncated to limit.
func SelectCandidates(places []models.Place, lat, lon, radiusKm float64, limit int) []models.StationCandidate {
	candidates := make([]models.StationCandidate, 0)
	for _, place := range places {
		if place.ID == "" || place.Latitude == nil || place.Longitude == nil {
			continue
		}

		distance := geo.DistanceKm(lat, lon, *place.Latitude, *place.Longitude)
		if !(distance <= radiusKm) {
			continue
		}

		candidates = append(candidates, models.StationCandidate{
			ID:         place.ID.String(),
			Latitude:   *place.Latitude,
			Longitude:  *place.Longitude,
			DistanceKm: distance,
			Brand:      place.Brand,
			City:       place.City,
		})
	}

	slices.SortStableFunc(candidates, func(a, b models.StationCandidate) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		default:
			return 0
		}
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// BuildStationRecord normalises a station detail payload into a StationRecord for one fuel grade.
func BuildStationRecord(
	candidate models.StationCandidate,
	detail *models.PlaceDetail,
	fuelType models.FuelType,
	fuelKeys FuelKeyTable,
	priceDivisor float64,
	now time.Time,
) (*models.StationRecord, error) {
	if detail == nil {
		return nil, errors.Mark(errors.Newf("station %s has no detail", candidate.ID), ErrSchema)
	}
	if priceDivisor <= 0 {
		priceDivisor = DEFAULT_PRICE_DIVISOR
	}

	var price decimal.Decimal
	for _, fuel := range detail.Fuels {
		if !fuelKeys.Matches(fuelType, fuel.Key) || fuel.Price <= 0 {
			continue
		}
		price = decimal.NewFromFloat(fuel.Price).Div(decimal.NewFromFloat(priceDivisor)).Round(3)
		break
	}
	if !price.IsPositive() {
		return nil, errors.Mark(errors.Newf("station %s has no %s price", candidate.ID, fuelType), ErrNoFuelPrice)
	}

	brand := detail.Brand
	if brand == "" {
		brand = candidate.Brand
	}
	if brand == "" {
		brand = "Unknown"
	}

	city := detail.City
	if city == "" {
		city = candidate.City
	}

	name := strings.TrimSpace(detail.Name)
	if name == "" {
		name = strings.TrimSpace(brand + " " + city)
	}

	return &models.StationRecord{
		ID:           candidate.ID,
		Name:         name,
		Brand:        brand,
		Address:      formatAddress(detail.Address, city, detail.PostalCode),
		Latitude:     candidate.Latitude,
		Longitude:    candidate.Longitude,
		FuelType:     fuelType,
		Price:        price,
		OpeningHours: ParseOpeningHours(detail.OpeningTimes, now),
		Amenities:    detail.Services,
		IsUnmanned:   detail.HasService("unmanned"),
		HasShop:      detail.HasService("shop"),
		IsOpen24h:    detail.HasService("gas247"),
		DistanceKm:   decimal.NewFromFloat(candidate.DistanceKm).Round(2).InexactFloat64(),
		LastUpdated:  now,
	}, nil
}

func formatAddress(street, city, postalCode string) string {
	locality := strings.TrimSpace(strings.TrimSpace(city) + " " + strings.TrimSpace(postalCode))

	parts := make([]string, 0, 2)
	for _, part := range []string{street, locality} {
		part = strings.Trim(part, ", ")
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
