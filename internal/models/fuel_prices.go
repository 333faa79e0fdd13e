package models

import (
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PlaceID accepts both numeric and string identifiers, the tank service has used both.
type PlaceID string

func (id *PlaceID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	*id = PlaceID(s)
	return nil
}

func (id PlaceID) String() string {
	return string(id)
}

// Place is a single entry of the country-wide directory listing.
type Place struct {
	ID        PlaceID  `json:"id"`
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
	Brand     string   `json:"brand,omitempty"`
	City      string   `json:"city,omitempty"`
}

type Fuel struct {
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type PlaceDetail struct {
	ID           PlaceID             `json:"id"`
	Name         string              `json:"name"`
	Brand        string              `json:"brand"`
	Address      string              `json:"address"`
	City         string              `json:"city"`
	PostalCode   string              `json:"postalCode"`
	Fuels        []Fuel              `json:"fuels"`
	OpeningTimes jsoniter.RawMessage `json:"openingTimes"`
	Services     []string            `json:"services"`
}

func (d *PlaceDetail) HasService(name string) bool {
	for _, s := range d.Services {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// DecodePlaces decodes the directory listing. Older deployments wrapped the list in an
// object under "places"; that shape is still accepted.
func DecodePlaces(data []byte) ([]Place, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var wrapped struct {
			Places []Place `json:"places"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Places, nil
	}

	var places []Place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, err
	}
	return places, nil
}

func DecodePlaceDetail(data []byte) (*PlaceDetail, error) {
	var detail PlaceDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
