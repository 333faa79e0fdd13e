package brands

import (
	_ "embed"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/nl-fuel-prices/internal"
	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

//go:embed retailers.csv
var retailersCSV string

func GetRetailersList() ([]*models.Retailer, error) {
	arr := make([]*models.Retailer, 0, 100)
	reader := strings.NewReader(retailersCSV)

	for record := range internal.ParseCSV(reader, false, models.FromCSV) {
		if record.Error != nil {
			return nil, errors.Wrap(record.Error, "failed to load fuel retailers")
		}
		arr = append(arr, record.Value)
	}

	return arr, nil
}

// GetRetailersMap indexes retailers by lower-cased name and alias.
func GetRetailersMap() (Retailers, error) {
	retailers, err := GetRetailersList()
	if err != nil {
		return nil, err
	}

	m := make(map[string]*models.Retailer, len(retailers))
	for _, record := range retailers {
		for _, key := range append([]string{record.Name}, record.Aliases...) {
			key = normalise(key)
			if _, ok := m[key]; ok {
				return nil, errors.Newf("duplicate key detected: %s", key)
			}
			m[key] = record
		}
	}

	return m, nil
}

type Retailers map[string]*models.Retailer

// Lookup matches the brand reported by the tank service, which is inconsistently cased.
func (r Retailers) Lookup(brand string) *models.Retailer {
	return r[normalise(brand)]
}

func normalise(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
