package models

import "strings"

type Retailer struct {
	Name    string   `json:"name"`
	Url     string   `json:"url"`
	Favicon *string  `json:"favicon,omitempty"`
	Aliases []string `json:"-"`
}

func (org *Retailer) ToCSV() []string {
	row := []string{
		org.Name,
		org.Url,
		"",
		strings.Join(org.Aliases, "|"),
	}
	if org.Favicon != nil {
		row[2] = *org.Favicon
	}

	return row
}

func FromCSV(record, headers []string) (*Retailer, error) {
	retailer := &Retailer{
		Name: record[0],
		Url:  record[1],
	}
	if len(record) >= 3 && record[2] != "" {
		retailer.Favicon = &record[2]
	}
	if len(record) >= 4 && record[3] != "" {
		retailer.Aliases = strings.Split(record[3], "|")
	}
	return retailer, nil
}
