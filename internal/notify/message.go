package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

type Kind string

const (
	KindPriceDrop     Kind = "price_drop"
	KindPriceIncrease Kind = "price_increase"
	KindDailyReport   Kind = "daily_report"
)

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Message is a composed notification; Text is always derived from HTML.
type Message struct {
	Kind        Kind                  `json:"kind"`
	Title       string                `json:"title"`
	HTML        string                `json:"html"`
	Text        string                `json:"text"`
	LocationKey string                `json:"location_key"`
	Location    string                `json:"location"`
	Station     *models.StationRecord `json:"station,omitempty"`
	Links       []Link                `json:"links,omitempty"`
	Timestamp   time.Time             `json:"timestamp"`
}

// MapLinks builds Google Maps and Waze links for a station, or nothing when it has no coordinates.
func MapLinks(station *models.StationRecord) []Link {
	if station == nil || (station.Latitude == 0 && station.Longitude == 0) {
		return nil
	}

	ll := fmt.Sprintf("%.6f,%.6f", station.Latitude, station.Longitude)
	return []Link{
		{Label: "Open in Google Maps", URL: "https://www.google.com/maps/search/?api=1&query=" + ll},
		{Label: "Navigate", URL: "https://www.google.com/maps/dir/?api=1&destination=" + ll},
		{Label: "Open in Waze", URL: "https://waze.com/ul?ll=" + ll + "&navigate=yes"},
	}
}

// PlainText flattens composed HTML into one line per block element. Items of unordered
// lists are bulleted, items of ordered lists numbered.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	lines := make([]string, 0)
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			if goquery.NodeName(s.Parent()) == "ol" {
				text = fmt.Sprintf("%d. %s", s.Index()+1, text)
			} else {
				text = "- " + text
			}
		}
		lines = append(lines, text)
	})

	return strings.Join(lines, "\n"), nil
}
