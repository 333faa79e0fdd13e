package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("notify").Funcs(template.FuncMap{
	"price": func(d decimal.Decimal) string { return d.StringFixed(3) },
}).ParseFS(templatesFS, "templates/*.html"))

const TITLE_PRICE_DROP = "💚 Fuel Price Drop"
const TITLE_PRICE_INCREASE = "📈 Fuel Price Increase"
const TITLE_DAILY_REPORT = "⛽ Daily Fuel Report"

var noChange = decimal.New(1, -3)

type priceChangeData struct {
	Title    string
	FuelName string
	Location string
	Station  models.StationRecord
	Verb     string
	Drop     bool
	Change   decimal.Decimal
	Current  decimal.Decimal
	Previous decimal.Decimal
}

type weekComparison struct {
	Symbol   string
	Change   string
	Previous decimal.Decimal
}

type dailyReportData struct {
	Title         string
	Location      string
	RadiusKm      float64
	Cheapest      models.StationRecord
	MostExpensive models.StationRecord
	Range         decimal.Decimal
	Top           []models.StationRecord
	Week          *weekComparison
}

// ComposePriceChange renders a significant change event; other events are rejected.
func ComposePriceChange(loc models.LocationConfig, event models.ChangeEvent) (Message, error) {
	data := priceChangeData{
		FuelName: loc.FuelType.DisplayName(),
		Location: loc.DisplayName(),
		Station:  event.Station,
		Change:   event.Delta.Abs(),
		Current:  event.CurrentPrice,
		Previous: event.PreviousPrice,
	}

	var kind Kind
	switch event.Kind {
	case models.PriceDrop:
		kind, data.Title, data.Verb, data.Drop = KindPriceDrop, TITLE_PRICE_DROP, "dropped", true
	case models.PriceIncrease:
		kind, data.Title, data.Verb = KindPriceIncrease, TITLE_PRICE_INCREASE, "increased"
	default:
		return Message{}, fmt.Errorf("no notification for %s events", event.Kind)
	}

	msg, err := render("price_change.html", data)
	if err != nil {
		return Message{}, err
	}

	msg.Kind = kind
	msg.Title = data.Title
	msg.LocationKey = event.LocationKey
	msg.Location = data.Location
	msg.Station = &event.Station
	msg.Links = MapLinks(&event.Station)
	msg.Timestamp = event.Station.LastUpdated
	return msg, nil
}

// ComposeDailyReport summarises the latest cycle of a location; it needs a cheapest station.
func ComposeDailyReport(loc models.LocationConfig, cycle *models.CycleResult) (Message, error) {
	if cycle == nil || cycle.Result.Cheapest == nil {
		return Message{}, fmt.Errorf("no cheapest station for %s", loc.DisplayName())
	}

	stations := cycle.Result.Stations
	cheapest := *cycle.Result.Cheapest
	mostExpensive := stations[len(stations)-1]

	data := dailyReportData{
		Title:         TITLE_DAILY_REPORT,
		Location:      loc.DisplayName(),
		RadiusKm:      loc.RadiusKm,
		Cheapest:      cheapest,
		MostExpensive: mostExpensive,
		Range:         mostExpensive.Price.Sub(cheapest.Price),
		Top:           stations[:min(3, len(stations))],
	}

	if change := cycle.PriceChangeWeek(); change != nil {
		week := &weekComparison{Previous: *cycle.PriceWeekAgo}
		switch {
		case change.Abs().LessThan(noChange):
			week.Symbol, week.Change = "➡️", "No change"
		case change.IsPositive():
			week.Symbol, week.Change = "📈", "+€"+change.StringFixed(3)
		default:
			week.Symbol, week.Change = "📉", "-€"+change.Abs().StringFixed(3)
		}
		data.Week = week
	}

	msg, err := render("daily_report.html", data)
	if err != nil {
		return Message{}, err
	}

	msg.Kind = KindDailyReport
	msg.Title = TITLE_DAILY_REPORT
	msg.LocationKey = cycle.LocationKey
	msg.Location = data.Location
	msg.Station = &cheapest
	msg.Links = MapLinks(&cheapest)
	msg.Timestamp = cycle.CompletedAt
	return msg, nil
}

func render(name string, data any) (Message, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s: %w", name, err)
	}

	text, err := PlainText(buf.String())
	if err != nil {
		return Message{}, fmt.Errorf("failed to derive plain text from %s: %w", name, err)
	}

	return Message{HTML: buf.String(), Text: text}, nil
}
