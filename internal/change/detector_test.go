package change

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

var thresholds = models.Thresholds{
	Drop:     decimal.RequireFromString("0.03"),
	Increase: decimal.RequireFromString("0.03"),
}

func station(price string) models.StationRecord {
	return models.StationRecord{ID: "5274", Name: "Tinq Utrecht", Price: decimal.RequireFromString(price)}
}

func TestFirstObservationSetsBaseline(t *testing.T) {
	d := NewDetector()

	_, emitted := d.Observe("home", station("1.899"), thresholds)
	assert.False(t, emitted)

	previous, ok := d.Previous("home")
	require.True(t, ok)
	assert.Equal(t, "1.899", previous.StringFixed(3))
}

func TestPriceDrop(t *testing.T) {
	d := NewDetector()
	d.Observe("home", station("1.899"), thresholds)

	event, emitted := d.Observe("home", station("1.859"), thresholds)
	require.True(t, emitted)
	assert.Equal(t, models.PriceDrop, event.Kind)
	assert.True(t, event.Delta.Equal(decimal.RequireFromString("-0.04")), "delta was %s", event.Delta)
	assert.Equal(t, "1.899", event.PreviousPrice.StringFixed(3))
	assert.Equal(t, "1.859", event.CurrentPrice.StringFixed(3))
	assert.Equal(t, "home", event.LocationKey)
	assert.True(t, event.Significant())
}

func TestPriceIncreaseAtThreshold(t *testing.T) {
	d := NewDetector()
	d.Observe("home", station("1.859"), thresholds)

	event, emitted := d.Observe("home", station("1.889"), thresholds)
	require.True(t, emitted)
	assert.Equal(t, models.PriceIncrease, event.Kind)
	assert.True(t, event.Delta.Equal(decimal.RequireFromString("0.03")))
}

func TestSmallMoveIsNotSignificant(t *testing.T) {
	d := NewDetector()
	d.Observe("home", station("1.859"), thresholds)

	event, emitted := d.Observe("home", station("1.869"), thresholds)
	require.True(t, emitted)
	assert.Equal(t, models.NoSignificantChange, event.Kind)
	assert.False(t, event.Significant())
}

func TestPreviousPriceAlwaysAdvances(t *testing.T) {
	d := NewDetector()
	d.Observe("home", station("1.900"), thresholds)
	d.Observe("home", station("1.890"), thresholds)
	d.Observe("home", station("1.880"), thresholds)

	// three small steps add up to 0.02 but each cycle only sees 0.01
	event, _ := d.Observe("home", station("1.870"), thresholds)
	assert.Equal(t, models.NoSignificantChange, event.Kind)
	assert.Equal(t, "1.880", event.PreviousPrice.StringFixed(3))
}

func TestIndependentThresholds(t *testing.T) {
	d := NewDetector()
	asymmetric := models.Thresholds{
		Drop:     decimal.RequireFromString("0.01"),
		Increase: decimal.RequireFromString("0.10"),
	}
	d.Observe("home", station("1.900"), asymmetric)

	event, _ := d.Observe("home", station("1.890"), asymmetric)
	assert.Equal(t, models.PriceDrop, event.Kind)

	event, _ = d.Observe("home", station("1.950"), asymmetric)
	assert.Equal(t, models.NoSignificantChange, event.Kind)
}

func TestLocationsAreIndependentAndResettable(t *testing.T) {
	d := NewDetector()
	d.Observe("home", station("1.900"), thresholds)

	_, emitted := d.Observe("work", station("1.700"), thresholds)
	assert.False(t, emitted)

	d.Reset("home")
	_, emitted = d.Observe("home", station("1.700"), thresholds)
	assert.False(t, emitted)
}
