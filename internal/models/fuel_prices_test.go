package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlaces(t *testing.T) {
	places, err := DecodePlaces([]byte(`[
		{"id": 4711, "lat": 52.1, "lng": 5.1, "brand": "Tinq"},
		{"id": "A-12", "lat": 52.2, "lng": 5.2},
		{"id": null}
	]`))
	require.NoError(t, err)
	require.Len(t, places, 3)

	assert.Equal(t, "4711", places[0].ID.String())
	assert.Equal(t, 52.1, *places[0].Latitude)
	assert.Equal(t, "Tinq", places[0].Brand)
	assert.Equal(t, "A-12", places[1].ID.String())
	assert.Empty(t, places[2].ID)
	assert.Nil(t, places[2].Latitude)
}

func TestDecodePlacesWrapped(t *testing.T) {
	places, err := DecodePlaces([]byte(` {"places": [{"id": 1, "lat": 52.1, "lng": 5.1}]}`))
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "1", places[0].ID.String())
}

func TestDecodePlacesMalformed(t *testing.T) {
	_, err := DecodePlaces([]byte(`[{"id": 1,`))
	assert.Error(t, err)

	_, err = DecodePlaces([]byte(`{"places": "none"}`))
	assert.Error(t, err)
}

func TestDecodePlaceDetail(t *testing.T) {
	detail, err := DecodePlaceDetail([]byte(`{
		"id": 4711,
		"name": "Tinq Utrecht",
		"fuels": [{"key": "e10", "name": "Euro 95", "price": 1899}],
		"openingTimes": [{"mon": [600, 2200]}],
		"services": ["Shop", "carwash"]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "4711", detail.ID.String())
	assert.Equal(t, []Fuel{{Key: "e10", Name: "Euro 95", Price: 1899}}, detail.Fuels)
	assert.JSONEq(t, `[{"mon": [600, 2200]}]`, string(detail.OpeningTimes))
	assert.True(t, detail.HasService("shop"))
	assert.False(t, detail.HasService("unmanned"))
}
