package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRegions = []Region{
	{Name: "臺北市", Lat: 25.032969, Lng: 121.565418},
	{Name: "新北市", Lat: 25.016982, Lng: 121.462786},
	{Name: "基隆市", Lat: 25.127603, Lng: 121.739183},
	{Name: "高雄市", Lat: 22.6129, Lng: 120.3056},
}

func TestNearestRegion(t *testing.T) {
	t.Run("exact anchor match", func(t *testing.T) {
		name, err := NearestRegion(Coordinate{Lat: 25.032969, Lng: 121.565418}, testRegions)
		require.NoError(t, err)
		assert.Equal(t, "臺北市", name)
	})

	t.Run("nearby point resolves to closest anchor", func(t *testing.T) {
		// Taipei 101 is a few hundred meters from the Taipei anchor.
		name, err := NearestRegion(Coordinate{Lat: 25.0339, Lng: 121.5645}, testRegions)
		require.NoError(t, err)
		assert.Equal(t, "臺北市", name)
	})

	t.Run("southern point resolves to Kaohsiung", func(t *testing.T) {
		name, err := NearestRegion(Coordinate{Lat: 22.62, Lng: 120.31}, testRegions)
		require.NoError(t, err)
		assert.Equal(t, "高雄市", name)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		point := Coordinate{Lat: 25.05, Lng: 121.5}
		first, err := NearestRegion(point, testRegions)
		require.NoError(t, err)
		second, err := NearestRegion(point, testRegions)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("tie keeps first catalog entry", func(t *testing.T) {
		catalog := []Region{
			{Name: "west", Lat: 0, Lng: -1},
			{Name: "east", Lat: 0, Lng: 1},
		}
		name, err := NearestRegion(Coordinate{Lat: 0, Lng: 0}, catalog)
		require.NoError(t, err)
		assert.Equal(t, "west", name)
	})

	t.Run("empty catalog", func(t *testing.T) {
		_, err := NearestRegion(Coordinate{}, nil)
		require.ErrorIs(t, err, ErrEmptyRegionCatalog)
	})
}
