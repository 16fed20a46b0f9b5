package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []Place {
	return []Place{
		{
			ID:           "tp-01",
			Name:         "台北 101 購物中心",
			ShelterLevel: ShelterLevel1,
			ParkingType:  ParkingUnderground,
			Coordinates:  Coordinate{Lat: 25.0339, Lng: 121.5645},
		},
		{
			ID:           "tp-05",
			Name:         "華山 1914 文創園區",
			ShelterLevel: ShelterLevel2,
			ParkingType:  ParkingNearbyOutdoor,
			Coordinates:  Coordinate{Lat: 25.0441, Lng: 121.5294},
		},
		{
			ID:           "kl-01",
			Name:         "基隆海洋廣場",
			ShelterLevel: ShelterLevel3,
			ParkingType:  ParkingNearbyOutdoor,
			Coordinates:  Coordinate{Lat: 25.1296, Lng: 121.7397},
		},
	}
}

func placeIDs(places []Place) []string {
	ids := make([]string, len(places))
	for i, p := range places {
		ids[i] = p.ID
	}
	return ids
}

func TestRank_ShelterFilterInclusiveUpward(t *testing.T) {
	tests := []struct {
		name     string
		level    ShelterLevel
		expected []string
	}{
		{"all levels", FilterLevelAll, []string{"tp-01", "tp-05", "kl-01"}},
		{"level 1 only", ShelterLevel1, []string{"tp-01"}},
		{"level 2 keeps level 1", ShelterLevel2, []string{"tp-01", "tp-05"}},
		{"level 3 keeps everything", ShelterLevel3, []string{"tp-01", "tp-05", "kl-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(testCatalog(), FilterState{ShelterLevel: tt.level, ParkingType: FilterParkingAll}, nil)
			assert.Equal(t, tt.expected, placeIDs(got))
		})
	}
}

func TestRank_ParkingFilterExactMatch(t *testing.T) {
	t.Run("underground", func(t *testing.T) {
		got := Rank(testCatalog(), FilterState{ParkingType: ParkingUnderground}, nil)
		assert.Equal(t, []string{"tp-01"}, placeIDs(got))
	})

	t.Run("nearby outdoor", func(t *testing.T) {
		got := Rank(testCatalog(), FilterState{ParkingType: ParkingNearbyOutdoor}, nil)
		assert.Equal(t, []string{"tp-05", "kl-01"}, placeIDs(got))
	})
}

func TestRank_CombinedFilters(t *testing.T) {
	catalog := []Place{
		{ID: "a", ShelterLevel: ShelterLevel1, ParkingType: ParkingUnderground},
		{ID: "b", ShelterLevel: ShelterLevel3, ParkingType: ParkingNearbyOutdoor},
	}
	got := Rank(catalog, FilterState{ShelterLevel: ShelterLevel1, ParkingType: FilterParkingAll}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestRank_DistanceAndSort(t *testing.T) {
	// B is ~1km north of A, C is ~5km north of A (1 degree ≈ 111 km).
	catalog := []Place{
		{ID: "c", Coordinates: Coordinate{Lat: 25.0 + 5.0/111.0, Lng: 121.5}},
		{ID: "a", Coordinates: Coordinate{Lat: 25.0, Lng: 121.5}},
		{ID: "b", Coordinates: Coordinate{Lat: 25.0 + 1.0/111.0, Lng: 121.5}},
	}
	position := &Coordinate{Lat: 25.0, Lng: 121.5}

	got := Rank(catalog, FilterState{ParkingType: FilterParkingAll}, position)

	require.Equal(t, []string{"a", "b", "c"}, placeIDs(got))
	assert.Equal(t, 0.0, got[0].DistanceKm)
	assert.InDelta(t, 1.0, got[1].DistanceKm, 0.11)
	assert.InDelta(t, 5.0, got[2].DistanceKm, 0.11)
}

func TestRank_DistanceRoundedToOneDecimal(t *testing.T) {
	catalog := []Place{
		{ID: "x", Coordinates: Coordinate{Lat: 25.0339, Lng: 121.5645}},
	}
	position := &Coordinate{Lat: 25.0441, Lng: 121.5294}

	got := Rank(catalog, FilterState{}, position)

	require.Len(t, got, 1)
	scaled := got[0].DistanceKm * 10
	assert.Equal(t, math.Trunc(scaled), scaled, "distance must carry one decimal at most")
}

func TestRank_NilPositionPreservesCatalogOrderAndDistances(t *testing.T) {
	catalog := []Place{
		{ID: "second", DistanceKm: 9.9, Coordinates: Coordinate{Lat: 26, Lng: 122}},
		{ID: "first", DistanceKm: 0.4, Coordinates: Coordinate{Lat: 25, Lng: 121}},
	}

	got := Rank(catalog, FilterState{}, nil)

	assert.Equal(t, []string{"second", "first"}, placeIDs(got))
	assert.Equal(t, 9.9, got[0].DistanceKm, "stale distance shown as-is")
}

func TestRank_DoesNotMutateCatalog(t *testing.T) {
	catalog := testCatalog()
	position := &Coordinate{Lat: 25.0, Lng: 121.5}

	_ = Rank(catalog, FilterState{}, position)

	for _, place := range catalog {
		assert.Equal(t, 0.0, place.DistanceKm, "catalog entry %s mutated", place.ID)
	}
	assert.Equal(t, "tp-01", catalog[0].ID)
}
