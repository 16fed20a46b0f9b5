package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulbon/Raining-Day-Map/internal/domain"
)

func TestRegions(t *testing.T) {
	regions, err := Regions()
	require.NoError(t, err)

	assert.Len(t, regions, 10)
	assert.Equal(t, "臺北市", regions[0].Name)
	for _, r := range regions {
		assert.NotEmpty(t, r.Name)
		assert.NotZero(t, r.Lat)
		assert.NotZero(t, r.Lng)
	}
}

func TestPlaces(t *testing.T) {
	places, err := Places()
	require.NoError(t, err)

	assert.Len(t, places, 19)

	seen := make(map[string]struct{})
	for _, p := range places {
		_, dup := seen[p.ID]
		assert.False(t, dup, "duplicate id %s", p.ID)
		seen[p.ID] = struct{}{}

		assert.NotEmpty(t, p.Name)
		assert.Contains(t, []domain.ShelterLevel{domain.ShelterLevel1, domain.ShelterLevel2, domain.ShelterLevel3}, p.ShelterLevel)
		assert.Contains(t, []domain.ParkingType{domain.ParkingUnderground, domain.ParkingNearbyOutdoor}, p.ParkingType)
		assert.NotZero(t, p.Coordinates.Lat)
		assert.Zero(t, p.DistanceKm, "seed data carries no precomputed distance")
	}
}

func TestPlaces_ResolveAgainstRegionAnchors(t *testing.T) {
	regions, err := Regions()
	require.NoError(t, err)
	places, err := Places()
	require.NoError(t, err)

	// Every seed place must resolve to some region without error.
	for _, p := range places {
		name, err := domain.NearestRegion(p.Coordinates, regions)
		require.NoError(t, err)
		assert.NotEmpty(t, name)
	}
}
