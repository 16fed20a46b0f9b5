package domain

import (
	"math"
	"slices"
)

// kmPerDegree converts degree-space distance to kilometers. 111 km per degree
// is a flat-earth approximation that holds well enough around Taiwan's
// latitudes; the result is a browsing hint, not navigation data.
const kmPerDegree = 111.0

// Rank produces the filtered, distance-sorted place list that drives the list
// and map views. The catalog is never mutated: survivors are copied, their
// DistanceKm recomputed from position, and the copy sorted ascending. When
// position is nil, distances are left as-is and catalog order is preserved.
func Rank(catalog []Place, filters FilterState, position *Coordinate) []Place {
	result := make([]Place, 0, len(catalog))
	for _, place := range catalog {
		if !matchesFilters(place, filters) {
			continue
		}
		result = append(result, place)
	}

	if position == nil {
		return result
	}

	for i := range result {
		result[i].DistanceKm = distanceKm(result[i].Coordinates, *position)
	}
	slices.SortStableFunc(result, func(a, b Place) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		default:
			return 0
		}
	})
	return result
}

// matchesFilters applies the shelter filter (inclusive-upward: the selected
// level and anything better protected) and the parking filter (exact match).
func matchesFilters(place Place, filters FilterState) bool {
	if filters.ShelterLevel != FilterLevelAll && place.ShelterLevel > filters.ShelterLevel {
		return false
	}
	if filters.ParkingType != FilterParkingAll && filters.ParkingType != "" && place.ParkingType != filters.ParkingType {
		return false
	}
	return true
}

// distanceKm converts planar degree distance to kilometers, rounded to one
// decimal place.
func distanceKm(a, b Coordinate) float64 {
	return math.Round(planarDistance(a, b)*kmPerDegree*10) / 10
}
