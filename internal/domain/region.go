package domain

import "math"

// NearestRegion maps a raw coordinate to the nearest forecast-region anchor by
// planar Euclidean distance in degrees. The forecast provider works at region
// granularity, so geodesic precision buys nothing at this scale. Ties keep the
// first minimum in catalog order, which makes resolution deterministic.
func NearestRegion(point Coordinate, catalog []Region) (string, error) {
	if len(catalog) == 0 {
		return "", ErrEmptyRegionCatalog
	}

	best := catalog[0].Name
	bestDist := math.Inf(1)
	for _, region := range catalog {
		d := planarDistance(point, Coordinate{Lat: region.Lat, Lng: region.Lng})
		if d < bestDist {
			bestDist = d
			best = region.Name
		}
	}
	return best, nil
}

// planarDistance is the Euclidean distance between two coordinates in degrees.
func planarDistance(a, b Coordinate) float64 {
	return math.Sqrt(math.Pow(a.Lat-b.Lat, 2) + math.Pow(a.Lng-b.Lng, 2))
}
