// Package catalog ships the static seed data: the forecast-region anchors and
// the candidate places. Both are embedded and read-only at runtime.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/vulbon/Raining-Day-Map/internal/domain"
)

//go:embed data/regions.json data/places.json
var seedFS embed.FS

// Regions loads the region anchor catalog.
func Regions() ([]domain.Region, error) {
	data, err := seedFS.ReadFile("data/regions.json")
	if err != nil {
		return nil, fmt.Errorf("read region seed: %w", err)
	}

	var regions []domain.Region
	if err := json.Unmarshal(data, &regions); err != nil {
		return nil, fmt.Errorf("parse region seed: %w", err)
	}
	if len(regions) == 0 {
		return nil, domain.ErrEmptyRegionCatalog
	}
	return regions, nil
}

// Places loads the place catalog. IDs must be unique across the catalog.
func Places() ([]domain.Place, error) {
	data, err := seedFS.ReadFile("data/places.json")
	if err != nil {
		return nil, fmt.Errorf("read place seed: %w", err)
	}

	var places []domain.Place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("parse place seed: %w", err)
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("place seed is empty")
	}

	seen := make(map[string]struct{}, len(places))
	for _, p := range places {
		if p.ID == "" {
			return nil, fmt.Errorf("place %q has no id", p.Name)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate place id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return places, nil
}
