package domain

import "time"

// ShelterLevel classifies how protected a place is from rain.
// Lower values are better protected: level 1 is fully indoor with connected
// parking, level 3 is a roofed outdoor area.
type ShelterLevel int

const (
	ShelterLevel1 ShelterLevel = 1
	ShelterLevel2 ShelterLevel = 2
	ShelterLevel3 ShelterLevel = 3
)

// ParkingType describes the parking a place offers.
type ParkingType string

const (
	ParkingUnderground   ParkingType = "underground"
	ParkingNearbyOutdoor ParkingType = "nearby"
)

// Coordinate is a plain lat/lng pair in degrees. Values are passed through
// as-is; no range validation is applied anywhere in the pipeline.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Region is a forecast-region anchor point. Identity is the name string.
type Region struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Place is a candidate rainy-day destination from the seed catalog.
// DistanceKm is derived: it is overwritten on every ranking pass and must not
// be treated as persisted truth.
type Place struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	ShelterLevel ShelterLevel `json:"shelter_level"`
	ParkingType  ParkingType  `json:"parking_type"`
	Tags         []string     `json:"tags"`
	Coordinates  Coordinate   `json:"coordinates"`
	DistanceKm   float64      `json:"distance_km"`
}

// ForecastSlot is one discrete forecast interval. Start and end times are the
// provider's timestamp strings, preserved verbatim: display collaborators slice
// them positionally, so format and length must never be altered here.
type ForecastSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	PoP       int    `json:"pop"` // probability of precipitation, 0-100
}

// FilterLevelAll and FilterParkingAll disable the respective filter.
const (
	FilterLevelAll   ShelterLevel = 0
	FilterParkingAll ParkingType  = "all"
)

// FilterState holds the current place filters. ShelterLevel filtering is
// inclusive-upward: selecting level 2 keeps levels 1 and 2. ParkingType is an
// exact match. The zero-ish values FilterLevelAll / FilterParkingAll pass
// everything through.
type FilterState struct {
	ShelterLevel ShelterLevel `json:"shelter_level"`
	ParkingType  ParkingType  `json:"parking_type"`
}

// WeatherSnapshot is the committed forecast state for one region.
type WeatherSnapshot struct {
	RegionName    string         `json:"region_name"`
	Forecasts     []ForecastSlot `json:"forecasts"`
	SelectedIndex int            `json:"selected_index"`
	Loading       bool           `json:"loading"`
	Error         string         `json:"error,omitempty"`
	FetchedAt     time.Time      `json:"fetched_at,omitzero"`
}

// SelectedSlot returns the currently selected forecast slot, or false when no
// forecasts are committed.
func (s WeatherSnapshot) SelectedSlot() (ForecastSlot, bool) {
	if len(s.Forecasts) == 0 || s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Forecasts) {
		return ForecastSlot{}, false
	}
	return s.Forecasts[s.SelectedIndex], true
}
