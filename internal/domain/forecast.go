package domain

const (
	// RainThreshold is the precipitation probability at or above which the
	// rainy display mode switches on.
	RainThreshold = 30

	// EscalationThreshold is the probability above which the shelter filter is
	// forced to level 2.
	EscalationThreshold = 70
)

// IsRainy reports whether a precipitation probability counts as rainy.
// Boundary: 29 is dry, 30 is rainy.
func IsRainy(pop int) bool {
	return pop >= RainThreshold
}

// ShouldEscalateShelter reports whether a probability is high enough to force
// the shelter filter. Boundary: 70 does not escalate, 71 does.
func ShouldEscalateShelter(pop int) bool {
	return pop > EscalationThreshold
}

// EscalateShelter applies the heavy-rain override: the shelter filter is forced
// to level 2 regardless of the prior selection, including "all" and the
// stricter level 1. The push is one-directional — nothing relaxes the filter
// automatically when the probability later drops; only an explicit user update
// does.
func EscalateShelter(filters FilterState) FilterState {
	filters.ShelterLevel = ShelterLevel2
	return filters
}

// CommittedSnapshot builds the weather state for a successfully fetched and
// normalized forecast, applying the slot-index preservation rule.
func CommittedSnapshot(regionName string, slots []ForecastSlot, prevSelected int) WeatherSnapshot {
	return WeatherSnapshot{
		RegionName:    regionName,
		Forecasts:     slots,
		SelectedIndex: PreserveSelectedIndex(prevSelected, len(slots)),
		Loading:       false,
		FetchedAt:     clock.Now(),
	}
}

// PreserveSelectedIndex returns the slot index to keep after committing a fresh
// forecast sequence: the previous selection survives a re-fetch when it still
// points inside the new sequence, otherwise it resets to 0.
func PreserveSelectedIndex(prev, newLen int) int {
	if prev >= 0 && prev < newLen {
		return prev
	}
	return 0
}
