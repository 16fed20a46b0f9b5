package domain

import "errors"

var (
	// ErrEmptyRegionCatalog means region resolution was attempted against an
	// empty anchor catalog. With the embedded seed data this cannot happen; it
	// is a fatal precondition violation, not a recoverable runtime path.
	ErrEmptyRegionCatalog = errors.New("region catalog is empty")

	// ErrMalformedPayload means the provider response was structurally missing
	// the precipitation element or its time series. Treated identically to a
	// transport failure by the fetch orchestrator.
	ErrMalformedPayload = errors.New("malformed forecast payload")
)

// User-facing strings for the degraded weather state, in the provider's
// language like the rest of the seed data.
const (
	// DegradedRegionName replaces the region name when forecast data is
	// unavailable.
	DegradedRegionName = "氣象資料異常"

	// DegradedErrorMessage is shown to the user when a fetch fails.
	DegradedErrorMessage = "無法取得氣象資料，已切換至模擬模式"
)

// DegradedSnapshot returns the weather state committed after a failed fetch:
// loading cleared, a user-facing message, and the sentinel region name.
// Callers must pair it with the fail-safe rainy mode.
func DegradedSnapshot(prev WeatherSnapshot) WeatherSnapshot {
	prev.Loading = false
	prev.Error = DegradedErrorMessage
	prev.RegionName = DegradedRegionName
	prev.FetchedAt = clock.Now()
	return prev
}
