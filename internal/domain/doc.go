// Package domain models the rainy-day recommendation pipeline.
//
// # Data Source
//
// Precipitation forecasts come from the Central Weather Administration (CWA)
// open-data platform, dataset F-C0032-001: the general 36-hour forecast,
// published per administrative region (縣/市) as a list of named weather
// elements. The pipeline only consumes the "PoP" element, a time series of
// three 12-hour slots carrying the probability of precipitation as a
// stringified integer percentage.
//
// # Region Granularity
//
// The CWA forecast is keyed by region name, not coordinates. A raw lat/lng is
// mapped to the nearest of ten fixed city-center anchors by planar Euclidean
// distance in degree space; at region granularity the flat-earth error is
// irrelevant. See [NearestRegion].
//
// # Derivation Rules
//
// Two independent thresholds act on the currently selected forecast slot:
//
//	PoP >= 30  →  rainy display mode on
//	PoP >  70  →  shelter filter forced to level 2
//
// The escalation is a one-directional safety push: a later drop in probability
// never relaxes the filter, only an explicit user update does. When forecast
// data is unknown or a fetch fails, the rainy mode defaults to true.
//
// # Ranking
//
// Candidate places are filtered by shelter level (inclusive-upward: the
// selected level plus anything better protected) and parking type (exact
// match), then annotated with an approximate distance (degrees × 111 km,
// rounded to one decimal) and stably sorted ascending. See [Rank].
package domain
