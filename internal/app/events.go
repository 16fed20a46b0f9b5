package app

import (
	"time"

	"github.com/vulbon/Raining-Day-Map/internal/domain"
)

// EventType names a state transition observable by collaborators.
type EventType string

const (
	EventFetchStarted      EventType = "fetch_started"
	EventForecastCommitted EventType = "forecast_committed"
	EventForecastDegraded  EventType = "forecast_degraded"
	EventSlotSelected      EventType = "slot_selected"
	EventFiltersChanged    EventType = "filters_changed"
	EventFilterEscalated   EventType = "filter_escalated"
	EventModeToggled       EventType = "mode_toggled"
)

// View is the full derived state collaborators render from.
type View struct {
	Weather      domain.WeatherSnapshot `json:"weather"`
	Filters      domain.FilterState     `json:"filters"`
	IsRainy      bool                   `json:"is_rainy"`
	UserPosition *domain.Coordinate     `json:"user_position,omitempty"`
}

// StateEvent is broadcast to subscribers after every committed transition.
type StateEvent struct {
	Type EventType `json:"type"`
	View View      `json:"view"`
	At   time.Time `json:"at"`
}
