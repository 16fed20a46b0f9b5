package app

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/vulbon/Raining-Day-Map/internal/domain"
	"github.com/vulbon/Raining-Day-Map/internal/observability"
)

// InitialRegionName is shown while the first position is being resolved.
const InitialRegionName = "定位中..."

// subscriberBuffer bounds each subscriber channel. Slow consumers miss
// intermediate events rather than blocking a commit.
const subscriberBuffer = 16

// Store owns all mutable state: the weather snapshot, the filter state, the
// user position, and the rainy display mode. Every transition is a method, so
// each write path is enumerable and testable without a transport harness.
// Commits from fetches are generation-gated: only the most recently issued
// fetch may write, which keeps a slow early response from overwriting a fast
// later one.
type Store struct {
	mu          sync.Mutex
	catalog     []domain.Place
	weather     domain.WeatherSnapshot
	filters     domain.FilterState
	isRainy     bool
	userPos     *domain.Coordinate
	generation  uint64
	subscribers map[string]chan StateEvent

	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewStore creates a Store in the initial "resolving location" state: loading,
// no forecasts, rainy mode on until real data says otherwise.
func NewStore(catalog []domain.Place, metrics *observability.Metrics, logger *slog.Logger) *Store {
	metrics.RainyMode.Set(1)
	return &Store{
		catalog: catalog,
		weather: domain.WeatherSnapshot{
			RegionName: InitialRegionName,
			Loading:    true,
		},
		filters: domain.FilterState{
			ShelterLevel: domain.FilterLevelAll,
			ParkingType:  domain.FilterParkingAll,
		},
		isRainy:     true,
		subscribers: make(map[string]chan StateEvent),
		metrics:     metrics,
		logger:      logger,
	}
}

// BeginFetch marks the state loading, clears any previous error, records the
// fetch coordinate as the user position immediately, and returns the request
// generation for the matching commit. Recording the position before the fetch
// resolves keeps distance ranking responsive while the request is pending.
func (s *Store) BeginFetch(point domain.Coordinate) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.weather.Loading = true
	s.weather.Error = ""
	s.userPos = &domain.Coordinate{Lat: point.Lat, Lng: point.Lng}

	s.broadcastLocked(EventFetchStarted)
	return s.generation
}

// CommitForecast commits a successful fetch. The previous slot selection is
// preserved when it still fits the new sequence, otherwise it resets to 0.
// Returns false when a newer fetch was issued meanwhile; the result is
// discarded.
func (s *Store) CommitForecast(generation uint64, regionName string, slots []domain.ForecastSlot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		s.logger.Debug("discarding stale forecast commit",
			"generation", generation, "latest", s.generation, "region", regionName)
		return false
	}

	s.weather = domain.CommittedSnapshot(regionName, slices.Clone(slots), s.weather.SelectedIndex)
	s.deriveLocked()
	s.broadcastLocked(EventForecastCommitted)
	return true
}

// CommitDegraded commits a failed fetch: the degraded snapshot plus the
// fail-safe rainy mode. Returns false when a newer fetch was issued meanwhile.
func (s *Store) CommitDegraded(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		s.logger.Debug("discarding stale degraded commit",
			"generation", generation, "latest", s.generation)
		return false
	}

	s.weather = domain.DegradedSnapshot(s.weather)
	s.isRainy = true
	s.metrics.RainyMode.Set(1)
	s.broadcastLocked(EventForecastDegraded)
	return true
}

// SelectSlot changes the selected forecast slot and re-runs the derivation
// rules against it. Returns false when the index is outside the committed
// sequence.
func (s *Store) SelectSlot(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.weather.Forecasts) {
		return false
	}
	s.weather.SelectedIndex = index
	s.metrics.SlotSelections.Inc()
	s.deriveLocked()
	s.broadcastLocked(EventSlotSelected)
	return true
}

// SetFilters replaces the filter state by explicit user choice. This is the
// only path that relaxes an automatic escalation.
func (s *Store) SetFilters(filters domain.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = filters
	s.broadcastLocked(EventFiltersChanged)
}

// ToggleRainMode flips the rainy display mode manually and returns the new
// value. The override is presentational only: it never feeds the filter
// escalation rule, and the next derivation pass overwrites it.
func (s *Store) ToggleRainMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isRainy = !s.isRainy
	s.setRainyGaugeLocked()
	s.broadcastLocked(EventModeToggled)
	return s.isRainy
}

// View returns the current derived state.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// RankedPlaces returns the filtered, distance-sorted candidate list for the
// current filters and position.
func (s *Store) RankedPlaces() []domain.Place {
	s.mu.Lock()
	filters := s.filters
	position := s.userPos
	s.mu.Unlock()

	return domain.Rank(s.catalog, filters, position)
}

// Subscribe registers a state-event channel under the given id. An existing
// subscription with the same id is replaced.
func (s *Store) Subscribe(id string) <-chan StateEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.subscribers[id]; ok {
		close(prev)
	}
	ch := make(chan StateEvent, subscriberBuffer)
	s.subscribers[id] = ch
	s.metrics.StreamClients.Set(float64(len(s.subscribers)))
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
		s.metrics.StreamClients.Set(float64(len(s.subscribers)))
	}
}

// deriveLocked applies the two threshold rules against the currently selected
// slot. With no committed forecasts neither rule fires and the mode keeps its
// last value. Caller must hold mu.
func (s *Store) deriveLocked() {
	slot, ok := s.weather.SelectedSlot()
	if !ok {
		return
	}

	s.isRainy = domain.IsRainy(slot.PoP)
	s.setRainyGaugeLocked()

	if domain.ShouldEscalateShelter(slot.PoP) && s.filters.ShelterLevel != domain.ShelterLevel2 {
		s.filters = domain.EscalateShelter(s.filters)
		s.metrics.AutoEscalations.Inc()
		s.logger.Info("shelter filter escalated", "pop", slot.PoP)
		s.broadcastLocked(EventFilterEscalated)
	}
}

func (s *Store) setRainyGaugeLocked() {
	if s.isRainy {
		s.metrics.RainyMode.Set(1)
	} else {
		s.metrics.RainyMode.Set(0)
	}
}

func (s *Store) viewLocked() View {
	view := View{
		Weather: s.weather,
		Filters: s.filters,
		IsRainy: s.isRainy,
	}
	view.Weather.Forecasts = slices.Clone(s.weather.Forecasts)
	if s.userPos != nil {
		pos := *s.userPos
		view.UserPosition = &pos
	}
	return view
}

// broadcastLocked fans the current view out to all subscribers. Sends are
// non-blocking: a subscriber whose buffer is full misses this event. Caller
// must hold mu.
func (s *Store) broadcastLocked(eventType EventType) {
	if len(s.subscribers) == 0 {
		return
	}
	event := StateEvent{Type: eventType, View: s.viewLocked(), At: time.Now()}
	for id, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			s.logger.Warn("dropping state event for slow subscriber", "subscriber", id, "event", eventType)
		}
	}
}
