// Package http exposes the service over JSON endpoints, a state-event stream,
// and the usual health, readiness, and metrics routes.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vulbon/Raining-Day-Map/internal/app"
	"github.com/vulbon/Raining-Day-Map/internal/domain"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Refresher triggers a forecast refresh for an arbitrary coordinate.
type Refresher interface {
	Refresh(ctx context.Context, point domain.Coordinate)
}

var validate = validator.New()

// Server exposes the recommendation API.
type Server struct {
	httpServer *http.Server
	store      *app.Store
	refresher  Refresher
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API, stream, and health routes.
func NewServer(addr string, store *app.Store, refresher Refresher, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// No write timeout: the event stream stays open indefinitely.
			IdleTimeout: 60 * time.Second,
		},
		store:     store,
		refresher: refresher,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/weather", s.handleWeather)
	mux.HandleFunc("GET /api/v1/places", s.handlePlaces)
	mux.HandleFunc("POST /api/v1/refresh", s.handleRefresh)
	mux.HandleFunc("PUT /api/v1/weather/slot", s.handleSelectSlot)
	mux.HandleFunc("PUT /api/v1/filters", s.handleSetFilters)
	mux.HandleFunc("POST /api/v1/mode/toggle", s.handleToggleMode)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleWeather(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.View())
}

// placeDTO pairs a ranked place with its presentation lookups so list and map
// collaborators render levels identically.
type placeDTO struct {
	domain.Place
	Level        domain.LevelInfo `json:"level"`
	ParkingLabel string           `json:"parking_label"`
}

func (s *Server) handlePlaces(w http.ResponseWriter, _ *http.Request) {
	ranked := s.store.RankedPlaces()
	places := make([]placeDTO, len(ranked))
	for i, p := range ranked {
		places[i] = placeDTO{
			Place:        p,
			Level:        domain.LevelPresentation(p.ShelterLevel),
			ParkingLabel: domain.ParkingLabel(p.ParkingType),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"places": places})
}

type refreshRequest struct {
	// Coordinates are passed through as-is; only presence is checked.
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// The refresh outlives the request; completion is observed through the
	// state endpoints or the event stream. Last write wins via the store's
	// generation gate.
	go s.refresher.Refresh(context.Background(), domain.Coordinate{Lat: *req.Lat, Lng: *req.Lng})

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

type selectSlotRequest struct {
	Index *int `json:"index" validate:"required"`
}

func (s *Server) handleSelectSlot(w http.ResponseWriter, r *http.Request) {
	var req selectSlotRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !s.store.SelectSlot(*req.Index) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": "slot index out of range",
		})
		return
	}
	writeJSON(w, http.StatusOK, s.store.View())
}

type filtersRequest struct {
	ShelterLevel string `json:"shelter_level" validate:"required,oneof=all 1 2 3"`
	ParkingType  string `json:"parking_type" validate:"required,oneof=all underground nearby"`
}

func (s *Server) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	s.store.SetFilters(domain.FilterState{
		ShelterLevel: parseShelterLevel(req.ShelterLevel),
		ParkingType:  parseParkingType(req.ParkingType),
	})
	writeJSON(w, http.StatusOK, s.store.View())
}

func (s *Server) handleToggleMode(w http.ResponseWriter, _ *http.Request) {
	isRainy := s.store.ToggleRainMode()
	writeJSON(w, http.StatusOK, map[string]bool{"is_rainy": isRainy})
}

func parseShelterLevel(s string) domain.ShelterLevel {
	switch s {
	case "1":
		return domain.ShelterLevel1
	case "2":
		return domain.ShelterLevel2
	case "3":
		return domain.ShelterLevel3
	default:
		return domain.FilterLevelAll
	}
}

func parseParkingType(s string) domain.ParkingType {
	switch s {
	case "underground":
		return domain.ParkingUnderground
	case "nearby":
		return domain.ParkingNearbyOutdoor
	default:
		return domain.FilterParkingAll
	}
}

// decodeAndValidate decodes the JSON body into dst and validates it. On
// failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
