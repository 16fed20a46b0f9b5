package app

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vulbon/Raining-Day-Map/internal/domain"
	"github.com/vulbon/Raining-Day-Map/internal/observability"
)

// Forecaster fetches the normalized precipitation forecast for a region.
type Forecaster interface {
	Forecast(ctx context.Context, regionName string) ([]domain.ForecastSlot, error)
}

// PositionSource yields the device-reported start position. One-shot, not a
// subscription.
type PositionSource interface {
	Current(ctx context.Context) (domain.Coordinate, error)
}

// StaticPosition is a PositionSource pinned to a fixed coordinate.
type StaticPosition domain.Coordinate

func (p StaticPosition) Current(context.Context) (domain.Coordinate, error) {
	return domain.Coordinate(p), nil
}

// Orchestrator owns the fetch flow: resolve the region for a coordinate, call
// the forecast provider, and commit the outcome to the store. All failures are
// converted into degraded state here; nothing propagates to callers.
type Orchestrator struct {
	store      *Store
	forecaster Forecaster
	regions    []domain.Region
	fallback   domain.Coordinate
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
}

// NewOrchestrator creates the fetch orchestrator. The region catalog must be
// non-empty; resolution against it cannot otherwise proceed.
func NewOrchestrator(store *Store, forecaster Forecaster, regions []domain.Region, fallback domain.Coordinate, logger *slog.Logger, metrics *observability.Metrics) (*Orchestrator, error) {
	if len(regions) == 0 {
		return nil, domain.ErrEmptyRegionCatalog
	}
	return &Orchestrator{
		store:      store,
		forecaster: forecaster,
		regions:    regions,
		fallback:   fallback,
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// Bootstrap runs the startup fetch. When the position source fails or denies,
// the configured fallback coordinate is used instead of blocking — the service
// always reaches a non-loading state.
func (o *Orchestrator) Bootstrap(ctx context.Context, source PositionSource) {
	point, err := source.Current(ctx)
	if err != nil {
		o.logger.Warn("device position unavailable, using fallback",
			"error", err, "lat", o.fallback.Lat, "lng", o.fallback.Lng)
		point = o.fallback
	}
	o.Refresh(ctx, point)
}

// Refresh fetches the forecast for an arbitrary coordinate and commits the
// result. A refresh issued while another is in flight does not cancel it; the
// generation gate in the store ensures only the latest one commits.
func (o *Orchestrator) Refresh(ctx context.Context, point domain.Coordinate) {
	start := time.Now()
	generation := o.store.BeginFetch(point)

	regionName, err := domain.NearestRegion(point, o.regions)
	if err != nil {
		// Unreachable with the catalog checked at construction.
		o.logger.Error("region resolution failed", "error", err)
		o.degrade(generation)
		return
	}

	slots, err := o.forecaster.Forecast(ctx, regionName)
	if err != nil {
		o.logger.Warn("forecast fetch failed",
			"region", regionName, "error", err,
			"malformed", errors.Is(err, domain.ErrMalformedPayload))
		o.degrade(generation)
		return
	}

	if o.store.CommitForecast(generation, regionName, slots) {
		o.metrics.ForecastFetches.WithLabelValues("success").Inc()
		o.logger.Info("forecast committed",
			"region", regionName, "slots", len(slots), "duration", time.Since(start))
	} else {
		o.metrics.ForecastFetches.WithLabelValues("stale").Inc()
	}
	o.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	o.ready.Store(true)
}

func (o *Orchestrator) degrade(generation uint64) {
	if o.store.CommitDegraded(generation) {
		o.metrics.ForecastFetches.WithLabelValues("degraded").Inc()
	} else {
		o.metrics.ForecastFetches.WithLabelValues("stale").Inc()
	}
	o.ready.Store(true)
}

// CheckReadiness returns nil once a first fetch has completed, successfully or
// degraded.
func (o *Orchestrator) CheckReadiness(_ context.Context) error {
	if !o.ready.Load() {
		return errors.New("initial forecast fetch has not completed yet")
	}
	return nil
}
