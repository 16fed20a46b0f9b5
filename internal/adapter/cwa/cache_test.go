package cwa

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulbon/Raining-Day-Map/internal/domain"
	"github.com/vulbon/Raining-Day-Map/internal/observability"
)

// countingForecaster records calls and serves canned slots per region.
type countingForecaster struct {
	calls map[string]int
	slots map[string][]domain.ForecastSlot
	err   error
}

func (f *countingForecaster) Forecast(_ context.Context, regionName string) ([]domain.ForecastSlot, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[regionName]++
	if f.err != nil {
		return nil, f.err
	}
	return f.slots[regionName], nil
}

func cachedWithClock(inner Forecaster, size int, ttl time.Duration, clock clockwork.Clock) *CachedForecaster {
	c := NewCachedForecaster(inner, size, ttl, observability.NewMetricsForTesting())
	c.cache.clock = clock
	return c
}

func TestCachedForecaster(t *testing.T) {
	ctx := context.Background()
	taipeiSlots := []domain.ForecastSlot{{StartTime: "s", EndTime: "e", PoP: 40}}

	t.Run("second fetch within TTL hits cache", func(t *testing.T) {
		inner := &countingForecaster{slots: map[string][]domain.ForecastSlot{"臺北市": taipeiSlots}}
		cached := cachedWithClock(inner, 4, 5*time.Minute, clockwork.NewFakeClock())

		first, err := cached.Forecast(ctx, "臺北市")
		require.NoError(t, err)
		second, err := cached.Forecast(ctx, "臺北市")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, inner.calls["臺北市"])
	})

	t.Run("expired entry refetches", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		inner := &countingForecaster{slots: map[string][]domain.ForecastSlot{"臺北市": taipeiSlots}}
		cached := cachedWithClock(inner, 4, 5*time.Minute, clock)

		_, err := cached.Forecast(ctx, "臺北市")
		require.NoError(t, err)

		clock.Advance(5*time.Minute + time.Second)

		_, err = cached.Forecast(ctx, "臺北市")
		require.NoError(t, err)
		assert.Equal(t, 2, inner.calls["臺北市"])
	})

	t.Run("errors are not cached", func(t *testing.T) {
		inner := &countingForecaster{err: errors.New("upstream down")}
		cached := cachedWithClock(inner, 4, 5*time.Minute, clockwork.NewFakeClock())

		_, err := cached.Forecast(ctx, "臺北市")
		require.Error(t, err)
		_, err = cached.Forecast(ctx, "臺北市")
		require.Error(t, err)

		assert.Equal(t, 2, inner.calls["臺北市"])
	})

	t.Run("evicts least recently used region", func(t *testing.T) {
		inner := &countingForecaster{slots: map[string][]domain.ForecastSlot{
			"臺北市": taipeiSlots,
			"新北市": {{PoP: 10}},
			"基隆市": {{PoP: 20}},
		}}
		cached := cachedWithClock(inner, 2, time.Hour, clockwork.NewFakeClock())

		_, _ = cached.Forecast(ctx, "臺北市")
		_, _ = cached.Forecast(ctx, "新北市")
		_, _ = cached.Forecast(ctx, "基隆市") // evicts 臺北市
		_, _ = cached.Forecast(ctx, "臺北市")

		assert.Equal(t, 2, inner.calls["臺北市"])
		assert.Equal(t, 1, inner.calls["新北市"])
	})

	t.Run("cached slice is a copy", func(t *testing.T) {
		inner := &countingForecaster{slots: map[string][]domain.ForecastSlot{"臺北市": {{PoP: 40}}}}
		cached := cachedWithClock(inner, 4, time.Hour, clockwork.NewFakeClock())

		first, err := cached.Forecast(ctx, "臺北市")
		require.NoError(t, err)
		first[0].PoP = 99

		second, err := cached.Forecast(ctx, "臺北市")
		require.NoError(t, err)
		assert.Equal(t, 40, second[0].PoP)
	})
}
