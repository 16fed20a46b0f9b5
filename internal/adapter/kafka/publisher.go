// Package kafka publishes state events for downstream consumers such as
// notification fan-out and usage analytics.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/vulbon/Raining-Day-Map/internal/app"
	"github.com/vulbon/Raining-Day-Map/internal/config"
	"github.com/vulbon/Raining-Day-Map/internal/observability"
)

// Publisher produces state events to a Kafka topic.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured state-event topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// Run consumes events until the channel closes or ctx is cancelled. Publish
// failures are logged and counted; the stream itself is never interrupted.
func (p *Publisher) Run(ctx context.Context, events <-chan app.StateEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := p.Publish(ctx, ev); err != nil {
				p.metrics.PublishErrors.Inc()
				p.logger.Error("state event publish failed", "type", ev.Type, "error", err)
				continue
			}
			p.metrics.EventsPublished.Inc()
		}
	}
}

// Publish serializes and writes a single state event.
func (p *Publisher) Publish(ctx context.Context, ev app.StateEvent) error {
	msg, err := serializeToMessage(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a StateEvent into a Kafka message. The key is
// the region name so per-region ordering survives partitioning.
func serializeToMessage(ev app.StateEvent) (kafkago.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize state event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ev.View.Weather.RegionName),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
			{Key: "emitted_at", Value: []byte(ev.At.Format(time.RFC3339))},
		},
	}, nil
}
