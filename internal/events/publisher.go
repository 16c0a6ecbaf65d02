// Package events publishes drift-run lifecycle events to Kafka so that
// downstream consumers (case management, alerting) can react to completed
// calculations. Publishing is best effort and never blocks a response.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/signalsfoundry/drift-simulator/internal/logging"
)

// RunCompleted describes one finished drift calculation.
type RunCompleted struct {
	RunID           string    `json:"run_id"`
	ObjectType      string    `json:"object_type"`
	ProjectionHours float64   `json:"projection_hours"`
	NumParticles    int       `json:"num_particles"`
	MeanDriftKm     float64   `json:"mean_drift_km"`
	StrandedCount   int       `json:"stranded_count"`
	DataDegraded    bool      `json:"data_degraded"`
	DurationSeconds float64   `json:"duration_seconds"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Publisher writes run events to a Kafka topic. A Publisher built without
// brokers is a no-op, so callers never need a nil check.
type Publisher struct {
	writer *kafka.Writer
	log    logging.Logger
}

func NewPublisher(brokers []string, topic string, log logging.Logger) *Publisher {
	if log == nil {
		log = logging.Noop()
	}
	p := &Publisher{log: log}
	if len(brokers) == 0 || topic == "" {
		return p
	}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        false,
	}
	return p
}

// Enabled reports whether events actually reach a broker.
func (p *Publisher) Enabled() bool {
	return p != nil && p.writer != nil
}

// PublishRunCompleted emits one event keyed by run ID.
func (p *Publisher) PublishRunCompleted(ctx context.Context, ev RunCompleted) error {
	if !p.Enabled() {
		return nil
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal run event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.RunID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish run event: %w", err)
	}
	p.log.Debug(ctx, "published run event", logging.String("run_id", ev.RunID))
	return nil
}

// Close flushes and releases the underlying writer.
func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}
