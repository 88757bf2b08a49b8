// Package analytics publishes query events to Kafka for downstream
// consumers. Publishing is fire-and-forget: a full buffer drops events and a
// broker failure never blocks or fails a search.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/avelichko/searchcore/pkg/kafka"
)

// QueryEvent describes one executed search query.
type QueryEvent struct {
	Query      string    `json:"query"`
	Returned   int       `json:"returned"`
	ZeroResult bool      `json:"zero_result"`
	LatencyMs  int64     `json:"latency_ms"`
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Collector buffers query events and publishes them to Kafka in the
// background.
type Collector struct {
	producer *kafka.Producer
	events   chan QueryEvent
	done     chan struct{}
	logger   *slog.Logger
}

// NewCollector creates a Collector with the given buffer capacity.
func NewCollector(producer *kafka.Producer, bufferSize int) *Collector {
	return &Collector{
		producer: producer,
		events:   make(chan QueryEvent, bufferSize),
		done:     make(chan struct{}),
		logger:   slog.Default().With("component", "analytics-collector"),
	}
}

// Start launches the publish loop. It runs until ctx is cancelled and the
// event channel has drained.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event := <-c.events:
				c.publish(ctx, event)
			case <-ctx.Done():
				for {
					select {
					case event := <-c.events:
						c.publish(context.Background(), event)
					default:
						return
					}
				}
			}
		}
	}()
}

// Track enqueues an event without blocking. Events are dropped when the
// buffer is full.
func (c *Collector) Track(event QueryEvent) {
	select {
	case c.events <- event:
	default:
		c.logger.Warn("event buffer full, dropping query event", "query", event.Query)
	}
}

// Close waits for the publish loop to finish.
func (c *Collector) Close() {
	<-c.done
}

func (c *Collector) publish(ctx context.Context, event QueryEvent) {
	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.producer.Publish(publishCtx, kafka.Event{Key: event.Query, Value: event}); err != nil {
		c.logger.Error("failed to publish query event", "query", event.Query, "error", err)
	}
}
