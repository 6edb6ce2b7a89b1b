package analytics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/kafka"
)

// Publisher ships a batch of events. *kafka.Producer satisfies it.
type Publisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
}

// Collector feeds events to the Aggregator synchronously and, when a
// Publisher is set, buffers them for batched publishing in the background.
type Collector struct {
	publisher     Publisher
	aggregator    *Aggregator
	eventCh       chan kafka.Event
	batchSize     int
	flushInterval time.Duration
	dropped       atomic.Int64
	logger        *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	done    chan struct{}
}

type CollectorOption func(*Collector)

// WithBatching sets the flush size and interval for published events.
func WithBatching(size int, interval time.Duration) CollectorOption {
	return func(c *Collector) {
		if size > 0 {
			c.batchSize = size
		}
		if interval > 0 {
			c.flushInterval = interval
		}
	}
}

// NewCollector creates a collector. publisher may be nil, in which case
// events only reach the aggregator.
func NewCollector(publisher Publisher, aggregator *Aggregator, bufferSize int, opts ...CollectorOption) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	c := &Collector{
		publisher:     publisher,
		aggregator:    aggregator,
		eventCh:       make(chan kafka.Event, bufferSize),
		batchSize:     100,
		flushInterval: time.Second,
		logger:        slog.Default().With("component", "analytics-collector"),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the publish loop. It is a no-op without a Publisher.
func (c *Collector) Start(ctx context.Context) {
	c.mu.Lock()
	if c.publisher == nil || c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go c.run(ctx)
	c.logger.Info("analytics collector started",
		"buffer_size", cap(c.eventCh),
		"batch_size", c.batchSize,
		"flush_interval", c.flushInterval,
	)
}

func (c *Collector) run(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	batch := make([]kafka.Event, 0, c.batchSize)
	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := c.publisher.PublishBatch(ctx, batch); err != nil {
			c.logger.Error("failed to publish analytics batch", "events", len(batch), "error", err)
		}
		batch = make([]kafka.Event, 0, c.batchSize)
	}
	final := func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		flush(flushCtx)
	}

	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				final()
				return
			}
			batch = append(batch, event)
			if len(batch) >= c.batchSize {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		case <-ctx.Done():
		drain:
			for {
				select {
				case event, ok := <-c.eventCh:
					if !ok {
						break drain
					}
					batch = append(batch, event)
				default:
					break drain
				}
			}
			final()
			return
		}
	}
}

// TrackSearch records a search event.
func (c *Collector) TrackSearch(event SearchEvent) {
	if c.aggregator != nil {
		c.aggregator.RecordSearch(event)
	}
	c.enqueue(kafka.Event{Key: event.Query, Value: event})
}

// TrackIndex records an index build.
func (c *Collector) TrackIndex(event IndexEvent) {
	if c.aggregator != nil {
		c.aggregator.RecordIndex(event)
	}
	c.enqueue(kafka.Event{Key: string(EventIndex), Value: event})
}

func (c *Collector) enqueue(event kafka.Event) {
	if c.publisher == nil {
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.dropped.Add(1)
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (c *Collector) Dropped() int64 {
	return c.dropped.Load()
}

// Close stops accepting events, flushes what is buffered and waits for the
// publish loop to exit.
func (c *Collector) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	started := c.started
	close(c.eventCh)
	c.mu.Unlock()

	if started {
		<-c.done
	}
}
