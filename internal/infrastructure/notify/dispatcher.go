// Package notify delivers status-change notifications to the package
// owner. Delivery is fire-and-forget: a notification failure never fails
// the API call that triggered it.
package notify

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/panelbunker/tracking-api/internal/api/metrics"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Notifier sends one status-change notification.
type Notifier interface {
	Notify(ctx context.Context, change ports.StatusChange) error
}

// Dispatcher fans status changes out to a fixed set of workers, sharded by
// tracking id with consistent hashing so one shipment's notifications keep
// their order.
type Dispatcher struct {
	workers  []chan ports.StatusChange
	notifier Notifier
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.StatusChange, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.StatusChange, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish enqueues a change on the worker responsible for its tracking id.
// When the worker's buffer is full the change is dropped rather than
// blocking the request path.
func (d *Dispatcher) Publish(change ports.StatusChange) {
	select {
	case d.workers[d.shardIndex(change.TrackingID)] <- change:
	default:
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		d.log.Warn().Str("tracking_id", change.TrackingID).Msg("notification queue full, change dropped")
	}
}

func (d *Dispatcher) shardIndex(trackingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(trackingID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.StatusChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			if err := d.notifier.Notify(ctx, change); err != nil {
				metrics.NotificationsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("tracking_id", change.TrackingID).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
		}
	}
}
