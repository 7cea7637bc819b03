package notify

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/leadpop/popup-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Sender performs one delivery attempt.
type Sender interface {
	Send(ctx context.Context, n ports.LeadNotification) error
}

// Dispatcher fans accepted-lead notifications out to a fixed set of
// workers, sharded by client id so deliveries for one client stay
// ordered. Delivery is best effort: failures are logged and dropped.
type Dispatcher struct {
	workers []chan ports.LeadNotification
	sender  Sender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender Sender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.LeadNotification, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.LeadNotification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify enqueues a notification for its client's worker. Implements
// ports.Notifier; when the worker channel is full the notification is
// dropped rather than blocking the submission path.
func (d *Dispatcher) Notify(_ context.Context, n ports.LeadNotification) error {
	select {
	case d.workers[d.shardIndex(n.ClientID)] <- n:
	default:
		d.log.Warn().Str("client_id", n.ClientID).Msg("notification queue full, dropping")
	}
	return nil
}

// shardIndex maps a client id deterministically to a worker index.
func (d *Dispatcher) shardIndex(clientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.LeadNotification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sender.Send(ctx, n); err != nil {
				d.log.Error().Err(err).
					Str("client_id", n.ClientID).
					Int("worker_id", id).
					Msg("lead notification delivery failed")
			}
		}
	}
}
