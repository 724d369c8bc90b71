package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// DropCounter is notified when an event is discarded because its worker's
// buffer is full.
type DropCounter interface {
	AuditEventDropped(eventType string)
}

// Dispatcher routes auth events to a fixed set of workers using consistent
// hashing on the username, so each account's events are written in order.
// It implements ports.AuditSink.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	repo    ports.AuditRepository
	drops   DropCounter
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.AuditSink = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. drops may be nil.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, drops DropCounter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		repo:    repo,
		drops:   drops,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record hands the event to the worker responsible for its username. It
// never blocks: when that worker's buffer is full the event is dropped.
func (d *Dispatcher) Record(event domain.AuthEvent) {
	select {
	case d.workers[d.shardIndex(event.Username)] <- event:
	default:
		if d.drops != nil {
			d.drops.AuditEventDropped(string(event.Type))
		}
		d.log.Warn().
			Str("event_id", event.ID).
			Str("type", string(event.Type)).
			Msg("audit buffer full, event dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-ch:
			// The request that produced the event may already be gone.
			if err := d.repo.InsertAuthEvent(context.WithoutCancel(ctx), &event); err != nil {
				d.log.Error().Err(err).
					Str("event_id", event.ID).
					Str("type", string(event.Type)).
					Int("worker_id", id).
					Msg("audit event write failed")
			}
		}
	}
}
