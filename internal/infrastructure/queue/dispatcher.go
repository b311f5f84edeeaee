package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes purchase events to a fixed set of workers using
// consistent hashing on the username, guaranteeing per-account ordering of
// the audit trail. Writes are best effort: a failed insert is logged and
// never surfaced to the purchase flow.
type Dispatcher struct {
	workers []chan domain.PurchaseEvent
	repo    ports.PurchaseEventRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.PurchaseEventRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.PurchaseEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.PurchaseEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Stop is called.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Stop closes the worker channels and blocks until every queued event has
// been written. Call it only after the HTTP server has finished draining
// in-flight requests; Enqueue after Stop panics.
func (d *Dispatcher) Stop() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// Enqueue sends an event to the worker responsible for its account.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event domain.PurchaseEvent) {
	d.workers[d.shardIndex(event.Username)] <- event
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(id int, ch <-chan domain.PurchaseEvent) {
	defer d.wg.Done()
	for event := range ch {
		if err := d.repo.InsertEvent(context.Background(), &event); err != nil {
			d.log.Error().Err(err).
				Str("username", event.Username).
				Str("payment_id", event.PaymentID).
				Int("worker_id", id).
				Msg("failed to record purchase event")
		}
	}
}
