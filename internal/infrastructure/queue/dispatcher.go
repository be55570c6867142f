package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ansi-niger/decree-portal/internal/api/metrics"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	recordTimeout  = 10 * time.Second
)

// Dispatcher records activity entries off the request path. Entries are
// routed to a fixed set of workers by client address, so the entries of one
// client are stored in the order they were enqueued.
type Dispatcher struct {
	workers []chan ports.ActivityInput
	service ports.ActivityService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ActivityInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ActivityInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and stop
// when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.runWorker(ctx, i, ch)
		}()
	}
}

// Wait blocks until every worker has drained and stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an entry to the worker responsible for its client address.
// It never blocks: when that worker's channel is full the entry is dropped
// and counted.
func (d *Dispatcher) Enqueue(in ports.ActivityInput) {
	idx := d.shardIndex(in.IPAddress)
	select {
	case d.workers[idx] <- in:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().
			Str("action", string(in.Action)).
			Int("worker_id", idx).
			Msg("activity queue full, entry dropped")
	}
}

// shardIndex maps a client address deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ActivityInput) {
	depth := metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case in, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.record(ctx, id, in)
		}
	}
}

// drain stores what is still queued once the dispatcher is shutting down.
func (d *Dispatcher) drain(id int, ch <-chan ports.ActivityInput) {
	ctx := context.Background()
	for {
		select {
		case in := <-ch:
			d.record(ctx, id, in)
		default:
			return
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, in ports.ActivityInput) {
	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	start := time.Now()
	if err := d.service.Record(ctx, in); err != nil {
		metrics.ActivityErrorsTotal.WithLabelValues("record_failed").Inc()
		metrics.ActivityProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		d.log.Error().Err(err).
			Str("action", string(in.Action)).
			Int("worker_id", id).
			Msg("activity recording failed")
		return
	}
	metrics.ActivityRecordedTotal.WithLabelValues(string(in.Action)).Inc()
	metrics.ActivityProcessingDuration.WithLabelValues(string(in.Action)).Observe(time.Since(start).Seconds())
}
