package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/goldenbites/campus-eats/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// DepthObserver receives queue depth and delivery timing samples.
type DepthObserver interface {
	QueueDepth(workerID string, depth int)
	Delivered(d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) QueueDepth(string, int)         {}
func (nopObserver) Delivered(time.Duration, error) {}

// Dispatcher routes session events to a fixed set of workers using
// consistent hashing on the device id, guaranteeing per-device event
// ordering.
type Dispatcher struct {
	workers  []chan ports.SessionEvent
	observer DepthObserver
	log      zerolog.Logger
	done     chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. A nil observer disables
// instrumentation.
func NewDispatcher(numWorkers int, observer DepthObserver, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if observer == nil {
		observer = nopObserver{}
	}
	d := &Dispatcher{
		workers:  make([]chan ports.SessionEvent, numWorkers),
		observer: observer,
		log:      log,
		done:     make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SessionEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines delivering to sink. Workers stop
// when ctx is cancelled; Publish drops events from then on.
func (d *Dispatcher) Start(ctx context.Context, sink ports.SessionEventSink) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, sink, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.done)
	}()
}

// Workers reports the number of shards.
func (d *Dispatcher) Workers() int {
	return len(d.workers)
}

// Publish sends an event to the worker responsible for its device.
// The call is non-blocking up to channelBuffer capacity. Once the workers
// have stopped, events that do not fit the buffer are dropped.
func (d *Dispatcher) Publish(event ports.SessionEvent) {
	idx := d.shardIndex(event.DeviceID)
	select {
	case d.workers[idx] <- event:
		d.observer.QueueDepth(strconv.Itoa(idx), len(d.workers[idx]))
	case <-d.done:
		d.log.Warn().Str("device_id", event.DeviceID).Msg("dispatcher stopped, session event dropped")
	}
}

// shardIndex maps a device id deterministically to a worker index.
func (d *Dispatcher) shardIndex(deviceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(deviceID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, sink ports.SessionEventSink, id int, ch <-chan ports.SessionEvent) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.observer.QueueDepth(workerID, len(ch))

			start := time.Now()
			err := sink.Deliver(ctx, event)
			d.observer.Delivered(time.Since(start), err)
			if err != nil {
				d.log.Error().Err(err).
					Str("device_id", event.DeviceID).
					Int("worker_id", id).
					Msg("session event delivery failed")
			}
		}
	}
}
