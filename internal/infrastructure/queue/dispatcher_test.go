package queue

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goldenbites/campus-eats/internal/core/domain"
	"github.com/goldenbites/campus-eats/internal/core/ports"
)

type recordingSink struct {
	mu     sync.Mutex
	byDev  map[string][]string
	total  int
	doneAt int
	done   chan struct{}
}

func newRecordingSink(expect int) *recordingSink {
	return &recordingSink{byDev: make(map[string][]string), doneAt: expect, done: make(chan struct{})}
}

func (s *recordingSink) Deliver(_ context.Context, ev ports.SessionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := ""
	if ev.Session != nil {
		id = ev.Session.ID
	}
	s.byDev[ev.DeviceID] = append(s.byDev[ev.DeviceID], id)
	s.total++
	if s.total == s.doneAt {
		close(s.done)
	}
	return nil
}

func TestDispatcher_PreservesPerDeviceOrder(t *testing.T) {
	const perDevice = 50
	devices := []string{"phone-a", "phone-b", "tablet-c"}
	sink := newRecordingSink(perDevice * len(devices))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(4, nil, zerolog.Nop())
	d.Start(ctx, sink)

	for i := 0; i < perDevice; i++ {
		for _, dev := range devices {
			d.Publish(ports.SessionEvent{DeviceID: dev, Session: &domain.Session{ID: dev + "-" + strconv.Itoa(i)}})
		}
	}

	select {
	case <-sink.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for deliveries")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	for _, dev := range devices {
		got := sink.byDev[dev]
		if len(got) != perDevice {
			t.Fatalf("%s: expected %d events, got %d", dev, perDevice, len(got))
		}
		for i, id := range got {
			if id != dev+"-"+strconv.Itoa(i) {
				t.Fatalf("%s: event %d out of order: %s", dev, i, id)
			}
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	first := d.shardIndex("device-42")
	for i := 0; i < 10; i++ {
		if d.shardIndex("device-42") != first {
			t.Fatal("shard index must be deterministic")
		}
	}
}

func TestDispatcher_PublishAfterStopDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(1, nil, zerolog.Nop())
	d.Start(ctx, newRecordingSink(-1))
	cancel()

	published := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer*2; i++ {
			d.Publish(ports.SessionEvent{DeviceID: "phone-a"})
		}
		close(published)
	}()

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked after the workers stopped")
	}
}
