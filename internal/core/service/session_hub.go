package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goldenbites/campus-eats/internal/core/domain"
	"github.com/goldenbites/campus-eats/internal/core/ports"
)

// SessionReader reads the live session of a device.
type SessionReader interface {
	CurrentSession(ctx context.Context, deviceID string) (*domain.Session, error)
}

// SessionHub fans session events out to the subscribers of each device and
// hands out per-device AuthProvider views.
type SessionHub struct {
	reader SessionReader
	log    zerolog.Logger

	mu   sync.RWMutex
	next uint64
	subs map[string]map[uint64]func(*domain.Session)
}

func NewSessionHub(reader SessionReader, log zerolog.Logger) *SessionHub {
	return &SessionHub{
		reader: reader,
		log:    log,
		subs:   make(map[string]map[uint64]func(*domain.Session)),
	}
}

// Provider returns the AuthProvider of deviceID.
func (h *SessionHub) Provider(deviceID string) ports.AuthProvider {
	return &deviceProvider{hub: h, deviceID: deviceID}
}

// Deliver invokes the device's handlers in subscription order.
func (h *SessionHub) Deliver(_ context.Context, event ports.SessionEvent) error {
	handlers := h.handlers(event.DeviceID)
	for _, fn := range handlers {
		fn(event.Session)
	}
	h.log.Debug().
		Str("device_id", event.DeviceID).
		Bool("signed_in", event.Session.Present()).
		Int("subscribers", len(handlers)).
		Msg("session event delivered")
	return nil
}

// Subscribers reports how many handlers are registered for deviceID.
func (h *SessionHub) Subscribers(deviceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[deviceID])
}

func (h *SessionHub) subscribe(deviceID string, fn func(*domain.Session)) func() {
	h.mu.Lock()
	h.next++
	id := h.next
	if h.subs[deviceID] == nil {
		h.subs[deviceID] = make(map[uint64]func(*domain.Session))
	}
	h.subs[deviceID][id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[deviceID], id)
			if len(h.subs[deviceID]) == 0 {
				delete(h.subs, deviceID)
			}
		})
	}
}

func (h *SessionHub) handlers(deviceID string) []func(*domain.Session) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]uint64, 0, len(h.subs[deviceID]))
	for id := range h.subs[deviceID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]func(*domain.Session), len(ids))
	for i, id := range ids {
		out[i] = h.subs[deviceID][id]
	}
	return out
}

type deviceProvider struct {
	hub      *SessionHub
	deviceID string
}

func (p *deviceProvider) CurrentSession(ctx context.Context) (*domain.Session, error) {
	return p.hub.reader.CurrentSession(ctx, p.deviceID)
}

func (p *deviceProvider) OnSessionChange(handler func(*domain.Session)) func() {
	return p.hub.subscribe(p.deviceID, handler)
}
