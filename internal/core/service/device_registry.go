package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/goldenbites/campus-eats/internal/core/domain"
	"github.com/goldenbites/campus-eats/internal/core/ports"
)

const (
	defaultMaxDevices = 10000
	defaultIdleTTL    = 30 * time.Minute
)

// RegistryConfig tunes a DeviceRegistry.
type RegistryConfig struct {
	Router RouterConfig
	// MaxDevices caps the number of attached devices.
	MaxDevices int
	// IdleTTL is how long a device may go without Attach before its router
	// is stopped and dropped.
	IdleTTL time.Duration
}

// StackFactory builds the navigation stack of a newly attached device.
type StackFactory func(deviceID string) ports.RouteStack

type device struct {
	stack      ports.RouteStack
	router     *SessionRouter
	unsubRoute func()
	lastSeen   time.Time
}

// DeviceRegistry owns one navigation stack and session router per device.
type DeviceRegistry struct {
	hub      *SessionHub
	roles    ports.RoleResolver
	newStack StackFactory
	cfg      RegistryConfig
	log      zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	devices map[string]*device
	closed  bool
}

func NewDeviceRegistry(hub *SessionHub, roles ports.RoleResolver, newStack StackFactory, cfg RegistryConfig, log zerolog.Logger) *DeviceRegistry {
	if cfg.MaxDevices <= 0 {
		cfg.MaxDevices = defaultMaxDevices
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	return &DeviceRegistry{
		hub:      hub,
		roles:    roles,
		newStack: newStack,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		devices:  make(map[string]*device),
	}
}

// Attach returns the router of deviceID, creating and starting it on first
// use. A session fetch failure is logged; the router stays attached in the
// Unknown state and retries on the next Attach. New devices are refused with
// domain.ErrDeviceLimit once MaxDevices are attached.
func (r *DeviceRegistry) Attach(ctx context.Context, deviceID string) (*SessionRouter, error) {
	if deviceID == "" {
		return nil, domain.ErrInvalidDevice
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRouterStopped
	}
	d, ok := r.devices[deviceID]
	if !ok {
		if len(r.devices) >= r.cfg.MaxDevices {
			r.mu.Unlock()
			return nil, domain.ErrDeviceLimit
		}
		d = r.newDevice(deviceID)
		r.devices[deviceID] = d
	}
	d.lastSeen = r.now()
	r.mu.Unlock()

	if !ok {
		if err := d.router.Start(ctx); err != nil {
			r.log.Warn().Err(err).Str("device_id", deviceID).Msg("device attached without session")
		}
		return d.router, nil
	}

	if d.router.NeedsRefresh() {
		if err := d.router.Refresh(ctx); err != nil {
			r.log.Debug().Err(err).Str("device_id", deviceID).Msg("session still unavailable")
		}
	}
	return d.router, nil
}

// Navigate pushes path on the device's stack and returns where the device
// ends up once the router has applied its policy.
func (r *DeviceRegistry) Navigate(ctx context.Context, deviceID, path string) (*ports.DeviceLocation, error) {
	router, err := r.Attach(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	d := r.lookup(deviceID)
	if d == nil {
		return nil, ErrRouterStopped
	}
	if err := d.stack.Push(path); err != nil {
		return nil, err
	}
	if err := router.Flush(ctx); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	return r.snapshot(deviceID), nil
}

// Settle waits until the device's router has applied every pending change.
func (r *DeviceRegistry) Settle(ctx context.Context, deviceID string) (*ports.DeviceLocation, error) {
	router, err := r.Attach(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if err := router.Flush(ctx); err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}
	return r.snapshot(deviceID), nil
}

// WatchExpiry periodically re-reads the session of every authenticated
// device, signs out those whose session disappeared and drops idle devices.
// It returns when ctx is done.
func (r *DeviceRegistry) WatchExpiry(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.SweepExpired(ctx)
			r.SweepIdle()
		}
	}
}

// SweepExpired runs one expiry pass and returns the number of devices that
// were signed out.
func (r *DeviceRegistry) SweepExpired(ctx context.Context) int {
	expired := 0
	for id, d := range r.attached() {
		if !d.router.State().Authenticated() {
			continue
		}
		s, err := r.hub.reader.CurrentSession(ctx, id)
		if err != nil {
			r.log.Warn().Err(err).Str("device_id", id).Msg("expiry check failed")
			continue
		}
		if s.Present() {
			continue
		}
		// Refresh rather than deliver a sign-out directly, so a sign-in that
		// races with the sweep wins.
		if err := d.router.Refresh(ctx); err != nil {
			continue
		}
		expired++
	}
	if expired > 0 {
		r.log.Info().Int("devices", expired).Msg("expired sessions signed out")
	}
	return expired
}

// SweepIdle stops and drops every device not attached within IdleTTL and
// returns how many were dropped. A dropped device starts over on its next
// Attach.
func (r *DeviceRegistry) SweepIdle() int {
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	var idle []*device
	for id, d := range r.devices {
		if d.lastSeen.Before(cutoff) {
			idle = append(idle, d)
			delete(r.devices, id)
		}
	}
	r.mu.Unlock()

	for _, d := range idle {
		d.unsubRoute()
		d.router.Stop()
	}
	if len(idle) > 0 {
		r.log.Info().Int("devices", len(idle)).Msg("idle devices dropped")
	}
	return len(idle)
}

// Attached reports how many devices currently hold a router.
func (r *DeviceRegistry) Attached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.devices)
}

// Close stops every router. Attach fails afterwards.
func (r *DeviceRegistry) Close() {
	r.mu.Lock()
	r.closed = true
	devices := r.devices
	r.devices = make(map[string]*device)
	r.mu.Unlock()

	for _, d := range devices {
		d.unsubRoute()
		d.router.Stop()
	}
}

func (r *DeviceRegistry) newDevice(deviceID string) *device {
	log := r.log.With().Str("device_id", deviceID).Logger()
	stack := r.newStack(deviceID)
	router := NewSessionRouter(r.hub.Provider(deviceID), r.roles, stack, r.cfg.Router, log)
	return &device{
		stack:      stack,
		router:     router,
		unsubRoute: stack.OnRouteChange(router.HandleRouteChange),
	}
}

func (r *DeviceRegistry) lookup(deviceID string) *device {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.devices[deviceID]
}

func (r *DeviceRegistry) attached() map[string]*device {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*device, len(r.devices))
	for id, d := range r.devices {
		out[id] = d
	}
	return out
}

func (r *DeviceRegistry) snapshot(deviceID string) *ports.DeviceLocation {
	d := r.lookup(deviceID)
	if d == nil {
		return &ports.DeviceLocation{DeviceID: deviceID, State: domain.StateUnknown}
	}
	return &ports.DeviceLocation{
		DeviceID: deviceID,
		State:    d.router.State(),
		Path:     d.stack.CurrentPath(),
		Segment:  d.stack.CurrentRouteSegment(),
	}
}
