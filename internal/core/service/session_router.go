package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/goldenbites/campus-eats/internal/core/domain"
	"github.com/goldenbites/campus-eats/internal/core/ports"
)

const (
	defaultLookupTimeout = 5 * time.Second
	sessionQueueSize     = 16
)

// ErrRouterStopped is returned by Flush once the router has been stopped.
var ErrRouterStopped = errors.New("session router stopped")

// RouterConfig tunes a SessionRouter.
type RouterConfig struct {
	Policy        domain.RoutePolicy
	LookupTimeout time.Duration
	Metrics       ports.RouterMetrics
}

type sessionChange struct {
	session *domain.Session
	// refresh marks the result of an explicit CurrentSession fetch; it is
	// dropped if any provider event arrived after seq was taken.
	refresh bool
	seq     uint64
}

type roleResult struct {
	gen     uint64
	userID  string
	isAdmin bool
	err     error
	took    time.Duration
}

// SessionRouter keeps a device's navigator on the screen group its session
// and role allow. All state is owned by a single loop goroutine; session
// changes, route changes and role lookup results reach it as messages.
type SessionRouter struct {
	auth    ports.AuthProvider
	roles   ports.RoleResolver
	nav     ports.Navigator
	policy  domain.RoutePolicy
	timeout time.Duration
	metrics ports.RouterMetrics
	log     zerolog.Logger

	sessions   chan sessionChange
	results    chan roleResult
	routeDirty chan struct{}
	flushes    chan chan struct{}
	done       chan struct{}

	state        atomic.Int32
	events       atomic.Uint64
	routeChanges atomic.Uint64
	fetchFailed  atomic.Bool

	startOnce   sync.Once
	stopOnce    sync.Once
	mu          sync.Mutex
	unsubscribe func()

	// Owned by the loop goroutine.
	gen       uint64
	inflight  int
	issued    domain.RouteTarget
	issuedAt  uint64
	hasIssued bool
	waiters   []chan struct{}
}

// NewSessionRouter returns a router in the Unknown state with its event loop
// running. Call Start to begin observing the auth provider and Stop to end
// the loop.
func NewSessionRouter(auth ports.AuthProvider, roles ports.RoleResolver, nav ports.Navigator, cfg RouterConfig, log zerolog.Logger) *SessionRouter {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = defaultLookupTimeout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = ports.NopRouterMetrics{}
	}
	r := &SessionRouter{
		auth:       auth,
		roles:      roles,
		nav:        nav,
		policy:     cfg.Policy,
		timeout:    cfg.LookupTimeout,
		metrics:    cfg.Metrics,
		log:        log,
		sessions:   make(chan sessionChange, sessionQueueSize),
		results:    make(chan roleResult, sessionQueueSize),
		routeDirty: make(chan struct{}, 1),
		flushes:    make(chan chan struct{}),
		done:       make(chan struct{}),
	}
	r.state.Store(int32(domain.StateUnknown))
	go r.run()
	return r
}

// Start subscribes to session changes and fetches the initial session. A
// failed fetch leaves the router running in the Unknown state; the error is
// returned so the caller can surface it or retry with Refresh.
func (r *SessionRouter) Start(ctx context.Context) error {
	r.startOnce.Do(func() {
		unsubscribe := r.auth.OnSessionChange(r.HandleSessionChange)
		r.mu.Lock()
		r.unsubscribe = unsubscribe
		r.mu.Unlock()
	})
	return r.Refresh(ctx)
}

// Refresh re-reads the current session from the auth provider. Provider
// events that arrive while the fetch is in flight take precedence over its
// result.
func (r *SessionRouter) Refresh(ctx context.Context) error {
	seq := r.events.Load()
	s, err := r.auth.CurrentSession(ctx)
	if err != nil {
		r.fetchFailed.Store(true)
		r.log.Warn().Err(err).Msg("session fetch failed, routing suspended")
		return fmt.Errorf("refresh session: %w: %w", domain.ErrSessionUnavailable, err)
	}
	r.enqueue(sessionChange{session: s, refresh: true, seq: seq})
	return nil
}

// HandleSessionChange feeds a session change into the router. A nil or
// user-less session means signed out.
func (r *SessionRouter) HandleSessionChange(s *domain.Session) {
	seq := r.events.Add(1)
	r.enqueue(sessionChange{session: s, seq: seq})
}

// HandleRouteChange tells the router the navigator moved. Notifications
// coalesce; the router re-reads the current segment when it handles one.
func (r *SessionRouter) HandleRouteChange() {
	r.routeChanges.Add(1)
	select {
	case r.routeDirty <- struct{}{}:
	default:
	}
}

// NeedsRefresh reports whether the last session fetch failed and no session
// has reached the router since. A role lookup in flight does not count.
func (r *SessionRouter) NeedsRefresh() bool {
	return r.fetchFailed.Load()
}

// State returns the current routing state.
func (r *SessionRouter) State() domain.SessionState {
	return domain.SessionState(r.state.Load())
}

// Flush blocks until every queued message and in-flight role lookup has
// been applied.
func (r *SessionRouter) Flush(ctx context.Context) error {
	ch := make(chan struct{})
	select {
	case r.flushes <- ch:
	case <-r.done:
		return ErrRouterStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ch:
		return nil
	case <-r.done:
		return ErrRouterStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop unsubscribes from the auth provider and ends the loop. Lookups still
// in flight complete in the background and their results are dropped.
func (r *SessionRouter) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		unsubscribe := r.unsubscribe
		r.unsubscribe = nil
		r.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
		close(r.done)
	})
}

func (r *SessionRouter) enqueue(msg sessionChange) {
	select {
	case r.sessions <- msg:
	case <-r.done:
	}
}

func (r *SessionRouter) run() {
	for {
		select {
		case <-r.done:
			return
		case msg := <-r.sessions:
			r.applySession(msg)
		case res := <-r.results:
			r.applyRole(res)
		case <-r.routeDirty:
			r.enforce(false)
		case w := <-r.flushes:
			r.waiters = append(r.waiters, w)
		}
		r.releaseWaiters()
	}
}

func (r *SessionRouter) applySession(msg sessionChange) {
	if msg.refresh && r.events.Load() != msg.seq {
		r.log.Debug().Msg("initial session superseded by provider event")
		return
	}

	r.fetchFailed.Store(false)
	r.gen++

	if !msg.session.Present() {
		r.setState(domain.StateAnonymous)
		r.enforce(true)
		return
	}

	r.setState(domain.StateUnknown)
	r.inflight++
	go r.lookup(r.gen, msg.session.UserID)
}

func (r *SessionRouter) lookup(gen uint64, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	isAdmin, err := r.roles.HasAdminRole(ctx, userID)
	res := roleResult{gen: gen, userID: userID, isAdmin: isAdmin, err: err, took: time.Since(start)}

	select {
	case r.results <- res:
	case <-r.done:
	}
}

func (r *SessionRouter) applyRole(res roleResult) {
	r.inflight--

	if res.gen != r.gen {
		r.metrics.StaleLookupDiscarded()
		r.log.Debug().Str("user_id", res.userID).Msg("stale role lookup discarded")
		return
	}

	isAdmin := res.isAdmin
	switch {
	case res.err != nil:
		isAdmin = false
		r.metrics.RoleLookup("error", res.took)
		r.log.Warn().Err(res.err).Str("user_id", res.userID).Msg("role lookup failed, routing as regular user")
	case isAdmin:
		r.metrics.RoleLookup("admin", res.took)
	default:
		r.metrics.RoleLookup("user", res.took)
	}

	r.setState(domain.StateForRole(isAdmin))
	r.enforce(true)
}

// enforce applies the routing policy to the navigator's current segment.
// The same redirect is not issued twice unless the route or the state
// changed since.
func (r *SessionRouter) enforce(transition bool) {
	state := r.State()
	seg := r.nav.CurrentRouteSegment()

	d := r.policy.Decide(state, seg)
	if transition {
		d = r.policy.DecideTransition(state, seg)
	}
	if !d.Redirect {
		r.hasIssued = false
		return
	}

	changes := r.routeChanges.Load()
	if r.hasIssued && r.issued == d.Target && r.issuedAt == changes {
		return
	}

	r.nav.ReplaceRoute(d.Target)
	r.issued, r.issuedAt, r.hasIssued = d.Target, changes, true
	r.metrics.Redirect(d.Target)

	r.log.Info().
		Str("state", state.String()).
		Str("from", seg.String()).
		Str("to", d.Target.Path()).
		Msg("route redirected")
}

func (r *SessionRouter) setState(next domain.SessionState) {
	prev := domain.SessionState(r.state.Swap(int32(next)))
	if prev == next {
		return
	}
	r.hasIssued = false
	r.metrics.Transition(prev, next)
	r.log.Debug().Str("from", prev.String()).Str("to", next.String()).Msg("session state changed")
}

func (r *SessionRouter) releaseWaiters() {
	if len(r.waiters) == 0 {
		return
	}
	if r.inflight > 0 || len(r.sessions) > 0 || len(r.results) > 0 || len(r.routeDirty) > 0 {
		return
	}
	for _, w := range r.waiters {
		close(w)
	}
	r.waiters = nil
}
