// Package metrics defines and registers all custom Prometheus metrics of the
// campus-eats API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

const namespace = "campus"

// ── Session router metrics ───────────────────────────────────────────────────

// RouterTransitionsTotal counts session state transitions.
// Labels:
//   - from, to: state names (e.g. "unknown", "authenticated_admin")
var RouterTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "router_transitions_total",
		Help:      "Total number of session state transitions applied by device routers.",
	},
	[]string{"from", "to"},
)

// RouterRedirectsTotal counts navigation commands issued by device routers.
// Label:
//   - target: "welcome", "tabs_root" or "admin_root"
var RouterRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "router_redirects_total",
		Help:      "Total number of route replacements issued by device routers.",
	},
	[]string{"target"},
)

// RoleLookupDuration measures admin-role lookups.
// Label:
//   - result: "admin", "user" or "error"
var RoleLookupDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "role_lookup_duration_seconds",
		Help:      "Duration of admin-role lookups performed on session changes.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// StaleLookupsTotal counts role lookups whose session was superseded before
// they resolved.
var StaleLookupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_lookups_stale_total",
		Help:      "Total number of role lookup results discarded because a newer session change arrived.",
	},
)

// ── Session event metrics ────────────────────────────────────────────────────

// SessionEventsQueueDepth tracks the events waiting in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var SessionEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_events_queue_depth",
		Help:      "Current number of session events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// SessionEventDeliveryDuration measures fan-out of one event to its device.
// Label:
//   - outcome: "ok" or "error"
var SessionEventDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "session_event_delivery_duration_seconds",
		Help:      "Duration of delivering a session event to the subscribers of its device.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Auth metrics ─────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts authentication requests.
// Labels:
//   - action: "register", "login" or "logout"
//   - outcome: "ok" or an error class such as "invalid_credentials"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication requests, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// Recorder feeds router and dispatcher observations into the metrics above.
type Recorder struct{}

func (Recorder) Transition(from, to domain.SessionState) {
	RouterTransitionsTotal.WithLabelValues(from.String(), to.String()).Inc()
}

func (Recorder) Redirect(target domain.RouteTarget) {
	RouterRedirectsTotal.WithLabelValues(target.String()).Inc()
}

func (Recorder) RoleLookup(result string, d time.Duration) {
	RoleLookupDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (Recorder) StaleLookupDiscarded() {
	StaleLookupsTotal.Inc()
}

func (Recorder) QueueDepth(workerID string, depth int) {
	SessionEventsQueueDepth.WithLabelValues(workerID).Set(float64(depth))
}

func (Recorder) Delivered(d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	SessionEventDeliveryDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// Workers pre-creates the queue depth series so idle workers report zero.
func (r Recorder) Workers(n int) {
	for i := 0; i < n; i++ {
		r.QueueDepth(strconv.Itoa(i), 0)
	}
}
