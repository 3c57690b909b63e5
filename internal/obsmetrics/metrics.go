// Package obsmetrics exposes the crawler's Prometheus counters,
// histograms, and gauges.
package obsmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "contactcrawl"
	subsystem = "crawler"
)

var durationBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60}

// Metrics holds every metric the crawler emits. Construct one per
// process with New, sharing it across every concurrent site crawl.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	durationSeconds  prometheus.Histogram
	activeJobs       prometheus.Gauge
	contactsFound    *prometheus.CounterVec
	robotsBlocked    *prometheus.CounterVec
}

// New registers and returns the crawler's metric set against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total page fetch attempts by outcome and host.",
		}, []string{"status", "host"}),

		durationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Per-page crawl duration in seconds.",
			Buckets:   durationBuckets,
		}),

		activeJobs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_jobs",
			Help:      "Number of enrichment jobs currently running.",
		}),

		contactsFound: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "contacts_found_total",
			Help:      "Total contacts discovered by type.",
		}, []string{"type"}),

		robotsBlocked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "robots_blocked_total",
			Help:      "Total candidate URLs skipped due to robots.txt.",
		}, []string{"host"}),
	}
}

// ObserveRequest increments the fetch-outcome counter for host.
func (m *Metrics) ObserveRequest(host, status string) {
	m.requestsTotal.WithLabelValues(status, host).Inc()
}

// ObserveDuration records one page crawl's wall-clock duration.
func (m *Metrics) ObserveDuration(seconds float64) {
	m.durationSeconds.Observe(seconds)
}

// ObserveRobotsBlocked increments the per-host robots-blocked counter.
func (m *Metrics) ObserveRobotsBlocked(host string) {
	m.robotsBlocked.WithLabelValues(host).Inc()
}

// ObserveContactsFound increments the contacts-found counters for one
// page's extraction result.
func (m *Metrics) ObserveContactsFound(emailCount, phoneCount int, sawSocial bool) {
	if emailCount > 0 {
		m.contactsFound.WithLabelValues("email").Add(float64(emailCount))
	}
	if phoneCount > 0 {
		m.contactsFound.WithLabelValues("phone").Add(float64(phoneCount))
	}
	if sawSocial {
		m.contactsFound.WithLabelValues("social").Inc()
	}
}

// SetActiveJobs reports the current in-flight job count.
func (m *Metrics) SetActiveJobs(n int) {
	m.activeJobs.Set(float64(n))
}
