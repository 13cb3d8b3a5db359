package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/forem/forem-sub028/internal/feed"
)

// Metrics implements feed.Observer on prometheus counters.
type Metrics struct {
	pagesServed  *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		pagesServed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feed_pages_served_total",
			Help: "Feed pages served, by strategy and degradation.",
		}, []string{"strategy", "degraded"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feed_cache_lookups_total",
			Help: "Feed page cache lookups, by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) PageServed(strategy string, degraded bool) {
	d := "false"
	if degraded {
		d = "true"
	}
	m.pagesServed.WithLabelValues(strategy, d).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	r := "miss"
	if hit {
		r = "hit"
	}
	m.cacheLookups.WithLabelValues(r).Inc()
}

var _ feed.Observer = (*Metrics)(nil)
