package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seasonx"

// Metrics holds the daemon's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Selections *prometheus.CounterVec
	Zooms      *prometheus.CounterVec
	Exports    *prometheus.CounterVec
	Refreshes  *prometheus.CounterVec
	Sessions   prometheus.Gauge
}

// New registers every collector. subscribers, when non-nil, is sampled on
// each scrape for the SSE subscriber gauge.
func New(subscribers func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "date_selections_total",
			Help:      "Calendar clicks, by the range phase they produced.",
		}, []string{"phase"}),
		Zooms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zoom_changes_total",
			Help:      "Zoom requests, by direction and resulting level.",
		}, []string{"direction", "level"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Export requests, by format and result.",
		}, []string{"format", "result"}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_refreshes_total",
			Help:      "Market data reloads of every session, by result.",
		}, []string{"result"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Live dashboard sessions.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Selections,
		m.Zooms,
		m.Exports,
		m.Refreshes,
		m.Sessions,
	)

	if subscribers != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_subscribers",
			Help:      "Connected SSE subscribers.",
		}, func() float64 { return float64(subscribers()) }))
	}

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
