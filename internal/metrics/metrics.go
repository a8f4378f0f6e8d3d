package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wirecircle"

// Metrics holds the Prometheus collectors for hub activity.
// It implements core.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	circles  prometheus.Gauge
	members  prometheus.Gauge
	messages prometheus.Counter
	rejected prometheus.Counter
}

// New registers the hub collectors plus Go runtime and process collectors
// on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		circles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circles",
			Help:      "Number of circles with at least one member.",
		}),
		members: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "members",
			Help:      "Number of connections joined to a circle.",
		}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Chat messages accepted.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "joins_rejected_total",
			Help:      "Joins rejected because the nickname was taken.",
		}),
	}

	reg.MustRegister(
		m.circles,
		m.members,
		m.messages,
		m.rejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCircles sets the live circle and member gauges.
func (m *Metrics) ObserveCircles(circles, members int) {
	m.circles.Set(float64(circles))
	m.members.Set(float64(members))
}

// MessagePosted counts an accepted chat message.
func (m *Metrics) MessagePosted() {
	m.messages.Inc()
}

// JoinRejected counts a join refused for a taken nickname.
func (m *Metrics) JoinRejected() {
	m.rejected.Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
