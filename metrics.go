package vraseniors

import (
	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsNamespace = "vraseniors"

// Metrics holds the application's Prometheus collectors. Each App owns its
// own registry so tests can build several apps in one process.
type Metrics struct {
	Registry *prom.Registry

	uploads    *prom.CounterVec
	publishes  *prom.CounterVec
	gateDenied *prom.CounterVec
	logins     *prom.CounterVec
}

// NewMetrics registers the collectors. sessions and items are sampled at
// scrape time.
func NewMetrics(sessions, items func() float64) *Metrics {
	m := &Metrics{
		Registry: prom.NewRegistry(),
		uploads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace, Name: "uploads_total", Help: "Uploads by kind and result",
		}, []string{"kind", "result"}),
		publishes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace, Name: "publishes_total", Help: "Publish attempts by result",
		}, []string{"result"}),
		gateDenied: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace, Name: "gate_denied_total", Help: "Requests refused by the access gate",
		}, []string{"realm", "reason"}),
		logins: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace, Name: "editor_logins_total", Help: "Editor login attempts by result",
		}, []string{"result"}),
	}
	m.Registry.MustRegister(m.uploads, m.publishes, m.gateDenied, m.logins)
	m.Registry.MustRegister(
		prom.NewGaugeFunc(prom.GaugeOpts{Namespace: metricsNamespace, Name: "editor_sessions", Help: "Open editing sessions"}, sessions),
		prom.NewGaugeFunc(prom.GaugeOpts{Namespace: metricsNamespace, Name: "content_items", Help: "Items in the loaded content document"}, items),
	)
	m.Registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return m
}

func (m *Metrics) upload(kind, result string) {
	m.uploads.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) publish(result string) {
	m.publishes.WithLabelValues(result).Inc()
}

func (m *Metrics) denied(realm, reason string) {
	m.gateDenied.WithLabelValues(realm, reason).Inc()
}

func (m *Metrics) login(result string) {
	m.logins.WithLabelValues(result).Inc()
}
