// Package metrics owns the Prometheus registry served on /metrics.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "todos"

// Metrics bundles the service's collectors on a private registry.
type Metrics struct {
	Registry     *prometheus.Registry
	photoOutcome *prometheus.CounterVec
}

func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		photoOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "photos",
			Name:      "operations_total",
			Help:      "Photo attachment operations by kind and outcome.",
		}, []string{"operation", "outcome"}),
	}

	for _, c := range []prometheus.Collector{
		m.photoOutcome,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return m, nil
}

// RecordPhoto counts one photo operation ("attach", "detach", "cleanup",
// "resolve") with its outcome ("ok", "skipped", "failed").
func (m *Metrics) RecordPhoto(operation, outcome string) {
	if m == nil {
		return
	}
	m.photoOutcome.WithLabelValues(operation, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
