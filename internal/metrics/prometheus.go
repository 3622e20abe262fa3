package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Describe implements prometheus.Collector.
//
// The key set grows lazily, so the registry is an unchecked collector and
// sends no descriptors up front.
func (r *Registry) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector by exporting the current snapshot.
func (r *Registry) Collect(ch chan<- prometheus.Metric) {
	for name, val := range r.Snapshot() {
		valueType := prometheus.CounterValue
		if gauges[MetricKey(name)] {
			valueType = prometheus.GaugeValue
		}
		desc := prometheus.NewDesc(
			name,
			"ttlmap metric "+name,
			nil, nil,
		)
		ch <- prometheus.MustNewConstMetric(desc, valueType, float64(val))
	}
}

// NewPrometheusRegistry returns a Prometheus registry exporting r together
// with the standard Go runtime and process collectors.
func NewPrometheusRegistry(r *Registry) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	cs := []prometheus.Collector{
		r,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Handler serves reg in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
