package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

// clientCollector adapts a Registry's counters and gauges to
// prometheus.Collector, so the node's metrics can be scraped with the
// standard client_golang exposition machinery instead of this package's own
// hand-rolled PrometheusExporter. Grounded on the teacher's
// pkg/metrics.system_metrics.go snapshot-then-format pattern, generalized
// to collect on demand rather than on a fixed interval.
type clientCollector struct {
	registry  *Registry
	namespace string
}

// NewClientCollector wraps registry as a prometheus.Collector under the
// given metric namespace (e.g. "odana").
func NewClientCollector(registry *Registry, namespace string) prometheus.Collector {
	return &clientCollector{registry: registry, namespace: namespace}
}

func (c *clientCollector) Describe(ch chan<- *prometheus.Desc) {
	// Counters and gauges are created lazily by name, so no fixed
	// descriptor set can be declared up front; Collect reports each
	// metric as an unchecked descriptor instead.
}

func (c *clientCollector) Collect(ch chan<- prometheus.Metric) {
	c.registry.mu.RLock()
	counters := make(map[string]*Counter, len(c.registry.counters))
	for name, ctr := range c.registry.counters {
		counters[name] = ctr
	}
	gauges := make(map[string]*Gauge, len(c.registry.gauges))
	for name, g := range c.registry.gauges {
		gauges[name] = g
	}
	c.registry.mu.RUnlock()

	for name, ctr := range counters {
		desc := prometheus.NewDesc(c.namespace+"_"+name, "odana counter metric "+name, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(ctr.Value()))
	}
	for name, g := range gauges {
		desc := prometheus.NewDesc(c.namespace+"_"+name, "odana gauge metric "+name, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(g.Value()))
	}
}

// ClientHandler builds an HTTP handler serving registry's metrics in
// Prometheus exposition format via client_golang's promhttp, registered
// under its own prometheus.Registry so it never collides with any
// default/global registration elsewhere in the process.
func ClientHandler(registry *Registry, namespace string) http.Handler {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(NewClientCollector(registry, namespace))
	return promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})
}
