// Package metrics adapts logdex.Observer callbacks into Prometheus
// collectors, the way the wider retrieval pack's vector-store example
// wires a PrometheusObserver into its own engine's observer hook.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver implements logdex.Observer. It is registered against
// a caller-supplied registry rather than the global default so a process
// embedding logdex can host it alongside its own metrics.
type PrometheusObserver struct {
	opLatency *prometheus.HistogramVec
	opTotal   *prometheus.CounterVec
}

// NewPrometheusObserver constructs an observer and registers its
// collectors with reg. Passing prometheus.DefaultRegisterer matches the
// common case of a single-metrics-endpoint process.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	o := &PrometheusObserver{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logdex_operation_latency_seconds",
			Help:    "Latency of engine operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		opTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logdex_operations_total",
			Help: "Total engine operations, partitioned by outcome.",
		}, []string{"op", "status"}),
	}
	reg.MustRegister(o.opLatency, o.opTotal)
	return o
}

func (o *PrometheusObserver) observe(op string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	o.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
	o.opTotal.WithLabelValues(op, status).Inc()
}

func (o *PrometheusObserver) OnGet(d time.Duration, err error)    { o.observe("get", d, err) }
func (o *PrometheusObserver) OnPage(d time.Duration, err error)   { o.observe("page", d, err) }
func (o *PrometheusObserver) OnInsert(d time.Duration, err error) { o.observe("insert", d, err) }
func (o *PrometheusObserver) OnDelete(d time.Duration, err error) { o.observe("delete", d, err) }
