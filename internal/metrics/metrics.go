package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "titanic"

// Metrics holds the collectors of one process. Each instance owns its
// registry, so tests never collide on global registration.
type Metrics struct {
	registry *prometheus.Registry

	rebuilds        *prometheus.CounterVec
	rebuildDuration prometheus.Histogram
	snapshotRecords prometheus.Gauge
	snapshotCreated prometheus.Gauge
	importRows      *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates a metrics set registered with a fresh registry that also
// carries the Go runtime and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rebuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "rebuilds_total",
			Help:      "Snapshot rebuilds by status",
		}, []string{"status"}),
		rebuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "rebuild_duration_seconds",
			Help:      "Time to build and publish one snapshot",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		snapshotRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "snapshot_records",
			Help:      "Number of records in the published snapshot",
		}),
		snapshotCreated: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "snapshot_created_timestamp_seconds",
			Help:      "Creation time of the published snapshot",
		}),
		importRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Imported manifest rows by result",
		}, []string{"result"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveRebuild records the outcome of one rebuild attempt
func (m *Metrics) ObserveRebuild(d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.rebuilds.WithLabelValues(status).Inc()
	m.rebuildDuration.Observe(d.Seconds())
}

// SetPublished records the snapshot now being served
func (m *Metrics) SetPublished(records int, createdAt time.Time) {
	m.snapshotRecords.Set(float64(records))
	m.snapshotCreated.Set(float64(createdAt.Unix()))
}

// ObserveImport records accepted and rejected manifest rows
func (m *Metrics) ObserveImport(accepted, rejected int) {
	m.importRows.WithLabelValues("accepted").Add(float64(accepted))
	m.importRows.WithLabelValues("rejected").Add(float64(rejected))
}

// ObserveRequest records one served API request
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
