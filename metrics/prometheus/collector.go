// Package prometheus exports almanac metrics to Prometheus.
//
//	c, err := prometheus.NewCollector(prometheus.Config{Namespace: "flight_dynamics"})
//	if err != nil {
//		return err
//	}
//	alm := orbgo.New(orbgo.WithMetricsCollector(c))
package prometheus

import (
	"errors"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/orbgo"
)

// ErrRegistrationFailed is returned when a metric cannot be registered.
var ErrRegistrationFailed = errors.New("prometheus: metric registration failed")

const (
	statusOK    = "ok"
	statusError = "error"
)

// Config configures a Collector.
type Config struct {
	// Namespace prefixes every metric name. Defaults to "orbgo".
	Namespace string

	// Registerer receives the metrics. Defaults to prom.DefaultRegisterer.
	Registerer prom.Registerer

	// Buckets are the latency histogram buckets in seconds.
	// Defaults to prom.DefBuckets.
	Buckets []float64
}

// Collector implements orbgo.MetricsCollector on Prometheus counters and
// histograms.
type Collector struct {
	loads        *prom.CounterVec
	loadBytes    *prom.CounterVec
	loadLatency  *prom.HistogramVec
	queries      *prom.CounterVec
	queryLatency *prom.HistogramVec
	batches      *prom.CounterVec
	batchItems   *prom.CounterVec
	batchLatency *prom.HistogramVec
}

var _ orbgo.MetricsCollector = (*Collector)(nil)

// NewCollector creates and registers the almanac metrics.
// Metrics that are already registered with the same descriptor are reused,
// so two collectors sharing a registerer observe the same series.
func NewCollector(cfg Config) (*Collector, error) {
	if cfg.Namespace == "" {
		cfg.Namespace = "orbgo"
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prom.DefaultRegisterer
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = prom.DefBuckets
	}

	r := registrar{cfg: cfg}
	c := &Collector{
		loads:        r.counter("loads_total", "Kernel and dataset loads.", "kind", "status"),
		loadBytes:    r.counter("load_bytes_total", "Bytes of successfully loaded kernels and datasets.", "kind"),
		loadLatency:  r.histogram("load_duration_seconds", "Load latency.", "kind"),
		queries:      r.counter("queries_total", "Single queries.", "op", "status"),
		queryLatency: r.histogram("query_duration_seconds", "Single query latency.", "op"),
		batches:      r.counter("batches_total", "Batch queries.", "op"),
		batchItems:   r.counter("batch_items_total", "Items processed by batch queries.", "op", "status"),
		batchLatency: r.histogram("batch_duration_seconds", "Batch query latency.", "op"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

// RecordLoad implements orbgo.MetricsCollector.
func (c *Collector) RecordLoad(kind string, size int64, duration time.Duration, err error) {
	c.loads.WithLabelValues(kind, status(err)).Inc()
	c.loadLatency.WithLabelValues(kind).Observe(duration.Seconds())
	if err == nil {
		c.loadBytes.WithLabelValues(kind).Add(float64(size))
	}
}

// RecordQuery implements orbgo.MetricsCollector.
func (c *Collector) RecordQuery(op string, duration time.Duration, err error) {
	c.queries.WithLabelValues(op, status(err)).Inc()
	c.queryLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordBatch implements orbgo.MetricsCollector.
func (c *Collector) RecordBatch(op string, count, failed int, duration time.Duration) {
	c.batches.WithLabelValues(op).Inc()
	c.batchItems.WithLabelValues(op, statusOK).Add(float64(count - failed))
	c.batchItems.WithLabelValues(op, statusError).Add(float64(failed))
	c.batchLatency.WithLabelValues(op).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return statusError
	}
	return statusOK
}

// registrar registers metrics and keeps the first error.
type registrar struct {
	cfg Config
	err error
}

func (r *registrar) counter(name, help string, labels ...string) *prom.CounterVec {
	v := prom.NewCounterVec(prom.CounterOpts{
		Namespace: r.cfg.Namespace,
		Name:      name,
		Help:      help,
	}, labels)
	return register(r, v)
}

func (r *registrar) histogram(name, help string, labels ...string) *prom.HistogramVec {
	v := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: r.cfg.Namespace,
		Name:      name,
		Help:      help,
		Buckets:   r.cfg.Buckets,
	}, labels)
	return register(r, v)
}

func register[C prom.Collector](r *registrar, c C) C {
	if r.err != nil {
		return c
	}
	if err := r.cfg.Registerer.Register(c); err != nil {
		var already prom.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		r.err = errors.Join(ErrRegistrationFailed, err)
	}
	return c
}
