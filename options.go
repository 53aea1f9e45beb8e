package orbgo

import (
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/orbgo/blobstore"
	"github.com/hupe1980/orbgo/internal/fs"
	"github.com/hupe1980/orbgo/resource"
)

const instrumentationName = "github.com/hupe1980/orbgo"

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	batchConcurrency int
	resources        *resource.Controller
	mmap             bool
	tracer           trace.Tracer
	stores           []storeMount
	cacheDir         string
	fsys             fs.FileSystem
}

// storeMount binds a blob store to a URI prefix for meta-almanac resolution.
type storeMount struct {
	prefix string
	store  blobstore.BlobStore
}

// Option configures an Almanac.
//
// Options are carried over to every Almanac derived from the one they were
// passed to (by Load, Swap, Unload and friends).
type Option func(*options)

// WithMetricsCollector configures a metrics collector for loads and queries.
// Pass nil to disable metrics.
//
// Example with basic in-memory metrics:
//
//	metrics := &orbgo.BasicMetricsCollector{}
//	alm := orbgo.New(orbgo.WithMetricsCollector(metrics))
//	// ... load and query ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for lifecycle operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := orbgo.NewJSONLogger(slog.LevelInfo)
//	alm := orbgo.New(orbgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithBatchConcurrency limits the number of goroutines a batch query fans
// out to. Values <= 0 select GOMAXPROCS.
func WithBatchConcurrency(n int) Option {
	return func(o *options) {
		o.batchConcurrency = n
	}
}

// WithResourceController shares a resource controller between Almanacs.
// It bounds the heap held by kernels that are not memory-mapped and the
// number and throughput of concurrent meta-almanac downloads.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithMmap selects whether kernel files loaded from disk are memory-mapped
// (the default) or read onto the heap.
func WithMmap(enabled bool) Option {
	return func(o *options) {
		o.mmap = enabled
	}
}

// WithTracer sets the tracer for lifecycle spans. By default the global
// OpenTelemetry tracer provider is used.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t == nil {
			t = otel.Tracer(instrumentationName)
		}
		o.tracer = t
	}
}

// WithBlobStore registers store for meta-almanac URIs starting with prefix,
// e.g. "s3://ephemerides/". The longest matching prefix wins and the
// remainder of the URI is the blob name.
func WithBlobStore(prefix string, store blobstore.BlobStore) Option {
	return func(o *options) {
		o.stores = slices.DeleteFunc(o.stores, func(m storeMount) bool { return m.prefix == prefix })
		if store != nil {
			o.stores = append(o.stores, storeMount{prefix: prefix, store: store})
		}
	}
}

// WithCacheDir stores meta-almanac downloads in dir. A cached file whose
// CRC32 matches the meta-almanac entry is loaded instead of being fetched
// again.
func WithCacheDir(dir string) Option {
	return func(o *options) {
		o.cacheDir = dir
	}
}

// resolve returns the store and blob name for uri.
func (o *options) resolve(uri string) (blobstore.BlobStore, string, bool) {
	best := -1
	for i, m := range o.stores {
		if strings.HasPrefix(uri, m.prefix) && (best < 0 || len(m.prefix) > len(o.stores[best].prefix)) {
			best = i
		}
	}
	if best < 0 {
		return nil, "", false
	}
	m := o.stores[best]
	return m.store, strings.TrimPrefix(uri, m.prefix), true
}

func (o *options) concurrency() int {
	if o.batchConcurrency > 0 {
		return o.batchConcurrency
	}
	return runtime.GOMAXPROCS(0)
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		mmap:             true,
		tracer:           otel.Tracer(instrumentationName),
		fsys:             fs.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
