package orbgo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/orbgo/blobstore"
	"github.com/hupe1980/orbgo/internal/fs"
	"github.com/hupe1980/orbgo/internal/hash"
)

var metaValidate = validator.New(validator.WithRequiredStructEnabled())

// MetaFile is one kernel or dataset of a MetaAlmanac.
type MetaFile struct {
	// URI is a local path, a file:// URI, or a URI matching a blob store
	// registered with WithBlobStore.
	URI string `yaml:"uri" validate:"required"`
	// CRC32 is the IEEE checksum of the file, verified before it is parsed.
	CRC32 *uint32 `yaml:"crc32,omitempty"`
}

// MetaAlmanac lists the files an Almanac is built from, in load order.
//
//	files:
//	  - uri: s3://ephemerides/de440s.bsp
//	    crc32: 0x7286750a
//	  - uri: /data/pck08.yaml
type MetaAlmanac struct {
	Files []MetaFile `yaml:"files" validate:"dive"`
}

// ParseMetaAlmanac decodes and validates a YAML meta-almanac.
func ParseMetaAlmanac(b []byte) (*MetaAlmanac, error) {
	var m MetaAlmanac
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("meta-almanac: %w", err)
	}
	if err := metaValidate.Struct(&m); err != nil {
		return nil, fmt.Errorf("meta-almanac: %w", err)
	}
	return &m, nil
}

// LoadMetaAlmanac reads and parses the meta-almanac at path.
func LoadMetaAlmanac(path string) (*MetaAlmanac, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMetaAlmanac(b)
}

// Encode renders the meta-almanac as YAML.
func (m *MetaAlmanac) Encode() ([]byte, error) {
	return yaml.Marshal(m)
}

// metaSource is a fetched file: either a local path or its content.
type metaSource struct {
	path string
	data []byte
}

// Process fetches every file concurrently, verifies the checksums and loads
// the files in order into a new Almanac built with opts. Each file is loaded
// under its URI as alias.
func (m *MetaAlmanac) Process(ctx context.Context, opts ...Option) (_ *Almanac, err error) {
	alm := New(opts...)
	o := &alm.opts

	ctx, span := o.tracer.Start(ctx, spanMetaProcess, trace.WithAttributes(attribute.Int("orbgo.files", len(m.Files))))
	start := time.Now()
	defer func() {
		o.logger.LogMetaLoad(ctx, len(m.Files), time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	sources := make([]metaSource, len(m.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency())
	for i, f := range m.Files {
		g.Go(func() error {
			src, err := alm.fetch(gctx, f)
			if err != nil {
				return fmt.Errorf("meta-almanac %s: %w", f.URI, err)
			}
			sources[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, src := range sources {
		alm, err = alm.load(ctx, m.Files[i].URI, func(context.Context) (payload, error) {
			if src.path != "" {
				return alm.openPath(src.path, 0)
			}
			return alm.fromHeap(src.data, 0)
		})
		if err != nil {
			return nil, err
		}
	}
	return alm, nil
}

func (a *Almanac) fetch(ctx context.Context, f MetaFile) (metaSource, error) {
	if store, name, ok := a.opts.resolve(f.URI); ok {
		return a.fetchBlob(ctx, store, name, f)
	}

	p, ok := localPath(f.URI)
	if !ok {
		return metaSource{}, fmt.Errorf("%w: %s", ErrUnresolvedURI, f.URI)
	}
	if f.CRC32 != nil {
		sum, err := fileCRC32(p)
		if err != nil {
			return metaSource{}, err
		}
		if err := verify(f, sum); err != nil {
			return metaSource{}, err
		}
	}
	return metaSource{path: p}, nil
}

func (a *Almanac) fetchBlob(ctx context.Context, store blobstore.BlobStore, name string, f MetaFile) (metaSource, error) {
	rc := a.opts.resources
	if err := rc.AcquireFetch(ctx); err != nil {
		return metaSource{}, err
	}
	defer rc.ReleaseFetch()

	var cached string
	if a.opts.cacheDir != "" {
		cached = filepath.Join(a.opts.cacheDir, path.Base(name))
		if f.CRC32 != nil {
			if sum, err := fileCRC32(cached); err == nil && sum == *f.CRC32 {
				a.opts.logger.DebugContext(ctx, "using cached kernel", "uri", f.URI, "path", cached)
				return metaSource{path: cached}, nil
			}
		}
	}

	b, err := a.readBlob(ctx, store, name)
	if err != nil {
		return metaSource{}, err
	}
	if f.CRC32 != nil {
		err := verify(f, hash.CRC32(b))
		if inv, ok := store.(invalidator); ok && err != nil {
			// The blob may have been replaced since its blocks were cached.
			a.opts.logger.DebugContext(ctx, "refetching stale cached blob", "uri", f.URI)
			inv.Invalidate(name)
			if b, err = a.readBlob(ctx, store, name); err != nil {
				return metaSource{}, err
			}
			err = verify(f, hash.CRC32(b))
		}
		if err != nil {
			return metaSource{}, err
		}
	}

	if cached != "" {
		if err := fs.WriteFileAtomic(a.opts.fsys, cached, b); err != nil {
			a.opts.logger.WarnContext(ctx, "kernel cache write failed", "uri", f.URI, "path", cached, "error", err)
		} else {
			return metaSource{path: cached}, nil
		}
	}
	return metaSource{data: b}, nil
}

// invalidator is implemented by caching stores such as blobstore.CachingStore.
type invalidator interface {
	Invalidate(name string)
}

func (a *Almanac) readBlob(ctx context.Context, store blobstore.BlobStore, name string) ([]byte, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	if err := a.opts.resources.AcquireIO(ctx, int(blob.Size())); err != nil {
		return nil, err
	}
	return blobstore.ReadAll(ctx, blob)
}

func localPath(uri string) (string, bool) {
	if p, ok := strings.CutPrefix(uri, "file://"); ok {
		return filepath.FromSlash(p), true
	}
	if strings.Contains(uri, "://") {
		return "", false
	}
	return uri, true
}

func verify(f MetaFile, sum uint32) error {
	if sum != *f.CRC32 {
		return &ChecksumError{URI: f.URI, Expected: *f.CRC32, Actual: sum}
	}
	return nil
}

func fileCRC32(path string) (uint32, error) {
	fh, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer fh.Close()

	h := hash.NewCRC32()
	if _, err := io.Copy(h, fh); err != nil {
		return 0, err
	}
	return h.Sum32(), nil
}
