package orbgo

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/hupe1980/orbgo/blobstore"
	"github.com/hupe1980/orbgo/daf"
	"github.com/hupe1980/orbgo/dataset"
	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/resource"
)

// MaxTreeDepth is the maximum number of hops from any frame to the root of
// the ephemeris or orientation tree.
const MaxTreeDepth = 8

// Almanac is an immutable snapshot of loaded ephemeris kernels (SPK),
// orientation kernels (BPC) and constants datasets.
//
// Every method that changes the loaded data returns a new *Almanac and
// leaves the receiver untouched, so an Almanac can be queried from any
// number of goroutines without locks while a newer one is being built.
// Kernels are shared between snapshots and never copied.
//
// Use New to create an Almanac.
type Almanac struct {
	spk       []*kernel // in load order; searched from the end
	bpc       []*kernel
	planetary *dataset.PlanetaryDataSet
	euler     *dataset.EulerParameterSet
	root      int32 // ephemeris root, the loaded center with the smallest |id|
	opts      options
}

// kernel is one loaded DAF under its alias.
type kernel struct {
	alias   string
	daf     *daf.DAF
	heapCap int
}

// New returns an empty Almanac.
func New(opts ...Option) *Almanac {
	return &Almanac{opts: applyOptions(opts)}
}

func (a *Almanac) clone() *Almanac {
	c := *a
	c.spk = slices.Clone(a.spk)
	c.bpc = slices.Clone(a.bpc)
	return &c
}

// Load loads the kernel or dataset at path under the alias path.
//
// DAF kernels are memory-mapped unless WithMmap(false) was given.
// Compressed (zstd or lz4) kernels and datasets are read onto the heap.
func (a *Almanac) Load(ctx context.Context, path string) (*Almanac, error) {
	return a.load(ctx, path, func(context.Context) (payload, error) {
		return a.openPath(path, 0)
	})
}

// LoadBytes loads a kernel or dataset held in memory under alias. The
// Almanac takes ownership of b, which must not be modified afterwards.
func (a *Almanac) LoadBytes(ctx context.Context, alias string, b []byte) (*Almanac, error) {
	return a.load(ctx, alias, func(context.Context) (payload, error) {
		return a.fromHeap(b, 0)
	})
}

// LoadReader reads a kernel or dataset from r and loads it under alias.
// Reads are throttled by the resource controller.
func (a *Almanac) LoadReader(ctx context.Context, alias string, r io.Reader) (*Almanac, error) {
	return a.load(ctx, alias, func(ctx context.Context) (payload, error) {
		b, err := io.ReadAll(resource.NewRateLimitedReader(ctx, r, a.opts.resources))
		if err != nil {
			return payload{}, err
		}
		return a.fromHeap(b, 0)
	})
}

// LoadBlob loads the blob name from store under the alias name. Kernels of
// blobs that can be memory-mapped are parsed in place; the blob is closed
// once the kernel is no longer referenced by any Almanac.
func (a *Almanac) LoadBlob(ctx context.Context, store blobstore.BlobStore, name string) (*Almanac, error) {
	return a.load(ctx, name, func(ctx context.Context) (payload, error) {
		return a.openBlob(ctx, store, name)
	})
}

// WithPlanetaryData returns an Almanac using set as its planetary constants.
func (a *Almanac) WithPlanetaryData(set *dataset.PlanetaryDataSet) *Almanac {
	c := a.clone()
	c.planetary = set
	return c
}

// WithEulerParameters returns an Almanac using set as its Euler parameters.
func (a *Almanac) WithEulerParameters(set *dataset.EulerParameterSet) *Almanac {
	c := a.clone()
	c.euler = set
	return c
}

// PlanetaryData returns the active planetary constants, or nil.
func (a *Almanac) PlanetaryData() *dataset.PlanetaryDataSet { return a.planetary }

// EulerParameters returns the active Euler parameters, or nil.
func (a *Almanac) EulerParameters() *dataset.EulerParameterSet { return a.euler }

func (a *Almanac) load(ctx context.Context, alias string, open func(context.Context) (payload, error)) (_ *Almanac, err error) {
	ctx, span := a.startSpan(ctx, spanLoad, alias)
	start := time.Now()

	var p payload
	defer func() {
		a.opts.metricsCollector.RecordLoad(p.kind.String(), p.size, time.Since(start), err)
		a.opts.logger.LogLoad(ctx, alias, p.kind.String(), p.size, p.mapped, err)
		endSpan(span, p, err)
	}()

	if a.hasAlias(alias) {
		return nil, loadError(alias, &AliasError{Alias: alias, cause: ErrDuplicateAlias})
	}

	p, err = open(ctx)
	if err != nil {
		return nil, loadError(alias, err)
	}
	return a.with(alias, p), nil
}

func (a *Almanac) with(alias string, p payload) *Almanac {
	c := a.clone()
	switch p.kind {
	case contentSPK:
		c.spk = append(c.spk, &kernel{alias: alias, daf: p.daf, heapCap: p.heapCap})
		c.root = ephemerisRoot(c.spk)
	case contentBPC:
		c.bpc = append(c.bpc, &kernel{alias: alias, daf: p.daf, heapCap: p.heapCap})
	case contentPlanetary:
		c.planetary = p.planetary
	case contentEuler:
		c.euler = p.euler
	}
	return c
}

// openPath loads the file at path. minCap is the minimum capacity of a heap
// buffer.
func (a *Almanac) openPath(path string, minCap int) (payload, error) {
	if a.opts.mmap {
		head, err := sniff(path)
		if err != nil {
			return payload{}, err
		}
		if isDAF(head) {
			d, err := daf.Open(path)
			if err != nil {
				return payload{}, err
			}
			p := kernelPayload(d)
			p.mapped = true
			return p, nil
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return payload{}, err
	}
	return a.fromHeap(b, minCap)
}

func (a *Almanac) openBlob(ctx context.Context, store blobstore.BlobStore, name string) (payload, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return payload{}, err
	}

	if m, ok := blob.(blobstore.Mappable); ok && a.opts.mmap {
		if b, err := m.Bytes(); err == nil && isDAF(b) {
			d, err := daf.Parse(b)
			if err != nil {
				_ = blob.Close()
				return payload{}, err
			}
			runtime.AddCleanup(d, func(b blobstore.Blob) { _ = b.Close() }, blob)
			p := kernelPayload(d)
			p.mapped = true
			return p, nil
		}
	}
	defer blob.Close()

	if err := a.opts.resources.AcquireIO(ctx, int(blob.Size())); err != nil {
		return payload{}, err
	}
	b, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return payload{}, err
	}
	return a.fromHeap(b, 0)
}

// fromHeap decodes a heap buffer. Kernel buffers are charged to the
// resource controller until the kernel is unreachable.
func (a *Almanac) fromHeap(b []byte, minCap int) (payload, error) {
	b, err := decompress(b)
	if err != nil {
		return payload{}, err
	}
	if cap(b) < minCap && isDAF(b) {
		grown := make([]byte, len(b), minCap)
		copy(grown, b)
		b = grown
	}

	p, err := decode(b)
	if err != nil || p.daf == nil {
		return p, err
	}

	n := int64(cap(b))
	rc := a.opts.resources
	if !rc.TryAcquireMemory(n) {
		return payload{}, fmt.Errorf("%w: %d bytes (%d of %d in use)", ErrResidencyBudget, n, rc.MemoryUsage(), rc.Config().ResidentBytesLimit)
	}
	if rc != nil {
		runtime.AddCleanup(p.daf, func(n int64) { rc.ReleaseMemory(n) }, n)
	}
	p.heapCap = cap(b)
	return p, nil
}

// Swap replaces the kernel loaded under alias by the kernel at path,
// keeping its alias and its position in the search order. The new kernel
// must be of the same kind.
//
// Heap buffers never shrink across swaps: the new buffer has at least the
// capacity of the one it replaces. The receiver keeps the old kernel.
func (a *Almanac) Swap(ctx context.Context, alias, path string) (_ *Almanac, err error) {
	ctx, span := a.startSpan(ctx, spanSwap, alias)
	start := time.Now()

	var p payload
	defer func() {
		a.opts.metricsCollector.RecordLoad(p.kind.String(), p.size, time.Since(start), err)
		a.opts.logger.LogSwap(ctx, alias, path, err)
		endSpan(span, p, err)
	}()

	list, i := a.find(alias)
	if i < 0 {
		return nil, &AliasError{Alias: alias, cause: ErrAliasNotFound}
	}
	old := list[i]

	p, err = a.openPath(path, old.heapCap)
	if err != nil {
		return nil, loadError(alias, err)
	}
	if p.daf == nil || p.daf.Kind() != old.daf.Kind() {
		return nil, fmt.Errorf("%w: cannot swap %s %q for %s", ErrKindMismatch, old.daf.Kind(), alias, p.kind)
	}

	c := a.clone()
	repl := &kernel{alias: alias, daf: p.daf, heapCap: p.heapCap}
	if old.daf.Kind() == daf.KindSPK {
		c.spk[i] = repl
		c.root = ephemerisRoot(c.spk)
	} else {
		c.bpc[i] = repl
	}
	return c, nil
}

// Unload removes the kernel loaded under alias.
//
// The most recently loaded kernel of the same kind takes the place of the
// removed one, so Unload changes which of two kernels covering the same
// body and epoch is searched first.
func (a *Almanac) Unload(alias string) (_ *Almanac, err error) {
	defer func() { a.opts.logger.LogUnload(context.Background(), alias, err) }()

	list, i := a.find(alias)
	if i < 0 {
		return nil, &AliasError{Alias: alias, cause: ErrAliasNotFound}
	}

	c := a.clone()
	swapRemove := func(s []*kernel) []*kernel {
		last := len(s) - 1
		s[i] = s[last]
		s[last] = nil
		return s[:last]
	}
	if list[i].daf.Kind() == daf.KindSPK {
		c.spk = swapRemove(c.spk)
		c.root = ephemerisRoot(c.spk)
	} else {
		c.bpc = swapRemove(c.bpc)
	}
	return c, nil
}

// find returns the kernel list holding alias and its index, or -1.
func (a *Almanac) find(alias string) ([]*kernel, int) {
	for _, list := range [][]*kernel{a.spk, a.bpc} {
		if i := slices.IndexFunc(list, func(k *kernel) bool { return k.alias == alias }); i >= 0 {
			return list, i
		}
	}
	return nil, -1
}

func (a *Almanac) hasAlias(alias string) bool {
	_, i := a.find(alias)
	return i >= 0
}

// ephemerisRoot returns the center with the smallest |id| over all SPK
// segments, or the solar system barycenter when nothing is loaded.
func ephemerisRoot(spk []*kernel) int32 {
	root, found := int32(0), false
	for _, k := range spk {
		for _, s := range k.daf.Summaries() {
			if s.Center == frames.SolarSystemBarycenter {
				return s.Center
			}
			if !found || abs32(s.Center) < abs32(root) {
				root, found = s.Center, true
			}
		}
	}
	return root
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
