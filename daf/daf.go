package daf

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/interp"
	"github.com/hupe1980/orbgo/internal/hash"
	"github.com/hupe1980/orbgo/internal/mmap"
	"github.com/hupe1980/orbgo/linalg"
)

// commentChars is the number of characters used in each comment record.
const commentChars = 1000

// DAF is a parsed, immutable DAF kernel. The coefficient payload is never
// copied: segment data is decoded in place from the underlying buffer.
//
// A DAF is safe for concurrent use.
type DAF struct {
	kind      Kind
	record    FileRecord
	order     binary.ByteOrder
	data      []byte
	summaries []Summary
	index     map[int32]*roaring.Bitmap
	names     map[string]int
	checksum  func() uint32
	mapping   *mmap.Mapping
}

// Parse parses b as an SPK or BPC kernel. The DAF keeps a reference to b,
// which must not be modified afterwards.
//
// Every segment's data type and trailer are validated, so a DAF that parses
// can evaluate all of its segments.
func Parse(b []byte) (*DAF, error) {
	rec, order, err := parseFileRecord(b)
	if err != nil {
		return nil, err
	}

	kind, err := kindOf(rec)
	if err != nil {
		return nil, err
	}

	d := &DAF{
		kind:   kind,
		record: rec,
		order:  order,
		data:   b,
		index:  make(map[int32]*roaring.Bitmap),
		names:  make(map[string]int),
	}
	d.checksum = sync.OnceValue(func() uint32 { return hash.CRC32(b) })

	if err := d.readSummaries(); err != nil {
		return nil, err
	}
	for i, s := range d.summaries {
		if err := d.validate(s); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return d, nil
}

// Open memory-maps the kernel at path and parses it. The mapping is
// released once the DAF is no longer reachable.
func Open(path string) (*DAF, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	_ = m.Advise(mmap.AccessRandom)

	d, err := Parse(m.Bytes())
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	d.mapping = m
	runtime.AddCleanup(d, func(m *mmap.Mapping) { _ = m.Close() }, m)
	return d, nil
}

func kindOf(rec FileRecord) (Kind, error) {
	var kind Kind
	switch rec.IDWord {
	case "DAF/SPK":
		kind = KindSPK
	case "DAF/PCK":
		kind = KindBPC
	case "NAIF/DAF":
		kind = legacyKind(rec)
		if kind == KindUnknown {
			return KindUnknown, &FormatError{Reason: fmt.Sprintf("legacy DAF with ND=%d NI=%d is neither SPK nor BPC", rec.ND, rec.NI)}
		}
	default:
		return KindUnknown, &FormatError{Reason: fmt.Sprintf("unsupported DAF kind %q", rec.IDWord)}
	}
	if nd, ni := kind.summaryShape(); rec.ND != nd || rec.NI != ni {
		return KindUnknown, &FormatError{Reason: fmt.Sprintf("%s requires ND=%d NI=%d, got ND=%d NI=%d", kind, nd, ni, rec.ND, rec.NI)}
	}
	return kind, nil
}

// readSummaries walks the linked list of summary records.
func (d *DAF) readSummaries() error {
	ss := d.record.SummarySize()
	visited := make(map[int]struct{})

	for rec := d.record.Forward; rec != 0; {
		if _, ok := visited[rec]; ok {
			return &FormatError{Reason: fmt.Sprintf("summary record %d is linked twice", rec)}
		}
		visited[rec] = struct{}{}

		off := (rec - 1) * RecordLen
		if rec < 2 || off+2*RecordLen > len(d.data) {
			return &FormatError{Reason: fmt.Sprintf("summary record %d is outside the file", rec)}
		}

		header := NewDoubles(d.data[off:off+summaryHeaderDoubles*8], d.order)
		next, nsum := header.At(0), header.At(2)
		if !(nsum >= 0 && nsum*float64(ss) <= doublesPerRecord-summaryHeaderDoubles) || !(next >= 0 && next < float64(len(d.data))) {
			return &FormatError{Reason: fmt.Sprintf("summary record %d is corrupted", rec)}
		}

		names := d.data[off+RecordLen : off+2*RecordLen]
		for i := 0; i < int(nsum); i++ {
			so := off + (summaryHeaderDoubles+i*ss)*8
			raw := d.data[so : so+ss*8]
			s := decodeSummary(d.kind, NewDoubles(raw, d.order), raw, d.record.ND)
			s.Name = strings.TrimRight(string(names[i*ss*8:(i+1)*ss*8]), " \x00")

			if s.StartIdx < 1 || s.EndIdx < s.StartIdx || s.EndIdx*8 > len(d.data) {
				return &FormatError{Reason: fmt.Sprintf("segment %q addresses [%d, %d] are outside the file", s.Name, s.StartIdx, s.EndIdx)}
			}
			if !(s.StartEpoch <= s.EndEpoch) {
				return &FormatError{Reason: fmt.Sprintf("segment %q ends before it starts", s.Name)}
			}

			pos := len(d.summaries)
			d.summaries = append(d.summaries, s)
			bm, ok := d.index[s.ID]
			if !ok {
				bm = roaring.New()
				d.index[s.ID] = bm
			}
			bm.Add(uint32(pos))
			if _, ok := d.names[s.Name]; !ok {
				d.names[s.Name] = pos
			}
		}
		rec = int(next)
	}
	return nil
}

func (d *DAF) validate(s Summary) error {
	if !s.DataType.Supports(d.kind) {
		return &DataTypeError{Kind: d.kind, DataType: s.DataType, Segment: s.Name}
	}
	seg, err := d.segmentData(s)
	if err != nil {
		return err
	}
	switch s.DataType {
	case Type2ChebyshevTriplet, Type3ChebyshevSextuplet:
		_, err = newChebyshevSegment(s.DataType, seg)
		return err
	case Type14ChebyshevUnequalStep:
		c, err := newChebyshevUnequalSegment(seg)
		if err != nil {
			return err
		}
		return c.check()
	default:
		ds, err := newDiscreteSegment(s.DataType, seg)
		if err != nil {
			return err
		}
		return ds.check()
	}
}

func (d *DAF) segmentData(s Summary) (Doubles, error) {
	if s.StartIdx < 1 || s.EndIdx < s.StartIdx || s.EndIdx*8 > len(d.data) {
		return Doubles{}, &DecodingError{Dataset: s.DataType.String(), Reason: fmt.Sprintf("addresses [%d, %d] are outside the file", s.StartIdx, s.EndIdx)}
	}
	return NewDoubles(d.data[(s.StartIdx-1)*8:s.EndIdx*8], d.order), nil
}

// Evaluate interpolates the segment described by s at et.
//
// For SPK segments it returns position (km) and velocity (km/s) of the
// target relative to the center in the segment frame. For BPC segments it
// returns the Euler angles (right ascension, declination, prime meridian)
// in radians and their rates in radians per second.
func (d *DAF) Evaluate(s Summary, epoch astro.Epoch) (linalg.Vector3, linalg.Vector3, error) {
	defer runtime.KeepAlive(d)

	var zero linalg.Vector3
	if !s.Covers(epoch) {
		return zero, zero, &interp.NoDataError{Epoch: epoch.Seconds(), Start: s.StartEpoch, End: s.EndEpoch}
	}
	// Rounding to seconds may step just outside the bounds.
	et := min(max(epoch.Seconds(), s.StartEpoch), s.EndEpoch)

	seg, err := d.segmentData(s)
	if err != nil {
		return zero, zero, err
	}

	switch s.DataType {
	case Type2ChebyshevTriplet, Type3ChebyshevSextuplet:
		c, err := newChebyshevSegment(s.DataType, seg)
		if err != nil {
			return zero, zero, err
		}
		return c.evaluate(et)
	case Type14ChebyshevUnequalStep:
		c, err := newChebyshevUnequalSegment(seg)
		if err != nil {
			return zero, zero, err
		}
		return c.evaluate(et)
	case Type8LagrangeEqualStep, Type9LagrangeUnequalStep,
		Type12HermiteEqualStep, Type13HermiteUnequalStep:
		ds, err := newDiscreteSegment(s.DataType, seg)
		if err != nil {
			return zero, zero, err
		}
		return ds.evaluate(et)
	}
	return zero, zero, &DataTypeError{Kind: d.kind, DataType: s.DataType, Segment: s.Name}
}

// Kind returns whether the DAF is an SPK or a BPC.
func (d *DAF) Kind() Kind { return d.kind }

// FileRecord returns the decoded file record.
func (d *DAF) FileRecord() FileRecord { return d.record }

// Size returns the size of the kernel in bytes.
func (d *DAF) Size() int { return len(d.data) }

// Mapped reports whether the kernel is memory-mapped.
func (d *DAF) Mapped() bool { return d.mapping != nil }

// Checksum returns the CRC32 (IEEE) of the whole kernel.
func (d *DAF) Checksum() uint32 {
	defer runtime.KeepAlive(d)
	return d.checksum()
}

// Summaries returns a copy of all summaries in file order.
func (d *DAF) Summaries() []Summary {
	return slices.Clone(d.summaries)
}

// IDs returns the ids with at least one segment, in ascending order.
func (d *DAF) IDs() []int32 {
	ids := make([]int32, 0, len(d.index))
	for id := range d.index {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// SummaryAt returns the first summary in file order for id that covers
// epoch, along with its position in Summaries.
func (d *DAF) SummaryAt(id int32, epoch astro.Epoch) (Summary, int, error) {
	if bm, ok := d.index[id]; ok {
		it := bm.Iterator()
		for it.HasNext() {
			pos := int(it.Next())
			if s := d.summaries[pos]; s.Covers(epoch) {
				return s, pos, nil
			}
		}
	}
	return Summary{}, -1, &SummaryError{Kind: d.kind, ID: id, Epoch: epoch}
}

// SummaryByName returns the first summary with the given name.
func (d *DAF) SummaryByName(name string) (Summary, int, error) {
	if pos, ok := d.names[name]; ok {
		return d.summaries[pos], pos, nil
	}
	return Summary{}, -1, fmt.Errorf("%w: %q", ErrNameNotFound, name)
}

// SegmentsFor returns the summaries for id ordered by start epoch.
func (d *DAF) SegmentsFor(id int32) []Summary {
	bm, ok := d.index[id]
	if !ok {
		return nil
	}
	out := make([]Summary, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, d.summaries[it.Next()])
	}
	slices.SortStableFunc(out, func(a, b Summary) int {
		return cmp.Compare(a.StartEpoch, b.StartEpoch)
	})
	return out
}

// Domain returns the earliest start and latest end epoch over the segments of id.
func (d *DAF) Domain(id int32) (start, end astro.Epoch, ok bool) {
	segs := d.SegmentsFor(id)
	if len(segs) == 0 {
		return start, end, false
	}
	start, end = segs[0].Start(), segs[0].End()
	for _, s := range segs[1:] {
		if s.End().After(end) {
			end = s.End()
		}
	}
	return start, end, true
}

// Comments returns the text of the comment area.
func (d *DAF) Comments() string {
	defer runtime.KeepAlive(d)

	var sb strings.Builder
	for rec := 2; rec < d.record.Forward; rec++ {
		off := (rec - 1) * RecordLen
		if off+commentChars > len(d.data) {
			break
		}
		chunk := d.data[off : off+commentChars]
		if i := strings.IndexByte(string(chunk), 0x04); i >= 0 {
			sb.Write(chunk[:i])
			break
		}
		sb.Write(chunk)
	}
	return strings.TrimSpace(strings.ReplaceAll(sb.String(), "\x00", "\n"))
}

func (d *DAF) String() string {
	return fmt.Sprintf("%s %q (%d segments, %d bytes)", d.kind, d.record.InternalFilename, len(d.summaries), len(d.data))
}
