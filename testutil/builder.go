package testutil

import (
	"encoding/binary"
	"math"
	"os"
	"strings"
)

const (
	recordLen        = 1024
	doublesPerRecord = recordLen / 8
	commentChars     = 1000
)

// FTPValidation is the transfer validation sequence carried by every DAF.
var FTPValidation = []byte("FTPSTR:\r:\n:\r\n:\r\x00:\x81:\x10\xce:ENDFTP")

type segment struct {
	name       string
	start, end float64
	ints       []int32
	data       []float64
}

// Builder writes DAF kernels with arbitrary segments in either byte order.
// The zero value is not usable; start from NewSPKBuilder or NewBPCBuilder.
type Builder struct {
	idWord       string
	nd, ni       int
	order        binary.ByteOrder
	endian       *string
	ftp          []byte
	internalName string
	comments     string
	perRecord    int
	segments     []segment
}

// NewSPKBuilder returns a little-endian DAF/SPK builder.
func NewSPKBuilder() *Builder {
	return &Builder{idWord: "DAF/SPK", nd: 2, ni: 6, order: binary.LittleEndian, ftp: FTPValidation, internalName: "orbgo synthetic SPK"}
}

// NewBPCBuilder returns a little-endian DAF/PCK builder.
func NewBPCBuilder() *Builder {
	return &Builder{idWord: "DAF/PCK", nd: 2, ni: 5, order: binary.LittleEndian, ftp: FTPValidation, internalName: "orbgo synthetic BPC"}
}

// WithByteOrder sets the byte order of the kernel and the matching endian string.
func (b *Builder) WithByteOrder(order binary.ByteOrder) *Builder {
	b.order = order
	return b
}

// WithEndianString overrides the declared endian string, e.g. to declare an
// order that contradicts the encoding.
func (b *Builder) WithEndianString(s string) *Builder {
	b.endian = &s
	return b
}

// WithFTP overrides the FTP validation string. nil leaves the field zeroed.
func (b *Builder) WithFTP(ftp []byte) *Builder {
	b.ftp = ftp
	return b
}

// WithIDWord overrides the identification word.
func (b *Builder) WithIDWord(id string) *Builder {
	b.idWord = id
	return b
}

// WithSummaryShape overrides ND and NI in the file record.
func (b *Builder) WithSummaryShape(nd, ni int) *Builder {
	b.nd, b.ni = nd, ni
	return b
}

// WithInternalName sets the internal file name.
func (b *Builder) WithInternalName(name string) *Builder {
	b.internalName = name
	return b
}

// WithComments sets the comment area. Lines are separated by newlines.
func (b *Builder) WithComments(text string) *Builder {
	b.comments = text
	return b
}

// WithSummariesPerRecord limits how many summaries are written to each
// summary record, to exercise the summary record list.
func (b *Builder) WithSummariesPerRecord(n int) *Builder {
	b.perRecord = n
	return b
}

// AddSPKSegment appends an ephemeris segment. data holds the segment's
// doubles including the data type's trailer.
func (b *Builder) AddSPKSegment(name string, target, center, frame, dataType int32, start, end float64, data []float64) *Builder {
	b.segments = append(b.segments, segment{
		name: name, start: start, end: end,
		ints: []int32{target, center, frame, dataType},
		data: data,
	})
	return b
}

// AddBPCSegment appends an orientation segment of frame relative to inertial.
func (b *Builder) AddBPCSegment(name string, frame, inertial, dataType int32, start, end float64, data []float64) *Builder {
	b.segments = append(b.segments, segment{
		name: name, start: start, end: end,
		ints: []int32{frame, inertial, dataType},
		data: data,
	})
	return b
}

func (b *Builder) summarySize() int {
	return b.nd + (b.ni+1)/2
}

// Bytes encodes the kernel: the file record, comment records, summary and
// name record pairs, then the segment data.
func (b *Builder) Bytes() []byte {
	ss := b.summarySize()
	perRecord := (doublesPerRecord - 3) / ss
	if b.perRecord > 0 && b.perRecord < perRecord {
		perRecord = b.perRecord
	}

	commentRecords := 0
	if b.comments != "" {
		commentRecords = (len(b.comments) + 1 + commentChars - 1) / commentChars
	}

	summaryRecords := max((len(b.segments)+perRecord-1)/perRecord, 1)
	firstSummary := 2 + commentRecords
	dataRecord := firstSummary + 2*summaryRecords

	words := 0
	for _, s := range b.segments {
		words += len(s.data)
	}
	dataRecords := (words + doublesPerRecord - 1) / doublesPerRecord

	out := make([]byte, (dataRecord-1+dataRecords)*recordLen)

	// File record.
	copy(out, padRight(b.idWord, 8))
	b.order.PutUint32(out[8:], uint32(b.nd))
	b.order.PutUint32(out[12:], uint32(b.ni))
	copy(out[16:76], padRight(b.internalName, 60))
	b.order.PutUint32(out[76:], uint32(firstSummary))
	b.order.PutUint32(out[80:], uint32(firstSummary+2*(summaryRecords-1)))
	b.order.PutUint32(out[84:], uint32((dataRecord-1)*doublesPerRecord+words+1))
	endian := "LTL-IEEE"
	if b.order == binary.BigEndian {
		endian = "BIG-IEEE"
	}
	if b.endian != nil {
		endian = *b.endian
	}
	copy(out[88:96], padRight(endian, 8))
	copy(out[699:727], b.ftp)

	// Comments.
	if commentRecords > 0 {
		text := []byte(strings.ReplaceAll(b.comments, "\n", "\x00") + "\x04")
		for i := 0; i < commentRecords; i++ {
			chunk := text[i*commentChars : min((i+1)*commentChars, len(text))]
			copy(out[(1+i)*recordLen:], chunk)
		}
	}

	// Data, then the summaries that address it.
	addr := (dataRecord-1)*doublesPerRecord + 1
	ranges := make([][2]int, len(b.segments))
	for i, s := range b.segments {
		for j, v := range s.data {
			b.putDouble(out, (addr-1+j)*8, v)
		}
		ranges[i] = [2]int{addr, addr + len(s.data) - 1}
		addr += len(s.data)
	}

	for r := 0; r < summaryRecords; r++ {
		rec := firstSummary + 2*r
		off := (rec - 1) * recordLen
		next, prev := 0, 0
		if r < summaryRecords-1 {
			next = rec + 2
		}
		if r > 0 {
			prev = rec - 2
		}
		lo := r * perRecord
		hi := min(lo+perRecord, len(b.segments))

		b.putDouble(out, off, float64(next))
		b.putDouble(out, off+8, float64(prev))
		b.putDouble(out, off+16, float64(hi-lo))

		for i := lo; i < hi; i++ {
			s := b.segments[i]
			so := off + (3+(i-lo)*ss)*8
			b.putDouble(out, so, s.start)
			b.putDouble(out, so+8, s.end)
			ints := append(append([]int32{}, s.ints...), int32(ranges[i][0]), int32(ranges[i][1]))
			for k, v := range ints {
				b.order.PutUint32(out[so+b.nd*8+4*k:], uint32(v))
			}
			copy(out[off+recordLen+(i-lo)*ss*8:], padRight(s.name, ss*8))
		}
	}
	return out
}

// WriteFile encodes the kernel to path.
func (b *Builder) WriteFile(path string) error {
	return os.WriteFile(path, b.Bytes(), 0o600)
}

func (b *Builder) putDouble(out []byte, off int, v float64) {
	b.order.PutUint64(out[off:], math.Float64bits(v))
}

func padRight(s string, n int) []byte {
	if len(s) > n {
		s = s[:n]
	}
	return []byte(s + strings.Repeat(" ", n-len(s)))
}
