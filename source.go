package orbgo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/orbgo/daf"
	"github.com/hupe1980/orbgo/dataset"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	lfsMagic  = []byte("version https://git-lfs.github.com/spec/")
)

// zstdDecoder is shared: DecodeAll is safe for concurrent use.
var zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
})

// contentKind classifies a payload.
type contentKind uint8

const (
	contentUnknown contentKind = iota
	contentSPK
	contentBPC
	contentPlanetary
	contentEuler
)

func (k contentKind) String() string {
	switch k {
	case contentSPK:
		return "SPK"
	case contentBPC:
		return "BPC"
	case contentPlanetary:
		return string(dataset.KindPlanetaryConstants)
	case contentEuler:
		return string(dataset.KindEulerParameters)
	}
	return "unknown"
}

func (k contentKind) isKernel() bool { return k == contentSPK || k == contentBPC }

// payload is a decoded kernel or dataset.
type payload struct {
	kind      contentKind
	daf       *daf.DAF
	planetary *dataset.PlanetaryDataSet
	euler     *dataset.EulerParameterSet
	size      int64
	mapped    bool
	heapCap   int // capacity of the heap buffer backing daf, 0 otherwise
}

func isDAF(b []byte) bool {
	return bytes.HasPrefix(b, []byte("DAF/")) || bytes.HasPrefix(b, []byte("NAIF/DAF"))
}

// sniff reads the first bytes of the file at path.
func sniff(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, 8)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}

// decompress returns b, or its decompressed content when b is a zstd or
// lz4 frame.
func decompress(b []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(b, zstdMagic):
		dec, err := zstdDecoder()
		if err != nil {
			return nil, err
		}
		out, err := dec.DecodeAll(b, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil
	case bytes.HasPrefix(b, lz4Magic):
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(b)))
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		return out, nil
	}
	return b, nil
}

// decode classifies b and parses it. Kernels keep a reference to b.
func decode(b []byte) (payload, error) {
	switch {
	case bytes.HasPrefix(b, lfsMagic):
		return payload{}, ErrGitLFSPointer
	case isDAF(b):
		d, err := daf.Parse(b)
		if err != nil {
			return payload{}, err
		}
		return kernelPayload(d), nil
	}

	kind, ok := dataset.DetectKind(b)
	if !ok {
		return payload{}, ErrUnknownContent
	}
	p := payload{size: int64(len(b))}
	switch kind {
	case dataset.KindPlanetaryConstants:
		set, err := dataset.DecodePlanetaryData(b)
		if err != nil {
			return payload{}, err
		}
		p.kind, p.planetary = contentPlanetary, set
	case dataset.KindEulerParameters:
		set, err := dataset.DecodeEulerParameters(b)
		if err != nil {
			return payload{}, err
		}
		p.kind, p.euler = contentEuler, set
	}
	return p, nil
}

func kernelPayload(d *daf.DAF) payload {
	kind := contentSPK
	if d.Kind() == daf.KindBPC {
		kind = contentBPC
	}
	return payload{kind: kind, daf: d, size: int64(d.Size())}
}
