package daf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// RecordLen is the size in bytes of every DAF record.
const RecordLen = 1024

const (
	doublesPerRecord = RecordLen / 8

	idWordLen       = 8
	internalNameLen = 60
	endianOffset    = 88
	ftpOffset       = 699
	ftpLen          = 28

	// A summary record holds next, previous and count before the summaries.
	summaryHeaderDoubles = 3
)

// ftpValidation is the sequence every DAF carries so that corruption by an
// ASCII-mode transfer can be detected.
var ftpValidation = []byte("FTPSTR:\r:\n:\r\n:\r\x00:\x81:\x10\xce:ENDFTP")

// Kind is the kind of kernel stored in a DAF.
type Kind uint8

const (
	// KindUnknown is not a supported DAF.
	KindUnknown Kind = iota
	// KindSPK holds ephemeris (translation) segments.
	KindSPK
	// KindBPC holds binary orientation segments.
	KindBPC
)

func (k Kind) String() string {
	switch k {
	case KindSPK:
		return "SPK"
	case KindBPC:
		return "BPC"
	default:
		return "unknown"
	}
}

// nd and ni of the summaries of each kind.
func (k Kind) summaryShape() (nd, ni int) {
	if k == KindBPC {
		return 2, 5
	}
	return 2, 6
}

// FileRecord is the decoded first record of a DAF.
type FileRecord struct {
	IDWord           string
	ND               int
	NI               int
	InternalFilename string
	Forward          int
	Backward         int
	FreeAddress      int
	Endian           string
}

// SummarySize returns the size of one summary in doubles.
func (r FileRecord) SummarySize() int {
	return r.ND + (r.NI+1)/2
}

// DetectKind inspects the identification word of b without validating the rest of the file.
func DetectKind(b []byte) Kind {
	if len(b) < idWordLen {
		return KindUnknown
	}
	id := strings.TrimSpace(string(b[:idWordLen]))
	switch id {
	case "DAF/SPK":
		return KindSPK
	case "DAF/PCK":
		return KindBPC
	case "NAIF/DAF":
		if r, _, err := parseFileRecord(b); err == nil {
			return legacyKind(r)
		}
	}
	return KindUnknown
}

func legacyKind(r FileRecord) Kind {
	switch {
	case r.ND == 2 && r.NI == 6:
		return KindSPK
	case r.ND == 2 && r.NI == 5:
		return KindBPC
	}
	return KindUnknown
}

// sane reports whether nd and ni describe summaries that fit in a record.
func sane(nd, ni uint32) bool {
	if nd > doublesPerRecord || ni > 2*doublesPerRecord || ni < 2 {
		return false
	}
	size := nd + (ni+1)/2
	return size > 0 && size <= doublesPerRecord-summaryHeaderDoubles
}

func parseFileRecord(b []byte) (FileRecord, binary.ByteOrder, error) {
	if len(b) < RecordLen {
		return FileRecord{}, nil, &FormatError{Reason: fmt.Sprintf("%d bytes is shorter than the file record", len(b))}
	}
	rec := b[:RecordLen]
	if bytes.Count(rec, []byte{0}) == RecordLen {
		return FileRecord{}, nil, &FormatError{Reason: "file record is empty"}
	}

	id := strings.TrimSpace(string(rec[:idWordLen]))
	switch {
	case strings.HasPrefix(id, "DAF/"), id == "NAIF/DAF":
	default:
		return FileRecord{}, nil, &FormatError{Reason: fmt.Sprintf("identification word %q is not a DAF", id)}
	}

	if ftp := rec[ftpOffset : ftpOffset+ftpLen]; !allZero(ftp) && !bytes.Equal(ftp, ftpValidation) {
		return FileRecord{}, nil, &FormatError{Reason: "FTP validation string is corrupted"}
	}

	endian := strings.TrimRight(string(rec[endianOffset:endianOffset+8]), "\x00 ")
	leND, leNI := binary.LittleEndian.Uint32(rec[8:]), binary.LittleEndian.Uint32(rec[12:])
	beND, beNI := binary.BigEndian.Uint32(rec[8:]), binary.BigEndian.Uint32(rec[12:])

	var order binary.ByteOrder
	switch endian {
	case "LTL-IEEE":
		order = binary.LittleEndian
		if !sane(leND, leNI) {
			if sane(beND, beNI) {
				return FileRecord{}, nil, &EndianError{Declared: endian, Reason: "header only decodes as big endian"}
			}
			return FileRecord{}, nil, &FormatError{Reason: "ND/NI out of range"}
		}
	case "BIG-IEEE":
		order = binary.BigEndian
		if !sane(beND, beNI) {
			if sane(leND, leNI) {
				return FileRecord{}, nil, &EndianError{Declared: endian, Reason: "header only decodes as little endian"}
			}
			return FileRecord{}, nil, &FormatError{Reason: "ND/NI out of range"}
		}
	case "":
		// Files predating the endianness flag: infer it from ND/NI.
		switch {
		case sane(leND, leNI):
			order = binary.LittleEndian
		case sane(beND, beNI):
			order = binary.BigEndian
		default:
			return FileRecord{}, nil, &FormatError{Reason: "ND/NI out of range"}
		}
	default:
		return FileRecord{}, nil, &EndianError{Declared: endian, Reason: "must be LTL-IEEE or BIG-IEEE"}
	}

	r := FileRecord{
		IDWord:           id,
		ND:               int(order.Uint32(rec[8:])),
		NI:               int(order.Uint32(rec[12:])),
		InternalFilename: strings.TrimSpace(strings.Trim(string(rec[16:16+internalNameLen]), "\x00")),
		Forward:          int(order.Uint32(rec[76:])),
		Backward:         int(order.Uint32(rec[80:])),
		FreeAddress:      int(order.Uint32(rec[84:])),
		Endian:           endian,
	}
	return r, order, nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
