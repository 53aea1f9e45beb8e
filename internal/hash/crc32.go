package hash

import (
	"hash"

	"github.com/klauspost/crc32"
)

// CRC32 computes the CRC32 (IEEE) checksum of data.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// NewCRC32 returns a streaming CRC32 (IEEE) hash.
func NewCRC32() hash.Hash32 {
	return crc32.NewIEEE()
}
