// Package hash provides the checksum used to identify kernel files.
//
// # CRC32 (IEEE)
//
// Kernel checksums are CRC32 with the IEEE polynomial, the same value
// reported by common tooling, so that a meta-almanac can pin a download to
// a published checksum.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32(data)
//
// For streaming checksums, e.g. while downloading:
//
//	h := hash.NewCRC32()
//	io.Copy(h, body)
//	checksum := h.Sum32()
package hash
