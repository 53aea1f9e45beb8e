// Package mmap maps kernel files read-only into memory so that segment
// coefficients are decoded in place instead of being read into the heap.
//
// # Usage
//
//	m, err := mmap.Open("de440s.bsp")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//	_ = m.Advise(mmap.AccessRandom)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op)
//
// # Thread Safety
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must ensure nothing reads Bytes() after Close returns.
package mmap
