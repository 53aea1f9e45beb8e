// Package daf reads ephemeris (SPK) and orientation (BPC) kernels stored in
// the Double precision Array File container.
//
// A DAF is a sequence of 1024 byte records: a file record, optional comment
// records, then a linked list of summary records, each followed by a name
// record. Every summary addresses one segment of coefficients in the data
// area. Both byte orders are decoded in place, so the payload is never
// copied or swapped.
//
// # Segments
//
// Supported SPK data types:
//
//   - 2: Chebyshev position, velocity by differentiation
//   - 3: Chebyshev position and velocity
//   - 8, 9: Lagrange interpolation of discrete states (equal or unequal step)
//   - 12, 13: Hermite interpolation of discrete states (equal or unequal step)
//   - 14: Chebyshev position and velocity with unequal record lengths
//
// BPC kernels use type 2, whose components are the right ascension,
// declination and prime meridian angles of the body-fixed frame.
//
// Parse validates every segment up front:
//
//	d, err := daf.Parse(buf)
//	if err != nil {
//	    return err
//	}
//	s, _, err := d.SummaryAt(301, et)
//	if err != nil {
//	    return err
//	}
//	pos, vel, err := d.Evaluate(s, et)
//
// Open memory-maps a kernel instead of reading it into the heap.
package daf
