package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32(t *testing.T) {
	// Standard check value for the IEEE polynomial.
	assert.Equal(t, uint32(0xCBF43926), CRC32([]byte("123456789")))
	assert.Equal(t, uint32(0), CRC32(nil))

	h := NewCRC32()
	_, _ = h.Write([]byte("12345"))
	_, _ = h.Write([]byte("6789"))
	assert.Equal(t, CRC32([]byte("123456789")), h.Sum32())
}
