// Package varint implements the minimal-length little-endian integer encoding
// used by WPILOG frames. A value occupies between one and eight bytes, the
// fewest that can hold it.
package varint

import (
	"errors"
	"fmt"
	"io"
)

// MaxLen is the longest encoding of a uint64.
const MaxLen = 8

var (
	ErrTruncated     = errors.New("varint: truncated input")
	ErrInvalidLength = errors.New("varint: length must be between 1 and 8")
)

// Size returns the number of bytes Encode uses for n.
func Size(n uint64) int {
	size := 1
	for n >>= 8; n != 0; n >>= 8 {
		size++
	}
	return size
}

// Encode returns the shortest little-endian representation of n.
func Encode(n uint64) []byte {
	return Append(make([]byte, 0, Size(n)), n)
}

// Append appends the encoding of n to dst and returns the extended slice.
func Append(dst []byte, n uint64) []byte {
	for i := Size(n); i > 0; i-- {
		dst = append(dst, byte(n))
		n >>= 8
	}
	return dst
}

// Decode zero-extends the first length bytes of b into a uint64.
func Decode(b []byte, length int) (uint64, error) {
	if length < 1 || length > MaxLen {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}
	if len(b) < length {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, length, len(b))
	}

	var n uint64
	for i := length - 1; i >= 0; i-- {
		n = n<<8 | uint64(b[i])
	}
	return n, nil
}

// Read reads length bytes from r and decodes them.
func Read(r io.Reader, length int) (uint64, error) {
	if length < 1 || length > MaxLen {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}

	var buf [MaxLen]byte
	if _, err := io.ReadFull(r, buf[:length]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return 0, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return Decode(buf[:length], length)
}
