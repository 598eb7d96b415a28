// Package varint implements the bounded base-128 variable-length integer
// encoding used throughout the container file format.
package varint

import "errors"

// MaxLen is the maximum number of bytes a single encoded value may occupy.
// Ten bytes hold a full 64-bit value plus continuation overhead.
const MaxLen = 10

var (
	// ErrTruncated is returned when the window ends before a terminating byte
	ErrTruncated = errors.New("varint: truncated value")

	// ErrOverflow is returned when no terminating byte appears within MaxLen bytes
	ErrOverflow = errors.New("varint: value exceeds maximum encoded length")
)

// Uvarint decodes an unsigned integer from the front of buf and returns the
// value and the number of bytes consumed. Each byte contributes seven bits,
// low group first, with the high bit acting as the continuation flag. The
// decode never examines bytes past len(buf); a window that ends mid-value
// yields ErrTruncated and a value that fails to terminate within MaxLen
// bytes yields ErrOverflow.
func Uvarint(buf []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for i, b := range buf {
		if i == MaxLen {
			return 0, 0, ErrOverflow
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
	}
	if len(buf) >= MaxLen {
		return 0, 0, ErrOverflow
	}
	return 0, 0, ErrTruncated
}

// AppendUvarint appends the encoding of v to dst and returns the extended slice.
func AppendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Len returns the number of bytes AppendUvarint would use to encode v.
func Len(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
