// Package bloom deserializes the probabilistic membership filter embedded in
// table files and derives its health metrics. Construction and querying of
// live filters happen elsewhere; this package only understands the
// serialized snapshot:
//
//	[4-byte LE m][4-byte LE h][4-byte LE size_in_words][size_in_words x 8-byte LE words]
package bloom

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/bits"
)

const headerSize = 12

// ErrInvalidFilter is returned when a filter block cannot be decoded as a
// filter snapshot, from corruption or an incompatible encoding.
var ErrInvalidFilter = errors.New("bloom: invalid filter encoding")

// Filter is a deserialized filter snapshot.
type Filter struct {
	M     uint32   // bit-array size in bits
	H     uint32   // independent hash rounds
	Words []uint64 // bit array packed into 64-bit words
}

// NewFilter creates an empty filter snapshot sized for m bits.
func NewFilter(m, h uint32) *Filter {
	return &Filter{M: m, H: h, Words: make([]uint64, (m+63)/64)}
}

// SetBit sets bit i. Used to synthesize snapshots; out-of-range bits are
// ignored.
func (f *Filter) SetBit(i uint32) {
	if i < f.M {
		f.Words[i/64] |= 1 << (i % 64)
	}
}

// Deserialize decodes a filter snapshot from a filter block payload.
func Deserialize(data []byte) (*Filter, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is below the fixed header size", ErrInvalidFilter, len(data))
	}

	m := binary.LittleEndian.Uint32(data[0:4])
	h := binary.LittleEndian.Uint32(data[4:8])
	words := binary.LittleEndian.Uint32(data[8:12])

	if m == 0 || h == 0 {
		return nil, fmt.Errorf("%w: zero bit count or hash rounds", ErrInvalidFilter)
	}
	if uint64(words)*64 < uint64(m) {
		return nil, fmt.Errorf("%w: %d words cannot hold %d bits", ErrInvalidFilter, words, m)
	}
	// Validate against the actual payload before allocating anything.
	if uint64(len(data)-headerSize) < uint64(words)*8 {
		return nil, fmt.Errorf("%w: declared %d words, payload holds %d bytes",
			ErrInvalidFilter, words, len(data)-headerSize)
	}

	f := &Filter{M: m, H: h, Words: make([]uint64, words)}
	for i := range f.Words {
		f.Words[i] = binary.LittleEndian.Uint64(data[headerSize+i*8:])
	}
	return f, nil
}

// Serialize encodes the snapshot back into its wire form.
func (f *Filter) Serialize() []byte {
	out := make([]byte, headerSize+len(f.Words)*8)
	binary.LittleEndian.PutUint32(out[0:4], f.M)
	binary.LittleEndian.PutUint32(out[4:8], f.H)
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(f.Words)))
	for i, w := range f.Words {
		binary.LittleEndian.PutUint64(out[headerSize+i*8:], w)
	}
	return out
}

// SizeInWords returns the number of 64-bit storage words.
func (f *Filter) SizeInWords() int {
	return len(f.Words)
}

// BitsSet returns the population count of the bit array.
func (f *Filter) BitsSet() uint64 {
	var n uint64
	for _, w := range f.Words {
		n += uint64(bits.OnesCount64(w))
	}
	return n
}

// FillRatio returns the fraction of bits set.
func (f *Filter) FillRatio() float64 {
	return float64(f.BitsSet()) / float64(f.M)
}

// EstimatedFPR returns the estimated false-positive rate, fill^h. Fill
// ratios above one half degrade the filter's guarantees quickly.
func (f *Filter) EstimatedFPR() float64 {
	return math.Pow(f.FillRatio(), float64(f.H))
}
