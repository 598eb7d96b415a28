package record

import (
	"encoding/binary"

	"github.com/KevoDB/inspect/pkg/varint"
)

// Encoder appends record encodings to a block payload, mirroring Decoder. It
// tracks the previous absolute sequence so records flagged FlagDeltaSeq are
// written as offsets. Like the decoder, the accumulator resets per block: use
// one Encoder per block payload.
type Encoder struct {
	prevSeq uint64
}

// NewEncoder creates an encoder for one block payload.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Append encodes r onto dst and returns the extended slice. The written value
// length is len(r.Value) for inline records and r.ValueSize for value-log
// records, whose bytes are never embedded in the block.
func (e *Encoder) Append(dst []byte, r *Record) []byte {
	dst = append(dst, r.Flags)
	dst = varint.AppendUvarint(dst, uint64(len(r.Key)))

	valueSize := uint64(len(r.Value))
	if r.Flags&FlagHasVLog != 0 {
		valueSize = r.ValueSize
	}
	dst = varint.AppendUvarint(dst, valueSize)

	rawSeq := r.Seq
	if r.Flags&FlagDeltaSeq != 0 {
		rawSeq = r.Seq - e.prevSeq
	}
	dst = varint.AppendUvarint(dst, rawSeq)
	e.prevSeq = r.Seq

	if r.Flags&FlagHasTTL != 0 {
		dst = binary.LittleEndian.AppendUint64(dst, uint64(r.TTL))
	}
	if r.Flags&FlagHasVLog != 0 {
		dst = varint.AppendUvarint(dst, r.VLogOffset)
	}

	dst = append(dst, r.Key...)
	if r.Flags&FlagHasVLog == 0 && len(r.Value) > 0 {
		dst = append(dst, r.Value...)
	}
	return dst
}
