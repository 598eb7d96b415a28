// Package record decodes the logical key/value records stored inside
// container file blocks. The wire layout of one record is:
//
//	[1-byte flags][varint key length][varint value length][varint sequence]
//	[8-byte LE signed TTL, iff FlagHasTTL][varint vlog offset, iff FlagHasVLog]
//	[key bytes][value bytes, iff not FlagHasVLog and value length > 0]
//
// A record carrying FlagHasVLog records its true value size inline but the
// value bytes themselves live in a companion value-log file.
package record

// Record flags. One byte per record, bits may combine.
const (
	// FlagTombstone marks a deletion
	FlagTombstone = 0x01
	// FlagHasTTL indicates an 8-byte expiry timestamp follows the sequence
	FlagHasTTL = 0x02
	// FlagHasVLog indicates the value lives in the companion value log
	FlagHasVLog = 0x04
	// FlagDeltaSeq indicates the sequence is encoded relative to the previous record
	FlagDeltaSeq = 0x08
)

// Record is one decoded mutation. Records are ephemeral: Key and Value alias
// the block payload they were decoded from.
type Record struct {
	Flags      byte
	Key        []byte
	Value      []byte // nil when the value lives in the value log
	ValueSize  uint64 // true value size, even when the value is external
	Seq        uint64 // absolute sequence number after delta resolution
	TTL        int64  // valid iff FlagHasTTL
	VLogOffset uint64 // valid iff FlagHasVLog
}

// Tombstone reports whether the record marks a deletion.
func (r *Record) Tombstone() bool { return r.Flags&FlagTombstone != 0 }

// HasTTL reports whether the record carries an expiry timestamp.
func (r *Record) HasTTL() bool { return r.Flags&FlagHasTTL != 0 }

// HasVLog reports whether the value is stored externally in the value log.
func (r *Record) HasVLog() bool { return r.Flags&FlagHasVLog != 0 }

// DeltaSeq reports whether the sequence was delta-encoded on the wire.
func (r *Record) DeltaSeq() bool { return r.Flags&FlagDeltaSeq != 0 }
