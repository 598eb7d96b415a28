package record

import "io"

// Decoder decodes consecutive records from one block payload. It carries the
// previous record's absolute sequence number so delta-encoded sequences can be
// resolved; the accumulator starts at zero, matching the per-block reset in
// the on-disk format.
type Decoder struct {
	cur     *Cursor
	prevSeq uint64
}

// NewDecoder creates a decoder over one block payload.
func NewDecoder(payload []byte) *Decoder {
	return &Decoder{cur: NewCursor(payload)}
}

// Next decodes exactly one record. It returns io.EOF when the payload is
// cleanly exhausted and ErrTruncated when a field runs past the window, which
// callers should treat as the end of well-formed records in this block.
func (d *Decoder) Next() (*Record, error) {
	if d.cur.Remaining() == 0 {
		return nil, io.EOF
	}

	flags, err := d.cur.ReadByte()
	if err != nil {
		return nil, err
	}

	keySize, err := d.cur.ReadUvarint()
	if err != nil {
		return nil, err
	}
	valueSize, err := d.cur.ReadUvarint()
	if err != nil {
		return nil, err
	}
	rawSeq, err := d.cur.ReadUvarint()
	if err != nil {
		return nil, err
	}

	seq := rawSeq
	if flags&FlagDeltaSeq != 0 {
		seq = d.prevSeq + rawSeq
	}
	d.prevSeq = seq

	rec := &Record{
		Flags:     flags,
		ValueSize: valueSize,
		Seq:       seq,
	}

	if flags&FlagHasTTL != 0 {
		if rec.TTL, err = d.cur.ReadInt64(); err != nil {
			return nil, err
		}
	}

	if flags&FlagHasVLog != 0 {
		if rec.VLogOffset, err = d.cur.ReadUvarint(); err != nil {
			return nil, err
		}
	}

	if rec.Key, err = d.cur.ReadBytes(keySize); err != nil {
		return nil, err
	}

	// The inline value is only present when it is not redirected to the
	// value log.
	if flags&FlagHasVLog == 0 && valueSize > 0 {
		if rec.Value, err = d.cur.ReadBytes(valueSize); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// Offset returns the number of payload bytes consumed by completed decodes.
func (d *Decoder) Offset() int {
	return d.cur.Offset()
}
