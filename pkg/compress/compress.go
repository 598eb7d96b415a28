// Package compress decodes optionally-compressed value payloads pulled out
// of the value log. The storage engine records the codec per column family;
// the inspector takes it as an explicit option since it reads files without
// schema authority.
package compress

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
)

var (
	// ErrUnknownCodec is returned for a codec name this build does not support
	ErrUnknownCodec = errors.New("compress: unknown codec")

	// ErrInvalidData is returned when a payload cannot be decompressed
	ErrInvalidData = errors.New("compress: invalid compressed data")
)

// Type identifies a compression codec.
type Type int

const (
	// None passes payloads through untouched
	None Type = iota
	// Snappy is block-format snappy
	Snappy
	// Zstd is zstandard
	Zstd
)

// String returns the codec name as accepted by ParseType.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", int(t))
	}
}

// ParseType maps a codec name to its Type.
func ParseType(name string) (Type, error) {
	switch name {
	case "", "none":
		return None, nil
	case "snappy":
		return Snappy, nil
	case "zstd":
		return Zstd, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Codec compresses and decompresses payloads for one codec type.
type Codec struct {
	typ         Type
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
}

// NewCodec creates a codec of the given type. Zstd holds reusable
// encoder/decoder state and must be released with Close.
func NewCodec(typ Type) (*Codec, error) {
	c := &Codec{typ: typ}
	if typ == Zstd {
		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			encoder.Close()
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		c.zstdEncoder = encoder
		c.zstdDecoder = decoder
	}
	return c, nil
}

// Type returns the codec type.
func (c *Codec) Type() Type {
	return c.typ
}

// Compress compresses data. Empty input passes through.
func (c *Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	switch c.typ {
	case None:
		return data, nil
	case Snappy:
		return snappy.Encode(nil, data), nil
	case Zstd:
		return c.zstdEncoder.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCodec, c.typ)
	}
}

// Decompress decompresses data. Empty input passes through.
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	switch c.typ {
	case None:
		return data, nil
	case Snappy:
		out, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		return out, nil
	case Zstd:
		out, err := c.zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCodec, c.typ)
	}
}

// Close releases codec resources.
func (c *Codec) Close() error {
	if c.zstdEncoder != nil {
		c.zstdEncoder.Close()
		c.zstdEncoder = nil
	}
	if c.zstdDecoder != nil {
		c.zstdDecoder.Close()
		c.zstdDecoder = nil
	}
	return nil
}
