package compress

import (
	"bytes"
	"errors"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("compressible payload "), 100)

	for _, typ := range []Type{None, Snappy, Zstd} {
		t.Run(typ.String(), func(t *testing.T) {
			c, err := NewCodec(typ)
			if err != nil {
				t.Fatalf("Failed to create codec: %v", err)
			}
			defer c.Close()

			packed, err := c.Compress(data)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			if typ != None && len(packed) >= len(data) {
				t.Errorf("Expected compression to shrink %d bytes, got %d", len(data), len(packed))
			}

			unpacked, err := c.Decompress(packed)
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if !bytes.Equal(unpacked, data) {
				t.Error("Round trip changed the payload")
			}
		})
	}
}

func TestDecompressGarbage(t *testing.T) {
	for _, typ := range []Type{Snappy, Zstd} {
		t.Run(typ.String(), func(t *testing.T) {
			c, err := NewCodec(typ)
			if err != nil {
				t.Fatalf("Failed to create codec: %v", err)
			}
			defer c.Close()

			if _, err := c.Decompress([]byte{0xde, 0xad, 0xbe, 0xef}); !errors.Is(err, ErrInvalidData) {
				t.Errorf("Expected ErrInvalidData, got %v", err)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		name    string
		want    Type
		wantErr bool
	}{
		{"", None, false},
		{"none", None, false},
		{"snappy", Snappy, false},
		{"zstd", Zstd, false},
		{"lz4", None, true},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownCodec) {
				t.Errorf("ParseType(%q): expected ErrUnknownCodec, got %v", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseType(%q): unexpected error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %v, expected %v", tt.name, got, tt.want)
		}
	}
}
