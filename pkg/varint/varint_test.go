package varint

import (
	"bytes"
	"errors"
	"testing"
)

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 127, 128, 129, 255, 256, 16383, 16384,
		1<<21 - 1, 1 << 21, 1<<28 - 1, 1 << 28,
		1<<35 - 1, 1 << 42, 1 << 49, 1 << 56, 1<<63 - 1, 1 << 63, ^uint64(0),
	}

	for _, want := range values {
		buf := AppendUvarint(nil, want)
		if len(buf) != Len(want) {
			t.Errorf("Len(%d) = %d, encoded %d bytes", want, Len(want), len(buf))
		}

		got, n, err := Uvarint(buf)
		if err != nil {
			t.Fatalf("Uvarint(%d): unexpected error: %v", want, err)
		}
		if got != want {
			t.Errorf("Round trip failed: encoded %d, decoded %d", want, got)
		}
		if n != len(buf) {
			t.Errorf("Uvarint(%d): consumed %d bytes, encoded %d", want, n, len(buf))
		}
	}
}

func TestUvarintTruncation(t *testing.T) {
	// Truncating a multi-byte encoding at every interior offset must yield
	// ErrTruncated, never a value or an out-of-window read.
	full := AppendUvarint(nil, ^uint64(0))

	for cut := 0; cut < len(full); cut++ {
		_, _, err := Uvarint(full[:cut])
		if err == nil {
			t.Errorf("Uvarint with %d of %d bytes: expected error, got none", cut, len(full))
			continue
		}
		if cut < MaxLen && !errors.Is(err, ErrTruncated) {
			t.Errorf("Uvarint with %d bytes: expected ErrTruncated, got %v", cut, err)
		}
	}
}

func TestUvarintOverflow(t *testing.T) {
	// Eleven continuation bytes never terminate within the cap.
	buf := bytes.Repeat([]byte{0x80}, 11)
	if _, _, err := Uvarint(buf); !errors.Is(err, ErrOverflow) {
		t.Errorf("Expected ErrOverflow, got %v", err)
	}

	// Exactly MaxLen bytes without a terminator is also overflow, not truncation.
	buf = bytes.Repeat([]byte{0x80}, MaxLen)
	if _, _, err := Uvarint(buf); !errors.Is(err, ErrOverflow) {
		t.Errorf("Expected ErrOverflow for unterminated %d-byte window, got %v", MaxLen, err)
	}
}

func TestUvarintEmptyWindow(t *testing.T) {
	if _, _, err := Uvarint(nil); !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated for empty window, got %v", err)
	}
}

func TestUvarintStopsAtTerminator(t *testing.T) {
	// Trailing bytes past the terminator must not be consumed.
	buf := append(AppendUvarint(nil, 300), 0xde, 0xad)
	v, n, err := Uvarint(buf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v != 300 {
		t.Errorf("Expected 300, got %d", v)
	}
	if n != 2 {
		t.Errorf("Expected 2 bytes consumed, got %d", n)
	}
}
