package vlog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KevoDB/inspect/pkg/blockmanager"
)

func writeValueLog(t *testing.T, path string, values ...[]byte) []int64 {
	t.Helper()

	w, err := blockmanager.Create(path)
	if err != nil {
		t.Fatalf("Failed to create value log: %v", err)
	}
	defer w.Close()

	offsets := make([]int64, 0, len(values))
	for i, v := range values {
		off, err := w.Append(v)
		if err != nil {
			t.Fatalf("Failed to append value %d: %v", i, err)
		}
		offsets = append(offsets, off)
	}
	return offsets
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.vlog")
	values := [][]byte{
		[]byte("small value"),
		bytes.Repeat([]byte("x"), 4096),
	}
	offsets := writeValueLog(t, path, values...)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open resolver: %v", err)
	}
	defer r.Close()

	for i, off := range offsets {
		got, err := r.Get(uint64(off))
		if err != nil {
			t.Fatalf("Value %d: resolve failed: %v", i, err)
		}
		if !bytes.Equal(got, values[i]) {
			t.Errorf("Value %d: payload mismatch", i)
		}
	}
}

func TestResolveChecksumFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.vlog")
	offsets := writeValueLog(t, path, []byte("value that will be corrupted"))

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("Failed to reopen value log: %v", err)
	}
	corruptAt := offsets[0] + blockmanager.BlockHeaderSize + 3
	if _, err := f.WriteAt([]byte{0x00}, corruptAt); err != nil {
		t.Fatalf("Failed to corrupt payload: %v", err)
	}
	f.Close()

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open resolver: %v", err)
	}
	defer r.Close()

	_, err = r.Get(uint64(offsets[0]))
	var mismatch *blockmanager.ChecksumMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected ChecksumMismatchError, got %v", err)
	}
	if mismatch.Offset != offsets[0] {
		t.Errorf("Mismatch offset = %d, expected %d", mismatch.Offset, offsets[0])
	}
}

func TestResolveReadFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.vlog")
	writeValueLog(t, path, []byte("only value"))

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open resolver: %v", err)
	}
	defer r.Close()

	// An offset past the end of the file is a structural failure, distinct
	// from a checksum failure.
	_, err = r.Get(1 << 20)
	if err == nil {
		t.Fatal("Expected an error for an out-of-range offset")
	}
	var mismatch *blockmanager.ChecksumMismatchError
	if errors.As(err, &mismatch) {
		t.Errorf("Out-of-range offset must not classify as checksum failure: %v", err)
	}
}

func TestResolveSizeSanity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.vlog")
	offsets := writeValueLog(t, path, []byte("value"))

	// Clobber the declared length with something absurd.
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("Failed to reopen value log: %v", err)
	}
	if _, err := f.WriteAt([]byte{0xff, 0xff, 0xff, 0x7f}, offsets[0]); err != nil {
		t.Fatalf("Failed to clobber length: %v", err)
	}
	f.Close()

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open resolver: %v", err)
	}
	defer r.Close()

	_, err = r.Get(uint64(offsets[0]))
	var sizeErr *blockmanager.SizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("Expected SizeError, got %v", err)
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.vlog")); err == nil {
		t.Fatal("Expected an error opening a missing value log")
	}
}
