// Package vlog resolves value-log references: records whose value bytes live
// in a companion file, addressed by absolute byte offset, framed exactly like
// a container block (8-byte header, then the payload).
package vlog

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/KevoDB/inspect/pkg/blockmanager"
)

// Resolver reads referenced payloads out of one companion value-log file.
// The file handle is held for the lifetime of the resolver so a dump can
// resolve many references without reopening per record.
type Resolver struct {
	path string
	file *os.File
}

// Open opens the companion value-log file for reading.
func Open(path string) (*Resolver, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open value log: %w", err)
	}
	return &Resolver{path: path, file: file}, nil
}

// Path returns the path the resolver was opened with.
func (r *Resolver) Path() string {
	return r.path
}

// Get reads and verifies the payload whose block header starts at offset.
// Callers can tell the three outcomes apart: a ChecksumMismatchError means
// the payload was read but its digest disagrees with the stored one, any
// other error is a structural or read failure, and a nil error means the
// returned bytes are intact.
//
// The payload length is taken from the value log itself; it may legitimately
// differ from the size recorded inline when the payload is compressed.
func (r *Resolver) Get(offset uint64) ([]byte, error) {
	header := make([]byte, blockmanager.BlockHeaderSize)
	if _, err := r.file.ReadAt(header, int64(offset)); err != nil {
		return nil, fmt.Errorf("failed to read value header at offset %d: %w", offset, err)
	}

	length := binary.LittleEndian.Uint32(header[0:4])
	stored := binary.LittleEndian.Uint32(header[4:8])
	if length == 0 || length > blockmanager.MaxBlockSize {
		return nil, &blockmanager.SizeError{Path: r.path, Offset: int64(offset), Size: length}
	}

	payload := make([]byte, length)
	if n, err := r.file.ReadAt(payload, int64(offset)+blockmanager.BlockHeaderSize); err != nil {
		return nil, &blockmanager.TruncatedBlockError{Path: r.path, Offset: int64(offset), Want: length, Got: n}
	}

	if computed := blockmanager.Checksum(payload); computed != stored {
		return nil, &blockmanager.ChecksumMismatchError{
			Path:     r.path,
			Offset:   int64(offset),
			Size:     length,
			Stored:   stored,
			Computed: computed,
		}
	}

	return payload, nil
}

// Close releases the value-log file handle.
func (r *Resolver) Close() error {
	return r.file.Close()
}
