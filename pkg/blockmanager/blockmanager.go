// Package blockmanager reads and writes the length-prefixed, checksummed
// block containers used for both table files and write-ahead logs.
//
// A container file starts with an 8-byte file header, followed by a sequence
// of blocks. Each block is laid out as:
//
//	[4-byte LE payload length][4-byte LE checksum][payload][8-byte trailer]
//
// The trailer is reserved: it is written as zeros, skipped on read and never
// interpreted. The skip distance of 8 + length + 8 bytes per block is part of
// the format contract.
package blockmanager

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	// FileHeaderSize is the fixed file-level header preceding the first block
	FileHeaderSize = 8

	// BlockHeaderSize is the per-block length + checksum prefix
	BlockHeaderSize = 8

	// BlockTrailerSize is the reserved region following each payload
	BlockTrailerSize = 8

	// MaxBlockSize is the sanity ceiling on a declared payload length.
	// Anything larger is treated as corruption rather than attempted.
	MaxBlockSize = 100 * 1024 * 1024

	// magic and formatVersion make up the file header written by Writer.
	// Readers skip the header without validating it.
	magic         uint32 = 0x4b564231 // "KVB1"
	formatVersion uint32 = 1
)

// ErrNoBlocks is returned when a cursor operation targets an empty container.
var ErrNoBlocks = errors.New("blockmanager: container has no blocks")

// Manager provides read-only access to one container file.
type Manager struct {
	path    string
	file    *os.File
	size    int64
	modTime time.Time

	// offsets caches the start offset of every well-formed block header,
	// built lazily on first use.
	offsets []int64
}

// Open opens a container file for pure reading. No locks are taken.
func Open(path string) (*Manager, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open container file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat container file: %w", err)
	}

	return &Manager{
		path:    path,
		file:    file,
		size:    info.Size(),
		modTime: info.ModTime(),
	}, nil
}

// Path returns the path the manager was opened with.
func (m *Manager) Path() string {
	return m.path
}

// Size returns the container file size in bytes.
func (m *Manager) Size() int64 {
	return m.size
}

// LastModified returns the file modification time observed at open.
func (m *Manager) LastModified() time.Time {
	return m.modTime
}

// BlockCount returns the number of well-formed block headers in the file.
// Scanning stops at the first malformed header; blocks beyond it are
// unreachable through sequential iteration and are not counted.
func (m *Manager) BlockCount() (int, error) {
	if err := m.index(); err != nil {
		return 0, err
	}
	return len(m.offsets), nil
}

// Cursor returns a cursor positioned before the first block.
func (m *Manager) Cursor() (*Cursor, error) {
	if err := m.index(); err != nil {
		return nil, err
	}
	return &Cursor{m: m, idx: -1}, nil
}

// Close releases the underlying file handle.
func (m *Manager) Close() error {
	return m.file.Close()
}

// index walks the block headers once and records each block's start offset.
func (m *Manager) index() error {
	if m.offsets != nil {
		return nil
	}

	offsets := make([]int64, 0, 16)
	header := make([]byte, BlockHeaderSize)
	pos := int64(FileHeaderSize)

	for pos+BlockHeaderSize <= m.size {
		if _, err := m.file.ReadAt(header, pos); err != nil {
			return fmt.Errorf("failed to read block header at offset %d: %w", pos, err)
		}

		// Zero-length blocks are legal: an empty filter block records a
		// disabled filter. Only an oversized length ends iteration.
		length := binary.LittleEndian.Uint32(header[0:4])
		if length > MaxBlockSize {
			break
		}

		offsets = append(offsets, pos)
		pos += BlockHeaderSize + int64(length) + BlockTrailerSize
	}

	m.offsets = offsets
	return nil
}

// readBlockAt reads the block whose header starts at the given offset.
func (m *Manager) readBlockAt(pos int64, idx int) (*Block, error) {
	header := make([]byte, BlockHeaderSize)
	if _, err := m.file.ReadAt(header, pos); err != nil {
		return nil, fmt.Errorf("failed to read block header at offset %d: %w", pos, err)
	}

	length := binary.LittleEndian.Uint32(header[0:4])
	stored := binary.LittleEndian.Uint32(header[4:8])
	if length > MaxBlockSize {
		return nil, &SizeError{Path: m.path, Offset: pos, Size: length}
	}

	data := make([]byte, length)
	if n, err := m.file.ReadAt(data, pos+BlockHeaderSize); err != nil {
		return nil, &TruncatedBlockError{Path: m.path, Offset: pos, Want: length, Got: n}
	}

	return &Block{Data: data, Index: idx, StoredChecksum: stored}, nil
}

// Block is one decoded container block. Data is an owned copy of the payload.
type Block struct {
	Data           []byte
	Index          int
	StoredChecksum uint32
}

// VerifyChecksum recomputes the payload digest and compares it against the
// stored value.
func (b *Block) VerifyChecksum() (uint32, bool) {
	computed := Checksum(b.Data)
	return computed, computed == b.StoredChecksum
}

// Cursor iterates the blocks of a container without exposing raw offsets.
type Cursor struct {
	m   *Manager
	idx int
}

// GotoFirst positions the cursor on the first block.
func (c *Cursor) GotoFirst() error {
	if len(c.m.offsets) == 0 {
		return ErrNoBlocks
	}
	c.idx = 0
	return nil
}

// GotoLast positions the cursor on the last block.
func (c *Cursor) GotoLast() error {
	if len(c.m.offsets) == 0 {
		return ErrNoBlocks
	}
	c.idx = len(c.m.offsets) - 1
	return nil
}

// Next advances to the following block, returning ErrNoBlocks past the end.
func (c *Cursor) Next() error {
	if c.idx+1 >= len(c.m.offsets) {
		return ErrNoBlocks
	}
	c.idx++
	return nil
}

// Prev steps back to the preceding block.
func (c *Cursor) Prev() error {
	if c.idx <= 0 {
		return ErrNoBlocks
	}
	c.idx--
	return nil
}

// Read returns the block under the cursor. The stored checksum is surfaced
// but deliberately not validated here: verification is a separate concern and
// a mismatching block must still be readable for forensic dumps.
func (c *Cursor) Read() (*Block, error) {
	if c.idx < 0 || c.idx >= len(c.m.offsets) {
		return nil, ErrNoBlocks
	}
	return c.m.readBlockAt(c.m.offsets[c.idx], c.idx)
}
