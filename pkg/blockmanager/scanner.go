package blockmanager

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Scanner walks a container file by direct positional reads, exposing the
// byte offset and stored checksum of every block. Verification, recovery
// boundary tracking and full dumps use this path; the opaque Cursor is for
// callers that only need payloads.
type Scanner struct {
	path string
	file *os.File
	size int64
	pos  int64
	idx  int
}

// ScannedBlock is one block read by positional scan.
type ScannedBlock struct {
	Offset         int64 // start of the block header
	Index          int
	Data           []byte
	StoredChecksum uint32
}

// VerifyChecksum recomputes the payload digest and compares it against the
// stored value.
func (b *ScannedBlock) VerifyChecksum() (uint32, bool) {
	computed := Checksum(b.Data)
	return computed, computed == b.StoredChecksum
}

// OpenScanner opens a container file for positional scanning, positioned
// after the file header.
func OpenScanner(path string) (*Scanner, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open container file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat container file: %w", err)
	}

	return &Scanner{
		path: path,
		file: file,
		size: info.Size(),
		pos:  FileHeaderSize,
		idx:  -1,
	}, nil
}

// Size returns the container file size in bytes.
func (s *Scanner) Size() int64 {
	return s.size
}

// Next reads the block at the current position and advances past its trailer.
// It returns io.EOF at the end of the file (a trailing partial header counts
// as the end, not an error), a SizeError when the declared length fails the
// sanity check and a TruncatedBlockError when the payload is cut short. After
// a SizeError or TruncatedBlockError the scan cannot continue.
func (s *Scanner) Next() (*ScannedBlock, error) {
	if s.pos+BlockHeaderSize > s.size {
		return nil, io.EOF
	}

	header := make([]byte, BlockHeaderSize)
	if _, err := s.file.ReadAt(header, s.pos); err != nil {
		// A short read here means the file shrank since open; treat it as
		// the end. Anything else is a real I/O failure and must surface.
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read block header at offset %d in %s: %w", s.pos, s.path, err)
	}

	// Zero-length blocks are legal here (a disabled filter stores one);
	// only the sanity ceiling is enforced.
	length := binary.LittleEndian.Uint32(header[0:4])
	stored := binary.LittleEndian.Uint32(header[4:8])
	if length > MaxBlockSize {
		return nil, &SizeError{Path: s.path, Offset: s.pos, Size: length}
	}

	data := make([]byte, length)
	if n, err := s.file.ReadAt(data, s.pos+BlockHeaderSize); err != nil {
		return nil, &TruncatedBlockError{Path: s.path, Offset: s.pos, Want: length, Got: n}
	}

	s.idx++
	blk := &ScannedBlock{
		Offset:         s.pos,
		Index:          s.idx,
		Data:           data,
		StoredChecksum: stored,
	}

	// Advance past header, payload and the reserved trailer.
	s.pos += BlockHeaderSize + int64(length) + BlockTrailerSize
	return blk, nil
}

// Close releases the underlying file handle.
func (s *Scanner) Close() error {
	return s.file.Close()
}
