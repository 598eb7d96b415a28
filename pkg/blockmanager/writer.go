package blockmanager

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Writer appends blocks to a new container file. The inspection engine never
// rewrites storage; the writer exists to produce well-formed containers for
// fixtures and tooling.
type Writer struct {
	path string
	file *os.File
	pos  int64
}

// Create creates a container file at path and writes the file header.
func Create(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create container file: %w", err)
	}

	header := make([]byte, FileHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], magic)
	binary.LittleEndian.PutUint32(header[4:8], formatVersion)
	if _, err := file.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write file header: %w", err)
	}

	return &Writer{path: path, file: file, pos: FileHeaderSize}, nil
}

// Append writes one block (header, payload, zeroed trailer) and returns the
// byte offset of the block's header, which is how value-log references
// address their payloads.
func (w *Writer) Append(payload []byte) (int64, error) {
	if len(payload) > MaxBlockSize {
		return 0, &SizeError{Path: w.path, Offset: w.pos, Size: uint32(len(payload))}
	}

	offset := w.pos

	header := make([]byte, BlockHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[4:8], Checksum(payload))

	if _, err := w.file.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write block header: %w", err)
	}
	if _, err := w.file.Write(payload); err != nil {
		return 0, fmt.Errorf("failed to write block payload: %w", err)
	}
	var trailer [BlockTrailerSize]byte
	if _, err := w.file.Write(trailer[:]); err != nil {
		return 0, fmt.Errorf("failed to write block trailer: %w", err)
	}

	w.pos += BlockHeaderSize + int64(len(payload)) + BlockTrailerSize
	return offset, nil
}

// Sync flushes written blocks to stable storage.
func (w *Writer) Sync() error {
	return w.file.Sync()
}

// Close closes the container file.
func (w *Writer) Close() error {
	return w.file.Close()
}
