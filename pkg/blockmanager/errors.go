package blockmanager

import "fmt"

// SizeError reports a declared payload length above the sanity ceiling, or
// zero where the format requires a payload (value-log reads). It is treated
// as corruption: scans stop at the offending block rather than attempting
// the allocation.
type SizeError struct {
	Path   string
	Offset int64
	Size   uint32
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("blockmanager: invalid block size %d at offset %d in %s", e.Size, e.Offset, e.Path)
}

// TruncatedBlockError reports a payload read that ended before the declared
// length, which happens when a file is cut off mid-block.
type TruncatedBlockError struct {
	Path   string
	Offset int64
	Want   uint32
	Got    int
}

func (e *TruncatedBlockError) Error() string {
	return fmt.Sprintf("blockmanager: short block read at offset %d in %s: expected %d bytes, got %d",
		e.Offset, e.Path, e.Want, e.Got)
}

// ChecksumMismatchError reports a stored digest that disagrees with the
// recomputed one. It carries everything a diagnostic message needs; detection
// and formatting stay decoupled.
type ChecksumMismatchError struct {
	Path     string
	Offset   int64
	Size     uint32
	Stored   uint32
	Computed uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("blockmanager: checksum mismatch at offset %d in %s: stored 0x%08X, computed 0x%08X",
		e.Offset, e.Path, e.Stored, e.Computed)
}
