package inspect

import "time"

// FileInfoResult describes a container file's framing without decoding
// records.
type FileInfoResult struct {
	Path           string
	Size           int64
	BlockCount     int
	LastModified   time.Time
	FirstBlockSize int // -1 when the container is empty
	LastBlockSize  int // -1 when the container is empty
}

// DumpResult summarizes a dump walk.
type DumpResult struct {
	Entries        int
	Blocks         int
	ChecksumErrors int  // positional dumps only
	ScanStopped    bool // a size-sanity violation or short read ended the scan
}

// OK reports whether the dump saw no corruption.
func (r *DumpResult) OK() bool {
	return r.ChecksumErrors == 0 && !r.ScanStopped
}

// KeysResult summarizes a keys-only walk.
type KeysResult struct {
	Keys       int
	Tombstones int
	FirstKey   []byte // first key observed in arrival order
	LastKey    []byte // last key observed in arrival order
}

// StatsResult aggregates per-record statistics across a whole file.
type StatsResult struct {
	Path       string
	FileSize   int64
	Blocks     int
	Entries    uint64
	Tombstones uint64
	TTLEntries uint64
	VLogRefs   uint64

	MinSeq uint64
	MaxSeq uint64

	MinKeySize   uint64
	MaxKeySize   uint64
	TotalKeySize uint64

	MinValueSize   uint64
	MaxValueSize   uint64
	TotalValueSize uint64
}

// AvgKeySize returns the mean key size, zero for an empty file.
func (r *StatsResult) AvgKeySize() float64 {
	if r.Entries == 0 {
		return 0
	}
	return float64(r.TotalKeySize) / float64(r.Entries)
}

// AvgValueSize returns the mean value size, zero for an empty file.
func (r *StatsResult) AvgValueSize() float64 {
	if r.Entries == 0 {
		return 0
	}
	return float64(r.TotalValueSize) / float64(r.Entries)
}

// ChecksumMismatch records one block whose stored and computed digests
// disagree.
type ChecksumMismatch struct {
	Index    int
	Offset   int64
	Size     uint32
	Stored   uint32
	Computed uint32
}

// ChecksumResult summarizes a whole-file checksum verification.
type ChecksumResult struct {
	Path       string
	FileSize   int64
	Blocks     int
	Valid      int
	Invalid    int
	Mismatches []ChecksumMismatch
}

// OK reports whether every block verified.
func (r *ChecksumResult) OK() bool {
	return r.Invalid == 0
}

// WALVerifyResult summarizes a write-ahead log integrity scan.
type WALVerifyResult struct {
	Path      string
	FileSize  int64
	Valid     int
	Corrupted int

	// MinSeq and MaxSeq cover every structurally valid entry, including
	// entries past a detected break.
	MinSeq uint64
	MaxSeq uint64

	// LastValidOffset is the recovery boundary: the start offset of the
	// last valid block before the first break. Valid entries beyond a
	// break never extend it.
	LastValidOffset int64
}

// OK reports whether the log verified clean.
func (r *WALVerifyResult) OK() bool {
	return r.Corrupted == 0
}

// FilterStatsResult describes the embedded filter block.
type FilterStatsResult struct {
	Path           string
	SerializedSize int
	Enabled        bool // false when the filter block is empty
	Decoded        bool // false when deserialization failed

	M            uint32
	H            uint32
	Words        int
	BitsSet      uint64
	FillRatio    float64
	EstimatedFPR float64
	HighFill     bool // fill ratio strictly above one half
}

// FileEntry is one container file found by ListFiles.
type FileEntry struct {
	Name string
	Size int64
}

// ListResult enumerates container files under a directory.
type ListResult struct {
	Dir   string
	Files []FileEntry
}
