// Package inspect implements the offline inspection and integrity
// verification commands over container files: dumps, key listings,
// statistics, checksum and log verification, and filter diagnostics. It
// reads raw files byte-by-byte without a live store, so every decode is
// defensive: truncated or hostile input produces a reported failure, never
// a fault, and corruption is detected and reported but never repaired.
package inspect

import (
	"fmt"
	"io"
	"os"

	"github.com/KevoDB/inspect/pkg/common/log"
)

const (
	// DefaultLimit caps per-record output when the caller does not ask for
	// a specific ceiling. Limits are never raised implicitly.
	DefaultLimit = 1000

	// LargeFileThreshold is the file size above which commands warn that
	// the output limit still applies.
	LargeFileThreshold = 100 * 1024 * 1024

	// ValuePreviewSize is the longest value printed verbatim; anything
	// larger is summarized as a byte count.
	ValuePreviewSize = 64
)

// Session carries the output writer and logger every command handler uses.
// One session lives for the duration of an interactive run or a single
// one-shot command; it holds no open files between commands.
type Session struct {
	out io.Writer
	log log.Logger
}

// NewSession creates a session. A nil writer defaults to stdout and a nil
// logger to the standard logger.
func NewSession(out io.Writer, logger log.Logger) *Session {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = log.NewStandardLogger()
	}
	return &Session{out: out, log: logger}
}

// normalizeLimit applies the default ceiling to unset or nonsense limits.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// warnIfLarge emits the large-file warning. The limit is reported, not
// raised.
func (s *Session) warnIfLarge(size int64, limit int) {
	if size > LargeFileThreshold {
		fmt.Fprintf(s.out, "Warning: large file (%d MB), limiting output to %d entries\n",
			size/(1024*1024), limit)
		s.log.Warn("file exceeds %d MB, output limited to %d entries", LargeFileThreshold/(1024*1024), limit)
	}
}
