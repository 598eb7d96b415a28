package inspect

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KevoDB/inspect/pkg/blockmanager"
	"github.com/KevoDB/inspect/pkg/compress"
	"github.com/KevoDB/inspect/pkg/record"
	"github.com/KevoDB/inspect/pkg/vlog"
)

// DumpOptions configures DumpFull.
type DumpOptions struct {
	// VLogPath names the companion value log; empty means value-log
	// references are reported but not resolved.
	VLogPath string

	// Limit caps emitted entries; zero means DefaultLimit.
	Limit int

	// Codec decompresses resolved value-log payloads.
	Codec compress.Type
}

// flagAnnotations renders the bracketed flag markers shared by the dump
// variants.
func flagAnnotations(sb *strings.Builder, rec *record.Record) {
	if rec.Tombstone() {
		sb.WriteString("[DEL] ")
	}
	if rec.HasTTL() {
		fmt.Fprintf(sb, "[TTL:%d] ", rec.TTL)
	}
}

// valueSummary renders the value portion of a dump line. Values beyond
// ValuePreviewSize collapse to a byte count.
func valueSummary(sb *strings.Builder, value []byte) {
	if len(value) == 0 {
		return
	}
	if len(value) <= ValuePreviewSize {
		fmt.Fprintf(sb, " value=%q", value)
	} else {
		fmt.Fprintf(sb, " value=(%d bytes)", len(value))
	}
}

// Dump renders every decodable record in arrival order, annotated with its
// block index. Value-log references are shown as placeholders; use DumpFull
// to resolve them.
func (s *Session) Dump(path string, limit int) (*DumpResult, error) {
	limit = normalizeLimit(limit)

	m, err := blockmanager.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	s.warnIfLarge(m.Size(), limit)
	fmt.Fprintf(s.out, "Entries (limit: %d):\n", limit)

	res := &DumpResult{}
	blocks, err := walkRecords(m, func(blockIndex int, rec *record.Record) bool {
		res.Entries++

		var sb strings.Builder
		fmt.Fprintf(&sb, "%d) [blk:%d] ", res.Entries, blockIndex)
		flagAnnotations(&sb, rec)
		if rec.HasVLog() {
			fmt.Fprintf(&sb, "[VLOG:%d] ", rec.VLogOffset)
		}
		fmt.Fprintf(&sb, "seq=%d key=%q", rec.Seq, rec.Key)
		if rec.HasVLog() {
			fmt.Fprintf(&sb, " value=(in vlog, %d bytes)", rec.ValueSize)
		} else {
			valueSummary(&sb, rec.Value)
		}
		fmt.Fprintln(s.out, sb.String())

		return res.Entries < limit
	})
	if err != nil {
		return nil, err
	}
	res.Blocks = blocks

	fmt.Fprintf(s.out, "\n(%d entries dumped from %d blocks)\n", res.Entries, res.Blocks)
	fmt.Fprintf(s.out, "Status: OK\n")
	return res, nil
}

// DumpWAL renders write-ahead log entries, one record per block, as the
// operations they replay to.
func (s *Session) DumpWAL(path string, limit int) (*DumpResult, error) {
	limit = normalizeLimit(limit)

	m, err := blockmanager.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	s.warnIfLarge(m.Size(), limit)
	fmt.Fprintf(s.out, "WAL Entries (limit: %d):\n", limit)

	res := &DumpResult{}
	cur, err := m.Cursor()
	if err != nil {
		return nil, err
	}

	if err := cur.GotoFirst(); err != nil {
		if errors.Is(err, blockmanager.ErrNoBlocks) {
			fmt.Fprintf(s.out, "(empty WAL)\nStatus: OK\n")
			return res, nil
		}
		return nil, err
	}

	for res.Entries < limit {
		blk, err := cur.Read()
		if err != nil {
			break
		}
		res.Blocks++

		// One record per block; a decode failure means a corrupt entry,
		// which the dump skips and the verifier counts.
		rec, err := record.NewDecoder(blk.Data).Next()
		if err == nil {
			res.Entries++

			var sb strings.Builder
			fmt.Fprintf(&sb, "%d) ", res.Entries)
			if rec.Tombstone() {
				sb.WriteString("[DELETE] ")
			} else {
				sb.WriteString("[PUT] ")
			}
			if rec.HasTTL() {
				fmt.Fprintf(&sb, "[TTL:%d] ", rec.TTL)
			}
			fmt.Fprintf(&sb, "seq=%d key=%q", rec.Seq, rec.Key)
			valueSummary(&sb, rec.Value)
			fmt.Fprintln(s.out, sb.String())
		}

		if err := cur.Next(); err != nil {
			break
		}
	}

	fmt.Fprintf(s.out, "\n(%d WAL entries dumped)\n", res.Entries)
	fmt.Fprintf(s.out, "Status: OK\n")
	return res, nil
}

// DumpFull renders records via the positional scanner, verifying each
// block's checksum inline and resolving value-log references against the
// companion file. Records under a mismatching block are flagged, not
// dropped: they may still matter for forensic recovery.
func (s *Session) DumpFull(path string, opts DumpOptions) (*DumpResult, error) {
	limit := normalizeLimit(opts.Limit)

	scanner, err := blockmanager.OpenScanner(path)
	if err != nil {
		return nil, err
	}
	defer scanner.Close()

	var resolver *vlog.Resolver
	if opts.VLogPath != "" {
		if resolver, err = vlog.Open(opts.VLogPath); err != nil {
			return nil, err
		}
		defer resolver.Close()
	}

	var codec *compress.Codec
	if opts.Codec != compress.None {
		if codec, err = compress.NewCodec(opts.Codec); err != nil {
			return nil, err
		}
		defer codec.Close()
	}

	s.warnIfLarge(scanner.Size(), limit)
	fmt.Fprintf(s.out, "Full Dump (limit: %d):\n", limit)
	fmt.Fprintf(s.out, "  File: %s\n", path)
	if resolver != nil {
		fmt.Fprintf(s.out, "  VLog: %s\n", resolver.Path())
	}
	fmt.Fprintln(s.out)

	res := &DumpResult{}
	for res.Entries < limit {
		blk, err := scanner.Next()
		if err != nil {
			if err != io.EOF {
				// Size-sanity violation or short read: corruption that
				// ends the scan rather than risking a huge allocation.
				fmt.Fprintf(s.out, "  %v\n", err)
				res.ScanStopped = true
			}
			break
		}
		res.Blocks++

		_, checksumOK := blk.VerifyChecksum()
		if !checksumOK {
			res.ChecksumErrors++
		}

		dec := record.NewDecoder(blk.Data)
		for res.Entries < limit {
			rec, err := dec.Next()
			if err != nil {
				break
			}
			res.Entries++
			s.writeFullDumpLine(res.Entries, blk.Index, checksumOK, rec, resolver, codec)
		}
	}

	fmt.Fprintf(s.out, "\n(%d entries from %d blocks", res.Entries, res.Blocks)
	if res.ChecksumErrors > 0 {
		fmt.Fprintf(s.out, ", %d checksum errors", res.ChecksumErrors)
	}
	fmt.Fprintf(s.out, ")\n")
	if res.OK() {
		fmt.Fprintf(s.out, "Status: OK\n")
	} else {
		fmt.Fprintf(s.out, "Status: CORRUPTED\n")
	}
	return res, nil
}

// writeFullDumpLine renders one record with checksum and value-log
// annotations. The three resolution outcomes render distinctly: no
// companion file, read failure, checksum failure.
func (s *Session) writeFullDumpLine(n, blockIndex int, checksumOK bool, rec *record.Record,
	resolver *vlog.Resolver, codec *compress.Codec) {

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d) [blk:%d", n, blockIndex)
	if !checksumOK {
		sb.WriteString(" CHECKSUM_ERR")
	}
	sb.WriteString("] ")
	flagAnnotations(&sb, rec)

	value := rec.Value
	resolved := false

	if rec.HasVLog() {
		note := ""
		if resolver == nil {
			note = " NO_VLOG_FILE"
		} else if rec.ValueSize > 0 {
			payload, err := resolver.Get(rec.VLogOffset)
			switch {
			case err == nil:
				value = payload
				resolved = true
			case isChecksumMismatch(err):
				note = " CHECKSUM_ERR"
			default:
				note = " READ_ERR"
			}
			if resolved && codec != nil {
				if unpacked, err := codec.Decompress(payload); err == nil {
					value = unpacked
				} else {
					note = " DECOMPRESS_ERR"
					resolved = false
					value = nil
				}
			}
		}
		fmt.Fprintf(&sb, "[VLOG:%d%s] ", rec.VLogOffset, note)
	}

	fmt.Fprintf(&sb, "seq=%d key=%q", rec.Seq, rec.Key)

	if rec.HasVLog() && !resolved {
		fmt.Fprintf(&sb, " value=(vlog, %d bytes, not retrieved)", rec.ValueSize)
	} else {
		valueSummary(&sb, value)
	}
	fmt.Fprintln(s.out, sb.String())
}

func isChecksumMismatch(err error) bool {
	var mismatch *blockmanager.ChecksumMismatchError
	return errors.As(err, &mismatch)
}
