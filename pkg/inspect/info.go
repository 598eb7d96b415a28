package inspect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KevoDB/inspect/pkg/blockmanager"
)

// containerSuffixes are the file name suffixes ListFiles recognizes.
var containerSuffixes = []string{".klog", ".vlog", ".log", ".wal"}

// FileInfo reports a container file's framing: size, block count and the
// sizes of the first and last blocks. It works for table files and
// write-ahead logs alike, which is why the last block gets no role label:
// in a table it holds metadata, in a WAL it is an ordinary entry.
func (s *Session) FileInfo(path string) (*FileInfoResult, error) {
	m, err := blockmanager.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	count, err := m.BlockCount()
	if err != nil {
		return nil, err
	}

	res := &FileInfoResult{
		Path:           path,
		Size:           m.Size(),
		BlockCount:     count,
		LastModified:   m.LastModified(),
		FirstBlockSize: -1,
		LastBlockSize:  -1,
	}

	if count > 0 {
		cur, err := m.Cursor()
		if err != nil {
			return nil, err
		}
		if err := cur.GotoFirst(); err == nil {
			if blk, err := cur.Read(); err == nil {
				res.FirstBlockSize = len(blk.Data)
			}
		}
		if err := cur.GotoLast(); err == nil {
			if blk, err := cur.Read(); err == nil {
				res.LastBlockSize = len(blk.Data)
			}
		}
	}

	fmt.Fprintf(s.out, "File: %s\n", path)
	fmt.Fprintf(s.out, "  File Size: %d bytes\n", res.Size)
	fmt.Fprintf(s.out, "  Block Count: %d\n", res.BlockCount)
	fmt.Fprintf(s.out, "  Last Modified: %s\n", res.LastModified.Format("2006-01-02 15:04:05"))
	if res.FirstBlockSize >= 0 {
		fmt.Fprintf(s.out, "  First Block Size: %d bytes\n", res.FirstBlockSize)
		fmt.Fprintf(s.out, "  Last Block Size: %d bytes\n", res.LastBlockSize)
	}
	fmt.Fprintf(s.out, "Status: OK\n")

	return res, nil
}

// ListFiles enumerates container files directly under dir.
func (s *Session) ListFiles(dir string) (*ListResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	res := &ListResult{Dir: dir}
	fmt.Fprintf(s.out, "Container files in %s:\n", dir)

	for _, entry := range entries {
		if entry.IsDir() || !hasContainerSuffix(entry.Name()) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			s.log.Warn("skipping %s: %v", entry.Name(), err)
			continue
		}
		res.Files = append(res.Files, FileEntry{Name: entry.Name(), Size: info.Size()})
		fmt.Fprintf(s.out, "  %s (%d bytes)\n", entry.Name(), info.Size())
	}

	if len(res.Files) == 0 {
		fmt.Fprintf(s.out, "  (no container files found)\n")
	} else {
		fmt.Fprintf(s.out, "(%d container files)\n", len(res.Files))
	}
	return res, nil
}

func hasContainerSuffix(name string) bool {
	for _, suffix := range containerSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
