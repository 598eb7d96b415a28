package inspect

import (
	"errors"

	"github.com/KevoDB/inspect/pkg/blockmanager"
	"github.com/KevoDB/inspect/pkg/record"
)

// walkRecords drives the record decoder across every block of a container,
// through the opaque cursor. The visitor returns false to stop the walk
// early (output limit reached). A decode failure inside a block just ends
// that block's records; a block read failure ends the walk. Neither is an
// error: partial blocks are expected at truncation points and later blocks
// may still be useful.
func walkRecords(m *blockmanager.Manager, visit func(blockIndex int, rec *record.Record) bool) (blocks int, err error) {
	cur, err := m.Cursor()
	if err != nil {
		return 0, err
	}

	if err := cur.GotoFirst(); err != nil {
		if errors.Is(err, blockmanager.ErrNoBlocks) {
			return 0, nil
		}
		return 0, err
	}

	for {
		blk, err := cur.Read()
		if err != nil {
			return blocks, nil
		}
		blocks++

		dec := record.NewDecoder(blk.Data)
		for {
			rec, err := dec.Next()
			if err != nil {
				// End of well-formed records in this block.
				break
			}
			if !visit(blk.Index, rec) {
				return blocks, nil
			}
		}

		if err := cur.Next(); err != nil {
			return blocks, nil
		}
	}
}
