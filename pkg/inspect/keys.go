package inspect

import (
	"fmt"

	"github.com/KevoDB/inspect/pkg/blockmanager"
	"github.com/KevoDB/inspect/pkg/record"
)

// Keys lists keys in arrival order, marking tombstones, and reports the
// overall key range: the first and last key observed across the whole walk.
func (s *Session) Keys(path string, limit int) (*KeysResult, error) {
	limit = normalizeLimit(limit)

	m, err := blockmanager.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	s.warnIfLarge(m.Size(), limit)
	fmt.Fprintf(s.out, "Keys (limit: %d):\n", limit)

	res := &KeysResult{}
	_, err = walkRecords(m, func(blockIndex int, rec *record.Record) bool {
		res.Keys++
		if rec.Tombstone() {
			res.Tombstones++
			fmt.Fprintf(s.out, "%q [tombstone]\n", rec.Key)
		} else {
			fmt.Fprintf(s.out, "%q\n", rec.Key)
		}

		// Keys alias the current block's payload; copy what outlives it.
		if res.FirstKey == nil {
			res.FirstKey = append([]byte(nil), rec.Key...)
		}
		res.LastKey = append(res.LastKey[:0], rec.Key...)

		return res.Keys < limit
	})
	if err != nil {
		return nil, err
	}

	if res.Keys > 0 {
		fmt.Fprintf(s.out, "\nKey Range: %q - %q\n", res.FirstKey, res.LastKey)
	}
	fmt.Fprintf(s.out, "(%d keys, %d tombstones)\n", res.Keys, res.Tombstones)
	fmt.Fprintf(s.out, "Status: OK\n")
	return res, nil
}
