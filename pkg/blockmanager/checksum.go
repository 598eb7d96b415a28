package blockmanager

import "github.com/cespare/xxhash/v2"

// Checksum computes the 32-bit block digest: the low 32 bits of xxHash64
// with its default zero seed. The container format stores 32-bit checksums;
// this is not a cryptographic guarantee, only a corruption detector.
func Checksum(data []byte) uint32 {
	return uint32(xxhash.Sum64(data))
}
