package spatial

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/broadphase/internal/core/models"
)

// Fingerprint digests the set of record ids. The result ignores order, so two
// queries returning the same records in different sequence share a fingerprint.
func Fingerprint(records []models.Record) uint64 {
	ids := models.IDs(records)
	slices.Sort(ids)

	d := xxhash.New()
	var buf [8]byte
	for _, id := range ids {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
