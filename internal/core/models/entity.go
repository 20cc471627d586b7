package models

import "github.com/go-gl/mathgl/mgl64"

// EntityID identifies an entity inside one tree snapshot.
// It is assigned by the caller and is not required to be stable across rebuilds.
type EntityID uint64

// Record is the value copied into spatial index leaves.
// Position keys insertion and partitioning; Size is the full extent of the
// entity and is carried for narrow-phase consumers only.
type Record struct {
	ID       EntityID
	Position mgl64.Vec3
	Size     mgl64.Vec3
}

// NewRecord creates a record for a point-sized entity.
func NewRecord(id EntityID, position mgl64.Vec3) Record {
	return Record{ID: id, Position: position}
}

// WithSize returns a copy of the record carrying the given extent.
func (r Record) WithSize(size mgl64.Vec3) Record {
	r.Size = size
	return r
}

// IDs extracts the identifiers of records in their current order.
func IDs(records []Record) []EntityID {
	out := make([]EntityID, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
