package spatial

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/broadphase/internal/core/models"
)

// Tree is the capability set shared by every spatial index kind.
//
// Trees are single-writer structures: a mutating call (Insert, BuildFrom, Clear)
// must complete before any Query runs. They are not safe for concurrent use.
type Tree interface {
	// Identity

	Kind() Kind
	Dim() Dim
	Bounds() Region

	// Mutation

	// BuildFrom discards the current node graph and rebuilds it from records.
	BuildFrom(records []models.Record)
	// Clear releases the node graph and restores the initial state.
	Clear()

	// Queries

	// Query returns the records of every leaf whose region intersects the
	// region described by center and halfSize. The result is a broad-phase
	// superset without duplicates.
	Query(center, halfSize mgl64.Vec3) []models.Record
	QueryRegion(q Region) []models.Record

	// Inspection

	// Nodes returns a pre-order snapshot of the node graph. The snapshot must
	// not outlive the next mutation.
	Nodes() []NodeInfo
	Stats() Statistics
}

// Inserter is implemented by trees that support incremental insertion.
type Inserter interface {
	// Insert adds a record, returning false when the tree refused it.
	Insert(record models.Record) bool
}

// Kind enumerates the supported tree kinds.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindQuadtree
	KindOctree
	KindKD
	KindAABB
)

func (k Kind) String() string {
	switch k {
	case KindQuadtree:
		return "quadtree"
	case KindOctree:
		return "octree"
	case KindKD:
		return "kdtree"
	case KindAABB:
		return "aabbtree"
	default:
		return "unknown"
	}
}

// ParseKind maps a configuration name onto a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quadtree", "quad":
		return KindQuadtree, true
	case "octree", "oct":
		return KindOctree, true
	case "kdtree", "kd":
		return KindKD, true
	case "aabbtree", "aabb", "bvh":
		return KindAABB, true
	default:
		return KindUnknown, false
	}
}

// New builds a tree of the given kind. Grid kinds imply their dimension;
// the AABB tree derives its bounds from its contents and ignores region.
// Unknown kinds yield nil.
func New(kind Kind, dim Dim, region Region, opts ...Option) Tree {
	switch kind {
	case KindQuadtree:
		return NewQuadtree(region, opts...)
	case KindOctree:
		return NewOctree(region, opts...)
	case KindKD:
		return NewKDTree(dim, region, opts...)
	case KindAABB:
		return NewAABBTree(dim, opts...)
	default:
		return nil
	}
}
