package spatial

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/broadphase/internal/core/models"
)

var (
	_ Tree     = (*GridTree)(nil)
	_ Inserter = (*GridTree)(nil)
)

// GridTree subdivides its region into 4 (quadtree) or 8 (octree) equal
// children once a leaf holds more than the leaf capacity.
//
// Insertion keys on the record position only. A record whose extent straddles
// a child boundary lives in the single leaf containing its position, so a
// query touching only the neighbouring leaf will not report it.
type GridTree struct {
	kind     Kind
	dim      Dim
	region   Region
	opts     options
	root     *node
	rejected int
}

// NewQuadtree creates an empty 2D grid tree over region.
func NewQuadtree(region Region, opts ...Option) *GridTree {
	return newGridTree(KindQuadtree, Dim2, region, opts...)
}

// NewOctree creates an empty 3D grid tree over region.
func NewOctree(region Region, opts ...Option) *GridTree {
	return newGridTree(KindOctree, Dim3, region, opts...)
}

func newGridTree(kind Kind, dim Dim, region Region, opts ...Option) *GridTree {
	t := &GridTree{
		kind:   kind,
		dim:    dim,
		region: region.normalized(),
		opts:   newOptions(opts...),
	}
	t.Clear()
	return t
}

func (t *GridTree) Kind() Kind     { return t.kind }
func (t *GridTree) Dim() Dim       { return t.dim }
func (t *GridTree) Bounds() Region { return t.region }

// Insert descends by point containment and appends the record to the leaf
// holding its position. Records outside the root region are refused.
func (t *GridTree) Insert(record models.Record) bool {
	if !t.region.Contains(record.Position, t.dim) {
		t.rejected++
		return false
	}

	n := t.root
	for !n.leaf() {
		n = n.children[n.region.childIndex(record.Position, t.dim)]
	}
	t.place(n, record)
	return true
}

// place appends to a leaf and subdivides it when it overflows.
func (t *GridTree) place(n *node, record models.Record) {
	n.records = append(n.records, record)
	if t.opts.splits(len(n.records), n.depth) {
		t.subdivide(n)
	}
}

func (t *GridTree) subdivide(n *node) {
	n.children = make([]*node, 1<<t.dim.Axes())
	for i := range n.children {
		n.children[i] = newLeaf(n.region.child(i, t.dim), n.depth+1)
	}

	held := n.records
	n.records = nil
	for _, r := range held {
		t.place(n.children[n.region.childIndex(r.Position, t.dim)], r)
	}
}

// BuildFrom clears the tree and inserts every record in order.
func (t *GridTree) BuildFrom(records []models.Record) {
	t.Clear()
	for _, r := range records {
		t.Insert(r)
	}
}

// Clear drops every node and leaves a single empty leaf over the root region.
func (t *GridTree) Clear() {
	t.root = newLeaf(t.region, 0)
	t.rejected = 0
}

func (t *GridTree) Query(center, halfSize mgl64.Vec3) []models.Record {
	return t.QueryRegion(NewRegion(center, halfSize))
}

func (t *GridTree) QueryRegion(q Region) []models.Record {
	return t.root.query(q.normalized(), t.dim, nil)
}

func (t *GridTree) Nodes() []NodeInfo { return graphNodes(t.root) }

func (t *GridTree) Stats() Statistics { return graphStats(t.root, t.rejected) }
