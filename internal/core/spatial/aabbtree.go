package spatial

import (
	"slices"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/broadphase/internal/core/models"
)

var (
	_ Tree     = (*AABBTree)(nil)
	_ Inserter = (*AABBTree)(nil)
)

// AABBTree is a bounding volume hierarchy over record positions. Internal
// regions are the union of their children, so siblings may overlap when
// records cluster unevenly.
//
// Insert is append-only: it grows the regions along one root-to-leaf path and
// never rotates or rebalances. Call BuildFrom again when bounds drift.
type AABBTree struct {
	dim      Dim
	opts     options
	root     *node
	rejected int
}

// NewAABBTree creates an empty hierarchy.
func NewAABBTree(dim Dim, opts ...Option) *AABBTree {
	return &AABBTree{
		dim:  dim.normalize(),
		opts: newOptions(opts...),
	}
}

func (t *AABBTree) Kind() Kind { return KindAABB }
func (t *AABBTree) Dim() Dim   { return t.dim }

// Bounds returns the root region, or the zero region when the tree is empty.
func (t *AABBTree) Bounds() Region {
	if t.root == nil {
		return Region{}
	}
	return t.root.region
}

// BuildFrom rebuilds the hierarchy. An empty input leaves the tree empty.
// Records with a non-finite position are counted as rejected.
func (t *AABBTree) BuildFrom(records []models.Record) {
	t.Clear()
	in := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !finite(r.Position, t.dim) {
			t.rejected++
			continue
		}
		in = append(in, r)
	}
	if len(in) == 0 {
		return
	}
	t.root = t.build(in, 0)
}

// build sorts records along the longest axis of their bounds and splits them
// at the median, the lower half taking the extra record on odd counts.
func (t *AABBTree) build(records []models.Record, depth int) *node {
	n := newLeaf(boundsOf(records), depth)
	if !t.opts.splits(len(records), depth) {
		n.records = slices.Clone(records)
		return n
	}

	axis := n.region.LongestAxis(t.dim)
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Position[axis], records[j].Position[axis]
		if a != b {
			return a < b
		}
		return records[i].ID < records[j].ID
	})

	mid := (len(records) + 1) / 2
	n.axis = axis
	n.split = records[mid].Position[axis]

	left := t.build(records[:mid], depth+1)
	right := t.build(records[mid:], depth+1)
	n.children = []*node{left, right}
	n.region = left.region.Union(right.region)
	return n
}

// Insert walks to the child containing the position (or the nearest one),
// appends the record to that leaf and grows every region on the way.
// A leaf that overflows above the depth limit is partitioned in place.
func (t *AABBTree) Insert(record models.Record) bool {
	p := record.Position
	if !finite(p, t.dim) {
		t.rejected++
		return false
	}
	if t.root == nil {
		t.root = t.build([]models.Record{record}, 0)
		return true
	}

	n := t.root
	for !n.leaf() {
		n.region = n.region.Extend(p)
		n = t.pick(n, p)
	}

	n.records = append(n.records, record)
	n.region = n.region.Extend(p)
	if t.opts.splits(len(n.records), n.depth) {
		*n = *t.build(n.records, n.depth)
	}
	return true
}

func (t *AABBTree) pick(n *node, p mgl64.Vec3) *node {
	best := n.children[0]
	bestDist := best.region.DistanceSq(p, t.dim)
	for _, c := range n.children[1:] {
		if d := c.region.DistanceSq(p, t.dim); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Clear drops the hierarchy.
func (t *AABBTree) Clear() {
	t.root = nil
	t.rejected = 0
}

func (t *AABBTree) Query(center, halfSize mgl64.Vec3) []models.Record {
	return t.QueryRegion(NewRegion(center, halfSize))
}

func (t *AABBTree) QueryRegion(q Region) []models.Record {
	if t.root == nil {
		return nil
	}
	return t.root.query(q.normalized(), t.dim, nil)
}

func (t *AABBTree) Nodes() []NodeInfo { return graphNodes(t.root) }

func (t *AABBTree) Stats() Statistics { return graphStats(t.root, t.rejected) }
