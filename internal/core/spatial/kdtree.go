package spatial

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/broadphase/internal/core/models"
)

var _ Tree = (*KDTree)(nil)

// KDTree is rebuilt from scratch on every BuildFrom. Each level splits the
// current region at its midpoint along axis depth % dim.
// It has no incremental insert.
type KDTree struct {
	dim      Dim
	region   Region
	opts     options
	root     *node
	rejected int
}

// NewKDTree creates an unbuilt KD tree over region.
func NewKDTree(dim Dim, region Region, opts ...Option) *KDTree {
	return &KDTree{
		dim:    dim.normalize(),
		region: region.normalized(),
		opts:   newOptions(opts...),
	}
}

func (t *KDTree) Kind() Kind     { return KindKD }
func (t *KDTree) Dim() Dim       { return t.dim }
func (t *KDTree) Bounds() Region { return t.region }

// BuildFrom partitions records whose position lies inside the root region;
// the rest are counted as rejected.
func (t *KDTree) BuildFrom(records []models.Record) {
	t.Clear()

	in := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !t.region.Contains(r.Position, t.dim) {
			t.rejected++
			continue
		}
		in = append(in, r)
	}
	t.root = t.build(in, t.region, 0)
}

func (t *KDTree) build(records []models.Record, region Region, depth int) *node {
	n := newLeaf(region, depth)
	if !t.opts.splits(len(records), depth) {
		n.records = records
		return n
	}

	axis := depth % t.dim.Axes()
	split := region.Center[axis]

	var left, right []models.Record
	for _, r := range records {
		if r.Position[axis] < split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	lo, hi := region.splitAt(axis, split)
	n.axis = axis
	n.split = split
	n.children = []*node{
		t.build(left, lo, depth+1),
		t.build(right, hi, depth+1),
	}
	return n
}

// Clear returns the tree to its unbuilt state.
func (t *KDTree) Clear() {
	t.root = nil
	t.rejected = 0
}

func (t *KDTree) Query(center, halfSize mgl64.Vec3) []models.Record {
	return t.QueryRegion(NewRegion(center, halfSize))
}

func (t *KDTree) QueryRegion(q Region) []models.Record {
	if t.root == nil {
		return nil
	}
	return t.root.query(q.normalized(), t.dim, nil)
}

func (t *KDTree) Nodes() []NodeInfo { return graphNodes(t.root) }

func (t *KDTree) Stats() Statistics { return graphStats(t.root, t.rejected) }
