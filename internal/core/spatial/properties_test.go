package spatial

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/broadphase/internal/core/models"
)

const (
	propCapacity = 3
	propDepth    = 5
	propExtent   = 100.0
)

type treeCase struct {
	name string
	dim  Dim
	make func() Tree
}

func treeCases() []treeCase {
	root2 := NewRegion(vec2(0, 0), vec2(propExtent, propExtent))
	root3 := NewRegion(mgl64.Vec3{}, mgl64.Vec3{propExtent, propExtent, propExtent})
	opts := []Option{WithLeafCapacity(propCapacity), WithMaxDepth(propDepth)}

	return []treeCase{
		{"quadtree", Dim2, func() Tree { return NewQuadtree(root2, opts...) }},
		{"octree", Dim3, func() Tree { return NewOctree(root3, opts...) }},
		{"kdtree-2d", Dim2, func() Tree { return NewKDTree(Dim2, root2, opts...) }},
		{"kdtree-3d", Dim3, func() Tree { return NewKDTree(Dim3, root3, opts...) }},
		{"aabbtree-2d", Dim2, func() Tree { return NewAABBTree(Dim2, opts...) }},
		{"aabbtree-3d", Dim3, func() Tree { return NewAABBTree(Dim3, opts...) }},
	}
}

// randomRecords draws positions strictly inside the root region.
func randomRecords(rng *rand.Rand, n int, dim Dim) []models.Record {
	out := make([]models.Record, n)
	for i := range out {
		var p mgl64.Vec3
		for a := 0; a < dim.Axes(); a++ {
			p[a] = (rng.Float64()*2 - 1) * (propExtent - 1)
		}
		out[i] = models.NewRecord(models.EntityID(i+1), p).WithSize(mgl64.Vec3{1, 1, 1})
	}
	return out
}

func randomRegion(rng *rand.Rand, dim Dim) Region {
	var c, h mgl64.Vec3
	for a := 0; a < dim.Axes(); a++ {
		c[a] = (rng.Float64()*2 - 1) * propExtent
		h[a] = rng.Float64() * propExtent / 3
	}
	return NewRegion(c, h)
}

func fullQuery(tree Tree) []models.Record {
	return tree.Query(mgl64.Vec3{}, mgl64.Vec3{propExtent, propExtent, propExtent})
}

func TestTreeProperties(t *testing.T) {
	for _, tc := range treeCases() {
		t.Run(tc.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(7))
			records := randomRecords(rng, 400, tc.dim)

			tree := tc.make()
			tree.BuildFrom(records)

			t.Run("superset of everything inside the root", func(t *testing.T) {
				assert.ElementsMatch(t, models.IDs(records), models.IDs(fullQuery(tree)))
			})

			t.Run("no duplicates in a query", func(t *testing.T) {
				for i := 0; i < 50; i++ {
					got := tree.QueryRegion(randomRegion(rng, tc.dim))
					seen := make(map[models.EntityID]struct{}, len(got))
					for _, r := range got {
						_, dup := seen[r.ID]
						require.False(t, dup, "duplicate id %d", r.ID)
						seen[r.ID] = struct{}{}
					}
				}
			})

			t.Run("depth and capacity invariants", func(t *testing.T) {
				for _, n := range tree.Nodes() {
					assert.LessOrEqual(t, n.Depth, propDepth)
					if !n.Leaf {
						assert.Zero(t, n.Count)
						continue
					}
					if n.Depth < propDepth {
						assert.LessOrEqual(t, n.Count, propCapacity)
					}
				}
			})

			t.Run("broad phase never misses an overlapping position", func(t *testing.T) {
				for i := 0; i < 50; i++ {
					q := randomRegion(rng, tc.dim)
					got := make(map[models.EntityID]struct{})
					for _, r := range tree.QueryRegion(q) {
						got[r.ID] = struct{}{}
					}
					for _, r := range records {
						if q.Contains(r.Position, tc.dim) {
							assert.Contains(t, got, r.ID)
						}
					}
				}
			})

			t.Run("monotonic in the query region", func(t *testing.T) {
				for i := 0; i < 50; i++ {
					small := randomRegion(rng, tc.dim)
					big := NewRegion(small.Center, small.Half.Add(mgl64.Vec3{5, 5, 5}))
					inner := models.IDs(tree.QueryRegion(small))
					outer := models.IDs(tree.QueryRegion(big))
					assert.Subset(t, outer, inner)
				}
			})

			t.Run("rebuild after clear is deterministic", func(t *testing.T) {
				first := Fingerprint(fullQuery(tree))
				firstNodes := tree.Nodes()

				tree.Clear()
				assert.Empty(t, tree.QueryRegion(randomRegion(rng, tc.dim)))

				tree.BuildFrom(records)
				assert.Equal(t, first, Fingerprint(fullQuery(tree)))
				assert.Equal(t, firstNodes, tree.Nodes())
			})

			t.Run("query outside the root is empty", func(t *testing.T) {
				far := mgl64.Vec3{10 * propExtent, 10 * propExtent, 10 * propExtent}
				assert.Empty(t, tree.Query(far, mgl64.Vec3{1, 1, 1}))
			})
		})
	}
}

func TestIncrementalInsertProperties(t *testing.T) {
	for _, tc := range treeCases() {
		tree := tc.make()
		inserter, ok := tree.(Inserter)
		if !ok {
			continue
		}
		t.Run(tc.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(11))
			records := randomRecords(rng, 300, tc.dim)
			for _, r := range records {
				require.True(t, inserter.Insert(r))
			}

			assert.ElementsMatch(t, models.IDs(records), models.IDs(fullQuery(tree)))
			assert.Equal(t, len(records), tree.Stats().Entities)
			for _, n := range tree.Nodes() {
				assert.LessOrEqual(t, n.Depth, propDepth)
				if n.Leaf && n.Depth < propDepth {
					assert.LessOrEqual(t, n.Count, propCapacity)
				}
			}
		})
	}
}

func TestEmptyTreesReturnNothing(t *testing.T) {
	for _, tc := range treeCases() {
		t.Run(tc.name, func(t *testing.T) {
			tree := tc.make()
			assert.Empty(t, fullQuery(tree))

			tree.BuildFrom(nil)
			assert.Empty(t, fullQuery(tree))
			assert.Zero(t, tree.Stats().Entities)
		})
	}
}

func TestDegenerateOptionsAreClamped(t *testing.T) {
	region := NewRegion(vec2(0, 0), vec2(-10, 10))
	for _, tree := range []Tree{
		NewQuadtree(region, WithLeafCapacity(0), WithMaxDepth(-3)),
		NewKDTree(Dim2, region, WithLeafCapacity(-1), WithMaxDepth(0)),
		NewAABBTree(Dim2, WithLeafCapacity(0), WithMaxDepth(0)),
	} {
		t.Run(tree.Kind().String(), func(t *testing.T) {
			records := []models.Record{
				models.NewRecord(1, vec2(0, 1)),
				models.NewRecord(2, vec2(0, 2)),
				models.NewRecord(3, vec2(0, 3)),
			}
			tree.BuildFrom(records)

			stats := tree.Stats()
			assert.Equal(t, 1, stats.MaxDepth, "depth clamps to 1 and capacity to 1 forces one split")
			assert.Equal(t, 3, stats.Entities)
			assert.Len(t, tree.Query(vec2(0, 0), vec2(100, 100)), 3)
		})
	}
}

func TestNewByKind(t *testing.T) {
	region := NewRegion(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	for _, kind := range []Kind{KindQuadtree, KindOctree, KindKD, KindAABB} {
		tree := New(kind, Dim3, region)
		require.NotNil(t, tree)
		assert.Equal(t, kind, tree.Kind())

		parsed, ok := ParseKind(kind.String())
		assert.True(t, ok)
		assert.Equal(t, kind, parsed)
	}
	assert.Equal(t, Dim2, New(KindQuadtree, Dim3, region).Dim())
	assert.Nil(t, New(KindUnknown, Dim3, region))

	_, ok := ParseKind("ball-tree")
	assert.False(t, ok)
}

func TestFingerprintIgnoresOrder(t *testing.T) {
	a := []models.Record{models.NewRecord(1, vec2(0, 0)), models.NewRecord(2, vec2(1, 1))}
	b := []models.Record{a[1], a[0]}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(a[:1]))
}
