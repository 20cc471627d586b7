package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/broadphase/internal/core/models"
)

// Dim is the number of axes a tree partitions on.
type Dim uint8

const (
	Dim2 Dim = 2
	Dim3 Dim = 3
)

// Axes returns the number of active axes, treating anything other than Dim2 as 3D.
func (d Dim) Axes() int {
	if d == Dim2 {
		return 2
	}
	return 3
}

func (d Dim) normalize() Dim {
	if d == Dim2 {
		return Dim2
	}
	return Dim3
}

// Region is an axis-aligned bounding volume described by its center and half extent.
// In 2D only the X and Y components take part in any test.
type Region struct {
	Center mgl64.Vec3
	Half   mgl64.Vec3
}

// NewRegion creates a region, clamping negative half extents to zero.
func NewRegion(center, half mgl64.Vec3) Region {
	return Region{Center: center, Half: half}.normalized()
}

// RegionFromMinMax creates a region spanning the two corners.
func RegionFromMinMax(lo, hi mgl64.Vec3) Region {
	return NewRegion(lo.Add(hi).Mul(0.5), hi.Sub(lo).Mul(0.5))
}

// PointRegion is the zero-extent region located at p.
func PointRegion(p mgl64.Vec3) Region {
	return Region{Center: p}
}

func (r Region) normalized() Region {
	for i := 0; i < 3; i++ {
		if r.Half[i] < 0 || math.IsNaN(r.Half[i]) {
			r.Half[i] = 0
		}
	}
	return r
}

// Min returns the lower corner.
func (r Region) Min() mgl64.Vec3 { return r.Center.Sub(r.Half) }

// Max returns the upper corner.
func (r Region) Max() mgl64.Vec3 { return r.Center.Add(r.Half) }

// Intersects is the separating-axis test: the regions overlap iff on every
// active axis the distance between centers does not exceed the summed half extents.
// Touching regions intersect.
func (r Region) Intersects(o Region, d Dim) bool {
	for i := 0; i < d.Axes(); i++ {
		if math.Abs(r.Center[i]-o.Center[i]) > r.Half[i]+o.Half[i] {
			return false
		}
	}
	return true
}

// Contains reports whether p lies inside the closed region. Points with a
// non-finite active coordinate are never contained.
func (r Region) Contains(p mgl64.Vec3, d Dim) bool {
	return finite(p, d) && r.Intersects(PointRegion(p), d)
}

func finite(p mgl64.Vec3, d Dim) bool {
	for i := 0; i < d.Axes(); i++ {
		if math.IsNaN(p[i]) || math.IsInf(p[i], 0) {
			return false
		}
	}
	return true
}

// ContainsRegion reports whether o lies entirely inside r.
func (r Region) ContainsRegion(o Region, d Dim) bool {
	for i := 0; i < d.Axes(); i++ {
		if o.Center[i]-o.Half[i] < r.Center[i]-r.Half[i] || o.Center[i]+o.Half[i] > r.Center[i]+r.Half[i] {
			return false
		}
	}
	return true
}

// Union returns the smallest region enclosing both regions.
func (r Region) Union(o Region) Region {
	lo, hi := r.Min(), r.Max()
	olo, ohi := o.Min(), o.Max()
	for i := 0; i < 3; i++ {
		lo[i] = math.Min(lo[i], olo[i])
		hi[i] = math.Max(hi[i], ohi[i])
	}
	return RegionFromMinMax(lo, hi)
}

// Extend returns the smallest region enclosing r and the point p.
func (r Region) Extend(p mgl64.Vec3) Region {
	return r.Union(PointRegion(p))
}

// DistanceSq is the squared distance from p to the closest point of the region.
func (r Region) DistanceSq(p mgl64.Vec3, d Dim) float64 {
	var sum float64
	for i := 0; i < d.Axes(); i++ {
		excess := math.Abs(p[i]-r.Center[i]) - r.Half[i]
		if excess > 0 {
			sum += excess * excess
		}
	}
	return sum
}

// LongestAxis returns the active axis with the largest extent, preferring the lower axis on ties.
func (r Region) LongestAxis(d Dim) int {
	axis := 0
	for i := 1; i < d.Axes(); i++ {
		if r.Half[i] > r.Half[axis] {
			axis = i
		}
	}
	return axis
}

// childIndex selects the quadrant/octant holding p. Bit i is set when
// p[i] >= center[i], so every point maps to exactly one child.
func (r Region) childIndex(p mgl64.Vec3, d Dim) int {
	idx := 0
	for i := 0; i < d.Axes(); i++ {
		if p[i] >= r.Center[i] {
			idx |= 1 << i
		}
	}
	return idx
}

// child returns the quadrant/octant region for the given index.
func (r Region) child(idx int, d Dim) Region {
	c := Region{Center: r.Center, Half: r.Half}
	for i := 0; i < d.Axes(); i++ {
		c.Half[i] = r.Half[i] / 2
		if idx&(1<<i) != 0 {
			c.Center[i] += c.Half[i]
		} else {
			c.Center[i] -= c.Half[i]
		}
	}
	return c
}

// splitAt cuts the region in two along axis at coordinate at.
func (r Region) splitAt(axis int, at float64) (lo, hi Region) {
	mn, mx := r.Min(), r.Max()
	at = math.Max(mn[axis], math.Min(mx[axis], at))

	loMax := mx
	loMax[axis] = at
	hiMin := mn
	hiMin[axis] = at
	return RegionFromMinMax(mn, loMax), RegionFromMinMax(hiMin, mx)
}

// boundsOf returns the region enclosing every record position.
func boundsOf(records []models.Record) Region {
	if len(records) == 0 {
		return Region{}
	}
	lo, hi := records[0].Position, records[0].Position
	for _, rec := range records[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], rec.Position[i])
			hi[i] = math.Max(hi[i], rec.Position[i])
		}
	}
	return RegionFromMinMax(lo, hi)
}
