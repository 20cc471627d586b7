package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Contact describes an overlap. Normal is the unit direction that moves the
// first body out of the second; Depth is the penetration along it.
type Contact struct {
	Normal mgl64.Vec3
	Depth  float64
}

// Plane is an infinite static surface: points p with Normal·p = Offset.
type Plane struct {
	Normal mgl64.Vec3
	Offset float64
}

// Collide runs the narrow-phase test for a pair of bodies. Shape pairs with no
// test (rect/rect, planar against spatial) never collide.
func Collide(a, b *Body) (Contact, bool) {
	switch {
	case a.Shape == ShapeSphere && b.Shape == ShapeSphere:
		return roundRound(a.Position, a.Radius, b.Position, b.Radius)
	case a.Shape == ShapeCircle && b.Shape == ShapeCircle:
		return roundRound(flat(a.Position), a.Radius, flat(b.Position), b.Radius)
	case a.Shape == ShapeCircle && b.Shape == ShapeRect:
		return circleRect(a, b)
	case a.Shape == ShapeRect && b.Shape == ShapeCircle:
		c, ok := circleRect(b, a)
		c.Normal = c.Normal.Mul(-1)
		return c, ok
	default:
		return Contact{}, false
	}
}

// CollidePlane tests a round body against a plane. Planar bodies use the XY
// part of the normal.
func CollidePlane(b *Body, pl Plane) (Contact, bool) {
	if b.Shape == ShapeRect {
		return Contact{}, false
	}

	n := pl.Normal
	p := b.Position
	if b.Shape.Planar() {
		n, p = flat(n), flat(p)
	}
	if n.Len() == 0 {
		return Contact{}, false
	}
	n = n.Normalize()

	dist := n.Dot(p) - pl.Offset
	if dist >= b.Radius {
		return Contact{}, false
	}
	return Contact{Normal: n, Depth: b.Radius - dist}, true
}

func roundRound(pa mgl64.Vec3, ra float64, pb mgl64.Vec3, rb float64) (Contact, bool) {
	d := pa.Sub(pb)
	dist := d.Len()
	reach := ra + rb
	if dist >= reach {
		return Contact{}, false
	}
	if dist == 0 {
		// concentric: pick +Y so the result is deterministic
		return Contact{Normal: mgl64.Vec3{0, 1, 0}, Depth: reach}, true
	}
	return Contact{Normal: d.Mul(1 / dist), Depth: reach - dist}, true
}

// circleRect pushes the circle out of the rectangle through the closest point
// on the rectangle, or through the nearest face when the center is inside.
func circleRect(circle, rect *Body) (Contact, bool) {
	c := flat(circle.Position)
	rc := flat(rect.Position)
	h := rect.Half

	var closest mgl64.Vec3
	inside := true
	for i := 0; i < 2; i++ {
		lo, hi := rc[i]-h[i], rc[i]+h[i]
		closest[i] = c[i]
		if c[i] < lo {
			closest[i] = lo
			inside = false
		} else if c[i] > hi {
			closest[i] = hi
			inside = false
		}
	}

	if !inside {
		d := c.Sub(closest)
		dist := d.Len()
		if dist >= circle.Radius {
			return Contact{}, false
		}
		return Contact{Normal: d.Mul(1 / dist), Depth: circle.Radius - dist}, true
	}

	// Center inside the rectangle: leave through the face with least overlap.
	axis, sign, best := 0, 1.0, math.Inf(1)
	for i := 0; i < 2; i++ {
		offset := c[i] - rc[i]
		overlap := h[i] - math.Abs(offset)
		if overlap < best {
			best = overlap
			axis = i
			sign = 1
			if offset < 0 {
				sign = -1
			}
		}
	}
	var n mgl64.Vec3
	n[axis] = sign
	return Contact{Normal: n, Depth: best + circle.Radius}, true
}

func flat(v mgl64.Vec3) mgl64.Vec3 {
	v[2] = 0
	return v
}
