package physics

import "github.com/go-gl/mathgl/mgl64"

// Resolve moves the body out of penetration along normal and, when the body
// is moving into the surface, reflects the normal velocity scaled by
// restitution. A body already separating keeps its velocity.
func Resolve(b *Body, normal mgl64.Vec3, depth, restitution float64) {
	if b.Static || normal.Len() == 0 {
		return
	}
	n := normal.Normalize()

	if depth > 0 {
		b.Position = b.Position.Add(n.Mul(depth))
	}

	if vn := b.Velocity.Dot(n); vn < 0 {
		b.Velocity = b.Velocity.Sub(n.Mul((1 + restitution) * vn))
	}
	b.flatten()
}

// ResolvePair applies a contact between a and b. Two dynamic bodies split
// the depth; a static partner leaves the whole correction to the other body.
func ResolvePair(a, b *Body, c Contact, restitution float64) {
	switch {
	case a.Static && b.Static:
		return
	case b.Static:
		Resolve(a, c.Normal, c.Depth, restitution)
	case a.Static:
		Resolve(b, c.Normal.Mul(-1), c.Depth, restitution)
	default:
		Resolve(a, c.Normal, c.Depth/2, restitution)
		Resolve(b, c.Normal.Mul(-1), c.Depth/2, restitution)
	}
}
