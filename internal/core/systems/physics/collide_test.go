package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/broadphase/internal/core/models"
)

func body(t *testing.T, id models.EntityID, shape Shape, pos mgl64.Vec3, static bool) *Body {
	t.Helper()
	b, err := NewBody(id, shape, pos, 1, static)
	require.NoError(t, err)
	return b
}

func TestSphereSphere(t *testing.T) {
	a := body(t, 1, ShapeSphere, mgl64.Vec3{0, 0, 1.5}, false)
	b := body(t, 2, ShapeSphere, mgl64.Vec3{0, 0, 0}, false)
	a.Radius, b.Radius = 1, 1

	c, ok := Collide(a, b)
	require.True(t, ok)
	assert.InDelta(t, 0.5, c.Depth, 1e-12)
	assert.InDelta(t, 1, c.Normal.Z(), 1e-12)

	a.Position = mgl64.Vec3{0, 0, 2}
	_, ok = Collide(a, b)
	assert.False(t, ok, "touching spheres do not overlap")
}

func TestConcentricSpheresPickUp(t *testing.T) {
	a := body(t, 1, ShapeSphere, mgl64.Vec3{}, false)
	b := body(t, 2, ShapeSphere, mgl64.Vec3{}, false)
	a.Radius, b.Radius = 1, 2

	c, ok := Collide(a, b)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, c.Normal)
	assert.InDelta(t, 3, c.Depth, 1e-12)
}

func TestCircleRect(t *testing.T) {
	floor := body(t, 10, ShapeRect, mgl64.Vec3{0, -1, 0}, true)
	floor.Half = mgl64.Vec3{10, 1, 0}

	tests := []struct {
		name   string
		pos    mgl64.Vec3
		hit    bool
		normal mgl64.Vec3
		depth  float64
	}{
		{"resting above", mgl64.Vec3{0, 0.5, 0}, false, mgl64.Vec3{}, 0},
		{"sinking into top face", mgl64.Vec3{3, 0.25, 0}, true, mgl64.Vec3{0, 1, 0}, 0.25},
		{"against the side", mgl64.Vec3{10.4, -1, 0}, true, mgl64.Vec3{1, 0, 0}, 0.1},
		{"center inside near top", mgl64.Vec3{0, -0.25, 0}, true, mgl64.Vec3{0, 1, 0}, 0.75},
		{"far away", mgl64.Vec3{30, 30, 0}, false, mgl64.Vec3{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ball := body(t, 1, ShapeCircle, tt.pos, false)
			ball.Radius = 0.5

			c, ok := Collide(ball, floor)
			require.Equal(t, tt.hit, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.depth, c.Depth, 1e-9)
			assert.InDelta(t, tt.normal.X(), c.Normal.X(), 1e-9)
			assert.InDelta(t, tt.normal.Y(), c.Normal.Y(), 1e-9)

			// reversed order flips the normal
			r, ok := Collide(floor, ball)
			require.True(t, ok)
			assert.InDelta(t, -c.Normal.Y(), r.Normal.Y(), 1e-9)
		})
	}
}

func TestUnsupportedPairsNeverCollide(t *testing.T) {
	a := body(t, 1, ShapeRect, mgl64.Vec3{}, true)
	b := body(t, 2, ShapeRect, mgl64.Vec3{}, true)
	a.Half, b.Half = mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, 1, 0}
	_, ok := Collide(a, b)
	assert.False(t, ok)

	s := body(t, 3, ShapeSphere, mgl64.Vec3{}, false)
	s.Radius = 1
	_, ok = Collide(s, a)
	assert.False(t, ok)
}

func TestCollidePlane(t *testing.T) {
	floor := Plane{Normal: mgl64.Vec3{0, 2, 0}, Offset: 0}

	s := body(t, 1, ShapeSphere, mgl64.Vec3{1, 0.45, 1}, false)
	s.Radius = 0.5
	c, ok := CollidePlane(s, floor)
	require.True(t, ok)
	assert.InDelta(t, 0.05, c.Depth, 1e-12)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, c.Normal)

	s.Position = mgl64.Vec3{0, 3, 0}
	_, ok = CollidePlane(s, floor)
	assert.False(t, ok)

	circle := body(t, 2, ShapeCircle, mgl64.Vec3{0.2, 0, 0}, false)
	circle.Radius = 0.5
	c, ok = CollidePlane(circle, Plane{Normal: mgl64.Vec3{1, 0, 5}})
	require.True(t, ok, "planar bodies ignore the normal's z")
	assert.InDelta(t, 0.3, c.Depth, 1e-12)

	_, ok = CollidePlane(circle, Plane{})
	assert.False(t, ok)
}

func TestResolvePairSplitsDepth(t *testing.T) {
	a := body(t, 1, ShapeSphere, mgl64.Vec3{0, 1.5, 0}, false)
	b := body(t, 2, ShapeSphere, mgl64.Vec3{0, 0, 0}, false)
	a.Radius, b.Radius = 1, 1
	a.Velocity = mgl64.Vec3{0, -1, 0}
	b.Velocity = mgl64.Vec3{0, 1, 0}

	c, ok := Collide(a, b)
	require.True(t, ok)
	ResolvePair(a, b, c, 1)

	assert.InDelta(t, 1.75, a.Position.Y(), 1e-12)
	assert.InDelta(t, -0.25, b.Position.Y(), 1e-12)
	assert.InDelta(t, 1, a.Velocity.Y(), 1e-12)
	assert.InDelta(t, -1, b.Velocity.Y(), 1e-12)

	wall := body(t, 3, ShapeSphere, mgl64.Vec3{0, 0, 0}, true)
	wall.Radius = 1
	a.Position = mgl64.Vec3{0, 1.5, 0}
	c, ok = Collide(wall, a)
	require.True(t, ok)
	ResolvePair(wall, a, c, 0)
	assert.Equal(t, mgl64.Vec3{}, wall.Position)
	assert.InDelta(t, 2, a.Position.Y(), 1e-12)
}
