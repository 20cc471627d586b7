package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/broadphase/internal/core/models"
)

// ErrInvalidMass is returned when a dynamic body is created without positive mass.
var ErrInvalidMass = errors.New("physics: dynamic body requires positive mass")

// Shape selects the narrow-phase geometry of a body.
type Shape uint8

const (
	ShapeCircle Shape = iota + 1
	ShapeRect
	ShapeSphere
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeRect:
		return "rect"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Planar reports whether the shape lives in the XY plane.
func (s Shape) Planar() bool { return s == ShapeCircle || s == ShapeRect }

// Body is the physical state of one entity.
// Planar bodies keep their Z components at zero.
type Body struct {
	ID    models.EntityID
	Shape Shape

	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Acceleration mgl64.Vec3
	Force        mgl64.Vec3

	Mass   float64
	Radius float64    // circle, sphere
	Half   mgl64.Vec3 // rect

	// Static bodies never integrate and are never displaced by contacts.
	Static bool
}

// NewBody validates and creates a body.
func NewBody(id models.EntityID, shape Shape, position mgl64.Vec3, mass float64, static bool) (*Body, error) {
	if shape < ShapeCircle || shape > ShapeSphere {
		return nil, fmt.Errorf("physics: body %d: unknown shape %d", id, shape)
	}
	if !static && mass <= 0 {
		return nil, fmt.Errorf("body %d: %w", id, ErrInvalidMass)
	}
	b := &Body{
		ID:       id,
		Shape:    shape,
		Position: position,
		Mass:     mass,
		Static:   static,
	}
	b.flatten()
	return b, nil
}

// ApplyForce accumulates a force for the current step only.
func (b *Body) ApplyForce(f mgl64.Vec3) {
	b.Force = b.Force.Add(f)
}

// ClearForces drops accumulated forces and transient acceleration.
func (b *Body) ClearForces() {
	b.Force = mgl64.Vec3{}
	b.Acceleration = mgl64.Vec3{}
}

// Extent returns the half extent of the body's axis-aligned bounds.
func (b *Body) Extent() mgl64.Vec3 {
	switch b.Shape {
	case ShapeRect:
		return b.Half
	case ShapeCircle:
		return mgl64.Vec3{b.Radius, b.Radius, 0}
	default:
		return mgl64.Vec3{b.Radius, b.Radius, b.Radius}
	}
}

// Record snapshots the body for a spatial index.
func (b *Body) Record() models.Record {
	return models.NewRecord(b.ID, b.Position).WithSize(b.Extent().Mul(2))
}

func (b *Body) flatten() {
	if !b.Shape.Planar() {
		return
	}
	b.Position[2] = 0
	b.Velocity[2] = 0
	b.Acceleration[2] = 0
	b.Force[2] = 0
	b.Half[2] = 0
}
