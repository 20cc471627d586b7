package physics

import "github.com/go-gl/mathgl/mgl64"

const (
	DefaultFriction    = 1.0
	DefaultRestitution = 0.5
)

// DefaultGravity pulls along -Y.
var DefaultGravity = mgl64.Vec3{0, -9.81, 0}

// Params are the world-wide integration and response constants.
type Params struct {
	Gravity mgl64.Vec3
	// Friction multiplies velocity every step, 0 < Friction <= 1.
	Friction float64
	// Restitution scales the reflected normal velocity on contact, 0..1.
	Restitution float64
}

// DefaultParams returns gravity along -Y, no damping and half restitution.
func DefaultParams() Params {
	return Params{
		Gravity:     DefaultGravity,
		Friction:    DefaultFriction,
		Restitution: DefaultRestitution,
	}
}

// Normalized clamps out-of-range tuning values instead of rejecting them.
func (p Params) Normalized() Params {
	if p.Friction <= 0 || p.Friction > 1 {
		p.Friction = DefaultFriction
	}
	if p.Restitution < 0 {
		p.Restitution = 0
	}
	if p.Restitution > 1 {
		p.Restitution = 1
	}
	return p
}

// Integrate advances a dynamic body by dt using semi-implicit Euler:
// a = F/m + g, v += a*dt, p += v*dt, then v *= friction.
// Forces are left in place; call ClearForces once contacts are resolved.
func Integrate(b *Body, dt float64, p Params) {
	if b.Static || dt <= 0 {
		return
	}
	p = p.Normalized()

	b.Acceleration = b.Acceleration.Add(b.Force.Mul(1 / b.Mass)).Add(p.Gravity)
	b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.Velocity = b.Velocity.Mul(p.Friction)
	b.flatten()
}
