package components

import (
	"math"

	"tireroll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Sleep thresholds
const (
	SleepVelocityThreshold = 0.1 // units/sec - below this, object might sleep
	SleepAngularThreshold  = 0.1 // rad/sec - below this, object might sleep
	SleepTimeThreshold     = 0.5 // seconds of low velocity before sleeping
)

// MaterialID is a contact material handle issued by the physics world.
type MaterialID uint16

type Rigidbody struct {
	engine.BaseComponent
	Velocity        rl.Vector3
	AngularVelocity rl.Vector3 // radians per second, world axes
	Mass            float32    // 0 = static (infinite mass)
	LinearDamping   float32    // fraction of velocity lost per second, 0..1
	AngularDamping  float32    // fraction of spin lost per second, 0..1
	Material        MaterialID
	UseGravity      bool
	IsKinematic     bool // moves but doesn't get pushed by physics

	// Sleep state - sleeping objects skip physics simulation
	IsSleeping bool
	sleepTimer float32 // time spent below velocity threshold
	CanSleep   bool    // whether this object can sleep (default true)
}

func NewRigidbody(mass float32) *Rigidbody {
	return &Rigidbody{
		Mass:           mass,
		LinearDamping:  0.01,
		AngularDamping: 0.05,
		UseGravity:     mass > 0,
		CanSleep:       true,
	}
}

// IsStatic reports whether the body has infinite mass (terrain, walls).
func (r *Rigidbody) IsStatic() bool {
	return r.Mass <= 0
}

// InverseMass is 0 for static and kinematic bodies.
func (r *Rigidbody) InverseMass() float32 {
	if r.IsStatic() || r.IsKinematic {
		return 0
	}
	return 1 / r.Mass
}

// Wake forces the rigidbody out of sleep state
func (r *Rigidbody) Wake() {
	r.IsSleeping = false
	r.sleepTimer = 0
}

// SetSleepAllowed toggles the solver's inactivity heuristic for this body.
// Disallowing sleep also wakes the body.
func (r *Rigidbody) SetSleepAllowed(allowed bool) {
	r.CanSleep = allowed
	if !allowed {
		r.Wake()
	}
}

// ApplyDamping scales velocities by the per-second damping factors.
func (r *Rigidbody) ApplyDamping(deltaTime float32) {
	lin := float32(math.Pow(float64(1-clamp01(r.LinearDamping)), float64(deltaTime)))
	ang := float32(math.Pow(float64(1-clamp01(r.AngularDamping)), float64(deltaTime)))
	r.Velocity = rl.Vector3Scale(r.Velocity, lin)
	r.AngularVelocity = rl.Vector3Scale(r.AngularVelocity, ang)
}

// TrySleep checks if the rigidbody should go to sleep based on velocity
func (r *Rigidbody) TrySleep(deltaTime float32) {
	if !r.CanSleep || r.IsSleeping {
		return
	}

	speed := rl.Vector3Length(r.Velocity)
	angSpeed := rl.Vector3Length(r.AngularVelocity)

	if speed < SleepVelocityThreshold && angSpeed < SleepAngularThreshold {
		r.sleepTimer += deltaTime
		if r.sleepTimer >= SleepTimeThreshold {
			r.IsSleeping = true
			r.Velocity = rl.Vector3{}
			r.AngularVelocity = rl.Vector3{}
		}
	} else {
		r.sleepTimer = 0
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
