package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ChaseCamera follows a target from behind and above, trailing its direction
// of travel on the ground plane.
type ChaseCamera struct {
	Position rl.Vector3
	Target   rl.Vector3
	Heading  float32 // radians around Y; 0 looks down +X

	Distance   float32 // behind the target
	Height     float32 // above the target
	Stiffness  float32 // per-second follow rate
	TurnRate   float32 // per-second heading follow rate
	MinHeading float32 // speed below which the heading holds
	Fovy       float32

	shake rl.Vector3
}

func New(target rl.Vector3) *ChaseCamera {
	c := &ChaseCamera{
		Target:     target,
		Distance:   9,
		Height:     4,
		Stiffness:  6,
		TurnRate:   2,
		MinHeading: 1,
		Fovy:       55,
	}
	c.Position = c.desiredPosition()
	return c
}

func (c *ChaseCamera) desiredPosition() rl.Vector3 {
	back := rl.Vector3{
		X: -float32(math.Cos(float64(c.Heading))),
		Z: -float32(math.Sin(float64(c.Heading))),
	}
	pos := rl.Vector3Add(c.Target, rl.Vector3Scale(back, c.Distance))
	pos.Y += c.Height
	return pos
}

// Follow eases toward target. velocity steers the heading once the target
// moves faster than MinHeading on the ground plane.
func (c *ChaseCamera) Follow(target, velocity rl.Vector3, deltaTime float32) {
	flat := float32(math.Hypot(float64(velocity.X), float64(velocity.Z)))
	if flat > c.MinHeading {
		want := float32(math.Atan2(float64(velocity.Z), float64(velocity.X)))
		c.Heading += wrapAngle(want-c.Heading) * blend(c.TurnRate, deltaTime)
	}

	k := blend(c.Stiffness, deltaTime)
	c.Target = rl.Vector3Lerp(c.Target, target, k)
	c.Position = rl.Vector3Lerp(c.Position, c.desiredPosition(), k)
}

// Snap jumps straight to target, used on spawn and reset.
func (c *ChaseCamera) Snap(target rl.Vector3, heading float32) {
	c.Target = target
	c.Heading = heading
	c.Position = c.desiredPosition()
}

// SetShake sets this frame's shake displacement.
func (c *ChaseCamera) SetShake(offset rl.Vector3) {
	c.shake = offset
}

func (c *ChaseCamera) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   rl.Vector3Add(c.Position, c.shake),
		Target:     rl.Vector3Add(c.Target, c.shake),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       c.Fovy,
		Projection: rl.CameraPerspective,
	}
}

// blend turns a per-second rate into a frame fraction in [0, 1].
func blend(rate, deltaTime float32) float32 {
	k := 1 - float32(math.Exp(-float64(rate*deltaTime)))
	if k > 1 {
		return 1
	}
	return k
}

func wrapAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
