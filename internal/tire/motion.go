package tire

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	SpringRate      = 8.0
	RelaxDelay      = 0.08 // seconds before the target returns to uniform
	WobbleFrequency = 18.0
	WobbleDecay     = 4.0
	WobbleThreshold = 0.002
)

var unitScale = rl.Vector3{X: 1, Y: 1, Z: 1}

// MotionEffects is the squash/stretch spring and the decaying wobble that
// make up the tire's visual scale. It never touches physics state.
type MotionEffects struct {
	current    rl.Vector3
	target     rl.Vector3
	relaxTimer float32 // counts down while the target is held

	amplitude float32
	phase     float32
	wobble    float32
}

func NewMotionEffects() *MotionEffects {
	return &MotionEffects{current: unitScale, target: unitScale, wobble: 1}
}

// SetTarget sets the squash target; it relaxes back to (1,1,1) after RelaxDelay.
func (m *MotionEffects) SetTarget(target rl.Vector3) {
	m.target = target
	m.relaxTimer = RelaxDelay
}

// Trigger restarts the wobble with amplitude a.
func (m *MotionEffects) Trigger(a float32) {
	m.amplitude = a
	m.phase = 0
}

func (m *MotionEffects) Update(deltaTime float32) {
	if m.relaxTimer > 0 {
		m.relaxTimer -= deltaTime
		if m.relaxTimer <= 0 {
			m.relaxTimer = 0
			m.target = unitScale
		}
	}

	k := float32(math.Min(float64(SpringRate*deltaTime), 1))
	m.current = rl.Vector3Add(m.current, rl.Vector3Scale(rl.Vector3Subtract(m.target, m.current), k))

	m.wobble = 1
	if m.amplitude > WobbleThreshold {
		decayed := m.DecayedAmplitude()
		if decayed < WobbleThreshold {
			m.amplitude = 0
			m.phase = 0
		} else {
			m.wobble = 1 + float32(math.Sin(float64(m.phase*WobbleFrequency)))*decayed
			m.phase += deltaTime
		}
	}
}

// DecayedAmplitude is A·exp(-4·phase), the current oscillation envelope.
func (m *MotionEffects) DecayedAmplitude() float32 {
	return m.amplitude * float32(math.Exp(float64(-m.phase*WobbleDecay)))
}

// Scale is the final visual scale: spring state times wobble, per axis.
func (m *MotionEffects) Scale() rl.Vector3 {
	return rl.Vector3Scale(m.current, m.wobble)
}

func (m *MotionEffects) Target() rl.Vector3  { return m.target }
func (m *MotionEffects) Current() rl.Vector3 { return m.current }
func (m *MotionEffects) Amplitude() float32  { return m.amplitude }
func (m *MotionEffects) Phase() float32      { return m.phase }

// SquashTarget builds a volume-ish preserving squash along axis: squeezed by
// amount on the axis, bulged by half that across it.
func SquashTarget(axis rl.Vector3, amount float32) rl.Vector3 {
	axis = rl.Vector3Normalize(axis)
	ax := rl.Vector3{X: absf(axis.X), Y: absf(axis.Y), Z: absf(axis.Z)}
	bulge := amount * 0.5
	return rl.Vector3{
		X: 1 - amount*ax.X + bulge*(1-ax.X),
		Y: 1 - amount*ax.Y + bulge*(1-ax.Y),
		Z: 1 - amount*ax.Z + bulge*(1-ax.Z),
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
