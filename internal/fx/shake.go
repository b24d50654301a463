package fx

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ScreenShake jitters the camera for a fixed duration with a linearly decaying
// amplitude. A new request is ignored while one is running.
type ScreenShake struct {
	intensity float32
	duration  float32
	elapsed   float32
	offset    rl.Vector3
	rng       *rand.Rand
}

func NewScreenShake(seed int64) *ScreenShake {
	return &ScreenShake{rng: rand.New(rand.NewSource(seed))}
}

func (s *ScreenShake) Shake(intensity, duration float32) {
	if s.Active() || intensity <= 0 || duration <= 0 {
		return
	}
	s.intensity = intensity
	s.duration = duration
	s.elapsed = 0
}

func (s *ScreenShake) Active() bool {
	return s.duration > 0 && s.elapsed < s.duration
}

func (s *ScreenShake) Update(deltaTime float32) {
	if !s.Active() {
		s.offset = rl.Vector3{}
		return
	}
	s.elapsed += deltaTime
	if s.elapsed >= s.duration {
		s.intensity, s.duration, s.elapsed = 0, 0, 0
		s.offset = rl.Vector3{}
		return
	}

	amp := s.intensity * (1 - s.elapsed/s.duration)
	s.offset = rl.Vector3{
		X: (s.rng.Float32()*2 - 1) * amp,
		Y: (s.rng.Float32()*2 - 1) * amp,
		Z: (s.rng.Float32()*2 - 1) * amp,
	}
}

// Offset is the displacement to add to the camera this frame.
func (s *ScreenShake) Offset() rl.Vector3  { return s.offset }
func (s *ScreenShake) Intensity() float32 { return s.intensity }
