package fx

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultMaxParticles = 512
	ParticleGravity     = -14.0
	ParticleLife        = 0.6

	minBurst = 4
	maxBurst = 24
)

var (
	dustColor  = colorful.Color{R: 0.55, G: 0.45, B: 0.33}
	sparkColor = colorful.Color{R: 1.0, G: 0.62, B: 0.18}
)

// Particle is one piece of impact debris.
type Particle struct {
	Position rl.Vector3
	Velocity rl.Vector3
	Color    rl.Color
	Size     float32
	Life     float32
	MaxLife  float32
}

// ParticleSystem is a bounded pool of short-lived debris. It implements
// tire.ParticleSink.
type ParticleSystem struct {
	particles []Particle
	max       int
	rng       *rand.Rand
}

func NewParticleSystem(max int, seed int64) *ParticleSystem {
	if max <= 0 {
		max = DefaultMaxParticles
	}
	return &ParticleSystem{
		particles: make([]Particle, 0, max),
		max:       max,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// BurstSize is how many particles an impact at speed emits.
func BurstSize(speed float32) int {
	n := minBurst + int(speed/2)
	if n > maxBurst {
		n = maxBurst
	}
	return n
}

// CreateImpactParticles emits a burst at point. Ground hits kick up dust that
// sprays upward, object hits throw sparks in every direction. When the pool
// is full the burst is truncated.
func (p *ParticleSystem) CreateImpactParticles(point rl.Vector3, speed float32, ground bool) {
	base := sparkColor
	if ground {
		base = dustColor
	}
	h, s, v := base.Hsv()
	spread := 1 + speed*0.15

	n := BurstSize(speed)
	for i := 0; i < n && len(p.particles) < p.max; i++ {
		dir := p.randomDirection(ground)
		jitter := colorful.Hsv(
			math.Mod(h+p.rng.Float64()*24-12+360, 360),
			clamp(s+p.rng.Float64()*0.2-0.1),
			clamp(v+p.rng.Float64()*0.3-0.15),
		).Clamped()
		r, g, b := jitter.RGB255()

		life := float32(ParticleLife * (0.6 + 0.8*p.rng.Float64()))
		p.particles = append(p.particles, Particle{
			Position: point,
			Velocity: rl.Vector3Scale(dir, spread*(0.5+p.rng.Float32())),
			Color:    rl.NewColor(r, g, b, 255),
			Size:     0.04 + 0.06*p.rng.Float32(),
			Life:     life,
			MaxLife:  life,
		})
	}
}

func (p *ParticleSystem) randomDirection(upward bool) rl.Vector3 {
	d := rl.Vector3{
		X: p.rng.Float32()*2 - 1,
		Y: p.rng.Float32()*2 - 1,
		Z: p.rng.Float32()*2 - 1,
	}
	if upward {
		d.Y = float32(math.Abs(float64(d.Y))) + 0.5
	}
	if rl.Vector3Length(d) < 1e-4 {
		return rl.Vector3{Y: 1}
	}
	return rl.Vector3Normalize(d)
}

// Update integrates live particles and drops the expired ones in place.
func (p *ParticleSystem) Update(deltaTime float32) {
	live := p.particles[:0]
	for _, pt := range p.particles {
		pt.Life -= deltaTime
		if pt.Life <= 0 {
			continue
		}
		pt.Velocity.Y += ParticleGravity * deltaTime
		pt.Position = rl.Vector3Add(pt.Position, rl.Vector3Scale(pt.Velocity, deltaTime))
		live = append(live, pt)
	}
	p.particles = live
}

func (p *ParticleSystem) Draw() {
	for _, pt := range p.particles {
		alpha := pt.Life / pt.MaxLife
		rl.DrawCubeV(pt.Position, rl.Vector3{X: pt.Size, Y: pt.Size, Z: pt.Size}, rl.Fade(pt.Color, alpha))
	}
}

func (p *ParticleSystem) Count() int { return len(p.particles) }

// Particles returns the live particles. The slice is reused by Update.
func (p *ParticleSystem) Particles() []Particle { return p.particles }

func (p *ParticleSystem) Clear() { p.particles = p.particles[:0] }

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
