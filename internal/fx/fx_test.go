package fx

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestBurstSize(t *testing.T) {
	tests := []struct {
		speed float32
		want  int
	}{
		{0, 4},
		{1.5, 4},
		{10, 9},
		{40, 24},
		{400, 24},
	}
	for _, tt := range tests {
		if got := BurstSize(tt.speed); got != tt.want {
			t.Errorf("BurstSize(%v) = %d, want %d", tt.speed, got, tt.want)
		}
	}
}

func TestGroundDustSpraysUpward(t *testing.T) {
	p := NewParticleSystem(0, 1)
	p.CreateImpactParticles(rl.Vector3{Y: 1}, 10, true)

	if p.Count() != BurstSize(10) {
		t.Fatalf("Expected %d particles, got %d", BurstSize(10), p.Count())
	}
	for i, pt := range p.Particles() {
		if pt.Velocity.Y <= 0 {
			t.Errorf("particle %d: dust should start moving up, got %v", i, pt.Velocity)
		}
		if pt.Color.A != 255 {
			t.Errorf("particle %d: expected opaque color, got %v", i, pt.Color)
		}
		if pt.Life <= 0 || pt.Life != pt.MaxLife {
			t.Errorf("particle %d: bad lifetime %f/%f", i, pt.Life, pt.MaxLife)
		}
	}
}

func TestParticlePoolIsBounded(t *testing.T) {
	p := NewParticleSystem(10, 2)
	p.CreateImpactParticles(rl.Vector3{}, 40, false)
	p.CreateImpactParticles(rl.Vector3{}, 40, false)
	if p.Count() != 10 {
		t.Errorf("Expected pool capped at 10, got %d", p.Count())
	}
}

func TestParticlesExpire(t *testing.T) {
	p := NewParticleSystem(0, 3)
	p.CreateImpactParticles(rl.Vector3{Y: 2}, 6, false)
	start := p.Particles()[0].Position

	p.Update(0.1)
	if p.Count() == 0 {
		t.Fatal("particles should survive 100ms")
	}
	if p.Particles()[0].Position == start {
		t.Error("particles should move on update")
	}

	// Longest life is ParticleLife * 1.4
	for i := 0; i < 10; i++ {
		p.Update(0.1)
	}
	if p.Count() != 0 {
		t.Errorf("Expected all particles expired, got %d", p.Count())
	}
}

func TestShakeIgnoresRequestWhileActive(t *testing.T) {
	s := NewScreenShake(1)
	s.Shake(0.5, 0.25)
	s.Shake(0.1, 2)

	if s.Intensity() != 0.5 {
		t.Errorf("second shake should be ignored, intensity=%f", s.Intensity())
	}

	s.Update(0.1)
	off := s.Offset()
	// amplitude after 0.1s of 0.25s = 0.5 * 0.6
	limit := float32(0.3) + 1e-6
	for _, c := range []float32{off.X, off.Y, off.Z} {
		if c < -limit || c > limit {
			t.Errorf("offset %v exceeds decayed amplitude %f", off, limit)
		}
	}

	s.Update(0.2)
	if s.Active() {
		t.Error("shake should end after its duration")
	}
	if s.Offset() != (rl.Vector3{}) {
		t.Errorf("finished shake should leave zero offset, got %v", s.Offset())
	}

	s.Shake(0.2, 0.1)
	if !s.Active() || s.Intensity() != 0.2 {
		t.Error("a new shake should start once the previous one ended")
	}
}

func TestShakeRejectsEmptyRequest(t *testing.T) {
	s := NewScreenShake(1)
	s.Shake(0, 1)
	s.Shake(1, 0)
	if s.Active() {
		t.Error("zero intensity or duration should not start a shake")
	}
}

func TestOverlayFlashFadesAndExpires(t *testing.T) {
	o := NewOverlay()
	if _, ok := o.Current(); ok {
		t.Fatal("empty overlay should have no flash")
	}

	o.Flash(rl.NewColor(255, 255, 255, 200), 0.2)
	c, ok := o.Current()
	if !ok || c.A != 200 {
		t.Fatalf("fresh flash should be at full alpha, got %v", c)
	}

	o.Update(0.1)
	c, _ = o.Current()
	if c.A != 100 {
		t.Errorf("Expected alpha 100 halfway through, got %d", c.A)
	}

	o.Update(0.1)
	if o.Pending() != 0 {
		t.Errorf("flash should expire, %d pending", o.Pending())
	}
}

func TestOverlayDropsOldestWhenFull(t *testing.T) {
	o := NewOverlay()
	for i := 0; i < MaxFlashes+2; i++ {
		o.Flash(rl.NewColor(uint8(i), 0, 0, 255), 1)
	}
	if o.Pending() != MaxFlashes {
		t.Fatalf("Expected %d pending, got %d", MaxFlashes, o.Pending())
	}
	c, _ := o.Current()
	if c.R != MaxFlashes+1 {
		t.Errorf("newest flash should be current, got R=%d", c.R)
	}
	o.Flash(rl.White, 0)
	if o.Pending() != MaxFlashes {
		t.Error("zero-duration flash should be ignored")
	}
}
