package tire

import (
	"testing"

	"tireroll/internal/engine"
	"tireroll/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// recorder implements every sink and logs calls in order.
type recorder struct {
	calls     []string
	particles []bool
	shakes    []float32
	flashes   int
	impacts   []Impact
	onImpact  func(Impact)
	panicOn   string
}

func (r *recorder) CreateImpactParticles(point rl.Vector3, speed float32, ground bool) {
	r.calls = append(r.calls, "particles")
	if r.panicOn == "particles" {
		panic("particle pool exhausted")
	}
	r.particles = append(r.particles, ground)
}

func (r *recorder) Shake(intensity, duration float32) {
	r.calls = append(r.calls, "shake")
	r.shakes = append(r.shakes, intensity)
}

func (r *recorder) Flash(color rl.Color, duration float32) {
	r.calls = append(r.calls, "flash")
	r.flashes++
}

func (r *recorder) OnImpact(im Impact) {
	r.calls = append(r.calls, "impact")
	r.impacts = append(r.impacts, im)
	if r.onImpact != nil {
		r.onImpact(im)
	}
}

func (r *recorder) sinks() Sinks {
	return Sinks{Particles: r, Screen: r, Overlay: r, Listener: r}
}

type fakeClock struct{ now float64 }

func (c *fakeClock) Now() float64 { return c.now }

// newResponderRig spawns a standard tire at rest and wires a responder with a
// controllable clock.
func newResponderRig(t *testing.T) (*RollingBody, *ImpactResponder, *recorder, *fakeClock) {
	t.Helper()
	rig := newRig(t)
	rec := &recorder{}
	b, _ := rig.spawn(t, Standard, rl.Vector3{Y: 3}, Sinks{})
	clock := &fakeClock{}
	r := NewImpactResponder(b, rec.sinks(), clock.Now)
	return b, r, rec, clock
}

func groundHit(speed float32) physics.ContactEvent {
	return physics.ContactEvent{
		OtherStatic: true,
		Point:       rl.Vector3{Y: 2.6},
		Normal:      rl.Vector3{Y: 1},
		Speed:       speed,
	}
}

func TestHardGroundImpactShakes(t *testing.T) {
	_, r, rec, _ := newResponderRig(t)

	r.HandleContact(groundHit(10))

	if len(rec.shakes) != 1 {
		t.Fatalf("Expected 1 shake, got %d", len(rec.shakes))
	}
	got := rec.shakes[0]
	if got < ShakeMin || got > ShakeMax {
		t.Errorf("shake intensity %f outside [%v, %v]", got, ShakeMin, ShakeMax)
	}
	want := float32(0.1 + 0.5*(2.0/12.0))
	if !near(got, want, 1e-5) {
		t.Errorf("Expected shake %f, got %f", want, got)
	}
	if rec.flashes != 1 {
		t.Errorf("hard impact should flash the overlay once, got %d", rec.flashes)
	}
	if len(rec.particles) != 1 || !rec.particles[0] {
		t.Error("ground impact should spawn ground particles")
	}
}

func TestShakeIntensityRange(t *testing.T) {
	tests := []struct {
		speed float32
		want  float32
	}{
		{8, 0.1},
		{14, 0.35},
		{20, 0.6},
		{100, 0.6},
	}
	for _, tt := range tests {
		if got := ShakeIntensity(tt.speed); !near(got, tt.want, 1e-5) {
			t.Errorf("ShakeIntensity(%v) = %f, want %f", tt.speed, got, tt.want)
		}
	}
}

func TestSlowContactDispatchesNothing(t *testing.T) {
	b, r, rec, _ := newResponderRig(t)

	r.HandleContact(groundHit(1.0))

	if len(rec.calls) != 0 {
		t.Errorf("Expected no effects, got %v", rec.calls)
	}
	if b.Deform.Progress() != 1 {
		t.Error("slow contact should not deform the mesh")
	}
	if b.Motion.Amplitude() != 0 {
		t.Error("slow contact should not wobble")
	}
	if r.Accepted() != 0 {
		t.Errorf("Expected 0 accepted, got %d", r.Accepted())
	}
}

func TestSoftImpactSkipsShake(t *testing.T) {
	_, r, rec, _ := newResponderRig(t)
	r.HandleContact(groundHit(8))
	if len(rec.shakes) != 0 || rec.flashes != 0 {
		t.Error("impact at exactly the hard threshold should not shake")
	}
	if len(rec.particles) != 1 {
		t.Error("impact should still spawn particles")
	}
}

func TestDebounce(t *testing.T) {
	_, r, rec, clock := newResponderRig(t)

	r.HandleContact(groundHit(5))
	clock.now = 0.1
	r.HandleContact(groundHit(12))
	if len(rec.impacts) != 1 {
		t.Fatalf("events within 150ms should collapse, got %d impacts", len(rec.impacts))
	}

	clock.now = 0.16
	r.HandleContact(groundHit(5))
	if len(rec.impacts) != 2 {
		t.Errorf("event after the window should be accepted, got %d", len(rec.impacts))
	}
	if r.Accepted() != 2 {
		t.Errorf("Expected 2 accepted, got %d", r.Accepted())
	}
}

func TestIgnoredContactDoesNotStartDebounce(t *testing.T) {
	_, r, rec, clock := newResponderRig(t)
	r.HandleContact(groundHit(0.5))
	clock.now = 0.05
	r.HandleContact(groundHit(4))
	if len(rec.impacts) != 1 {
		t.Errorf("graze should not debounce the next real impact, got %d", len(rec.impacts))
	}
}

func TestDispatchOrder(t *testing.T) {
	b, r, rec, _ := newResponderRig(t)

	var deformedFirst, wobbleFirst bool
	rec.onImpact = func(Impact) {
		deformedFirst = b.Deform.Progress() == 0
		wobbleFirst = b.Motion.Amplitude() > 0
	}
	r.HandleContact(groundHit(12))

	want := []string{"particles", "impact", "shake", "flash"}
	if len(rec.calls) != len(want) {
		t.Fatalf("Expected calls %v, got %v", want, rec.calls)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], rec.calls[i])
		}
	}
	if !deformedFirst {
		t.Error("deformation should run before gameplay notification")
	}
	if !wobbleFirst {
		t.Error("wobble should be triggered before gameplay notification")
	}
}

func TestImpactClassificationAndIntensity(t *testing.T) {
	_, r, rec, _ := newResponderRig(t)
	other := engine.NewGameObject("Crate")
	r.HandleContact(physics.ContactEvent{
		Other:  other,
		Point:  rl.Vector3{X: 0.4, Y: 3},
		Normal: rl.Vector3{X: -1},
		Speed:  30,
	})

	if len(rec.impacts) != 1 {
		t.Fatal("Expected one impact")
	}
	im := rec.impacts[0]
	if im.Ground {
		t.Error("dynamic other body should classify as object")
	}
	if im.Intensity != 1 {
		t.Errorf("intensity should clamp to 1, got %f", im.Intensity)
	}
	if Intensity(5) != 0.25 {
		t.Errorf("Expected Intensity(5)=0.25, got %f", Intensity(5))
	}
}

func TestSquashAndWobbleFromImpact(t *testing.T) {
	b, r, _, _ := newResponderRig(t)

	// Body at rest: squash follows the contact normal (+Y)
	r.HandleContact(groundHit(10))

	target := b.Motion.Target()
	if !near(target.Y, 1-0.5*SquashAmount, 1e-5) {
		t.Errorf("normal-aligned squash should compress Y, got %v", target)
	}
	if target.X <= 1 || target.Z <= 1 {
		t.Errorf("squash should bulge across the normal, got %v", target)
	}
	if !near(b.Motion.Amplitude(), 0.5*WobbleFactor, 1e-6) {
		t.Errorf("Expected wobble amplitude %f, got %f", 0.5*WobbleFactor, b.Motion.Amplitude())
	}
	if b.Motion.Phase() != 0 {
		t.Error("wobble phase should reset to 0")
	}
}

func TestSquashFollowsVelocityWhenMoving(t *testing.T) {
	b, r, _, _ := newResponderRig(t)
	b.Rigidbody().Velocity = rl.Vector3{X: 6}

	r.HandleContact(groundHit(10))

	target := b.Motion.Target()
	if target.X >= 1 {
		t.Errorf("velocity-aligned squash should compress X, got %v", target)
	}
	if target.Y <= 1 {
		t.Errorf("velocity-aligned squash should bulge Y, got %v", target)
	}
}

func TestPanickingSinkIsIsolated(t *testing.T) {
	_, r, rec, _ := newResponderRig(t)
	rec.panicOn = "particles"

	r.HandleContact(groundHit(12))

	if len(rec.impacts) != 1 {
		t.Error("listener should still run after a panicking particle sink")
	}
	if len(rec.shakes) != 1 {
		t.Error("shake should still run after a panicking particle sink")
	}
}

func TestResponderIgnoresDestroyedBody(t *testing.T) {
	b, r, rec, _ := newResponderRig(t)
	b.Destroy()
	r.HandleContact(groundHit(12))
	if len(rec.calls) != 0 {
		t.Errorf("destroyed body should not dispatch, got %v", rec.calls)
	}
}

func TestSpawnedTireReceivesWorldContacts(t *testing.T) {
	rig := newRig(t)
	rec := &recorder{}
	b, _ := rig.spawn(t, Standard, rl.Vector3{Y: 0.95}, rec.sinks())
	b.Launch(rl.Vector3{Y: -12})

	rig.world.Step(frame)

	if len(rec.impacts) != 1 {
		t.Fatalf("Expected one impact from the ground, got %d", len(rec.impacts))
	}
	if !rec.impacts[0].Ground {
		t.Error("ground slab should classify as ground")
	}
	if len(rec.shakes) != 1 {
		t.Error("12+ speed impact should shake")
	}
}
