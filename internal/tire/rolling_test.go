package tire

import (
	"math"
	"testing"

	"tireroll/internal/deform"
	"tireroll/internal/engine"
	"tireroll/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

const frame = float32(1.0 / 60.0)

func near(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

type testRig struct {
	world *physics.PhysicsWorld
	mats  Materials
}

// newRig builds a world with a 40x1x40 ground slab (top at y=0.5) and every
// tire material registered against it.
func newRig(t *testing.T) *testRig {
	t.Helper()
	w := physics.NewPhysicsWorld()
	ground, err := w.RegisterMaterial("ground")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.SetTerrainMaterial(ground); err != nil {
		t.Fatal(err)
	}
	mats, err := RegisterMaterials(w, ground, nil)
	if err != nil {
		t.Fatalf("register materials: %v", err)
	}
	slab := engine.NewGameObject("Ground")
	if _, err := w.AddBody(slab, physics.Box(rl.Vector3{X: 40, Y: 1, Z: 40}), 0, ground); err != nil {
		t.Fatal(err)
	}
	return &testRig{world: w, mats: mats}
}

func (r *testRig) spawn(t *testing.T, typ Type, pos rl.Vector3, sinks Sinks) (*RollingBody, *engine.GameObject) {
	t.Helper()
	spec, _ := SpecFor(typ)
	obj := engine.NewGameObject("Tire")
	obj.Transform.Position = pos
	b, err := Spawn(r.world, obj, Options{
		Type:     typ,
		Material: r.mats[typ],
		Vertices: deform.NewSliceBuffer(ProfileVertices(spec, 16)),
		Sinks:    sinks,
	})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	return b, obj
}

type countingReleaser struct{ n int }

func (c *countingReleaser) Release() { c.n++ }

func TestNoSlipAtLaunchForArbitraryVelocities(t *testing.T) {
	radii := []float32{0.3, 0.4, 0.8, 1.7}
	velocities := []rl.Vector3{
		{X: 5},
		{Z: -3},
		{X: -7.5, Z: 2.25},
		{X: 0.001, Y: 4, Z: -0.002},
		{X: 123.4, Y: -9, Z: -56.7},
		{},
	}
	for _, r := range radii {
		for _, v := range velocities {
			w := NoSlipAngularVelocity(v, r)
			contact := rl.Vector3{Y: -r}
			surface := rl.Vector3Add(v, rl.Vector3CrossProduct(w, contact))
			tol := 1e-4 * (1 + rl.Vector3Length(v))
			if !near(surface.X, 0, tol) || !near(surface.Z, 0, tol) {
				t.Errorf("r=%v v=%v: contact point slides at %v", r, v, surface)
			}
			if w.Y != 0 {
				t.Errorf("r=%v v=%v: launch spin should have no yaw, got %v", r, v, w)
			}
		}
	}
}

func TestLaunchSetsNoSlipSpin(t *testing.T) {
	rig := newRig(t)
	b, _ := rig.spawn(t, Standard, rl.Vector3{Y: 0.9}, Sinks{})

	if b.Spec.Radius != 0.4 {
		t.Fatalf("standard tire radius should be 0.4, got %f", b.Spec.Radius)
	}
	if err := b.Launch(rl.Vector3{X: 5}); err != nil {
		t.Fatal(err)
	}

	w := b.Rigidbody().AngularVelocity
	if !near(w.Z, -12.5, 1e-5) || w.X != 0 || w.Y != 0 {
		t.Errorf("Expected angular velocity (0,0,-12.5), got %v", w)
	}
	if b.State() != Launched {
		t.Errorf("Expected state launched, got %s", b.State())
	}
}

func TestLaunchDisablesSleepAndRecordsTime(t *testing.T) {
	rig := newRig(t)
	b, _ := rig.spawn(t, Light, rl.Vector3{Y: 0.8}, Sinks{})

	for i := 0; i < 10; i++ {
		rig.world.Step(frame)
	}
	b.Launch(rl.Vector3{Z: 2})

	if b.Rigidbody().CanSleep {
		t.Error("launched body must not be allowed to sleep")
	}
	if b.LaunchTime() != rig.world.Time() {
		t.Errorf("Expected launch time %f, got %f", rig.world.Time(), b.LaunchTime())
	}

	b.Launch(rl.Vector3{X: -3})
	if b.Rigidbody().Velocity != (rl.Vector3{X: -3}) {
		t.Errorf("relaunch should overwrite velocity, got %v", b.Rigidbody().Velocity)
	}
	if b.State() != Launched {
		t.Error("relaunch should stay launched")
	}
}

func TestLaunchAfterDestroyFails(t *testing.T) {
	rig := newRig(t)
	b, _ := rig.spawn(t, Heavy, rl.Vector3{Y: 1}, Sinks{})
	b.Destroy()
	if err := b.Launch(rl.Vector3{X: 1}); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed, got %v", err)
	}
}

func TestFallBelowFloorDestroysOnce(t *testing.T) {
	rig := newRig(t)
	b, obj := rig.spawn(t, Standard, rl.Vector3{Y: 0.9}, Sinks{})
	b.Launch(rl.Vector3{X: 1})

	var reasons []DestroyReason
	b.OnDestroyed.AddListener(func(r DestroyReason) { reasons = append(reasons, r) })

	// Above the floor: no-op
	obj.Update(frame)
	obj.Update(frame)
	if len(reasons) != 0 || b.State() != Launched {
		t.Fatal("body above the floor should not be destroyed")
	}

	obj.Transform.Position.Y = -60
	obj.Update(frame)
	obj.Update(frame)
	b.Destroy()

	if len(reasons) != 1 {
		t.Fatalf("Expected exactly one destruction, got %d", len(reasons))
	}
	if reasons[0] != DestroyFell {
		t.Errorf("Expected DestroyFell, got %d", reasons[0])
	}
	if _, _, ok := rig.world.Body(b.Handle()); ok {
		t.Error("destroyed body should be removed from the world")
	}
}

func TestIdleBodyIgnoresFallCheck(t *testing.T) {
	rig := newRig(t)
	b, obj := rig.spawn(t, Standard, rl.Vector3{Y: -60}, Sinks{})
	obj.Update(frame)
	if b.State() != Idle {
		t.Errorf("idle body should not run the fall check, got %s", b.State())
	}
}

func TestDestroyReleasesAndUnsubscribes(t *testing.T) {
	rig := newRig(t)
	spec, _ := SpecFor(Racing)
	rel := &countingReleaser{}
	obj := engine.NewGameObject("Tire")
	obj.Transform.Position = rl.Vector3{Y: 2}
	b, err := Spawn(rig.world, obj, Options{Type: Racing, Material: rig.mats[Racing], Mesh: rel})
	if err != nil {
		t.Fatal(err)
	}
	if b.Deform.Enabled() {
		t.Error("no vertex buffer should leave deformation disabled")
	}
	if b.Spec != spec {
		t.Error("spawn should use the catalog spec")
	}
	before := rig.world.BodyCount()

	fired := 0
	b.OnDestroyed.AddListener(func(DestroyReason) { fired++ })
	b.Destroy()
	b.Destroy()

	if rel.n != 1 {
		t.Errorf("mesh should be released once, got %d", rel.n)
	}
	if fired != 1 {
		t.Errorf("OnDestroyed should fire once, got %d", fired)
	}
	if rig.world.BodyCount() != before-1 {
		t.Errorf("Expected %d bodies, got %d", before-1, rig.world.BodyCount())
	}
	if err := rig.world.Subscribe(b.Handle(), func(physics.ContactEvent) {}); !errors.Is(err, physics.ErrUnknownBody) {
		t.Errorf("handle should be gone after destroy, got %v", err)
	}
}

func TestSpinCorrectionBlendsTowardNoSlip(t *testing.T) {
	rig := newRig(t)
	b, obj := rig.spawn(t, Standard, rl.Vector3{Y: 5}, Sinks{})
	b.Launch(rl.Vector3{X: 4})
	rb := b.Rigidbody()
	rb.AngularVelocity = rl.Vector3{X: 1, Y: 1, Z: 0}

	obj.Update(frame)

	// target = (0, 0, -10)
	w := rb.AngularVelocity
	if !near(w.Z, -2, 1e-5) {
		t.Errorf("ω.z should move 20%% toward -10, got %f", w.Z)
	}
	if !near(w.X, 0.8, 1e-5) {
		t.Errorf("ω.x should move 20%% toward 0, got %f", w.X)
	}
	if !near(w.Y, 0.85, 1e-5) {
		t.Errorf("ω.y should be damped by 0.85, got %f", w.Y)
	}
}

func TestTuningIsShared(t *testing.T) {
	rig := newRig(t)
	tuning := DefaultTuning()
	obj := engine.NewGameObject("Tire")
	obj.Transform.Position = rl.Vector3{Y: 5}
	b, err := Spawn(rig.world, obj, Options{Type: Standard, Material: rig.mats[Standard], Tuning: &tuning})
	if err != nil {
		t.Fatal(err)
	}
	b.Launch(rl.Vector3{X: 4})
	b.Rigidbody().AngularVelocity = rl.Vector3{Y: 1}

	tuning.YawDamping = 0.5
	obj.Update(frame)
	if !near(b.Rigidbody().AngularVelocity.Y, 0.5, 1e-5) {
		t.Errorf("live tuning edit should apply, got %f", b.Rigidbody().AngularVelocity.Y)
	}
}

func TestLaunchedTireRollsAlongGround(t *testing.T) {
	rig := newRig(t)
	b, obj := rig.spawn(t, Standard, rl.Vector3{Y: 0.895}, Sinks{})
	b.Launch(rl.Vector3{X: 6})

	for i := 0; i < 60; i++ {
		rig.world.Step(frame)
		obj.Update(frame)
	}

	if b.State() != Launched {
		t.Fatalf("tire should still be rolling, got %s", b.State())
	}
	if obj.Transform.Position.X < 4 {
		t.Errorf("tire should have rolled forward, x=%f", obj.Transform.Position.X)
	}
	if !near(obj.Transform.Position.Y, 0.9, 0.05) {
		t.Errorf("tire should stay on the ground, y=%f", obj.Transform.Position.Y)
	}
	v := b.Rigidbody().Velocity
	w := b.Rigidbody().AngularVelocity
	if !near(w.Z, -v.X/b.Spec.Radius, 0.5) {
		t.Errorf("spin should track no-slip: ω.z=%f, want ~%f", w.Z, -v.X/b.Spec.Radius)
	}
	if b.Trail.Len() != 48 {
		t.Errorf("trail should be full after 60 frames, got %d", b.Trail.Len())
	}
	if b.Rigidbody().IsSleeping {
		t.Error("launched tire must not sleep")
	}
}
