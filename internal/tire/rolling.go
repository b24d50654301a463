package tire

import (
	"tireroll/internal/components"
	"tireroll/internal/deform"
	"tireroll/internal/engine"
	"tireroll/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

var ErrDestroyed = errors.New("tire: body destroyed")

type State int

const (
	Idle State = iota
	Launched
	Destroyed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Launched:
		return "launched"
	case Destroyed:
		return "destroyed"
	}
	return "unknown"
}

type DestroyReason int

const (
	DestroyFell DestroyReason = iota
	DestroyReset
)

// Tuning holds the rolling correction factors. They were picked by feel and
// are exposed in config and the tuning panel.
type Tuning struct {
	BlendFactor float32 // per-step pull of ω.x/ω.z toward no-slip
	YawDamping  float32 // per-step multiplier on ω.y
	FallFloor   float32 // bodies below this height self-destruct
}

func DefaultTuning() Tuning {
	return Tuning{BlendFactor: 0.2, YawDamping: 0.85, FallFloor: -50}
}

// NoSlipAngularVelocity returns the spin that gives zero contact-point
// velocity against a horizontal surface for a body of radius r moving at v.
func NoSlipAngularVelocity(v rl.Vector3, r float32) rl.Vector3 {
	return rl.Vector3{X: v.Z / r, Y: 0, Z: -v.X / r}
}

// Options configures Spawn.
type Options struct {
	Type     Type
	Spec     *Spec // nil uses the catalog entry for Type
	Material components.MaterialID

	// Vertices is the deformable mesh surface; nil disables deformation.
	Vertices deform.VertexBuffer
	// Mesh is released when the body is destroyed.
	Mesh engine.Releaser

	Sinks         Sinks
	Tuning        *Tuning // shared so live edits apply; nil uses defaults
	TrailCapacity int
}

// RollingBody is the tire component. It lives on the same GameObject as the
// physics Rigidbody and runs its correction after each physics step.
type RollingBody struct {
	engine.BaseComponent
	Type   Type
	Spec   Spec
	Tuning *Tuning

	Motion    *MotionEffects
	Deform    *deform.Engine
	Trail     *Trail
	Responder *ImpactResponder

	// OnDestroyed fires exactly once, after the body has left the world.
	OnDestroyed engine.EventWithArg[DestroyReason]

	world      *physics.PhysicsWorld
	handle     physics.BodyHandle
	rb         *components.Rigidbody
	mesh       engine.Releaser
	state      State
	launchTime float64
}

// Spawn registers obj as a tire body in world, subscribes its impact
// responder and attaches the RollingBody component. obj's transform should
// already be placed.
func Spawn(world *physics.PhysicsWorld, obj *engine.GameObject, opts Options) (*RollingBody, error) {
	spec, err := SpecFor(opts.Type)
	if err != nil {
		return nil, err
	}
	if opts.Spec != nil {
		spec = *opts.Spec
	}
	if err := spec.Validate(); err != nil {
		return nil, errors.Wrapf(err, "spawn %s", opts.Type)
	}

	handle, err := world.AddBody(obj, physics.Sphere(spec.Radius), spec.Mass, opts.Material)
	if err != nil {
		return nil, errors.Wrapf(err, "spawn %s", opts.Type)
	}
	_, rb, _ := world.Body(handle)
	rb.LinearDamping = spec.LinearDamping
	rb.AngularDamping = spec.AngularDamping

	tuning := opts.Tuning
	if tuning == nil {
		t := DefaultTuning()
		tuning = &t
	}

	b := &RollingBody{
		Type:   opts.Type,
		Spec:   spec,
		Tuning: tuning,
		Motion: NewMotionEffects(),
		Deform: deform.New(opts.Vertices, spec.Radius),
		Trail:  NewTrail(opts.TrailCapacity),
		world:  world,
		handle: handle,
		rb:     rb,
		mesh:   opts.Mesh,
	}
	b.Responder = NewImpactResponder(b, opts.Sinks, world.Time)
	if err := world.Subscribe(handle, b.Responder.HandleContact); err != nil {
		world.RemoveBody(handle)
		return nil, errors.Wrapf(err, "spawn %s", opts.Type)
	}
	obj.AddComponent(b)
	return b, nil
}

func (b *RollingBody) State() State                     { return b.state }
func (b *RollingBody) Handle() physics.BodyHandle       { return b.handle }
func (b *RollingBody) Rigidbody() *components.Rigidbody { return b.rb }

// LaunchTime is the simulation time of the most recent Launch.
func (b *RollingBody) LaunchTime() float64 {
	return b.launchTime
}

func (b *RollingBody) Speed() float32 {
	return rl.Vector3Length(b.rb.Velocity)
}

// Launch sets the linear velocity and the matching no-slip spin, and keeps
// the body awake from now on. Relaunching overwrites both.
func (b *RollingBody) Launch(velocity rl.Vector3) error {
	if b.state == Destroyed {
		return ErrDestroyed
	}
	b.rb.Velocity = velocity
	b.rb.AngularVelocity = NoSlipAngularVelocity(velocity, b.Spec.Radius)
	b.rb.SetSleepAllowed(false)
	b.launchTime = b.world.Time()
	b.state = Launched
	return nil
}

func (b *RollingBody) Update(deltaTime float32) {
	if b.state != Launched {
		return
	}
	g := b.GetGameObject()

	if g.Transform.Position.Y < b.Tuning.FallFloor {
		b.destroy(DestroyFell)
		return
	}

	b.correctSpin()
	b.Trail.Record(g.Transform.Position, b.Speed())
	b.Motion.Update(deltaTime)
	b.Deform.Restore(deltaTime)

	g.Transform.Scale = b.Motion.Scale()
}

// correctSpin pulls ω.x/ω.z toward the no-slip value for the current
// velocity and bleeds off yaw spin.
func (b *RollingBody) correctSpin() {
	target := NoSlipAngularVelocity(b.rb.Velocity, b.Spec.Radius)
	w := b.rb.AngularVelocity
	k := b.Tuning.BlendFactor
	w.X += (target.X - w.X) * k
	w.Z += (target.Z - w.Z) * k
	w.Y *= b.Tuning.YawDamping
	b.rb.AngularVelocity = w
}

// Destroy removes the body from the world and releases its mesh. Safe to
// call more than once.
func (b *RollingBody) Destroy() {
	b.destroy(DestroyReset)
}

func (b *RollingBody) destroy(reason DestroyReason) {
	if b.state == Destroyed {
		return
	}
	b.state = Destroyed
	b.world.Unsubscribe(b.handle)
	b.world.RemoveBody(b.handle)
	if b.mesh != nil {
		b.mesh.Release()
	}
	b.OnDestroyed.Invoke(reason)
}
