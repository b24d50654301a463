package game

import (
	"fmt"
	"log"
	"math"

	"tireroll/internal/camera"
	"tireroll/internal/components"
	"tireroll/internal/config"
	"tireroll/internal/deform"
	"tireroll/internal/engine"
	"tireroll/internal/fx"
	"tireroll/internal/physics"
	"tireroll/internal/tire"
	"tireroll/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// MaxFrameTime caps a single step so a stalled frame can't tunnel tires
// through thin walls.
const MaxFrameTime = 1.0 / 30.0

// MaxAim is the largest launch angle off the course axis, in radians.
const MaxAim = math.Pi / 4

var ErrNoSpawnGround = errors.New("game: nothing below the spawn point")

// Input is one frame of player intent. The window build fills it from the
// keyboard; headless runs and tests build it directly.
type Input struct {
	Launch   bool
	Reset    bool
	NextType bool
	Aim      float32 // radians per second of aim change
}

// Session is one play session: a built course, the live tires, scoring and
// the effect collaborators. It runs without a window when headless.
type Session struct {
	Config   config.Config
	World    *world.World
	Tuning   *tire.Tuning
	TireType tire.Type
	Aim      float32 // launch direction, radians around Y from +X

	Score     *Scoreboard
	Particles *fx.ParticleSystem
	Shake     *fx.ScreenShake
	Overlay   *fx.Overlay
	Camera    *camera.ChaseCamera

	Current *tire.RollingBody
	tires   []*tire.RollingBody

	materials tire.Materials
	specs     map[tire.Type]tire.Spec
	headless  bool
	spawned   int
	fell      int
}

// NewSession registers materials, builds level and prepares the effect
// sinks. Any configuration problem is returned before a frame runs.
func NewSession(cfg config.Config, level world.Level, headless bool) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	specs, err := cfg.Specs()
	if err != nil {
		return nil, err
	}

	w, err := world.New(headless)
	if err != nil {
		return nil, errors.Wrap(err, "create world")
	}
	mats, err := tire.RegisterMaterials(w.Physics, w.Ground, specs)
	if err != nil {
		return nil, errors.Wrap(err, "register tire materials")
	}
	if err := w.Build(level); err != nil {
		return nil, errors.Wrapf(err, "build level %q", level.Name)
	}

	tuning := cfg.TireTuning()
	s := &Session{
		Config:    cfg,
		World:     w,
		Tuning:    &tuning,
		TireType:  cfg.TireType(),
		Score:     NewScoreboard(),
		Particles: fx.NewParticleSystem(fx.DefaultMaxParticles, cfg.Seed),
		Shake:     fx.NewScreenShake(cfg.Seed + 1),
		Overlay:   fx.NewOverlay(),
		Camera:    camera.New(vec3(level.Spawn)),
		materials: mats,
		specs:     specs,
		headless:  headless,
	}
	log.Printf("Game: session ready on %q with %s tires", level.Name, s.TireType)
	return s, nil
}

func vec3(a [3]float32) rl.Vector3 {
	return rl.Vector3{X: a[0], Y: a[1], Z: a[2]}
}

func (s *Session) spec(t tire.Type) tire.Spec {
	if sp, ok := s.specs[t]; ok {
		return sp
	}
	sp, _ := tire.SpecFor(t)
	return sp
}

// SpawnTire places a new tire of the current type on the spawn pad and makes
// it the current tire. Older tires keep rolling.
func (s *Session) SpawnTire() (*tire.RollingBody, error) {
	spec := s.spec(s.TireType)
	skip := make([]physics.BodyHandle, len(s.tires))
	for i, t := range s.tires {
		skip[i] = t.Handle()
	}
	pos, ok := s.World.SpawnPoint(spec.Radius, skip...)
	if !ok {
		return nil, ErrNoSpawnGround
	}

	s.spawned++
	obj := engine.NewGameObject(fmt.Sprintf("Tire_%d", s.spawned))
	obj.Tags = []string{"tire"}
	obj.Transform.Position = pos
	obj.Transform.Rotation = rl.QuaternionFromEuler(0, -s.Aim, 0)

	opts := tire.Options{
		Type:     s.TireType,
		Spec:     &spec,
		Material: s.materials[s.TireType],
		Sinks: tire.Sinks{
			Particles: s.Particles,
			Screen:    s.Shake,
			Overlay:   s.Overlay,
			Listener:  s.Score,
		},
		Tuning:        s.Tuning,
		TrailCapacity: s.Config.TrailCapacity,
	}
	if s.headless {
		opts.Vertices = deform.NewSliceBuffer(tire.ProfileVertices(spec, 0))
	} else {
		renderer := components.NewModelRendererFromMesh(tire.GenerateMesh(spec), spec.Color)
		obj.AddComponent(renderer)
		opts.Vertices = deform.NewMeshBuffer(renderer.FirstMesh())
		opts.Mesh = renderer
	}

	b, err := tire.Spawn(s.World.Physics, obj, opts)
	if err != nil {
		if opts.Mesh != nil {
			opts.Mesh.Release()
		}
		return nil, err
	}
	b.OnDestroyed.AddListener(func(reason tire.DestroyReason) {
		s.onTireDestroyed(b, reason)
	})

	obj.Start()
	s.World.Scene.AddGameObject(obj)
	s.tires = append(s.tires, b)
	s.Current = b
	s.Camera.Snap(pos, s.Aim)
	return b, nil
}

func (s *Session) onTireDestroyed(b *tire.RollingBody, reason tire.DestroyReason) {
	obj := b.GetGameObject()
	if reason == tire.DestroyFell {
		s.fell++
		log.Printf("Game: %s fell off the course after %.1fs", obj.Name, s.World.Physics.Time()-b.LaunchTime())
	}
	for i, t := range s.tires {
		if t == b {
			s.tires = append(s.tires[:i], s.tires[i+1:]...)
			break
		}
	}
	s.World.Scene.RemoveGameObject(obj)
	if s.Current == b {
		s.Current = nil
	}
}

// LaunchVelocity is the launch speed along the current aim.
func (s *Session) LaunchVelocity() rl.Vector3 {
	return rl.Vector3{
		X: float32(math.Cos(float64(s.Aim))) * s.Config.LaunchSpeed,
		Z: float32(math.Sin(float64(s.Aim))) * s.Config.LaunchSpeed,
	}
}

// Launch sends the current tire off, spawning one first when there is no
// idle tire waiting on the pad.
func (s *Session) Launch() error {
	if s.Current == nil || s.Current.State() != tire.Idle {
		if _, err := s.SpawnTire(); err != nil {
			return err
		}
	}
	return s.Current.Launch(s.LaunchVelocity())
}

// Reset destroys every tire and puts the course back.
func (s *Session) Reset() {
	for _, b := range append([]*tire.RollingBody(nil), s.tires...) {
		b.Destroy()
	}
	s.Current = nil
	s.World.ResetObstacles()
	s.Score.Reset()
	s.Particles.Clear()
	log.Printf("Game: reset (%d tires lost so far)", s.fell)
}

// NextType switches the tire type used by the next spawn.
func (s *Session) NextType() {
	types := tire.Types()
	s.TireType = types[(int(s.TireType)+1)%len(types)]
}

func (s *Session) Tires() []*tire.RollingBody { return s.tires }
func (s *Session) Fell() int                  { return s.fell }
func (s *Session) Spawned() int               { return s.spawned }

// Update advances one frame: input and launch, the physics step (contact
// callbacks fire inside it), component updates, effects, then camera sync.
func (s *Session) Update(deltaTime float32, in Input) error {
	if deltaTime > MaxFrameTime {
		deltaTime = MaxFrameTime
	}

	if in.Aim != 0 {
		s.Aim = clampAim(s.Aim + in.Aim*deltaTime)
	}
	if in.NextType {
		s.NextType()
	}
	if in.Reset {
		s.Reset()
	}
	var launchErr error
	if in.Launch {
		launchErr = s.Launch()
	}

	s.World.Step(deltaTime)
	s.World.Update(deltaTime)

	if s.Current != nil && s.Current.State() == tire.Launched {
		s.Score.AddSpeedBonus(s.Current.Speed(), deltaTime)
	}

	s.Particles.Update(deltaTime)
	s.Shake.Update(deltaTime)
	s.Overlay.Update(deltaTime)

	if s.Current != nil {
		g := s.Current.GetGameObject()
		s.Camera.Follow(g.Transform.Position, s.Current.Rigidbody().Velocity, deltaTime)
	}
	s.Camera.SetShake(s.Shake.Offset())
	return launchErr
}

func clampAim(a float32) float32 {
	if a > MaxAim {
		return MaxAim
	}
	if a < -MaxAim {
		return -MaxAim
	}
	return a
}

// Close releases every native resource.
func (s *Session) Close() {
	for _, b := range append([]*tire.RollingBody(nil), s.tires...) {
		b.Destroy()
	}
	s.World.Unload()
}
