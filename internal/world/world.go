package world

import (
	"log"

	"tireroll/internal/components"
	"tireroll/internal/engine"
	"tireroll/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

const (
	GroundMaterial   = "ground"
	ObstacleMaterial = "obstacle"

	// Tags set on built objects.
	TagTerrain  = "terrain"
	TagObstacle = "obstacle"
)

var (
	obstacleOnGround = physics.ContactMaterial{Friction: 0.6, Restitution: 0.1}
	// Used for every pair without an explicit entry (tire vs obstacle,
	// obstacle vs obstacle).
	genericContact = physics.ContactMaterial{Friction: 0.5, Restitution: 0.3}
)

type obstacle struct {
	obj    *engine.GameObject
	handle physics.BodyHandle
	home   engine.Transform
}

// World owns the scene graph and physics world for one course.
type World struct {
	Scene   *engine.Scene
	Physics *physics.PhysicsWorld
	Level   Level

	Ground   components.MaterialID
	Obstacle components.MaterialID

	// Headless worlds skip mesh creation and drawing; no GL context needed.
	Headless bool

	obstacles []obstacle
	built     bool
}

// New creates an empty world with the ground and obstacle materials
// registered. Callers register their own materials before Build seals the
// table.
func New(headless bool) (*World, error) {
	w := &World{
		Scene:    engine.NewScene("Course"),
		Physics:  physics.NewPhysicsWorld(),
		Headless: headless,
	}

	var err error
	if w.Ground, err = w.Physics.RegisterMaterial(GroundMaterial); err != nil {
		return nil, err
	}
	if w.Obstacle, err = w.Physics.RegisterMaterial(ObstacleMaterial); err != nil {
		return nil, err
	}
	if err := w.Physics.SetTerrainMaterial(w.Ground); err != nil {
		return nil, err
	}
	if err := w.Physics.RegisterContactPair(w.Obstacle, w.Ground, obstacleOnGround); err != nil {
		return nil, err
	}
	if err := w.Physics.SetFallbackPair(genericContact); err != nil {
		return nil, err
	}
	return w, nil
}

// Build seals the material table and adds the level's bodies. It may only be
// called once.
func (w *World) Build(level Level) error {
	if w.built {
		return errors.New("world: already built")
	}
	if err := level.Validate(); err != nil {
		return err
	}
	w.Physics.Materials.Seal()
	w.Level = level

	for _, s := range level.Slabs {
		g := engine.NewGameObject(s.Name)
		g.Tags = []string{TagTerrain}
		g.Transform.Position = vec(s.Position)
		g.Transform.Rotation = s.rotation()

		size := vec(s.Size)
		if _, err := w.Physics.AddBody(g, physics.Box(size), 0, w.Ground); err != nil {
			return errors.Wrapf(err, "slab %s", s.Name)
		}
		if !w.Headless {
			g.AddComponent(components.NewModelRendererFromMesh(rl.GenMeshCube(size.X, size.Y, size.Z), lookupColor(s.Color, rl.Gray)))
		}
		w.Scene.AddGameObject(g)
	}

	for _, o := range level.Obstacles {
		g := engine.NewGameObject(o.Name)
		g.Tags = []string{TagObstacle}
		g.Transform.Position = vec(o.Position)

		shape := physics.Box(vec(o.Size))
		if o.Shape == "sphere" {
			shape = physics.Sphere(o.Radius)
		}
		h, err := w.Physics.AddBody(g, shape, o.Mass, w.Obstacle)
		if err != nil {
			return errors.Wrapf(err, "obstacle %s", o.Name)
		}
		if !w.Headless {
			var mesh rl.Mesh
			if shape.Kind == physics.ShapeSphere {
				mesh = rl.GenMeshSphere(o.Radius, 12, 16)
			} else {
				mesh = rl.GenMeshCube(o.Size[0], o.Size[1], o.Size[2])
			}
			g.AddComponent(components.NewModelRendererFromMesh(mesh, lookupColor(o.Color, rl.Brown)))
		}
		w.Scene.AddGameObject(g)
		w.obstacles = append(w.obstacles, obstacle{obj: g, handle: h, home: g.Transform})
	}

	w.Scene.Start()
	w.built = true
	log.Printf("World: built %q (%d slabs, %d obstacles)", level.Name, len(level.Slabs), len(level.Obstacles))
	return nil
}

// SpawnPoint drops a ray from the level's spawn position and returns where a
// sphere of radius should rest. Bodies in skip are ignored. ok is false when
// nothing is below.
func (w *World) SpawnPoint(radius float32, skip ...physics.BodyHandle) (rl.Vector3, bool) {
	origin := vec(w.Level.Spawn)
	hit, ok := w.Physics.Raycast(origin, rl.Vector3{Y: -1}, 200, skip...)
	if !ok {
		return origin, false
	}
	return rl.Vector3{X: hit.Point.X, Y: hit.Point.Y + radius + 0.01, Z: hit.Point.Z}, true
}

// GroundHeight returns the top of the highest surface under (x, z).
func (w *World) GroundHeight(x, z float32, skip ...physics.BodyHandle) (float32, bool) {
	hit, ok := w.Physics.Raycast(rl.Vector3{X: x, Y: 100, Z: z}, rl.Vector3{Y: -1}, 300, skip...)
	if !ok {
		return 0, false
	}
	return hit.Point.Y, true
}

// ResetObstacles puts every obstacle back where the level placed it.
func (w *World) ResetObstacles() {
	for _, o := range w.obstacles {
		_, rb, ok := w.Physics.Body(o.handle)
		if !ok {
			continue
		}
		o.obj.Transform = o.home
		rb.Velocity = rl.Vector3{}
		rb.AngularVelocity = rl.Vector3{}
		rb.Wake()
	}
}

func (w *World) Obstacles() []*engine.GameObject {
	out := make([]*engine.GameObject, len(w.obstacles))
	for i, o := range w.obstacles {
		out[i] = o.obj
	}
	return out
}

func (w *World) Step(deltaTime float32) {
	w.Physics.Step(deltaTime)
}

func (w *World) Update(deltaTime float32) {
	w.Scene.Update(deltaTime)
}

// boundingRadius is a conservative sphere around an object's collider.
func boundingRadius(g *engine.GameObject) float32 {
	if s := engine.GetComponent[*components.SphereCollider](g); s != nil {
		return s.Radius
	}
	if b := engine.GetComponent[*components.BoxCollider](g); b != nil {
		return rl.Vector3Length(b.GetWorldSize()) / 2
	}
	return 1
}

// Draw renders every visible drawable object. Must be called inside
// BeginMode3D.
func (w *World) Draw(camera rl.Camera3D, aspect float32) int {
	if w.Headless {
		return 0
	}
	frustum := ExtractFrustum(camera, aspect)
	drawn := 0
	for _, g := range w.Scene.GameObjects {
		if !frustum.ContainsSphere(g.WorldPosition(), boundingRadius(g)) {
			continue
		}
		for _, c := range g.Components() {
			if d, ok := c.(engine.Drawable); ok {
				d.Draw()
				drawn++
			}
		}
	}
	return drawn
}

// Unload releases every native resource held by the scene.
func (w *World) Unload() {
	for _, g := range w.Scene.GameObjects {
		for _, c := range g.Components() {
			if r, ok := c.(engine.Releaser); ok {
				r.Release()
			}
		}
	}
}
