package physics

import (
	"log"
	"math"

	"tireroll/internal/components"
	"tireroll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// Spatial grid cell size - objects within same or neighboring cells are checked
const CellSize = 5.0

// DefaultGravity is stronger than earth gravity; arcade courses feel floaty otherwise.
var DefaultGravity = rl.Vector3{X: 0, Y: -20.0, Z: 0}

// Cell key for spatial hashing
type CellKey struct {
	X, Y, Z int
}

func posToCell(pos rl.Vector3) CellKey {
	return CellKey{
		X: int(math.Floor(float64(pos.X / CellSize))),
		Y: int(math.Floor(float64(pos.Y / CellSize))),
		Z: int(math.Floor(float64(pos.Z / CellSize))),
	}
}

// BodyHandle identifies a registered body. Zero is never issued.
type BodyHandle uint32

// ContactEvent describes one approaching contact seen from the subscribed body.
type ContactEvent struct {
	Body        BodyHandle
	Other       *engine.GameObject
	OtherHandle BodyHandle
	OtherStatic bool       // other body has zero mass (terrain, walls)
	Point       rl.Vector3 // world space
	Normal      rl.Vector3 // unit, from Other toward Body
	Speed       float32    // relative approach speed along Normal, >= 0
}

// ContactHandler receives contact events synchronously at the end of Step.
type ContactHandler func(ContactEvent)

type body struct {
	handle  BodyHandle
	obj     *engine.GameObject
	rb      *components.Rigidbody
	shape   Shape
	sphere  *components.SphereCollider
	box     *components.BoxCollider
	invI    float32
	bounds  AABB // cached for statics
	handler ContactHandler
}

func (b *body) center() rl.Vector3 {
	if b.sphere != nil {
		return b.sphere.GetCenter()
	}
	return b.box.GetCenter()
}

func (b *body) obb() OBB {
	return NewOBBFromBox(b.box.GetCenter(), b.box.Size, b.obj.WorldRotation(), b.obj.WorldScale())
}

func (b *body) computeBounds() AABB {
	if b.sphere != nil {
		return NewAABBFromSphere(b.sphere.GetCenter(), b.sphere.Radius)
	}
	return b.obb().Bounds()
}

// PhysicsWorld owns every rigid body of a session. It is stepped once per
// frame from a single goroutine; nothing here is safe for concurrent use.
type PhysicsWorld struct {
	Gravity   rl.Vector3
	Materials *MaterialRegistry

	terrain    components.MaterialID
	bodies     map[BodyHandle]*body
	dynamics   []*body
	statics    []*body
	nextHandle BodyHandle
	grid       map[CellKey][]*body

	events          []ContactEvent
	lastContacts    int
	time            float64
	lastLoggedCount int
}

func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		Gravity:   DefaultGravity,
		Materials: NewMaterialRegistry(),
		bodies:    make(map[BodyHandle]*body),
		dynamics:  make([]*body, 0),
		statics:   make([]*body, 0),
		grid:      make(map[CellKey][]*body),
	}
}

// RegisterMaterial returns the material ID for name, creating it on first use.
func (p *PhysicsWorld) RegisterMaterial(name string) (components.MaterialID, error) {
	return p.Materials.Register(name)
}

// RegisterContactPair sets the friction/restitution used when a and b touch.
func (p *PhysicsWorld) RegisterContactPair(a, b components.MaterialID, cm ContactMaterial) error {
	return p.Materials.RegisterPair(a, b, cm)
}

// SetFallbackPair sets the coefficients for pairs without an explicit entry.
func (p *PhysicsWorld) SetFallbackPair(cm ContactMaterial) error {
	return p.Materials.SetFallback(cm)
}

// SetTerrainMaterial marks the material every dynamic body must be paired with.
func (p *PhysicsWorld) SetTerrainMaterial(id components.MaterialID) error {
	if !p.Materials.known(id) {
		return errors.Wrapf(ErrUnknownMaterial, "terrain material %d", id)
	}
	p.terrain = id
	return nil
}

func (p *PhysicsWorld) TerrainMaterial() components.MaterialID {
	return p.terrain
}

// RequirePairs fails with ErrMissingContactPair unless every material in mats
// has an explicit pair against the terrain material.
func (p *PhysicsWorld) RequirePairs(mats ...components.MaterialID) error {
	if p.terrain == 0 {
		return errors.Wrap(ErrUnknownMaterial, "terrain material not set")
	}
	return p.Materials.Require(p.terrain, mats...)
}

// AddBody attaches a Rigidbody and a collider for shape to obj and registers
// it. Mass 0 makes a static body. A dynamic body whose material has no pair
// against the terrain material is rejected.
func (p *PhysicsWorld) AddBody(obj *engine.GameObject, shape Shape, mass float32, material components.MaterialID) (BodyHandle, error) {
	if err := shape.validate(); err != nil {
		return 0, errors.Wrapf(err, "add body %q", obj.Name)
	}
	if !p.Materials.known(material) {
		return 0, errors.Wrapf(ErrUnknownMaterial, "add body %q: material %d", obj.Name, material)
	}
	if mass > 0 && p.terrain != 0 && !p.Materials.HasPair(material, p.terrain) {
		return 0, errors.Wrapf(ErrMissingContactPair, "add body %q: %q vs %q",
			obj.Name, p.Materials.Name(material), p.Materials.Name(p.terrain))
	}

	rb := components.NewRigidbody(mass)
	rb.Material = material
	obj.AddComponent(rb)
	sphere, box := shape.attach(obj)

	p.nextHandle++
	b := &body{
		handle: p.nextHandle,
		obj:    obj,
		rb:     rb,
		shape:  shape,
		sphere: sphere,
		box:    box,
		invI:   shape.inverseInertia(mass),
	}
	p.bodies[b.handle] = b

	if rb.IsStatic() {
		b.bounds = b.computeBounds()
		p.statics = append(p.statics, b)
	} else {
		p.dynamics = append(p.dynamics, b)
		p.logBodyCount()
	}
	return b.handle, nil
}

func (p *PhysicsWorld) logBodyCount() {
	n := len(p.dynamics)
	if n > 0 && n%50 == 0 && n != p.lastLoggedCount {
		p.lastLoggedCount = n
		log.Printf("Physics: %d dynamic bodies", n)
	}
}

// RemoveBody unregisters the body and drops its contact handler. It is safe
// to call from inside a contact handler. Returns false for unknown handles.
func (p *PhysicsWorld) RemoveBody(h BodyHandle) bool {
	b, ok := p.bodies[h]
	if !ok {
		return false
	}
	b.handler = nil
	delete(p.bodies, h)
	p.dynamics = removeBody(p.dynamics, b)
	p.statics = removeBody(p.statics, b)
	return true
}

func removeBody(list []*body, b *body) []*body {
	for i, other := range list {
		if other == b {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Subscribe registers the single contact handler for a body.
func (p *PhysicsWorld) Subscribe(h BodyHandle, handler ContactHandler) error {
	b, ok := p.bodies[h]
	if !ok {
		return errors.Wrapf(ErrUnknownBody, "subscribe %d", h)
	}
	if b.handler != nil {
		return errors.Wrapf(ErrAlreadySubscribed, "subscribe %q", b.obj.Name)
	}
	b.handler = handler
	return nil
}

// Unsubscribe drops the body's contact handler, if any.
func (p *PhysicsWorld) Unsubscribe(h BodyHandle) {
	if b, ok := p.bodies[h]; ok {
		b.handler = nil
	}
}

// Body returns the object and rigidbody registered under h.
func (p *PhysicsWorld) Body(h BodyHandle) (*engine.GameObject, *components.Rigidbody, bool) {
	b, ok := p.bodies[h]
	if !ok {
		return nil, nil, false
	}
	return b.obj, b.rb, true
}

// BodyCount is the number of registered bodies, static and dynamic.
func (p *PhysicsWorld) BodyCount() int {
	return len(p.bodies)
}

// DynamicBodyCount is the number of registered bodies with mass.
func (p *PhysicsWorld) DynamicBodyCount() int {
	return len(p.dynamics)
}

// ContactPairCount is the number of explicit material pairs registered.
func (p *PhysicsWorld) ContactPairCount() int {
	return p.Materials.PairCount()
}

// LastContactCount is the number of touching body pairs found by the last Step.
func (p *PhysicsWorld) LastContactCount() int {
	return p.lastContacts
}

// Time is the total simulated time in seconds.
func (p *PhysicsWorld) Time() float64 {
	return p.time
}

// Step advances the simulation by deltaTime seconds, then delivers contact
// events to subscribers before returning.
func (p *PhysicsWorld) Step(deltaTime float32) {
	if deltaTime <= 0 {
		return
	}
	p.time += float64(deltaTime)
	p.events = p.events[:0]
	p.lastContacts = 0

	// 1. Integrate forces, velocity and orientation
	for _, b := range p.dynamics {
		p.integrate(b, deltaTime)
	}

	// 2. Dynamic vs dynamic through the spatial grid
	p.rebuildGrid()
	checked := make(map[[2]BodyHandle]bool)
	for _, b := range p.dynamics {
		for _, other := range p.getNeighbors(b) {
			if other == b {
				continue
			}
			key := [2]BodyHandle{b.handle, other.handle}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if checked[key] {
				continue
			}
			checked[key] = true
			if b.rb.IsSleeping && other.rb.IsSleeping {
				continue
			}
			p.collide(b, other)
		}
	}

	// 3. Dynamic vs static, with an AABB reject first
	for _, b := range p.dynamics {
		if b.rb.IsSleeping {
			continue
		}
		bounds := b.computeBounds()
		for _, s := range p.statics {
			if bounds.Intersects(s.bounds) {
				p.collide(b, s)
			}
		}
	}

	// 4. Sleep check runs after contacts so resting bodies read as still
	for _, b := range p.dynamics {
		b.rb.TrySleep(deltaTime)
	}

	// 5. Dispatch contact events
	p.dispatch()
}

func (p *PhysicsWorld) integrate(b *body, deltaTime float32) {
	rb := b.rb
	if rb.IsSleeping {
		return
	}
	if rb.UseGravity && !rb.IsKinematic {
		rb.Velocity = rl.Vector3Add(rb.Velocity, rl.Vector3Scale(p.Gravity, deltaTime))
	}
	rb.ApplyDamping(deltaTime)

	t := &b.obj.Transform
	t.Position = rl.Vector3Add(t.Position, rl.Vector3Scale(rb.Velocity, deltaTime))
	t.Rotation = integrateRotation(t.Rotation, rb.AngularVelocity, deltaTime)
}

// integrateRotation applies a world-space angular velocity to q.
func integrateRotation(q rl.Quaternion, omega rl.Vector3, deltaTime float32) rl.Quaternion {
	speed := rl.Vector3Length(omega)
	angle := speed * deltaTime
	if angle < 1e-7 {
		return q
	}
	dq := rl.QuaternionFromAxisAngle(rl.Vector3Scale(omega, 1/speed), angle)
	return rl.QuaternionNormalize(rl.QuaternionMultiply(dq, q))
}

func (p *PhysicsWorld) rebuildGrid() {
	for k := range p.grid {
		delete(p.grid, k)
	}
	for _, b := range p.dynamics {
		cell := posToCell(b.obj.Transform.Position)
		p.grid[cell] = append(p.grid[cell], b)
	}
}

// getNeighbors returns all bodies in same cell and 26 neighboring cells
func (p *PhysicsWorld) getNeighbors(b *body) []*body {
	cell := posToCell(b.obj.Transform.Position)
	var neighbors []*body
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				key := CellKey{cell.X + dx, cell.Y + dy, cell.Z + dz}
				neighbors = append(neighbors, p.grid[key]...)
			}
		}
	}
	return neighbors
}

// dispatch delivers queued events. A handler may remove bodies, including
// its own; events for removed bodies are dropped.
func (p *PhysicsWorld) dispatch() {
	for _, ev := range p.events {
		b, ok := p.bodies[ev.Body]
		if !ok || b.handler == nil {
			continue
		}
		b.handler(ev)
	}
	p.events = p.events[:0]
}
