// Package tire holds the rolling tire: its catalog of physical presets, the
// rolling body component, impact response and the squash/wobble effects.
package tire

import (
	"strings"

	"tireroll/internal/components"
	"tireroll/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

var ErrUnknownType = errors.New("tire: unknown type")

type Type int

const (
	Standard Type = iota
	Heavy
	Light
	Racing
	Monster
	typeCount
)

var typeNames = [typeCount]string{"standard", "heavy", "light", "racing", "monster"}

func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return "unknown"
	}
	return typeNames[t]
}

// ParseType accepts the lowercase names used in config files.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownType, "%q", name)
}

// Types lists every tire type in catalog order.
func Types() []Type {
	out := make([]Type, typeCount)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// Spec is the fixed physical description of a tire type.
type Spec struct {
	Radius         float32
	Width          float32
	Mass           float32
	LinearDamping  float32
	AngularDamping float32
	Friction       float32 // against terrain
	Restitution    float32 // against terrain
	Color          rl.Color
}

var catalog = [typeCount]Spec{
	Standard: {Radius: 0.4, Width: 0.25, Mass: 10, LinearDamping: 0.05, AngularDamping: 0.1, Friction: 0.9, Restitution: 0.3, Color: rl.NewColor(40, 40, 44, 255)},
	Heavy:    {Radius: 0.5, Width: 0.35, Mass: 25, LinearDamping: 0.08, AngularDamping: 0.15, Friction: 1.0, Restitution: 0.15, Color: rl.NewColor(28, 28, 30, 255)},
	Light:    {Radius: 0.3, Width: 0.18, Mass: 5, LinearDamping: 0.03, AngularDamping: 0.08, Friction: 0.8, Restitution: 0.45, Color: rl.NewColor(70, 70, 78, 255)},
	Racing:   {Radius: 0.35, Width: 0.3, Mass: 8, LinearDamping: 0.02, AngularDamping: 0.05, Friction: 1.2, Restitution: 0.25, Color: rl.NewColor(180, 30, 30, 255)},
	Monster:  {Radius: 0.8, Width: 0.6, Mass: 40, LinearDamping: 0.1, AngularDamping: 0.2, Friction: 1.1, Restitution: 0.35, Color: rl.NewColor(50, 60, 40, 255)},
}

// SpecFor returns the catalog entry for t.
func SpecFor(t Type) (Spec, error) {
	if t < 0 || t >= typeCount {
		return Spec{}, errors.Wrapf(ErrUnknownType, "%d", int(t))
	}
	return catalog[t], nil
}

// Validate rejects specs that can't be simulated.
func (s Spec) Validate() error {
	if s.Radius <= 0 {
		return errors.Errorf("tire: radius %.3f must be > 0", s.Radius)
	}
	if s.Width <= 0 {
		return errors.Errorf("tire: width %.3f must be > 0", s.Width)
	}
	if s.Mass <= 0 {
		return errors.Errorf("tire: mass %.3f must be > 0", s.Mass)
	}
	return nil
}

// MaterialName is the physics material registered for a tire type.
func MaterialName(t Type) string {
	return "tire_" + t.String()
}

// Materials maps each tire type to its physics material.
type Materials map[Type]components.MaterialID

// RegisterMaterials creates one material per tire type, pairs each with the
// terrain using the spec's friction/restitution, and verifies the table.
// specs overrides catalog entries; nil uses the catalog.
func RegisterMaterials(world *physics.PhysicsWorld, terrain components.MaterialID, specs map[Type]Spec) (Materials, error) {
	mats := make(Materials, typeCount)
	ids := make([]components.MaterialID, 0, typeCount)
	for _, t := range Types() {
		spec := catalog[t]
		if s, ok := specs[t]; ok {
			spec = s
		}
		id, err := world.RegisterMaterial(MaterialName(t))
		if err != nil {
			return nil, errors.Wrapf(err, "tire %s", t)
		}
		cm := physics.ContactMaterial{Friction: spec.Friction, Restitution: spec.Restitution}
		if err := world.RegisterContactPair(id, terrain, cm); err != nil {
			return nil, errors.Wrapf(err, "tire %s", t)
		}
		mats[t] = id
		ids = append(ids, id)
	}
	if err := world.RequirePairs(ids...); err != nil {
		return nil, err
	}
	return mats, nil
}
