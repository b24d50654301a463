package physics

import (
	"tireroll/internal/components"
	"tireroll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	}
	return "unknown"
}

// Shape describes a collision shape to attach when registering a body.
type Shape struct {
	Kind   ShapeKind
	Radius float32    // ShapeSphere
	Size   rl.Vector3 // ShapeBox, full extents
}

func Sphere(radius float32) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

func Box(size rl.Vector3) Shape {
	return Shape{Kind: ShapeBox, Size: size}
}

func (s Shape) validate() error {
	switch s.Kind {
	case ShapeSphere:
		if s.Radius <= 0 {
			return errors.Wrapf(ErrInvalidShape, "sphere radius %.3f", s.Radius)
		}
	case ShapeBox:
		if s.Size.X <= 0 || s.Size.Y <= 0 || s.Size.Z <= 0 {
			return errors.Wrapf(ErrInvalidShape, "box size %v", s.Size)
		}
	default:
		return errors.Wrapf(ErrInvalidShape, "kind %d", s.Kind)
	}
	return nil
}

// inverseInertia approximates the body as a scalar-inertia solid.
// Spheres use a thick ring (tires), boxes the mean of the three box axes.
func (s Shape) inverseInertia(mass float32) float32 {
	if mass <= 0 {
		return 0
	}
	var inertia float32
	switch s.Kind {
	case ShapeSphere:
		inertia = 0.5 * mass * s.Radius * s.Radius
	case ShapeBox:
		x2, y2, z2 := s.Size.X*s.Size.X, s.Size.Y*s.Size.Y, s.Size.Z*s.Size.Z
		inertia = mass * (2 * (x2 + y2 + z2)) / 36
	}
	if inertia <= 0 {
		return 0
	}
	return 1 / inertia
}

// attach adds the collider component for the shape to obj.
func (s Shape) attach(obj *engine.GameObject) (*components.SphereCollider, *components.BoxCollider) {
	switch s.Kind {
	case ShapeSphere:
		c := components.NewSphereCollider(s.Radius)
		obj.AddComponent(c)
		return c, nil
	case ShapeBox:
		c := components.NewBoxCollider(s.Size)
		obj.AddComponent(c)
		return nil, c
	}
	return nil, nil
}
