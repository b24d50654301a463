package components

import (
	"tireroll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SphereCollider is the contact shape for tires and ball obstacles.
// A tire is treated as a sphere of its tread radius for contacts; its width
// only affects the rendered mesh.
type SphereCollider struct {
	engine.BaseComponent
	Radius float32
	Offset rl.Vector3
}

func NewSphereCollider(radius float32) *SphereCollider {
	return &SphereCollider{
		Radius: radius,
		Offset: rl.Vector3{},
	}
}

// GetCenter returns the world-space center of this collider
func (s *SphereCollider) GetCenter() rl.Vector3 {
	g := s.GetGameObject()
	return rl.Vector3Add(g.WorldPosition(), s.Offset)
}
