package components

import (
	"tireroll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BoxCollider is an oriented box: terrain slabs, ramps and crate obstacles.
type BoxCollider struct {
	engine.BaseComponent
	Size   rl.Vector3
	Offset rl.Vector3
}

func NewBoxCollider(size rl.Vector3) *BoxCollider {
	return &BoxCollider{
		Size:   size,
		Offset: rl.Vector3{},
	}
}

// GetCenter returns the world-space center, with Offset applied in the
// object's rotated frame.
func (b *BoxCollider) GetCenter() rl.Vector3 {
	g := b.GetGameObject()
	offset := rl.Vector3RotateByQuaternion(b.Offset, g.WorldRotation())
	return rl.Vector3Add(g.WorldPosition(), offset)
}

// GetWorldSize returns Size scaled by the object's world scale.
func (b *BoxCollider) GetWorldSize() rl.Vector3 {
	return rl.Vector3Multiply(b.Size, b.GetGameObject().WorldScale())
}
