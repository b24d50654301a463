package deform

import (
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// MeshBuffer reads and writes the CPU-side vertex array of a raylib mesh and
// re-uploads it when the mesh lives on the GPU.
type MeshBuffer struct {
	mesh *rl.Mesh
}

func NewMeshBuffer(mesh *rl.Mesh) *MeshBuffer {
	return &MeshBuffer{mesh: mesh}
}

func (b *MeshBuffer) floats() []float32 {
	if b.mesh == nil || b.mesh.Vertices == nil || b.mesh.VertexCount == 0 {
		return nil
	}
	return unsafe.Slice(b.mesh.Vertices, b.mesh.VertexCount*3)
}

func (b *MeshBuffer) Positions() ([]rl.Vector3, error) {
	data := b.floats()
	if data == nil {
		return nil, ErrNoVertexData
	}
	out := make([]rl.Vector3, len(data)/3)
	for i := range out {
		out[i] = rl.Vector3{X: data[i*3], Y: data[i*3+1], Z: data[i*3+2]}
	}
	return out, nil
}

func (b *MeshBuffer) Commit(positions []rl.Vector3) error {
	data := b.floats()
	if data == nil {
		return ErrNoVertexData
	}
	if len(positions)*3 != len(data) {
		return errors.Errorf("deform: commit %d vertices into mesh of %d", len(positions), len(data)/3)
	}
	for i, p := range positions {
		data[i*3], data[i*3+1], data[i*3+2] = p.X, p.Y, p.Z
	}
	// Meshes that were never uploaded (headless) only keep the CPU copy.
	if b.mesh.VaoID == 0 {
		return nil
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(b.mesh.Vertices)), len(data)*4)
	rl.UpdateMeshBuffer(*b.mesh, 0, raw, 0)
	return nil
}
