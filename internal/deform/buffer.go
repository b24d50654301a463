package deform

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// ErrNoVertexData is returned by buffers that have nothing to deform.
var ErrNoVertexData = errors.New("deform: no vertex data")

// VertexBuffer is the mesh surface the engine mutates. Positions are in the
// object's local frame. Commit pushes the full position set back to the
// renderer.
type VertexBuffer interface {
	Positions() ([]rl.Vector3, error)
	Commit(positions []rl.Vector3) error
}

// SliceBuffer keeps vertices in memory. Used headless and in tests.
type SliceBuffer struct {
	Vertices []rl.Vector3
	Commits  int
}

func NewSliceBuffer(vertices []rl.Vector3) *SliceBuffer {
	return &SliceBuffer{Vertices: append([]rl.Vector3(nil), vertices...)}
}

func (b *SliceBuffer) Positions() ([]rl.Vector3, error) {
	if len(b.Vertices) == 0 {
		return nil, ErrNoVertexData
	}
	return append([]rl.Vector3(nil), b.Vertices...), nil
}

func (b *SliceBuffer) Commit(positions []rl.Vector3) error {
	if len(positions) != len(b.Vertices) {
		return errors.Errorf("deform: commit %d vertices into buffer of %d", len(positions), len(b.Vertices))
	}
	copy(b.Vertices, positions)
	b.Commits++
	return nil
}
