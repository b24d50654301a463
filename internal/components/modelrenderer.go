package components

import (
	"tireroll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ModelRenderer draws a raylib model with the owning object's transform.
// The model owns its meshes; Release unloads them.
type ModelRenderer struct {
	engine.BaseComponent
	Model    rl.Model
	Color    rl.Color
	Wires    bool
	released bool
}

func NewModelRenderer(model rl.Model, color rl.Color) *ModelRenderer {
	return &ModelRenderer{
		Model: model,
		Color: color,
	}
}

// NewModelRendererFromMesh uploads nothing; the mesh must already be on the GPU
// (raylib's GenMesh* helpers do that).
func NewModelRendererFromMesh(mesh rl.Mesh, color rl.Color) *ModelRenderer {
	return NewModelRenderer(rl.LoadModelFromMesh(mesh), color)
}

func (m *ModelRenderer) Draw() {
	g := m.GetGameObject()
	if g == nil || !g.Active || m.released {
		return
	}

	t := engine.Transform{
		Position: g.WorldPosition(),
		Rotation: g.WorldRotation(),
		Scale:    g.WorldScale(),
	}
	m.Model.Transform = t.Matrix()

	rl.DrawModel(m.Model, rl.Vector3Zero(), 1.0, m.Color)
	if m.Wires {
		rl.DrawModelWires(m.Model, rl.Vector3Zero(), 1.0, rl.Fade(rl.Black, 0.35))
	}
}

// FirstMesh returns a pointer to the model's first mesh, or nil.
func (m *ModelRenderer) FirstMesh() *rl.Mesh {
	if m.released || m.Model.MeshCount == 0 || m.Model.Meshes == nil {
		return nil
	}
	return m.Model.Meshes
}

func (m *ModelRenderer) Release() {
	if m.released {
		return
	}
	m.released = true
	rl.UnloadModel(m.Model)
}
