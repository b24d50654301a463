package tire

import (
	"math"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const meshSlices = 24

// GenerateMesh builds the tire mesh on the GPU: a cylinder centered on the
// origin with its axle along local Z. Needs a window (GL context).
func GenerateMesh(spec Spec) rl.Mesh {
	mesh := rl.GenMeshCylinder(spec.Radius, spec.Width, meshSlices)
	n := int(mesh.VertexCount) * 3
	if mesh.Vertices == nil || n == 0 {
		return mesh
	}

	// Cylinder comes out along +Y from y=0: center it and turn Y into Z.
	vertices := unsafe.Slice(mesh.Vertices, n)
	for i := 0; i < n; i += 3 {
		y := vertices[i+1] - spec.Width/2
		vertices[i+1], vertices[i+2] = -vertices[i+2], y
	}
	if mesh.Normals != nil {
		normals := unsafe.Slice(mesh.Normals, n)
		for i := 0; i < n; i += 3 {
			normals[i+1], normals[i+2] = -normals[i+2], normals[i+1]
		}
		if mesh.VaoID != 0 {
			rl.UpdateMeshBuffer(mesh, 2, floatBytes(normals), 0)
		}
	}
	if mesh.VaoID != 0 {
		rl.UpdateMeshBuffer(mesh, 0, floatBytes(vertices), 0)
	}
	return mesh
}

func floatBytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4)
}

// ProfileVertices returns the same rim geometry as GenerateMesh without a GL
// context: two rings of slices points at ±width/2 plus the two cap centers.
// Headless runs deform this instead of a GPU mesh.
func ProfileVertices(spec Spec, slices int) []rl.Vector3 {
	if slices < 3 {
		slices = meshSlices
	}
	half := spec.Width / 2
	out := make([]rl.Vector3, 0, slices*2+2)
	for _, z := range []float32{-half, half} {
		for i := 0; i < slices; i++ {
			a := float64(i) / float64(slices) * 2 * math.Pi
			out = append(out, rl.Vector3{
				X: spec.Radius * float32(math.Cos(a)),
				Y: spec.Radius * float32(math.Sin(a)),
				Z: z,
			})
		}
	}
	out = append(out, rl.Vector3{Z: -half}, rl.Vector3{Z: half})
	return out
}
