package deform

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// ring returns n points on a circle of radius r in the XY plane.
func ring(n int, r float32) []rl.Vector3 {
	out := make([]rl.Vector3, n)
	for i := range out {
		a := float64(i) / float64(n) * 2 * math.Pi
		out[i] = rl.Vector3{X: r * float32(math.Cos(a)), Y: r * float32(math.Sin(a))}
	}
	return out
}

type failingBuffer struct {
	positions []rl.Vector3
}

func (f *failingBuffer) Positions() ([]rl.Vector3, error) { return f.positions, nil }
func (f *failingBuffer) Commit([]rl.Vector3) error       { return errors.New("gpu gone") }

func TestApplyContactPatchDentsNearestVertices(t *testing.T) {
	buf := NewSliceBuffer(ring(32, 0.4))
	e := New(buf, 0.4)
	if !e.Enabled() {
		t.Fatal("engine should be enabled with vertex data")
	}

	// Contact at the bottom of the ring
	contact := rl.Vector3{Y: -0.4}
	e.ApplyContactPatch(contact, 0.05)

	if e.Progress() != 0 {
		t.Errorf("Expected progress reset to 0, got %f", e.Progress())
	}
	if buf.Commits != 1 {
		t.Errorf("Expected 1 commit, got %d", buf.Commits)
	}

	bottom := 24 // angle 3/2 pi
	got := rl.Vector3Length(buf.Vertices[bottom])
	if math.Abs(float64(got-0.35)) > 0.001 {
		t.Errorf("vertex at contact should move in by full depth, got radius %f", got)
	}
	top := 8
	if rl.Vector3Length(buf.Vertices[top]) < 0.4-0.02 {
		t.Errorf("far vertex should barely move, got radius %f", rl.Vector3Length(buf.Vertices[top]))
	}
	for i, v := range buf.Vertices {
		if rl.Vector3Length(v) > 0.4+1e-5 {
			t.Errorf("vertex %d moved outward: %v", i, v)
		}
	}
}

func TestRestoreConvergesToOriginal(t *testing.T) {
	original := ring(24, 0.5)
	buf := NewSliceBuffer(original)
	e := New(buf, 0.5)
	e.ApplyContactPatch(rl.Vector3{X: 0.5}, 0.1)

	last := e.Progress()
	elapsed := float32(0)
	for elapsed < RestoreDuration+0.01 {
		e.Restore(1.0 / 60.0)
		elapsed += 1.0 / 60.0
		if e.Progress() < last {
			t.Fatalf("progress went backwards: %f -> %f", last, e.Progress())
		}
		last = e.Progress()
	}

	if e.Progress() != 1 {
		t.Errorf("Expected progress 1, got %f", e.Progress())
	}
	for i := range original {
		if rl.Vector3Distance(buf.Vertices[i], original[i]) > 1e-6 {
			t.Errorf("vertex %d = %v, want %v", i, buf.Vertices[i], original[i])
		}
	}

	// Idle once restored
	commits := buf.Commits
	e.Restore(1.0 / 60.0)
	if buf.Commits != commits {
		t.Error("restored engine should not touch the mesh")
	}
}

func TestRestoreIsLinear(t *testing.T) {
	buf := NewSliceBuffer(ring(8, 1))
	e := New(buf, 1)
	e.ApplyContactPatch(rl.Vector3{X: 1}, 0.2)
	dented := buf.Vertices[0]

	e.Restore(RestoreDuration / 2)
	if math.Abs(float64(e.Progress()-0.5)) > 1e-5 {
		t.Errorf("Expected progress 0.5, got %f", e.Progress())
	}
	want := rl.Vector3Lerp(dented, rl.Vector3{X: 1}, 0.5)
	if rl.Vector3Distance(buf.Vertices[0], want) > 1e-5 {
		t.Errorf("halfway vertex = %v, want %v", buf.Vertices[0], want)
	}
}

func TestNewContactResetsProgress(t *testing.T) {
	e := New(NewSliceBuffer(ring(8, 1)), 1)
	e.ApplyContactPatch(rl.Vector3{X: 1}, 0.1)
	e.Restore(0.2)
	if e.Progress() == 0 {
		t.Fatal("progress should advance")
	}
	e.ApplyContactPatch(rl.Vector3{X: -1}, 0.1)
	if e.Progress() != 0 {
		t.Errorf("new contact should reset progress, got %f", e.Progress())
	}
}

func TestMissingVertexDataDisables(t *testing.T) {
	tests := []struct {
		name string
		buf  VertexBuffer
	}{
		{"nil buffer", nil},
		{"empty buffer", NewSliceBuffer(nil)},
		{"empty mesh", NewMeshBuffer(&rl.Mesh{})},
		{"nil mesh", NewMeshBuffer(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.buf, 0.4)
			if e.Enabled() {
				t.Fatal("engine should be disabled")
			}
			// No-ops, must not panic
			e.ApplyContactPatch(rl.Vector3{X: 0.4}, 0.1)
			e.Restore(0.1)
			if e.Progress() != 1 {
				t.Errorf("disabled engine should report restored, got %f", e.Progress())
			}
		})
	}
}

func TestCommitFailureDisables(t *testing.T) {
	e := New(&failingBuffer{positions: ring(8, 1)}, 1)
	if !e.Enabled() {
		t.Fatal("engine should start enabled")
	}
	e.ApplyContactPatch(rl.Vector3{X: 1}, 0.1)
	if e.Enabled() {
		t.Error("commit failure should disable the engine")
	}
	e.Restore(0.1)
}

func TestMeshBufferRoundTrip(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	mesh := rl.Mesh{VertexCount: 2, Vertices: &data[0]}
	buf := NewMeshBuffer(&mesh)

	got, err := buf.Positions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != (rl.Vector3{X: 4, Y: 5, Z: 6}) {
		t.Fatalf("unexpected positions %v", got)
	}

	got[0] = rl.Vector3{X: 9, Y: 9, Z: 9}
	if err := buf.Commit(got); err != nil {
		t.Fatal(err)
	}
	if data[0] != 9 || data[5] != 6 {
		t.Errorf("commit should write through to the mesh, got %v", data)
	}
	if err := buf.Commit(got[:1]); err == nil {
		t.Error("commit with wrong vertex count should fail")
	}
}
