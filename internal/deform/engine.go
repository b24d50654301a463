// Package deform dents a mesh at a contact patch and springs it back.
package deform

import (
	"log"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// Vertices farther than FalloffFactor*radius from the contact are untouched.
	FalloffFactor = 1.5
	// RestoreDuration is the time from a fresh dent back to the original shape.
	RestoreDuration = 0.3
)

// Engine owns the deformation state of one mesh. When no vertex data can be
// captured it stays disabled and every call is a no-op.
type Engine struct {
	buf      VertexBuffer
	radius   float32
	original []rl.Vector3
	deformed []rl.Vector3
	current  []rl.Vector3
	progress float32 // 0 = fully deformed, 1 = restored
	disabled bool
}

// New captures the original vertex positions from buf. radius is the body
// radius used to size the contact falloff.
func New(buf VertexBuffer, radius float32) *Engine {
	e := &Engine{buf: buf, radius: radius, progress: 1}
	if buf == nil {
		e.disable(ErrNoVertexData)
		return e
	}
	positions, err := buf.Positions()
	if err != nil || len(positions) == 0 {
		if err == nil {
			err = ErrNoVertexData
		}
		e.disable(err)
		return e
	}
	e.original = positions
	e.deformed = append([]rl.Vector3(nil), positions...)
	e.current = append([]rl.Vector3(nil), positions...)
	return e
}

func (e *Engine) disable(err error) {
	if e.disabled {
		return
	}
	e.disabled = true
	log.Printf("Deform: disabled, falling back to scale effects: %v", err)
}

// Enabled reports whether vertex deformation is active.
func (e *Engine) Enabled() bool {
	return !e.disabled
}

// Progress returns restoration progress in [0,1].
func (e *Engine) Progress() float32 {
	return e.progress
}

// Vertices returns the current vertex positions. The slice is shared.
func (e *Engine) Vertices() []rl.Vector3 {
	return e.current
}

// Original returns the captured rest positions. The slice is shared.
func (e *Engine) Original() []rl.Vector3 {
	return e.original
}

// ApplyContactPatch pushes vertices near local toward the mesh center with a
// Gaussian falloff, scaled by depth, and restarts restoration.
func (e *Engine) ApplyContactPatch(local rl.Vector3, depth float32) {
	if e.disabled || depth <= 0 {
		return
	}
	falloff := e.radius * FalloffFactor
	sigma := falloff / 2
	twoSigmaSq := 2 * sigma * sigma

	for i, v := range e.current {
		d := rl.Vector3Distance(v, local)
		if d > falloff {
			continue
		}
		weight := float32(math.Exp(float64(-d * d / twoSigmaSq)))
		push := depth * weight
		length := rl.Vector3Length(v)
		if length <= push {
			// Never pull a vertex through the center
			continue
		}
		e.current[i] = rl.Vector3Scale(v, (length-push)/length)
	}

	copy(e.deformed, e.current)
	e.progress = 0
	e.commit()
}

// Restore moves every vertex from the dented snapshot back toward its
// original position. Once progress reaches 1 the exact originals are written
// and the mesh is left alone until the next contact.
func (e *Engine) Restore(deltaTime float32) {
	if e.disabled || e.progress >= 1 || deltaTime <= 0 {
		return
	}
	e.progress += deltaTime / RestoreDuration
	if e.progress >= 1 {
		e.progress = 1
		copy(e.current, e.original)
	} else {
		for i := range e.current {
			e.current[i] = rl.Vector3Lerp(e.deformed[i], e.original[i], e.progress)
		}
	}
	e.commit()
}

func (e *Engine) commit() {
	if err := e.buf.Commit(e.current); err != nil {
		e.disable(err)
	}
}
