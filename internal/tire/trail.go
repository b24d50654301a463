package tire

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

const DefaultTrailCapacity = 48

var (
	trailCool = colorful.Color{R: 0.25, G: 0.55, B: 0.95}
	trailHot  = colorful.Color{R: 1.0, G: 0.35, B: 0.1}
)

// TrailHotSpeed is the speed at which the trail reaches its hottest color.
const TrailHotSpeed = 20.0

type TrailPoint struct {
	Position rl.Vector3
	Color    rl.Color
}

// Trail is a fixed-capacity FIFO of recent positions, oldest first.
type Trail struct {
	points []TrailPoint
	head   int // index of the oldest point once full
	full   bool
}

func NewTrail(capacity int) *Trail {
	if capacity <= 0 {
		capacity = DefaultTrailCapacity
	}
	return &Trail{points: make([]TrailPoint, 0, capacity)}
}

// Record appends a point colored by speed, evicting the oldest when full.
func (t *Trail) Record(pos rl.Vector3, speed float32) {
	p := TrailPoint{Position: pos, Color: SpeedColor(speed)}
	if !t.full {
		t.points = append(t.points, p)
		t.full = len(t.points) == cap(t.points)
		return
	}
	t.points[t.head] = p
	t.head = (t.head + 1) % len(t.points)
}

func (t *Trail) Len() int {
	return len(t.points)
}

func (t *Trail) Capacity() int {
	return cap(t.points)
}

// Points returns a copy, oldest first.
func (t *Trail) Points() []TrailPoint {
	out := make([]TrailPoint, 0, len(t.points))
	out = append(out, t.points[t.head:]...)
	out = append(out, t.points[:t.head]...)
	return out
}

func (t *Trail) Clear() {
	t.points = t.points[:0]
	t.head = 0
	t.full = false
}

// SpeedColor blends from cool to hot in HCL space as speed rises.
func SpeedColor(speed float32) rl.Color {
	f := float64(speed) / TrailHotSpeed
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	r, g, b := trailCool.BlendHcl(trailHot, f).Clamped().RGB255()
	return rl.NewColor(r, g, b, 255)
}
