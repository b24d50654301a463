package fx

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const MaxFlashes = 4

type flash struct {
	color     rl.Color
	duration  float32
	remaining float32
}

// Overlay queues full-screen tints. Each flash fades out over its duration.
// When the queue is full the oldest flash is dropped.
type Overlay struct {
	flashes []flash
}

func NewOverlay() *Overlay {
	return &Overlay{flashes: make([]flash, 0, MaxFlashes)}
}

func (o *Overlay) Flash(color rl.Color, duration float32) {
	if duration <= 0 {
		return
	}
	if len(o.flashes) == MaxFlashes {
		o.flashes = append(o.flashes[:0], o.flashes[1:]...)
	}
	o.flashes = append(o.flashes, flash{color: color, duration: duration, remaining: duration})
}

func (o *Overlay) Update(deltaTime float32) {
	live := o.flashes[:0]
	for _, f := range o.flashes {
		f.remaining -= deltaTime
		if f.remaining > 0 {
			live = append(live, f)
		}
	}
	o.flashes = live
}

func (o *Overlay) Pending() int { return len(o.flashes) }

// Current returns the newest flash with its alpha scaled by the time left.
func (o *Overlay) Current() (rl.Color, bool) {
	if len(o.flashes) == 0 {
		return rl.Color{}, false
	}
	f := o.flashes[len(o.flashes)-1]
	c := f.color
	c.A = uint8(float32(c.A)*f.remaining/f.duration + 0.5)
	return c, true
}

func (o *Overlay) Draw(width, height int32) {
	if c, ok := o.Current(); ok {
		rl.DrawRectangle(0, 0, width, height, c)
	}
}
