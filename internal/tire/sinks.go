package tire

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ParticleSink spawns impact debris. Fire-and-forget.
type ParticleSink interface {
	CreateImpactParticles(point rl.Vector3, speed float32, ground bool)
}

// ScreenSink shakes the view. Implementations ignore a request while one is
// already running.
type ScreenSink interface {
	Shake(intensity float32, duration float32)
}

// OverlaySink flashes a full-screen tint for duration seconds.
type OverlaySink interface {
	Flash(color rl.Color, duration float32)
}

// Impact is what gameplay sees of an accepted contact.
type Impact struct {
	Body      *RollingBody
	Point     rl.Vector3
	Normal    rl.Vector3
	Speed     float32
	Intensity float32
	Ground    bool
	Time      float64 // simulation seconds
}

// ImpactListener receives every accepted impact (scoring, HUD).
type ImpactListener interface {
	OnImpact(Impact)
}

// Sinks bundles the collaborators an ImpactResponder dispatches to. Any of
// them may be nil.
type Sinks struct {
	Particles ParticleSink
	Screen    ScreenSink
	Overlay   OverlaySink
	Listener  ImpactListener
}
