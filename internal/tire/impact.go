package tire

import (
	"log"

	"tireroll/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Impact response tuning
const (
	DebounceInterval  = 0.15 // seconds between accepted impacts
	MinImpactSpeed    = 1.5
	IntensitySpeed    = 20.0 // speed that maps to intensity 1
	DeformDepthFactor = 0.25 // dent depth = intensity * radius * factor
	SquashAmount      = 0.3
	MovingSpeed       = 0.5 // below this the squash follows the contact normal
	WobbleFactor      = 0.12
	HardImpactSpeed   = 8.0
	ShakeMin          = 0.1
	ShakeMax          = 0.6
	ShakeSpeedRange   = 12.0 // excess speed over HardImpactSpeed for ShakeMax
	ShakeDuration     = 0.25
	FlashDuration     = 0.12
)

var hardImpactFlash = rl.NewColor(255, 240, 220, 90)

// ImpactResponder turns contact events for one tire into effects. Events
// arrive synchronously from the physics step.
type ImpactResponder struct {
	body  *RollingBody
	sinks Sinks
	clock func() float64

	lastImpact float64
	hasImpact  bool
	accepted   int
}

// NewImpactResponder builds a responder. clock returns the current time in
// seconds and is usually the physics world's simulated time.
func NewImpactResponder(body *RollingBody, sinks Sinks, clock func() float64) *ImpactResponder {
	return &ImpactResponder{body: body, sinks: sinks, clock: clock}
}

// Accepted is the number of contact events that passed debounce and threshold.
func (r *ImpactResponder) Accepted() int {
	return r.accepted
}

// Intensity maps an impact speed to [0,1].
func Intensity(speed float32) float32 {
	return clamp01(speed / IntensitySpeed)
}

// ShakeIntensity maps a hard-impact speed onto [ShakeMin, ShakeMax].
func ShakeIntensity(speed float32) float32 {
	t := clamp01((speed - HardImpactSpeed) / ShakeSpeedRange)
	return ShakeMin + (ShakeMax-ShakeMin)*t
}

func (r *ImpactResponder) HandleContact(ev physics.ContactEvent) {
	if r.body.state == Destroyed {
		return
	}
	now := r.clock()
	if r.hasImpact && now-r.lastImpact < DebounceInterval {
		return
	}
	if ev.Speed < MinImpactSpeed {
		return
	}
	r.lastImpact = now
	r.hasImpact = true
	r.accepted++

	impact := Impact{
		Body:      r.body,
		Point:     ev.Point,
		Normal:    ev.Normal,
		Speed:     ev.Speed,
		Intensity: Intensity(ev.Speed),
		Ground:    ev.OtherStatic,
		Time:      now,
	}
	r.dispatch(impact)
}

func (r *ImpactResponder) dispatch(im Impact) {
	b := r.body
	obj := b.GetGameObject()

	r.safely("deformation", func() {
		local := obj.Transform.ToLocal(im.Point)
		b.Deform.ApplyContactPatch(local, im.Intensity*b.Spec.Radius*DeformDepthFactor)
	})

	r.safely("squash", func() {
		axis := im.Normal
		if v := b.rb.Velocity; rl.Vector3Length(v) >= MovingSpeed {
			axis = v
		}
		// Scale is applied in the body's frame
		axis = rl.Vector3RotateByQuaternion(axis, rl.QuaternionInvert(obj.Transform.Rotation))
		b.Motion.SetTarget(SquashTarget(axis, im.Intensity*SquashAmount))
	})

	r.safely("wobble", func() {
		b.Motion.Trigger(im.Intensity * WobbleFactor)
	})

	if r.sinks.Particles != nil {
		r.safely("particles", func() {
			r.sinks.Particles.CreateImpactParticles(im.Point, im.Speed, im.Ground)
		})
	}

	if r.sinks.Listener != nil {
		r.safely("impact listener", func() {
			r.sinks.Listener.OnImpact(im)
		})
	}

	if im.Speed > HardImpactSpeed {
		if r.sinks.Screen != nil {
			r.safely("shake", func() {
				r.sinks.Screen.Shake(ShakeIntensity(im.Speed), ShakeDuration)
			})
		}
		if r.sinks.Overlay != nil {
			r.safely("flash", func() {
				r.sinks.Overlay.Flash(rl.Fade(hardImpactFlash, im.Intensity), FlashDuration)
			})
		}
	}
}

// safely runs one effect; a panicking collaborator is logged and skipped so
// the physics step always completes.
func (r *ImpactResponder) safely(name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Tire: %s effect failed: %v", name, rec)
		}
	}()
	fn()
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
