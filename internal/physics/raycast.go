package physics

import (
	"math"

	"tireroll/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	GameObject *engine.GameObject
	Handle     BodyHandle
	Point      rl.Vector3
	Normal     rl.Vector3
	Distance   float32
}

// Raycast returns the closest body hit along the ray, ignoring the bodies in
// skip. Used for spawn placement and drop shadows.
func (p *PhysicsWorld) Raycast(origin, direction rl.Vector3, maxDistance float32, skip ...BodyHandle) (RaycastHit, bool) {
	if rl.Vector3Length(direction) < 0.0001 {
		return RaycastHit{}, false
	}
	direction = rl.Vector3Normalize(direction)
	closest := RaycastHit{Distance: maxDistance}
	hit := false

	check := func(b *body) {
		for _, h := range skip {
			if h == b.handle {
				return
			}
		}
		var info RaycastHit
		var ok bool
		if b.sphere != nil {
			info, ok = raycastSphere(origin, direction, b.sphere.GetCenter(), b.sphere.Radius, maxDistance)
		} else {
			info, ok = raycastOBB(origin, direction, b.obb(), maxDistance)
		}
		if ok && info.Distance < closest.Distance {
			closest = info
			closest.GameObject = b.obj
			closest.Handle = b.handle
			hit = true
		}
	}

	for _, b := range p.statics {
		check(b)
	}
	for _, b := range p.dynamics {
		check(b)
	}
	return closest, hit
}

// raycastOBB runs the slab test in the box's local frame.
func raycastOBB(origin, direction rl.Vector3, box OBB, maxDistance float32) (RaycastHit, bool) {
	rel := rl.Vector3Subtract(origin, box.Center)
	half := [3]float32{box.HalfSize.X, box.HalfSize.Y, box.HalfSize.Z}

	tmin, tmax := float32(-math.MaxFloat32), float32(math.MaxFloat32)
	hitAxis, hitSign := -1, float32(0)

	for i := 0; i < 3; i++ {
		o := rl.Vector3DotProduct(rel, box.Axes[i])
		d := rl.Vector3DotProduct(direction, box.Axes[i])
		if absf(d) < 1e-6 {
			if o < -half[i] || o > half[i] {
				return RaycastHit{}, false
			}
			continue
		}
		t1 := (-half[i] - o) / d
		t2 := (half[i] - o) / d
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			hitAxis, hitSign = i, sign
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return RaycastHit{}, false
		}
	}

	if tmax < 0 || hitAxis < 0 {
		return RaycastHit{}, false
	}
	t := tmin
	if t < 0 {
		// Origin inside the box
		t = 0
	}
	if t > maxDistance {
		return RaycastHit{}, false
	}

	return RaycastHit{
		Point:    rl.Vector3Add(origin, rl.Vector3Scale(direction, t)),
		Normal:   rl.Vector3Scale(box.Axes[hitAxis], hitSign),
		Distance: t,
	}, true
}

func raycastSphere(origin, direction, center rl.Vector3, radius, maxDistance float32) (RaycastHit, bool) {
	oc := rl.Vector3Subtract(origin, center)
	b := 2.0 * rl.Vector3DotProduct(oc, direction)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*c
	if discriminant < 0 {
		return RaycastHit{}, false
	}

	sq := float32(math.Sqrt(float64(discriminant)))
	t := (-b - sq) / 2
	if t < 0 {
		t = (-b + sq) / 2
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(point, center))

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}
