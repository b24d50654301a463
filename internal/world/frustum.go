package world

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	ClipNear float32 = 0.1
	ClipFar  float32 = 400
)

// Frustum is the six inward-facing planes of a perspective camera, used to
// skip drawing course pieces that are off screen.
type Frustum struct {
	planes [6]Plane // left, right, bottom, top, near, far
}

// Plane is n·p + d = 0 with n pointing into the frustum.
type Plane struct {
	normal   rl.Vector3
	distance float32
}

func planeThrough(normal, point rl.Vector3) Plane {
	n := rl.Vector3Normalize(normal)
	return Plane{normal: n, distance: -rl.Vector3DotProduct(n, point)}
}

// ExtractFrustum builds the view volume from the camera basis. aspect is
// width over height.
func ExtractFrustum(camera rl.Camera3D, aspect float32) Frustum {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(camera.Target, camera.Position))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, camera.Up))
	up := rl.Vector3CrossProduct(right, forward)

	halfV := float64(camera.Fovy) * math.Pi / 360
	halfH := math.Atan(math.Tan(halfV) * float64(aspect))
	sv, cv := float32(math.Sin(halfV)), float32(math.Cos(halfV))
	sh, ch := float32(math.Sin(halfH)), float32(math.Cos(halfH))

	side := func(axis rl.Vector3, s, c float32) rl.Vector3 {
		return rl.Vector3Add(rl.Vector3Scale(forward, s), rl.Vector3Scale(axis, c))
	}

	var f Frustum
	f.planes[0] = planeThrough(side(right, sh, ch), camera.Position)
	f.planes[1] = planeThrough(side(right, sh, -ch), camera.Position)
	f.planes[2] = planeThrough(side(up, sv, cv), camera.Position)
	f.planes[3] = planeThrough(side(up, sv, -cv), camera.Position)
	f.planes[4] = planeThrough(forward, rl.Vector3Add(camera.Position, rl.Vector3Scale(forward, ClipNear)))
	f.planes[5] = planeThrough(rl.Vector3Negate(forward), rl.Vector3Add(camera.Position, rl.Vector3Scale(forward, ClipFar)))
	return f
}

func (p Plane) signedDistance(point rl.Vector3) float32 {
	return rl.Vector3DotProduct(p.normal, point) + p.distance
}

// ContainsSphere reports whether any part of the sphere is inside.
func (f *Frustum) ContainsSphere(center rl.Vector3, radius float32) bool {
	for _, p := range f.planes {
		if p.signedDistance(center) < -radius {
			return false
		}
	}
	return true
}

func (f *Frustum) ContainsPoint(point rl.Vector3) bool {
	return f.ContainsSphere(point, 0)
}
