package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB from center, full size and a rotation quaternion.
func NewOBB(center, size rl.Vector3, rotation rl.Quaternion) OBB {
	return OBB{
		Center:   center,
		HalfSize: rl.Vector3Scale(size, 0.5),
		Axes: [3]rl.Vector3{
			rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, rotation),
			rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, rotation),
			rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, rotation),
		},
	}
}

// NewOBBFromBox creates an OBB from center, size, rotation, and scale
func NewOBBFromBox(center, size rl.Vector3, rotation rl.Quaternion, scale rl.Vector3) OBB {
	return NewOBB(center, rl.Vector3Multiply(size, scale), rotation)
}

// projectedRadius is the half-length of the box's shadow on axis.
func (o OBB) projectedRadius(axis rl.Vector3) float32 {
	return o.HalfSize.X*absf(rl.Vector3DotProduct(o.Axes[0], axis)) +
		o.HalfSize.Y*absf(rl.Vector3DotProduct(o.Axes[1], axis)) +
		o.HalfSize.Z*absf(rl.Vector3DotProduct(o.Axes[2], axis))
}

// ResolveOBB returns the minimum translation vector to push 'a' out of 'b',
// found by testing the 15 separating axes. Returns zero if there is no overlap.
func (a OBB) ResolveOBB(b OBB) rl.Vector3 {
	t := rl.Vector3Subtract(b.Center, a.Center)
	minPenetration := float32(math.MaxFloat32)
	var mtv rl.Vector3

	separated := false
	testAxis := func(axis rl.Vector3) {
		if separated || rl.Vector3Length(axis) < 0.0001 {
			return
		}
		axis = rl.Vector3Normalize(axis)

		dist := rl.Vector3DotProduct(t, axis)
		penetration := a.projectedRadius(axis) + b.projectedRadius(axis) - absf(dist)
		if penetration <= 0 {
			separated = true
			return
		}
		if penetration < minPenetration {
			minPenetration = penetration
			// Push in the direction away from B
			if dist < 0 {
				mtv = rl.Vector3Scale(axis, penetration)
			} else {
				mtv = rl.Vector3Scale(axis, -penetration)
			}
		}
	}

	for i := 0; i < 3; i++ {
		testAxis(a.Axes[i])
		testAxis(b.Axes[i])
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			testAxis(rl.Vector3CrossProduct(a.Axes[i], b.Axes[j]))
		}
	}

	if separated {
		return rl.Vector3Zero()
	}
	return mtv
}

// ClosestPoint returns the point of the box (surface or interior) nearest to point.
func (o OBB) ClosestPoint(point rl.Vector3) rl.Vector3 {
	local := rl.Vector3Subtract(point, o.Center)
	result := o.Center
	half := [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z}
	for i := 0; i < 3; i++ {
		d := clampf(rl.Vector3DotProduct(local, o.Axes[i]), -half[i], half[i])
		result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[i], d))
	}
	return result
}

// SphereContact tests a sphere against the box. The normal points from the
// box toward the sphere center; point lies on the box surface.
func (o OBB) SphereContact(center rl.Vector3, radius float32) (point, normal rl.Vector3, depth float32, ok bool) {
	closest := o.ClosestPoint(center)
	diff := rl.Vector3Subtract(center, closest)
	dist := rl.Vector3Length(diff)

	if dist >= radius {
		return rl.Vector3{}, rl.Vector3{}, 0, false
	}
	if dist > 0.0001 {
		return closest, rl.Vector3Scale(diff, 1/dist), radius - dist, true
	}

	// Center is inside the box: push out through the nearest face.
	local := rl.Vector3Subtract(center, o.Center)
	half := [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z}
	best, bestGap := 0, float32(math.MaxFloat32)
	sign := float32(1)
	for i := 0; i < 3; i++ {
		d := rl.Vector3DotProduct(local, o.Axes[i])
		if gap := half[i] - absf(d); gap < bestGap {
			best, bestGap = i, gap
			sign = 1
			if d < 0 {
				sign = -1
			}
		}
	}
	normal = rl.Vector3Scale(o.Axes[best], sign)
	point = rl.Vector3Add(center, rl.Vector3Scale(normal, bestGap))
	return point, normal, radius + bestGap, true
}

// Bounds returns the world-space AABB enclosing the box.
func (o OBB) Bounds() AABB {
	ext := rl.Vector3{
		X: o.projectedRadius(rl.Vector3{X: 1}),
		Y: o.projectedRadius(rl.Vector3{Y: 1}),
		Z: o.projectedRadius(rl.Vector3{Z: 1}),
	}
	return AABB{Min: rl.Vector3Subtract(o.Center, ext), Max: rl.Vector3Add(o.Center, ext)}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
