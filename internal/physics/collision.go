package physics

import (
	"tireroll/internal/components"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Solver tuning
const (
	// Approach speeds below this resolve without bounce so resting bodies settle.
	RestitutionThreshold = 0.5
	// Fraction of penetration removed per step, and the overlap tolerated.
	correctionPercent = 0.8
	correctionSlop    = 0.005
)

// contact is one narrow-phase result. Normal points from b toward a.
type contact struct {
	point  rl.Vector3
	normal rl.Vector3
	depth  float32
}

// collide runs the narrow phase for a pair and resolves any contact found.
func (p *PhysicsWorld) collide(a, b *body) {
	c, ok := narrowPhase(a, b)
	if !ok {
		return
	}
	p.lastContacts++
	p.resolveContact(a, b, c)
}

func narrowPhase(a, b *body) (contact, bool) {
	switch {
	case a.sphere != nil && b.sphere != nil:
		return sphereVsSphere(a.sphere.GetCenter(), a.sphere.Radius, b.sphere.GetCenter(), b.sphere.Radius)
	case a.sphere != nil && b.box != nil:
		point, normal, depth, ok := b.obb().SphereContact(a.sphere.GetCenter(), a.sphere.Radius)
		return contact{point: point, normal: normal, depth: depth}, ok
	case a.box != nil && b.sphere != nil:
		point, normal, depth, ok := a.obb().SphereContact(b.sphere.GetCenter(), b.sphere.Radius)
		return contact{point: point, normal: rl.Vector3Negate(normal), depth: depth}, ok
	case a.box != nil && b.box != nil:
		return boxVsBox(a.obb(), b.obb())
	}
	return contact{}, false
}

func sphereVsSphere(ca rl.Vector3, ra float32, cb rl.Vector3, rb float32) (contact, bool) {
	diff := rl.Vector3Subtract(ca, cb)
	dist := rl.Vector3Length(diff)
	minDist := ra + rb
	if dist >= minDist {
		return contact{}, false
	}
	normal := rl.Vector3{Y: 1}
	if dist > 0.0001 {
		normal = rl.Vector3Scale(diff, 1/dist)
	}
	return contact{
		point:  rl.Vector3Add(cb, rl.Vector3Scale(normal, rb)),
		normal: normal,
		depth:  minDist - dist,
	}, true
}

// boxVsBox uses the SAT push-out vector. The contact point is approximated as
// the point of b nearest to a's center, which is good enough for crates.
func boxVsBox(a, b OBB) (contact, bool) {
	pushOut := a.ResolveOBB(b)
	depth := rl.Vector3Length(pushOut)
	if depth < 0.0001 {
		return contact{}, false
	}
	return contact{
		point:  b.ClosestPoint(a.Center),
		normal: rl.Vector3Scale(pushOut, 1/depth),
		depth:  depth,
	}, true
}

// resolveContact separates the pair, applies a normal impulse with the pair's
// restitution and a Coulomb friction impulse, then queues contact events.
func (p *PhysicsWorld) resolveContact(a, b *body, c contact) {
	rbA, rbB := a.rb, b.rb
	invMassA, invMassB := rbA.InverseMass(), rbB.InverseMass()
	invMassSum := invMassA + invMassB
	if invMassSum == 0 {
		return
	}
	invIA, invIB := a.invI, b.invI
	if rbA.IsKinematic {
		invIA = 0
	}
	if rbB.IsKinematic {
		invIB = 0
	}

	// Positional correction
	if excess := c.depth - correctionSlop; excess > 0 {
		corr := rl.Vector3Scale(c.normal, excess/invMassSum*correctionPercent)
		a.obj.Transform.Position = rl.Vector3Add(a.obj.Transform.Position, rl.Vector3Scale(corr, invMassA))
		b.obj.Transform.Position = rl.Vector3Subtract(b.obj.Transform.Position, rl.Vector3Scale(corr, invMassB))
	}

	rA := rl.Vector3Subtract(c.point, a.center())
	rB := rl.Vector3Subtract(c.point, b.center())
	relVel := relativeVelocity(rbA.Velocity, rbA.AngularVelocity, rA, rbB.Velocity, rbB.AngularVelocity, rB)
	velAlongNormal := rl.Vector3DotProduct(relVel, c.normal)

	// Only resolve if objects are moving toward each other
	if velAlongNormal >= 0 {
		return
	}
	approach := -velAlongNormal

	cm := p.Materials.Contact(rbA.Material, rbB.Material)
	e := cm.Restitution
	if approach < RestitutionThreshold {
		e = 0
	}

	// Normal impulse
	k := effectiveMass(invMassSum, invIA, invIB, rA, rB, c.normal)
	j := (1 + e) * approach / k
	applyImpulse(rbA, invMassA, invIA, rA, rbB, invMassB, invIB, rB, rl.Vector3Scale(c.normal, j))

	// Friction impulse along the sliding direction, clamped by the Coulomb cone
	relVel = relativeVelocity(rbA.Velocity, rbA.AngularVelocity, rA, rbB.Velocity, rbB.AngularVelocity, rB)
	tangent := rl.Vector3Subtract(relVel, rl.Vector3Scale(c.normal, rl.Vector3DotProduct(relVel, c.normal)))
	if slide := rl.Vector3Length(tangent); slide > 0.0001 {
		tangent = rl.Vector3Scale(tangent, 1/slide)
		kt := effectiveMass(invMassSum, invIA, invIB, rA, rB, tangent)
		jt := clampf(-slide/kt, -cm.Friction*j, cm.Friction*j)
		applyImpulse(rbA, invMassA, invIA, rA, rbB, invMassB, invIB, rB, rl.Vector3Scale(tangent, jt))
	}

	if approach > RestitutionThreshold {
		if !rbA.IsStatic() {
			rbA.Wake()
		}
		if !rbB.IsStatic() {
			rbB.Wake()
		}
	}

	p.queueEvents(a, b, c, approach)
}

// relativeVelocity is the velocity of a's contact point relative to b's.
func relativeVelocity(va, wa, ra, vb, wb, rb rl.Vector3) rl.Vector3 {
	pa := rl.Vector3Add(va, rl.Vector3CrossProduct(wa, ra))
	pb := rl.Vector3Add(vb, rl.Vector3CrossProduct(wb, rb))
	return rl.Vector3Subtract(pa, pb)
}

func effectiveMass(invMassSum, invIA, invIB float32, rA, rB, dir rl.Vector3) float32 {
	rnA := rl.Vector3CrossProduct(rA, dir)
	rnB := rl.Vector3CrossProduct(rB, dir)
	return invMassSum +
		invIA*rl.Vector3DotProduct(rnA, rnA) +
		invIB*rl.Vector3DotProduct(rnB, rnB)
}

// applyImpulse adds impulse to a and its negation to b.
func applyImpulse(rbA *components.Rigidbody, invMassA, invIA float32, rA rl.Vector3,
	rbB *components.Rigidbody, invMassB, invIB float32, rB rl.Vector3, impulse rl.Vector3) {
	rbA.Velocity = rl.Vector3Add(rbA.Velocity, rl.Vector3Scale(impulse, invMassA))
	rbA.AngularVelocity = rl.Vector3Add(rbA.AngularVelocity, rl.Vector3Scale(rl.Vector3CrossProduct(rA, impulse), invIA))
	rbB.Velocity = rl.Vector3Subtract(rbB.Velocity, rl.Vector3Scale(impulse, invMassB))
	rbB.AngularVelocity = rl.Vector3Subtract(rbB.AngularVelocity, rl.Vector3Scale(rl.Vector3CrossProduct(rB, impulse), invIB))
}

// queueEvents records the contact for both sides; each side sees the normal
// pointing toward itself.
func (p *PhysicsWorld) queueEvents(a, b *body, c contact, speed float32) {
	if a.handler != nil {
		p.events = append(p.events, ContactEvent{
			Body:        a.handle,
			Other:       b.obj,
			OtherHandle: b.handle,
			OtherStatic: b.rb.IsStatic(),
			Point:       c.point,
			Normal:      c.normal,
			Speed:       speed,
		})
	}
	if b.handler != nil {
		p.events = append(p.events, ContactEvent{
			Body:        b.handle,
			Other:       a.obj,
			OtherHandle: a.handle,
			OtherStatic: a.rb.IsStatic(),
			Point:       c.point,
			Normal:      rl.Vector3Negate(c.normal),
			Speed:       speed,
		})
	}
}
