package physics

import "github.com/go-gl/mathgl/mgl64"

const minSeparation = 1e-6

func (w *World) resolveContacts() {
	for i := 0; i < len(w.order); i++ {
		a := w.entities[w.order[i]]
		for j := i + 1; j < len(w.order); j++ {
			b := w.entities[w.order[j]]
			if a.body == nil && b.body == nil {
				continue
			}
			w.resolvePair(a, b)
		}
	}
}

// resolvePair pushes overlapping spheres apart, split by inverse mass, then
// applies a restitution impulse if they are still approaching.
func (w *World) resolvePair(a, b *Entity) {
	delta := b.position.Sub(a.position)
	dist := delta.Len()
	overlap := a.radius + b.radius - dist
	if overlap <= 0 {
		return
	}

	normal := mgl64.Vec3{0, 1, 0}
	if dist > minSeparation {
		normal = delta.Mul(1 / dist)
	}

	invA, invB := inverseMass(a), inverseMass(b)
	total := invA + invB
	a.position = a.position.Sub(normal.Mul(overlap * invA / total))
	b.position = b.position.Add(normal.Mul(overlap * invB / total))

	va, vb := velocityOf(a), velocityOf(b)
	approach := vb.Sub(va).Dot(normal)
	if approach >= 0 {
		return
	}

	j := -(1 + w.cfg.Restitution) * approach / total
	impulse := normal.Mul(j)
	if a.body != nil {
		a.body.velocity = a.body.velocity.Sub(impulse.Mul(invA))
	}
	if b.body != nil {
		b.body.velocity = b.body.velocity.Add(impulse.Mul(invB))
	}
}

func inverseMass(e *Entity) float64 {
	if e.body == nil {
		return 0
	}
	return 1 / e.body.mass
}

func velocityOf(e *Entity) mgl64.Vec3 {
	if e.body == nil {
		return mgl64.Vec3{}
	}
	return e.body.velocity
}
