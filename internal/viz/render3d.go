package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/physics"
)

// Projector maps world points into a viewpoint's perspective image.
type Projector struct {
	// FOV is the horizontal field of view in degrees.
	FOV  float64
	Near float64
}

func DefaultProjector() Projector {
	return Projector{FOV: 90, Near: 0.05}
}

func (p Projector) focal(dotsWide int) float64 {
	return float64(dotsWide) / 2 / math.Tan(mgl64.DegToRad(p.FOV)/2)
}

// Project returns the dot position and depth of pt as seen from view.
// ok is false for points behind the near plane.
func (p Projector) Project(view dynamo.Viewpoint, pt mgl64.Vec3, dotsWide, dotsHigh int) (x, y int, depth float64, ok bool) {
	rel := pt.Sub(view.Position())
	depth = rel.Dot(view.Forward())
	if depth < p.Near {
		return 0, 0, depth, false
	}
	f := p.focal(dotsWide)
	x = dotsWide/2 + int(math.Round(rel.Dot(view.Right())/depth*f))
	y = dotsHigh/2 - int(math.Round(rel.Dot(view.Up())/depth*f))
	return x, y, depth, true
}

// segment draws a world-space line, skipping the parts behind the viewer.
func (p Projector) segment(c *Canvas, view dynamo.Viewpoint, a, b mgl64.Vec3, step float64) {
	n := int(b.Sub(a).Len()/step) + 1
	px, py, _, prev := p.Project(view, a, c.DotsWide(), c.DotsHigh())
	for i := 1; i <= n; i++ {
		pt := a.Add(b.Sub(a).Mul(float64(i) / float64(n)))
		x, y, _, ok := p.Project(view, pt, c.DotsWide(), c.DotsHigh())
		if ok && prev {
			c.DrawLine(px, py, x, y)
		}
		px, py, prev = x, y, ok
	}
}

// RenderView draws a first-person wireframe: a ground grid, each entity as a
// circle and the held entity filled.
func RenderView(c *Canvas, view dynamo.Viewpoint, world *physics.World, groundY float64, held dynamo.EntityID, p Projector) {
	c.Clear()
	for i := -6; i <= 6; i++ {
		x := float64(i)
		p.segment(c, view, mgl64.Vec3{x, groundY, 4}, mgl64.Vec3{x, groundY, -12}, 0.5)
	}
	for i := -12; i <= 4; i++ {
		z := float64(i)
		p.segment(c, view, mgl64.Vec3{-6, groundY, z}, mgl64.Vec3{6, groundY, z}, 0.5)
	}

	f := p.focal(c.DotsWide())
	for _, e := range world.Entities() {
		x, y, depth, ok := p.Project(view, e.Position(), c.DotsWide(), c.DotsHigh())
		if !ok {
			continue
		}
		r := int(math.Round(e.Radius() / depth * f))
		if e.ID() == held {
			c.FillCircle(x, y, r)
		} else {
			c.DrawCircle(x, y, r)
		}
	}

	// crosshair
	cx, cy := c.DotsWide()/2, c.DotsHigh()/2
	c.DrawLine(cx-2, cy, cx+2, cy)
	c.DrawLine(cx, cy-2, cx, cy+2)
}

// TopDown maps the ground plane onto a canvas, camera-centered, with -Z up.
type TopDown struct {
	// Scale is dots per world unit.
	Scale float64
}

func (t TopDown) project(c *Canvas, origin, pt mgl64.Vec3) (int, int) {
	x := c.DotsWide()/2 + int(math.Round((pt[0]-origin[0])*t.Scale))
	y := c.DotsHigh()*3/4 + int(math.Round((pt[2]-origin[2])*t.Scale))
	return x, y
}

// RenderTopDown draws every entity from above, the view direction, and the
// hold target when something is held.
func RenderTopDown(c *Canvas, view dynamo.Viewpoint, world *physics.World, held dynamo.EntityID, target mgl64.Vec3, t TopDown) {
	c.Clear()
	origin := view.Position()

	for _, e := range world.Entities() {
		x, y := t.project(c, origin, e.Position())
		r := int(math.Round(e.Radius() * t.Scale))
		if e.ID() == held {
			c.FillCircle(x, y, r)
		} else {
			c.DrawCircle(x, y, r)
		}
	}

	cx, cy := t.project(c, origin, origin)
	fwd := view.Forward()
	flat := mgl64.Vec3{fwd[0], 0, fwd[2]}
	if flat.Len() > 1e-6 {
		tip := origin.Add(flat.Normalize().Mul(1.5))
		tx, ty := t.project(c, origin, tip)
		c.DrawLine(cx, cy, tx, ty)
	}
	c.FillCircle(cx, cy, 1)

	if held != dynamo.NoEntity {
		tx, ty := t.project(c, origin, target)
		c.DrawLine(tx-2, ty-2, tx+2, ty+2)
		c.DrawLine(tx-2, ty+2, tx+2, ty-2)
	}
}
