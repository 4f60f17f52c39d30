package viz

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/procanim/internal/verlet"
)

// Viewport maps the XY plane of a bounds box onto canvas dots. World Y grows
// upward, canvas Y grows downward. Z is dropped.
type Viewport struct {
	Bounds verlet.Bounds
	W, H   int
}

// NewViewport fits bounds to the dot area of c.
func NewViewport(bounds verlet.Bounds, c *Canvas) Viewport {
	w, h := c.Dots()
	return Viewport{Bounds: bounds, W: w, H: h}
}

// Project returns the dot nearest to p. Points outside the bounds project
// outside the canvas and are clipped by Canvas.Set.
func (v Viewport) Project(p mgl32.Vec3) (int, int) {
	size := v.Bounds.Size()
	var u, t float32
	if size.X() > 0 {
		u = (p.X() - v.Bounds.Min.X()) / size.X()
	}
	if size.Y() > 0 {
		t = (v.Bounds.Max.Y() - p.Y()) / size.Y()
	}
	x := int(math32.Round(u * float32(v.W-1)))
	y := int(math32.Round(t * float32(v.H-1)))
	return x, y
}

// RenderSnapshot clears c and draws the bounds frame, every link and every
// particle of s. Exact links are solid; Min and Max links are dashed.
func RenderSnapshot(c *Canvas, s verlet.Snapshot, bounds verlet.Bounds) {
	c.Clear()
	v := NewViewport(bounds, c)

	c.DrawRect(0, 0, v.W-1, v.H-1)

	for _, seg := range s.Segments {
		x0, y0 := v.Project(seg.A)
		x1, y1 := v.Project(seg.B)
		if seg.Kind.Mode == verlet.ModeExact {
			c.DrawLine(x0, y0, x1, y1)
		} else {
			c.DrawDashed(x0, y0, x1, y1, 2, 2)
		}
	}

	for i, p := range s.Positions {
		x, y := v.Project(p)
		arm := 1
		if i < len(s.Masses) && verlet.IsPinnedMass(s.Masses[i]) {
			arm = 2
		}
		c.DrawMarker(x, y, arm)
	}
}
