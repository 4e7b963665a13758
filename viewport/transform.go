// Package viewport owns the pan/zoom transform over a rendered diagram
// and the geometric hit-testing (click selection, rectangular marquee)
// that turns rendered output IDs into an addressable selection.
package viewport

import "math"

// Scale bounds for the viewport transform.
const (
	MinScale = 0.05
	MaxScale = 5.0
)

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Transform maps element-local coordinates to screen coordinates:
// screen = local*Scale + Pan, with the transform origin pinned at the
// content's own (0,0).
type Transform struct {
	Scale float64
	Pan   Point
}

// Identity is the reset transform.
func Identity() Transform { return Transform{Scale: 1} }

// Apply maps a content-local point to screen space.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.Scale + t.Pan.X, Y: p.Y*t.Scale + t.Pan.Y}
}

// Invert maps a screen point back to content-local space.
func (t Transform) Invert(p Point) Point {
	return Point{X: (p.X - t.Pan.X) / t.Scale, Y: (p.Y - t.Pan.Y) / t.Scale}
}

// ZoomAt returns the transform after zooming to newScale with the
// content point under the screen point p held fixed:
// newPan = p - (p - oldPan) * (newScale/oldScale).
func (t Transform) ZoomAt(p Point, newScale float64) Transform {
	newScale = clampScale(newScale)
	ratio := newScale / t.Scale
	return Transform{
		Scale: newScale,
		Pan: Point{
			X: p.X - (p.X-t.Pan.X)*ratio,
			Y: p.Y - (p.Y-t.Pan.Y)*ratio,
		},
	}
}

// Translate returns the transform panned by (dx, dy).
func (t Transform) Translate(dx, dy float64) Transform {
	t.Pan.X += dx
	t.Pan.Y += dy
	return t
}

// FitToView computes the transform that fits content of natural size
// (contentW, contentH) inside a (viewW, viewH) viewport with the given
// padding, never upscaling past native resolution, centered.
func FitToView(contentW, contentH, viewW, viewH, padding float64) Transform {
	if contentW <= 0 || contentH <= 0 {
		return Identity()
	}
	scale := math.Min(
		math.Min((viewW-padding)/contentW, (viewH-padding)/contentH),
		1.0)
	scale = clampScale(scale)
	return Transform{
		Scale: scale,
		Pan: Point{
			X: (viewW - contentW*scale) / 2,
			Y: (viewH - contentH*scale) / 2,
		},
	}
}

func clampScale(s float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, s))
}
