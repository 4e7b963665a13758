package viewport

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// RectFromCorners builds the rectangle spanned by two corner points.
func RectFromCorners(a, b Point) Rect {
	x, y := a.X, a.Y
	if b.X < x {
		x = b.X
	}
	if b.Y < y {
		y = b.Y
	}
	w, h := a.X-b.X, a.Y-b.Y
	if w < 0 {
		w = -w
	}
	if h < 0 {
		h = -h
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Intersects reports bounding-box overlap. Selection deliberately uses
// bounding-box intersection, not a polygon or pixel test.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Scaled maps the rectangle through a viewport transform into screen
// space.
func (r Rect) Scaled(t Transform) Rect {
	tl := t.Apply(Point{X: r.X, Y: r.Y})
	return Rect{X: tl.X, Y: tl.Y, W: r.W * t.Scale, H: r.H * t.Scale}
}

// Union grows the rectangle to cover o. A zero-size rectangle at the
// origin is treated as empty.
func (r Rect) Union(o Rect) Rect {
	if r.W == 0 && r.H == 0 {
		return o
	}
	if o.W == 0 && o.H == 0 {
		return r
	}
	x1, y1 := min(r.X, o.X), min(r.Y, o.Y)
	x2, y2 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Element is one addressable sub-element of the rendered diagram: a
// group-level shape with a stable identifier, a human-readable label
// derived from its text runs, and a bounding box in the content's
// coordinate frame.
type Element struct {
	ID     string
	Label  string
	Bounds Rect
}
