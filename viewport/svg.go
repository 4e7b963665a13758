package viewport

import (
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// InternalIDPrefix marks identifiers the renderer uses for its own
// bookkeeping. Such groups are excluded from hit-testing and labeling.
const InternalIDPrefix = "__"

var translateRe = regexp.MustCompile(`translate\(\s*(-?[0-9.]+)(?:[\s,]+(-?[0-9.]+))?\s*\)`)

// ExtractElements walks a rendered SVG payload and returns the
// addressable elements: group-level shapes carrying a stable id
// attribute. Each element's bounding box is the union of its child
// shape geometry (offset by any translate transforms on the path down),
// and its label concatenates the group's distinct text runs, falling
// back to the id.
func ExtractElements(svg []byte) ([]Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	dec.Strict = false

	var elements []Element
	var offsets []Point // cumulative translate per open tag
	current := Point{}

	type capture struct {
		id                     string
		depth                  int
		minX, minY, maxX, maxY float64
		hasBounds              bool
		texts                  []string
		seen                   map[string]bool
	}
	var grp *capture
	depth := 0
	textDepth := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return elements, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			current = current.add(translateOf(t))
			offsets = append(offsets, current)

			name := t.Name.Local
			if grp == nil && name == "g" {
				if id := attrOf(t, "id"); id != "" && !strings.HasPrefix(id, InternalIDPrefix) {
					grp = &capture{id: id, depth: depth, seen: map[string]bool{}}
				}
			}
			if grp != nil {
				if r, ok := shapeBounds(t); ok {
					r.X += current.X
					r.Y += current.Y
					if !grp.hasBounds {
						grp.minX, grp.minY = r.X, r.Y
						grp.maxX, grp.maxY = r.X+r.W, r.Y+r.H
						grp.hasBounds = true
					} else {
						grp.minX = min(grp.minX, r.X)
						grp.minY = min(grp.minY, r.Y)
						grp.maxX = max(grp.maxX, r.X+r.W)
						grp.maxY = max(grp.maxY, r.Y+r.H)
					}
				}
				if name == "text" || name == "tspan" {
					textDepth++
				}
			}

		case xml.EndElement:
			if grp != nil {
				if t.Name.Local == "text" || t.Name.Local == "tspan" {
					if textDepth > 0 {
						textDepth--
					}
				}
				if depth == grp.depth {
					el := Element{ID: grp.id, Label: strings.Join(grp.texts, " ")}
					if el.Label == "" {
						el.Label = grp.id
					}
					if grp.hasBounds {
						el.Bounds = Rect{
							X: grp.minX, Y: grp.minY,
							W: grp.maxX - grp.minX, H: grp.maxY - grp.minY,
						}
					}
					elements = append(elements, el)
					grp = nil
					textDepth = 0
				}
			}
			depth--
			if len(offsets) > 0 {
				offsets = offsets[:len(offsets)-1]
			}
			if len(offsets) > 0 {
				current = offsets[len(offsets)-1]
			} else {
				current = Point{}
			}

		case xml.CharData:
			if grp != nil && textDepth > 0 {
				run := strings.TrimSpace(string(t))
				if run != "" && !grp.seen[run] {
					grp.seen[run] = true
					grp.texts = append(grp.texts, run)
				}
			}
		}
	}
	return elements, nil
}

func (p Point) add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }

func attrOf(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func floatAttr(t xml.StartElement, name string) (float64, bool) {
	v := attrOf(t, name)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func translateOf(t xml.StartElement) Point {
	m := translateRe.FindStringSubmatch(attrOf(t, "transform"))
	if m == nil {
		return Point{}
	}
	x, _ := strconv.ParseFloat(m[1], 64)
	var y float64
	if m[2] != "" {
		y, _ = strconv.ParseFloat(m[2], 64)
	}
	return Point{X: x, Y: y}
}

// shapeBounds extracts local bounding geometry from a shape tag. Text
// anchors contribute a point so labels pull the box toward them.
func shapeBounds(t xml.StartElement) (Rect, bool) {
	switch t.Name.Local {
	case "rect", "image":
		x, _ := floatAttr(t, "x")
		y, _ := floatAttr(t, "y")
		w, okW := floatAttr(t, "width")
		h, okH := floatAttr(t, "height")
		if okW && okH {
			return Rect{X: x, Y: y, W: w, H: h}, true
		}
	case "circle":
		cx, _ := floatAttr(t, "cx")
		cy, _ := floatAttr(t, "cy")
		r, ok := floatAttr(t, "r")
		if ok {
			return Rect{X: cx - r, Y: cy - r, W: 2 * r, H: 2 * r}, true
		}
	case "ellipse":
		cx, _ := floatAttr(t, "cx")
		cy, _ := floatAttr(t, "cy")
		rx, okX := floatAttr(t, "rx")
		ry, okY := floatAttr(t, "ry")
		if okX && okY {
			return Rect{X: cx - rx, Y: cy - ry, W: 2 * rx, H: 2 * ry}, true
		}
	case "line":
		x1, _ := floatAttr(t, "x1")
		y1, _ := floatAttr(t, "y1")
		x2, _ := floatAttr(t, "x2")
		y2, _ := floatAttr(t, "y2")
		return RectFromCorners(Point{X: x1, Y: y1}, Point{X: x2, Y: y2}), true
	case "text":
		x, okX := floatAttr(t, "x")
		y, okY := floatAttr(t, "y")
		if okX && okY {
			return Rect{X: x, Y: y}, true
		}
	case "polygon", "polyline":
		return pointsBounds(attrOf(t, "points"))
	}
	return Rect{}, false
}

func pointsBounds(points string) (Rect, bool) {
	fields := strings.FieldsFunc(points, func(r rune) bool { return r == ' ' || r == ',' })
	var xs, ys []float64
	for i := 0; i+1 < len(fields); i += 2 {
		x, errX := strconv.ParseFloat(fields[i], 64)
		y, errY := strconv.ParseFloat(fields[i+1], 64)
		if errX != nil || errY != nil {
			return Rect{}, false
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		return Rect{}, false
	}
	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, ys[i]), max(maxY, ys[i])
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}
