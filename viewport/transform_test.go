package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitToView(t *testing.T) {
	// 800x600 content in a 400x400 viewport with 48px padding: scale is
	// limited by the width, (400-48)/800 = 0.44.
	tr := FitToView(800, 600, 400, 400, 48)
	assert.InDelta(t, 0.44, tr.Scale, 0.0001)
	assert.InDelta(t, (400-800*0.44)/2, tr.Pan.X, 0.0001)
	assert.InDelta(t, (400-600*0.44)/2, tr.Pan.Y, 0.0001)
}

func TestFitToViewNeverUpscales(t *testing.T) {
	tr := FitToView(100, 100, 1000, 1000, 48)
	assert.Equal(t, 1.0, tr.Scale, "fit never upscales past native resolution")
	assert.InDelta(t, 450.0, tr.Pan.X, 0.0001)
	assert.InDelta(t, 450.0, tr.Pan.Y, 0.0001)
}

func TestFitToViewDegenerateContent(t *testing.T) {
	assert.Equal(t, Identity(), FitToView(0, 0, 400, 400, 48))
}

func TestZoomAtKeepsCursorPointFixed(t *testing.T) {
	tr := Transform{Scale: 1, Pan: Point{X: 10, Y: 20}}
	cursor := Point{X: 100, Y: 150}
	local := tr.Invert(cursor)

	zoomed := tr.ZoomAt(cursor, 2)
	assert.Equal(t, 2.0, zoomed.Scale)

	after := zoomed.Apply(local)
	assert.InDelta(t, cursor.X, after.X, 0.0001, "content under the cursor must not move")
	assert.InDelta(t, cursor.Y, after.Y, 0.0001)
}

func TestZoomClampsScale(t *testing.T) {
	tr := Identity()
	assert.Equal(t, MaxScale, tr.ZoomAt(Point{}, 50).Scale)
	assert.Equal(t, MinScale, tr.ZoomAt(Point{}, 0.001).Scale)
}

func TestApplyInvertRoundTrip(t *testing.T) {
	tr := Transform{Scale: 0.5, Pan: Point{X: -30, Y: 12}}
	p := Point{X: 77, Y: -41}
	back := tr.Invert(tr.Apply(p))
	assert.InDelta(t, p.X, back.X, 0.0001)
	assert.InDelta(t, p.Y, back.Y, 0.0001)
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	assert.True(t, a.Intersects(Rect{X: 5, Y: 5, W: 10, H: 10}), "partial overlap")
	assert.True(t, a.Intersects(Rect{X: 2, Y: 2, W: 2, H: 2}), "containment")
	assert.False(t, a.Intersects(Rect{X: 20, Y: 20, W: 5, H: 5}))
	assert.False(t, a.Intersects(Rect{X: 10, Y: 0, W: 5, H: 5}), "touching edges do not overlap")
}
