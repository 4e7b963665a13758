package viewport

import (
	"sync"

	gfn "github.com/panyam/goutils/fn"

	"github.com/panyam/vizsync/core"
)

// Pointer interaction states.
type State int

const (
	Idle State = iota
	Panning
	MarqueeSelecting
	clickIntent
)

// Interaction thresholds, in screen pixels.
const (
	// ClickThreshold is how far the pointer may drift between down and
	// up while still counting as a click.
	ClickThreshold = 3.0
	// MarqueeMinSize is the minimum marquee width and height before a
	// release applies rectangle selection.
	MarqueeMinSize = 5.0
	// DefaultFitPadding surrounds the content on fit-to-view.
	DefaultFitPadding = 48.0
)

// Engine is the pointer state machine over the rendered diagram: it
// owns the pan/zoom transform and turns pointer gestures into pan
// updates and Selection mutations on the session.
type Engine struct {
	session *core.Session

	// Padding used by Fit.
	Padding float64

	mu            sync.Mutex
	transform     Transform
	elements      []Element
	contentW      float64
	contentH      float64
	viewW         float64
	viewH         float64
	state         State
	selectionMode bool
	downPoint     Point
	lastPoint     Point
	moved         bool
	suppressClick bool
}

// NewEngine creates an engine writing selection changes into session.
func NewEngine(session *core.Session) *Engine {
	return &Engine{
		session:   session,
		Padding:   DefaultFitPadding,
		transform: Identity(),
	}
}

// Transform returns the current pan/zoom transform.
func (e *Engine) Transform() Transform {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transform
}

// SetViewportSize records the viewport dimensions used by Fit.
func (e *Engine) SetViewportSize(w, h float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewW, e.viewH = w, h
}

// SetContent installs a new rendered output: its natural size and its
// addressable elements.
func (e *Engine) SetContent(naturalW, naturalH float64, elements []Element) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.contentW, e.contentH = naturalW, naturalH
	e.elements = elements
}

// Elements returns the addressable elements of the current content.
func (e *Engine) Elements() []Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Element(nil), e.elements...)
}

// Fit recomputes the transform so the content fits the viewport,
// centered, never upscaled past native resolution.
func (e *Engine) Fit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transform = FitToView(e.contentW, e.contentH, e.viewW, e.viewH, e.Padding)
}

// ResetView restores the identity transform.
func (e *Engine) ResetView() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transform = Identity()
}

// Zoom rescales around the screen point p (cursor-centered zoom).
func (e *Engine) Zoom(p Point, newScale float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transform = e.transform.ZoomAt(p, newScale)
}

// SelectionMode reports whether selection mode is active.
func (e *Engine) SelectionMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectionMode
}

// SetSelectionMode toggles selection mode. Exiting clears the
// selection.
func (e *Engine) SetSelectionMode(on bool) {
	e.mu.Lock()
	wasOn := e.selectionMode
	e.selectionMode = on
	e.mu.Unlock()
	if wasOn && !on {
		e.session.ClearSelection()
	}
}

// ElementAt returns the topmost addressable element under the screen
// point p, or nil.
func (e *Engine) ElementAt(p Point) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elementAtLocked(p)
}

func (e *Engine) elementAtLocked(p Point) *Element {
	for i := len(e.elements) - 1; i >= 0; i-- {
		if e.elements[i].Bounds.Scaled(e.transform).Contains(p) {
			el := e.elements[i]
			return &el
		}
	}
	return nil
}

// PointerDown begins a gesture at screen point p. In selection mode a
// down on an element is a click intent and a down on empty canvas
// starts a marquee; outside selection mode every down starts a pan.
func (e *Engine) PointerDown(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.downPoint, e.lastPoint = p, p
	e.moved = false
	switch {
	case e.selectionMode && e.elementAtLocked(p) != nil:
		e.state = clickIntent
	case e.selectionMode:
		e.state = MarqueeSelecting
	default:
		e.state = Panning
	}
}

// PointerMove continues the active gesture.
func (e *Engine) PointerMove(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if dist := RectFromCorners(e.downPoint, p); dist.W > ClickThreshold || dist.H > ClickThreshold {
		e.moved = true
	}
	if e.state == Panning {
		e.transform = e.transform.Translate(p.X-e.lastPoint.X, p.Y-e.lastPoint.Y)
	}
	e.lastPoint = p
}

// PointerUp ends the active gesture. Completing a marquee larger than
// the minimum size applies rectangle selection (union with the current
// selection if extend was held, replacement otherwise) and suppresses
// the immediately following click exactly once.
func (e *Engine) PointerUp(p Point, extend bool) {
	e.mu.Lock()
	state := e.state
	e.state = Idle
	down := e.downPoint
	e.mu.Unlock()

	if state != MarqueeSelecting {
		return
	}
	rect := RectFromCorners(down, p)
	if rect.W <= MarqueeMinSize || rect.H <= MarqueeMinSize {
		return
	}

	e.mu.Lock()
	transform := e.transform
	var hits []Element
	for _, el := range e.elements {
		if el.Bounds.Scaled(transform).Intersects(rect) {
			hits = append(hits, el)
		}
	}
	e.suppressClick = true
	e.mu.Unlock()

	selected := gfn.Map(hits, func(el Element) core.SelectedElement {
		return core.SelectedElement{ID: el.ID, Label: el.Label}
	})
	if extend {
		sel := e.session.Selection()
		for _, s := range selected {
			sel = sel.Add(s)
		}
		e.session.SetSelection(sel)
	} else {
		e.session.SetSelection(selected)
	}
}

// Click handles a completed click at screen point p: toggles membership
// of the clicked element in the selection, or clears a non-empty
// selection when the click lands on empty canvas. A click right after a
// marquee completion is ignored (the mouse-up that ended the marquee
// must not read as a deselect), as is a click whose gesture drifted
// past the click threshold.
func (e *Engine) Click(p Point) {
	e.mu.Lock()
	if e.suppressClick {
		e.suppressClick = false
		e.mu.Unlock()
		return
	}
	if !e.selectionMode || e.moved {
		e.mu.Unlock()
		return
	}
	el := e.elementAtLocked(p)
	e.mu.Unlock()

	if el != nil {
		sel := e.session.Selection()
		e.session.SetSelection(sel.Toggle(core.SelectedElement{ID: el.ID, Label: el.Label}))
		return
	}
	if len(e.session.Selection()) > 0 {
		e.session.ClearSelection()
	}
}
