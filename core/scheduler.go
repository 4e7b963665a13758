package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panyam/vizsync/agent"
	"github.com/panyam/vizsync/clock"
)

// Renderer is the external rendering collaborator. It consumes diagram
// source text and returns the rendered output (a vector image payload).
type Renderer interface {
	Render(ctx context.Context, source string) ([]byte, error)
}

// ErrorDetector inspects a transport-successful rendering response for a
// content-level error state (diagnostic markers embedded in the output).
// It returns the diagnostic message and whether the output is an error.
//
// Substring heuristics here are inherently backend-version-dependent,
// which is why the detector is pluggable rather than baked into the
// scheduler.
type ErrorDetector func(output []byte) (message string, isError bool)

// RenderState is the authoritative view state for the rendered diagram.
// Only the most recently issued render's result is ever applied to it.
type RenderState struct {
	SVG     []byte
	Loading bool
	Error   string
	Version int64
}

// Scheduling defaults.
const (
	DefaultRenderDebounce = 800 * time.Millisecond
	DefaultStreamInterval = 2 * time.Second
	DefaultAutoFixDelay   = 3 * time.Second

	// fingerprintDocLen bounds how much of the document participates in
	// the auto-fix fingerprint.
	fingerprintDocLen = 200
)

// RenderScheduler owns the "is the diagram currently rendering, and with
// what text" state machine: debouncing on edit, an elevated streaming
// mode with periodic re-render and repair of incomplete markup,
// stale-response suppression, and an auto-fix request to the agent on
// detected rendering errors.
type RenderScheduler struct {
	session  *Session
	renderer Renderer
	channel  agent.Channel
	clk      clock.Clock

	// Tunables; set before first use.
	Debounce       time.Duration
	StreamInterval time.Duration
	AutoFixDelay   time.Duration
	IsErrorOutput  ErrorDetector

	// OnUpdate receives every applied render state change. Called
	// without internal locks held.
	OnUpdate func(RenderState)

	mu            sync.Mutex
	version       int64
	state         RenderState
	debounceTimer clock.Timer
	streamTicker  clock.Ticker
	autoFixTimer  clock.Timer
	lastFixKey    string
	closed        bool
}

// NewRenderScheduler wires a scheduler to the session it renders for.
func NewRenderScheduler(session *Session, renderer Renderer, channel agent.Channel, clk clock.Clock) *RenderScheduler {
	if channel == nil {
		channel = agent.NullChannel{}
	}
	return &RenderScheduler{
		session:        session,
		renderer:       renderer,
		channel:        channel,
		clk:            clk,
		Debounce:       DefaultRenderDebounce,
		StreamInterval: DefaultStreamInterval,
		AutoFixDelay:   DefaultAutoFixDelay,
		IsErrorOutput:  func([]byte) (string, bool) { return "", false },
	}
}

// State returns a snapshot of the current render state.
func (rs *RenderScheduler) State() RenderState {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.state
}

// OnDocumentChanged is called on every keystroke-level edit. Outside of
// streaming mode it (re)starts the debounce timer; on firing, the render
// uses the text present at fire time, not a snapshot. A pending timer is
// cancelled first, so rapid edits coalesce to one render.
func (rs *RenderScheduler) OnDocumentChanged() {
	if rs.session.Streaming() {
		return
	}
	rs.mu.Lock()
	if rs.closed {
		rs.mu.Unlock()
		return
	}
	if rs.debounceTimer != nil {
		rs.debounceTimer.Stop()
	}
	rs.debounceTimer = rs.clk.AfterFunc(rs.Debounce, func() {
		rs.Render(rs.session.Document(), false)
	})
	rs.mu.Unlock()
}

// EnterStreaming switches to streaming mode: one immediate streaming
// render of the latest text, then periodic re-renders that read the
// freshest text at each tick.
func (rs *RenderScheduler) EnterStreaming() {
	if rs.session.Streaming() {
		return
	}
	rs.session.setStreaming(true)

	rs.mu.Lock()
	if rs.debounceTimer != nil {
		rs.debounceTimer.Stop()
		rs.debounceTimer = nil
	}
	rs.streamTicker = rs.clk.TickFunc(rs.StreamInterval, func() {
		rs.Render(rs.session.Document(), true)
	})
	rs.mu.Unlock()

	rs.Render(rs.session.Document(), true)
}

// ExitStreaming cancels the periodic streaming re-render.
func (rs *RenderScheduler) ExitStreaming() {
	if !rs.session.Streaming() {
		return
	}
	rs.session.setStreaming(false)
	rs.mu.Lock()
	if rs.streamTicker != nil {
		rs.streamTicker.Stop()
		rs.streamTicker = nil
	}
	rs.mu.Unlock()
}

// Render issues a render attempt for text. Each attempt allocates a new
// version; a completion is applied only if its version still equals the
// counter at completion time, so a slow early request can never clobber
// a fast later one. In streaming mode incomplete markup is repaired
// first and the loading flag is left alone (no flicker every tick).
func (rs *RenderScheduler) Render(text string, streamingMode bool) {
	rs.mu.Lock()
	if rs.closed {
		rs.mu.Unlock()
		return
	}
	rs.version++
	version := rs.version
	var update *RenderState
	if !streamingMode {
		rs.state.Loading = true
		snap := rs.state
		update = &snap
	}
	rs.mu.Unlock()

	if update != nil {
		rs.notify(*update)
	}

	if streamingMode {
		text = RepairStreamingSource(text)
	}

	go func() {
		out, err := rs.renderer.Render(context.Background(), text)
		rs.complete(version, streamingMode, out, err)
	}()
}

func (rs *RenderScheduler) complete(version int64, streamingMode bool, out []byte, err error) {
	rs.mu.Lock()
	if rs.closed || version != rs.version {
		// Stale: a newer render was issued while this one was in
		// flight. Not an error, just discarded.
		rs.mu.Unlock()
		return
	}

	if err != nil {
		if streamingMode {
			// Mid-stream input may be rejected even after repair; keep
			// the last good preview.
			rs.mu.Unlock()
			slog.Debug("streaming render failed", "error", err)
			return
		}
		rs.state.Loading = false
		rs.state.Error = err.Error()
		rs.state.Version = version
		snap := rs.state
		rs.mu.Unlock()
		rs.notify(snap)
		return
	}

	message, isErr := rs.IsErrorOutput(out)
	if isErr {
		if streamingMode {
			rs.mu.Unlock()
			return
		}
		rs.state.SVG = out
		rs.state.Error = message
		rs.state.Loading = false
		rs.state.Version = version
		snap := rs.state
		rs.mu.Unlock()
		rs.notify(snap)
		rs.scheduleAutoFix(message)
		return
	}

	rs.state.SVG = out
	rs.state.Error = ""
	rs.state.Version = version
	if !streamingMode {
		rs.state.Loading = false
		rs.lastFixKey = ""
		if rs.autoFixTimer != nil {
			rs.autoFixTimer.Stop()
			rs.autoFixTimer = nil
		}
	}
	snap := rs.state
	rs.mu.Unlock()
	rs.notify(snap)
}

// scheduleAutoFix starts (or replaces) the quiescence timer for an
// automated fix request about a content-level rendering error.
func (rs *RenderScheduler) scheduleAutoFix(message string) {
	rs.mu.Lock()
	if rs.closed {
		rs.mu.Unlock()
		return
	}
	if rs.autoFixTimer != nil {
		rs.autoFixTimer.Stop()
	}
	rs.autoFixTimer = rs.clk.AfterFunc(rs.AutoFixDelay, func() {
		rs.fireAutoFix(message)
	})
	rs.mu.Unlock()
}

func (rs *RenderScheduler) fireAutoFix(message string) {
	// A manual edit since the erroring tool input means the human took
	// over; don't nag the agent about it.
	if !rs.session.AgentOriginated() {
		return
	}
	key := fixFingerprint(message, rs.session.Document())
	rs.mu.Lock()
	if rs.closed || key == rs.lastFixKey {
		rs.mu.Unlock()
		return
	}
	rs.lastFixKey = key
	rs.mu.Unlock()

	request := fmt.Sprintf(
		"The diagram failed to render with this error:\n%s\n\nPlease fix the diagram source so it renders correctly.",
		message)
	if err := rs.channel.SendUserTurn(context.Background(), request); err != nil {
		slog.Debug("auto-fix request not delivered", "error", err)
	}
}

// Close cancels all pending timers. The scheduler issues no renders and
// applies no completions after Close.
func (rs *RenderScheduler) Close() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.closed = true
	if rs.debounceTimer != nil {
		rs.debounceTimer.Stop()
		rs.debounceTimer = nil
	}
	if rs.streamTicker != nil {
		rs.streamTicker.Stop()
		rs.streamTicker = nil
	}
	if rs.autoFixTimer != nil {
		rs.autoFixTimer.Stop()
		rs.autoFixTimer = nil
	}
}

func (rs *RenderScheduler) notify(state RenderState) {
	if rs.OnUpdate != nil {
		rs.OnUpdate(state)
	}
}

func fixFingerprint(message, document string) string {
	if len(document) > fingerprintDocLen {
		document = document[:fingerprintDocLen]
	}
	return message + "\x00" + document
}
