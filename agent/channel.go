// Package agent abstracts the communication channel between the editing
// session and the co-editing agent, plus the host context the session
// runs inside. The exact transport is the host's business; this package
// only fixes the two primitives the engine consumes.
package agent

import "context"

// Channel carries outbound messages to the agent. Both primitives are
// best-effort: the engine swallows channel failures because a host may
// not support either primitive (e.g. a standalone editor).
type Channel interface {
	// PushContext delivers a structured context block to the agent's
	// background context. It must not provoke a visible agent turn.
	PushContext(ctx context.Context, text string) error

	// SendUserTurn delivers a message as an explicit user turn and
	// triggers an agent response.
	SendUserTurn(ctx context.Context, text string) error
}

// Host is the surface the session uses to talk back to its container.
type Host interface {
	// RequestDisplayMode asks the host to switch display modes, e.g.
	// between inline and fullscreen.
	RequestDisplayMode(ctx context.Context, mode string) error

	// NotifySize tells the host the content's preferred height changed.
	NotifySize(ctx context.Context, height int) error
}

// HostContext describes what the host exposes to the session.
type HostContext struct {
	// DisplayModes lists the modes the host supports.
	DisplayModes []string
	// DisplayMode is the current mode.
	DisplayMode string
	// MaxHeight clamps the container height, 0 for unconstrained.
	MaxHeight int
	// Theme is the host's theme preference ("light" or "dark").
	Theme string
}

// SupportsFullscreen reports whether a fullscreen affordance should be
// shown.
func (h HostContext) SupportsFullscreen() bool {
	for _, m := range h.DisplayModes {
		if m == "fullscreen" {
			return true
		}
	}
	return false
}

// NullChannel drops every message. Used when no host is attached.
type NullChannel struct{}

func (NullChannel) PushContext(context.Context, string) error  { return nil }
func (NullChannel) SendUserTurn(context.Context, string) error { return nil }
