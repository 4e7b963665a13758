package agent

import (
	"context"
	"sync"
)

// Recorder is a Channel that records every message, for tests and for
// inspecting traffic in a standalone session. An error can be injected
// to exercise the engine's swallow-on-failure paths.
type Recorder struct {
	mu        sync.Mutex
	contexts  []string
	userTurns []string

	// Err, when non-nil, is returned by both primitives after recording.
	Err error
}

func (r *Recorder) PushContext(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contexts = append(r.contexts, text)
	return r.Err
}

func (r *Recorder) SendUserTurn(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userTurns = append(r.userTurns, text)
	return r.Err
}

// Contexts returns all recorded context pushes.
func (r *Recorder) Contexts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.contexts...)
}

// UserTurns returns all recorded user turns.
func (r *Recorder) UserTurns() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.userTurns...)
}
