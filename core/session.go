// Package core implements the synchronization engine that sits between a
// mutating diagram source buffer, an asynchronous rendering backend, and
// an agent that co-edits the document. It owns render scheduling
// (debounce, streaming mode, staleness suppression, error auto-fix), the
// edit change log, and the context-sync channel to the agent.
package core

import "sync"

// Session is the shared mutable state of one live editing session. All
// components hold a reference to the same Session and mutate it through
// its methods; timer callbacks read the freshest values through these
// accessors rather than through captured snapshots.
type Session struct {
	mu              sync.RWMutex
	document        string
	selection       Selection
	streaming       bool
	agentOriginated bool
}

// NewSession creates a session seeded with an initial document payload.
func NewSession(initial string) *Session {
	return &Session{document: initial, agentOriginated: true}
}

// Document returns the current diagram source text.
func (s *Session) Document() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document
}

// DiagramType classifies the current document. Recomputed on every read.
func (s *Session) DiagramType() string {
	return DetectDiagramType(s.Document())
}

// SetDocumentFromUser records a manual edit. Manual edits clear the
// agent-originated flag, which gates error auto-fix requests.
func (s *Session) SetDocumentFromUser(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = text
	s.agentOriginated = false
}

// SetDocumentFromAgent records agent-produced text (a streamed partial or
// a tool replacement) without touching selection.
func (s *Session) SetDocumentFromAgent(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = text
	s.agentOriginated = true
}

// ReplaceFromTool performs a wholesale tool-driven document replacement.
// Selection does not survive a replacement.
func (s *Session) ReplaceFromTool(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = text
	s.agentOriginated = true
	s.selection = nil
}

// AgentOriginated reports whether the document still reflects agent
// output with no manual edit since.
func (s *Session) AgentOriginated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agentOriginated
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Selection, len(s.selection))
	copy(out, s.selection)
	return out
}

// SetSelection replaces the current selection.
func (s *Session) SetSelection(sel Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = sel
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
}

// Streaming reports whether a streaming session is active.
func (s *Session) Streaming() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streaming
}

func (s *Session) setStreaming(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaming = active
}
