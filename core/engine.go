package core

import (
	"context"

	"github.com/panyam/vizsync/agent"
	"github.com/panyam/vizsync/clock"
)

// EditSummaryManual is the change-log summary recorded for keystroke
// edits made in the editor.
const EditSummaryManual = "manual code edit"

// Engine bundles the session state with the components operating on it
// and exposes the session-level operations the host surfaces call.
type Engine struct {
	Session   *Session
	Log       *ChangeLog
	Scheduler *RenderScheduler
	Sync      *SyncLayer
}

// NewEngine creates a fully wired engine for one editing session.
func NewEngine(initial string, renderer Renderer, channel agent.Channel, clk clock.Clock) *Engine {
	session := NewSession(initial)
	log := NewChangeLog()
	return &Engine{
		Session:   session,
		Log:       log,
		Scheduler: NewRenderScheduler(session, renderer, channel, clk),
		Sync:      NewSyncLayer(session, log, channel, clk),
	}
}

// UserEdited applies a keystroke-level edit from the editor widget: the
// change log records the delta (detected type flips become TypeChange
// entries), a render is debounced, and a silent sync is scheduled.
func (e *Engine) UserEdited(text string) {
	oldType := e.Session.DiagramType()
	e.Session.SetDocumentFromUser(text)
	if newType := e.Session.DiagramType(); newType != oldType {
		e.Log.RecordTypeChange(oldType, newType)
	}
	e.Log.RecordEdit(EditSummaryManual)
	e.Scheduler.OnDocumentChanged()
	e.Sync.NotifyChanged()
}

// ToolInput applies a full tool-driven document replacement from the
// agent. Any streaming session ends, the change log and selection are
// cleared, and a render is issued immediately.
func (e *Engine) ToolInput(text string) {
	e.Scheduler.ExitStreaming()
	e.Session.ReplaceFromTool(text)
	e.Log.Clear()
	e.Scheduler.Render(text, false)
	e.Sync.NotifyChanged()
}

// ToolInputPartial applies a streamed partial document from the agent.
// The first partial enters streaming mode; later partials just refresh
// the text the streaming interval reads.
func (e *Engine) ToolInputPartial(text string) {
	e.Session.SetDocumentFromAgent(text)
	if !e.Session.Streaming() {
		e.Scheduler.EnterStreaming()
	}
}

// ToolInputDone marks the end of a streamed tool input, applying the
// final full text through the non-streaming path.
func (e *Engine) ToolInputDone(text string) {
	e.ToolInput(text)
}

// SelectionChanged replaces the selection and schedules a silent sync.
func (e *Engine) SelectionChanged(sel Selection) {
	e.Session.SetSelection(sel)
	e.Sync.NotifyChanged()
}

// Send flushes the change log, selection, and document to the agent as
// a response-triggering user turn.
func (e *Engine) Send(ctx context.Context, userMessage string) {
	e.Sync.SendToAgent(ctx, userMessage)
}

// Close tears down all timers owned by the engine's components.
func (e *Engine) Close() {
	e.Scheduler.Close()
	e.Sync.Close()
}
