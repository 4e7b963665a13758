package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/panyam/vizsync/agent"
	"github.com/panyam/vizsync/clock"
)

// DefaultSilentSyncDelay debounces the silent context pushes that keep
// the agent's background context current while the user works.
const DefaultSilentSyncDelay = 1500 * time.Millisecond

// SyncLayer formats and dispatches the two classes of outbound message
// to the agent: a silent, debounced context update, and an explicit
// user-triggered send that bundles the change-log delta, the current
// selection, and the full document. Channel failures are swallowed; the
// host may not support either primitive.
type SyncLayer struct {
	session *Session
	log     *ChangeLog
	channel agent.Channel
	clk     clock.Clock

	// SilentDelay is the debounce for NotifyChanged; set before use.
	SilentDelay time.Duration

	mu     sync.Mutex
	timer  clock.Timer
	closed bool
}

// NewSyncLayer wires the sync layer to the session state it reads.
func NewSyncLayer(session *Session, log *ChangeLog, channel agent.Channel, clk clock.Clock) *SyncLayer {
	if channel == nil {
		channel = agent.NullChannel{}
	}
	return &SyncLayer{
		session:     session,
		log:         log,
		channel:     channel,
		clk:         clk,
		SilentDelay: DefaultSilentSyncDelay,
	}
}

// NotifyChanged schedules a silent sync, restarting the debounce timer.
// Call it whenever the document, selection, or diagram type changes.
func (sl *SyncLayer) NotifyChanged() {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.closed {
		return
	}
	if sl.timer != nil {
		sl.timer.Stop()
	}
	sl.timer = sl.clk.AfterFunc(sl.SilentDelay, func() {
		sl.SilentSync(context.Background())
	})
}

// SilentSync pushes a structured context block to the agent's background
// context channel. Best-effort: failures are logged and swallowed, and
// no visible agent turn is produced.
func (sl *SyncLayer) SilentSync(ctx context.Context) {
	block := sl.contextBlock()
	if err := sl.channel.PushContext(ctx, block); err != nil {
		slog.Debug("silent sync not delivered", "error", err)
	}
}

// SendToAgent builds and sends the user-triggered message: the change
// log delta if non-empty, the selection (with the instruction that
// pronouns refer to it) if non-empty, and the full document. The change
// log is cleared even when the channel is unavailable.
func (sl *SyncLayer) SendToAgent(ctx context.Context, userMessage string) {
	var b strings.Builder
	if userMessage != "" {
		b.WriteString(userMessage)
		b.WriteString("\n\n")
	}
	if delta := sl.log.Serialize(); delta != "" {
		b.WriteString("Changes since the last message:\n")
		b.WriteString(delta)
		b.WriteString("\n\n")
	}
	if sel := sl.session.Selection(); len(sel) > 0 {
		b.WriteString("Currently selected elements (words like \"these\" or \"this\" refer to them):\n")
		b.WriteString(sel.Describe())
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Current diagram source:\n```\n%s\n```", sl.session.Document())

	if err := sl.channel.SendUserTurn(ctx, b.String()); err != nil {
		slog.Debug("send to agent failed", "error", err)
	}
	sl.log.Clear()
}

// Close cancels any pending silent sync.
func (sl *SyncLayer) Close() {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.closed = true
	if sl.timer != nil {
		sl.timer.Stop()
		sl.timer = nil
	}
}

func (sl *SyncLayer) contextBlock() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Diagram type: %s\n", sl.session.DiagramType())
	if sel := sl.session.Selection(); len(sel) > 0 {
		b.WriteString("Selected elements:\n")
		b.WriteString(sel.Describe())
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Diagram source:\n```\n%s\n```", sl.session.Document())
	return b.String()
}
