package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostContextSupportsFullscreen(t *testing.T) {
	assert.False(t, HostContext{}.SupportsFullscreen())
	assert.False(t, HostContext{DisplayModes: []string{"inline"}}.SupportsFullscreen())
	assert.True(t, HostContext{DisplayModes: []string{"inline", "fullscreen"}}.SupportsFullscreen())
}

func TestRecorderSeparatesPrimitives(t *testing.T) {
	rec := &Recorder{}
	require.NoError(t, rec.PushContext(context.Background(), "ctx block"))
	require.NoError(t, rec.SendUserTurn(context.Background(), "a message"))
	require.NoError(t, rec.PushContext(context.Background(), "another block"))

	assert.Equal(t, []string{"ctx block", "another block"}, rec.Contexts())
	assert.Equal(t, []string{"a message"}, rec.UserTurns())
}

func TestNewOpenAIChannelRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewOpenAIChannel()
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestOpenAIChannelPushContextIsLocal(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	c, err := NewOpenAIChannel()
	require.NoError(t, err)

	// Context pushes must stay off the network; only user turns call out.
	require.NoError(t, c.PushContext(context.Background(), "diagram state"))
}
