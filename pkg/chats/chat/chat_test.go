package chat

import (
	"testing"

	"github.com/germanamz/wildlife/pkg/chats/message"
	"github.com/germanamz/wildlife/pkg/chats/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValue(t *testing.T) {
	var c Chat

	assert.Equal(t, 0, c.Len())
	_, ok := c.Last()
	assert.False(t, ok)
	assert.Empty(t, c.SystemPrompt())
}

func TestAppendAndLast(t *testing.T) {
	c := New(message.NewText("naturalist", role.System, "Be concise."))
	c.Append(
		message.NewText("user", role.User, "Any owls nearby?"),
		message.NewText("naturalist", role.Assistant, "Try the woods at dusk."),
	)

	assert.Equal(t, 3, c.Len())

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, "Try the woods at dusk.", last.TextContent())
}

func TestMessagesReturnsCopy(t *testing.T) {
	c := New(message.NewText("user", role.User, "original"))

	msgs := c.Messages()
	msgs[0] = message.NewText("user", role.User, "changed")

	last, _ := c.Last()
	assert.Equal(t, "original", last.TextContent())
}

func TestSystemPrompt(t *testing.T) {
	c := New(
		message.NewText("user", role.User, "hello"),
		message.NewText("naturalist", role.System, "You are a naturalist."),
	)

	assert.Equal(t, "You are a naturalist.", c.SystemPrompt())
}
