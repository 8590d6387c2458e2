package agentctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bundle struct {
	name string
}

func TestWithAgentNameRoundTrip(t *testing.T) {
	ctx := WithAgentName(context.Background(), "naturalist")
	assert.Equal(t, "naturalist", AgentNameFromContext(ctx))
	assert.Empty(t, AgentNameFromContext(context.Background()))
}

func TestWithDepsRoundTrip(t *testing.T) {
	b := &bundle{name: "run-1"}
	ctx := WithDeps(context.Background(), b)

	got, ok := DepsFrom[*bundle](ctx)
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestDepsFrom_WrongType(t *testing.T) {
	ctx := WithDeps(context.Background(), bundle{name: "value"})

	_, ok := DepsFrom[*bundle](ctx)
	assert.False(t, ok)
}

func TestRequireDeps(t *testing.T) {
	_, err := RequireDeps[*bundle](context.Background())
	require.ErrorIs(t, err, ErrMissingDeps)

	b := &bundle{}
	got, err := RequireDeps[*bundle](WithDeps(context.Background(), b))
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestDepsAndNameAreIndependent(t *testing.T) {
	ctx := WithDeps(context.Background(), &bundle{})
	ctx = WithAgentName(ctx, "naturalist")

	_, ok := DepsFrom[*bundle](ctx)
	assert.True(t, ok)
	assert.Equal(t, "naturalist", AgentNameFromContext(ctx))
}
