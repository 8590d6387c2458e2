// Package agentctx carries per-run values through the context handed to tool
// handlers. It has no dependencies so any package can import it.
package agentctx

import (
	"context"
	"errors"
)

// ErrMissingDeps is returned by RequireDeps when the context carries no
// dependency bundle of the requested type.
var ErrMissingDeps = errors.New("agentctx: no dependencies in context")

type agentNameCtxKey struct{}

type depsCtxKey struct{}

// WithAgentName returns a context carrying the name of the running agent.
func WithAgentName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, agentNameCtxKey{}, name)
}

// AgentNameFromContext returns the running agent's name, or "".
func AgentNameFromContext(ctx context.Context) string {
	v, _ := ctx.Value(agentNameCtxKey{}).(string)
	return v
}

// WithDeps returns a context carrying the dependency bundle of one run.
func WithDeps[T any](ctx context.Context, deps T) context.Context {
	return context.WithValue(ctx, depsCtxKey{}, deps)
}

// DepsFrom returns the dependency bundle stored by WithDeps, if it has type T.
func DepsFrom[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(depsCtxKey{}).(T)
	return v, ok
}

// RequireDeps is DepsFrom reporting a missing bundle as ErrMissingDeps.
func RequireDeps[T any](ctx context.Context) (T, error) {
	v, ok := DepsFrom[T](ctx)
	if !ok {
		return v, ErrMissingDeps
	}
	return v, nil
}
