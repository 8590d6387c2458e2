// Package naturalist assembles the wildlife agent: the naturalist
// instructions, the weather toolbox and the retry policy, and runs a single
// query with it.
package naturalist

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/germanamz/wildlife/pkg/agent"
	"github.com/germanamz/wildlife/pkg/agentctx"
	"github.com/germanamz/wildlife/pkg/modeladapter"
	"github.com/germanamz/wildlife/pkg/weather"
)

// New builds the agent described by def, talking to completer and equipped
// with the weather tools. log and tracer may be nil.
func New(def Definition, completer modeladapter.Completer, log *slog.Logger, tracer trace.Tracer) *agent.Agent {
	var mw []agent.Middleware

	mw = append(mw, agent.Recovery())

	if tracer != nil {
		mw = append(mw, agent.Tracing(tracer, def.Name))
	}

	if log != nil {
		reporter, _ := completer.(modeladapter.UsageReporter)
		mw = append(mw, agent.Logger(log, def.Name, reporter))
	}

	// Validate already rejected malformed timeouts.
	if d, _ := def.timeout(); d > 0 {
		mw = append(mw, agent.Timeout(d))
	}

	a := agent.New(def.Name, def.Description, def.Instructions, completer, agent.Options{
		MaxIterations: def.MaxIterations,
		ToolRetries:   def.ToolRetries,
		Middleware:    mw,
		Logger:        log,
		Tracer:        tracer,
	})
	a.AddToolBoxes(weather.Tools())

	return a
}

// Run asks a the prompt with deps available to every tool call and returns
// the final answer.
func Run(ctx context.Context, a *agent.Agent, prompt string, deps *weather.Deps) (string, error) {
	return a.Ask(agentctx.WithDeps(ctx, deps), prompt)
}
