// Package agent runs a ReAct loop (reason + act): the model is asked for a
// reply, any tool calls in it are executed and their results fed back, until
// the model answers without calling tools.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/germanamz/wildlife/pkg/agentctx"
	"github.com/germanamz/wildlife/pkg/chats/chat"
	"github.com/germanamz/wildlife/pkg/chats/content"
	"github.com/germanamz/wildlife/pkg/chats/message"
	"github.com/germanamz/wildlife/pkg/chats/role"
	"github.com/germanamz/wildlife/pkg/modeladapter"
	"github.com/germanamz/wildlife/pkg/tools/toolbox"
)

// ErrMaxIterations is returned when the loop exceeds MaxIterations without
// the model producing a final answer.
var ErrMaxIterations = errors.New("agent: max iterations reached")

// ErrToolRetriesExhausted is wrapped by every ToolRetriesError.
var ErrToolRetriesExhausted = errors.New("agent: tool retries exhausted")

// retryHint is appended to failed tool results so the model knows it may
// call the tool again.
const retryHint = "\n\nFix the errors and try again."

// ToolRetriesError reports a tool that kept failing after its retries were
// used up.
type ToolRetriesError struct {
	Tool      string
	Retries   int
	LastError string
}

func (e *ToolRetriesError) Error() string {
	return fmt.Sprintf("agent: tool %q exceeded max retries count of %d: %s", e.Tool, e.Retries, e.LastError)
}

func (e *ToolRetriesError) Unwrap() error { return ErrToolRetriesExhausted }

// Options configures an Agent.
type Options struct {
	MaxIterations int          // Model requests per Run (0 = unlimited).
	ToolRetries   int          // Consecutive failures a tool may have before Run fails.
	Middleware    []Middleware // Applied around Run.
	Logger        *slog.Logger // Tool activity is logged at debug level when set.
	Tracer        trace.Tracer // Each tool call is recorded as a span when set.
}

// Agent binds a model to the toolboxes it may use.
type Agent struct {
	name         string
	description  string
	instructions string
	completer    modeladapter.Completer
	chat         *chat.Chat
	toolboxes    []*toolbox.ToolBox
	options      Options
}

// New creates an Agent.
func New(name, description, instructions string, completer modeladapter.Completer, opts Options) *Agent {
	return &Agent{
		name:         name,
		description:  description,
		instructions: instructions,
		completer:    completer,
		chat:         chat.New(),
		options:      opts,
	}
}

// Name returns the agent's name.
func (a *Agent) Name() string { return a.name }

// AddToolBoxes makes the tools in tbs available to the model.
func (a *Agent) AddToolBoxes(tbs ...*toolbox.ToolBox) {
	a.toolboxes = append(a.toolboxes, tbs...)
}

// Init appends the system prompt if the chat does not have one yet.
func (a *Agent) Init() {
	if a.chat.SystemPrompt() != "" {
		return
	}

	if prompt := a.buildSystemPrompt(); prompt != "" {
		a.chat.Append(message.NewText(a.name, role.System, prompt))
	}
}

// Ask appends prompt as a user message, runs the loop and returns the text of
// the final reply.
func (a *Agent) Ask(ctx context.Context, prompt string) (string, error) {
	a.Init()
	a.chat.Append(message.NewText("user", role.User, prompt))

	reply, err := a.Run(ctx)
	if err != nil {
		return "", err
	}

	return reply.TextContent(), nil
}

// Run executes the loop with middleware applied.
func (a *Agent) Run(ctx context.Context) (message.Message, error) {
	var runner Runner = RunnerFunc(a.run)

	// Reverse order so the first middleware is outermost.
	for i := len(a.options.Middleware) - 1; i >= 0; i-- {
		runner = a.options.Middleware[i](runner)
	}

	return runner.Run(ctx)
}

func (a *Agent) run(ctx context.Context) (message.Message, error) {
	ctx = agentctx.WithAgentName(ctx, a.name)

	a.Init()

	var tools []toolbox.Tool
	for _, tb := range a.toolboxes {
		tools = append(tools, tb.Tools()...)
	}

	// failures counts, per tool, the consecutive model steps in which the
	// tool failed at least once.
	failures := make(map[string]int)

	for i := 0; a.options.MaxIterations == 0 || i < a.options.MaxIterations; i++ {
		reply, err := a.completer.Complete(ctx, a.chat, tools)
		if err != nil {
			return message.Message{}, err
		}

		reply.Sender = a.name
		a.chat.Append(reply)

		calls := reply.ToolCalls()
		if len(calls) == 0 {
			return reply, nil
		}

		failed := make(map[string]string, len(calls))
		var order []string

		for _, tc := range calls {
			result := a.callTool(ctx, tc)

			if result.IsError {
				if _, seen := failed[tc.Name]; !seen {
					order = append(order, tc.Name)
				}
				failed[tc.Name] = result.Content

				a.logDebug(ctx, "tool failed", "tool", tc.Name, "error", result.Content)

				result.Content += retryHint
			}

			a.chat.Append(message.New(a.name, role.Tool, result))
		}

		for _, tc := range calls {
			if _, ok := failed[tc.Name]; !ok {
				delete(failures, tc.Name)
			}
		}

		for _, name := range order {
			failures[name]++
			if failures[name] > a.options.ToolRetries {
				return message.Message{}, &ToolRetriesError{
					Tool:      name,
					Retries:   a.options.ToolRetries,
					LastError: failed[name],
				}
			}
		}
	}

	return message.Message{}, ErrMaxIterations
}

// callTool runs tc against the first toolbox that has it.
func (a *Agent) callTool(ctx context.Context, tc content.ToolCall) (result content.ToolResult) {
	a.logDebug(ctx, "tool call", "tool", tc.Name, "id", tc.ID, "arguments", tc.Arguments)

	if a.options.Tracer != nil {
		var span trace.Span
		ctx, span = a.options.Tracer.Start(ctx, "running tool", trace.WithAttributes(
			attribute.String("agent.name", a.name),
			attribute.String("gen_ai.tool.name", tc.Name),
			attribute.String("gen_ai.tool.call.id", tc.ID),
		))
		defer func() {
			if result.IsError {
				span.SetStatus(codes.Error, result.Content)
			}
			span.End()
		}()
	}

	for _, tb := range a.toolboxes {
		if _, ok := tb.Get(tc.Name); ok {
			return tb.Call(ctx, tc)
		}
	}

	return content.ToolResult{
		ToolCallID: tc.ID,
		Content:    fmt.Sprintf("tool not found: %s", tc.Name),
		IsError:    true,
	}
}

func (a *Agent) logDebug(ctx context.Context, msg string, args ...any) {
	if a.options.Logger == nil {
		return
	}
	a.options.Logger.DebugContext(ctx, msg, append([]any{"agent", a.name}, args...)...)
}

func (a *Agent) buildSystemPrompt() string {
	var b strings.Builder

	if a.description != "" {
		fmt.Fprintf(&b, "You are %s. %s\n", a.name, a.description)
	}

	if a.instructions != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(a.instructions)
	}

	return b.String()
}
