package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/germanamz/wildlife/pkg/chats/message"
	"github.com/germanamz/wildlife/pkg/modeladapter"
)

// Runner executes agent logic and returns the final message.
type Runner interface {
	Run(ctx context.Context) (message.Message, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context) (message.Message, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context) (message.Message, error) {
	return f(ctx)
}

// Middleware wraps a Runner.
type Middleware func(next Runner) Runner

// Timeout bounds the whole run by d.
func Timeout(d time.Duration) Middleware {
	return func(next Runner) Runner {
		return RunnerFunc(func(ctx context.Context) (message.Message, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			return next.Run(ctx)
		})
	}
}

// Recovery turns a panic inside the run into an error.
func Recovery() Middleware {
	return func(next Runner) Runner {
		return RunnerFunc(func(ctx context.Context) (msg message.Message, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("agent panicked: %v", r)
				}
			}()

			return next.Run(ctx)
		})
	}
}

// Logger logs the start, duration and outcome of a run. When reporter is not
// nil the model's token usage is included.
func Logger(log *slog.Logger, name string, reporter modeladapter.UsageReporter) Middleware {
	return func(next Runner) Runner {
		return RunnerFunc(func(ctx context.Context) (message.Message, error) {
			log.InfoContext(ctx, "agent started", "agent", name)

			start := time.Now()

			msg, err := next.Run(ctx)

			attrs := []any{"agent", name, "duration", time.Since(start)}
			if reporter != nil {
				attrs = append(attrs, "tokens", reporter.UsageTracker().Total())
			}

			if err != nil {
				log.ErrorContext(ctx, "agent finished with error", append(attrs, "error", err)...)
			} else {
				log.InfoContext(ctx, "agent finished", attrs...)
			}

			return msg, err
		})
	}
}

// Tracing wraps the run in a span named after the agent.
func Tracing(tracer trace.Tracer, name string) Middleware {
	return func(next Runner) Runner {
		return RunnerFunc(func(ctx context.Context) (message.Message, error) {
			ctx, span := tracer.Start(ctx, "agent run", trace.WithAttributes(
				attribute.String("agent.name", name),
			))
			defer span.End()

			msg, err := next.Run(ctx)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}

			return msg, err
		})
	}
}
