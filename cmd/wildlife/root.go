package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/germanamz/wildlife/pkg/naturalist"
	"github.com/germanamz/wildlife/pkg/providers/anthropic"
	"github.com/germanamz/wildlife/pkg/settings"
	"github.com/germanamz/wildlife/pkg/telemetry"
	"github.com/germanamz/wildlife/pkg/weather"
)

const (
	// httpTimeout bounds a single outbound request.
	httpTimeout = 2 * time.Minute
	// flushTimeout bounds the final span export.
	flushTimeout = 5 * time.Second

	serviceName = "wildlife"
	tracerName  = "github.com/germanamz/wildlife"
)

type rootOptions struct {
	envFile   string
	agentFile string
	prompt    string
	verbose   bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "wildlife",
		Short: "Ask a naturalist agent about the weather where wildlife lives",
		Long: `wildlife runs a naturalist agent that looks up locations and the weather
there through two HTTP tool endpoints, then prints a one-sentence answer.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, opts.envFile)
			if err != nil {
				return err
			}

			return run(cmd.Context(), s, opts, stdout, newLogger(stderr, opts.verbose))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env", settings.DefaultEnvFile, "path to .env file (ignored if missing)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	cmd.Flags().StringVar(&opts.agentFile, "agent", "", "YAML file overriding the built-in agent definition")
	cmd.Flags().StringVarP(&opts.prompt, "prompt", "p", "", "question to ask instead of the definition's prompt")

	cmd.AddCommand(newServeCmd(opts, stderr))

	return cmd
}

// loadSettings uses the process-wide cached settings unless --env points
// somewhere else.
func loadSettings(cmd *cobra.Command, envFile string) (settings.Settings, error) {
	if cmd.Flags().Changed("env") {
		return settings.Load(envFile)
	}
	return settings.Get()
}

func run(ctx context.Context, s settings.Settings, opts *rootOptions, out io.Writer, log *slog.Logger) error {
	def, err := naturalist.LoadDefinition(opts.agentFile)
	if err != nil {
		return err
	}

	prompt := def.Prompt
	if opts.prompt != "" {
		prompt = opts.prompt
	}

	tp, err := setupTracing(ctx, s)
	if err != nil {
		return err
	}
	defer shutdownTracing(ctx, tp, log)

	client := telemetry.NewClient(log, tp, httpTimeout)
	defer client.CloseIdleConnections()

	model := anthropic.New(strings.TrimRight(s.AnthropicBaseURL, "/"), s.AnthropicAPIKey, s.ModelName, client)

	log.DebugContext(ctx, "settings loaded", "settings", s.String())

	a := naturalist.New(def, model, log, tp.Tracer(tracerName))

	answer, err := naturalist.Run(ctx, a, prompt, &weather.Deps{Client: client, Settings: s})
	if err != nil {
		return fmt.Errorf("wildlife: %w", err)
	}

	_, err = fmt.Fprintf(out, "Response: %s\n", answer)
	return err
}

func setupTracing(ctx context.Context, s settings.Settings) (*sdktrace.TracerProvider, error) {
	return telemetry.Setup(ctx, telemetry.Config{
		ServiceName: serviceName,
		BaseURL:     s.LogfireBaseURL,
		Token:       s.LogfireToken,
	})
}

// shutdownTracing flushes spans even when ctx is already cancelled. Export
// failures are logged and never change the exit status.
func shutdownTracing(ctx context.Context, tp *sdktrace.TracerProvider, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()

	if err := tp.Shutdown(ctx); err != nil {
		log.WarnContext(ctx, "trace export failed", "error", err)
	}
}
