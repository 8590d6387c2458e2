package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/germanamz/wildlife/pkg/agentctx"
	"github.com/germanamz/wildlife/pkg/settings"
	"github.com/germanamz/wildlife/pkg/telemetry"
	"github.com/germanamz/wildlife/pkg/tools/mcpserver"
	"github.com/germanamz/wildlife/pkg/weather"
)

const serverVersion = "0.1.0"

func newServeCmd(root *rootOptions, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve get_lat_lng and get_weather over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, root.envFile)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), s, root.verbose, os.Stdin, os.Stdout, stderr)
		},
	}
}

func serve(ctx context.Context, s settings.Settings, verbose bool, in io.Reader, out, stderr io.Writer) error {
	log := newLogger(stderr, verbose)

	tp, err := setupTracing(ctx, s)
	if err != nil {
		return err
	}
	defer shutdownTracing(ctx, tp, log)

	client := telemetry.NewClient(log, tp, httpTimeout)
	defer client.CloseIdleConnections()

	deps := &weather.Deps{Client: client, Settings: s}

	srv := mcpserver.New(serviceName, serverVersion,
		mcpserver.WithLogger(log),
		mcpserver.WithContext(func(ctx context.Context) context.Context {
			return agentctx.WithDeps(ctx, deps)
		}),
	)
	srv.RegisterToolBox(weather.Tools())

	log.InfoContext(ctx, "serving tools over stdio", "settings", s.String())

	return srv.Serve(ctx, in, out)
}
