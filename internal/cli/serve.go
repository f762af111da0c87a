package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"btc-advisor/internal/server"
)

// addServeCommands adds the HTTP server command.
func addServeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newServeCmd(app))
}

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis form and market summary over HTTP",
		Long: `Start an HTTP server exposing:
  POST /api/v1/analyze   score a snapshot
  POST /api/v1/summary   refresh the market summary
  GET  /api/v1/summary   latest market summary
  GET  /health           liveness
  GET  /metrics          Prometheus metrics`,
		Example: `  advisor serve
  advisor serve --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Config.Server.Addr
			}

			sc := app.Config.Server
			srv := server.New(server.Config{
				Addr:                 addr,
				ReadTimeout:          sc.ReadTimeout,
				WriteTimeout:         sc.WriteTimeout,
				SummaryRatePerMinute: sc.SummaryRatePerMinute,
				SummaryBurst:         sc.SummaryBurst,
				Asset:                app.Config.Analysis.Asset,
			}, app.Summarizer, app.Logger)

			if app.Summarizer == nil {
				output.Warning("No LLM API key configured, market summary endpoints will answer 503")
			}
			output.Info("Listening on http://%s", addr)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config)")

	return cmd
}
