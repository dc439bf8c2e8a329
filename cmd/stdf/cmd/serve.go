/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/stdfkit/pkg/api"
	"github.com/ssargent/stdfkit/pkg/di"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the STDF REST API server. Streams posted to /api/v1/decode are decoded
on the fly; files registered with the index are browsable under /api/v1/files.
Prometheus metrics are served on /metrics.

Examples:
  stdf serve
  stdf serve --port 9000 --api-key mysecretkey
  stdf serve --no-index`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			return errors.New("dependency container not initialized")
		}
		cfg := container.Config()
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Server.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Server.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		noIndex, _ := cmd.Flags().GetBool("no-index")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Server.APIKey == "" {
			cmd.Printf("⚠️  No API key configured, the API is open\n")
		}
		cmd.Printf("🚀 Starting STDF server on %s:%d\n", cfg.Server.Bind, cfg.Server.Port)
		return runServer(ctx, container, !noIndex)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key for authentication (default: from config)")
	serveCmd.Flags().Bool("no-index", false, "Serve decoding only, without the record index")
}

func runServer(ctx context.Context, c *di.Container, withIndex bool) error {
	var idx api.IRecordIndex
	if withIndex {
		opened, err := c.Index()
		if err != nil {
			return errors.Wrap(err, "failed to open index")
		}
		idx = opened
	}

	server := c.GetServerFactory().CreateServer(idx, c.Registry(), c.ServerConfig(), c.Metrics(), c.Logger())
	return server.ListenAndServe(ctx, c.Gatherer())
}
