package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/letterpress/internal/server"
	lperrors "github.com/matzehuels/letterpress/pkg/errors"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, backend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the hanging filter over HTTP.

Endpoints:
  POST /v1/hang       {"text": "...", "escape": false, "markdown": false}
  POST /v1/hang/raw   fragment body, ?escape=1&markdown=1
  GET  /v1/glyphs     glyph table
  GET  /healthz       liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if backend != "" {
				if err := lperrors.ValidateCacheBackend(backend); err != nil {
					return err
				}
			}
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			spinner := newSpinnerWithContext(ctx, "Opening cache...")
			spinner.Start()
			runner, err := c.newRunner(ctx, false, backend)
			if err != nil {
				spinner.StopWithError("Cache unavailable")
				return err
			}
			spinner.Stop()
			defer runner.Close()

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			if b := c.cacheOptions(backend).Backend; b == lperrors.BackendNone {
				printWarning("Caching disabled")
			} else {
				printDetail("cache: %s", b)
			}

			srv := server.New(runner, logger, server.Config{
				Addr:           addr,
				RequestTimeout: c.Config.Server.RequestTimeout.Duration,
				MaxInputBytes:  c.Config.Filter.MaxInputBytes,
				Markdown:       c.Config.Filter.Markdown,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend override: none, file, redis, mongo")

	return cmd
}
