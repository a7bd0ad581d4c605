package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/boardexport/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP export API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		noCache      bool
		offline      bool
		allowedHosts []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the export API over HTTP",
		Long: `Serve the export API over HTTP.

  POST /api/v1/export/{format}   export the boards in the JSON body
  GET  /api/v1/formats           list the supported formats
  GET  /healthz                  liveness check

Asset, translation, timeout, cache, and fetch settings come from the config
file. Image URLs in request bodies are fetched by the server; restrict them
with --allow-host or turn fetching off with --offline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("offline") {
				cfg.Fetch.Offline = offline
			}
			if cmd.Flags().Changed("allow-host") {
				cfg.Fetch.AllowedHosts = allowedHosts
			}
			ctx := cmd.Context()

			translate, err := cfg.translator()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, server.Options{
				Resources:  cfg.resources(),
				Translate:  translate,
				Rasterizer: rasterizer(ctx),
				Timeout:    timeoutOr(cfg.Timeout.Duration),
				Logger:     loggerFromContext(ctx),
			})
			printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the image cache")
	cmd.Flags().BoolVar(&offline, "offline", false, "never fetch remote images")
	cmd.Flags().StringSliceVar(&allowedHosts, "allow-host", nil, "only fetch images from these hosts (repeatable)")

	return cmd
}
