package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/geodome/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

  GET  /healthz            liveness and version
  GET  /v1/config/default  built-in configuration
  POST /v1/layouts         {"config": {...}, "geometry": {...}} -> layout document

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
			return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// displayAddr turns a listen address into something a browser accepts.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
