package cli

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlesize/internal/server"
	bserrors "github.com/matzehuels/bundlesize/pkg/errors"
	"github.com/matzehuels/bundlesize/pkg/observability"
)

// serveCommand creates the serve command exposing the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		workspaces string
		noMetrics  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve size lookups and annotations over HTTP",
		Long: `Start an HTTP server exposing the annotation pipeline as JSON.

Endpoints:
  POST /v1/annotate?root=DIR   annotate the package.json in the request body
  GET  /v1/size/{query}        size of one "name@version" query
  POST /v1/sizes               sizes of a JSON list of queries
  GET  /v1/links/{query}       npm and repository links of a pinned query
  GET  /v1/stats               coordinator statistics
  GET  /healthz                liveness
  GET  /metrics                Prometheus metrics

The root parameter of /v1/annotate must name a directory inside --workspaces
(the current directory by default); other roots are rejected with 403.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if workspaces == "" {
				return bserrors.New(bserrors.ErrCodeInvalidInput, "--workspaces must not be empty")
			}
			base, err := filepath.Abs(workspaces)
			if err != nil {
				return bserrors.Wrap(bserrors.ErrCodeInvalidInput, err, "workspaces %s", workspaces)
			}

			cfg, _, err := c.loadConfig()
			if err != nil {
				return err
			}

			var metrics http.Handler
			if !noMetrics {
				hooks := observability.NewPrometheusHooks(nil)
				observability.SetAnnotateHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
				defer observability.Reset()
				metrics = hooks.Handler()
			}

			rt, err := c.newRuntime(ctx, cfg, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			srv := server.New(rt.annotator, rt.coordinator, server.Options{
				Addr:       addr,
				Logger:     c.Logger,
				Metrics:    metrics,
				Workspaces: base,
			})
			printInfo("Serving on %s", StyleValue.Render(addr))
			printKeyValue("Concurrency", strconv.Itoa(cfg.MaxConcurrentRequests))
			printKeyValue("Cache", cfg.Cache.Backend)
			printKeyValue("Workspaces", base)
			if metrics != nil {
				printKeyValue("Metrics", "/metrics")
			}
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&workspaces, "workspaces", ".", "directory that annotate roots must lie in")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")

	return cmd
}
