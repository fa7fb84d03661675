package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repobom/pkg/server"
)

// newServeCmd creates the serve command: scan once, then expose the
// result over HTTP until interrupted.
func newServeCmd() *cobra.Command {
	var addr string
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "serve <directory>",
		Short: "Scan once and serve the bill of materials over HTTP",
		Long: `Scan the directory tree and serve the resulting ledger over HTTP.

The scan runs once at startup; the server exposes that snapshot until it
is interrupted. Endpoints:

  GET /healthz        liveness probe
  GET /api/records    the record ledger as JSON
  GET /api/summary    scan statistics
  GET /sbom.csv       CSV export
  GET /sbom.json      JSON export
  GET /sbom.cdx.json  CycloneDX export`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args[0], flags, addr)
		},
	}

	addTreeFlags(cmd, flags)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

func runServe(cmd *cobra.Command, root string, f *scanFlags, addr string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(cmd, root, f)
	if err != nil {
		return err
	}

	printInfo("Scanning %s", StyleHighlight.Render(cfg.Root))
	result, _, err := scanTree(ctx, cfg, false)
	if err != nil {
		return err
	}

	srv := server.New(result, server.Options{
		Addr:    addr,
		Version: version,
		Logf:    logger.Debugf,
	})

	printSuccess("Serving %d records", len(result.Records))
	printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
	printDetail("GET /sbom.csv  /sbom.json  /sbom.cdx.json")
	printDetail("GET /api/records  /api/summary  /healthz")

	return srv.Run(ctx)
}

// displayAddr makes a bare ":port" listen address printable.
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
