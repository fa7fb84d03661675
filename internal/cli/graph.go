package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repobom/pkg/errors"
	"github.com/matzehuels/repobom/pkg/render"
)

// newGraphCmd creates the graph command: scan, then render the ledger
// as a bipartite provenance graph.
func newGraphCmd() *cobra.Command {
	var (
		output  string
		dotOnly bool
	)
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "graph <directory>",
		Short: "Render the bill of materials as a provenance graph",
		Long: `Render the scanned ledger as a bipartite graph: repositories on one
side, packages on the other, one edge per distinct dependency.

By default the graph is rendered to SVG in-process. Use --dot to write
the Graphviz DOT source instead, e.g. for further processing with the
graphviz toolchain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args[0], flags, output, dotOnly)
		},
	}

	addTreeFlags(cmd, flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: sbom.svg in the scanned directory)")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "write Graphviz DOT source instead of rendering SVG")

	return cmd
}

func runGraph(cmd *cobra.Command, root string, f *scanFlags, output string, dotOnly bool) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, root, f)
	if err != nil {
		return err
	}

	printInfo("Scanning %s", StyleHighlight.Render(cfg.Root))
	result, _, err := scanTree(ctx, cfg, false)
	if err != nil {
		return err
	}

	if len(result.Records) == 0 {
		printWarning("no dependency records found under %s", cfg.Root)
	}

	dot := render.ToDOT(cfg.Root, result.Records)

	if output == "" {
		name := "sbom.svg"
		if dotOnly {
			name = "sbom.dot"
		}
		output = filepath.Join(cfg.OutputDir(), name)
	}

	data := []byte(dot)
	if !dotOnly {
		spinner := newSpinnerWithContext(ctx, "Rendering graph...")
		spinner.Start()
		data, err = render.RenderSVG(dot)
		spinner.Stop()
		if err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "render graph for %s", cfg.Root)
		}
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered %d records from %d repositories", len(result.Records), result.Summary.Repositories)
	printFile(output)

	return nil
}
