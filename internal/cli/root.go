package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with values
// injected via ldflags at build time.
//
// Parameters:
//   - v: semantic version string (e.g., "v1.2.3")
//   - c: git commit SHA (short or long form)
//   - d: build timestamp (e.g., "2025-12-20T14:32:01Z")
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the repobom CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The root command is the scan itself: it takes one directory argument,
// inventories every git repository below it, and exports the combined
// bill of materials. Subcommands (serve, graph, publish, completion)
// build on the same scan.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
//
// Example:
//
//	func main() {
//	    cli.SetVersion("v1.0.0", "abc123", "2025-12-20")
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	var verbose bool
	flags := &scanFlags{}

	root := &cobra.Command{
		Use:   "repobom <directory>",
		Short: "repobom inventories the dependencies of every git repository under a directory",
		Long: `repobom walks a directory tree, finds every git repository, parses the
dependency manifests it knows (requirements.txt, package.json,
package-lock.json), and writes one combined bill of materials with the
declaring file and git revision attached to every record.`,
		Version: version,
		Args:    cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Runs after argument validation, so usage is still printed
			// for usage errors but not for command failures.
			cmd.SilenceUsage = true

			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], flags)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("repobom %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	addScanFlags(root, flags)

	root.AddCommand(newServeCmd())
	root.AddCommand(newGraphCmd())
	root.AddCommand(newPublishCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
