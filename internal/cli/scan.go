package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repobom/pkg/config"
	"github.com/matzehuels/repobom/pkg/sbom"
	"github.com/matzehuels/repobom/pkg/scan"
)

// scanFlags holds the flag values shared by every scanning command.
// Only flags the user actually set override the loaded config.
type scanFlags struct {
	configPath  string
	output      string
	formats     []string
	ignore      []string
	workers     int
	gitTimeout  time.Duration
	interactive bool
	quiet       bool
}

// addScanFlags registers the scan flag set on cmd.
func addScanFlags(cmd *cobra.Command, f *scanFlags) {
	addTreeFlags(cmd, f)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output directory (default: the scanned directory)")
	cmd.Flags().StringSliceVarP(&f.formats, "format", "f", nil, "output format(s): csv, json, cyclonedx (comma-separated)")
	cmd.Flags().BoolVar(&f.interactive, "interactive", false, "pick the repositories to scan interactively")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress the summary output")
}

// addTreeFlags registers the discovery flags every scanning subcommand
// shares.
func addTreeFlags(cmd *cobra.Command, f *scanFlags) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a repobom.toml config file")
	cmd.Flags().StringSliceVar(&f.ignore, "ignore", nil, "directory names skipped during repository discovery")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "repositories scanned concurrently (default: CPU count)")
	cmd.Flags().DurationVar(&f.gitTimeout, "git-timeout", 0, "timeout per git revision lookup")
}

// loadConfig loads the configuration for root and overlays any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command, root string, f *scanFlags) (config.Config, error) {
	cfg, err := config.Load(root, f.configPath)
	if err != nil {
		return cfg, err
	}

	fl := cmd.Flags()
	if fl.Changed("output") {
		cfg.Output = f.output
	}
	if fl.Changed("format") {
		formats, err := config.ParseFormats(f.formats)
		if err != nil {
			return cfg, err
		}
		cfg.Formats = formats
	}
	if fl.Changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("git-timeout") {
		cfg.GitTimeout = f.gitTimeout
	}

	return cfg, cfg.Validate()
}

// runScan implements the root command: scan the tree and export the
// configured formats.
func runScan(cmd *cobra.Command, root string, f *scanFlags) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, root, f)
	if err != nil {
		return err
	}

	printInfo("Scanning %s", StyleHighlight.Render(cfg.Root))

	result, aborted, err := scanTree(ctx, cfg, f.interactive)
	if err != nil {
		return err
	}
	if aborted {
		printDetail("No selection made")
		return nil
	}

	if len(result.Records) == 0 {
		printWarning("no dependency records found under %s", cfg.Root)
	}

	paths, err := exportAll(cfg, result)
	if err != nil {
		return err
	}

	if !f.quiet {
		printSummary(result.Summary)
	}
	printNewline()
	printSuccess("Exported %d records", len(result.Records))
	for _, p := range paths {
		printFile(p)
	}
	if !f.quiet {
		printNewline()
		printNextStep("Serve the ledger", "repobom serve "+root)
	}

	return nil
}

// scanTree discovers and scans the repositories under cfg.Root. With
// interactive set, a picker narrows the discovered set first; aborted
// reports that the user quit the picker without confirming.
func scanTree(ctx context.Context, cfg config.Config, interactive bool) (result *scan.Result, aborted bool, err error) {
	logger := loggerFromContext(ctx)

	scanner := scan.New(cfg.Root, nil, scan.Options{
		Ignore:     cfg.Ignore,
		Workers:    cfg.Workers,
		GitTimeout: cfg.GitTimeout,
		Logger:     logger.Warnf,
	})

	repos, err := scanner.Discover()
	if err != nil {
		return nil, false, err
	}
	logger.Debugf("discovered %d repositories under %s", len(repos), cfg.Root)

	if interactive && len(repos) > 0 {
		var ok bool
		repos, ok, err = pickRepositories(cfg.Root, repos)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, true, nil
		}
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Scanning %d repositories...", len(repos)))
	spinner.Start()
	result, err = scanner.Scan(ctx, repos)
	spinner.Stop()
	if err != nil {
		return nil, false, err
	}
	prog.done(fmt.Sprintf("Scanned %d repositories", len(repos)))

	return result, false, nil
}

// pickRepositories runs the interactive picker over the discovered
// repositories. ok is false when the user quit without confirming.
func pickRepositories(root string, repos []string) (dirs []string, ok bool, err error) {
	items := make([]repoItem, 0, len(repos))
	for _, dir := range repos {
		items = append(items, repoItem{
			Dir:       dir,
			Rel:       relPath(root, dir),
			Manifests: manifestsIn(dir),
		})
	}

	p := tea.NewProgram(NewRepoPickerModel(items))
	final, err := p.Run()
	if err != nil {
		return nil, false, err
	}

	m, isModel := final.(RepoPickerModel)
	if !isModel || !m.Confirmed {
		return nil, false, nil
	}
	return m.Selected(), true, nil
}

// relPath renders dir relative to root for display, falling back to the
// base name when dir is the root itself.
func relPath(root, dir string) string {
	if rel, err := filepath.Rel(root, dir); err == nil && rel != "." {
		return rel
	}
	return filepath.Base(dir)
}

// manifestsIn lists the conventional manifest files present in dir.
func manifestsIn(dir string) []string {
	var names []string
	for _, name := range scan.ManifestFilenames() {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			names = append(names, name)
		}
	}
	return names
}

// exportAll writes every configured format into the output directory and
// returns the written paths.
func exportAll(cfg config.Config, result *scan.Result) ([]string, error) {
	outDir := cfg.OutputDir()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", outDir, err)
	}

	paths := make([]string, 0, len(cfg.Formats))
	for _, f := range cfg.Formats {
		path := filepath.Join(outDir, f.Filename())

		var err error
		switch f {
		case sbom.FormatCSV:
			err = sbom.ExportCSV(path, result.Records)
		case sbom.FormatJSON:
			err = sbom.ExportJSON(path, result.Records)
		case sbom.FormatCycloneDX:
			bom := sbom.NewCycloneDX(cfg.Root, version, result.Records, time.Now().UTC())
			err = sbom.ExportCycloneDX(path, bom)
		}
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}
