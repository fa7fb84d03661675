package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repobom/pkg/store"
)

// newPublishCmd creates the publish command: scan, then store the run
// in a MongoDB inventory.
func newPublishCmd() *cobra.Command {
	var (
		uri      string
		database string
		timeout  time.Duration
	)
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "publish <directory>",
		Short: "Scan and store the run in a MongoDB inventory",
		Long: `Scan the directory tree and publish the result to MongoDB.

Each publish writes one document to the runs collection (root, counts,
timestamps, tool version) and one document per record to the records
collection, tagged with the run ID. Repeated publishes of the same tree
accumulate as separate runs, so the inventory keeps history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, args[0], flags, uri, database, timeout)
		},
	}

	addTreeFlags(cmd, flags)
	cmd.Flags().StringVar(&uri, "uri", "", "MongoDB connection string (e.g. mongodb://localhost:27017)")
	cmd.Flags().StringVar(&database, "database", store.DefaultDatabase, "database name")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "connection timeout")
	_ = cmd.MarkFlagRequired("uri")

	return cmd
}

func runPublish(cmd *cobra.Command, root string, f *scanFlags, uri, database string, timeout time.Duration) error {
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

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	spinner := newSpinnerWithContext(ctx, "Connecting to "+uri+"...")
	spinner.Start()
	st, err := store.Connect(connectCtx, uri, database)
	if err != nil {
		spinner.StopWithError("Connection failed")
		return err
	}
	spinner.Stop()
	defer func() { _ = st.Close(context.Background()) }()

	run := store.NewRun(result, version, time.Now().UTC())
	if err := st.SaveRun(ctx, run, result.Records); err != nil {
		return err
	}

	printSuccess("Published %d records", len(result.Records))
	printKeyValue("run", run.ID)
	printKeyValue("database", database)

	return nil
}
