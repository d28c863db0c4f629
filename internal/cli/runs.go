package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/procgen/internal/runlog"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Long: `List runs recorded by "procgen init --db", most recent first.

Example:
  procgen runs --db runs.db
  procgen runs --db runs.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", envOr(EnvDatabase, ""), "SQLite run log")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show at most this many runs (0 for all)")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.Database == "" {
		return formatter.Fail("listing runs failed", &usageError{
			code:    ErrCodeUsage,
			message: fmt.Sprintf("no run log: pass --db or set %s", EnvDatabase),
		})
	}

	log, err := runlog.Open(opts.Database)
	if err != nil {
		return formatter.Fail("listing runs failed", err)
	}
	defer log.Close()

	runs, err := log.List(cmd.Context(), opts.Limit)
	if err != nil {
		return formatter.Fail("listing runs failed", err)
	}
	return formatter.Success(runsOutput(runs))
}

// runsOutput is the reported form of a run listing.
type runsOutput []runlog.Run

func (o runsOutput) Text() string {
	if len(o) == 0 {
		return "no runs recorded\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tID\tSEED\tPROVENANCE\tDEVICE\tCREATED")
	for _, r := range o {
		dev := r.DeviceMode
		if r.DeviceKind != "" {
			dev += "/" + r.DeviceKind
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			r.Seq, r.ID, r.Seed, r.Provenance, dev, r.CreatedAt.Format(time.RFC3339))
	}
	w.Flush()
	return b.String()
}
