package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/procgen/internal/seed"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Tasks []string
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed [token]",
		Short: "Resolve a seed token to its integer seed",
		Long: `Resolve a seed token the way a generation run would.

A token that reads as hexadecimal is parsed as such ("123" is 0x123). Any
other token is hashed. Without a token a random seed is chosen, which is only
allowed when the tasks start a new scene.

Example:
  procgen seed 3fa1
  procgen seed forest-valley
  procgen seed --task render 3fa1`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Tasks, "task", nil, "pipeline tasks the run executes (repeatable)")

	return cmd
}

func runSeed(opts *SeedOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	fresh, err := freshGeneration(opts.Tasks)
	if err != nil {
		return formatter.Fail("invalid task list", err)
	}

	var raw *string
	if len(args) == 1 {
		raw = &args[0]
	}
	res, err := resolveSeed(cmd.Context(), logger, raw, fresh, nil, nil)
	if err != nil {
		return formatter.Fail("seed resolution failed", err)
	}
	return formatter.Success(newSeedOutput(res))
}

// seedOutput is the reported form of a resolved seed.
type seedOutput struct {
	Raw        *string `json:"raw"`
	Seed       uint64  `json:"seed"`
	Hex        string  `json:"hex"`
	Provenance string  `json:"provenance"`
}

func newSeedOutput(res seed.Result) seedOutput {
	return seedOutput{
		Raw:        res.Raw,
		Seed:       res.Value,
		Hex:        fmt.Sprintf("%x", res.Value),
		Provenance: res.Provenance.String(),
	}
}

func (o seedOutput) Text() string {
	return fmt.Sprintf("seed: %d (0x%s)\nprovenance: %s\n", o.Seed, o.Hex, o.Provenance)
}
