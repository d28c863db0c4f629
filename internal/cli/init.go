package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/procgen/internal/addon"
	"github.com/roach88/procgen/internal/ginconf"
	"github.com/roach88/procgen/internal/runlog"
	"github.com/roach88/procgen/internal/seed"
)

// UseGPUKey is the binding that turns GPU rendering on or off.
const UseGPUKey = "configure_cycles_devices.use_gpu"

// InitOptions holds flags for the init command.
type InitOptions struct {
	ConfigOptions
	Seed      string
	Tasks     []string
	Catalog   string
	CPU       bool
	AddonsDir string
	Database  string
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{ConfigOptions: ConfigOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up a generation run",
		Long: `Set up a generation run in one step: resolve the seed and publish it as
%OVERALL_SEED, merge the configs, select render devices, and enable the
default add-ons. With --db the run is recorded in the run log.

GPU rendering follows the configure_cycles_devices.use_gpu binding
(default True); --cpu forces CPU rendering.

Example:
  procgen init --seed forest -g forest -g fast_solve --catalog devices.yaml
  procgen init --seed 3fa1 --task render --db runs.db --cpu`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw *string
			if cmd.Flags().Changed("seed") {
				raw = &opts.Seed
			}
			return runInit(opts, raw, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Seed, "seed", "", "seed token (hex or any string); random when omitted")
	cmd.Flags().StringSliceVar(&opts.Tasks, "task", nil, "pipeline tasks the run executes (repeatable)")
	addConfigFlags(cmd, &opts.ConfigOptions)
	addDeviceFlags(cmd, &opts.Catalog, &opts.CPU)
	cmd.Flags().StringVar(&opts.AddonsDir, "addons-dir", envOr(EnvAddonsDir, "addons"), "directory add-ons are installed in")
	cmd.Flags().StringVar(&opts.Database, "db", envOr(EnvDatabase, ""), "SQLite run log to record the run in")

	return cmd
}

func runInit(opts *InitOptions, raw *string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	fresh, err := freshGeneration(opts.Tasks)
	if err != nil {
		return formatter.Fail("invalid task list", err)
	}

	store := ginconf.NewStore()
	gens := seed.NewGenerators()
	seedRes, err := resolveSeed(ctx, logger, raw, fresh, store, gens)
	if err != nil {
		return formatter.Fail("seed resolution failed", err)
	}

	resolved, err := resolveConfig(ctx, logger, &opts.ConfigOptions, store)
	if err != nil {
		return formatter.Fail("config resolution failed", err)
	}

	useGPU, err := store.Bool(UseGPUKey, true)
	if err != nil {
		return formatter.Fail("config resolution failed", err)
	}
	if opts.CPU {
		useGPU = false
	}
	backend, err := loadBackend(opts.Catalog, useGPU)
	if err != nil {
		return formatter.Fail("device selection failed", err)
	}
	sel, err := selectDevices(ctx, logger, backend, useGPU)
	if err != nil {
		return formatter.Fail("device selection failed", err)
	}

	addons := addon.EnableAll(logger, &addon.DirEnabler{Root: opts.AddonsDir}, addon.DefaultAddons)

	out := initOutput{
		Seed:    newSeedOutput(seedRes),
		Config:  newConfigOutput(resolved),
		Devices: selectionOutput{sel},
		Addons:  addons,
	}

	if opts.Database != "" {
		run, err := recordRun(cmd, opts.Database, runlog.Run{
			RawSeed:    seedRes.Raw,
			Seed:       seedRes.Value,
			Provenance: seedRes.Provenance.String(),
			Configs:    resolved.Files,
			Overrides:  resolved.Overrides,
			ConfigDump: store.Dump(),
			DeviceMode: string(sel.Mode),
			DeviceKind: string(sel.Kind),
			Devices:    deviceNames(sel.Enabled),
			Addons:     addons,
		})
		if err != nil {
			return formatter.Fail("recording run failed", err)
		}
		logger.Info("run recorded", "id", run.ID, "seq", run.Seq, "db", opts.Database)
		out.RunID = run.ID
	}

	return formatter.Success(out)
}

func recordRun(cmd *cobra.Command, path string, r runlog.Run) (runlog.Run, error) {
	log, err := runlog.Open(path)
	if err != nil {
		return runlog.Run{}, err
	}
	defer log.Close()
	return log.Record(cmd.Context(), r)
}

// initOutput is the reported form of a fully set up run.
type initOutput struct {
	RunID   string          `json:"run_id,omitempty"`
	Seed    seedOutput      `json:"seed"`
	Config  configOutput    `json:"config"`
	Devices selectionOutput `json:"devices"`
	Addons  []string        `json:"addons"`
}

func (o initOutput) Text() string {
	var b strings.Builder
	if o.RunID != "" {
		fmt.Fprintf(&b, "run: %s\n", o.RunID)
	}
	b.WriteString(o.Seed.Text())
	b.WriteString(o.Devices.Text())
	fmt.Fprintf(&b, "addons: %s\n", strings.Join(o.Addons, ", "))
	b.WriteString(o.Config.Text())
	return b.String()
}
