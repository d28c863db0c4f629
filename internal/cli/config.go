package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/procgen/internal/ginconf"
	"github.com/roach88/procgen/internal/resolve"
)

// ConfigOptions holds flags for config resolution, shared by the config
// and init commands.
type ConfigOptions struct {
	*RootOptions
	RepoRoot         string
	ConfigsFolder    string
	Configs          []string
	Overrides        []string
	MandatoryFolders []string
	ExclusiveFolders []string
	Schema           string
	SkipUnknown      bool
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Resolve and merge .gin configs",
		Long: `Find the requested .gin configs, check folder constraints, and print the
merged configuration.

base.gin is always loaded first. Configs are looked up by file stem in the
configs folder, then the repository root, then the working directory.
Overrides are applied last; bare-word values are quoted for you.

Every binding must be read by a known configurable: the ones procgen
consumes plus those declared in the schema file (procgen.schema.yaml under
the repository root, or --schema). --skip-unknown turns the check off.

Example:
  procgen config -g forest -g fast_solve -p compose_scene.trees_chance=0.5
  procgen config -g forest --exclusive-folder configs/scene_types`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(opts, cmd)
		},
	}

	addConfigFlags(cmd, opts)

	return cmd
}

func addConfigFlags(cmd *cobra.Command, opts *ConfigOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.RepoRoot, "repo-root", envOr(EnvRepoRoot, "."), "repository root for relative folders")
	f.StringVar(&opts.ConfigsFolder, "configs-folder", envOr(EnvConfigsFolder, "configs"), "folder holding the .gin configs")
	f.StringArrayVarP(&opts.Configs, "config", "g", nil, "config to load, by name or path (repeatable)")
	f.StringArrayVarP(&opts.Overrides, "override", "p", nil, "binding override key=value (repeatable)")
	f.StringArrayVar(&opts.MandatoryFolders, "mandatory-folder", nil, "folder that must contribute a config (repeatable)")
	f.StringArrayVar(&opts.ExclusiveFolders, "exclusive-folder", nil, "folder that may contribute at most one config (repeatable)")
	f.StringVar(&opts.Schema, "schema", envOr(EnvSchema, ""), "YAML file declaring the configurables that read bindings")
	f.BoolVar(&opts.SkipUnknown, "skip-unknown", false, "ignore bindings no configurable consumes")
}

func runConfig(opts *ConfigOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	resolved, err := resolveConfig(cmd.Context(), logger, opts, ginconf.NewStore())
	if err != nil {
		return formatter.Fail("config resolution failed", err)
	}
	return formatter.Success(newConfigOutput(resolved))
}

// configOutput is the reported form of a resolved configuration.
type configOutput struct {
	Files     []string          `json:"files"`
	Overrides []string          `json:"overrides"`
	Bindings  map[string]string `json:"bindings"`
	Dump      string            `json:"-"`
}

func newConfigOutput(res *resolve.Resolved) configOutput {
	out := configOutput{
		Files:     res.Files,
		Overrides: res.Overrides,
		Bindings:  make(map[string]string, res.Store.Len()),
		Dump:      res.Store.Dump(),
	}
	for _, key := range res.Store.Keys() {
		v, _ := res.Store.Get(key)
		out.Bindings[key] = ginconf.FormatValue(v)
	}
	return out
}

func (o configOutput) Text() string {
	var b strings.Builder
	b.WriteString("files:\n")
	for _, f := range o.Files {
		b.WriteString("  " + f + "\n")
	}
	if len(o.Overrides) > 0 {
		b.WriteString("overrides:\n")
		for _, ov := range o.Overrides {
			b.WriteString("  " + ov + "\n")
		}
	}
	b.WriteString(o.Dump)
	return b.String()
}
