package cli

import "os"

// Environment variables that supply flag defaults.
const (
	EnvRepoRoot      = "PROCGEN_REPO_ROOT"
	EnvConfigsFolder = "PROCGEN_CONFIGS_FOLDER"
	EnvDeviceCatalog = "PROCGEN_DEVICE_CATALOG"
	EnvAddonsDir     = "PROCGEN_ADDONS_DIR"
	EnvDatabase      = "PROCGEN_DB"
	EnvSchema        = "PROCGEN_SCHEMA"
)

func envOr(name, def string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return def
}

// HostArgs returns the arguments addressed to procgen. A host program that
// embeds procgen passes its own arguments first and procgen's after the
// first "--"; without a separator every argument is procgen's.
func HostArgs(args []string) []string {
	for i, a := range args {
		if a == "--" {
			return args[i+1:]
		}
	}
	return args
}
