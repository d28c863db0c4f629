package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommandText(t *testing.T) {
	root := fixtureRepo(t)
	out, _, err := execute(t, "config", "--repo-root", root,
		"-g", "forest", "-g", "fast_solve", "-p", "scene.name=valley")
	require.NoError(t, err)

	cfg := filepath.Join(root, "configs")
	assert.Equal(t, "files:\n"+
		"  "+filepath.Join(cfg, "base.gin")+"\n"+
		"  "+filepath.Join(cfg, "scene_types", "forest.gin")+"\n"+
		"  "+filepath.Join(cfg, "performance", "fast_solve.gin")+"\n"+
		"overrides:\n"+
		"  scene.name=\"valley\"\n"+
		"# bindings\n"+
		"compose_scene.seed = %OVERALL_SEED\n"+
		"compose_scene.trees_chance = 0.9\n"+
		"render.num_samples = 256\n"+
		"scene.name = \"valley\"\n", out)
}

func TestConfigCommandJSON(t *testing.T) {
	root := fixtureRepo(t)
	out, _, err := execute(t, "--format", "json", "config", "--repo-root", root,
		"-g", "desert", "-p", "render.num_samples=64")
	require.NoError(t, err)

	var got configOutput
	decodeData(t, out, &got)
	assert.Len(t, got.Files, 2)
	assert.Equal(t, []string{"render.num_samples=64"}, got.Overrides)
	assert.Equal(t, "64", got.Bindings["render.num_samples"])
	assert.Equal(t, "0.0", got.Bindings["compose_scene.trees_chance"])
}

func TestConfigCommandConfigsFolderFromEnv(t *testing.T) {
	root := fixtureRepo(t)
	t.Setenv(EnvRepoRoot, root)
	t.Setenv(EnvConfigsFolder, "configs")

	_, _, err := execute(t, "config", "-g", "forest")
	assert.NoError(t, err)
}

func TestConfigCommandErrors(t *testing.T) {
	root := fixtureRepo(t)
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing config", []string{"-g", "tundra"}, ErrCodeConfigNotFound},
		{"missing configs folder", []string{"--configs-folder", "nope"}, ErrCodeFolderNotFound},
		{"exclusive", []string{"-g", "forest", "-g", "desert", "--exclusive-folder", "configs/scene_types"}, ErrCodeConstraint},
		{"mandatory", []string{"--mandatory-folder", "configs/performance"}, ErrCodeConstraint},
		{"override", []string{"-p", "render.num_samples=[1,"}, ErrCodeOverride},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--format", "json", "config", "--repo-root", root}, tt.args...)
			out, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Equal(t, tt.code, decodeError(t, out))
		})
	}
}

func TestConfigCommandSyntaxError(t *testing.T) {
	root := fixtureRepo(t)
	writeFile(t, filepath.Join(root, "configs", "broken.gin"), "render.num_samples 12\n")

	out, _, err := execute(t, "config", "--repo-root", root, "-g", "broken")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E205]")
	assert.Contains(t, out, "broken.gin:1")
}

func TestConfigCommandUnknownKey(t *testing.T) {
	root := fixtureRepo(t)
	args := []string{"--format", "json", "config", "--repo-root", root,
		"-p", "totally_bogus.nothing_reads_this=1"}

	out, _, err := execute(t, args...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeUnknownKey, decodeError(t, out))

	out, _, err = execute(t, append(args, "--skip-unknown")...)
	require.NoError(t, err)
	var got configOutput
	decodeData(t, out, &got)
	assert.Equal(t, "1", got.Bindings["totally_bogus.nothing_reads_this"])
}

func TestConfigCommandSchema(t *testing.T) {
	root := fixtureRepo(t)
	require.NoError(t, os.Remove(filepath.Join(root, DefaultSchemaFile)))

	out, _, err := execute(t, "--format", "json", "config", "--repo-root", root)
	require.Error(t, err)
	assert.Equal(t, ErrCodeUnknownKey, decodeError(t, out))

	elsewhere := filepath.Join(t.TempDir(), "schema.yaml")
	writeFile(t, elsewhere, testSchema)
	_, _, err = execute(t, "config", "--repo-root", root, "--schema", elsewhere)
	assert.NoError(t, err)

	t.Setenv(EnvSchema, elsewhere)
	_, _, err = execute(t, "config", "--repo-root", root)
	assert.NoError(t, err)

	out, _, err = execute(t, "--format", "json", "config", "--repo-root", root,
		"--schema", filepath.Join(root, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeSchema, decodeError(t, out))
}
