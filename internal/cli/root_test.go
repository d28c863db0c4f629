package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout, stderr and
// the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "procgen", cmd.Use)
	assert.Contains(t, cmd.Long, ".gin configuration")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"seed", "config", "devices", "init", "runs"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestConfigCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "init"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)

		g := sub.Flags().Lookup("config")
		require.NotNil(t, g, name)
		assert.Equal(t, "g", g.Shorthand)

		p := sub.Flags().Lookup("override")
		require.NotNil(t, p, name)
		assert.Equal(t, "p", p.Shorthand)

		for _, flag := range []string{"repo-root", "configs-folder", "mandatory-folder", "exclusive-folder", "schema", "skip-unknown"} {
			assert.NotNil(t, sub.Flags().Lookup(flag), "%s --%s", name, flag)
		}
	}
}

func TestFlagDefaultsFromEnvironment(t *testing.T) {
	t.Setenv(EnvConfigsFolder, "infinigen_examples/configs")
	t.Setenv(EnvDatabase, "/var/lib/procgen/runs.db")

	cmd := NewRootCommand()
	initCmd, _, err := cmd.Find([]string{"init"})
	require.NoError(t, err)
	assert.Equal(t, "infinigen_examples/configs", initCmd.Flags().Lookup("configs-folder").DefValue)
	assert.Equal(t, "/var/lib/procgen/runs.db", initCmd.Flags().Lookup("db").DefValue)
	assert.Equal(t, ".", initCmd.Flags().Lookup("repo-root").DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, _, err := execute(t, "--format", "invalid", "seed", "ab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestUnknownFlagIsCommandError(t *testing.T) {
	_, _, err := execute(t, "seed", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHostArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"no separator", []string{"seed", "ab"}, []string{"seed", "ab"}},
		{"host prefix", []string{"--background", "-P", "run.py", "--", "seed", "ab"}, []string{"seed", "ab"}},
		{"first separator only", []string{"x", "--", "seed", "--", "-5"}, []string{"seed", "--", "-5"}},
		{"trailing separator", []string{"x", "--"}, []string{}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HostArgs(tt.in))
		})
	}
}

func TestFreshGeneration(t *testing.T) {
	fresh, err := freshGeneration(nil)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = freshGeneration([]string{TaskCoarse, TaskPopulate})
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = freshGeneration([]string{TaskRender, TaskGroundTruth})
	require.NoError(t, err)
	assert.False(t, fresh)

	_, err = freshGeneration([]string{"bake"})
	var te *UnknownTaskError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "bake", te.Task)
}
