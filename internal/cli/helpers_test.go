package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// fixtureRepo creates a repository with a small configs tree and a schema
// covering its bindings, and returns its root.
func fixtureRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	cfg := filepath.Join(root, "configs")
	writeFile(t, filepath.Join(cfg, "base.gin"), `compose_scene.seed = %OVERALL_SEED
render.num_samples = 1024
`)
	writeFile(t, filepath.Join(cfg, "scene_types", "forest.gin"), "compose_scene.trees_chance = 0.9\n")
	writeFile(t, filepath.Join(cfg, "scene_types", "desert.gin"), "compose_scene.trees_chance = 0.0\n")
	writeFile(t, filepath.Join(cfg, "performance", "fast_solve.gin"), "render.num_samples = 256\n")
	writeFile(t, filepath.Join(root, DefaultSchemaFile), testSchema)
	return root
}

const testSchema = `configurables:
  compose_scene: [seed, trees_chance]
  render: [num_samples]
  scene: [name]
`

const testCatalog = `devices:
  - id: "0000:65:00.0"
    name: NVIDIA RTX A6000
    type: cuda
  - id: "0000:65:00.0"
    name: NVIDIA RTX A6000
    type: optix
  - id: cpu
    name: AMD EPYC 7763
    type: CPU
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.yaml")
	writeFile(t, path, content)
	return path
}

// decodeData unmarshals the data payload of a JSON success response.
func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status, out)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

// decodeError returns the error code of a JSON error response.
func decodeError(t *testing.T, out string) string {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "error", resp.Status, out)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}
