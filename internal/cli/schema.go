package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/roach88/procgen/internal/ginconf"
)

// DefaultSchemaFile is read from the repository root when --schema is not
// given. It is optional.
const DefaultSchemaFile = "procgen.schema.yaml"

// consumedKeys are the bindings procgen reads itself.
var consumedKeys = []string{UseGPUKey}

// loadSchema returns the registry merged configs are checked against: the
// keys procgen consumes plus the configurables the schema file declares.
func loadSchema(path, repoRoot string) (*ginconf.Registry, error) {
	reg := ginconf.NewRegistry()
	for _, key := range consumedKeys {
		reg.RegisterKey(key)
	}
	if path == "" {
		path = filepath.Join(repoRoot, DefaultSchemaFile)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return reg, nil
		}
	}
	if err := reg.Load(path); err != nil {
		return nil, &usageError{code: ErrCodeSchema, message: err.Error()}
	}
	return reg, nil
}
