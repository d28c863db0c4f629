package addon

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnabler struct {
	broken map[string]bool
	calls  []string
}

func (f *fakeEnabler) Enable(name string) error {
	f.calls = append(f.calls, name)
	if f.broken[name] {
		return errors.New("boom")
	}
	return nil
}

func TestEnableAllWarnsAndContinues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	f := &fakeEnabler{broken: map[string]bool{"ant_landscape": true}}

	enabled := EnableAll(logger, f, DefaultAddons)

	assert.Equal(t, []string{"ant_landscape", "real_snow"}, f.calls)
	assert.Equal(t, []string{"real_snow"}, enabled)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "addon=ant_landscape")
}

func TestDirEnabler(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ant_landscape"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ant_landscape", "__init__.py"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "real_snow.py"), nil, 0o644))

	d := &DirEnabler{Root: root}
	assert.NoError(t, d.Enable("real_snow"))
	assert.NoError(t, d.Enable("ant_landscape"))

	err := d.Enable("sapling")
	assert.ErrorIs(t, err, ErrNotInstalled)
	assert.Error(t, d.Enable("../escape"))

	assert.Equal(t, []string{"ant_landscape", "real_snow"}, d.Enabled())
	p, ok := d.Path("real_snow")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "real_snow.py"), p)
}

func TestDirEnablerEmptyRoot(t *testing.T) {
	d := &DirEnabler{Root: t.TempDir()}
	enabled := EnableAll(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), d, DefaultAddons)
	assert.Empty(t, enabled)
	assert.Empty(t, d.Enabled())
}
