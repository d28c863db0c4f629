package ginconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderAppliesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.gin"), "k.v = 1\nonly_a.v = 'a'\n")
	b := writeFile(t, filepath.Join(dir, "b.gin"), "k.v = 2\n")

	s := NewStore()
	l := &Loader{}
	require.NoError(t, l.ApplyFile(s, a))
	require.NoError(t, l.ApplyFile(s, b))
	require.NoError(t, l.ApplyBindings(s, "k.v = 3"))

	v, _ := s.Get("k.v")
	assert.Equal(t, int64(3), v)
	v, _ = s.Get("only_a.v")
	assert.Equal(t, "a", v)

	bind, _ := s.Binding("k.v")
	assert.Equal(t, "<override>", bind.Origin)
}

func TestLoaderIncludeFromSearchPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "shared", "weather.gin"), "weather.rain = True\nweather.level = 1\n")
	scene := writeFile(t, filepath.Join(root, "scenes", "forest.gin"),
		"include 'shared/weather.gin'\nweather.level = 2\n")

	s := NewStore()
	l := &Loader{SearchPaths: []string{filepath.Join(root, "missing"), root}}
	require.NoError(t, l.ApplyFile(s, scene))

	v, _ := s.Get("weather.rain")
	assert.Equal(t, true, v)
	v, _ = s.Get("weather.level")
	assert.Equal(t, int64(2), v, "statements after the include win")
}

func TestLoaderIncludeErrors(t *testing.T) {
	root := t.TempDir()
	missing := writeFile(t, filepath.Join(root, "m.gin"), "include 'nowhere.gin'\n")
	loopA := writeFile(t, filepath.Join(root, "loop_a.gin"), "include 'loop_b.gin'\n")
	writeFile(t, filepath.Join(root, "loop_b.gin"), "include 'loop_a.gin'\n")

	l := &Loader{SearchPaths: []string{root}}

	err := l.ApplyFile(NewStore(), missing)
	var ie *IncludeError
	require.ErrorAs(t, err, &ie)
	assert.False(t, ie.Cycle)
	assert.Equal(t, []string{root}, ie.Searched)

	err = l.ApplyFile(NewStore(), loopA)
	require.ErrorAs(t, err, &ie)
	assert.True(t, ie.Cycle)
}

func TestLoaderBindingErrors(t *testing.T) {
	l := &Loader{}
	err := l.ApplyBindings(NewStore(), "   ")
	assert.True(t, IsSyntaxError(err))

	err = l.ApplyBindings(NewStore(), "k.v = not valid")
	assert.True(t, IsSyntaxError(err))

	err = l.ApplyFile(NewStore(), filepath.Join(t.TempDir(), "absent.gin"))
	assert.ErrorContains(t, err, "read config")
}
