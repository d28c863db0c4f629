package device

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return NewCatalog(
		&Device{ID: "cpu0", Name: "Threadripper", Kind: KindCPU},
		&Device{ID: "gpu0", Name: "RTX A6000", Kind: KindCUDA},
		&Device{ID: "gpu1", Name: "RTX A6000", Kind: KindCUDA},
		&Device{ID: "gpu0-optix", Name: "RTX A6000", Kind: KindOptix},
	)
}

func TestSelectPrefersEarliestKind(t *testing.T) {
	cat := testCatalog()
	sel, err := NewSelector(nil).Select(cat, true)
	require.NoError(t, err)

	assert.Equal(t, ModeGPU, sel.Mode)
	assert.Equal(t, KindOptix, sel.Kind)
	assert.Equal(t, []Kind{KindOptix, KindCUDA, KindCPU}, sel.Available)
	require.Len(t, sel.Enabled, 1)
	assert.Equal(t, "gpu0-optix", sel.Enabled[0].ID)
	assert.Equal(t, KindOptix, cat.ComputeKind())

	for _, d := range cat.Entries {
		assert.Equal(t, d.Kind == KindOptix, d.Use, d.ID)
	}
}

func TestSelectCUDAOverCPU(t *testing.T) {
	cat := NewCatalog(
		&Device{ID: "cpu0", Kind: KindCPU, Use: true},
		&Device{ID: "gpu0", Kind: KindCUDA},
		&Device{ID: "gpu1", Kind: KindCUDA},
	)
	s := &Selector{Preference: Preference{KindOptix, KindCUDA, KindCPU}}
	sel, err := s.Select(cat, true)
	require.NoError(t, err)

	assert.Equal(t, KindCUDA, sel.Kind)
	assert.Len(t, sel.Enabled, 2)
	assert.False(t, cat.Entries[0].Use, "devices of other kinds are disabled")
}

func TestSelectCPUOnlyDegrades(t *testing.T) {
	cat := NewCatalog(&Device{ID: "cpu0", Kind: KindCPU, Use: true})
	sel, err := NewSelector(nil).Select(cat, true)
	require.NoError(t, err)

	assert.Equal(t, ModeCPU, sel.Mode)
	assert.Empty(t, sel.Kind)
	assert.Empty(t, sel.Enabled)
	assert.True(t, cat.Entries[0].Use, "CPU devices are not toggled")
	assert.Empty(t, cat.ComputeKind())
}

func TestSelectUseGPUFalseSkipsBackend(t *testing.T) {
	cat := testCatalog()
	sel, err := NewSelector(nil).Select(cat, false)
	require.NoError(t, err)

	assert.Equal(t, &Selection{Mode: ModeCPU}, sel)
	assert.Empty(t, cat.Devices(), "backend was not refreshed")
}

func TestSelectNoDevices(t *testing.T) {
	_, err := NewSelector(nil).Select(NewCatalog(), true)
	require.Error(t, err)
	assert.True(t, IsNoDeviceFound(err))
}

func TestSelectRefreshesBeforeListing(t *testing.T) {
	cat := testCatalog()
	assert.Empty(t, cat.Devices(), "lazy catalog hides devices before refresh")

	_, err := NewSelector(nil).Select(cat, true)
	require.NoError(t, err)
	assert.Len(t, cat.Devices(), 4)
}

func TestSelectSkipsUnrankedKinds(t *testing.T) {
	cat := NewCatalog(
		&Device{ID: "x", Kind: Kind("VULKAN")},
		&Device{ID: "m", Kind: KindMetal},
	)
	s := &Selector{Preference: DefaultPreference}
	backend := &stubBackend{devices: cat.Entries}
	sel, err := s.Select(backend, true)
	require.NoError(t, err)
	assert.Equal(t, KindMetal, sel.Kind)
	assert.Equal(t, []Kind{KindMetal}, sel.Available)
}

func TestSelectPropagatesBackendErrors(t *testing.T) {
	boom := errors.New("driver crashed")

	_, err := NewSelector(nil).Select(&stubBackend{refreshErr: boom}, true)
	assert.ErrorIs(t, err, boom)

	b := &stubBackend{devices: []*Device{{ID: "g", Kind: KindHIP}}, setErr: boom}
	_, err = NewSelector(nil).Select(b, true)
	assert.ErrorIs(t, err, boom)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
devices:
  - id: "0000:65:00.0"
    name: NVIDIA GeForce RTX 4090
    type: optix
  - id: cpu
    name: AMD EPYC
    type: CPU
`), 0o644))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, cat.Entries, 2)
	assert.Equal(t, KindOptix, cat.Entries[0].Kind)
	assert.Equal(t, "NVIDIA GeForce RTX 4090", cat.Entries[0].Name)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("devices:\n  - id: x\n    type: TPU\n"), 0o644))
	_, err = LoadCatalog(bad)
	assert.ErrorContains(t, err, `unknown device type "TPU"`)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read device catalog")
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" cuda ")
	require.NoError(t, err)
	assert.Equal(t, KindCUDA, k)

	_, err = ParseKind("quantum")
	assert.Error(t, err)
}

type stubBackend struct {
	devices    []*Device
	refreshErr error
	setErr     error
}

func (b *stubBackend) Kinds() []Kind             { return []Kind{KindCUDA} }
func (b *stubBackend) Refresh(Kind) error        { return b.refreshErr }
func (b *stubBackend) Devices() []*Device        { return b.devices }
func (b *stubBackend) SetComputeKind(Kind) error { return b.setErr }
