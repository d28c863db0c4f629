// Package addon enables the optional renderer add-ons a generation run
// relies on. A missing add-on is logged and skipped, never fatal.
package addon

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// DefaultAddons are enabled at startup for every run.
var DefaultAddons = []string{"ant_landscape", "real_snow"}

// Enabler turns on a named add-on.
type Enabler interface {
	Enable(name string) error
}

// EnableAll enables each name in order and returns the ones that succeeded.
// Failures are logged as warnings.
func EnableAll(logger *slog.Logger, e Enabler, names []string) []string {
	if logger == nil {
		logger = slog.Default()
	}
	enabled := make([]string, 0, len(names))
	for _, name := range names {
		if err := e.Enable(name); err != nil {
			logger.Warn("could not enable add-on", "addon", name, "error", err)
			continue
		}
		logger.Debug("enabled add-on", "addon", name)
		enabled = append(enabled, name)
	}
	return enabled
}

// ErrNotInstalled is returned by DirEnabler for add-ons absent from Root.
var ErrNotInstalled = errors.New("add-on not installed")

// DirEnabler enables add-ons installed under Root, either as a package
// directory or as a single module file.
type DirEnabler struct {
	Root string

	enabled map[string]string
}

// Enable locates name under Root and marks it enabled.
func (d *DirEnabler) Enable(name string) error {
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("invalid add-on name %q", name)
	}
	for _, candidate := range []string{
		filepath.Join(d.Root, name, "__init__.py"),
		filepath.Join(d.Root, name+".py"),
	} {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if d.enabled == nil {
			d.enabled = make(map[string]string)
		}
		d.enabled[name] = candidate
		return nil
	}
	return fmt.Errorf("%s in %s: %w", name, d.Root, ErrNotInstalled)
}

// Enabled returns the enabled add-on names, sorted.
func (d *DirEnabler) Enabled() []string {
	names := make([]string, 0, len(d.enabled))
	for name := range d.enabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the file an enabled add-on was loaded from.
func (d *DirEnabler) Path(name string) (string, bool) {
	p, ok := d.enabled[name]
	return p, ok
}
