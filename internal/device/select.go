package device

import (
	"fmt"
	"log/slog"
	"sort"
)

// Mode is the render device mode.
type Mode string

const (
	ModeCPU Mode = "CPU"
	ModeGPU Mode = "GPU"
)

// Selection is the outcome of Select.
type Selection struct {
	Mode Mode `json:"mode"`

	// Kind is the chosen backend kind; empty when Mode is CPU.
	Kind Kind `json:"kind,omitempty"`

	// Available lists the distinct kinds found, best first.
	Available []Kind `json:"available,omitempty"`

	// Enabled are the devices switched on; empty when Mode is CPU.
	Enabled []*Device `json:"enabled,omitempty"`
}

// Selector chooses a backend kind from a Backend.
type Selector struct {
	Preference Preference
	Logger     *slog.Logger
}

// NewSelector returns a Selector using DefaultPreference.
func NewSelector(logger *slog.Logger) *Selector {
	return &Selector{Preference: DefaultPreference, Logger: logger}
}

// Select picks the backend kind to render with. With useGPU false it returns
// CPU mode immediately. Otherwise every kind is refreshed, the available
// kinds are ranked, and every device of the best kind is enabled while all
// others are disabled. If the best kind is CPU the selection degrades to CPU
// mode without touching devices.
func (s *Selector) Select(backend Backend, useGPU bool) (*Selection, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pref := s.Preference
	if len(pref) == 0 {
		pref = DefaultPreference
	}

	if !useGPU {
		logger.Info("render will use CPU only", "use_gpu", useGPU)
		return &Selection{Mode: ModeCPU}, nil
	}

	for _, kind := range backend.Kinds() {
		if err := backend.Refresh(kind); err != nil {
			return nil, fmt.Errorf("refresh %s devices: %w", kind, err)
		}
	}

	devices := backend.Devices()
	if len(devices) == 0 {
		return nil, &NoDeviceFoundError{Kinds: backend.Kinds()}
	}

	available := rankKinds(devices, pref, logger)
	if len(available) == 0 {
		return nil, &NoDeviceFoundError{Kinds: backend.Kinds()}
	}
	logger.Info("available devices", "types", available)

	best := available[0]
	if best == KindCPU {
		logger.Warn("render will use CPU only", "types", available)
		return &Selection{Mode: ModeCPU, Available: available}, nil
	}

	if err := backend.SetComputeKind(best); err != nil {
		return nil, fmt.Errorf("set compute device type %s: %w", best, err)
	}

	var enabled []*Device
	for _, d := range devices {
		d.Use = d.Kind == best
		if d.Use {
			enabled = append(enabled, d)
		}
	}
	logger.Info("render devices selected", "type", best, "count", len(enabled))

	return &Selection{Mode: ModeGPU, Kind: best, Available: available, Enabled: enabled}, nil
}

// rankKinds returns the distinct kinds of devices ordered by pref. Kinds pref
// does not list are skipped.
func rankKinds(devices []*Device, pref Preference, logger *slog.Logger) []Kind {
	seen := make(map[Kind]bool)
	var kinds []Kind
	for _, d := range devices {
		if seen[d.Kind] {
			continue
		}
		seen[d.Kind] = true
		if pref.Rank(d.Kind) < 0 {
			logger.Warn("ignoring device of unranked type", "type", d.Kind, "device", d.Name)
			continue
		}
		kinds = append(kinds, d.Kind)
	}
	sort.SliceStable(kinds, func(i, j int) bool {
		return pref.Rank(kinds[i]) < pref.Rank(kinds[j])
	})
	return kinds
}
