// Package device picks the compute backend a render will run on.
//
// A machine can expose the same physical GPU under several backend kinds
// (most OptiX cards also show up as CUDA). Selection ranks the kinds that are
// actually present by a fixed preference order and enables every device of
// the winning kind; CPU is the universal fallback and is never toggled per
// device.
package device

import (
	"fmt"
	"strings"
)

// Kind is a compute backend type.
type Kind string

const (
	KindOptix  Kind = "OPTIX"
	KindCUDA   Kind = "CUDA"
	KindMetal  Kind = "METAL"
	KindHIP    Kind = "HIP"
	KindOneAPI Kind = "ONEAPI"
	KindCPU    Kind = "CPU"
)

// DefaultPreference ranks backend kinds, most preferred first. Earlier kinds
// win when several are available.
var DefaultPreference = Preference{KindOptix, KindCUDA, KindMetal, KindHIP, KindOneAPI, KindCPU}

// ParseKind maps a backend name to a Kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range DefaultPreference {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown device type %q", s)
}

// Preference is an ordered ranking of backend kinds.
type Preference []Kind

// Rank returns the position of k in p, or -1 if p does not list it.
func (p Preference) Rank(k Kind) int {
	for i, candidate := range p {
		if candidate == k {
			return i
		}
	}
	return -1
}

// Device is one physical device as reported by a backend.
type Device struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Kind Kind   `yaml:"type" json:"type"`
	Use  bool   `yaml:"-" json:"use"`
}

// Backend is the host renderer's view of the machine's compute devices.
type Backend interface {
	// Kinds lists the backend kinds the host supports.
	Kinds() []Kind

	// Refresh re-enumerates the devices of kind. Some backends report no
	// devices until they have been queried once.
	Refresh(kind Kind) error

	// Devices returns every known device. Callers may set Use.
	Devices() []*Device

	// SetComputeKind tells the host which backend kind to render with.
	SetComputeKind(kind Kind) error
}
