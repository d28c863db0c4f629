package device

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is a Backend described by a file rather than probed from a host
// renderer. Devices of a kind stay hidden until that kind is refreshed,
// matching hosts that enumerate lazily.
//
//	devices:
//	  - id: "0000:65:00.0"
//	    name: NVIDIA GeForce RTX 4090
//	    type: OPTIX
type Catalog struct {
	Entries []*Device `yaml:"devices"`

	refreshed   map[Kind]bool
	computeKind Kind
}

// NewCatalog returns a catalog of devices.
func NewCatalog(devices ...*Device) *Catalog {
	return &Catalog{Entries: devices}
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read device catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse device catalog: %w", err)
	}
	for i, d := range c.Entries {
		if d == nil {
			return nil, fmt.Errorf("device catalog entry %d is empty", i)
		}
		kind, err := ParseKind(string(d.Kind))
		if err != nil {
			return nil, fmt.Errorf("device catalog entry %d: %w", i, err)
		}
		d.Kind = kind
	}
	return &c, nil
}

// Kinds lists every kind in DefaultPreference; a catalog host supports all
// of them.
func (c *Catalog) Kinds() []Kind {
	return append([]Kind(nil), DefaultPreference...)
}

// Refresh reveals the devices of kind.
func (c *Catalog) Refresh(kind Kind) error {
	if c.refreshed == nil {
		c.refreshed = make(map[Kind]bool)
	}
	c.refreshed[kind] = true
	return nil
}

// Devices returns the devices of every refreshed kind, in file order.
func (c *Catalog) Devices() []*Device {
	var out []*Device
	for _, d := range c.Entries {
		if c.refreshed[d.Kind] {
			out = append(out, d)
		}
	}
	return out
}

// SetComputeKind records the chosen kind.
func (c *Catalog) SetComputeKind(kind Kind) error {
	c.computeKind = kind
	return nil
}

// ComputeKind returns the kind last passed to SetComputeKind.
func (c *Catalog) ComputeKind() Kind {
	return c.computeKind
}
