package ginconf

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry records the configurables and parameters a consumer reads from
// the store. It is the schema Store.Validate checks bindings against.
type Registry struct {
	params map[string]map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{params: make(map[string]map[string]bool)}
}

// Register declares that configurable reads the given parameters. With no
// parameters, any parameter of configurable is accepted.
func (r *Registry) Register(configurable string, params ...string) {
	set, ok := r.params[configurable]
	if !ok {
		set = make(map[string]bool)
		r.params[configurable] = set
	}
	if len(params) == 0 {
		set["*"] = true
	}
	for _, p := range params {
		set[p] = true
	}
}

// RegisterKey declares a single configurable.param key. Macro keys need no
// registration.
func (r *Registry) RegisterKey(key string) {
	if dot := strings.LastIndex(key, "."); dot > 0 {
		r.Register(key[:dot], key[dot+1:])
	}
}

// registryFile is the YAML form of a registry:
//
//	configurables:
//	  compose_scene: [seed, trees_chance]
//	  render:          # any parameter
type registryFile struct {
	Configurables map[string][]string `yaml:"configurables"`
}

// Load adds the configurables declared in the YAML file at path.
func (r *Registry) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse schema %s: %w", path, err)
	}
	for name, params := range f.Configurables {
		if name == "" || strings.ContainsAny(name, " \t/") {
			return fmt.Errorf("schema %s: invalid configurable name %q", path, name)
		}
		r.Register(name, params...)
	}
	return nil
}

// Known reports whether key is consumed by a registered configurable. Macro
// keys (no dot) are always known. Scopes are ignored, and a configurable
// registered as `name` also matches `module.path.name`.
func (r *Registry) Known(key string) bool {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		key = key[i+1:]
	}
	dot := strings.LastIndex(key, ".")
	if dot < 0 {
		return true
	}
	configurable, param := key[:dot], key[dot+1:]
	if i := strings.LastIndex(configurable, "."); i >= 0 {
		if r.match(configurable[i+1:], param) {
			return true
		}
	}
	return r.match(configurable, param)
}

func (r *Registry) match(configurable, param string) bool {
	set, ok := r.params[configurable]
	if !ok {
		return false
	}
	return set["*"] || set[param]
}
