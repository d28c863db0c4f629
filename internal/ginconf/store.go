package ginconf

import (
	"fmt"
	"sort"
	"strings"
)

// Binding is one key in the store together with where its value came from.
type Binding struct {
	Key    string
	Value  Value
	Origin string
}

// Store is the effective configuration for a run: bindings applied in order,
// later wins, plus named constants published by the host program.
//
// A Store is built once during startup and read afterwards; it is not safe
// for concurrent mutation.
type Store struct {
	// SkipUnknown is threaded through to Validate: when set, keys that no
	// registered configurable consumes are ignored instead of rejected.
	SkipUnknown bool

	bindings  map[string]Binding
	constants map[string]Value
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		bindings:  make(map[string]Binding),
		constants: make(map[string]Value),
	}
}

// Bind sets key to v, replacing any earlier binding.
func (s *Store) Bind(key string, v Value, origin string) {
	s.bindings[key] = Binding{Key: key, Value: v, Origin: origin}
}

// SetConstant publishes a constant referenced as %name. A constant can be
// defined once per store.
func (s *Store) SetConstant(name string, v Value) error {
	if _, exists := s.constants[name]; exists {
		return fmt.Errorf("constant %s already defined", name)
	}
	s.constants[name] = v
	return nil
}

// Constant returns the value of a published constant.
func (s *Store) Constant(name string) (Value, bool) {
	v, ok := s.constants[name]
	return v, ok
}

// Get returns the raw bound value for key, macros unexpanded.
func (s *Store) Get(key string) (Value, bool) {
	b, ok := s.bindings[key]
	return b.Value, ok
}

// Binding returns the binding for key including its origin.
func (s *Store) Binding(key string) (Binding, bool) {
	b, ok := s.bindings[key]
	return b, ok
}

// Keys returns all bound keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.bindings))
	for k := range s.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of bound keys.
func (s *Store) Len() int {
	return len(s.bindings)
}

// Lookup returns the value bound to key with every macro expanded.
func (s *Store) Lookup(key string) (Value, bool, error) {
	b, ok := s.bindings[key]
	if !ok {
		return nil, false, nil
	}
	v, err := s.Expand(b.Value)
	return v, true, err
}

// Bool looks up a boolean binding, returning def when key is unbound.
func (s *Store) Bool(key string, def bool) (bool, error) {
	v, ok, err := s.Lookup(key)
	if err != nil || !ok {
		return def, err
	}
	b, isBool := v.(bool)
	if !isBool {
		return def, fmt.Errorf("%s: expected a boolean, got %s", key, FormatValue(v))
	}
	return b, nil
}

// Expand replaces macros in v with their values, recursively.
func (s *Store) Expand(v Value) (Value, error) {
	return s.expand(v, nil)
}

func (s *Store) expand(v Value, stack []string) (Value, error) {
	switch val := v.(type) {
	case Macro:
		for _, seen := range stack {
			if seen == val.Name {
				return nil, fmt.Errorf("macro cycle: %s", strings.Join(append(stack, val.Name), " -> "))
			}
		}
		if c, ok := s.constants[val.Name]; ok {
			return c, nil
		}
		b, ok := s.bindings[val.Name]
		if !ok {
			return nil, fmt.Errorf("undefined macro %%%s", val.Name)
		}
		return s.expand(b.Value, append(stack, val.Name))
	case []Value:
		out := make([]Value, len(val))
		for i, elem := range val {
			e, err := s.expand(elem, stack)
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case map[string]Value:
		out := make(map[string]Value, len(val))
		for k, elem := range val {
			e, err := s.expand(elem, stack)
			if err != nil {
				return nil, err
			}
			out[k] = e
		}
		return out, nil
	case Dict:
		out := make(Dict, len(val))
		for i, entry := range val {
			e, err := s.expand(entry.Value, stack)
			if err != nil {
				return nil, err
			}
			out[i] = DictEntry{Key: entry.Key, Value: e}
		}
		return out, nil
	}
	return v, nil
}

// Dump renders the store canonically: constants, then bindings, each sorted
// by name, one `name = value` line per entry.
func (s *Store) Dump() string {
	var b strings.Builder
	if len(s.constants) > 0 {
		names := make([]string, 0, len(s.constants))
		for name := range s.constants {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("# constants\n")
		for _, name := range names {
			fmt.Fprintf(&b, "%s = %s\n", name, FormatValue(s.constants[name]))
		}
	}
	if len(s.bindings) > 0 {
		b.WriteString("# bindings\n")
		for _, key := range s.Keys() {
			fmt.Fprintf(&b, "%s = %s\n", key, FormatValue(s.bindings[key].Value))
		}
	}
	return b.String()
}

// Validate checks every binding against the configurables registered in
// reg. Unknown keys are an UnknownKeyError unless SkipUnknown is set.
func (s *Store) Validate(reg *Registry) error {
	if s.SkipUnknown {
		return nil
	}
	var unknown []string
	for _, key := range s.Keys() {
		if !reg.Known(key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		return &UnknownKeyError{Keys: unknown}
	}
	return nil
}
