// Package registry is the static table of known SmartThings capability
// identifiers: which local entities each one materialises as, the value
// constraints that apply, and how writes translate into commands. It is
// read-only configuration data, not a live store.
package registry

import (
	"fmt"

	"github.com/stda-home/stda/entities"
)

// Constraints is the entities constraint set, declared here per mapping and
// surfaced unchanged through the Writable interface.
type Constraints = entities.Constraints

// Validate checks a desired write value against the declared constraints.
func Validate(c Constraints, v any) error {
	if len(c.Enum) > 0 {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected one of %v, got %T", c.Enum, v)
		}

		for _, allowed := range c.Enum {
			if s == allowed {
				return nil
			}
		}

		return fmt.Errorf("%q is not one of %v", s, c.Enum)
	}

	if c.Minimum != nil || c.Maximum != nil {
		f, ok := asFloat(v)
		if !ok {
			return fmt.Errorf("expected a number, got %T", v)
		}

		if c.Minimum != nil && f < *c.Minimum {
			return fmt.Errorf("%v is below minimum %v", f, *c.Minimum)
		}

		if c.Maximum != nil && f > *c.Maximum {
			return fmt.Errorf("%v is above maximum %v", f, *c.Maximum)
		}
	}

	return nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// WriteStyle selects how a desired value becomes a command.
type WriteStyle int

const (
	// WriteArgument issues a single command carrying the value as its only
	// argument, e.g. setVolume(40).
	WriteArgument WriteStyle = iota
	// WriteOnOff issues one of two argumentless commands selected by
	// comparing the value against OnValue, e.g. on()/off().
	WriteOnOff
	// WriteSetterOnOff issues a single setter command with the on or off
	// value as its argument, e.g. setSpiMode("on"). Used by the custom
	// Samsung capabilities.
	WriteSetterOnOff
)

// Write describes the command template for a writable mapping.
type Write struct {
	Style      WriteStyle
	Command    string
	OnCommand  string
	OffCommand string
	OnValue    string
	OffValue   string
}

// Mapping materialises one capability attribute as one local entity.
type Mapping struct {
	Attribute string
	// Key is the stable entity identifier suffix. Two capabilities declaring
	// the same Key collide; the mapper resolves that first-declared-wins.
	Key         string
	Name        string
	Kind        entities.Kind
	Unit        string
	Constraints Constraints
	Write       *Write
}

// Definition is the full registry entry for one capability. A capability may
// map to multiple entities, e.g. audioVolume produces both a sensor and a
// settable number.
type Definition struct {
	ID       string
	Mappings []Mapping
}

// Registry resolves capability identifiers to their definitions.
type Registry struct {
	byID    map[string]Definition
	ignored map[string]bool
}

// New builds a registry from definitions. Ignored capabilities are known
// identifiers that must never produce entities.
func New(defs []Definition, ignored []string) *Registry {
	r := &Registry{
		byID:    make(map[string]Definition, len(defs)),
		ignored: make(map[string]bool, len(ignored)),
	}

	for _, d := range defs {
		r.byID[d.ID] = d
	}

	for _, id := range ignored {
		r.ignored[id] = true
	}

	return r
}

// Lookup returns the definition for a capability identifier. Unknown
// identifiers return ok false, never an error: unmapped capabilities are
// skipped to stay forward compatible with vendor firmware additions.
func (r *Registry) Lookup(id string) (Definition, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Ignored reports whether a capability is explicitly excluded from mapping.
func (r *Registry) Ignored(id string) bool {
	return r.ignored[id]
}
