package jspy

import (
	"fmt"
	"sort"
)

// Scope is one link in a chain of name bindings. Call frames and the root
// scope of an evaluation are Scopes; closures keep a reference to the Scope
// they were defined in.
type Scope struct {
	parent *Scope
	values map[string]Value
	// seed marks the root scope an evaluation is seeded with. Set never
	// writes into it from a child scope.
	seed bool
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, values: make(map[string]Value)}
}

func newSeedScope() *Scope {
	s := NewScope(nil)
	s.seed = true
	return s
}

func (s *Scope) Parent() *Scope { return s.parent }

// Lookup searches this scope and then its ancestors.
func (s *Scope) Lookup(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if val, ok := cur.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// Get is Lookup that fails with ErrUnboundName when no scope binds name.
func (s *Scope) Get(name string) (Value, error) {
	if val, ok := s.Lookup(name); ok {
		return val, nil
	}
	return NewNull(), fmt.Errorf("%w: %s", ErrUnboundName, name)
}

// Define binds name in this scope, shadowing any ancestor binding.
func (s *Scope) Define(name string, val Value) {
	s.values[name] = val
}

// Set updates the nearest scope that already binds name, or defines it here.
// A name found only in a seed scope is defined in that scope's child instead,
// which shadows the seeded value.
func (s *Scope) Set(name string, val Value) {
	var prev *Scope
	for cur := s; cur != nil; prev, cur = cur, cur.parent {
		if _, ok := cur.values[name]; !ok {
			continue
		}
		if cur.seed && prev != nil {
			prev.values[name] = val
			return
		}
		cur.values[name] = val
		return
	}
	s.values[name] = val
}

// Names returns every visible name, sorted, with inner bindings hiding outer
// ones.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})
	for cur := s; cur != nil; cur = cur.parent {
		for name := range cur.values {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Locals returns the bindings of this scope only, as an object.
func (s *Scope) Locals() *Object {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	obj := NewObjectMap()
	for _, name := range names {
		obj.Set(name, s.values[name])
	}
	return obj
}
