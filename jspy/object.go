package jspy

import "github.com/emirpasic/gods/maps/linkedhashmap"

// Object is a string-keyed mapping that remembers insertion order. Overwriting
// an existing key keeps its original position.
type Object struct {
	entries *linkedhashmap.Map
}

func NewObjectMap() *Object {
	return &Object{entries: linkedhashmap.New()}
}

func (o *Object) Get(key string) (Value, bool) {
	raw, ok := o.entries.Get(key)
	if !ok {
		return NewNull(), false
	}
	return raw.(Value), true
}

func (o *Object) Set(key string, val Value) {
	o.entries.Put(key, val)
}

func (o *Object) Has(key string) bool {
	_, ok := o.entries.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if !o.Has(key) {
		return false
	}
	o.entries.Remove(key)
	return true
}

func (o *Object) Len() int { return o.entries.Size() }

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	raw := o.entries.Keys()
	keys := make([]string, len(raw))
	for i, k := range raw {
		keys[i] = k.(string)
	}
	return keys
}

// Clone returns a copy of o with the same entries in the same order. Nested
// values are shared.
func (o *Object) Clone() *Object {
	out := NewObjectMap()
	o.Each(out.Set)
	return out
}

// Each calls fn for every entry in insertion order.
func (o *Object) Each(fn func(key string, val Value)) {
	it := o.entries.Iterator()
	for it.Next() {
		fn(it.Key().(string), it.Value().(Value))
	}
}
