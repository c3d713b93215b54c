package jspy

import (
	"sort"
	"time"
)

func NewNull() Value               { return Value{kind: KindNull} }
func NewBool(b bool) Value         { return Value{kind: KindBool, data: b} }
func NewNumber(f float64) Value    { return Value{kind: KindNumber, data: f} }
func NewInt(i int) Value           { return Value{kind: KindNumber, data: float64(i)} }
func NewString(s string) Value     { return Value{kind: KindString, data: s} }
func NewTime(t time.Time) Value    { return Value{kind: KindTime, data: t} }
func NewArray(items []Value) Value { return Value{kind: KindArray, data: &Array{Items: items}} }

// NewObject builds an object from a Go map. Keys are inserted in sorted order
// so iteration is deterministic.
func NewObject(entries map[string]Value) Value {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	obj := NewObjectMap()
	for _, k := range keys {
		obj.Set(k, entries[k])
	}
	return NewObjectValue(obj)
}

func NewObjectValue(obj *Object) Value {
	return Value{kind: KindObject, data: obj}
}

func NewBuiltin(name string, fn BuiltinFunc) Value {
	return Value{kind: KindBuiltin, data: &Builtin{Name: name, Fn: fn}}
}

func NewFunction(fn *Closure) Value {
	return Value{kind: KindFunction, data: fn}
}

func newBoundMethod(receiver, method Value) Value {
	return Value{kind: KindBoundMethod, data: &BoundMethod{Receiver: receiver, Method: method}}
}

func NewFutureValue(f *Future) Value {
	return Value{kind: KindFuture, data: f}
}
