package jspy

import "time"

type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindFunction
	KindBuiltin
	KindBoundMethod
	KindFuture
	KindTime
)

// Value is a tagged runtime value. Arrays and objects are reference types:
// copies of a Value share the underlying container.
type Value struct {
	kind ValueKind
	data any
}

// Array is a growable sequence shared by every Value that refers to it.
type Array struct {
	Items []Value
}

// Closure is a script function together with the scope it was defined in.
type Closure struct {
	Name   string
	Params []string
	Body   *Block
	Env    *Scope
}

// Builtin is a host-native function. Receiver is null unless the builtin was
// reached through a dot-chain method call.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

type BuiltinFunc func(exec *Execution, receiver Value, args []Value) (Value, error)

// BoundMethod pairs a method with the receiver it was looked up on.
type BoundMethod struct {
	Receiver Value
	Method   Value
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Number() float64 {
	if v.kind == KindNumber {
		return v.data.(float64)
	}
	return 0
}

func (v Value) Array() *Array {
	if v.kind != KindArray {
		return nil
	}
	return v.data.(*Array)
}

func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.data.(*Object)
}

func (v Value) Closure() *Closure {
	if v.kind != KindFunction {
		return nil
	}
	return v.data.(*Closure)
}

func (v Value) Builtin() *Builtin {
	if v.kind != KindBuiltin {
		return nil
	}
	return v.data.(*Builtin)
}

func (v Value) BoundMethod() *BoundMethod {
	if v.kind != KindBoundMethod {
		return nil
	}
	return v.data.(*BoundMethod)
}

func (v Value) Future() *Future {
	if v.kind != KindFuture {
		return nil
	}
	return v.data.(*Future)
}

func (v Value) Time() time.Time {
	if v.kind != KindTime {
		return time.Time{}
	}
	return v.data.(time.Time)
}

// Callable reports whether v can be invoked by the interpreter.
func (v Value) Callable() bool {
	switch v.kind {
	case KindFunction, KindBuiltin, KindBoundMethod:
		return true
	default:
		return false
	}
}
