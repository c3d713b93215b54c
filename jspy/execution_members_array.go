package jspy

import (
	"fmt"
	"strings"
)

// arrayMethod returns the builtin method of arrays called name. The receiver
// is the array the method was looked up on.
func arrayMethod(name string) (BuiltinFunc, bool) {
	switch name {
	case "push", "append":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			arr := receiver.Array()
			arr.Items = append(arr.Items, args...)
			return NewInt(len(arr.Items)), nil
		}, true
	case "pop":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			arr := receiver.Array()
			if len(arr.Items) == 0 {
				return NewNull(), nil
			}
			last := arr.Items[len(arr.Items)-1]
			arr.Items = arr.Items[:len(arr.Items)-1]
			return last, nil
		}, true
	case "join":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			sep := ","
			if len(args) > 0 {
				s, err := argString(args, 0, "array.join")
				if err != nil {
					return NewNull(), err
				}
				sep = s
			}
			items := receiver.Array().Items
			parts := make([]string, len(items))
			for i, item := range items {
				if item.IsNull() {
					continue
				}
				parts[i] = item.String()
			}
			return NewString(strings.Join(parts, sep)), nil
		}, true
	case "map":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			fn, err := argCallable(args, 0, "array.map")
			if err != nil {
				return NewNull(), err
			}
			items := receiver.Array().Items
			out := make([]Value, 0, len(items))
			for i, item := range items {
				val, err := exec.Call(fn, item, NewInt(i))
				if err != nil {
					return NewNull(), err
				}
				out = append(out, val)
			}
			return NewArray(out), nil
		}, true
	case "filter":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			fn, err := argCallable(args, 0, "array.filter")
			if err != nil {
				return NewNull(), err
			}
			items := receiver.Array().Items
			out := make([]Value, 0, len(items))
			for i, item := range items {
				keep, err := exec.Call(fn, item, NewInt(i))
				if err != nil {
					return NewNull(), err
				}
				if keep.Truthy() {
					out = append(out, item)
				}
			}
			return NewArray(out), nil
		}, true
	case "includes":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			if len(args) == 0 {
				return NewNull(), fmt.Errorf("%w: array.includes expects a value", ErrType)
			}
			return NewBool(indexOfValue(receiver.Array().Items, args[0]) >= 0), nil
		}, true
	case "indexOf":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			if len(args) == 0 {
				return NewNull(), fmt.Errorf("%w: array.indexOf expects a value", ErrType)
			}
			return NewInt(indexOfValue(receiver.Array().Items, args[0])), nil
		}, true
	case "slice":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			items := receiver.Array().Items
			start, end, err := sliceBounds(args, len(items), "array.slice")
			if err != nil {
				return NewNull(), err
			}
			out := make([]Value, end-start)
			copy(out, items[start:end])
			return NewArray(out), nil
		}, true
	default:
		return nil, false
	}
}

func indexOfValue(items []Value, needle Value) int {
	for i, item := range items {
		if item.Equal(needle) {
			return i
		}
	}
	return -1
}

// sliceBounds resolves optional start and end arguments against length n.
// Negative positions count from the end, as in Python slices.
func sliceBounds(args []Value, n int, name string) (int, int, error) {
	start, end := 0, n
	if len(args) > 0 && !args[0].IsNull() {
		v, err := argInt(args, 0, name)
		if err != nil {
			return 0, 0, err
		}
		start = v
	}
	if len(args) > 1 && !args[1].IsNull() {
		v, err := argInt(args, 1, name)
		if err != nil {
			return 0, 0, err
		}
		end = v
	}
	clamp := func(i int) int {
		if i < 0 {
			i += n
		}
		return max(0, min(i, n))
	}
	start, end = clamp(start), clamp(end)
	if end < start {
		end = start
	}
	return start, end, nil
}
