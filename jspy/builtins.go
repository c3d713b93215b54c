package jspy

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

func argAt(args []Value, i int, name string) (Value, error) {
	if i >= len(args) {
		return NewNull(), fmt.Errorf("%w: %s expects at least %d arguments", ErrType, name, i+1)
	}
	return args[i], nil
}

func argString(args []Value, i int, name string) (string, error) {
	v, err := argAt(args, i, name)
	if err != nil {
		return "", err
	}
	if v.Kind() != KindString {
		return "", fmt.Errorf("%w: %s argument %d must be a string, got %s", ErrType, name, i+1, v.Kind())
	}
	return v.data.(string), nil
}

func argNumber(args []Value, i int, name string) (float64, error) {
	v, err := argAt(args, i, name)
	if err != nil {
		return 0, err
	}
	if v.Kind() != KindNumber {
		return 0, fmt.Errorf("%w: %s argument %d must be a number, got %s", ErrType, name, i+1, v.Kind())
	}
	return v.Number(), nil
}

func argInt(args []Value, i int, name string) (int, error) {
	n, err := argNumber(args, i, name)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) {
		return 0, fmt.Errorf("%w: %s argument %d must be an integer", ErrType, name, i+1)
	}
	return int(n), nil
}

func argCallable(args []Value, i int, name string) (Value, error) {
	v, err := argAt(args, i, name)
	if err != nil {
		return NewNull(), err
	}
	if !v.Callable() {
		return NewNull(), fmt.Errorf("%w: %s argument %d must be a function, got %s", ErrType, name, i+1, v.Kind())
	}
	return v, nil
}

// defaultBuiltins returns a fresh table of the functions every evaluation
// starts with. Each Interpreter owns its own copy.
func defaultBuiltins() map[string]Value {
	return map[string]Value{
		"range":          NewBuiltin("range", builtinRange),
		"dateTime":       NewBuiltin("dateTime", builtinDateTime),
		"print":          NewBuiltin("print", builtinPrint),
		"isNull":         NewBuiltin("isNull", builtinIsNull),
		"deleteProperty": NewBuiltin("deleteProperty", builtinDeleteProperty),
		"len":            NewBuiltin("len", builtinLen),
		"str":            NewBuiltin("str", builtinStr),
		"JSON": NewObject(map[string]Value{
			"parse":     NewBuiltin("JSON.parse", builtinJSONParse),
			"stringify": NewBuiltin("JSON.stringify", builtinJSONStringify),
		}),
		"Object": NewObject(map[string]Value{
			"keys":    NewBuiltin("Object.keys", builtinObjectKeys),
			"values":  NewBuiltin("Object.values", builtinObjectValues),
			"entries": NewBuiltin("Object.entries", builtinObjectEntries),
		}),
		"Array": NewObject(map[string]Value{
			"isArray": NewBuiltin("Array.isArray", func(exec *Execution, receiver Value, args []Value) (Value, error) {
				return NewBool(len(args) > 0 && args[0].Kind() == KindArray), nil
			}),
		}),
		"Math": mathObject(),
	}
}

// seedBuiltins copies the builtin table for one evaluation. Namespace
// objects such as Math are copied too so that a script mutating them cannot
// affect other evaluations.
func seedBuiltins(table map[string]Value) map[string]Value {
	out := make(map[string]Value, len(table))
	for name, val := range table {
		if val.Kind() == KindObject {
			val = NewObjectValue(val.Object().Clone())
		}
		out[name] = val
	}
	return out
}

func builtinRange(exec *Execution, receiver Value, args []Value) (Value, error) {
	var start, stop, step int
	var err error
	switch len(args) {
	case 1:
		stop, err = argInt(args, 0, "range")
		step = 1
	case 2, 3:
		if start, err = argInt(args, 0, "range"); err != nil {
			return NewNull(), err
		}
		if stop, err = argInt(args, 1, "range"); err != nil {
			return NewNull(), err
		}
		step = 1
		if len(args) == 3 {
			step, err = argInt(args, 2, "range")
		}
	default:
		return NewNull(), fmt.Errorf("%w: range expects 1 to 3 arguments", ErrType)
	}
	if err != nil {
		return NewNull(), err
	}
	if step == 0 {
		return NewNull(), fmt.Errorf("%w: range step must not be zero", ErrType)
	}

	count := 0
	if step > 0 && stop > start {
		count = (stop - start + step - 1) / step
	} else if step < 0 && start > stop {
		count = (start - stop - step - 1) / -step
	}
	if err := exec.charge(count); err != nil {
		return NewNull(), err
	}

	items := make([]Value, 0, count)
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		items = append(items, NewInt(i))
	}
	return NewArray(items), nil
}

func builtinDateTime(exec *Execution, receiver Value, args []Value) (Value, error) {
	if len(args) == 0 || args[0].IsNull() {
		return NewTime(exec.Now()), nil
	}
	s, err := argString(args, 0, "dateTime")
	if err != nil {
		return NewNull(), err
	}
	t, err := parseDateTime(s)
	if err != nil {
		return NewNull(), err
	}
	return NewTime(t), nil
}

// builtinPrint writes its arguments separated by spaces and returns the first.
func builtinPrint(exec *Execution, receiver Value, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	if out := exec.Output(); out != nil {
		if _, err := fmt.Fprintln(out, strings.Join(parts, " ")); err != nil {
			return NewNull(), err
		}
	}
	if len(args) == 0 {
		return NewNull(), nil
	}
	return args[0], nil
}

// builtinIsNull reports whether its argument is null, or with a second
// argument returns that fallback in place of a null value.
func builtinIsNull(exec *Execution, receiver Value, args []Value) (Value, error) {
	v, err := argAt(args, 0, "isNull")
	if err != nil {
		return NewNull(), err
	}
	if len(args) > 1 {
		if v.IsNull() {
			return args[1], nil
		}
		return v, nil
	}
	return NewBool(v.IsNull()), nil
}

func builtinDeleteProperty(exec *Execution, receiver Value, args []Value) (Value, error) {
	obj, err := argAt(args, 0, "deleteProperty")
	if err != nil {
		return NewNull(), err
	}
	if obj.Kind() != KindObject {
		return NewNull(), fmt.Errorf("%w: deleteProperty expects an object, got %s", ErrType, obj.Kind())
	}
	key, err := argAt(args, 1, "deleteProperty")
	if err != nil {
		return NewNull(), err
	}
	return NewBool(obj.Object().Delete(key.String())), nil
}

func builtinLen(exec *Execution, receiver Value, args []Value) (Value, error) {
	v, err := argAt(args, 0, "len")
	if err != nil {
		return NewNull(), err
	}
	switch v.Kind() {
	case KindString:
		return NewInt(utf8.RuneCountInString(v.data.(string))), nil
	case KindArray:
		return NewInt(len(v.Array().Items)), nil
	case KindObject:
		return NewInt(v.Object().Len()), nil
	default:
		return NewNull(), fmt.Errorf("%w: len of %s", ErrType, v.Kind())
	}
}

func builtinStr(exec *Execution, receiver Value, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewString(""), nil
	}
	return NewString(args[0].String()), nil
}

func containerArg(args []Value, name string) (*Object, error) {
	v, err := argAt(args, 0, name)
	if err != nil {
		return nil, err
	}
	if v.Kind() != KindObject {
		return nil, fmt.Errorf("%w: %s expects an object, got %s", ErrType, name, v.Kind())
	}
	return v.Object(), nil
}

func builtinObjectKeys(exec *Execution, receiver Value, args []Value) (Value, error) {
	obj, err := containerArg(args, "Object.keys")
	if err != nil {
		return NewNull(), err
	}
	keys := obj.Keys()
	items := make([]Value, len(keys))
	for i, key := range keys {
		items[i] = NewString(key)
	}
	return NewArray(items), nil
}

func builtinObjectValues(exec *Execution, receiver Value, args []Value) (Value, error) {
	obj, err := containerArg(args, "Object.values")
	if err != nil {
		return NewNull(), err
	}
	items := make([]Value, 0, obj.Len())
	obj.Each(func(_ string, val Value) {
		items = append(items, val)
	})
	return NewArray(items), nil
}

func builtinObjectEntries(exec *Execution, receiver Value, args []Value) (Value, error) {
	obj, err := containerArg(args, "Object.entries")
	if err != nil {
		return NewNull(), err
	}
	items := make([]Value, 0, obj.Len())
	obj.Each(func(key string, val Value) {
		items = append(items, NewArray([]Value{NewString(key), val}))
	})
	return NewArray(items), nil
}
