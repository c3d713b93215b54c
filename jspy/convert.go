package jspy

import (
	"fmt"
	"sort"
	"time"
)

// FromGo converts plain Go data into a Value. It accepts the shapes produced
// by encoding/json plus integers, time.Time, Values, BuiltinFuncs and Futures.
func FromGo(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return NewNull(), nil
	case Value:
		return v, nil
	case bool:
		return NewBool(v), nil
	case string:
		return NewString(v), nil
	case float64:
		return NewNumber(v), nil
	case float32:
		return NewNumber(float64(v)), nil
	case int:
		return NewNumber(float64(v)), nil
	case int32:
		return NewNumber(float64(v)), nil
	case int64:
		return NewNumber(float64(v)), nil
	case uint:
		return NewNumber(float64(v)), nil
	case uint32:
		return NewNumber(float64(v)), nil
	case uint64:
		return NewNumber(float64(v)), nil
	case time.Time:
		return NewTime(v), nil
	case *Future:
		return NewFutureValue(v), nil
	case BuiltinFunc:
		return NewBuiltin("host", v), nil
	case func(exec *Execution, receiver Value, args []Value) (Value, error):
		return NewBuiltin("host", v), nil
	case []Value:
		return NewArray(v), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			conv, err := FromGo(item)
			if err != nil {
				return NewNull(), fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = conv
		}
		return NewArray(items), nil
	case []string:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = NewString(item)
		}
		return NewArray(items), nil
	case map[string]Value:
		return NewObject(v), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObjectMap()
		for _, k := range keys {
			conv, err := FromGo(v[k])
			if err != nil {
				return NewNull(), fmt.Errorf("key %q: %w", k, err)
			}
			obj.Set(k, conv)
		}
		return NewObjectValue(obj), nil
	default:
		return NewNull(), fmt.Errorf("%w: cannot convert %T to a script value", ErrType, raw)
	}
}

// MustFromGo is FromGo for literals known to convert.
func MustFromGo(raw any) Value {
	v, err := FromGo(raw)
	if err != nil {
		panic(err)
	}
	return v
}
