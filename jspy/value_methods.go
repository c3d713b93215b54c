package jspy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "builtin"
	case KindBoundMethod:
		return "method"
	case KindFuture:
		return "future"
	case KindTime:
		return "datetime"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// String returns the canonical string form used by string concatenation.
// Strings are returned as-is; containers render as JSON-like text.
func (v Value) String() string {
	if v.kind == KindString {
		return v.data.(string)
	}
	var b strings.Builder
	v.writeRepr(&b, make(map[any]struct{}))
	return b.String()
}

// Repr is like String but quotes strings.
func (v Value) Repr() string {
	var b strings.Builder
	v.writeRepr(&b, make(map[any]struct{}))
	return b.String()
}

func (v Value) writeRepr(b *strings.Builder, seen map[any]struct{}) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.Bool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		b.WriteString(formatNumber(v.Number()))
	case KindString:
		b.WriteString(strconv.Quote(v.data.(string)))
	case KindTime:
		b.WriteString(v.Time().Format(time.RFC3339Nano))
	case KindArray:
		arr := v.Array()
		if _, ok := seen[arr]; ok {
			b.WriteString("[...]")
			return
		}
		seen[arr] = struct{}{}
		defer delete(seen, arr)
		b.WriteByte('[')
		for i, item := range arr.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.writeRepr(b, seen)
		}
		b.WriteByte(']')
	case KindObject:
		obj := v.Object()
		if _, ok := seen[obj]; ok {
			b.WriteString("{...}")
			return
		}
		seen[obj] = struct{}{}
		defer delete(seen, obj)
		b.WriteByte('{')
		first := true
		obj.Each(func(key string, val Value) {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(strconv.Quote(key))
			b.WriteString(": ")
			val.writeRepr(b, seen)
		})
		b.WriteByte('}')
	case KindFunction:
		fn := v.Closure()
		if fn.Name == "" {
			b.WriteString("<function>")
		} else {
			fmt.Fprintf(b, "<function %s>", fn.Name)
		}
	case KindBuiltin:
		fmt.Fprintf(b, "<builtin %s>", v.Builtin().Name)
	case KindBoundMethod:
		b.WriteString("<method>")
	case KindFuture:
		b.WriteString("<future>")
	default:
		fmt.Fprintf(b, "<%v>", v.kind)
	}
}

func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool()
	case KindNumber:
		return v.Number() != 0
	case KindString:
		return v.data.(string) != ""
	case KindArray:
		return len(v.Array().Items) > 0
	case KindObject:
		return v.Object().Len() > 0
	default:
		return true
	}
}

// Equal compares primitives by value and containers and functions by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.Number() == other.Number()
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindTime:
		return v.Time().Equal(other.Time())
	default:
		return v.data == other.data
	}
}

// Interface converts v into plain Go values: nil, bool, float64, string,
// []any, map[string]any and time.Time. Functions convert to their Value.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool()
	case KindNumber:
		return v.Number()
	case KindString:
		return v.data.(string)
	case KindTime:
		return v.Time()
	case KindArray:
		items := v.Array().Items
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.Object().Len())
		v.Object().Each(func(key string, val Value) {
			out[key] = val.Interface()
		})
		return out
	default:
		return v
	}
}
