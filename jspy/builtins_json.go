package jspy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

const maxJSONPayloadBytes = 1 << 20

func builtinJSONParse(exec *Execution, receiver Value, args []Value) (Value, error) {
	raw, err := argString(args, 0, "JSON.parse")
	if err != nil {
		return NewNull(), err
	}
	if len(raw) > maxJSONPayloadBytes {
		return NewNull(), fmt.Errorf("%w: JSON.parse input exceeds limit %d bytes", ErrType, maxJSONPayloadBytes)
	}
	val, err := ParseJSON(raw)
	if err != nil {
		return NewNull(), err
	}
	return val, nil
}

// ParseJSON decodes a JSON document into a Value. Object keys keep their
// document order.
func ParseJSON(raw string) (Value, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()

	val, err := decodeJSONValue(decoder)
	if err != nil {
		return NewNull(), fmt.Errorf("%w: invalid JSON: %v", ErrType, err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return NewNull(), fmt.Errorf("%w: invalid JSON: trailing data", ErrType)
	}
	return val, nil
}

func decodeJSONValue(decoder *json.Decoder) (Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		return NewNull(), err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObjectMap()
			for decoder.More() {
				keyTok, err := decoder.Token()
				if err != nil {
					return NewNull(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return NewNull(), fmt.Errorf("object key must be a string")
				}
				val, err := decodeJSONValue(decoder)
				if err != nil {
					return NewNull(), err
				}
				obj.Set(key, val)
			}
			if _, err := decoder.Token(); err != nil {
				return NewNull(), err
			}
			return NewObjectValue(obj), nil
		case '[':
			items := []Value{}
			for decoder.More() {
				val, err := decodeJSONValue(decoder)
				if err != nil {
					return NewNull(), err
				}
				items = append(items, val)
			}
			if _, err := decoder.Token(); err != nil {
				return NewNull(), err
			}
			return NewArray(items), nil
		default:
			return NewNull(), fmt.Errorf("unexpected delimiter %s", t)
		}
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return NewNull(), err
		}
		return NewNumber(f), nil
	case string:
		return NewString(t), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return NewNull(), nil
	default:
		return NewNull(), fmt.Errorf("unexpected token %v", tok)
	}
}

func builtinJSONStringify(exec *Execution, receiver Value, args []Value) (Value, error) {
	val, err := argAt(args, 0, "JSON.stringify")
	if err != nil {
		return NewNull(), err
	}
	payload, err := MarshalJSON(val)
	if err != nil {
		return NewNull(), err
	}
	if len(payload) > maxJSONPayloadBytes {
		return NewNull(), fmt.Errorf("%w: JSON.stringify output exceeds limit %d bytes", ErrType, maxJSONPayloadBytes)
	}
	return NewString(string(payload)), nil
}

// MarshalJSON encodes val as compact JSON, writing object keys in insertion
// order. Functions, futures and cyclic containers cannot be encoded.
func MarshalJSON(val Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeJSONValue(&buf, val, make(map[any]struct{})); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSONValue(buf *bytes.Buffer, val Value, seen map[any]struct{}) error {
	switch val.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if val.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		n := val.Number()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(formatNumber(n))
	case KindString:
		return writeJSONString(buf, val.data.(string))
	case KindTime:
		return writeJSONString(buf, val.Time().Format(time.RFC3339Nano))
	case KindArray:
		arr := val.Array()
		if _, ok := seen[arr]; ok {
			return fmt.Errorf("%w: JSON.stringify does not support cyclic arrays", ErrType)
		}
		seen[arr] = struct{}{}
		defer delete(seen, arr)
		buf.WriteByte('[')
		for i, item := range arr.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSONValue(buf, item, seen); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		obj := val.Object()
		if _, ok := seen[obj]; ok {
			return fmt.Errorf("%w: JSON.stringify does not support cyclic objects", ErrType)
		}
		seen[obj] = struct{}{}
		defer delete(seen, obj)
		buf.WriteByte('{')
		first := true
		var err error
		obj.Each(func(key string, item Value) {
			if err != nil {
				return
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err = writeJSONString(buf, key); err != nil {
				return
			}
			buf.WriteByte(':')
			err = encodeJSONValue(buf, item, seen)
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: JSON.stringify unsupported value kind %s", ErrType, val.Kind())
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}
