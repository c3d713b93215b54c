package jspy

import (
	"fmt"
	"strings"
)

func stringMethod(name string) (BuiltinFunc, bool) {
	switch name {
	case "upper":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			return NewString(strings.ToUpper(receiver.String())), nil
		}, true
	case "lower":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			return NewString(strings.ToLower(receiver.String())), nil
		}, true
	case "strip":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			if len(args) > 0 {
				cutset, err := argString(args, 0, "string.strip")
				if err != nil {
					return NewNull(), err
				}
				return NewString(strings.Trim(receiver.String(), cutset)), nil
			}
			return NewString(strings.TrimSpace(receiver.String())), nil
		}, true
	case "split":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			var parts []string
			if len(args) == 0 {
				parts = strings.Fields(receiver.String())
			} else {
				sep, err := argString(args, 0, "string.split")
				if err != nil {
					return NewNull(), err
				}
				if sep == "" {
					return NewNull(), fmt.Errorf("%w: string.split separator must not be empty", ErrType)
				}
				parts = strings.Split(receiver.String(), sep)
			}
			items := make([]Value, len(parts))
			for i, part := range parts {
				items[i] = NewString(part)
			}
			return NewArray(items), nil
		}, true
	case "replace":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			old, err := argString(args, 0, "string.replace")
			if err != nil {
				return NewNull(), err
			}
			repl, err := argString(args, 1, "string.replace")
			if err != nil {
				return NewNull(), err
			}
			return NewString(strings.ReplaceAll(receiver.String(), old, repl)), nil
		}, true
	case "startswith":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			prefix, err := argString(args, 0, "string.startswith")
			if err != nil {
				return NewNull(), err
			}
			return NewBool(strings.HasPrefix(receiver.String(), prefix)), nil
		}, true
	case "endswith":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			suffix, err := argString(args, 0, "string.endswith")
			if err != nil {
				return NewNull(), err
			}
			return NewBool(strings.HasSuffix(receiver.String(), suffix)), nil
		}, true
	case "includes":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			sub, err := argString(args, 0, "string.includes")
			if err != nil {
				return NewNull(), err
			}
			return NewBool(strings.Contains(receiver.String(), sub)), nil
		}, true
	default:
		return nil, false
	}
}
