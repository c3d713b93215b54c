package jspy

import (
	"fmt"
	"math"
)

func mathObject() Value {
	unary := func(name string, fn func(float64) float64) Value {
		return NewBuiltin(name, func(exec *Execution, receiver Value, args []Value) (Value, error) {
			n, err := argNumber(args, 0, name)
			if err != nil {
				return NewNull(), err
			}
			return NewNumber(fn(n)), nil
		})
	}
	return NewObject(map[string]Value{
		"floor": unary("Math.floor", math.Floor),
		"ceil":  unary("Math.ceil", math.Ceil),
		"round": unary("Math.round", roundHalfUp),
		"abs":   unary("Math.abs", math.Abs),
		"sqrt":  unary("Math.sqrt", math.Sqrt),
		"min":   NewBuiltin("Math.min", builtinMathMin),
		"max":   NewBuiltin("Math.max", builtinMathMax),
		"pow": NewBuiltin("Math.pow", func(exec *Execution, receiver Value, args []Value) (Value, error) {
			base, err := argNumber(args, 0, "Math.pow")
			if err != nil {
				return NewNull(), err
			}
			exp, err := argNumber(args, 1, "Math.pow")
			if err != nil {
				return NewNull(), err
			}
			return NewNumber(math.Pow(base, exp)), nil
		}),
	})
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}

func numericArgs(args []Value, name string) ([]float64, error) {
	if len(args) == 1 && args[0].Kind() == KindArray {
		args = args[0].Array().Items
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: %s expects at least one number", ErrType, name)
	}
	nums := make([]float64, len(args))
	for i := range args {
		n, err := argNumber(args, i, name)
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}
	return nums, nil
}

func builtinMathMin(exec *Execution, receiver Value, args []Value) (Value, error) {
	nums, err := numericArgs(args, "Math.min")
	if err != nil {
		return NewNull(), err
	}
	out := nums[0]
	for _, n := range nums[1:] {
		out = math.Min(out, n)
	}
	return NewNumber(out), nil
}

func builtinMathMax(exec *Execution, receiver Value, args []Value) (Value, error) {
	nums, err := numericArgs(args, "Math.max")
	if err != nil {
		return NewNull(), err
	}
	out := nums[0]
	for _, n := range nums[1:] {
		out = math.Max(out, n)
	}
	return NewNumber(out), nil
}
