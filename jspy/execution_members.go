package jspy

import (
	"math"
	"unicode/utf8"
)

func (exec *Execution) evalDotChain(chain *DotAccessNode, scope *Scope) (Value, error) {
	if len(chain.Props) == 0 {
		return NewNull(), exec.errorAt(ErrUnresolvableAccess, chain.Pos(), "empty property chain")
	}
	cur, err := exec.evalExpression(chain.Props[0], scope)
	if err != nil {
		return NewNull(), err
	}
	for _, segment := range chain.Props[1:] {
		cur, err = exec.applySegment(cur, segment, scope)
		if err != nil {
			return NewNull(), err
		}
		if cur, err = exec.settle(cur); err != nil {
			return NewNull(), err
		}
	}
	return cur, nil
}

func (exec *Execution) applySegment(cur Value, segment Node, scope *Scope) (Value, error) {
	switch s := segment.(type) {
	case *GetVarNode:
		return exec.getProperty(cur, s.Name, s.Pos())
	case *BracketAccessNode:
		base := cur
		if s.PropertyName != "" {
			var err error
			base, err = exec.getProperty(cur, s.PropertyName, s.Pos())
			if err != nil {
				return NewNull(), err
			}
		}
		key, err := exec.evalExpression(s.Key, scope)
		if err != nil {
			return NewNull(), err
		}
		return exec.index(base, key, s.Pos())
	case *FuncCallNode:
		if s.Name == "" || s.Callee != nil {
			return NewNull(), exec.errorAt(ErrUnresolvableAccess, s.Pos(), "method call segment without a name")
		}
		method, err := exec.lookupMethod(cur, s.Name, s.Pos())
		if err != nil {
			return NewNull(), err
		}
		args, err := exec.evalCallArgs(s.Args, scope)
		if err != nil {
			return NewNull(), err
		}
		return exec.invokeCallable(newBoundMethod(cur, method), NewNull(), args, s.Pos())
	default:
		return NewNull(), exec.errorAt(ErrUnresolvableAccess, segment.Pos(), "cannot resolve %T in property chain", segment)
	}
}

func (exec *Execution) evalBracketAccess(node *BracketAccessNode, scope *Scope) (Value, error) {
	if node.PropertyName == "" {
		return NewNull(), exec.errorAt(ErrUnresolvableAccess, node.Pos(), "index without a base value")
	}
	base, err := scope.Get(node.PropertyName)
	if err != nil {
		return NewNull(), exec.wrapError(err, node.Pos())
	}
	if base, err = exec.settle(base); err != nil {
		return NewNull(), err
	}
	key, err := exec.evalExpression(node.Key, scope)
	if err != nil {
		return NewNull(), err
	}
	return exec.index(base, key, node.Pos())
}

func (exec *Execution) missingProperty(owner Value, name string, pos Position) (Value, error) {
	if exec.strictProps {
		return NewNull(), exec.errorAt(ErrUnboundName, pos, "%s has no property %q", owner.Kind(), name)
	}
	return NewNull(), nil
}

// getProperty reads name from val. Builtin methods of arrays, strings and
// date-times are returned bound to val.
func (exec *Execution) getProperty(val Value, name string, pos Position) (Value, error) {
	switch val.Kind() {
	case KindObject:
		if prop, ok := val.Object().Get(name); ok {
			return prop, nil
		}
		return exec.missingProperty(val, name, pos)
	case KindArray:
		if name == "length" {
			return NewInt(len(val.Array().Items)), nil
		}
		if fn, ok := arrayMethod(name); ok {
			return newBoundMethod(val, NewBuiltin("array."+name, fn)), nil
		}
		return exec.missingProperty(val, name, pos)
	case KindString:
		if name == "length" {
			return NewInt(utf8.RuneCountInString(val.data.(string))), nil
		}
		if fn, ok := stringMethod(name); ok {
			return newBoundMethod(val, NewBuiltin("string."+name, fn)), nil
		}
		return exec.missingProperty(val, name, pos)
	case KindTime:
		if fn, ok := timeMethod(name); ok {
			return newBoundMethod(val, NewBuiltin("datetime."+name, fn)), nil
		}
		return exec.missingProperty(val, name, pos)
	default:
		return NewNull(), exec.errorAt(ErrType, pos, "cannot read property %q of %s", name, val.Kind())
	}
}

// lookupMethod finds the callable for a method call segment.
func (exec *Execution) lookupMethod(val Value, name string, pos Position) (Value, error) {
	var method Value
	switch val.Kind() {
	case KindObject:
		prop, ok := val.Object().Get(name)
		if !ok {
			return NewNull(), exec.errorAt(ErrUnboundName, pos, "object has no method %q", name)
		}
		method = prop
	case KindArray:
		fn, ok := arrayMethod(name)
		if !ok {
			return NewNull(), exec.errorAt(ErrUnboundName, pos, "array has no method %q", name)
		}
		method = NewBuiltin("array."+name, fn)
	case KindString:
		fn, ok := stringMethod(name)
		if !ok {
			return NewNull(), exec.errorAt(ErrUnboundName, pos, "string has no method %q", name)
		}
		method = NewBuiltin("string."+name, fn)
	case KindTime:
		fn, ok := timeMethod(name)
		if !ok {
			return NewNull(), exec.errorAt(ErrUnboundName, pos, "datetime has no method %q", name)
		}
		method = NewBuiltin("datetime."+name, fn)
	default:
		return NewNull(), exec.errorAt(ErrType, pos, "cannot call method %q on %s", name, val.Kind())
	}
	if !method.Callable() {
		return NewNull(), exec.errorAt(ErrType, pos, "property %q is %s, not a function", name, method.Kind())
	}
	return method, nil
}

// index implements bracket access: objects by canonical string key, arrays
// and strings by integer position. Out of range positions read as null.
func (exec *Execution) index(base Value, key Value, pos Position) (Value, error) {
	switch base.Kind() {
	case KindObject:
		name := key.String()
		if val, ok := base.Object().Get(name); ok {
			return val, nil
		}
		return exec.missingProperty(base, name, pos)
	case KindArray:
		i, err := exec.integerIndex(key, pos)
		if err != nil {
			return NewNull(), err
		}
		items := base.Array().Items
		if i < 0 || i >= len(items) {
			return NewNull(), nil
		}
		return items[i], nil
	case KindString:
		i, err := exec.integerIndex(key, pos)
		if err != nil {
			return NewNull(), err
		}
		runes := []rune(base.data.(string))
		if i < 0 || i >= len(runes) {
			return NewNull(), nil
		}
		return NewString(string(runes[i])), nil
	default:
		return NewNull(), exec.errorAt(ErrType, pos, "cannot index %s", base.Kind())
	}
}

func (exec *Execution) integerIndex(key Value, pos Position) (int, error) {
	if key.Kind() != KindNumber {
		return 0, exec.errorAt(ErrType, pos, "index must be a number, got %s", key.Kind())
	}
	n := key.Number()
	if n != math.Trunc(n) {
		return 0, exec.errorAt(ErrType, pos, "index must be an integer, got %s", formatNumber(n))
	}
	return int(n), nil
}
