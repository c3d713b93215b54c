package jspy

import "errors"

// hoistFunctions binds every function defined in block before any statement
// of the block runs, so definitions can be called from earlier lines and from
// each other.
func (exec *Execution) hoistFunctions(block *Block, scope *Scope) {
	for _, fn := range block.Funcs {
		exec.defineFunction(fn, scope)
	}
}

func (exec *Execution) defineFunction(def *FuncDefNode, scope *Scope) Value {
	fn := NewFunction(&Closure{Name: def.Name, Params: def.Params, Body: def.Body, Env: scope})
	scope.Define(def.Name, fn)
	return fn
}

// evalBlock runs block in scope. The result is the value of the last
// statement, and returned reports whether a return statement ended the block.
func (exec *Execution) evalBlock(block *Block, scope *Scope) (Value, bool, error) {
	if block == nil {
		return NewNull(), false, nil
	}
	exec.hoistFunctions(block, scope)

	result := NewNull()
	for _, stmt := range block.Body {
		if err := exec.step(); err != nil {
			return NewNull(), false, err
		}
		val, returned, err := exec.evalStatement(stmt, scope)
		if err != nil {
			return NewNull(), false, err
		}
		if returned {
			return val, true, nil
		}
		result = val
	}
	return result, false, nil
}

func (exec *Execution) evalStatement(stmt Node, scope *Scope) (Value, bool, error) {
	switch s := stmt.(type) {
	case *ReturnNode:
		if s.Value == nil {
			return NewNull(), true, nil
		}
		val, err := exec.evalExpression(s.Value, scope)
		return val, true, err
	case *IfNode:
		return exec.evalIfStatement(s, scope)
	case *ForNode:
		return exec.evalForStatement(s, scope)
	case *WhileNode:
		return exec.evalWhileStatement(s, scope)
	case *BreakNode:
		if exec.loopDepth == 0 {
			return NewNull(), false, exec.errorAt(ErrUnsupportedNode, s.Pos(), "break outside loop")
		}
		return NewNull(), false, errLoopBreak
	case *ContinueNode:
		if exec.loopDepth == 0 {
			return NewNull(), false, exec.errorAt(ErrUnsupportedNode, s.Pos(), "continue outside loop")
		}
		return NewNull(), false, errLoopContinue
	default:
		val, err := exec.evalExpression(stmt, scope)
		return val, false, err
	}
}

func (exec *Execution) evalIfStatement(stmt *IfNode, scope *Scope) (Value, bool, error) {
	condition, err := exec.evalExpression(stmt.Condition, scope)
	if err != nil {
		return NewNull(), false, err
	}
	if condition.Truthy() {
		return exec.evalBlock(stmt.Then, scope)
	}
	if stmt.Else != nil {
		return exec.evalBlock(stmt.Else, scope)
	}
	return NewNull(), false, nil
}

func (exec *Execution) evalForStatement(stmt *ForNode, scope *Scope) (Value, bool, error) {
	exec.loopDepth++
	defer func() {
		exec.loopDepth--
	}()

	iterable, err := exec.evalExpression(stmt.Iterable, scope)
	if err != nil {
		return NewNull(), false, err
	}

	var items []Value
	switch iterable.Kind() {
	case KindArray:
		// Snapshot so the body may append without looping forever.
		items = append([]Value(nil), iterable.Array().Items...)
	case KindObject:
		for _, key := range iterable.Object().Keys() {
			items = append(items, NewString(key))
		}
	case KindString:
		for _, r := range iterable.data.(string) {
			items = append(items, NewString(string(r)))
		}
	default:
		return NewNull(), false, exec.errorAt(ErrType, stmt.Pos(), "cannot iterate over %s", iterable.Kind())
	}

	last := NewNull()
	for _, item := range items {
		if err := exec.step(); err != nil {
			return NewNull(), false, err
		}
		scope.Set(stmt.Iterator, item)
		val, returned, err := exec.evalBlock(stmt.Body, scope)
		if err != nil {
			if errors.Is(err, errLoopBreak) {
				return last, false, nil
			}
			if errors.Is(err, errLoopContinue) {
				continue
			}
			return NewNull(), false, err
		}
		if returned {
			return val, true, nil
		}
		last = val
	}
	return last, false, nil
}

func (exec *Execution) evalWhileStatement(stmt *WhileNode, scope *Scope) (Value, bool, error) {
	exec.loopDepth++
	defer func() {
		exec.loopDepth--
	}()

	last := NewNull()
	for {
		if err := exec.step(); err != nil {
			return NewNull(), false, err
		}
		condition, err := exec.evalExpression(stmt.Condition, scope)
		if err != nil {
			return NewNull(), false, err
		}
		if !condition.Truthy() {
			return last, false, nil
		}
		val, returned, err := exec.evalBlock(stmt.Body, scope)
		if err != nil {
			if errors.Is(err, errLoopBreak) {
				return last, false, nil
			}
			if errors.Is(err, errLoopContinue) {
				continue
			}
			return NewNull(), false, err
		}
		if returned {
			return val, true, nil
		}
		last = val
	}
}
