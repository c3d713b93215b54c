package jspy

import "errors"

func (exec *Execution) evalCall(call *FuncCallNode, scope *Scope) (Value, error) {
	var callee Value
	var err error
	if call.Callee != nil {
		callee, err = exec.evalExpression(call.Callee, scope)
		if err != nil {
			return NewNull(), err
		}
	} else {
		callee, err = scope.Get(call.Name)
		if err != nil {
			return NewNull(), exec.wrapError(err, call.Pos())
		}
	}

	args, err := exec.evalCallArgs(call.Args, scope)
	if err != nil {
		return NewNull(), err
	}
	return exec.invokeCallable(callee, NewNull(), args, call.Pos())
}

func (exec *Execution) evalCallArgs(nodes []Node, scope *Scope) ([]Value, error) {
	args := make([]Value, 0, len(nodes))
	for _, node := range nodes {
		val, err := exec.evalExpression(node, scope)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return args, nil
}

// Call invokes a script or host function from host code, for example a
// callback passed to a builtin.
func (exec *Execution) Call(fn Value, args ...Value) (Value, error) {
	pos := Position{}
	if len(exec.callStack) > 0 {
		pos = exec.callStack[len(exec.callStack)-1].Pos
	}
	return exec.invokeCallable(fn, NewNull(), args, pos)
}

func (exec *Execution) invokeCallable(callee Value, receiver Value, args []Value, pos Position) (Value, error) {
	switch callee.Kind() {
	case KindBoundMethod:
		bound := callee.BoundMethod()
		return exec.invokeCallable(bound.Method, bound.Receiver, args, pos)
	case KindFunction:
		result, err := exec.callFunction(callee.Closure(), args, pos)
		if err != nil {
			if errors.Is(err, errLoopBreak) {
				return NewNull(), exec.errorAt(ErrUnsupportedNode, pos, "break cannot cross call boundary")
			}
			if errors.Is(err, errLoopContinue) {
				return NewNull(), exec.errorAt(ErrUnsupportedNode, pos, "continue cannot cross call boundary")
			}
			return NewNull(), err
		}
		return result, nil
	case KindBuiltin:
		builtin := callee.Builtin()
		if exec.maxArgs > 0 && len(args) > exec.maxArgs {
			return NewNull(), exec.errorAt(ErrTooManyArguments, pos,
				"%s called with %d arguments (limit %d)", builtin.Name, len(args), exec.maxArgs)
		}
		result, err := builtin.Fn(exec, receiver, args)
		if err != nil {
			if isLoopControlSignal(err) {
				return NewNull(), exec.errorAt(ErrUnsupportedNode, pos, "loop control cannot cross call boundary")
			}
			return NewNull(), exec.wrapError(err, pos)
		}
		return exec.settle(result)
	default:
		return NewNull(), exec.errorAt(ErrType, pos, "%s is not callable", callee.Kind())
	}
}

// callFunction runs a closure in a fresh frame whose parent is the scope the
// closure was defined in. Parameters without an argument stay unbound.
func (exec *Execution) callFunction(fn *Closure, args []Value, pos Position) (Value, error) {
	frame := NewScope(fn.Env)
	for i, name := range fn.Params {
		if i >= len(args) {
			break
		}
		frame.Define(name, args[i])
	}

	name := fn.Name
	if name == "" {
		name = "<arrow>"
	}
	if err := exec.pushFrame(name, pos); err != nil {
		return NewNull(), err
	}
	loopDepth := exec.loopDepth
	exec.loopDepth = 0
	val, _, err := exec.evalBlock(fn.Body, frame)
	exec.loopDepth = loopDepth
	exec.popFrame()
	if err != nil {
		return NewNull(), err
	}
	return val, nil
}
