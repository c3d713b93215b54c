package jspy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'jspy.eval'
func tracer() tracing.Trace {
	return tracing.Select("jspy.eval")
}

// Execution is the state of one evaluation: its context, quotas and the
// script call stack. Host functions receive it as their first argument.
type Execution struct {
	ctx          context.Context
	source       string
	quota        int
	recursionCap int
	maxArgs      int
	strictProps  bool
	steps        int
	callStack    []StackFrame
	loopDepth    int
	output       io.Writer
	now          func() time.Time
}

// Context returns the context of the running evaluation.
func (exec *Execution) Context() context.Context {
	if exec.ctx == nil {
		return context.Background()
	}
	return exec.ctx
}

func (exec *Execution) Output() io.Writer { return exec.output }

func (exec *Execution) Now() time.Time {
	if exec.now == nil {
		return time.Now()
	}
	return exec.now()
}

// charge counts n units of work against the step quota.
func (exec *Execution) charge(n int) error {
	exec.steps += n
	if exec.quota > 0 && exec.steps > exec.quota {
		return fmt.Errorf("%w (%d)", ErrStepQuota, exec.quota)
	}
	return nil
}

func (exec *Execution) step() error {
	if err := exec.charge(1); err != nil {
		return err
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.ctx.Err()
		default:
		}
	}
	return nil
}

func (exec *Execution) pushFrame(function string, pos Position) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.errorAt(ErrRecursionLimit, pos, "recursion depth exceeded (limit %d)", exec.recursionCap)
	}
	exec.callStack = append(exec.callStack, StackFrame{Function: function, Pos: pos})
	return nil
}

func (exec *Execution) popFrame() {
	if len(exec.callStack) == 0 {
		return
	}
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}

func (exec *Execution) errorAt(kind error, pos Position, format string, args ...any) error {
	return exec.newRuntimeError(kind, fmt.Sprintf(format, args...), pos)
}

func (exec *Execution) newRuntimeError(kind error, message string, pos Position) error {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)
	if len(exec.callStack) > 0 {
		current := exec.callStack[len(exec.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: pos})
		for i := len(exec.callStack) - 1; i >= 0; i-- {
			frames = append(frames, exec.callStack[i])
		}
	} else {
		frames = append(frames, StackFrame{Function: "<script>", Pos: pos})
	}
	codeFrame := ""
	if exec.source != "" {
		codeFrame = formatCodeFrame(exec.source, pos)
	}
	return &RuntimeError{Kind: kind, Message: message, Pos: pos, CodeFrame: codeFrame, Frames: frames}
}

var interpreterKinds = []error{
	ErrUnboundName,
	ErrType,
	ErrUnsupportedAssignment,
	ErrUnresolvableAccess,
	ErrUnsupportedNode,
	ErrTooManyArguments,
	ErrPackageLoaderMissing,
	ErrConfiguration,
	ErrParse,
	ErrRecursionLimit,
}

// wrapError attaches position and stack to errors of a known kind. Runtime
// errors, control signals and foreign host errors are returned unchanged.
func (exec *Execution) wrapError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	var re *RuntimeError
	if errors.As(err, &re) || isControlSignal(err) {
		return err
	}
	for _, kind := range interpreterKinds {
		if errors.Is(err, kind) {
			return exec.newRuntimeError(kind, err.Error(), pos)
		}
	}
	return err
}

func isControlSignal(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrStepQuota) ||
		isLoopControlSignal(err)
}

func isLoopControlSignal(err error) bool {
	return errors.Is(err, errLoopBreak) || errors.Is(err, errLoopContinue)
}

// settle awaits futures so callers only ever see settled values.
func (exec *Execution) settle(val Value) (Value, error) {
	for val.Kind() == KindFuture {
		res, err := val.Future().Await(exec.Context())
		if err != nil {
			return NewNull(), err
		}
		val = res
	}
	return val, nil
}

func (exec *Execution) evalExpression(node Node, scope *Scope) (Value, error) {
	val, err := exec.evalNode(node, scope)
	if err != nil {
		return NewNull(), err
	}
	return exec.settle(val)
}

func (exec *Execution) evalNode(node Node, scope *Scope) (Value, error) {
	switch n := node.(type) {
	case *ConstNode:
		return n.Value, nil
	case *GetVarNode:
		val, err := scope.Get(n.Name)
		if err != nil {
			return NewNull(), exec.wrapError(err, n.Pos())
		}
		return val, nil
	case *BinOpNode:
		return exec.evalBinaryOp(n, scope)
	case *LogicalOpNode:
		return exec.evalLogicalOp(n, scope)
	case *UnaryOpNode:
		return exec.evalUnaryOp(n, scope)
	case *FuncDefNode:
		fn := exec.defineFunction(n, scope)
		return fn, nil
	case *ArrowFuncDefNode:
		return NewFunction(&Closure{Params: n.Params, Body: n.Body, Env: scope}), nil
	case *FuncCallNode:
		return exec.evalCall(n, scope)
	case *AssignNode:
		return exec.evalAssign(n, scope)
	case *DotAccessNode:
		return exec.evalDotChain(n, scope)
	case *BracketAccessNode:
		return exec.evalBracketAccess(n, scope)
	case *CreateObjectNode:
		return exec.evalObjectLiteral(n, scope)
	case *CreateArrayNode:
		return exec.evalArrayLiteral(n, scope)
	case nil:
		return NewNull(), exec.errorAt(ErrUnsupportedNode, Position{}, "missing node")
	default:
		return NewNull(), exec.errorAt(ErrUnsupportedNode, node.Pos(), "unsupported node %T", node)
	}
}

func (exec *Execution) evalObjectLiteral(node *CreateObjectNode, scope *Scope) (Value, error) {
	obj := NewObjectMap()
	for _, prop := range node.Props {
		name, err := exec.evalExpression(prop.Name, scope)
		if err != nil {
			return NewNull(), err
		}
		val, err := exec.evalExpression(prop.Value, scope)
		if err != nil {
			return NewNull(), err
		}
		obj.Set(name.String(), val)
	}
	return NewObjectValue(obj), nil
}

func (exec *Execution) evalArrayLiteral(node *CreateArrayNode, scope *Scope) (Value, error) {
	items := make([]Value, 0, len(node.Items))
	for _, item := range node.Items {
		val, err := exec.evalExpression(item, scope)
		if err != nil {
			return NewNull(), err
		}
		items = append(items, val)
	}
	return NewArray(items), nil
}
