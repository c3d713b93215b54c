package jspy

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error produced by the interpreter matches one of these
// with errors.Is; errors returned by host functions pass through untouched.
var (
	ErrUnboundName           = errors.New("unbound name")
	ErrType                  = errors.New("type error")
	ErrUnsupportedAssignment = errors.New("unsupported assignment")
	ErrUnresolvableAccess    = errors.New("unresolvable access")
	ErrUnsupportedNode       = errors.New("unsupported node")
	ErrTooManyArguments      = errors.New("too many arguments")
	ErrPackageLoaderMissing  = errors.New("package loader missing")
	ErrPackageNotFound       = errors.New("package not found")
	ErrConfiguration         = errors.New("configuration error")
	ErrParse                 = errors.New("parse error")
	ErrStepQuota             = errors.New("step quota exceeded")
	ErrRecursionLimit        = errors.New("recursion depth exceeded")
)

var (
	errLoopBreak    = errors.New("break outside loop")
	errLoopContinue = errors.New("continue outside loop")
)

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError is an evaluation failure with the source position, a code
// frame and the script call stack at the point of failure.
type RuntimeError struct {
	Kind      error
	Message   string
	Pos       Position
	CodeFrame string
	Frames    []StackFrame
}

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}
	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

// Unwrap exposes the error kind so callers can use errors.Is.
func (re *RuntimeError) Unwrap() error {
	return re.Kind
}

type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func (e *ParseError) Unwrap() error { return ErrParse }

func newParseError(pos Position, format string, args ...any) error {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}
