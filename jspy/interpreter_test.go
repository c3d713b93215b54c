package jspy

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestInterpreter(t *testing.T, cfg Config) *Interpreter {
	t.Helper()
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}
	in, err := New(cfg)
	if err != nil {
		t.Fatalf("new interpreter: %v", err)
	}
	return in
}

func evalSource(t *testing.T, source string, vars map[string]Value) Value {
	t.Helper()
	in := newTestInterpreter(t, Config{})
	result, err := in.Evaluate(context.Background(), source, vars, "")
	if err != nil {
		t.Fatalf("evaluate %q: %v", source, err)
	}
	return result
}

func expectNumber(t *testing.T, got Value, want float64) {
	t.Helper()
	if got.Kind() != KindNumber || got.Number() != want {
		t.Fatalf("expected %v, got %s", want, got.Repr())
	}
}

func expectString(t *testing.T, got Value, want string) {
	t.Helper()
	if got.Kind() != KindString || got.String() != want {
		t.Fatalf("expected %q, got %s", want, got.Repr())
	}
}

func TestArithmetic(t *testing.T) {
	sub := func(a, b float64) float64 { return a - b }
	tests := []struct {
		source string
		want   float64
	}{
		{"1+2", 3},
		{"1+2+3", 6},
		{"(1 + 2) * 3", 9},
		{"(1 + 2) * 3 + 5", 14},
		{"(1 + 2) * (3 + 5)", 24},
		{"(1 + 2) * (3 + 4) -5", 16},
		{"2*(3+4)", 14},
		{"2*(3+4)+5", 19},
		{"1 + 2 * 3", 7},
		{"1 + 2 * 3 + 4", 11},
		{"(1 + 2) + (3 + 4) * (5*6)", 213},
		{"(1 + 2) + (3 + 4) * 5", 38},
		{"2*3+4*5", 26},
		{"2*(3+4)+5*6", 44},
		{"1+2*1/4", 1.5},
		{"1+2*1/2+3", 5},
		{"1*2/4 + 2*3/6", 1.5},
		{"1*2/4 + 2*3/6-2.3", sub(1.5, 2.3)},
		{"7+1*2/4 + 2*3/6-2.3", sub(8.5, 2.3)},
		{"5 - (5 * (32 + 4))", -175},
		{"12 * 5 - (5 * (32 + 4)) + 3", -112},
		{"7 % 3", 1},
		{"-2 * 3", -6},
		{"10 - 2 - 3", 5},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			expectNumber(t, evalSource(t, tt.source, nil), tt.want)
		})
	}
}

func TestStringConcatenation(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`"hello" + " " + 'world'`, "hello world"},
		{`"'hello'" + " " + '"world"'`, `'hello' "world"`},
		{`"n=" + 1`, "n=1"},
		{`"n=" + 1.5`, "n=1.5"},
		{`1 + "x"`, "1x"},
		{`"flag " + True`, "flag true"},
		{`"v: " + None`, "v: null"},
		{`"list " + [1, 2]`, "list [1, 2]"},
		{`"obj " + {a: "b"}`, `obj {"a": "b"}`},
		{`'tab\tend'`, "tab\tend"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			expectString(t, evalSource(t, tt.source, nil), tt.want)
		})
	}
}

func TestObjectAccessPaths(t *testing.T) {
	vars := map[string]Value{
		"o": MustFromGo(map[string]any{
			"v1":   55,
			"sub1": map[string]any{"subValue": 45},
		}),
	}
	for _, source := range []string{
		"o.v1 + o.sub1.subValue",
		"o.v1 + o.sub1['sub' + 'Value']",
		"o.v1 + o['sub1'].subValue",
	} {
		t.Run(source, func(t *testing.T) {
			expectNumber(t, evalSource(t, source, vars), 100)
		})
	}
}

func TestBinaryOperatorTypeErrors(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	for _, source := range []string{`"a" - 1`, `[1] * 2`, `null + 1`, `-"x"`, `1 < "2"`} {
		_, err := in.Evaluate(context.Background(), source, nil, "")
		if !errors.Is(err, ErrType) {
			t.Fatalf("%s: expected ErrType, got %v", source, err)
		}
	}
}

func TestFunctionHoistingAndRecursion(t *testing.T) {
	source := `x = fact(5)
def fact(n):
  if n <= 1:
    return 1
  return n * fact(n - 1)
x`
	expectNumber(t, evalSource(t, source, nil), 120)
}

func TestMutualRecursionBetweenHoistedFunctions(t *testing.T) {
	source := `def isEven(n):
  if n == 0:
    return True
  return isOdd(n - 1)

def isOdd(n):
  if n == 0:
    return False
  return isEven(n - 1)

isEven(10)`
	if got := evalSource(t, source, nil); got.Kind() != KindBool || !got.Bool() {
		t.Fatalf("expected true, got %s", got.Repr())
	}
}

func TestCallsGetFreshFrames(t *testing.T) {
	source := `def f(n):
  local = n
  if n > 0:
    f(n - 1)
  return local
f(3)`
	expectNumber(t, evalSource(t, source, nil), 3)
}

func TestClosuresKeepDefiningScope(t *testing.T) {
	source := `def makeCounter():
  count = 0
  def inc():
    count = count + 1
    return count
  return inc

c1 = makeCounter()
c2 = makeCounter()
c1()
c1()
c2()
[c1(), c2()]`
	got := evalSource(t, source, nil)
	if got.Repr() != "[3, 2]" {
		t.Fatalf("expected [3, 2], got %s", got.Repr())
	}
}

func TestFunctionLocalsDoNotLeak(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	_, err := in.Evaluate(context.Background(), `def f():
  hidden = 1
  return hidden
f()
hidden`, nil, "")
	if !errors.Is(err, ErrUnboundName) {
		t.Fatalf("expected ErrUnboundName, got %v", err)
	}
}

func TestMissingArgumentsStayUnbound(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	_, err := in.Evaluate(context.Background(), `def f(a, b):
  return b
f(1)`, nil, "")
	if !errors.Is(err, ErrUnboundName) {
		t.Fatalf("expected ErrUnboundName, got %v", err)
	}

	result, err := in.Evaluate(context.Background(), `def g(a):
  return a
g(1, 2, 3)`, nil, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	expectNumber(t, result, 1)
}

func TestMissingParameterFallsBackToOuterBinding(t *testing.T) {
	source := `b = "outer"
def f(a, b):
  return b
f(1)`
	expectString(t, evalSource(t, source, nil), "outer")
}

func TestArrowFunctions(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"single param", "double = x => x * 2\nstr(double(4))", "8"},
		{"param list", "add = (a, b) => a + b\nstr(add(2, 3))", "5"},
		{"no params", "f = () => 'ok'\nf()", "ok"},
		{"map and join", "[1, 2, 3].map(x => x * 2).join('-')", "2-4-6"},
		{"filter", "[1, 2, 3, 4].filter(x => x % 2 == 0).join(',')", "2,4"},
		{"block body", "f = (x) =>\n  y = x * 2\n  return y + 1\nstr(f(3))", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectString(t, evalSource(t, tt.source, nil), tt.want)
		})
	}
}

func TestArrowFunctionsAreNotBound(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	result, err := in.Evaluate(context.Background(), "x => x\nNone", nil, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !result.IsNull() {
		t.Fatalf("expected null, got %s", result.Repr())
	}
}

func TestDotAssignment(t *testing.T) {
	source := `o = {a: {b: 1}}
o.a.b = 5
o.a.c = 6
o.a`
	got := evalSource(t, source, nil)
	if got.Repr() != `{"b": 5, "c": 6}` {
		t.Fatalf("unexpected object: %s", got.Repr())
	}
}

func TestAssignmentYieldsNull(t *testing.T) {
	if got := evalSource(t, "x = 5", nil); !got.IsNull() {
		t.Fatalf("expected null, got %s", got.Repr())
	}
}

func TestUnsupportedAssignmentTargets(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	for _, source := range []string{
		"x = [1]\nx[0] = 2",
		"o = {a: {b: 1}}\no.a['b'] = 2",
		"o = {f: () => 1}\no.f() = 2",
	} {
		_, err := in.Evaluate(context.Background(), source, nil, "")
		if !errors.Is(err, ErrUnsupportedAssignment) {
			t.Fatalf("%q: expected ErrUnsupportedAssignment, got %v", source, err)
		}
	}

	_, err := in.Evaluate(context.Background(), "n = 1\nn.x = 2", nil, "")
	if !errors.Is(err, ErrType) {
		t.Fatalf("expected ErrType for property write on a number, got %v", err)
	}
}

func TestPropertyMissPolicy(t *testing.T) {
	lenient := newTestInterpreter(t, Config{})
	result, err := lenient.Evaluate(context.Background(), "o = {}\no.missing", nil, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !result.IsNull() {
		t.Fatalf("expected null, got %s", result.Repr())
	}

	strict := newTestInterpreter(t, Config{StrictProperties: true})
	_, err = strict.Evaluate(context.Background(), "o = {}\no.missing", nil, "")
	if !errors.Is(err, ErrUnboundName) {
		t.Fatalf("expected ErrUnboundName, got %v", err)
	}

	_, err = lenient.Evaluate(context.Background(), "x = None\nx.y", nil, "")
	if !errors.Is(err, ErrType) {
		t.Fatalf("expected ErrType reading a property of null, got %v", err)
	}
}

func TestBracketIndexing(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"a = [10, 20, 30]\na[1]", "20"},
		{"a = [10, 20, 30]\na[5]", "null"},
		{"s = 'hey'\ns[0]", `"h"`},
		{"o = {1: 'one'}\no[1]", `"one"`},
		{"o = {a: [1, [2, 3]]}\no.a[1][0]", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := evalSource(t, tt.source, nil); got.Repr() != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.Repr())
			}
		})
	}
}

func TestUnboundVariableError(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	_, err := in.Evaluate(context.Background(), "x = 1\ny + x", nil, "")
	if !errors.Is(err, ErrUnboundName) {
		t.Fatalf("expected ErrUnboundName, got %v", err)
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %T", err)
	}
	if re.Pos.Line != 2 {
		t.Fatalf("expected error on line 2, got %d", re.Pos.Line)
	}
	if !strings.Contains(re.CodeFrame, "y + x") {
		t.Fatalf("code frame missing source line: %q", re.CodeFrame)
	}
}

func TestRuntimeErrorStackTrace(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	_, err := in.Evaluate(context.Background(), `def inner():
  return missing
def outer():
  return inner()
outer()`, nil, "")
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %v", err)
	}
	if len(re.Frames) < 3 {
		t.Fatalf("expected at least 3 frames, got %d", len(re.Frames))
	}
	if re.Frames[0].Function != "inner" || re.Frames[2].Function != "outer" {
		t.Fatalf("unexpected frames: %+v", re.Frames)
	}
	if !strings.Contains(err.Error(), "at outer") {
		t.Fatalf("error text missing frame: %v", err)
	}
}

func TestControlFlow(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"if elif else", `def grade(n):
  if n > 90:
    return "a"
  elif n > 80:
    return "b"
  else:
    return "c"
grade(95) + grade(85) + grade(10)`, `"abc"`},
		{"for over array", `total = 0
for x in [1, 2, 3]:
  total = total + x
total`, "6"},
		{"for over range", `total = 0
for i in range(5):
  total = total + i
total`, "10"},
		{"break and continue", `out = []
for i in range(10):
  if i == 5:
    break
  if i % 2 == 0:
    continue
  out.push(i)
out`, "[1, 3]"},
		{"while", `n = 0
while n < 4:
  n = n + 1
n`, "4"},
		{"single line suites", `x = 3
if x > 2: y = "big"
else: y = "small"
y`, `"big"`},
		{"logical operators", `[1 and 2, 0 or "x", not 0, None or False]`, `[2, "x", true, false]`},
		{"comparisons", `[1 < 2, 2 <= 2, "a" > "b", 1 == 1, "a" != "a"]`, `[true, true, false, true, false]`},
		{"for over object keys", `keys = []
for k in {b: 1, a: 2}:
  keys.push(k)
keys`, `["b", "a"]`},
		{"return from nested loop", `def find(items, target):
  for item in items:
    if item == target:
      return "found"
  return "missing"
find([1, 2, 3], 2)`, `"found"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalSource(t, tt.source, nil); got.Repr() != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.Repr())
			}
		})
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	_, err := in.Evaluate(context.Background(), "break", nil, "")
	if !errors.Is(err, ErrUnsupportedNode) {
		t.Fatalf("expected ErrUnsupportedNode, got %v", err)
	}
}

func TestEntryFunction(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	source := `greeting = "hi"
def main():
  return greeting + " " + name`
	result, err := in.Evaluate(context.Background(), source, map[string]Value{"name": NewString("ann")}, "main")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	expectString(t, result, "hi ann")

	_, err = in.Evaluate(context.Background(), source, nil, "nope")
	if !errors.Is(err, ErrUnboundName) {
		t.Fatalf("expected ErrUnboundName for missing entry, got %v", err)
	}
}

func TestConstantEvaluationIsIdempotent(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	program, imports, err := in.Parse("42")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for i := 0; i < 3; i++ {
		result, err := in.EvaluateBlock(context.Background(), program, imports, nil, "")
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		expectNumber(t, result, 42)
	}
}

func TestHostFunctions(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	err := in.AddFunction("sum", func(exec *Execution, receiver Value, args []Value) (Value, error) {
		total := 0.0
		for _, arg := range args {
			total += arg.Number()
		}
		return NewNumber(total), nil
	})
	if err != nil {
		t.Fatalf("add function: %v", err)
	}
	result, err := in.Evaluate(context.Background(), "sum(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)", nil, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	expectNumber(t, result, 78)

	if err := in.AddFunction("", nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if err := in.AddFunction("nothing", nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestHostFunctionOverridesAreScopedToInstance(t *testing.T) {
	first := newTestInterpreter(t, Config{})
	second := newTestInterpreter(t, Config{})
	if err := first.AddFunction("len", func(exec *Execution, receiver Value, args []Value) (Value, error) {
		return NewInt(-1), nil
	}); err != nil {
		t.Fatalf("add function: %v", err)
	}

	got, err := first.Evaluate(context.Background(), "len([1, 2])", nil, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	expectNumber(t, got, -1)

	got, err = second.Evaluate(context.Background(), "len([1, 2])", nil, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	expectNumber(t, got, 2)
}

func TestMaxArguments(t *testing.T) {
	in := newTestInterpreter(t, Config{MaxArguments: 2})
	_, err := in.Evaluate(context.Background(), "Math.max(1, 2, 3)", nil, "")
	if !errors.Is(err, ErrTooManyArguments) {
		t.Fatalf("expected ErrTooManyArguments, got %v", err)
	}
	if _, err := New(Config{MaxArguments: -1}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestBuiltinReceivesReceiver(t *testing.T) {
	greet := NewBuiltin("greet", func(exec *Execution, receiver Value, args []Value) (Value, error) {
		name, _ := receiver.Object().Get("name")
		return NewString(args[0].String() + ", " + name.String()), nil
	})
	obj := NewObject(map[string]Value{"name": NewString("bob"), "greet": greet})
	got := evalSource(t, `user.greet("hello")`, map[string]Value{"user": obj})
	expectString(t, got, "hello, bob")
}

func TestHostErrorsPassThrough(t *testing.T) {
	errBoom := errors.New("boom")
	in := newTestInterpreter(t, Config{})
	if err := in.AddFunction("explode", func(exec *Execution, receiver Value, args []Value) (Value, error) {
		return NewNull(), errBoom
	}); err != nil {
		t.Fatalf("add function: %v", err)
	}
	_, err := in.Evaluate(context.Background(), "explode()", nil, "")
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected host error, got %v", err)
	}
}

func TestNonCallable(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	_, err := in.Evaluate(context.Background(), "x = 1\nx()", nil, "")
	if !errors.Is(err, ErrType) {
		t.Fatalf("expected ErrType, got %v", err)
	}
}

func TestRecursionLimit(t *testing.T) {
	in := newTestInterpreter(t, Config{RecursionLimit: 3})
	_, err := in.Evaluate(context.Background(), `def recurse(n):
  if n <= 0:
    return "done"
  return recurse(n - 1)
recurse(5)`, nil, "")
	if !errors.Is(err, ErrRecursionLimit) {
		t.Fatalf("expected ErrRecursionLimit, got %v", err)
	}
	if !strings.Contains(err.Error(), "recursion depth exceeded (limit 3)") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStepQuota(t *testing.T) {
	in := newTestInterpreter(t, Config{StepQuota: 100})
	_, err := in.Evaluate(context.Background(), "while True:\n  pass", nil, "")
	if !errors.Is(err, ErrStepQuota) {
		t.Fatalf("expected ErrStepQuota, got %v", err)
	}
}

func TestContextCancellationStopsLoop(t *testing.T) {
	in := newTestInterpreter(t, Config{StepQuota: 1 << 30})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := in.Evaluate(ctx, "while True:\n  pass", nil, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPrintWritesToOutput(t *testing.T) {
	var out bytes.Buffer
	in := newTestInterpreter(t, Config{Output: &out})
	result, err := in.Evaluate(context.Background(), `print("a", 1, [True])`, nil, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	expectString(t, result, "a")
	if out.String() != "a 1 [true]\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestEvaluateModule(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	module, err := in.EvaluateModule(context.Background(), `rate = 2
def scale(x):
  return x * rate`)
	if err != nil {
		t.Fatalf("evaluate module: %v", err)
	}
	keys := module.Object().Keys()
	if strings.Join(keys, ",") != "rate,scale" {
		t.Fatalf("unexpected module keys %v", keys)
	}
	if _, ok := module.Object().Get("print"); ok {
		t.Fatalf("builtins leaked into module bindings")
	}
}

func TestEvaluateModuleExportsRebuiltNames(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	if err := in.AddValue("limit", NewInt(10)); err != nil {
		t.Fatalf("add value: %v", err)
	}
	module, err := in.EvaluateModule(context.Background(), "range = 5\nlimit = limit + 1\nx = 1")
	if err != nil {
		t.Fatalf("evaluate module: %v", err)
	}
	if got := module.Repr(); got != `{"limit": 11, "range": 5, "x": 1}` {
		t.Fatalf("unexpected module %s", got)
	}

	// the instance tables keep their original bindings
	got, err := in.Evaluate(context.Background(), "[len(range(3)), limit]", nil, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got.Repr() != "[3, 10]" {
		t.Fatalf("unexpected result %s", got.Repr())
	}
}

func TestAssignmentInsideFunctionShadowsBuiltin(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	module, err := in.EvaluateModule(context.Background(), `def setup():
  str = "custom"
setup()`)
	if err != nil {
		t.Fatalf("evaluate module: %v", err)
	}
	v, ok := module.Object().Get("str")
	if !ok || v.String() != "custom" {
		t.Fatalf("expected str to be rebound in the module, got %s", module.Repr())
	}
}

func TestBuiltinNamespacesAreIsolatedPerEvaluation(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	if _, err := in.Evaluate(context.Background(), "Math.floor = 1\ndeleteProperty(JSON, 'parse')", nil, ""); err != nil {
		t.Fatalf("mutating evaluation: %v", err)
	}

	got, err := in.Evaluate(context.Background(), "Math.floor(2.5)", nil, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	expectNumber(t, got, 2)

	got, err = in.Evaluate(context.Background(), "JSON.parse('1')", nil, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	expectNumber(t, got, 1)

	builtins := in.Builtins()
	builtins["Math"].Object().Delete("floor")
	got, err = in.Evaluate(context.Background(), "Math.floor(3.5)", nil, "")
	if err != nil {
		t.Fatalf("evaluate after mutating Builtins copy: %v", err)
	}
	expectNumber(t, got, 3)
}

func TestConcurrentNamespaceMutation(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := in.Evaluate(context.Background(), "Math.tmp = 1\nlen(Object.keys(Math))", nil, "")
			if err != nil {
				errs <- err
				return
			}
			if got.Number() != 9 {
				errs <- errors.New("namespace mutation leaked: " + got.Repr())
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestHasFunction(t *testing.T) {
	in := Create()
	source := "x = 1\ndef main():\n  return x\n"
	if !in.HasFunction(source, "main") {
		t.Fatalf("expected main to be found")
	}
	if in.HasFunction(source, "mai") || in.HasFunction(source, "x") {
		t.Fatalf("unexpected match")
	}
}

func TestConcurrentEvaluations(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	source := `def square(n):
  result = n * n
  return result
square(value)`

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			got, err := in.Evaluate(context.Background(), source, map[string]Value{"value": NewInt(n)}, "")
			if err != nil {
				errs <- err
				return
			}
			if got.Number() != float64(n*n) {
				errs <- errors.New("wrong result for " + got.Repr())
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestEvaluateAsync(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	future := in.EvaluateAsync(context.Background(), "2 * 21", nil, "")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := future.Await(ctx)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	expectNumber(t, got, 42)
}

func TestEvaluateSessionCarriesBindings(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	env := map[string]Value{"count": NewInt(1)}

	_, env, err := in.EvaluateSession(context.Background(), "count = count + 1\ndef twice(x): return x * 2", env)
	if err != nil {
		t.Fatalf("first line: %v", err)
	}
	result, env, err := in.EvaluateSession(context.Background(), "twice(count)", env)
	if err != nil {
		t.Fatalf("second line: %v", err)
	}
	expectNumber(t, result, 4)
	if _, ok := env["twice"]; !ok {
		t.Fatalf("function definition was not carried over")
	}

	_, after, err := in.EvaluateSession(context.Background(), "missing", env)
	if err == nil {
		t.Fatalf("expected error for unbound name")
	}
	if len(after) != len(env) {
		t.Fatalf("failed evaluation should leave bindings unchanged")
	}
}

func TestEvaluateSessionKeepsReboundBuiltins(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	_, env, err := in.EvaluateSession(context.Background(), "len = 3", nil)
	if err != nil {
		t.Fatalf("first line: %v", err)
	}
	result, _, err := in.EvaluateSession(context.Background(), "len + 1", env)
	if err != nil {
		t.Fatalf("second line: %v", err)
	}
	expectNumber(t, result, 4)
}
