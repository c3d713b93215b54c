package jspy

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"regexp"
	"sync"
	"time"
)

// Config controls evaluation limits and the policies that are left to the
// embedding host.
type Config struct {
	StepQuota      int
	RecursionLimit int
	// MaxArguments caps the number of arguments passed to host functions.
	// Zero means unlimited.
	MaxArguments int
	// StrictProperties makes reads of missing object properties fail with
	// ErrUnboundName instead of yielding null.
	StrictProperties bool
	Output           io.Writer
	Now              func() time.Time
}

// PackageLoader resolves an imported package name to its exported value,
// usually an object. Loaders return an error matching ErrPackageNotFound for
// names they do not know.
type PackageLoader interface {
	Load(ctx context.Context, name string) (Value, error)
}

// PackageLoaderFunc adapts a function to PackageLoader.
type PackageLoaderFunc func(ctx context.Context, name string) (Value, error)

func (f PackageLoaderFunc) Load(ctx context.Context, name string) (Value, error) {
	return f(ctx, name)
}

// Interpreter evaluates scripts against a per-instance table of builtins and
// globals. It is safe for concurrent use; every evaluation gets its own root
// scope.
type Interpreter struct {
	config   Config
	mu       sync.RWMutex
	builtins map[string]Value
	globals  map[string]Value
	loader   PackageLoader
}

// New constructs an Interpreter with sane defaults and registers builtins.
func New(cfg Config) (*Interpreter, error) {
	if cfg.MaxArguments < 0 {
		return nil, fmt.Errorf("%w: MaxArguments must not be negative", ErrConfiguration)
	}
	if cfg.StepQuota <= 0 {
		cfg.StepQuota = 1_000_000
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 256
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Interpreter{
		config:   cfg,
		builtins: defaultBuiltins(),
		globals:  make(map[string]Value),
	}, nil
}

// Create returns an Interpreter with the default configuration.
func Create() *Interpreter {
	in, err := New(Config{})
	if err != nil {
		panic(err)
	}
	return in
}

func (in *Interpreter) Config() Config { return in.config }

// AddFunction registers a host function under name, replacing any builtin of
// the same name for this instance only.
func (in *Interpreter) AddFunction(name string, fn BuiltinFunc) error {
	if name == "" {
		return fmt.Errorf("%w: function name must not be empty", ErrConfiguration)
	}
	if fn == nil {
		return fmt.Errorf("%w: function %q is nil", ErrConfiguration, name)
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.builtins[name] = NewBuiltin(name, fn)
	return nil
}

// AddValue registers a global value under name.
func (in *Interpreter) AddValue(name string, val Value) error {
	if name == "" {
		return fmt.Errorf("%w: value name must not be empty", ErrConfiguration)
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.globals[name] = val
	return nil
}

// AssignGlobalContext merges values into the instance globals.
func (in *Interpreter) AssignGlobalContext(values map[string]Value) {
	in.mu.Lock()
	defer in.mu.Unlock()
	maps.Copy(in.globals, values)
}

func (in *Interpreter) RegisterPackagesLoader(loader PackageLoader) error {
	if fn, ok := loader.(PackageLoaderFunc); loader == nil || (ok && fn == nil) {
		return fmt.Errorf("%w: package loader is nil", ErrConfiguration)
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.loader = loader
	return nil
}

// Builtins returns a copy of the builtin table.
func (in *Interpreter) Builtins() map[string]Value {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return seedBuiltins(in.builtins)
}

// Tokenize returns the token stream of source.
func (in *Interpreter) Tokenize(source string) ([]Token, error) {
	return tokenize(source)
}

// Parse removes import lines from source and parses the rest.
func (in *Interpreter) Parse(source string) (*Block, []ImportSpec, error) {
	stripped, imports, err := extractImports(source)
	if err != nil {
		return nil, nil, err
	}
	program, err := parseSource(stripped)
	if err != nil {
		return nil, nil, err
	}
	return program, imports, nil
}

// HasFunction reports whether source defines a function called name. The
// check is textual and does not parse the script.
func (in *Interpreter) HasFunction(source, name string) bool {
	re, err := regexp.Compile(`(?m)^[ \t]*def[ \t]+` + regexp.QuoteMeta(name) + `[ \t]*\(`)
	if err != nil {
		return false
	}
	return re.MatchString(source)
}

// Evaluate runs source with vars bound in its root scope. When entry is
// not empty the function of that name is called with no arguments after the
// top level has run, and its result is returned.
func (in *Interpreter) Evaluate(ctx context.Context, source string, vars map[string]Value, entry string) (Value, error) {
	program, imports, err := in.Parse(source)
	if err != nil {
		return NewNull(), err
	}
	val, _, err := in.run(ctx, source, program, imports, vars, entry)
	return val, err
}

// EvaluateBlock runs an already parsed block.
func (in *Interpreter) EvaluateBlock(ctx context.Context, program *Block, imports []ImportSpec, vars map[string]Value, entry string) (Value, error) {
	val, _, err := in.run(ctx, "", program, imports, vars, entry)
	return val, err
}

// EvaluateAsync runs Evaluate on its own goroutine.
func (in *Interpreter) EvaluateAsync(ctx context.Context, source string, vars map[string]Value, entry string) *Future {
	return Go(ctx, func(ctx context.Context) (Value, error) {
		return in.Evaluate(ctx, source, vars, entry)
	})
}

// EvaluateModule runs a package source and returns an object holding its
// top-level bindings.
func (in *Interpreter) EvaluateModule(ctx context.Context, source string) (Value, error) {
	program, imports, err := in.Parse(source)
	if err != nil {
		return NewNull(), err
	}
	_, module, err := in.run(ctx, source, program, imports, nil, "")
	if err != nil {
		return NewNull(), err
	}
	return NewObjectValue(module.Locals()), nil
}

// EvaluateSession is Evaluate for hosts that carry state from one script to
// the next, such as a REPL. Besides the result it returns vars updated with
// the assignments and definitions made at the top level of source.
func (in *Interpreter) EvaluateSession(ctx context.Context, source string, vars map[string]Value) (Value, map[string]Value, error) {
	program, imports, err := in.Parse(source)
	if err != nil {
		return NewNull(), vars, err
	}
	val, module, err := in.run(ctx, source, program, imports, vars, "")
	if err != nil {
		return NewNull(), vars, err
	}
	out := make(map[string]Value, len(vars))
	for name := range vars {
		if v, ok := module.Lookup(name); ok {
			out[name] = v
		}
	}
	module.Locals().Each(func(name string, v Value) {
		out[name] = v
	})
	return val, out, nil
}

func (in *Interpreter) newExecution(ctx context.Context, source string) *Execution {
	return &Execution{
		ctx:          ctx,
		source:       source,
		quota:        in.config.StepQuota,
		recursionCap: in.config.RecursionLimit,
		maxArgs:      in.config.MaxArguments,
		strictProps:  in.config.StrictProperties,
		output:       in.config.Output,
		now:          in.config.Now,
	}
}

// run evaluates program in a module scope whose parent holds builtins,
// globals, the host context and resolved imports. Top-level assignments to
// seeded names land in the module scope.
func (in *Interpreter) run(ctx context.Context, source string, program *Block, imports []ImportSpec, vars map[string]Value, entry string) (Value, *Scope, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if program == nil {
		return NewNull(), nil, fmt.Errorf("%w: nil program", ErrUnsupportedNode)
	}

	in.mu.RLock()
	builtins := seedBuiltins(in.builtins)
	globals := maps.Clone(in.globals)
	loader := in.loader
	in.mu.RUnlock()

	if len(imports) > 0 && loader == nil {
		return NewNull(), nil, fmt.Errorf("%w: script imports %q", ErrPackageLoaderMissing, imports[0].Package)
	}
	bindings, err := resolveImports(ctx, loader, imports)
	if err != nil {
		return NewNull(), nil, err
	}

	root := newSeedScope()
	for _, layer := range []map[string]Value{builtins, globals, vars, bindings} {
		for name, val := range layer {
			root.Define(name, val)
		}
	}
	module := NewScope(root)

	exec := in.newExecution(ctx, source)
	val, _, err := exec.evalBlock(program, module)
	if err != nil {
		return NewNull(), nil, err
	}
	if entry == "" {
		return val, module, nil
	}

	tracer().Debugf("calling entry function %s", entry)
	fn, ok := module.Lookup(entry)
	if !ok {
		return NewNull(), nil, fmt.Errorf("%w: entry function %q", ErrUnboundName, entry)
	}
	val, err = exec.invokeCallable(fn, NewNull(), nil, Position{})
	if err != nil {
		return NewNull(), nil, err
	}
	return val, module, nil
}
