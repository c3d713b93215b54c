// Package loader provides jspy.PackageLoader implementations: static values,
// script packages on disk or in an SQLite database, and chains of loaders.
//
// Script packages are evaluated with jspy.Interpreter.EvaluateModule and the
// resulting object of top-level bindings is cached per loader. Imports inside
// a package go through the interpreter's registered loader, so a Chain
// registered on the interpreter lets packages import each other.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mgomes/jspy/jspy"
	"github.com/npillmayer/schuko/tracing"
)

// ErrImportCycle reports a package that imports itself, directly or through
// other packages.
var ErrImportCycle = errors.New("import cycle")

// PackageError is a failure while evaluating a package that was found.
type PackageError struct {
	Package string
	Err     error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("package %s: %v", e.Package, e.Err)
}

func (e *PackageError) Unwrap() error { return e.Err }

// tracer traces with key 'jspy.loader'
func tracer() tracing.Trace {
	return tracing.Select("jspy.loader")
}

// Map serves fixed values, usually objects of host functions.
type Map map[string]jspy.Value

func (m Map) Load(ctx context.Context, name string) (jspy.Value, error) {
	if val, ok := m[name]; ok {
		return val, nil
	}
	return jspy.NewNull(), fmt.Errorf("%w: %s", jspy.ErrPackageNotFound, name)
}

// Chain asks each loader in turn. A loader that does not know the package
// hands over to the next one. Any other failure stops the search, including
// a found package whose own imports are missing.
type Chain []jspy.PackageLoader

func (c Chain) Load(ctx context.Context, name string) (jspy.Value, error) {
	for _, l := range c {
		val, err := l.Load(ctx, name)
		if err == nil {
			return val, nil
		}
		var pe *PackageError
		if errors.As(err, &pe) || !errors.Is(err, jspy.ErrPackageNotFound) {
			return jspy.NewNull(), err
		}
	}
	return jspy.NewNull(), fmt.Errorf("%w: %s", jspy.ErrPackageNotFound, name)
}

type importStackKey struct{}

func importStack(ctx context.Context) []string {
	stack, _ := ctx.Value(importStackKey{}).([]string)
	return stack
}

// modules evaluates package sources and caches the results.
type modules struct {
	interp *jspy.Interpreter
	mu     sync.Mutex
	cache  map[string]jspy.Value
}

func newModules(interp *jspy.Interpreter) *modules {
	return &modules{interp: interp, cache: make(map[string]jspy.Value)}
}

func (m *modules) cached(name string) (jspy.Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.cache[name]
	return val, ok
}

// evaluate runs the source returned by fetch as package name. The import
// chain travels in ctx, so nested imports of a package that is still being
// evaluated fail with ErrImportCycle.
func (m *modules) evaluate(ctx context.Context, name string, fetch func() (string, error)) (jspy.Value, error) {
	if val, ok := m.cached(name); ok {
		return val, nil
	}
	stack := importStack(ctx)
	for i, pkg := range stack {
		if pkg == name {
			chain := append(append([]string(nil), stack[i:]...), name)
			return jspy.NewNull(), fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(chain, " -> "))
		}
	}

	source, err := fetch()
	if err != nil {
		return jspy.NewNull(), err
	}
	tracer().Debugf("evaluating package %s", name)
	nested := context.WithValue(ctx, importStackKey{}, append(append([]string(nil), stack...), name))
	val, err := m.interp.EvaluateModule(nested, source)
	if err != nil {
		return jspy.NewNull(), &PackageError{Package: name, Err: err}
	}

	m.mu.Lock()
	m.cache[name] = val
	m.mu.Unlock()
	return val, nil
}

// packagePath splits a dotted package name into its path segments.
func packagePath(name string) ([]string, error) {
	segments := strings.Split(name, ".")
	for _, segment := range segments {
		if segment == "" || strings.ContainsAny(segment, `/\`) {
			return nil, fmt.Errorf("%w: invalid package name %q", jspy.ErrPackageNotFound, name)
		}
	}
	return segments, nil
}
