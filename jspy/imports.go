package jspy

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// ImportSpec is one imported package. Names is set for "from" imports and
// lists the members bound into the script.
type ImportSpec struct {
	Package string
	Alias   string
	Names   []ImportName
	Line    int
}

type ImportName struct {
	Name  string
	Alias string
}

// Binding returns the name the package itself is bound to.
func (spec ImportSpec) Binding() string {
	if spec.Alias != "" {
		return spec.Alias
	}
	if i := strings.LastIndexByte(spec.Package, '.'); i >= 0 {
		return spec.Package[i+1:]
	}
	return spec.Package
}

func (n ImportName) Binding() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

var (
	importLinePattern  = regexp.MustCompile(`^(import|from)\s+`)
	fromImportPattern  = regexp.MustCompile(`^from\s+(\S+)\s+import\s+(.+)$`)
	packageNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	identPattern       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// extractImports blanks out import lines and returns them parsed. Line
// numbers of the remaining source are unchanged.
func extractImports(source string) (string, []ImportSpec, error) {
	lines := strings.Split(normalizeSource(source), "\n")
	var specs []ImportSpec
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !importLinePattern.MatchString(trimmed) {
			continue
		}
		parsed, err := parseImportLine(trimmed, i+1)
		if err != nil {
			return "", nil, err
		}
		specs = append(specs, parsed...)
		lines[i] = ""
	}
	return strings.Join(lines, "\n"), specs, nil
}

func parseImportLine(line string, lineNo int) ([]ImportSpec, error) {
	pos := Position{Line: lineNo, Column: 1}
	if strings.HasPrefix(line, "from") {
		m := fromImportPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, newParseError(pos, "malformed import %q", line)
		}
		if !packageNamePattern.MatchString(m[1]) {
			return nil, newParseError(pos, "invalid package name %q", m[1])
		}
		spec := ImportSpec{Package: m[1], Line: lineNo}
		for _, part := range strings.Split(m[2], ",") {
			name, alias, err := parseImportClause(part, identPattern, pos)
			if err != nil {
				return nil, err
			}
			spec.Names = append(spec.Names, ImportName{Name: name, Alias: alias})
		}
		return []ImportSpec{spec}, nil
	}

	rest := strings.TrimSpace(strings.TrimPrefix(line, "import"))
	var specs []ImportSpec
	for _, part := range strings.Split(rest, ",") {
		name, alias, err := parseImportClause(part, packageNamePattern, pos)
		if err != nil {
			return nil, err
		}
		specs = append(specs, ImportSpec{Package: name, Alias: alias, Line: lineNo})
	}
	return specs, nil
}

// parseImportClause parses "name" or "name as alias".
func parseImportClause(part string, namePattern *regexp.Regexp, pos Position) (string, string, error) {
	fields := strings.Fields(part)
	switch {
	case len(fields) == 1 && namePattern.MatchString(fields[0]):
		return fields[0], "", nil
	case len(fields) == 3 && fields[1] == "as" && namePattern.MatchString(fields[0]) && identPattern.MatchString(fields[2]):
		return fields[0], fields[2], nil
	default:
		return "", "", newParseError(pos, "malformed import clause %q", strings.TrimSpace(part))
	}
}

// resolveImports loads every distinct package once and returns the bindings
// the imports introduce.
func resolveImports(ctx context.Context, loader PackageLoader, specs []ImportSpec) (map[string]Value, error) {
	bindings := make(map[string]Value)
	if len(specs) == 0 {
		return bindings, nil
	}

	loaded := make(map[string]Value)
	for _, spec := range specs {
		pkg, ok := loaded[spec.Package]
		if !ok {
			tracer().Debugf("loading package %s", spec.Package)
			val, err := loader.Load(ctx, spec.Package)
			if err != nil {
				return nil, fmt.Errorf("import %s (line %d): %w", spec.Package, spec.Line, err)
			}
			if val.Kind() == KindFuture {
				if val, err = val.Future().Await(ctx); err != nil {
					return nil, fmt.Errorf("import %s (line %d): %w", spec.Package, spec.Line, err)
				}
			}
			loaded[spec.Package] = val
			pkg = val
		}

		if len(spec.Names) == 0 {
			bindings[spec.Binding()] = pkg
			continue
		}
		if pkg.Kind() != KindObject {
			return nil, fmt.Errorf("%w: package %s is %s, cannot import names from it", ErrType, spec.Package, pkg.Kind())
		}
		for _, name := range spec.Names {
			member, ok := pkg.Object().Get(name.Name)
			if !ok {
				return nil, fmt.Errorf("%w: package %s has no member %q", ErrUnboundName, spec.Package, name.Name)
			}
			bindings[name.Binding()] = member
		}
	}
	tracer().Infof("resolved %d imports from %d packages", len(specs), len(loaded))
	return bindings, nil
}
