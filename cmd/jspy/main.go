package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/mgomes/jspy/jspy"
	"github.com/mgomes/jspy/loader"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return runREPL()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	function := fs.String("function", "", "function to invoke after the script has run")
	configPath := fs.String("config", "", "YAML configuration file")
	dbPath := fs.String("db", "", "SQLite database holding packages")
	var packageDirs pathList
	fs.Var(&packageDirs, "packages", "add a package directory (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("jspy run: script path required")
	}

	cfg := &fileConfig{}
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Packages = append(cfg.Packages, packageDirs...)
	if *dbPath != "" {
		cfg.PackageDB = *dbPath
	}

	absScriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(absScriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	vars, err := parseContextArgs(remaining[1:])
	if err != nil {
		return err
	}

	ctx := context.Background()
	in, closeLoaders, err := newInterpreter(ctx, cfg, filepath.Dir(absScriptPath))
	if err != nil {
		return err
	}
	defer closeLoaders()

	result, err := in.Evaluate(ctx, string(input), vars, *function)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if !result.IsNull() {
		fmt.Println(result.String())
	}
	return nil
}

// newInterpreter builds an interpreter from cfg. Packages resolve from the
// script directory, then the configured directories, then the package db.
func newInterpreter(ctx context.Context, cfg *fileConfig, scriptDir string) (*jspy.Interpreter, func(), error) {
	in, err := jspy.New(cfg.interpreterConfig())
	if err != nil {
		return nil, nil, err
	}
	globals, err := cfg.globalValues()
	if err != nil {
		return nil, nil, err
	}
	in.AssignGlobalContext(globals)

	dirs, err := computePackagePaths(scriptDir, cfg.Packages)
	if err != nil {
		return nil, nil, err
	}
	var chain loader.Chain
	for _, dir := range dirs {
		chain = append(chain, loader.NewDir(dir, in))
	}
	closeLoaders := func() {}
	if cfg.PackageDB != "" {
		db, err := loader.OpenSQLite(ctx, cfg.PackageDB, in)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, db)
		closeLoaders = func() { db.Close() }
	}
	if err := in.RegisterPackagesLoader(chain); err != nil {
		closeLoaders()
		return nil, nil, err
	}
	return in, closeLoaders, nil
}

// parseContextArgs turns key=value arguments into string context entries.
func parseContextArgs(args []string) (map[string]jspy.Value, error) {
	vars := make(map[string]jspy.Value, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || !isValidIdentifier(name) {
			return nil, fmt.Errorf("invalid context argument %q, expected name=value", arg)
		}
		vars[name] = jspy.NewString(value)
	}
	return vars, nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s run [flags] <script> [name=value...]\n", prog)
	fmt.Fprintf(os.Stderr, "       %s repl\n", prog)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -function string")
	fmt.Fprintln(os.Stderr, "    function to invoke after the script has run")
	fmt.Fprintln(os.Stderr, "  -config <file>")
	fmt.Fprintln(os.Stderr, "    YAML configuration file")
	fmt.Fprintln(os.Stderr, "  -packages <dir>")
	fmt.Fprintln(os.Stderr, "    add a directory to package search paths (repeatable)")
	fmt.Fprintln(os.Stderr, "  -db <file>")
	fmt.Fprintln(os.Stderr, "    SQLite database holding packages")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

type pathList []string

func (l *pathList) String() string {
	return strings.Join(*l, string(os.PathListSeparator))
}

func (l *pathList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func computePackagePaths(scriptDir string, extras []string) ([]string, error) {
	seen := make(map[string]struct{})
	var dirs []string
	addPath := func(label, p string) error {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s %q: %w", label, p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("access %s %q: %w", label, abs, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s %q is not a directory", label, abs)
		}
		if _, ok := seen[abs]; ok {
			return nil
		}
		seen[abs] = struct{}{}
		dirs = append(dirs, abs)
		return nil
	}
	if err := addPath("script directory", scriptDir); err != nil {
		return nil, err
	}
	for _, extra := range extras {
		if err := addPath("package path", extra); err != nil {
			return nil, err
		}
	}
	return dirs, nil
}

func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		ascii := r < unicode.MaxASCII
		if r == '_' || (ascii && unicode.IsLetter(r)) || (i > 0 && ascii && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
