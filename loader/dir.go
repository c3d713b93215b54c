package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mgomes/jspy/jspy"
)

// Extension is the file extension of script packages.
const Extension = ".jspy"

// Dir loads package a.b from <Root>/a/b.jspy.
type Dir struct {
	Root    string
	modules *modules
}

func NewDir(root string, interp *jspy.Interpreter) *Dir {
	return &Dir{Root: root, modules: newModules(interp)}
}

func (d *Dir) Load(ctx context.Context, name string) (jspy.Value, error) {
	segments, err := packagePath(name)
	if err != nil {
		return jspy.NewNull(), err
	}
	path := filepath.Join(append([]string{d.Root}, segments...)...) + Extension
	return d.modules.evaluate(ctx, name, func() (string, error) {
		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s (no file %s)", jspy.ErrPackageNotFound, name, path)
		}
		if err != nil {
			return "", fmt.Errorf("read package %s: %w", name, err)
		}
		return string(content), nil
	})
}
