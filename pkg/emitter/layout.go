package emitter

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultRoot is the root directory name used when none is configured.
const DefaultRoot = "model_factories"

// Layout computes every path the emitter writes to. Root is relative to
// BaseDir and doubles as the Python package of the generated tree.
type Layout struct {
	BaseDir string
	Root    string
}

func (l Layout) root() string {
	root := strings.TrimSpace(l.Root)
	if root == "" {
		root = DefaultRoot
	}
	return root
}

// Validate rejects a root that cannot double as a package below BaseDir:
// absolute paths and paths with a ".." segment.
func (l Layout) Validate() error {
	root := l.root()
	if filepath.IsAbs(root) || strings.HasPrefix(root, "/") || strings.HasPrefix(root, `\`) {
		return fmt.Errorf("emitter: root %q must be relative to the base dir", root)
	}
	for _, part := range strings.FieldsFunc(root, isSeparator) {
		if part == ".." {
			return fmt.Errorf("emitter: root %q must not leave the base dir", root)
		}
	}
	return nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// RootDir returns <base>/<root>.
func (l Layout) RootDir() string {
	return filepath.Join(l.BaseDir, filepath.FromSlash(l.root()))
}

// RootInit returns <root>/__init__.py.
func (l Layout) RootInit() string {
	return filepath.Join(l.RootDir(), "__init__.py")
}

// AppDir returns <root>/<app>.
func (l Layout) AppDir(app string) string {
	return filepath.Join(l.RootDir(), app)
}

// AppInit returns <root>/<app>/__init__.py, the index module.
func (l Layout) AppInit(app string) string {
	return filepath.Join(l.AppDir(app), "__init__.py")
}

// AppBaseDir returns <root>/<app>/base.
func (l Layout) AppBaseDir(app string) string {
	return filepath.Join(l.AppDir(app), "base")
}

// AppBaseInit returns <root>/<app>/base/__init__.py.
func (l Layout) AppBaseInit(app string) string {
	return filepath.Join(l.AppBaseDir(app), "__init__.py")
}

// BaseFile returns <root>/<app>/base/<model_lower>.py.
func (l Layout) BaseFile(app, modelName string) string {
	return filepath.Join(l.AppBaseDir(app), moduleName(modelName)+".py")
}

// OverrideFile returns <root>/<app>/<model_lower>.py.
func (l Layout) OverrideFile(app, modelName string) string {
	return filepath.Join(l.AppDir(app), moduleName(modelName)+".py")
}

// Package returns the dotted package of the root directory, e.g.
// "tests/factories" becomes "tests.factories".
func (l Layout) Package() string {
	root := filepath.ToSlash(filepath.Clean(filepath.FromSlash(l.root())))
	root = strings.Trim(root, "/")
	return strings.ReplaceAll(root, "/", ".")
}

// BaseModule returns the dotted module of a model's base factory.
func (l Layout) BaseModule(app, modelName string) string {
	return l.Package() + "." + app + ".base." + moduleName(modelName)
}

// OverrideModule returns the dotted module of a model's override factory.
func (l Layout) OverrideModule(app, modelName string) string {
	return l.Package() + "." + app + "." + moduleName(modelName)
}

func moduleName(modelName string) string {
	return strings.ToLower(modelName)
}
