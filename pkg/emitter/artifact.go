package emitter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Policy controls how an artifact treats an existing file.
type Policy int

const (
	// AlwaysOverwrite replaces the file on every run.
	AlwaysOverwrite Policy = iota
	// CreateIfAbsent writes the file only when it does not exist yet.
	CreateIfAbsent
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case AlwaysOverwrite:
		return "always-overwrite"
	case CreateIfAbsent:
		return "create-if-absent"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Artifact is one generated file.
type Artifact struct {
	Path   string
	Text   string
	Policy Policy
}

// Place writes the artifact according to its policy and reports whether the
// file was written. Parent directories are created as needed.
func Place(a Artifact) (bool, error) {
	if a.Path == "" {
		return false, errors.New("emitter: artifact path is required")
	}
	if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
		return false, fmt.Errorf("emitter: create directory for %s: %w", a.Path, err)
	}

	switch a.Policy {
	case AlwaysOverwrite:
		if err := os.WriteFile(a.Path, []byte(a.Text), 0o644); err != nil {
			return false, fmt.Errorf("emitter: write %s: %w", a.Path, err)
		}
		return true, nil
	case CreateIfAbsent:
		file, err := os.OpenFile(a.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("emitter: create %s: %w", a.Path, err)
		}
		if _, err := file.WriteString(a.Text); err != nil {
			file.Close()
			return false, fmt.Errorf("emitter: write %s: %w", a.Path, err)
		}
		if err := file.Close(); err != nil {
			return false, fmt.Errorf("emitter: close %s: %w", a.Path, err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("emitter: unknown placement policy %s", a.Policy)
	}
}

// ensureDir creates dir and reports whether it had to be created.
func ensureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("emitter: %s exists and is not a directory", dir)
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("emitter: stat %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("emitter: create %s: %w", dir, err)
	}
	return true, nil
}
