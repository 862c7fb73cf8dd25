// Package workspace confines filesystem access to a project root and
// derives project facts (file counts, dependency counts) the persona
// engine's complexity estimate feeds on.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sandbox resolves paths relative to a root and, when restricted, refuses
// anything that escapes it, including through symlinks.
type Sandbox struct {
	Root     string
	Restrict bool
}

// NewSandbox creates a sandbox rooted at root.
func NewSandbox(root string, restrict bool) (*Sandbox, error) {
	if root == "" {
		return nil, fmt.Errorf("workspace root is not defined")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	return &Sandbox{Root: abs, Restrict: restrict}, nil
}

// Resolve turns path into an absolute path inside the workspace. Relative
// paths are joined onto the root. With restriction on, paths that land (or
// symlink) outside the root are rejected.
func (s *Sandbox) Resolve(path string) (string, error) {
	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Join(s.Root, path)
	}

	if !s.Restrict {
		return abs, nil
	}

	if !within(abs, s.Root) {
		return "", fmt.Errorf("access denied: %s is outside the workspace", path)
	}

	rootReal := s.Root
	if resolved, err := filepath.EvalSymlinks(s.Root); err == nil {
		rootReal = resolved
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		if !within(resolved, rootReal) {
			return "", fmt.Errorf("access denied: %s resolves outside the workspace", path)
		}
	} else if os.IsNotExist(err) {
		// Path does not exist yet: check the nearest existing ancestor so a
		// symlinked parent cannot smuggle writes out.
		if ancestor, err := existingAncestor(filepath.Dir(abs)); err == nil {
			if !within(ancestor, rootReal) {
				return "", fmt.Errorf("access denied: %s resolves outside the workspace", path)
			}
		}
	}

	return abs, nil
}

func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func existingAncestor(dir string) (string, error) {
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return resolved, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", err
		}
		dir = parent
	}
}
