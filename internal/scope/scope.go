// Package scope decides which files a run checks.
package scope

import (
	"context"
	"path/filepath"

	"github.com/raphi011/pre-commit-vauxoo/internal/log"
	"github.com/raphi011/pre-commit-vauxoo/internal/pathset"
	"github.com/raphi011/pre-commit-vauxoo/internal/runerr"
)

// Mode selects between the whole repository and an explicit file list.
type Mode int

const (
	// AllFiles lets the hook runner scan every tracked file.
	AllFiles Mode = iota
	// ExplicitFiles restricts the hook runner to Scope.Files.
	ExplicitFiles
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ExplicitFiles {
		return "files"
	}
	return "all"
}

// Scope is the resolved file scope of a run. Files are relative to the
// repository root.
type Scope struct {
	Mode  Mode
	Files []string
}

// All returns the whole-repository scope.
func All() Scope {
	return Scope{Mode: AllFiles}
}

// Args returns the hook runner arguments selecting the scope.
func (s Scope) Args() []string {
	if s.Mode == AllFiles {
		return []string{"--all-files"}
	}
	return append([]string{"--files"}, s.Files...)
}

// FileLister lists tracked files under a path, relative to repoRoot.
type FileLister interface {
	ListFiles(ctx context.Context, repoRoot, path string) ([]string, error)
}

// FileListerFunc adapts a function to FileLister.
type FileListerFunc func(ctx context.Context, repoRoot, path string) ([]string, error)

// ListFiles calls f.
func (f FileListerFunc) ListFiles(ctx context.Context, repoRoot, path string) ([]string, error) {
	return f(ctx, repoRoot, path)
}

// Resolver resolves the scope of a run.
type Resolver struct {
	Files FileLister
}

// Resolve picks the scope. A working directory below the repository root
// wins over include paths; include paths other than the repository root
// itself win over the whole repository.
// Duplicate include paths are dropped; a single include path equal to the
// working directory is not reported as ignored.
func (r Resolver) Resolve(ctx context.Context, repoRoot, cwdRel string, include pathset.PathSet) (Scope, error) {
	l := log.FromContext(ctx)
	include = include.Union(nil)
	customInclude := len(include) > 0 && !include.IsSingle(repoRoot)

	if cwdRel != "." && cwdRel != "" {
		cwd := filepath.Join(repoRoot, cwdRel)
		l.Warnf("Running in current directory '%s'", cwdRel)
		if customInclude && !include.IsSingle(cwd) {
			l.Warnf("Ignoring include paths %v, running only for the current directory", include)
		}
		files, err := r.Files.ListFiles(ctx, repoRoot, cwd)
		if err != nil {
			return Scope{}, err
		}
		if len(files) == 0 {
			return Scope{}, runerr.Usage("No files detected in current path "+cwdRel, nil)
		}
		return Scope{Mode: ExplicitFiles, Files: files}, nil
	}

	if customInclude {
		var files []string
		seen := make(map[string]bool)
		for _, p := range include {
			found, err := r.Files.ListFiles(ctx, repoRoot, p)
			if err != nil {
				return Scope{}, err
			}
			if len(found) == 0 {
				found = []string{relTo(repoRoot, p)}
			}
			for _, f := range found {
				if !seen[f] {
					seen[f] = true
					files = append(files, f)
				}
			}
		}
		l.Debugf("Running only for include paths %v", include)
		return Scope{Mode: ExplicitFiles, Files: files}, nil
	}

	return All(), nil
}

func relTo(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return rel
}
