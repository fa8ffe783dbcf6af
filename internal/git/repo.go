package git

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/raphi011/pre-commit-vauxoo/internal/runerr"
)

// RepoRoot returns the absolute, symlink-resolved root of the work tree containing dir.
func RepoRoot(ctx context.Context, dir string) (string, error) {
	output, err := outputGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", runerr.Usage("not inside a git repository", err)
	}
	return canonical(strings.TrimSpace(string(output)))
}

// RelativePrefix returns dir relative to the root of its work tree, using
// "." for the root itself.
func RelativePrefix(ctx context.Context, dir string) (string, error) {
	output, err := outputGit(ctx, dir, "rev-parse", "--show-prefix")
	if err != nil {
		return "", runerr.Usage("not inside a git repository", err)
	}
	prefix := strings.TrimSuffix(strings.TrimSpace(string(output)), "/")
	if prefix == "" {
		return ".", nil
	}
	return filepath.FromSlash(prefix), nil
}

// ListFiles returns the files tracked under path, relative to repoRoot.
// path may be absolute or relative to repoRoot.
func ListFiles(ctx context.Context, repoRoot, path string) ([]string, error) {
	output, err := outputGit(ctx, repoRoot, "ls-files", "--", path)
	if err != nil {
		return nil, err
	}
	return splitLines(string(output)), nil
}

// Diff returns the unstaged changes of the work tree, without color.
func Diff(ctx context.Context, repoRoot string) (string, error) {
	output, err := outputGit(ctx, repoRoot, "--no-pager", "diff", "--no-color")
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// HooksDir returns the absolute directory git runs hooks from, honouring
// core.hooksPath and linked worktrees.
func HooksDir(ctx context.Context, repoRoot string) (string, error) {
	output, err := outputGit(ctx, repoRoot, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", err
	}
	dir := strings.TrimSpace(string(output))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoRoot, dir)
	}
	return filepath.Clean(dir), nil
}

// canonical makes path absolute and resolves symlinks so it compares equal to
// os.Getwd results on systems where temp dirs are symlinked (macOS /var).
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
