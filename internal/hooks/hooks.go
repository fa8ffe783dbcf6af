// Package hooks installs the git pre-commit hook that runs pre-commit-vauxoo
// before every commit.
//
// The hook is skipped when NOLINT is set to 1, true, yes or on:
//
//	NOLINT=1 git commit -m "wip"
package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/pre-commit-vauxoo/internal/git"
	"github.com/raphi011/pre-commit-vauxoo/internal/log"
)

// Marker identifies hook scripts written by Install.
const Marker = "# Installed by pre-commit-vauxoo"

// HookName is the git hook Install writes.
const HookName = "pre-commit"

// shellQuote escapes a string for safe use in shell commands.
// e.g., "it's" becomes 'it'\''s'
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// Script returns the hook script running bin.
func Script(bin string) string {
	return `#!/bin/sh
` + Marker + `
# Set NOLINT=1 to commit without running the checks.
case "$(printf '%s' "${NOLINT:-}" | tr '[:upper:]' '[:lower:]')" in
1 | true | yes | on)
	echo "NOLINT is set, skipping pre-commit-vauxoo"
	exit 0
	;;
esac
exec ` + shellQuote(bin) + "\n"
}

// Path returns where the hook of the repository at repoRoot lives.
func Path(ctx context.Context, repoRoot string) (string, error) {
	dir, err := git.HooksDir(ctx, repoRoot)
	if err != nil {
		return "", fmt.Errorf("locate git hooks directory: %w", err)
	}
	return filepath.Join(dir, HookName), nil
}

// Install writes the pre-commit hook, replacing any previous one, and
// returns its path. bin is the command the hook runs.
func Install(ctx context.Context, repoRoot, bin string) (string, error) {
	path, err := Path(ctx, repoRoot)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create hooks directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Script(bin)), 0755); err != nil {
		return "", fmt.Errorf("write hook: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0755); err != nil {
		return "", fmt.Errorf("make hook executable: %w", err)
	}
	log.FromContext(ctx).Infof("Installed git hook %s", path)
	return path, nil
}

// Installed reports whether the hook at path was written by Install.
func Installed(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.Contains(string(data), Marker), nil
}
