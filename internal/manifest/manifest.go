// Package manifest finds Odoo modules whose manifest marks them as not
// installable. Those modules are excluded from linting.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// Names lists the manifest file names, newest first.
var Names = []string{"__manifest__.py", "__openerp__.py"}

var reNotInstallable = regexp.MustCompile(`["']installable["']\s*:\s*False\b`)

// NotInstallable returns the absolute directories under root holding a
// manifest with 'installable': False. The result is sorted and free of
// duplicates; directories inside .git are ignored.
func NotInstallable(root string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	for _, name := range Names {
		matches, err := doublestar.Glob(filepath.Join(root, "**", name))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", name, err)
		}
		for _, path := range matches {
			if inGitDir(root, path) {
				continue
			}
			ok, err := IsNotInstallable(path)
			if err != nil {
				return nil, err
			}
			dir := filepath.Dir(path)
			if ok && !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// IsNotInstallable reports whether the manifest at path declares
// 'installable': False.
func IsNotInstallable(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read manifest: %w", err)
	}
	return reNotInstallable.Match(data), nil
}

func inGitDir(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == ".git" {
			return true
		}
	}
	return false
}
