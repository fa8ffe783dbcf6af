// Package pathset normalizes include/exclude path lists and turns them into
// regular-expression fragments for pre-commit's exclude key.
package pathset

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// verboseSafe keeps literal spaces and hashes intact inside a (?x) pattern.
var verboseSafe = strings.NewReplacer(" ", "[ ]", "#", `\#`)

// PathSet is an ordered list of absolute, cleaned paths.
type PathSet []string

// ParseCSV splits a comma separated value, trimming entries and dropping empty ones.
func ParseCSV(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ParseCSVs applies ParseCSV to every value of a repeated flag.
func ParseCSVs(raws []string) []string {
	var items []string
	for _, raw := range raws {
		items = append(items, ParseCSV(raw)...)
	}
	return items
}

// ResolveAgainstRepoRoot resolves a user supplied path. Relative paths are
// tried against cwd first; environment values are written relative to the
// repository root, so a path missing under cwd is joined to repoRoot instead.
// Symlinks are resolved when the path exists, so it compares equal to the
// canonical repository root.
func ResolveAgainstRepoRoot(path, cwd, repoRoot string) string {
	if filepath.IsAbs(path) {
		return evalSymlinks(filepath.Clean(path))
	}
	fromCwd := filepath.Join(cwd, path)
	if _, err := os.Stat(fromCwd); err == nil {
		return evalSymlinks(fromCwd)
	}
	return evalSymlinks(filepath.Join(repoRoot, path))
}

// evalSymlinks returns the symlink-free form of path, or path itself when
// it cannot be resolved.
func evalSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// New builds a PathSet from raw entries. Entries are trimmed, empty ones
// dropped, and relative ones made absolute against baseDir.
func New(rawPaths []string, baseDir string) PathSet {
	set := make(PathSet, 0, len(rawPaths))
	for _, raw := range rawPaths {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		set = append(set, filepath.Clean(p))
	}
	return set
}

// Union returns the entries of s followed by the entries of other that are
// not already present. Duplicates within s are dropped as well.
func (s PathSet) Union(other PathSet) PathSet {
	seen := make(map[string]bool, len(s)+len(other))
	out := make(PathSet, 0, len(s)+len(other))
	for _, list := range []PathSet{s, other} {
		for _, p := range list {
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// IsSingle reports whether the set holds exactly one entry equal to path.
func (s PathSet) IsSingle(path string) bool {
	return len(s) == 1 && s[0] == filepath.Clean(path)
}

// ExcludeFragment renders s as "(p1|p2)|", ready to be prepended to the
// template's base exclude pattern. Paths are made relative to repoRoot and
// directories get a trailing slash so "repo" never matches "repo_sub".
// The repository root itself becomes an empty alternative, which matches
// every path. An empty set yields "".
func ExcludeFragment(s PathSet, repoRoot string) string {
	if len(s) == 0 {
		return ""
	}
	seen := make(map[string]bool, len(s))
	parts := make([]string, 0, len(s))
	for _, p := range s {
		rel := relSlash(p, repoRoot)
		if info, err := os.Stat(p); err == nil && info.IsDir() && rel != "" && !strings.HasSuffix(rel, "/") {
			rel += "/"
		}
		quoted := verboseSafe.Replace(regexp.QuoteMeta(rel))
		if seen[quoted] {
			continue
		}
		seen[quoted] = true
		parts = append(parts, quoted)
	}
	return "(" + strings.Join(parts, "|") + ")|"
}

// relSlash returns p relative to root with forward slashes, or p itself when
// it lies outside root.
func relSlash(p, root string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(p)
	}
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
