// Package git provides the repository queries pre-commit-vauxoo needs, via the git CLI.
//
// All operations shell out through [github.com/raphi011/pre-commit-vauxoo/internal/cmd]
// rather than using a Go git library, so the user's git configuration
// (core.hooksPath, safe.directory, worktrees) is honoured.
//
//   - [RepoRoot]: root of the work tree containing a directory
//   - [RelativePrefix]: current directory relative to that root
//   - [ListFiles]: tracked files under a path
//   - [Diff]: unstaged changes, used for the CI report after autofix
//   - [HooksDir]: where the pre-commit hook script is installed
package git
