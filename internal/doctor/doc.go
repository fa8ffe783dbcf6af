// Package doctor diagnoses the environment pre-commit-vauxoo runs in.
//
// Checks:
//   - git and pre-commit are on PATH
//   - the working directory is inside a git repository
//   - the repository config files parse
//   - the stage configuration files exist and list hooks
//   - the git pre-commit hook is installed
//
// With Fix set, a missing git hook is installed.
package doctor
