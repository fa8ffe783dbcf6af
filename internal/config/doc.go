// Package config builds the run options of pre-commit-vauxoo.
//
// Options are layered, lowest precedence first:
//
//  1. built-in defaults
//  2. the global config file ~/.config/pre-commit-vauxoo/config.toml
//  3. the repository config file .pre-commit-vauxoo.toml
//  4. variables.sh at the repository root (export NAME=value lines)
//  5. the process environment, captured once at start
//  6. command line flags
//
// The result is one [Options] value handed to every component; nothing
// reads the environment after it is built.
//
// Example .pre-commit-vauxoo.toml:
//
//	paths = ["module_a", "module_b"]
//	exclude_lint = ["module_a/migrations"]
//	pylint_disable_checks = ["import-error"]
//	precommit_hooks_type = ["all", "-fix"]
//	odoo_version = "16.0"
package config
