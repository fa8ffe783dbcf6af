package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-repository config file.
const LocalConfigFileName = ".pre-commit-vauxoo.toml"

// File is the content of a TOML config file. Nil pointers and nil slices
// mean "not set" so a repository file only overrides what it names.
type File struct {
	Paths                   []string `toml:"paths"`
	NoOverwrite             *bool    `toml:"no_overwrite"`
	FailOptional            *bool    `toml:"fail_optional"`
	ExcludeAutofix          []string `toml:"exclude_autofix"`
	ExcludeLint             []string `toml:"exclude_lint"`
	PylintDisableChecks     []string `toml:"pylint_disable_checks"`
	OCAHooksDisableChecks   []string `toml:"oca_hooks_disable_checks"`
	SkipStringNormalization *bool    `toml:"skip_string_normalization"`
	PrecommitHooksType      []string `toml:"precommit_hooks_type"`
	OdooVersion             string   `toml:"odoo_version"`
	TemplateDir             string   `toml:"template_dir"`
	Color                   string   `toml:"color"`
	LogFile                 string   `toml:"log_file"`
}

// GlobalPath returns the global config file path. PRE_COMMIT_VAUXOO_CONFIG
// in env overrides the default under the home directory.
func GlobalPath(env Env) (string, error) {
	if p := env.Get("PRE_COMMIT_VAUXOO_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pre-commit-vauxoo", "config.toml"), nil
}

// LoadFile reads a TOML config file.
// Returns nil (no error) if the file doesn't exist.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}
	if err := validateColor(f.Color); err != nil {
		return nil, fmt.Errorf("%w in %s", err, path)
	}

	if f.TemplateDir != "" {
		expanded, err := expandPath(f.TemplateDir)
		if err != nil {
			return nil, fmt.Errorf("expand template_dir: %w", err)
		}
		f.TemplateDir = expanded
	}
	return &f, nil
}

// LoadLocal reads .pre-commit-vauxoo.toml from repoRoot.
func LoadLocal(repoRoot string) (*File, error) {
	return LoadFile(filepath.Join(repoRoot, LocalConfigFileName))
}

// Merge returns global overridden field by field by local, without
// mutating either. Either may be nil.
func Merge(global, local *File) *File {
	if global == nil && local == nil {
		return nil
	}
	var merged File
	if global != nil {
		merged = *global
	}
	if local == nil {
		return &merged
	}

	if local.Paths != nil {
		merged.Paths = local.Paths
	}
	if local.NoOverwrite != nil {
		merged.NoOverwrite = local.NoOverwrite
	}
	if local.FailOptional != nil {
		merged.FailOptional = local.FailOptional
	}
	if local.ExcludeAutofix != nil {
		merged.ExcludeAutofix = local.ExcludeAutofix
	}
	if local.ExcludeLint != nil {
		merged.ExcludeLint = local.ExcludeLint
	}
	if local.PylintDisableChecks != nil {
		merged.PylintDisableChecks = local.PylintDisableChecks
	}
	if local.OCAHooksDisableChecks != nil {
		merged.OCAHooksDisableChecks = local.OCAHooksDisableChecks
	}
	if local.SkipStringNormalization != nil {
		merged.SkipStringNormalization = local.SkipStringNormalization
	}
	if local.PrecommitHooksType != nil {
		merged.PrecommitHooksType = local.PrecommitHooksType
	}
	if local.OdooVersion != "" {
		merged.OdooVersion = local.OdooVersion
	}
	if local.TemplateDir != "" {
		merged.TemplateDir = local.TemplateDir
	}
	if local.Color != "" {
		merged.Color = local.Color
	}
	if local.LogFile != "" {
		merged.LogFile = local.LogFile
	}
	return &merged
}

// settings returns the set fields keyed by option key.
func (f *File) settings() map[string]any {
	m := make(map[string]any)
	if f == nil {
		return m
	}
	setList := func(key string, v []string) {
		if v != nil {
			m[key] = v
		}
	}
	setBool := func(key string, v *bool) {
		if v != nil {
			m[key] = *v
		}
	}
	setString := func(key, v string) {
		if v != "" {
			m[key] = v
		}
	}
	setList(KeyPaths, f.Paths)
	setBool(KeyNoOverwrite, f.NoOverwrite)
	setBool(KeyFailOptional, f.FailOptional)
	setList(KeyExcludeAutofix, f.ExcludeAutofix)
	setList(KeyExcludeLint, f.ExcludeLint)
	setList(KeyPylintDisableChecks, f.PylintDisableChecks)
	setList(KeyOCAHooksDisableChecks, f.OCAHooksDisableChecks)
	setBool(KeySkipStringNormalization, f.SkipStringNormalization)
	setList(KeyPrecommitHooksType, f.PrecommitHooksType)
	setString(KeyOdooVersion, f.OdooVersion)
	setString(KeyTemplateDir, f.TemplateDir)
	setString(KeyColor, f.Color)
	setString(KeyLogFile, f.LogFile)
	return m
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
