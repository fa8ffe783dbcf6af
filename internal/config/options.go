package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/raphi011/pre-commit-vauxoo/internal/pathset"
)

// Option keys, shared by config files and viper.
const (
	KeyPaths                   = "paths"
	KeyNoOverwrite             = "no_overwrite"
	KeyFailOptional            = "fail_optional"
	KeyExcludeAutofix          = "exclude_autofix"
	KeyExcludeLint             = "exclude_lint"
	KeyPylintDisableChecks     = "pylint_disable_checks"
	KeyOCAHooksDisableChecks   = "oca_hooks_disable_checks"
	KeySkipStringNormalization = "skip_string_normalization"
	KeyPrecommitHooksType      = "precommit_hooks_type"
	KeyOdooVersion             = "odoo_version"
	KeyTemplateDir             = "template_dir"
	KeyColor                   = "color"
	KeyLogFile                 = "log_file"
)

// Binding ties an option key to its environment variable and flag.
type Binding struct {
	Key  string
	Env  string
	Flag string
	Bool bool
}

// Bindings lists every option. Keys without Env can only be set from
// config files and flags.
var Bindings = []Binding{
	{Key: KeyPaths, Env: "INCLUDE_LINT", Flag: "paths"},
	{Key: KeyNoOverwrite, Env: "PRECOMMIT_NO_OVERWRITE_CONFIG_FILES", Flag: "no-overwrite", Bool: true},
	{Key: KeyFailOptional, Env: "PRECOMMIT_FAIL_OPTIONAL", Flag: "fail-optional", Bool: true},
	{Key: KeyExcludeAutofix, Env: "EXCLUDE_AUTOFIX", Flag: "exclude-autofix"},
	{Key: KeyExcludeLint, Env: "EXCLUDE_LINT", Flag: "exclude-lint"},
	{Key: KeyPylintDisableChecks, Env: "PYLINT_DISABLE_CHECKS", Flag: "pylint-disable-checks"},
	{Key: KeyOCAHooksDisableChecks, Env: "OCA_HOOKS_DISABLE_CHECKS", Flag: "oca-hooks-disable-checks"},
	{Key: KeySkipStringNormalization, Env: "BLACK_SKIP_STRING_NORMALIZATION", Flag: "skip-string-normalization", Bool: true},
	{Key: KeyPrecommitHooksType, Env: "PRECOMMIT_HOOKS_TYPE", Flag: "precommit-hooks-type"},
	{Key: KeyOdooVersion, Env: "VERSION", Flag: "odoo-version"},
	{Key: KeyTemplateDir, Env: "PRE_COMMIT_VAUXOO_TEMPLATE_DIR", Flag: "template-dir"},
	{Key: KeyColor, Env: "PRE_COMMIT_COLOR", Flag: "color"},
	{Key: KeyLogFile, Flag: "log-file"},
}

// Defaults of the options that have one.
const (
	DefaultPath      = "."
	DefaultHooksType = "all,-fix"
	DefaultColor     = "auto"
)

// Options are the resolved run options. List values are split on commas
// and trimmed; paths are kept as given and resolved by the caller.
type Options struct {
	Paths                   []string `mapstructure:"paths"`
	NoOverwrite             bool     `mapstructure:"no_overwrite"`
	FailOptional            bool     `mapstructure:"fail_optional"`
	ExcludeAutofix          []string `mapstructure:"exclude_autofix"`
	ExcludeLint             []string `mapstructure:"exclude_lint"`
	PylintDisableChecks     []string `mapstructure:"pylint_disable_checks"`
	OCAHooksDisableChecks   []string `mapstructure:"oca_hooks_disable_checks"`
	SkipStringNormalization bool     `mapstructure:"skip_string_normalization"`
	PrecommitHooksType      []string `mapstructure:"precommit_hooks_type"`
	OdooVersion             string   `mapstructure:"odoo_version"`
	TemplateDir             string   `mapstructure:"template_dir"`
	Color                   string   `mapstructure:"color"`
	LogFile                 string   `mapstructure:"log_file"`
}

// Sources are the inputs Build layers, lowest precedence first.
type Sources struct {
	File      *File
	Variables map[string]string
	Env       Env
	Flags     *pflag.FlagSet
}

// Build resolves the options from src. Empty environment values count as
// unset. Only flags changed on the command line override other layers.
func Build(src Sources) (Options, error) {
	v := viper.New()
	v.SetDefault(KeyPaths, []string{DefaultPath})
	v.SetDefault(KeyPrecommitHooksType, []string{DefaultHooksType})
	v.SetDefault(KeyColor, DefaultColor)

	if err := v.MergeConfigMap(src.File.settings()); err != nil {
		return Options{}, err
	}
	for _, layer := range []struct {
		name string
		vars map[string]string
	}{
		{VariablesFileName, src.Variables},
		{"environment", src.Env},
	} {
		m, err := envLayer(layer.vars)
		if err != nil {
			return Options{}, fmt.Errorf("%s: %w", layer.name, err)
		}
		if err := v.MergeConfigMap(m); err != nil {
			return Options{}, err
		}
	}
	if src.Flags != nil {
		for _, b := range Bindings {
			if f := src.Flags.Lookup(b.Flag); f != nil {
				if err := v.BindPFlag(b.Key, f); err != nil {
					return Options{}, err
				}
			}
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}
	opts.normalize()
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// envLayer maps environment style variables to option keys.
func envLayer(vars map[string]string) (map[string]any, error) {
	m := make(map[string]any)
	for _, b := range Bindings {
		if b.Env == "" {
			continue
		}
		raw := strings.TrimSpace(vars[b.Env])
		if raw == "" {
			continue
		}
		if !b.Bool {
			m[b.Key] = raw
			continue
		}
		val, err := ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Env, err)
		}
		m[b.Key] = val
	}
	return m, nil
}

func (o *Options) normalize() {
	o.Paths = pathset.ParseCSVs(o.Paths)
	if len(o.Paths) == 0 {
		o.Paths = []string{DefaultPath}
	}
	o.ExcludeAutofix = pathset.ParseCSVs(o.ExcludeAutofix)
	o.ExcludeLint = pathset.ParseCSVs(o.ExcludeLint)
	o.PylintDisableChecks = pathset.ParseCSVs(o.PylintDisableChecks)
	o.OCAHooksDisableChecks = pathset.ParseCSVs(o.OCAHooksDisableChecks)
	o.PrecommitHooksType = pathset.ParseCSVs(o.PrecommitHooksType)
	o.OdooVersion = strings.TrimSpace(o.OdooVersion)
	o.Color = strings.ToLower(strings.TrimSpace(o.Color))
	if o.Color == "" {
		o.Color = DefaultColor
	}
}

// Validate checks values that have a fixed set of choices.
func (o Options) Validate() error {
	return validateColor(o.Color)
}

func validateColor(c string) error {
	switch c {
	case "", "auto", "always", "never":
		return nil
	}
	return fmt.Errorf("invalid color %q: must be \"auto\", \"always\" or \"never\"", c)
}
