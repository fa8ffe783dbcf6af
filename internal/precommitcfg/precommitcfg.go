// Package precommitcfg reads pre-commit configuration files.
package precommitcfg

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the subset of a pre-commit configuration this tool inspects.
type Config struct {
	Exclude string `yaml:"exclude"`
	Repos   []Repo `yaml:"repos"`
}

// Repo is one hook repository.
type Repo struct {
	Repo  string `yaml:"repo"`
	Rev   string `yaml:"rev"`
	Hooks []Hook `yaml:"hooks"`
}

// Hook is one hook of a repository.
type Hook struct {
	ID   string   `yaml:"id"`
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse pre-commit config: %w", err)
	}
	return &cfg, nil
}

// HookIDs returns the ids of every hook, in file order.
func (c *Config) HookIDs() []string {
	var ids []string
	for _, r := range c.Repos {
		for _, h := range r.Hooks {
			ids = append(ids, h.ID)
		}
	}
	return ids
}

// ExcludeRegexp compiles the top-level exclude pattern.
func (c *Config) ExcludeRegexp() (*regexp.Regexp, error) {
	return CompileVerbose(c.Exclude)
}

// CompileVerbose compiles a pattern that may use Python's (?x) verbose
// mode, which RE2 lacks. Outside character classes, unescaped whitespace
// is dropped and "#" starts a comment running to the end of the line.
func CompileVerbose(pattern string) (*regexp.Regexp, error) {
	trimmed := strings.TrimLeft(pattern, " \t\r\n")
	if !strings.HasPrefix(trimmed, "(?x)") {
		return regexp.Compile(pattern)
	}
	return regexp.Compile(stripVerbose(strings.TrimPrefix(trimmed, "(?x)")))
}

func stripVerbose(p string) string {
	var b strings.Builder
	inClass, comment := false, false
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case comment:
			if c == '\n' {
				comment = false
			}
		case c == '\\' && i+1 < len(p):
			next := p[i+1]
			i++
			if !inClass && (next == ' ' || next == '#') {
				// RE2 rejects "\ "; a class keeps the literal.
				b.WriteString("[" + string(next) + "]")
				continue
			}
			b.WriteByte(c)
			b.WriteByte(next)
		case inClass:
			if c == ']' {
				inClass = false
			}
			b.WriteByte(c)
		case c == '[':
			inClass = true
			b.WriteByte(c)
			// A leading "]" or "^]" is a literal member.
			if i+1 < len(p) && p[i+1] == '^' {
				b.WriteByte('^')
				i++
			}
			if i+1 < len(p) && p[i+1] == ']' {
				b.WriteByte(']')
				i++
			}
		case c == '#':
			comment = true
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
