package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// VariablesFileName is the shell file of exported settings some
// repositories keep at their root.
const VariablesFileName = "variables.sh"

// Env is a snapshot of environment variables.
type Env map[string]string

// EnvFromList builds an Env from KEY=value entries, as returned by os.Environ.
func EnvFromList(list []string) Env {
	env := make(Env, len(list))
	for _, kv := range list {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Get returns the value of key, or "".
func (e Env) Get(key string) string {
	return e[key]
}

// CI reports whether the run happens in a continuous integration job.
func (e Env) CI() bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "TRAVIS", "BUILD_NUMBER"} {
		if v, ok := e[key]; ok && v != "" && !isFalse(v) {
			return true
		}
	}
	return false
}

// NoColor reports whether NO_COLOR asks for plain output.
func (e Env) NoColor() bool {
	return e.Get("NO_COLOR") != ""
}

// ReadVariables parses variables.sh in repoRoot. Only "export NAME=value"
// lines are read; other shell code is ignored and the process environment
// is left untouched. Returns nil (no error) if the file doesn't exist.
func ReadVariables(repoRoot string) (map[string]string, error) {
	path := filepath.Join(repoRoot, VariablesFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	vars, err := godotenv.Unmarshal(exportLines(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return vars, nil
}

// exportLines keeps the export statements of a shell script.
func exportLines(script string) string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		keyword, rest, ok := strings.Cut(line, " ")
		if !ok || (keyword != "export" && keyword != "EXPORT") {
			continue
		}
		b.WriteString("export " + strings.TrimSpace(rest) + "\n")
	}
	return b.String()
}

// ParseBool parses a boolean option value. Besides the strconv forms it
// accepts yes/no and on/off, case-insensitively.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "", "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

func isFalse(s string) bool {
	b, err := ParseBool(s)
	return err == nil && !b
}
