package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFromList(t *testing.T) {
	t.Parallel()
	env := EnvFromList([]string{"A=1", "B=x=y", "EMPTY=", "BROKEN"})
	assert.Equal(t, Env{"A": "1", "B": "x=y", "EMPTY": ""}, env)
	assert.Equal(t, "", env.Get("MISSING"))
}

func TestEnvCI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  Env
		want bool
	}{
		{Env{}, false},
		{Env{"CI": "true"}, true},
		{Env{"CI": "1"}, true},
		{Env{"CI": "false"}, false},
		{Env{"CI": ""}, false},
		{Env{"GITLAB_CI": "true"}, true},
		{Env{"GITHUB_ACTIONS": "true"}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.env.CI(), "%v", tt.env)
	}
}

func TestEnvNoColor(t *testing.T) {
	t.Parallel()
	assert.True(t, Env{"NO_COLOR": "1"}.NoColor())
	assert.False(t, Env{}.NoColor())
}

func TestReadVariables(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeConfig(t, dir, VariablesFileName, `#!/bin/bash
# Vauxoo variables
export VERSION="16.0"
export EXCLUDE_LINT='module_a/migrations,module_b'
EXPORT PYLINT_DISABLE_CHECKS=import-error
NOT_EXPORTED=1
if [ -n "$CI" ]; then
    export PRECOMMIT_FAIL_OPTIONAL=1
fi
`)

	vars, err := ReadVariables(dir)
	require.NoError(t, err)
	assert.Equal(t, "16.0", vars["VERSION"])
	assert.Equal(t, "module_a/migrations,module_b", vars["EXCLUDE_LINT"])
	assert.Equal(t, "import-error", vars["PYLINT_DISABLE_CHECKS"])
	assert.Equal(t, "1", vars["PRECOMMIT_FAIL_OPTIONAL"])
	assert.NotContains(t, vars, "NOT_EXPORTED")
}

func TestReadVariables_Missing(t *testing.T) {
	t.Parallel()
	vars, err := ReadVariables(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, vars)
}

func TestParseBool(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"1", "true", "TRUE", "yes", "On", " y "} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"", "0", "false", "no", "off"} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}
