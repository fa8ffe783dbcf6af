package deactivate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDeactivate = `{
    "crons": "UPDATE ir_cron SET active = False",
    {% if instance_type == "test" %}"mail": "UPDATE ir_mail_server SET active = False",{% endif %}
    "url": "UPDATE ir_config_parameter SET value = 'http://{{ nginx_url }}' WHERE key = 'web.base.url'"
}
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deactivate.jinja")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// recordingChecker records every SQL block and reports msg for those
// containing bad.
type recordingChecker struct {
	sql []string
	bad string
	msg string
}

func (r *recordingChecker) CheckSQL(_ context.Context, sql string) (string, error) {
	r.sql = append(r.sql, sql)
	if r.bad != "" && strings.Contains(sql, r.bad) {
		return r.msg, nil
	}
	return "", nil
}

func TestCheck_Valid(t *testing.T) {
	t.Parallel()
	sqlChecker := &recordingChecker{}
	c := &Checker{SQL: sqlChecker}

	problems, err := c.Check(context.Background(), writeFile(t, validDeactivate))
	require.NoError(t, err)
	assert.Empty(t, problems)

	require.Len(t, sqlChecker.sql, len(InstanceTypes))
	assert.Equal(t, "UPDATE ir_cron SET active = False;\n"+
		"UPDATE ir_mail_server SET active = False;\n"+
		"UPDATE ir_config_parameter SET value = 'http://' WHERE key = 'web.base.url';", sqlChecker.sql[0])
	assert.NotContains(t, sqlChecker.sql[1], "ir_mail_server", "develop renders without the test-only statement")
}

func TestCheck_InstanceTypesOverride(t *testing.T) {
	t.Parallel()
	sqlChecker := &recordingChecker{}
	c := &Checker{SQL: sqlChecker, InstanceTypes: []string{"develop"}}

	problems, err := c.Check(context.Background(), writeFile(t, validDeactivate))
	require.NoError(t, err)
	assert.Empty(t, problems)
	assert.Len(t, sqlChecker.sql, 1)
}

func TestCheck_InvalidJSON(t *testing.T) {
	t.Parallel()
	content := `{
    "crons": "UPDATE ir_cron SET active = False"{% if instance_type == "develop" %},{% endif %}
}
`
	sqlChecker := &recordingChecker{}
	c := &Checker{SQL: sqlChecker}

	problems, err := c.Check(context.Background(), writeFile(t, content))
	require.NoError(t, err)
	require.Len(t, problems, 1)

	p := problems[0]
	assert.Equal(t, KindJSON, p.Kind)
	assert.Equal(t, "develop", p.InstanceType)
	assert.Contains(t, p.Context, `"crons"`)
	assert.Contains(t, p.String(), "->json instance_type=develop - ")
	assert.Contains(t, p.String(), "json content:\n")

	// The other instance types are still checked.
	assert.Len(t, sqlChecker.sql, 2)
}

func TestCheck_NonStringValue(t *testing.T) {
	t.Parallel()
	c := &Checker{SQL: &recordingChecker{}, InstanceTypes: []string{"test"}}

	problems, err := c.Check(context.Background(), writeFile(t, `{"crons": 1}`))
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, KindJSON, problems[0].Kind)
	assert.Contains(t, problems[0].Msg, `value of "crons" is not a string`)
}

func TestCheck_NotAnObject(t *testing.T) {
	t.Parallel()
	c := &Checker{SQL: &recordingChecker{}, InstanceTypes: []string{"test"}}

	for _, content := range []string{`["UPDATE t SET a = 1"]`, `{"a": "UPDATE t SET a = 1"} {}`, ``} {
		problems, err := c.Check(context.Background(), writeFile(t, content))
		require.NoError(t, err)
		require.Len(t, problems, 1, content)
		assert.Equal(t, KindJSON, problems[0].Kind, content)
	}
}

func TestCheck_InvalidSQLStopsFile(t *testing.T) {
	t.Parallel()
	content := `{
    "crons": "UPDATE ir_cron SET active = False",
    "bad": "SELECT id FORM res_users"
}`
	sqlChecker := &recordingChecker{bad: "FORM", msg: `stdin:2: ERROR: syntax error at or near "res_users"`}
	c := &Checker{SQL: sqlChecker}

	problems, err := c.Check(context.Background(), writeFile(t, content))
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Len(t, sqlChecker.sql, 1)

	p := problems[0]
	assert.Equal(t, KindSQL, p.Kind)
	assert.Equal(t, "test", p.InstanceType)
	assert.Equal(t, `ERROR: syntax error at or near "res_users"`, p.Msg)
	assert.Equal(t, "SELECT id FORM res_users;", p.Context)
	assert.Equal(t, "UPDATE ir_cron SET active = False;\nSELECT id FORM res_users;", p.Content)
	assert.True(t, strings.HasPrefix(p.String(), p.File+"->json->sql instance_type=test - ERROR"))
}

func TestCheck_SQLMessageWithoutLine(t *testing.T) {
	t.Parallel()
	sqlChecker := &recordingChecker{bad: "FORM", msg: "something went wrong"}
	c := &Checker{SQL: sqlChecker, InstanceTypes: []string{"test"}}

	problems, err := c.Check(context.Background(), writeFile(t, `{"bad": "SELECT id FORM res_users"}`))
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "something went wrong", problems[0].Msg)
	assert.Equal(t, problems[0].Content, problems[0].Context)
}

func TestCheck_SQLCheckerError(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("ecpg not found")
	c := &Checker{SQL: SQLCheckerFunc(func(context.Context, string) (string, error) { return "", wantErr })}

	_, err := c.Check(context.Background(), writeFile(t, validDeactivate))
	assert.ErrorIs(t, err, wantErr)
}

func TestCheck_InvalidVariables(t *testing.T) {
	t.Parallel()
	content := `{
    "partner": "UPDATE res_partner SET name = '{{ customer_name }}' WHERE id = {{ partner_id }}",
    "url": "UPDATE ir_config_parameter SET value = '{{ nginx_url }}'"
}`
	c := &Checker{SQL: &recordingChecker{}}

	problems, err := c.Check(context.Background(), writeFile(t, content))
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, KindVariables, problems[0].Kind)
	assert.Equal(t, "There are invalid variables: (customer_name, partner_id). Expected: (instance_type, nginx_url).", problems[0].Msg)
}

func TestCheck_TemplateSyntaxError(t *testing.T) {
	t.Parallel()
	sqlChecker := &recordingChecker{}
	c := &Checker{SQL: sqlChecker}

	problems, err := c.Check(context.Background(), writeFile(t, `{ {% if instance_type == "test" %} }`))
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, KindTemplate, problems[0].Kind)
	assert.Contains(t, problems[0].String(), "->jinja - ")
	assert.Empty(t, sqlChecker.sql)
}

func TestCheck_MissingFile(t *testing.T) {
	t.Parallel()
	c := &Checker{SQL: &recordingChecker{}}
	_, err := c.Check(context.Background(), filepath.Join(t.TempDir(), "missing.jinja"))
	assert.Error(t, err)
}

func TestCheckFiles(t *testing.T) {
	t.Parallel()
	good := writeFile(t, validDeactivate)
	bad := writeFile(t, `{"crons": 1}`)
	c := &Checker{SQL: &recordingChecker{}, InstanceTypes: []string{"test"}}

	problems, err := c.CheckFiles(context.Background(), []string{good, bad})
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, bad, problems[0].File)
}
