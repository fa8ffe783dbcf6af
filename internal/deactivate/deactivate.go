// Package deactivate checks the deactivation templates Odoo deployments run
// when an instance is copied to a non-production environment.
//
// A deactivate file is a Jinja template that renders to a JSON object whose
// values are SQL statements. For every instance type the template is
// rendered, parsed as JSON and its statements joined and handed to a
// SQLChecker. The template may only read the variables the deployment tool
// provides (ValidVariables).
package deactivate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var (
	// InstanceTypes are the instance types a deactivate file is rendered for.
	InstanceTypes = []string{"test", "develop", "updates"}
	// ValidVariables are the template variables the deployment tool sets.
	ValidVariables = []string{"instance_type", "nginx_url"}
)

// Kind classifies a Problem.
type Kind int

const (
	// KindTemplate means the file is not a valid template.
	KindTemplate Kind = iota + 1
	// KindJSON means a rendering is not a JSON object of strings.
	KindJSON
	// KindSQL means the joined statements are not valid SQL.
	KindSQL
	// KindVariables means the template reads variables nobody sets.
	KindVariables
)

// Problem is one finding in a deactivate file.
type Problem struct {
	File string
	Kind Kind
	// InstanceType is the rendering the problem was found in; empty for
	// problems of the template itself.
	InstanceType string
	Msg          string
	// Context holds the offending lines, if known.
	Context string
	// Content is the rendered JSON or the joined SQL.
	Content string
}

// String formats the problem the way the check prints it.
func (p Problem) String() string {
	switch p.Kind {
	case KindJSON:
		return fmt.Sprintf("%s->json instance_type=%s - %s\n%s\njson content:\n%s", p.File, p.InstanceType, p.Msg, p.Context, p.Content)
	case KindSQL:
		return fmt.Sprintf("%s->json->sql instance_type=%s - %s\n\t%s\nsql content:\n%s", p.File, p.InstanceType, p.Msg, p.Context, p.Content)
	case KindTemplate:
		if p.InstanceType != "" {
			return fmt.Sprintf("%s->jinja instance_type=%s - %s", p.File, p.InstanceType, p.Msg)
		}
		return fmt.Sprintf("%s->jinja - %s", p.File, p.Msg)
	default:
		return fmt.Sprintf("%s - %s", p.File, p.Msg)
	}
}

// Checker checks deactivate files.
type Checker struct {
	SQL SQLChecker
	// InstanceTypes overrides the instance types to render for.
	InstanceTypes []string
}

var autoescapeOnce sync.Once

// CheckFiles checks every path in order and returns all problems found.
func (c *Checker) CheckFiles(ctx context.Context, paths []string) ([]Problem, error) {
	var problems []Problem
	for _, path := range paths {
		found, err := c.Check(ctx, path)
		if err != nil {
			return problems, err
		}
		problems = append(problems, found...)
	}
	return problems, nil
}

// Check checks the deactivate file at path. The error is set when the file
// cannot be read or the SQL checker cannot run; everything wrong with the
// file itself is a Problem. An SQL problem ends the check of the file.
func (c *Checker) Check(ctx context.Context, path string) ([]Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c.check(ctx, path, string(data))
}

func (c *Checker) check(ctx context.Context, path, content string) ([]Problem, error) {
	// Deactivate files render to JSON and SQL, never HTML.
	autoescapeOnce.Do(func() { pongo2.SetAutoescape(false) })

	tpl, err := pongo2.FromString(content)
	if err != nil {
		return []Problem{{File: path, Kind: KindTemplate, Msg: err.Error()}}, nil
	}

	var problems []Problem
	if invalid := invalidVariables(content); len(invalid) > 0 {
		problems = append(problems, Problem{
			File: path,
			Kind: KindVariables,
			Msg: fmt.Sprintf("There are invalid variables: (%s). Expected: (%s).",
				strings.Join(invalid, ", "), strings.Join(ValidVariables, ", ")),
		})
	}

	types := c.InstanceTypes
	if len(types) == 0 {
		types = InstanceTypes
	}
	for _, it := range types {
		rendered, err := tpl.Execute(pongo2.Context{"instance_type": it})
		if err != nil {
			problems = append(problems, Problem{File: path, Kind: KindTemplate, InstanceType: it, Msg: err.Error()})
			continue
		}

		values, err := decodeStatements(rendered)
		if err != nil {
			var je *jsonError
			p := Problem{File: path, Kind: KindJSON, InstanceType: it, Msg: err.Error(), Content: rendered}
			if errors.As(err, &je) {
				p.Msg = je.msg
				p.Context = linesBefore(rendered, je.line, 2)
			}
			problems = append(problems, p)
			continue
		}

		sql := strings.Join(values, ";\n") + ";"
		msg, err := c.SQL.CheckSQL(ctx, sql)
		if err != nil {
			return problems, err
		}
		if msg != "" {
			line, text := splitSQLError(msg)
			sqlContext := sql
			if line > 0 {
				sqlContext = linesBefore(sql, line, 1)
			}
			problems = append(problems, Problem{File: path, Kind: KindSQL, InstanceType: it, Msg: text, Context: sqlContext, Content: sql})
			return problems, nil
		}
	}
	return problems, nil
}

func invalidVariables(content string) []string {
	var invalid []string
	for _, name := range UndeclaredVariables(content) {
		if !isValidVariable(name) {
			invalid = append(invalid, name)
		}
	}
	return invalid
}

func isValidVariable(name string) bool {
	for _, v := range ValidVariables {
		if v == name {
			return true
		}
	}
	return false
}

// jsonError is a JSON problem located at a 1-based line.
type jsonError struct {
	msg  string
	line int
}

func (e *jsonError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.msg)
}

// decodeStatements parses s as a JSON object of strings and returns its
// values in document order.
func decodeStatements(s string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	fail := func(err error) error {
		offset := dec.InputOffset()
		var se *json.SyntaxError
		if errors.As(err, &se) {
			offset = se.Offset
		}
		return &jsonError{msg: err.Error(), line: lineAt(s, offset)}
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, fail(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fail(fmt.Errorf("expected a JSON object, found %v", tok))
	}

	var values []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fail(err)
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fail(err)
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fail(fmt.Errorf("value of %q is not a string", key))
		}
		values = append(values, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fail(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after the JSON object")
		}
		return nil, fail(err)
	}
	return values, nil
}

// lineAt returns the 1-based line of byte offset in s.
func lineAt(s string, offset int64) int {
	if offset > int64(len(s)) {
		offset = int64(len(s))
	}
	return 1 + strings.Count(s[:offset], "\n")
}

// linesBefore returns up to n lines of s ending at the 1-based line.
func linesBefore(s string, line, n int) string {
	lines := strings.Split(s, "\n")
	end := min(line, len(lines))
	start := max(end-n, 0)
	return strings.Join(lines[start:end], "\n")
}
