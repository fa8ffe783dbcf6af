// Package materialize copies the lint configuration templates into a
// repository, rewriting marker lines from the run options.
//
// Markers, applied in order per line:
//
//   - "# EXCLUDE_LINT" in .pre-commit-config* files is replaced by the
//     exclude fragments, or dropped when there are none
//   - "R0000" in .pre-commit-config* files becomes the disabled pylint checks
//   - a "disable=" line in .oca_hooks.cfg gets the disabled hook checks appended
//   - "skip-string-normalization" in pyproject.toml is set from the option
//   - "[MASTER]" in .pylintrc* files is followed by valid-odoo-versions
package materialize

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/raphi011/pre-commit-vauxoo/internal/log"
	"github.com/raphi011/pre-commit-vauxoo/internal/runerr"
)

// File names and prefixes carrying markers.
const (
	PreCommitPrefix    = ".pre-commit-config"
	AutofixConfig      = ".pre-commit-config-autofix.yaml"
	OCAHooksConfig     = ".oca_hooks.cfg"
	PyProject          = "pyproject.toml"
	PylintPrefix       = ".pylintrc"
	ExcludeLintMarker  = "# EXCLUDE_LINT"
	DisablePlaceholder = "R0000"
	MasterSection      = "[MASTER]"
	skipStringKey      = "skip-string-normalization"
	versionKey         = "valid-odoo-versions"
	fragmentIndent     = "    "
)

// Options holds the values substituted into marker lines.
type Options struct {
	// NoOverwrite keeps destination files that already exist.
	NoOverwrite bool
	// ExcludeLint and ExcludeAutofix are exclude fragments as built by
	// pathset.ExcludeFragment; empty means no exclusion.
	ExcludeLint    string
	ExcludeAutofix string
	// DisabledChecks replace the R0000 placeholder.
	DisabledChecks []string
	// DisabledHookChecks are appended to the oca hooks disable line.
	DisabledHookChecks      []string
	SkipStringNormalization bool
	// TargetVersion is the Odoo version written to pylint configs, if set.
	TargetVersion string
	// Source labels the template set in log messages.
	Source string
}

// Result describes what happened to one template file.
type Result struct {
	Name    string
	Dest    string
	Skipped bool
}

// Materialize writes every regular file at the root of templates into
// repoRoot, in name order. The first read or write failure aborts the run;
// files written before it stay in place.
func Materialize(ctx context.Context, templates fs.FS, repoRoot string, opts Options) ([]Result, error) {
	l := log.FromContext(ctx)

	entries, err := fs.ReadDir(templates, ".")
	if err != nil {
		return nil, runerr.ConfigWrite(opts.source(), err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var results []Result
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		src := path.Join(opts.source(), name)
		dst := filepath.Join(repoRoot, name)

		if opts.NoOverwrite && isRegularFile(dst) {
			l.Warnf("Use custom file %s", dst)
			results = append(results, Result{Name: name, Dest: dst, Skipped: true})
			continue
		}

		data, err := fs.ReadFile(templates, name)
		if err != nil {
			return results, runerr.ConfigWrite(src, err)
		}
		l.Infof("Copying %s to %s", src, dst)
		if err := os.WriteFile(dst, Render(name, data, opts), 0644); err != nil {
			return results, runerr.ConfigWrite(dst, err)
		}
		results = append(results, Result{Name: name, Dest: dst})
	}
	return results, nil
}

// Render returns the contents of template name with its marker lines rewritten.
func Render(name string, data []byte, opts Options) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	for _, line := range splitKeep(data) {
		out.WriteString(rewrite(name, line, opts))
	}
	return out.Bytes()
}

func rewrite(name, line string, opts Options) string {
	body := strings.TrimRight(line, "\r\n")
	term := line[len(body):]

	if strings.HasPrefix(name, PreCommitPrefix) && strings.TrimSpace(body) == ExcludeLintMarker {
		var b strings.Builder
		if opts.ExcludeLint != "" {
			b.WriteString(fragmentIndent + opts.ExcludeLint + lineEnd(term))
		}
		if name == AutofixConfig && opts.ExcludeAutofix != "" {
			b.WriteString(fragmentIndent + opts.ExcludeAutofix + lineEnd(term))
		}
		return b.String()
	}

	if strings.HasPrefix(name, PreCommitPrefix) && len(opts.DisabledChecks) > 0 && strings.Contains(body, DisablePlaceholder) {
		body = strings.ReplaceAll(body, DisablePlaceholder, strings.Join(opts.DisabledChecks, ","))
	}

	if name == OCAHooksConfig && len(opts.DisabledHookChecks) > 0 && strings.Contains(body, "disable=") {
		body += "," + strings.Join(opts.DisabledHookChecks, ",")
	}

	if name == PyProject && strings.HasPrefix(body, skipStringKey) {
		body = skipStringKey + "=" + strconv.FormatBool(opts.SkipStringNormalization)
	}

	if strings.HasPrefix(name, PylintPrefix) && opts.TargetVersion != "" && strings.TrimSpace(body) == MasterSection {
		return body + lineEnd(term) + versionKey + "=" + opts.TargetVersion + term
	}

	return body + term
}

// splitKeep splits data into lines, each keeping its terminator.
func splitKeep(data []byte) []string {
	var lines []string
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, string(data))
			break
		}
		lines = append(lines, string(data[:i+1]))
		data = data[i+1:]
	}
	return lines
}

// lineEnd returns term, or "\n" for a last line without one.
func lineEnd(term string) string {
	if term == "" {
		return "\n"
	}
	return term
}

func (o Options) source() string {
	if o.Source == "" {
		return DefaultSource
	}
	return o.Source
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
