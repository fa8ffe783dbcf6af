package deactivate

import (
	"regexp"
	"slices"
	"sort"
)

var (
	commentRe = regexp.MustCompile(`(?s)\{#.*?#\}`)
	tagRe     = regexp.MustCompile(`(?s)\{\{-?(.*?)-?\}\}|\{%-?(.*?)-?%\}`)
	tokenRe   = regexp.MustCompile(`'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"|[A-Za-z_][A-Za-z0-9_]*|[0-9][0-9.]*|==|!=|<=|>=|\S`)
)

// templateWords are names a template can use without the caller providing
// them: statement keywords, operators, literals and loop helpers.
var templateWords = map[string]bool{
	"if": true, "elif": true, "else": true, "endif": true,
	"for": true, "in": true, "endfor": true, "recursive": true,
	"set": true, "endset": true, "with": true, "endwith": true,
	"block": true, "endblock": true, "macro": true, "endmacro": true,
	"call": true, "endcall": true, "filter": true, "endfilter": true,
	"raw": true, "endraw": true, "autoescape": true, "endautoescape": true,
	"extends": true, "include": true, "import": true, "from": true, "as": true,
	"and": true, "or": true, "not": true, "is": true,
	"true": true, "false": true, "none": true, "True": true, "False": true, "None": true,
	"loop": true, "range": true,
}

// UndeclaredVariables returns the sorted names a template reads from its
// context. Names bound by for and set, attributes, filters, tests and
// keyword arguments are not reported.
func UndeclaredVariables(content string) []string {
	content = commentRe.ReplaceAllString(content, "")

	bound := map[string]bool{}
	used := map[string]bool{}
	for _, m := range tagRe.FindAllStringSubmatch(content, -1) {
		expr := m[1]
		if expr == "" {
			expr = m[2]
		}
		scanExpression(tokenRe.FindAllString(expr, -1), bound, used)
	}

	var names []string
	for name := range used {
		if !bound[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func scanExpression(tokens []string, bound, used map[string]bool) {
	if len(tokens) == 0 {
		return
	}
	switch tokens[0] {
	case "for":
		// for a, b in items
		i := 1
		for ; i < len(tokens) && tokens[i] != "in"; i++ {
			if isName(tokens[i]) {
				bound[tokens[i]] = true
			}
		}
		tokens = tokens[i:]
	case "set", "with":
		// set a = expr; with a = expr, b = expr
		for i := 1; i+1 < len(tokens); i++ {
			if isName(tokens[i]) && tokens[i+1] == "=" && (i == 1 || tokens[i-1] == ",") {
				bound[tokens[i]] = true
			}
		}
	case "macro":
		// macro name(arg, other=default)
		for _, tok := range tokens[1:] {
			if isName(tok) {
				bound[tok] = true
			}
		}
		return
	}

	for i, tok := range tokens {
		if !isName(tok) || templateWords[tok] {
			continue
		}
		if i > 0 && slices.Contains([]string{".", "|", "is"}, tokens[i-1]) {
			continue
		}
		if i > 1 && tokens[i-1] == "not" && tokens[i-2] == "is" {
			continue
		}
		if i+1 < len(tokens) && tokens[i+1] == "=" && i > 0 && (tokens[i-1] == "(" || tokens[i-1] == ",") {
			continue
		}
		used[tok] = true
	}
}

func isName(tok string) bool {
	c := tok[0]
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
