package deactivate

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/raphi011/pre-commit-vauxoo/internal/cmd"
	"github.com/raphi011/pre-commit-vauxoo/internal/runerr"
)

// DefaultECPG is the embedded SQL preprocessor used for syntax checks.
const DefaultECPG = "ecpg"

// SQLChecker validates the syntax of a block of SQL statements.
//
// CheckSQL returns an empty message for valid SQL and the checker's
// diagnostic otherwise. The error is set only when the check itself could
// not run.
type SQLChecker interface {
	CheckSQL(ctx context.Context, sql string) (msg string, err error)
}

// SQLCheckerFunc adapts a function to SQLChecker.
type SQLCheckerFunc func(ctx context.Context, sql string) (string, error)

// CheckSQL calls f.
func (f SQLCheckerFunc) CheckSQL(ctx context.Context, sql string) (string, error) {
	return f(ctx, sql)
}

// ECPG checks SQL by running it through the PostgreSQL embedded SQL
// preprocessor. Anything ecpg writes to stderr is a syntax problem.
type ECPG struct {
	// Bin is the ecpg executable; empty means DefaultECPG from PATH.
	Bin string
}

// CheckSQL implements SQLChecker.
func (e ECPG) CheckSQL(ctx context.Context, sql string) (string, error) {
	bin := e.Bin
	if bin == "" {
		bin = DefaultECPG
	}

	var stdout, stderr bytes.Buffer
	status, err := cmd.StatusInputContext(ctx, "", strings.NewReader(prepareSQL(sql)), &stdout, &stderr, bin, "-o", "-", "-")
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", runerr.ToolInvocation(fmt.Sprintf("cannot run %s, %s", bin, InstallHint(runtime.GOOS)), err)
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return msg, nil
	}
	if status != 0 {
		return fmt.Sprintf("%s exited with status %d", bin, status), nil
	}
	return "", nil
}

// InstallHint tells how to get ecpg on goos.
func InstallHint(goos string) string {
	switch goos {
	case "darwin":
		return "'brew install postgresql'"
	case "linux", "freebsd", "openbsd", "netbsd":
		return "'apt install -y libecpg-dev'"
	default:
		return "Install postgresql and add to PATH the PGBIN folder"
	}
}

var ecpgErrorRe = regexp.MustCompile(`^[^:\n]*:(\d+): (.+)`)

// splitSQLError extracts the line number and message from the first line of
// an ecpg diagnostic such as "stdin:3: ERROR: syntax error at or near ...".
// line is 0 when msg has no location.
func splitSQLError(msg string) (line int, text string) {
	first, _, _ := strings.Cut(msg, "\n")
	m := ecpgErrorRe.FindStringSubmatch(first)
	if m == nil {
		return 0, msg
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, msg
	}
	return n, m[2]
}

// prepareSQL turns plain SQL into an ecpg input file: every statement gets
// an "EXEC SQL" prefix and comments between statements become C++ comments.
// Newlines are kept so ecpg line numbers match the input.
func prepareSQL(sql string) string {
	var b strings.Builder
	inStmt := false
	begin := func() {
		if !inStmt {
			b.WriteString("EXEC SQL ")
			inStmt = true
		}
	}

	for i := 0; i < len(sql); {
		rest := sql[i:]
		switch {
		case strings.HasPrefix(rest, "--"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			if inStmt {
				b.WriteString(rest[:end])
			} else {
				b.WriteString("//" + rest[2:end])
			}
			i += end
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				b.WriteString(rest)
				i = len(sql)
				continue
			}
			b.WriteString(rest[:end+4])
			i += end + 4
		case rest[0] == '\'' || rest[0] == '"':
			begin()
			end := quoteEnd(rest)
			b.WriteString(rest[:end])
			i += end
		case rest[0] == ';':
			b.WriteByte(';')
			inStmt = false
			i++
		default:
			if !isSpace(rest[0]) {
				begin()
			}
			b.WriteByte(rest[0])
			i++
		}
	}
	return b.String()
}

// quoteEnd returns the index just past the quoted string s starts with.
// A doubled quote character is an escaped quote.
func quoteEnd(s string) int {
	q := s[0]
	for j := 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
