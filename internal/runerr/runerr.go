// Package runerr defines the stop-the-run error kinds.
//
// Only filesystem, version control and process-launch problems become errors.
// A hook stage that exits non-zero is a result, not an error, and never
// reaches this package.
package runerr

import "errors"

// Kind classifies a fatal run error.
type Kind int

const (
	// KindUsage means the invocation cannot proceed: not inside a repository,
	// no files in an explicitly scoped run, invalid option values.
	KindUsage Kind = iota + 1
	// KindToolInvocation means a subprocess could not be started.
	KindToolInvocation
	// KindConfigWrite means a template could not be read or a destination written.
	KindConfigWrite
)

// String returns the kind name used in messages.
func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage error"
	case KindToolInvocation:
		return "tool invocation error"
	case KindConfigWrite:
		return "config write error"
	default:
		return "error"
	}
}

// Error holds a user-facing message, its kind and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error returns the message followed by the cause, if any.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Usage returns a KindUsage error.
func Usage(msg string, err error) error {
	return &Error{Kind: KindUsage, Msg: msg, Err: err}
}

// ToolInvocation returns a KindToolInvocation error.
func ToolInvocation(msg string, err error) error {
	return &Error{Kind: KindToolInvocation, Msg: msg, Err: err}
}

// ConfigWrite returns a KindConfigWrite error for path.
func ConfigWrite(path string, err error) error {
	return &Error{Kind: KindConfigWrite, Msg: "cannot materialize " + path, Err: err}
}

// IsKind reports whether err, or any error it wraps, is a run error of kind k.
func IsKind(err error, k Kind) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind == k
	}
	return false
}
