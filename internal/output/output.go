// Package output provides context-aware output for pre-commit-vauxoo.
// Stdout is used for primary data output (summary tables, stage lists).
// Stderr (via log package) is used for diagnostics.
package output

import (
	"context"
	"fmt"
	"io"
	"os"
)

type ctxKey struct{}

// Printer writes primary output (summary tables, stage lists) to stdout.
type Printer struct {
	w      io.Writer
	styled bool
}

// New creates a new Printer writing to the given writer.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter attaches a Printer to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, &Printer{w: w})
}

// WithStyledPrinter attaches a Printer that reports whether its writer
// renders ANSI styles.
func WithStyledPrinter(ctx context.Context, w io.Writer, styled bool) context.Context {
	return context.WithValue(ctx, ctxKey{}, &Printer{w: w, styled: styled})
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return &Printer{w: os.Stdout}
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Styled reports whether styled output reaches a color capable terminal.
func (p *Printer) Styled() bool {
	return p.styled
}
