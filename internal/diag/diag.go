// Package diag collects and renders type-checking diagnostics.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/lynx/internal/ast"
)

// Diagnostic is one reported type-checking problem.
type Diagnostic struct {
	Pos     ast.Position
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

// Bag accumulates diagnostics during one checking session.
type Bag struct {
	list []Diagnostic
}

// Addf records a diagnostic at pos.
func (b *Bag) Addf(pos ast.Position, format string, args ...any) {
	b.list = append(b.list, Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// All returns the recorded diagnostics in report order.
func (b *Bag) All() []Diagnostic { return b.list }

// Len reports how many diagnostics were recorded.
func (b *Bag) Len() int { return len(b.list) }

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// Printer renders diagnostics to a writer, with ANSI color when the
// writer is a terminal and NO_COLOR is unset.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a printer for w.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{w: w}
	if f, ok := w.(*os.File); ok {
		if _, noColor := os.LookupEnv("NO_COLOR"); !noColor {
			p.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return p
}

// Print renders every diagnostic in the bag, one per line.
func (p *Printer) Print(b *Bag) {
	for _, d := range b.All() {
		if p.color {
			fmt.Fprintf(p.w, "%serror%s %s%s%s: %s\n", ansiRed, ansiReset, ansiBold, d.Pos, ansiReset, d.Message)
		} else {
			fmt.Fprintf(p.w, "error %s: %s\n", d.Pos, d.Message)
		}
	}
}
