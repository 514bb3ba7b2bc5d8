// Package console prints the operator-facing status messages of the launcher.
// Output is styled with lipgloss; the renderer is bound to the writer, so colours
// are dropped automatically when stdout is not a terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes status lines to a single writer.
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		info:    r.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("#94e2d5")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#f9e2af")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#a6adc8")),
	}
}

// NewStdout returns a Printer bound to the process stdout.
func NewStdout() *Printer {
	return New(os.Stdout)
}

// Info prints a highlighted informational line.
func (p *Printer) Info(format string, a ...interface{}) {
	p.println(p.info, format, a...)
}

// Success prints a confirmation line.
func (p *Printer) Success(format string, a ...interface{}) {
	p.println(p.success, format, a...)
}

// Warning prints a warning line.
func (p *Printer) Warning(format string, a ...interface{}) {
	p.println(p.warning, format, a...)
}

// Hint prints a de-emphasised line.
func (p *Printer) Hint(format string, a ...interface{}) {
	p.println(p.muted, format, a...)
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w)
}

func (p *Printer) println(style lipgloss.Style, format string, a ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, style.Render(fmt.Sprintf(format, a...)))
}
