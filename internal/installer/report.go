package installer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/mattn/go-isatty"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Reporter writes the installer's progress lines. Every line is written
// whole, so the plain-text form is stable for tests and scripts.
type Reporter struct {
	w     io.Writer
	color bool
}

// NewReporter returns a Reporter writing to w. When color is false no escape
// sequences are emitted.
func NewReporter(w io.Writer, color bool) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w, color: color}
}

// ColorEnabled reports whether styled output should be used for f: the
// caller must want it, NO_COLOR must be unset, and f must be a terminal.
func ColorEnabled(f *os.File, want bool) bool {
	if !want || os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Reporter) println(style lipgloss.Style, msg string) {
	if r.color {
		msg = style.Render(msg)
	}
	fmt.Fprintln(r.w, msg)
}

// Header prints a title underlined with '='.
func (r *Reporter) Header(title string) {
	r.println(headerStyle, title)
	fmt.Fprintln(r.w, strings.Repeat("=", len([]rune(title))))
}

// Line prints an unstyled progress line.
func (r *Reporter) Line(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Blank prints an empty line.
func (r *Reporter) Blank() {
	fmt.Fprintln(r.w)
}

// Success prints a completed step.
func (r *Reporter) Success(format string, args ...any) {
	r.println(successStyle, fmt.Sprintf(format, args...))
}

// Warn prints a diagnostic for a skipped step.
func (r *Reporter) Warn(msg string) {
	r.println(warnStyle, msg)
}

// Error prints a failure line.
func (r *Reporter) Error(format string, args ...any) {
	r.println(errorStyle, fmt.Sprintf(format, args...))
}
