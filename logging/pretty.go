package logging

import (
	"fmt"
	"io"

	"github.com/eminiarts/tweakpine/tui/theme"
)

// Reporter prints the user-facing result lines of CLI commands. Diagnostics
// go through the structured loggers instead.
type Reporter struct {
	w io.Writer
}

// NewReporter writes result lines to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Success prints a completed step.
func (r *Reporter) Success(format string, args ...interface{}) {
	t := theme.DefaultTheme
	fmt.Fprintf(r.w, "%s %s\n", t.Success.Render(theme.IconSuccess), fmt.Sprintf(format, args...))
}

// Item prints a line led by icon.
func (r *Reporter) Item(icon, format string, args ...interface{}) {
	fmt.Fprintf(r.w, "%s %s\n", theme.DefaultTheme.Accent.Render(icon), fmt.Sprintf(format, args...))
}

// Failure prints subject with the error that stopped it.
func (r *Reporter) Failure(subject string, err error) {
	t := theme.DefaultTheme
	fmt.Fprintf(r.w, "%s %s: %s\n", t.Error.Render(theme.IconError), subject, t.Error.Render(err.Error()))
}

// Field prints an indented key-value pair.
func (r *Reporter) Field(key string, value interface{}) {
	t := theme.DefaultTheme
	fmt.Fprintf(r.w, "  %s %s\n", t.Muted.Render(key+":"), fmt.Sprint(value))
}
