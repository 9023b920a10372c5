package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

// Logger is a tiny opt-in logger used by the pipeline packages.
// When Writer is nil, logging is disabled.
//
// The output format is:
//
//	<ColoredPrefix> scope=<scope> <formattedMessage>\n
//
// where <scope> names the slice of data being processed (a district, a
// dimension, a file) and defaults to "all".
type Logger struct {
	Writer io.Writer

	PrefixText  string
	PrefixColor string

	// OmitScope drops the scope field from every line.
	OmitScope bool
}

func (l *Logger) SetWriter(w io.Writer) { l.Writer = w }

func (l *Logger) Enabled() bool { return l != nil && l.Writer != nil }

func (l *Logger) Logf(scope string, format string, args ...any) {
	if !l.Enabled() {
		return
	}
	prefix := l.PrefixText
	if prefix == "" {
		prefix = "Log:"
	}
	if l.PrefixColor != "" {
		prefix = ui.Color(prefix, l.PrefixColor)
	}
	msg := fmt.Sprintf(format, args...)
	if l.OmitScope {
		fmt.Fprintf(l.Writer, "%s %s\n", prefix, msg)
		return
	}

	s := strings.TrimSpace(scope)
	if s == "" {
		s = "all"
	}
	fmt.Fprintf(l.Writer, "%s scope=%s %s\n", prefix, s, msg)
}
