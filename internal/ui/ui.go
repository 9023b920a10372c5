package ui

// Basic ANSI color codes used by the logging package.
// Report rendering uses the lipgloss styles from styles.go instead.
const (
	Reset     = "\033[0m"
	FgCyan    = "\033[36m"
	FgGreen   = "\033[32m"
	FgMagenta = "\033[35m"
	FgYellow  = "\033[33m"
	FgRed     = "\033[31m"
)

var noColor bool

// Init toggles raw ANSI output for Color. The CLI disables it when NO_COLOR
// is set.
func Init(disableColor bool) { noColor = disableColor }

// Color wraps a string with the given ANSI code unless color is disabled.
func Color(s string, code string) string {
	if noColor {
		return s
	}
	return code + s + Reset
}
