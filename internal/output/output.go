// Package output prints the human-facing side of the toolpin CLI: task outcomes,
// the toolchain summary, tables and help screens. Diagnostics go through slog
// instead; see internal/logging.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI escape sequences.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// Styles used by the help screens.
const (
	styleTitle       = bold + cyan
	styleSection     = bold + yellow
	styleCommand     = bold + cyan
	stylePlaceholder = green
	styleFlag        = yellow
	styleText        = dim
	styleExample     = cyan
	styleEnvVar      = yellow
)

// Writer prints to a stdout and a stderr stream. Color is decided once, at
// construction; quiet suppresses progress lines and verbose enables Debug.
type Writer struct {
	out     io.Writer
	err     io.Writer
	color   bool
	quiet   bool
	verbose bool
}

// New writes to the process streams, with color when stdout is a terminal.
func New() *Writer {
	return &Writer{out: os.Stdout, err: os.Stderr, color: stdoutIsTerminal()}
}

// NewWithWriters writes to the given streams.
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{out: out, err: err, color: color}
}

func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// SetQuiet toggles quiet mode.
func (w *Writer) SetQuiet(quiet bool) { w.quiet = quiet }

// SetVerbose toggles verbose mode.
func (w *Writer) SetVerbose(verbose bool) { w.verbose = verbose }

// Stderr is the stream slog handlers should write to.
func (w *Writer) Stderr() io.Writer { return w.err }

// paint wraps s in style when color is on.
func (w *Writer) paint(style, s string) string {
	if !w.color || style == "" {
		return s
	}
	return style + s + reset
}

// Print writes a formatted string to stdout.
func (w *Writer) Print(format string, args ...any) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a formatted line to stdout.
func (w *Writer) Println(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

func (w *Writer) errorln(format string, args ...any) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Info prints a line unless quiet.
func (w *Writer) Info(format string, args ...any) {
	if !w.quiet {
		w.Println(format, args...)
	}
}

// Debug prints a dimmed line in verbose mode only.
func (w *Writer) Debug(format string, args ...any) {
	if w.verbose {
		w.Println("%s", w.paint(dim, fmt.Sprintf(format, args...)))
	}
}

// TaskSucceeded prints "[task] detail done", or a green check mark in color.
func (w *Writer) TaskSucceeded(task, detail string) {
	if w.quiet {
		return
	}
	if w.color {
		w.Println("%s %s %s", w.paint(green, "["+task+"]"), detail, w.paint(green, "✓"))
		return
	}
	w.Println("[%s] %s done", task, detail)
}

// TaskFailed prints the task's error to stderr, even in quiet mode.
func (w *Writer) TaskFailed(task string, err error) {
	w.errorln("%s %v", w.paint(red, "["+task+"] failed:"), err)
}

// TaskSkipped prints why a task did not run.
func (w *Writer) TaskSkipped(task, reason string) {
	if !w.quiet {
		w.Println("%s", w.paint(dim, fmt.Sprintf("[%s] skipped: %s", task, reason)))
	}
}

// Table prints left-aligned columns separated by two spaces, with a dashed rule
// under the header. Cells beyond the header count are dropped.
func (w *Writer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], len(row[i]))
		}
	}

	line := func(cells []string) string {
		var b strings.Builder
		for i := 0; i < len(cells) && i < len(widths); i++ {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], cells[i])
		}
		return strings.TrimRight(b.String(), " ")
	}

	rule := make([]string, len(widths))
	for i, n := range widths {
		rule[i] = strings.Repeat("-", n)
	}

	w.Println("%s", line(headers))
	w.Println("%s", line(rule))
	for _, row := range rows {
		w.Println("%s", line(row))
	}
}

// HelpTitle prints the first line of a help screen.
func (w *Writer) HelpTitle(title string) {
	w.Println("%s", w.paint(styleTitle, title))
}

// HelpSection prints a blank line and a section heading.
func (w *Writer) HelpSection(title string) {
	w.Println("")
	w.Println("%s", w.paint(styleSection, title))
}

// HelpCommand prints a command name padded to width and its description.
func (w *Writer) HelpCommand(name, description string, width int) {
	w.helpRow(styleCommand, name, description, width)
}

// HelpFlag prints a flag padded to width and its description.
func (w *Writer) HelpFlag(name, description string, width int) {
	w.helpRow(styleFlag, name, description, width)
}

// HelpEnvVar prints an environment variable padded to width and its description.
func (w *Writer) HelpEnvVar(name, description string, width int) {
	w.helpRow(styleEnvVar, name, description, width)
}

func (w *Writer) helpRow(style, name, description string, width int) {
	if !w.color {
		w.Println("  %-*s  %s", width, name, description)
		return
	}
	pad := strings.Repeat(" ", max(width-len(name), 0))
	w.Println("  %s%s  %s", w.paint(style, w.highlightPlaceholders(name, style)), pad, w.paint(styleText, description))
}

// HelpExample prints an example invocation with an optional indented explanation.
func (w *Writer) HelpExample(command, description string) {
	w.Println("  %s", w.paint(styleExample, command))
	if description != "" {
		w.Println("      %s", w.paint(styleText, description))
	}
}

// HelpUsage prints a usage line with its <placeholders> highlighted.
func (w *Writer) HelpUsage(usage string) {
	w.Println("  %s", w.highlightPlaceholders(usage, ""))
}

// highlightPlaceholders colors every <placeholder> in text and resumes style
// after it. It returns text unchanged without color.
func (w *Writer) highlightPlaceholders(text, style string) string {
	if !w.color {
		return text
	}
	var b strings.Builder
	for {
		start := strings.IndexByte(text, '<')
		if start < 0 {
			break
		}
		end := strings.IndexByte(text[start:], '>')
		if end < 0 {
			break
		}
		end += start + 1
		b.WriteString(text[:start])
		b.WriteString(reset + stylePlaceholder + text[start:end] + reset + style)
		text = text[end:]
	}
	b.WriteString(text)
	return b.String()
}

// ErrorPrefix prints "toolpin: <message>" to stderr.
func (w *Writer) ErrorPrefix(format string, args ...any) {
	w.errorln("%s %s", w.paint(red, "toolpin:"), fmt.Sprintf(format, args...))
}

// WarningSimple prints "warning: <message>" to stderr.
func (w *Writer) WarningSimple(format string, args ...any) {
	w.errorln("%s %s", w.paint(yellow, "warning:"), fmt.Sprintf(format, args...))
}

// SummaryHeader prints "=== title ===" framed by blank lines.
func (w *Writer) SummaryHeader(title string) {
	w.Println("")
	w.Println("%s", w.paint(bold+cyan, "=== "+title+" ==="))
	w.Println("")
}

// SummaryItem prints an indented "label: value" line, such as a toolchain report.
func (w *Writer) SummaryItem(label, value string) {
	w.Println("  %s %s", w.paint(dim, label+":"), value)
}

// FinalSuccess prints the closing line of a successful run.
func (w *Writer) FinalSuccess(format string, args ...any) {
	w.Println("")
	w.Println("%s", w.paint(green, fmt.Sprintf(format, args...)))
}

// FinalFailure prints the closing line of a failed run.
func (w *Writer) FinalFailure(format string, args ...any) {
	w.Println("")
	w.Println("%s", w.paint(red, fmt.Sprintf(format, args...)))
}

// ValidationSuccess prints a confirmation, prefixed with a check mark in color.
func (w *Writer) ValidationSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		msg = w.paint(green, "✓") + " " + msg
	}
	w.Println("%s", msg)
}

// Hint prints a dimmed suggestion.
func (w *Writer) Hint(format string, args ...any) {
	w.Println("%s", w.paint(dim, fmt.Sprintf(format, args...)))
}
