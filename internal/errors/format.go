package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette renders the parts of a formatted error.
type palette struct {
	label, message, category, usage, usageText, fix, bullet func(a ...any) string
}

var (
	colored = palette{
		label:     color.New(color.FgRed, color.Bold).SprintFunc(),
		message:   color.New(color.FgRed).SprintFunc(),
		category:  color.New(color.FgYellow).SprintFunc(),
		usage:     color.New(color.FgCyan, color.Bold).SprintFunc(),
		usageText: color.New(color.FgCyan).SprintFunc(),
		fix:       color.New(color.FgGreen, color.Bold).SprintFunc(),
		bullet:    color.New(color.FgGreen).SprintFunc(),
	}
	plain = palette{
		label: fmt.Sprint, message: fmt.Sprint, category: fmt.Sprint,
		usage: fmt.Sprint, usageText: fmt.Sprint, fix: fmt.Sprint, bullet: fmt.Sprint,
	}
)

// FormatError formats a CLIError for the terminal. Colors follow
// fatih/color's detection and are dropped when output is not a terminal.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return err.format(colored)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return err.format(plain)
}

func (e *CLIError) format(p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(e.Category.String()), p.message(e.Message))

	if e.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usage("Usage: "), p.usageText(e.Usage))
	}

	if len(e.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range e.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FprintSimpleError prints a plain error to w as a CLIError of the given category.
func FprintSimpleError(w io.Writer, err error, category ErrorCategory) {
	if err == nil {
		return
	}
	FprintError(w, &CLIError{Category: category, Message: err.Error()})
}
