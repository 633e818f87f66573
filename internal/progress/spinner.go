package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner shows an animated status line while a long call runs.
// On a non-TTY writer it prints only the final status line.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	message string
	sp      *spinner.Spinner
}

// NewSpinner creates a spinner writing to out with the given capabilities.
func NewSpinner(out io.Writer, caps TerminalCapabilities, message string) *Spinner {
	s := &Spinner{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
		message: message,
	}
	if caps.IsTTY {
		s.sp = spinner.New(spinner.CharSets[s.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(out))
		s.sp.Suffix = " " + message
		if caps.SupportsColor {
			_ = s.sp.Color("cyan")
		}
	}
	return s
}

// Start begins the animation. It is a no-op on a non-TTY writer.
func (s *Spinner) Start() {
	if s.sp != nil {
		s.sp.Start()
	}
}

// Succeed stops the spinner and prints a success line.
func (s *Spinner) Succeed(detail string) {
	s.finish(s.symbols.Checkmark, color.FgGreen, detail)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(detail string) {
	s.finish(s.symbols.Failure, color.FgRed, detail)
}

func (s *Spinner) finish(symbol string, attr color.Attribute, detail string) {
	if s.sp != nil {
		s.sp.Stop()
	}

	line := s.message
	if detail != "" {
		line += " (" + detail + ")"
	}

	if s.caps.SupportsColor {
		symbol = color.New(attr, color.Bold).Sprint(symbol)
	}
	fmt.Fprintf(s.out, "%s %s\n", symbol, line)
}
