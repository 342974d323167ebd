package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

const spinnerInterval = 100 * time.Millisecond

// Display reports the outcome of slow steps. On a TTY a spinner runs while
// the step is in progress; elsewhere only the outcome line is written.
type Display struct {
	caps    TerminalCapabilities
	symbols ProgressSymbols
	w       io.Writer
}

// NewDisplay returns a display writing to w.
func NewDisplay(caps TerminalCapabilities, w io.Writer) *Display {
	return &Display{caps: caps, symbols: SelectSymbols(caps), w: w}
}

// Step runs fn under message and reports whether it succeeded. fn's error is
// returned unchanged.
func (d *Display) Step(message string, fn func() error) error {
	var s *spinner.Spinner
	if d.caps.IsTTY {
		s = spinner.New(spinner.CharSets[d.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(d.w))
		s.Suffix = " " + message
		s.Start()
	}

	err := fn()

	if s != nil {
		s.Stop()
	}
	d.result(message, err == nil)
	return err
}

func (d *Display) result(message string, ok bool) {
	mark, c := d.symbols.Checkmark, color.New(color.FgGreen)
	if !ok {
		mark, c = d.symbols.Failure, color.New(color.FgRed)
	}
	if d.caps.SupportsColor {
		mark = c.Sprint(mark)
	}
	fmt.Fprintf(d.w, "%s %s\n", mark, message)
}
