package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorMode controls whether status words and banners are colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const (
	FailureBanner = "Setup Failed"
	SuccessBanner = "Finished all setup process successfully"
)

var (
	terminalOnce    sync.Once
	restoreTerminal = func() error { return nil }
	terminalErr     error
)

// InitTerminal enables ANSI processing for the process stdout once. It is a
// no-op outside Windows and when mode is ColorNever. The returned function
// restores the console state and is safe to call more than once.
func InitTerminal(mode ColorMode) (func() error, error) {
	if mode == ColorNever {
		return func() error { return nil }, nil
	}
	terminalOnce.Do(func() {
		restore, err := termenv.EnableVirtualTerminalProcessing(termenv.NewOutput(os.Stdout))
		if restore != nil {
			restoreTerminal = restore
		}
		terminalErr = err
	})
	return restoreTerminal, terminalErr
}

// Printer writes operator-facing lines. Styling is bound to its own renderer
// so nothing here mutates lipgloss globals.
type Printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	good     lipgloss.Style
	bad      lipgloss.Style
}

func NewPrinter(out io.Writer, mode ColorMode) *Printer {
	if out == nil {
		out = os.Stdout
	}

	renderer := lipgloss.NewRenderer(out)
	switch mode {
	case ColorAlways:
		renderer.SetColorProfile(termenv.ANSI)
	case ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		out:      out,
		renderer: renderer,
		good:     renderer.NewStyle().Foreground(lipgloss.Color("2")),
		bad:      renderer.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

func (p *Printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.out, format, a...)
}

// Good renders s in the success color.
func (p *Printer) Good(s string) string {
	return p.good.Render(s)
}

// Bad renders s in the failure color.
func (p *Printer) Bad(s string) string {
	return p.bad.Render(s)
}

// Check prints "<label> ... OK" or "<label> ... NG".
func (p *Printer) Check(label string, ok bool) {
	status := p.Good("OK")
	if !ok {
		status = p.Bad("NG")
	}
	fmt.Fprintf(p.out, "%s ... %s\n", label, status)
}

// Failure prints the reason followed by the failure banner.
func (p *Printer) Failure(reason string) {
	if reason != "" {
		fmt.Fprintln(p.out, reason)
	}
	fmt.Fprintln(p.out, p.Bad(FailureBanner))
}

func (p *Printer) Success() {
	fmt.Fprintln(p.out, p.Good(SuccessBanner))
}
