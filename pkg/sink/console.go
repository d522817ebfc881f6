package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/winslim/pkg/types"
)

// Console prints progress lines to a terminal using pterm prefixes.
// Colors are dropped when the writer is not a terminal.
type Console struct {
	out     io.Writer
	info    pterm.PrefixPrinter
	warn    pterm.PrefixPrinter
	error   pterm.PrefixPrinter
	output  *pterm.Style
	colored bool
}

// NewConsole creates a console sink writing to out
func NewConsole(out io.Writer) *Console {
	colored := isTerminal(out)
	return &Console{
		out:     out,
		info:    *pterm.Info.WithWriter(out),
		warn:    *pterm.Warning.WithWriter(out),
		error:   *pterm.Error.WithWriter(out),
		output:  pterm.NewStyle(pterm.FgGray),
		colored: colored,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Info implements types.MessageSink
func (c *Console) Info(msg string) {
	if !c.colored {
		fmt.Fprintln(c.out, msg)
		return
	}
	c.info.Println(msg)
}

// Warn implements types.MessageSink
func (c *Console) Warn(msg string) {
	if !c.colored {
		fmt.Fprintln(c.out, "WARNING: "+msg)
		return
	}
	c.warn.Println(msg)
}

// Error implements types.MessageSink
func (c *Console) Error(msg string) {
	if !c.colored {
		fmt.Fprintln(c.out, "ERROR: "+msg)
		return
	}
	c.error.Println(msg)
}

// Output implements types.MessageSink
func (c *Console) Output(line string) {
	if !c.colored {
		fmt.Fprintln(c.out, "  "+line)
		return
	}
	fmt.Fprintln(c.out, "  "+c.output.Sprint(line))
}

var _ types.MessageSink = (*Console)(nil)
