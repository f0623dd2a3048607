// Package console wraps terminal line input and output for the chat loop.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/compresr/turnchat/internal/stream"
)

// ANSI sequences, used only when output is a terminal.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[0;31m"
	colorDim   = "\033[2m"
)

// Console reads prompted lines and writes chat output.
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	color bool
}

// New returns a Console over in and out. Colour is enabled when out is a
// terminal and NO_COLOR is unset.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:    bufio.NewReader(in),
		out:   out,
		color: isTerminal(out) && os.Getenv("NO_COLOR") == "",
	}
}

// Stdio returns a Console over the process's standard streams.
func Stdio() *Console {
	return New(os.Stdin, os.Stdout)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether output goes to a terminal.
func (c *Console) Interactive() bool {
	return isTerminal(c.out)
}

// Out returns the output writer; streamed text is written to it directly.
func (c *Console) Out() io.Writer {
	return c.out
}

// ReadLine writes prompt and reads one line without its line ending.
// A final line without a newline is returned before io.EOF.
func (c *Console) ReadLine(prompt string) (string, error) {
	_, _ = io.WriteString(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Println writes a line of output.
func (c *Console) Println(a ...any) {
	_, _ = fmt.Fprintln(c.out, a...)
}

// Printf writes formatted output.
func (c *Console) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.out, format, a...)
}

// Notice writes a dimmed status line.
func (c *Console) Notice(msg string) {
	if c.color {
		_, _ = fmt.Fprintf(c.out, "%s%s%s\n", colorDim, msg, colorReset)
		return
	}
	_, _ = fmt.Fprintln(c.out, msg)
}

// ErrorStyle returns the inline error decoration for streamed output.
func (c *Console) ErrorStyle() stream.Style {
	if !c.color {
		return stream.Style{}
	}
	return stream.Style{ErrorPrefix: colorRed, ErrorSuffix: colorReset}
}
