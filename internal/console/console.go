// Package console reads prompted lines from an input stream and writes
// human-readable output.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Console pairs a buffered line reader with an output writer.
type Console struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // terminal descriptor for no-echo reads, -1 otherwise
}

func New(in io.Reader, out io.Writer) *Console {
	c := &Console{
		in:  bufio.NewReader(in),
		out: out,
		fd:  -1,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.fd = int(f.Fd())
	}
	return c
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// ReadLine writes prompt and returns the next line without its line ending.
// A final line without a trailing newline is returned with a nil error;
// io.EOF is returned only when nothing was left to read.
func (c *Console) ReadLine(prompt string) (string, error) {
	c.Printf("%s", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimEOL(line), nil
		}
		return "", err
	}
	return trimEOL(line), nil
}

// ReadSecret is ReadLine without echo when the input is a terminal.
func (c *Console) ReadSecret(prompt string) (string, error) {
	if c.fd < 0 || c.in.Buffered() > 0 {
		return c.ReadLine(prompt)
	}
	c.Printf("%s", prompt)
	b, err := term.ReadPassword(c.fd)
	c.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
