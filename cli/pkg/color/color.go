// Package color provides minimal ANSI terminal colors for CLI output.
package color

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ANSI color codes
const (
	reset = "\033[0m"

	// Foreground colors
	FgRed     = 31
	FgGreen   = 32
	FgYellow  = 33
	FgMagenta = 35
	FgCyan    = 36

	// Attributes
	Bold = 1
	Dim  = 2
)

// Color represents a text color configuration.
type Color struct {
	params []int
}

// New creates a new Color with the given attributes.
func New(attrs ...int) *Color {
	return &Color{params: attrs}
}

// format returns the ANSI escape sequence for this color. Colors are
// suppressed when NO_COLOR is set.
func (c *Color) format() string {
	if len(c.params) == 0 || os.Getenv("NO_COLOR") != "" {
		return ""
	}
	parts := make([]string, len(c.params))
	for i, param := range c.params {
		parts[i] = strconv.Itoa(param)
	}
	return "\033[" + strings.Join(parts, ";") + "m"
}

// Printf prints formatted colored text to stdout.
func (c *Color) Printf(format string, a ...interface{}) {
	c.Fprintf(os.Stdout, format, a...)
}

// Fprintf prints formatted colored text to the given writer.
func (c *Color) Fprintf(w io.Writer, format string, a ...interface{}) {
	seq := c.format()
	if seq == "" {
		fmt.Fprintf(w, format, a...)
		return
	}
	fmt.Fprintf(w, seq+format+reset, a...)
}

// Sprint returns the colored string.
func (c *Color) Sprint(a ...interface{}) string {
	seq := c.format()
	if seq == "" {
		return fmt.Sprint(a...)
	}
	return seq + fmt.Sprint(a...) + reset
}
