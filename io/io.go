// Package satchelio owns terminal I/O for satchel applications:
// stream redirection, terminal detection, and color policy.
package satchelio

import (
	stdio "io"
	"os"

	"golang.org/x/term"
)

type colorMode int

const (
	colorAuto colorMode = iota
	colorAlways
	colorNever
)

// IOManager bundles the three standard streams with a color policy.
// The zero value is not usable; construct with New.
type IOManager struct {
	in   stdio.Reader
	out  stdio.Writer
	err  stdio.Writer
	mode colorMode
}

// New creates an IOManager bound to the process streams.
func New() *IOManager {
	return &IOManager{
		in:  os.Stdin,
		out: os.Stdout,
		err: os.Stderr,
	}
}

// WithIn sets the input stream.
func (m *IOManager) WithIn(r stdio.Reader) *IOManager { m.in = r; return m }

// WithOut sets the output stream.
func (m *IOManager) WithOut(w stdio.Writer) *IOManager { m.out = w; return m }

// WithErr sets the error stream.
func (m *IOManager) WithErr(w stdio.Writer) *IOManager { m.err = w; return m }

// ForceColor enables color regardless of terminal detection.
func (m *IOManager) ForceColor() *IOManager { m.mode = colorAlways; return m }

// NoColor disables color unconditionally.
func (m *IOManager) NoColor() *IOManager { m.mode = colorNever; return m }

// ColorAuto restores detection-based color.
func (m *IOManager) ColorAuto() *IOManager { m.mode = colorAuto; return m }

// In returns the input stream.
func (m *IOManager) In() stdio.Reader { return m.in }

// Out returns the output stream.
func (m *IOManager) Out() stdio.Writer { return m.out }

// Err returns the error stream.
func (m *IOManager) Err() stdio.Writer { return m.err }

// IsTTY reports whether the output stream is a terminal.
func (m *IOManager) IsTTY() bool { return isTerminal(m.out) }

// IsInteractive reports whether input comes from a terminal outside CI.
func (m *IOManager) IsInteractive() bool {
	f, ok := m.in.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) && os.Getenv("CI") == ""
}

// IsPiped reports whether input is redirected.
func (m *IOManager) IsPiped() bool {
	f, ok := m.in.(*os.File)
	if !ok {
		return true
	}
	return !term.IsTerminal(int(f.Fd()))
}

// IsRedirected reports whether output goes somewhere other than a
// terminal.
func (m *IOManager) IsRedirected() bool { return !m.IsTTY() }

// Width returns the terminal width, or 80 when unknown.
func (m *IOManager) Width() int {
	if f, ok := m.out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// SupportsColor applies the color policy: forced modes win, otherwise
// color requires a terminal and respects NO_COLOR and TERM=dumb.
func (m *IOManager) SupportsColor() bool {
	switch m.mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return m.IsTTY()
}

func isTerminal(w stdio.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
