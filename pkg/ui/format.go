// Package ui holds output format selection and terminal styling.
package ui

import (
	"os"
	"strings"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format is the value of the --format flag
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText from the output stream
	FormatAuto Format = iota
	// FormatTerminal renders deploy and verify results as styled tables
	FormatTerminal
	// FormatText writes one line per entry with no styling
	FormatText
	// FormatJSON writes a single JSON envelope per command
	FormatJSON
)

// formatNames lists the canonical flag values in completion order
var formatNames = []struct {
	format  Format
	name    string
	aliases []string
}{
	{FormatAuto, "auto", []string{""}},
	{FormatTerminal, "term", []string{"terminal"}},
	{FormatText, "text", []string{"plain"}},
	{FormatJSON, "json", nil},
}

// Names returns the canonical --format values
func Names() []string {
	names := make([]string, len(formatNames))
	for i, n := range formatNames {
		names[i] = n.name
	}
	return names
}

func (f Format) String() string {
	for _, n := range formatNames {
		if n.format == f {
			return n.name
		}
	}
	return "unknown"
}

// ParseFormat reads a --format value. Matching ignores case, and an empty
// value means auto.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, n := range formatNames {
		if s == n.name {
			return n.format, nil
		}
		for _, alias := range n.aliases {
			if s == alias {
				return n.format, nil
			}
		}
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format %q (want %s)", s, strings.Join(Names(), ", ")).
		WithDetail("format", s)
}

// Resolve settles FormatAuto for output. Explicit formats pass through.
func Resolve(f Format, output *os.File) Format {
	if f != FormatAuto {
		return f
	}
	return DetectFormat(output)
}

// DetectFormat returns FormatTerminal only when output is a terminal that
// can show colors and NO_COLOR is unset.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
