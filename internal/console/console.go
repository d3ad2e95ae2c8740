// Package console renders user facing status lines on a terminal stream,
// separate from the structured logs.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("32"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("31"))
)

type Printer struct {
	stream io.Writer
	indent string
}

// NewPrinter creates a new Printer writing to the given stream.
func NewPrinter(stream io.Writer) *Printer {

	os.Setenv("CLICOLOR_FORCE", "1")

	return &Printer{
		stream: stream,
		indent: "  ",
	}
}

func (p *Printer) Info(emoji string, format string, a ...any) (n int, err error) {
	return fmt.Fprintf(p.stream, p.prefix(emoji)+format+"\n", a...)
}

func (p *Printer) Success(emoji string, format string, a ...any) (n int, err error) {
	return p.styled(successStyle, emoji, format, a...)
}

func (p *Printer) Warn(emoji string, format string, a ...any) (n int, err error) {
	return p.styled(warnStyle, emoji, format, a...)
}

func (p *Printer) Error(emoji string, format string, a ...any) (n int, err error) {
	return p.styled(errorStyle, emoji, format, a...)
}

func (p *Printer) styled(style lipgloss.Style, emoji string, format string, a ...any) (n int, err error) {
	return fmt.Fprintln(p.stream, style.Render(fmt.Sprintf(p.prefix(emoji)+format, a...)))
}

func (p *Printer) prefix(emoji string) string {
	if emoji == "" {
		return p.indent
	}
	return p.indent + emoji + " "
}
