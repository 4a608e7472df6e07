package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	forceColor   bool
	disableColor bool

	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func colorEnabled() bool {
	if disableColor || current.Name == "mono" {
		return false
	}
	if forceColor {
		return true
	}
	f, ok := Stdout.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// C renders s with style when colour output is enabled.
func C(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}

func OK(msg string)   { fmt.Fprintln(Stdout, C(current.Success, current.SymOK+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(Stderr, C(current.Error, current.SymFail+" "+msg)) }

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	fmt.Fprintln(Stdout, PanelString(strings.Join(lines, "\n")))
}

func PanelString(inner string) string {
	style := lipgloss.NewStyle().Border(current.Border).Padding(0, 1)
	if colorEnabled() {
		style = style.BorderForeground(current.BorderColor)
	}
	return style.Render(inner)
}
