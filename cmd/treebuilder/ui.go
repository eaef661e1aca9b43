package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ui prints status lines for the CLI.
type ui struct {
	w       io.Writer
	success lipgloss.Style
	warning lipgloss.Style
	dim     lipgloss.Style
}

func newUI(w io.Writer, color bool) *ui {
	if !color {
		plain := lipgloss.NewStyle()
		return &ui{w: w, success: plain, warning: plain, dim: plain}
	}
	return &ui{
		w:       w,
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Success prints a success message.
func (u *ui) Success(format string, args ...any) {
	fmt.Fprintf(u.w, "%s %s\n", u.success.Render("✓"), fmt.Sprintf(format, args...))
}

// Warn prints a warning message.
func (u *ui) Warn(format string, args ...any) {
	fmt.Fprintf(u.w, "%s %s\n", u.warning.Render("⚠"), fmt.Sprintf(format, args...))
}

// Info prints an indented secondary line.
func (u *ui) Info(format string, args ...any) {
	fmt.Fprintf(u.w, "  %s\n", u.dim.Render(fmt.Sprintf(format, args...)))
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
