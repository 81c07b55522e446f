package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/pthm/strata/internal/doctor"
)

// Status colors, adaptive to light and dark terminals.
var (
	ColorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	ColorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	ColorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
)

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

// ColorEnabled reports whether stdout should receive ANSI styling.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// StatusSymbol renders a doctor status marker, coloured when enabled.
func StatusSymbol(s doctor.Status) string {
	if !ColorEnabled() {
		return s.Symbol()
	}
	switch s {
	case doctor.StatusPass:
		return PassStyle.Render(s.Symbol())
	case doctor.StatusWarn:
		return WarnStyle.Render(s.Symbol())
	case doctor.StatusFail:
		return FailStyle.Render(s.Symbol())
	default:
		return s.Symbol()
	}
}

// Render applies style when colour is enabled.
func Render(style lipgloss.Style, s string) string {
	if !ColorEnabled() {
		return s
	}
	return style.Render(s)
}
