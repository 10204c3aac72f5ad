package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme defines the color palette for the chrome around the game text. Game
// text itself is colored by presets and highlight rules, not the theme.
type Theme struct {
	Accent  lipgloss.Color // window titles, focus marker
	Muted   lipgloss.Color // dimmed chrome, unfocused titles
	Warning lipgloss.Color // roundtime counter
	Error   lipgloss.Color // disconnect notices
	BarBg   lipgloss.Color // status bar background
}

// DefaultTheme returns the default palette (gruvbox).
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#83a598"),
		Muted:   lipgloss.Color("#928374"),
		Warning: lipgloss.Color("#fabd2f"),
		Error:   lipgloss.Color("#fb4934"),
		BarBg:   lipgloss.Color("#3c3836"),
	}
}

// Styles holds the pre-built lipgloss styles for the chrome.
type Styles struct {
	Theme *Theme

	Title        lipgloss.Style
	TitleFocused lipgloss.Style
	StatusBar    lipgloss.Style
	Roundtime    lipgloss.Style
	Disconnect   lipgloss.Style
	Prompt       lipgloss.Style

	// mono is true on terminals without color support; span rendering
	// degrades to plain text there.
	mono bool
}

// NewStyles builds the chrome styles for a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Styles{
		Theme:        theme,
		Title:        lipgloss.NewStyle().Foreground(theme.Muted),
		TitleFocused: lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		StatusBar:    lipgloss.NewStyle().Background(theme.BarBg),
		Roundtime:    lipgloss.NewStyle().Foreground(theme.Warning).Bold(true),
		Disconnect:   lipgloss.NewStyle().Foreground(theme.Error).Bold(true),
		Prompt:       lipgloss.NewStyle().Foreground(theme.Muted),
		mono:         termenv.ColorProfile() == termenv.Ascii,
	}
}
