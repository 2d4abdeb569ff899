package ui

import (
	"github.com/bamsammich/offload/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha palette; ApplyTheme overrides it from the config file.
var (
	ColorAccent = lipgloss.Color("#cba6f7")
	ColorOK     = lipgloss.Color("#a6e3a1")
	ColorWarn   = lipgloss.Color("#f9e2af")
	ColorError  = lipgloss.Color("#f38ba8")
	ColorMuted  = lipgloss.Color("#5a6278")
	ColorBright = lipgloss.Color("#cdd6f4")
)

var (
	styleHeader lipgloss.Style
	styleBorder lipgloss.Style
	styleSize   lipgloss.Style
	stylePath   lipgloss.Style
	styleMuted  lipgloss.Style
	styleOK     lipgloss.Style
	styleWarn   lipgloss.Style
	styleError  lipgloss.Style
	styleState  lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Padding(0, 1)
	styleBorder = lipgloss.NewStyle().Foreground(ColorMuted)
	styleSize = lipgloss.NewStyle().Foreground(ColorBright).Padding(0, 1).Align(lipgloss.Right)
	stylePath = lipgloss.NewStyle().Foreground(ColorBright).Padding(0, 1)
	styleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	styleOK = lipgloss.NewStyle().Foreground(ColorOK).Bold(true)
	styleWarn = lipgloss.NewStyle().Foreground(ColorWarn)
	styleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	styleState = lipgloss.NewStyle().Foreground(ColorAccent)
}

// ApplyTheme overrides colors from the [theme] config section and rebuilds
// every style.
func ApplyTheme(tc config.ThemeConfig) {
	set := func(dst *lipgloss.Color, v *string) {
		if v != nil && *v != "" {
			*dst = lipgloss.Color(*v)
		}
	}
	set(&ColorAccent, tc.Accent)
	set(&ColorOK, tc.OK)
	set(&ColorWarn, tc.Warn)
	set(&ColorError, tc.Error)
	set(&ColorMuted, tc.Muted)
	rebuildStyles()
}
