package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a color scheme for CLI output. Themes are plain values: callers
// pick one at startup and pass it down, there is no process-wide theme.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary is the main accent color, used for worker names.
	Primary lipgloss.TerminalColor
	// Secondary is used for durations and other less prominent values.
	Secondary lipgloss.TerminalColor
	// Success marks workers that finished cleanly.
	Success lipgloss.TerminalColor
	// Warning marks results worth a second look.
	Warning lipgloss.TerminalColor
	// Error marks failures.
	Error lipgloss.TerminalColor
	// Info is used for configuration values.
	Info lipgloss.TerminalColor
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   lipgloss.Color("39"),
		Secondary: lipgloss.Color("245"),
		Success:   lipgloss.Color("82"),
		Warning:   lipgloss.Color("220"),
		Error:     lipgloss.Color("196"),
		Info:      lipgloss.Color("141"),
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   lipgloss.Color("27"),
		Secondary: lipgloss.Color("240"),
		Success:   lipgloss.Color("28"),
		Warning:   lipgloss.Color("130"),
		Error:     lipgloss.Color("124"),
		Info:      lipgloss.Color("54"),
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color is provided.
	NoColorTheme = Theme{
		Name:      "none",
		Primary:   lipgloss.NoColor{},
		Secondary: lipgloss.NoColor{},
		Success:   lipgloss.NoColor{},
		Warning:   lipgloss.NoColor{},
		Error:     lipgloss.NoColor{},
		Info:      lipgloss.NoColor{},
	}
)

// ThemeByName returns the named theme. Unknown names give DarkTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme
	case "none":
		return NoColorTheme
	default:
		return DarkTheme
	}
}

// DetectTheme picks the theme for this process. It respects the NO_COLOR
// environment variable (https://no-color.org/).
func DetectTheme(noColor bool) Theme {
	if noColor {
		return NoColorTheme
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return NoColorTheme
	}
	return DarkTheme
}

func (t Theme) render(c lipgloss.TerminalColor, s string) string {
	if t.Name == NoColorTheme.Name {
		return s
	}
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

// RenderPrimary renders s in the primary color.
func (t Theme) RenderPrimary(s string) string { return t.render(t.Primary, s) }

// RenderSecondary renders s in the secondary color.
func (t Theme) RenderSecondary(s string) string { return t.render(t.Secondary, s) }

// RenderSuccess renders s in the success color.
func (t Theme) RenderSuccess(s string) string { return t.render(t.Success, s) }

// RenderWarning renders s in the warning color.
func (t Theme) RenderWarning(s string) string { return t.render(t.Warning, s) }

// RenderError renders s in the error color.
func (t Theme) RenderError(s string) string { return t.render(t.Error, s) }

// RenderInfo renders s in the info color.
func (t Theme) RenderInfo(s string) string { return t.render(t.Info, s) }

// RenderHeader renders s bold and underlined.
func (t Theme) RenderHeader(s string) string {
	if t.Name == NoColorTheme.Name {
		return s
	}
	return lipgloss.NewStyle().Bold(true).Underline(true).Render(s)
}
