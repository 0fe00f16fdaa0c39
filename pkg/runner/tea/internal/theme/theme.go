package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the box browser.
type Theme struct {
	Grid   GridTheme
	Footer FooterTheme
}

// GridTheme styles the box header and its cells.
type GridTheme struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Caught      lipgloss.Style
	Missing     lipgloss.Style
	Placeholder lipgloss.Style
	Cursor      lipgloss.Style
	Match       lipgloss.Style
	Frame       lipgloss.Style
}

// FooterTheme groups styles used by the bottom status and search bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Detail lipgloss.Style
	Prompt lipgloss.Style
}

// Default returns the built-in theme.
func Default() Theme {
	caught := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	return Theme{
		Grid: GridTheme{
			Title:       lipgloss.NewStyle().Bold(true).Underline(true),
			Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Caught:      caught,
			Missing:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
			Cursor:      lipgloss.NewStyle().Reverse(true),
			Match:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Underline(true),
			Frame:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Detail: lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
			Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
	}
}
