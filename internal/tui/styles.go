package tui

import "github.com/charmbracelet/lipgloss"

const rosterWidth = 24

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	rosterStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).Width(rosterWidth).PaddingRight(1)
	offlineStyle    = lipgloss.NewStyle().Faint(true)
	emoteStyle      = lipgloss.NewStyle().Italic(true)
)

// speakerStyle colors a name with the player's color when it is a hex value.
func speakerStyle(color string) lipgloss.Style {
	if len(color) == 7 && color[0] == '#' {
		return titleStyle.Foreground(lipgloss.Color(color))
	}
	return titleStyle
}
