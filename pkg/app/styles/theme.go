package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary    = lipgloss.Color("#4DB6AC")
	Secondary  = lipgloss.Color("#C5A880")
	Success    = lipgloss.Color("#C3E88D")
	Warning    = lipgloss.Color("#FFCB6B")
	Error      = lipgloss.Color("#F07178")
	Info       = lipgloss.Color("#82AAFF")
	Muted      = lipgloss.Color("#546E7A")
	Background = lipgloss.Color("#263238")
	Foreground = lipgloss.Color("#EEFFFF")

	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Selected list row
	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Selected list row while its pane is not focused
	SelectedBlurredStyle = lipgloss.NewStyle().
				Foreground(Secondary)

	// Pane borders
	PaneStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Muted).
			Padding(0, 1)

	FocusedPaneStyle = lipgloss.NewStyle().
				Border(RoundedBorder).
				BorderForeground(Primary).
				Padding(0, 1)

	// Hadith text
	HeadingStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	NarratorStyle = lipgloss.NewStyle().
			Foreground(Info).
			Italic(true)

	ArabicStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Align(lipgloss.Right)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true).
			Underline(true)

	GradeStyle = lipgloss.NewStyle().
			Foreground(Background).
			Background(Secondary).
			Padding(0, 1)

	// Status styles
	StatusBusy = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true)

	StatusCompleted = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning)

	ProgressBarStyle = lipgloss.NewStyle().
				Foreground(Primary)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(Muted)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Background(lipgloss.Color("#37474F")).
			Padding(0, 2).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)
)

// StatusStyle maps an export status to its style.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "fetching", "writing":
		return StatusBusy
	case "complete":
		return StatusCompleted
	case "error":
		return StatusError
	default:
		return MutedStyle
	}
}
