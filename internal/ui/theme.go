package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/pigit-go/internal/git"
)

// Theme holds all colours for the application.
// Catppuccin Mocha based dark palette.
type Theme struct {
	Surface       lipgloss.Color
	SurfaceHover  lipgloss.Color
	Border        lipgloss.Color
	BorderFocused lipgloss.Color

	Text        lipgloss.Color
	TextMuted   lipgloss.Color
	TextSubtle  lipgloss.Color
	TextInverse lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Added     lipgloss.Color
	Modified  lipgloss.Color
	Deleted   lipgloss.Color
	Renamed   lipgloss.Color
	Conflict  lipgloss.Color
	Untracked lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	BranchHead lipgloss.Color
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Surface:       lipgloss.Color("#282840"),
		SurfaceHover:  lipgloss.Color("#313152"),
		Border:        lipgloss.Color("#3b3b5c"),
		BorderFocused: lipgloss.Color("#7c7cf0"),

		Text:        lipgloss.Color("#cdd6f4"),
		TextMuted:   lipgloss.Color("#9399b2"),
		TextSubtle:  lipgloss.Color("#6c7086"),
		TextInverse: lipgloss.Color("#1e1e2e"),

		Primary:   lipgloss.Color("#89b4fa"),
		Secondary: lipgloss.Color("#b4befe"),
		Accent:    lipgloss.Color("#f5c2e7"),

		Added:     lipgloss.Color("#a6e3a1"),
		Modified:  lipgloss.Color("#f9e2af"),
		Deleted:   lipgloss.Color("#f38ba8"),
		Renamed:   lipgloss.Color("#89dceb"),
		Conflict:  lipgloss.Color("#fab387"),
		Untracked: lipgloss.Color("#9399b2"),

		Success: lipgloss.Color("#a6e3a1"),
		Warning: lipgloss.Color("#f9e2af"),
		Error:   lipgloss.Color("#f38ba8"),
		Info:    lipgloss.Color("#89b4fa"),

		BranchHead: lipgloss.Color("#89b4fa"),
	}
}

// Styles holds pre-computed lipgloss styles derived from a Theme.
type Styles struct {
	Theme Theme

	// Layout
	Header lipgloss.Style
	Footer lipgloss.Style

	// Banner
	BannerError lipgloss.Style
	BannerInfo  lipgloss.Style

	// Panels
	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style

	// List items
	SectionTitle lipgloss.Style
	ListItem     lipgloss.Style
	ListCursor   lipgloss.Style
	ListMarked   lipgloss.Style

	// Text
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	KeyBind lipgloss.Style
	KeyDesc lipgloss.Style

	// Git file statuses
	FileAdded     lipgloss.Style
	FileModified  lipgloss.Style
	FileDeleted   lipgloss.Style
	FileRenamed   lipgloss.Style
	FileConflict  lipgloss.Style
	FileUntracked lipgloss.Style
	FileUnknown   lipgloss.Style

	// Diff
	DiffAdded        lipgloss.Style
	DiffRemoved      lipgloss.Style
	DiffContext      lipgloss.Style
	DiffHeader       lipgloss.Style
	DiffHunkHeader   lipgloss.Style
	DiffHunkSelected lipgloss.Style

	// Branches
	BranchCurrent lipgloss.Style
	BranchName    lipgloss.Style
	Sync          lipgloss.Style

	// Dialogs
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
}

// NewStyles builds all styles from the given theme.
func NewStyles(t Theme) Styles {
	s := Styles{Theme: t}

	s.Header = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	s.Footer = lipgloss.NewStyle().Foreground(t.TextSubtle)

	s.BannerError = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	s.BannerInfo = lipgloss.NewStyle().Foreground(t.Info)

	s.Panel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border)
	s.PanelFocused = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderFocused)
	s.PanelTitle = lipgloss.NewStyle().Foreground(t.Text).Bold(true)

	s.SectionTitle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	s.ListItem = lipgloss.NewStyle().Foreground(t.Text)
	s.ListCursor = lipgloss.NewStyle().Foreground(t.Text).Background(t.SurfaceHover).Bold(true)
	s.ListMarked = lipgloss.NewStyle().Foreground(t.Primary)

	s.Title = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	s.Muted = lipgloss.NewStyle().Foreground(t.TextMuted)
	s.Bold = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	s.KeyBind = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	s.KeyDesc = lipgloss.NewStyle().Foreground(t.TextMuted)

	s.FileAdded = lipgloss.NewStyle().Foreground(t.Added)
	s.FileModified = lipgloss.NewStyle().Foreground(t.Modified)
	s.FileDeleted = lipgloss.NewStyle().Foreground(t.Deleted)
	s.FileRenamed = lipgloss.NewStyle().Foreground(t.Renamed)
	s.FileConflict = lipgloss.NewStyle().Foreground(t.Conflict).Bold(true)
	s.FileUntracked = lipgloss.NewStyle().Foreground(t.Untracked)
	s.FileUnknown = lipgloss.NewStyle().Foreground(t.Warning).Italic(true)

	s.DiffAdded = lipgloss.NewStyle().Foreground(t.Added)
	s.DiffRemoved = lipgloss.NewStyle().Foreground(t.Deleted)
	s.DiffContext = lipgloss.NewStyle().Foreground(t.TextMuted)
	s.DiffHeader = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	s.DiffHunkHeader = lipgloss.NewStyle().Foreground(t.Secondary).Italic(true)
	s.DiffHunkSelected = lipgloss.NewStyle().Foreground(t.TextInverse).Background(t.Secondary).Bold(true)

	s.BranchCurrent = lipgloss.NewStyle().Foreground(t.BranchHead).Bold(true)
	s.BranchName = lipgloss.NewStyle().Foreground(t.Text)
	s.Sync = lipgloss.NewStyle().Foreground(t.Warning)

	s.Dialog = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(t.Deleted).Padding(1, 2)
	s.DialogTitle = lipgloss.NewStyle().Foreground(t.Text).Bold(true)

	return s
}

// DefaultStyles returns styles using the dark theme.
func DefaultStyles() Styles {
	return NewStyles(DarkTheme())
}

// StatusStyle picks the colour for a file status code.
func (s Styles) StatusStyle(c git.StatusCode) lipgloss.Style {
	switch c {
	case git.StatusAdded:
		return s.FileAdded
	case git.StatusModified, git.StatusTypeChanged:
		return s.FileModified
	case git.StatusDeleted:
		return s.FileDeleted
	case git.StatusRenamed, git.StatusCopied:
		return s.FileRenamed
	case git.StatusUnmerged:
		return s.FileConflict
	case git.StatusUntracked, git.StatusIgnored:
		return s.FileUntracked
	}
	return s.FileUnknown
}
