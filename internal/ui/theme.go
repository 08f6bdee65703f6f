package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
)

const DefaultThemeName = model.DefaultTheme

// Chart segment colors.
var (
	completedColor  = lipgloss.Color("#28a745")
	incompleteColor = lipgloss.Color("#ffc107")
)

// Theme bundles palette + symbols + borders for one color scheme.
type Theme struct {
	Name model.Theme

	Title, Muted, Accent, Success, Pending, Error lipgloss.Style
	Done, Selected, Help                          lipgloss.Style

	BorderColor, ErrorColor  lipgloss.Color
	BoxUnchecked, BoxChecked string

	ChartCompleted, ChartIncomplete, ChartEmpty lipgloss.Style

	r *lipgloss.Renderer
}

// NewTheme builds the styles for name on renderer r. A nil renderer means
// the lipgloss default.
func NewTheme(name model.Theme, r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	st := r.NewStyle
	t := Theme{
		Name:         name,
		BoxUnchecked: "☐",
		BoxChecked:   "☑",
		r:            r,
	}
	switch name {
	case model.ThemeLight:
		t.Title = st().Bold(true).Foreground(lipgloss.Color("235"))
		t.Muted = st().Foreground(lipgloss.Color("244"))
		t.Accent = st().Foreground(lipgloss.Color("25"))
		t.Success = st().Foreground(lipgloss.Color("28"))
		t.Pending = st().Foreground(lipgloss.Color("130"))
		t.ErrorColor = lipgloss.Color("124")
		t.BorderColor = lipgloss.Color("250")
		t.Selected = st().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("25"))
	default:
		t.Name = model.ThemeDark
		t.Title = st().Bold(true)
		t.Muted = st().Faint(true)
		t.Accent = st().Foreground(lipgloss.Color("12"))
		t.Success = st().Foreground(lipgloss.Color("42"))
		t.Pending = st().Foreground(lipgloss.Color("214"))
		t.ErrorColor = lipgloss.Color("9")
		t.BorderColor = lipgloss.Color("8")
		t.Selected = st().Bold(true).Reverse(true)
	}
	t.Error = st().Foreground(t.ErrorColor).Bold(true)
	t.Done = t.Muted.Strikethrough(true)
	t.Help = t.Muted
	t.ChartCompleted = st().Foreground(completedColor)
	t.ChartIncomplete = st().Foreground(incompleteColor)
	t.ChartEmpty = t.Muted
	return t
}

// Box is the rounded frame every panel uses.
func (t Theme) Box() lipgloss.Style {
	return t.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
}
