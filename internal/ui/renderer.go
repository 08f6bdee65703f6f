package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
)

// RenderOptions tune output behavior.
type RenderOptions struct {
	Theme model.Theme
	Group bool // list grouped by pending/done
}

// Renderer turns the todo list into a framed list plus donut chart. It
// implements store.View. With a nil writer it only keeps the last frame,
// which is how the TUI uses it, and styles through lipgloss's default
// renderer so colors follow the terminal Bubble Tea draws on.
type Renderer struct {
	out   io.Writer
	lg    *lipgloss.Renderer
	theme Theme
	group bool
	width int

	todos []model.Todo
	chart *Donut
}

func NewRenderer(out io.Writer, opt RenderOptions) *Renderer {
	lg := newLipgloss(out)
	return &Renderer{
		out:   out,
		lg:    lg,
		theme: NewTheme(opt.Theme, lg),
		group: opt.Group,
		width: termWidth(out),
	}
}

// RenderList rebuilds the list, updates the chart and, when there is a
// writer, prints the frame.
func (r *Renderer) RenderList(todos []model.Todo) {
	r.todos = todos
	r.UpdateProgress(todos)
	if r.out != nil {
		fmt.Fprintln(r.out, r.Frame())
	}
}

// UpdateProgress creates the chart on first use and updates it in place
// after that.
func (r *Renderer) UpdateProgress(todos []model.Todo) model.Progress {
	p := model.ProgressOf(todos)
	if r.chart == nil {
		r.chart = NewDonut(p.Completed, p.Incomplete())
	} else {
		r.chart.SetData(p.Completed, p.Incomplete())
	}
	return p
}

// ApplyTheme restyles everything drawn from now on.
func (r *Renderer) ApplyTheme(name model.Theme) {
	r.theme = NewTheme(name, r.lg)
}

func (r *Renderer) Theme() Theme { return r.theme }

// Chart is nil until the first progress update.
func (r *Renderer) Chart() *Donut { return r.chart }

// Header is the title line with live counts.
func (r *Renderer) Header() string {
	t := r.theme
	p := model.ProgressOf(r.todos)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(symCheck), p.Completed,
		t.Pending.Render("•"), p.Incomplete(),
		t.Accent.Render("Total"), p.Total,
	)
}

// ListLines returns the rows of the last rendered list.
func (r *Renderer) ListLines(maxText int) []string {
	if r.group {
		return GroupLines(r.theme, r.todos, maxText)
	}
	return ListLines(r.theme, r.todos, maxText)
}

// ChartView draws the chart, or nothing before the first update.
func (r *Renderer) ChartView() string {
	if r.chart == nil {
		return ""
	}
	return r.chart.Render(r.theme)
}

// ChartPanel frames the chart with its progress bar.
func (r *Renderer) ChartPanel() string {
	if r.chart == nil {
		return ""
	}
	c, i := r.chart.Data()
	return Panel(r.theme, []string{
		r.theme.Title.Render("Progress"),
		r.ChartView(),
		r.theme.Muted.Render(ProgressBar(c, c+i, 20)),
	})
}

// Frame is the full panel: header, list and chart side by side.
func (r *Renderer) Frame() string {
	t := r.theme
	maxText := r.width - 60
	if maxText < 20 {
		maxText = 20
	}
	var lines []string
	lines = append(lines, r.Header())
	c, i := 0, 0
	if r.chart != nil {
		c, i = r.chart.Data()
	}
	lines = append(lines, t.Muted.Render(ProgressBar(c, c+i, 28)))
	lines = append(lines, "")
	lines = append(lines, r.ListLines(maxText)...)

	left := lipgloss.JoinVertical(lipgloss.Left, lines...)
	body := left
	if chart := r.ChartView(); chart != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", chart)
	}
	return t.Box().Render(body)
}
