// Package tui is the interactive front end: a filterable list beside the
// progress donut, driving the same store commands as the CLI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

const duplicateNotice = "Task already exists for this date!"

type Options struct {
	Logger *log.Logger
	Now    func() time.Time
}

// listItem adapts a Todo to bubbles/list.Item. index is the position in
// the store, which stays valid while the list is filtered.
type listItem struct {
	todo  model.Todo
	index int
}

func (i listItem) FilterValue() string { return i.todo.Text + " " + i.todo.Date }

// Custom delegate to control how items render (single line)
type itemDelegate struct {
	view  *ui.Renderer
	width *int
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := d.view.Theme()
	line := ui.Row(t, it.todo, *d.width-len(it.todo.Date)-8)
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+line)
}

type keyMap struct {
	add, toggle, del, theme key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		del:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	}
}

func (k keyMap) bindings() []key.Binding { return []key.Binding{k.add, k.toggle, k.del, k.theme} }

const (
	fieldText = iota
	fieldDate
)

type modelTUI struct {
	ctx   context.Context
	store *store.Store
	view  *ui.Renderer
	log   *log.Logger
	now   func() time.Time
	keys  keyMap

	list  list.Model
	width *int // shared with the delegate
	w, h  int

	// Inline add form
	adding  bool
	inputs  [2]textinput.Model
	focus   int
	formErr string

	// Blocking notice; any key dismisses it
	notice string

	err error
}

// Run starts the Bubble Tea program. Every command is persisted by the
// store as it happens, so quitting never loses work.
func Run(ctx context.Context, s *store.Store, opt Options) error {
	m := newModel(ctx, s, opt)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(modelTUI); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func newModel(ctx context.Context, s *store.Store, opt Options) modelTUI {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}
	view := ui.NewRenderer(nil, ui.RenderOptions{Theme: s.Theme()})
	s.SetView(view)

	width := 60
	keys := newKeyMap()
	l := list.New(nil, itemDelegate{view: view, width: &width}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	m := modelTUI{
		ctx:   ctx,
		store: s,
		view:  view,
		log:   opt.Logger,
		now:   opt.Now,
		keys:  keys,
		list:  l,
		width: &width,
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 200
		m.inputs[i] = ti
	}
	m.inputs[fieldText].Placeholder = "What needs doing?"
	m.inputs[fieldDate].Placeholder = "YYYY-MM-DD, today, tomorrow"
	m.inputs[fieldDate].CharLimit = len(model.DateLayout) + 4

	s.RenderList()
	m.restyle()
	m.syncItems()
	return m
}

// Init implements tea.Model.
func (m modelTUI) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.w, m.h = size.Width, size.Height
		m.resize()
		return m, nil
	}

	if m.notice != "" {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.notice = ""
		}
		return m, nil
	}

	if m.adding {
		return m.updateForm(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case k.String() == "q" || k.String() == "ctrl+c":
			return m, tea.Quit
		case k.String() == "esc" && m.list.FilterState() == list.Unfiltered:
			return m, tea.Quit
		case key.Matches(k, m.keys.toggle):
			if it, ok := m.selected(); ok {
				return m.apply(m.store.ToggleComplete(m.ctx, it.index))
			}
			return m, nil
		case key.Matches(k, m.keys.del):
			if it, ok := m.selected(); ok {
				return m.apply(m.store.DeleteTodo(m.ctx, it.index))
			}
			return m, nil
		case key.Matches(k, m.keys.theme):
			_, err := m.store.ToggleTheme(m.ctx)
			m.restyle()
			return m.apply(err)
		case key.Matches(k, m.keys.add):
			return m.openForm()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.closeForm()
			return m, nil
		case "tab", "shift+tab", "up", "down":
			m.focus = (m.focus + 1) % len(m.inputs)
			return m, m.focusInputs()
		case "enter":
			return m.submit()
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m modelTUI) submit() (tea.Model, tea.Cmd) {
	date, err := model.ParseDate(m.inputs[fieldDate].Value(), m.now())
	if err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	added, err := m.store.AddTodo(m.ctx, m.inputs[fieldText].Value(), date)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		m.notice = duplicateNotice
		return m, nil
	case err != nil:
		m.err = err
		return m, tea.Quit
	case !added:
		return m, nil
	}
	m.closeForm()
	m.syncItems()
	if !m.list.IsFiltered() {
		m.list.Select(len(m.list.Items()) - 1)
	}
	return m, nil
}

func (m modelTUI) openForm() (tea.Model, tea.Cmd) {
	m.adding = true
	m.formErr = ""
	m.focus = fieldText
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.resize()
	return m, m.focusInputs()
}

func (m *modelTUI) closeForm() {
	m.adding = false
	m.formErr = ""
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.resize()
}

func (m *modelTUI) focusInputs() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

// apply finishes a store command: a write failure ends the program,
// anything else resyncs the list.
func (m modelTUI) apply(err error) (tea.Model, tea.Cmd) {
	if err != nil && !errors.Is(err, store.ErrIndexOutOfRange) {
		m.err = err
		return m, tea.Quit
	}
	if err != nil {
		m.log.Warn("stale selection", "err", err)
	}
	m.syncItems()
	return m, nil
}

func (m modelTUI) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m *modelTUI) syncItems() {
	todos := m.store.Todos()
	items := make([]list.Item, 0, len(todos))
	for i, td := range todos {
		items = append(items, listItem{todo: td, index: i})
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if m.list.FilterState() != list.Unfiltered {
		// SetItems empties the filtered view until its refilter command runs.
		m.list.SetFilterText(m.list.FilterValue())
	}
	if n := len(m.list.VisibleItems()); idx >= n {
		idx = n - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	m.list.Title = ansi.Strip(m.view.Header())
}

func (m *modelTUI) restyle() {
	t := m.view.Theme()
	m.list.Styles.Title = t.Title
	m.list.Styles.HelpStyle = t.Help
	m.list.Styles.PaginationStyle = t.Help
}

// chartWidth is the donut's column count plus a gutter.
func (m modelTUI) chartWidth() int {
	c := m.view.Chart()
	if c == nil {
		return 0
	}
	return 4*c.Radius + 1 + 4
}

func (m *modelTUI) resize() {
	w, h := m.w, m.h
	if w == 0 || h == 0 {
		w, h = 80, 24
	}
	listW := w - m.chartWidth() - 4
	if listW < 20 {
		listW = 20
	}
	listH := h - 2
	if m.adding {
		listH -= 6
	}
	if listH < 5 {
		listH = 5
	}
	*m.width = listW
	m.list.SetSize(listW, listH)
}

// View implements tea.Model.
func (m modelTUI) View() string {
	t := m.view.Theme()
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), "  ", m.view.ChartView())

	switch {
	case m.notice != "":
		box := t.Box().BorderForeground(t.ErrorColor)
		msg := t.Error.Render("! "+m.notice) + "\n" + t.Muted.Render("press any key")
		body = body + "\n" + box.Render(msg)
	case m.adding:
		title := "Add task"
		if m.formErr != "" {
			title += "  " + t.Error.Render(m.formErr)
		}
		form := strings.Join([]string{
			title,
			"Text " + m.inputs[fieldText].View(),
			"Date " + m.inputs[fieldDate].View(),
		}, "\n")
		body = body + "\n" + t.Box().Render(form)
	}
	return t.Box().Render(body)
}
