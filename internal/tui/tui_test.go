package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/ui"
)

var fixedNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func newTestModel(t *testing.T, seed ...model.Todo) (modelTUI, *store.Store, *memstore.Store) {
	t.Helper()
	ctx := context.Background()
	kv := memstore.New()
	s, err := store.Open(ctx, kv, store.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, td := range seed {
		if _, err := s.AddTodo(ctx, td.Text, td.Date); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	m := newModel(ctx, s, Options{Now: func() time.Time { return fixedNow }})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(modelTUI), s, kv
}

func send(t *testing.T, m modelTUI, msgs ...tea.Msg) modelTUI {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(modelTUI)
	}
	return m
}

func TestAddThroughForm(t *testing.T) {
	m, s, kv := newTestModel(t)

	m = send(t, m, runes("a"))
	if !m.adding {
		t.Fatal("a should open the form")
	}
	m.inputs[fieldText].SetValue("Buy milk")
	m.inputs[fieldDate].SetValue("today")
	m = send(t, m, keyEnter)

	if m.adding {
		t.Error("form should close after a successful add")
	}
	got := s.Todos()
	if len(got) != 1 || got[0].Text != "Buy milk" || got[0].Date != "2024-01-01" {
		t.Fatalf("store: got %+v", got)
	}
	if kv.Writes() != 1 {
		t.Errorf("add should persist immediately, writes=%d", kv.Writes())
	}
	if len(m.list.Items()) != 1 {
		t.Errorf("list items: got %d, want 1", len(m.list.Items()))
	}
	if m.inputs[fieldText].Value() != "" || m.inputs[fieldDate].Value() != "" {
		t.Error("inputs should be cleared")
	}
}

func TestAddTypedInput(t *testing.T) {
	m, s, _ := newTestModel(t)
	m = send(t, m, runes("a"), runes("Walk"), keyTab, runes("2024-03-04"), keyEnter)
	if got := s.Todos(); len(got) != 1 || got[0] != (model.Todo{Text: "Walk", Date: "2024-03-04"}) {
		t.Errorf("store: got %+v", got)
	}
}

func TestAddBlankIsIgnored(t *testing.T) {
	m, s, kv := newTestModel(t)
	m = send(t, m, runes("a"))
	m.inputs[fieldText].SetValue("Buy milk")
	m = send(t, m, keyEnter)

	if s.Len() != 0 || kv.Writes() != 0 {
		t.Errorf("blank date should be ignored: len=%d writes=%d", s.Len(), kv.Writes())
	}
	if !m.adding || m.notice != "" || m.formErr != "" {
		t.Errorf("form should stay open without messages: adding=%v notice=%q err=%q", m.adding, m.notice, m.formErr)
	}
}

func TestAddInvalidDate(t *testing.T) {
	m, s, _ := newTestModel(t)
	m = send(t, m, runes("a"))
	m.inputs[fieldText].SetValue("Buy milk")
	m.inputs[fieldDate].SetValue("next week")
	m = send(t, m, keyEnter)

	if s.Len() != 0 {
		t.Errorf("invalid date should not add, len=%d", s.Len())
	}
	if !strings.Contains(m.formErr, "YYYY-MM-DD") {
		t.Errorf("formErr: got %q", m.formErr)
	}
}

func TestDuplicateNoticeBlocks(t *testing.T) {
	m, s, _ := newTestModel(t, model.Todo{Text: "Buy milk", Date: "2024-01-01"})
	m = send(t, m, runes("a"))
	m.inputs[fieldText].SetValue("Buy milk")
	m.inputs[fieldDate].SetValue("2024-01-01")
	m = send(t, m, keyEnter)

	if m.notice != duplicateNotice {
		t.Fatalf("notice: got %q", m.notice)
	}
	if s.Len() != 1 {
		t.Errorf("duplicate should not add, len=%d", s.Len())
	}
	if !strings.Contains(ansi.Strip(m.View()), duplicateNotice) {
		t.Error("view should show the notice")
	}

	// The next key only dismisses the notice.
	m = send(t, m, runes("x"))
	if m.notice != "" {
		t.Error("any key should dismiss the notice")
	}
	if m.inputs[fieldText].Value() != "Buy milk" {
		t.Errorf("dismissing key leaked into the form: %q", m.inputs[fieldText].Value())
	}
}

func TestToggleDeleteTheme(t *testing.T) {
	m, s, _ := newTestModel(t,
		model.Todo{Text: "a", Date: "2024-01-01"},
		model.Todo{Text: "b", Date: "2024-01-02"},
	)

	m = send(t, m, keySpace)
	if !s.Todos()[0].Completed {
		t.Fatal("space should toggle the selected task")
	}
	if c := m.view.Chart(); c == nil || c.Percent() != 50 {
		t.Errorf("chart should show 50%%")
	}

	m = send(t, m, runes("d"))
	if got := s.Todos(); len(got) != 1 || got[0].Text != "b" {
		t.Fatalf("after delete: %+v", got)
	}
	if len(m.list.Items()) != 1 {
		t.Errorf("list items: got %d, want 1", len(m.list.Items()))
	}

	m = send(t, m, runes("t"))
	if s.Theme() != model.ThemeLight || m.view.Theme().Name != model.ThemeLight {
		t.Errorf("theme: store=%q view=%q", s.Theme(), m.view.Theme().Name)
	}
}

func TestEscClosesFormThenQuits(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = send(t, m, runes("a"), keyEsc)
	if m.adding {
		t.Fatal("esc should close the form")
	}
	_, cmd := m.Update(keyEsc)
	if cmd == nil {
		t.Fatal("esc on the list should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected a quit command")
	}
}

func TestViewShowsChart(t *testing.T) {
	m, _, _ := newTestModel(t, model.Todo{Text: "Buy milk", Date: "2024-01-01"})
	out := ansi.Strip(m.View())
	for _, want := range []string{"Buy milk", "2024-01-01", "0%", "Incomplete 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestCommandsKeepFilteredList(t *testing.T) {
	m, s, _ := newTestModel(t,
		model.Todo{Text: "beta", Date: "2024-01-01"},
		model.Todo{Text: "alpha", Date: "2024-01-02"},
		model.Todo{Text: "gamma", Date: "2024-01-03"},
	)
	m.list.SetFilterText("alpha")
	if n := len(m.list.VisibleItems()); n != 1 {
		t.Fatalf("visible before toggle: got %d, want 1", n)
	}

	m = send(t, m, keySpace)
	if !s.Todos()[1].Completed {
		t.Fatal("space should toggle the filtered task")
	}
	if m.list.FilterState() != list.FilterApplied {
		t.Errorf("filter state: got %v", m.list.FilterState())
	}
	if n := len(m.list.VisibleItems()); n != 1 {
		t.Errorf("visible after toggle: got %d, want 1", n)
	}
	it, ok := m.selected()
	if !ok || it.todo.Text != "alpha" || !it.todo.Completed {
		t.Errorf("selected after toggle: %+v ok=%v", it, ok)
	}

	m = send(t, m, keySpace)
	if s.Todos()[1].Completed {
		t.Error("second space should toggle back")
	}

	m = send(t, m, runes("d"))
	if got := s.Todos(); len(got) != 2 || got[0].Text != "beta" || got[1].Text != "gamma" {
		t.Errorf("after delete: %+v", got)
	}
	if n := len(m.list.VisibleItems()); n != 0 {
		t.Errorf("visible after delete: got %d, want 0", n)
	}
}

func TestThemeToggleRestylesView(t *testing.T) {
	prev := lipgloss.ColorProfile()
	ui.SetColorMode(ui.ColorAuto)
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	m, _, _ := newTestModel(t, model.Todo{Text: "Buy milk", Date: "2024-01-01"})
	dark := m.View()
	if dark == ansi.Strip(dark) {
		t.Fatal("view has no styling")
	}

	m = send(t, m, runes("t"))
	light := m.View()
	if light == dark {
		t.Error("theme toggle did not change the rendered view")
	}
}
