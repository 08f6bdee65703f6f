package ui

import (
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
)

// Row draws one entry: box, text, date. Completed rows are struck through.
func Row(t Theme, td model.Todo, maxText int) string {
	box := t.Muted.Render(t.BoxUnchecked)
	text := truncate(td.Text, maxText)
	if td.Completed {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}
	return fmt.Sprintf("%s %s  %s", box, text, t.Accent.Render(td.Date))
}

// ListLines numbers rows 1-based in collection order, the same numbers
// `done` and `rm` take.
func ListLines(t Theme, todos []model.Todo, maxText int) []string {
	if len(todos) == 0 {
		return []string{t.Muted.Render("no tasks")}
	}
	out := make([]string, 0, len(todos))
	for i, td := range todos {
		out = append(out, numbered(t, i, td, maxText))
	}
	return out
}

// GroupLines splits pending and done but keeps each row's original number.
func GroupLines(t Theme, todos []model.Todo, maxText int) []string {
	var pend, done []string
	for i, td := range todos {
		if td.Completed {
			done = append(done, numbered(t, i, td, maxText))
		} else {
			pend = append(pend, numbered(t, i, td, maxText))
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, pend...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, done...)
	}
	return lines
}

func numbered(t Theme, i int, td model.Todo, maxText int) string {
	return t.Muted.Render(fmt.Sprintf("%2d.", i+1)) + " " + Row(t, td, maxText)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
