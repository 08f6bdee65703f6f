package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar format every stored date uses.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// Todo is the domain model for a dated task.
type Todo struct {
	Text      string `json:"text"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// Same reports whether two entries collide on text and date.
func (t Todo) Same(text, date string) bool {
	return t.Text == text && t.Date == date
}

// ParseDate normalizes user input into DateLayout. "today" and "tomorrow"
// resolve against now. Empty input returns "" without error so callers can
// keep the silent-ignore behavior for blank fields.
func ParseDate(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "today":
		return now.Format(DateLayout), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(DateLayout), nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d.Format(DateLayout), nil
}
