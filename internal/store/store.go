// Package store owns the todo collection and the theme flag. It mirrors
// both to a key-value Storage after every change and tells a View to
// redraw. It has no knowledge of how the View draws.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
)

// Storage keys.
const (
	KeyTodos = "todos"
	KeyTheme = "theme"
)

var (
	ErrDuplicate       = errors.New("task already exists for this date")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Storage is durable string key-value storage, written synchronously.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// View redraws after every change. RenderList must finish by updating
// progress.
type View interface {
	RenderList(todos []model.Todo)
	ApplyTheme(theme model.Theme)
}

type Options struct {
	Logger *log.Logger
	View   View
}

// Store is the single writable copy of the list. Not safe for concurrent
// use; callers drive it from one goroutine.
type Store struct {
	kv    Storage
	log   *log.Logger
	view  View
	todos []model.Todo
	theme model.Theme
}

// Open loads the persisted list and theme. A missing or unparsable list
// opens as empty; storage read errors are returned.
func Open(ctx context.Context, kv Storage, opt Options) (*Store, error) {
	s := &Store{
		kv:    kv,
		log:   opt.Logger,
		view:  opt.View,
		todos: []model.Todo{},
		theme: model.DefaultTheme,
	}
	if s.log == nil {
		s.log = log.New(io.Discard)
	}

	raw, ok, err := kv.Get(ctx, KeyTodos)
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	if ok {
		var todos []model.Todo
		if err := json.Unmarshal([]byte(raw), &todos); err != nil {
			s.log.Warn("stored todos unreadable, starting empty", "err", err)
		} else if todos != nil {
			s.todos = todos
		}
	}

	theme, ok, err := kv.Get(ctx, KeyTheme)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	if ok {
		s.theme = model.ParseTheme(theme)
	}
	s.log.Debug("store opened", "todos", len(s.todos), "theme", s.theme)
	return s, nil
}

// SetView replaces the view notified after each change.
func (s *Store) SetView(v View) { s.view = v }

// Todos returns a copy of the list in insertion order.
func (s *Store) Todos() []model.Todo {
	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

func (s *Store) Len() int { return len(s.todos) }

func (s *Store) Theme() model.Theme { return s.theme }

func (s *Store) Progress() model.Progress { return model.ProgressOf(s.todos) }

// AddTodo appends a new incomplete entry. Blank text or date is ignored
// silently (false, nil). An existing entry with the same text and date
// yields ErrDuplicate and leaves the list unchanged.
func (s *Store) AddTodo(ctx context.Context, text, date string) (bool, error) {
	text = strings.TrimSpace(text)
	date = strings.TrimSpace(date)
	if text == "" || date == "" {
		return false, nil
	}
	for _, t := range s.todos {
		if t.Same(text, date) {
			return false, ErrDuplicate
		}
	}
	s.todos = append(s.todos, model.Todo{Text: text, Date: date})
	if err := s.persistTodos(ctx); err != nil {
		return false, err
	}
	s.log.Info("task added", "text", text, "date", date)
	s.RenderList()
	return true, nil
}

// ToggleComplete flips the completed flag of the entry at index.
func (s *Store) ToggleComplete(ctx context.Context, index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.todos[index].Completed = !s.todos[index].Completed
	if err := s.persistTodos(ctx); err != nil {
		return err
	}
	s.log.Info("task toggled", "index", index, "completed", s.todos[index].Completed)
	s.RenderList()
	return nil
}

// DeleteTodo removes the entry at index, keeping the order of the rest.
func (s *Store) DeleteTodo(ctx context.Context, index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	removed := s.todos[index]
	s.todos = append(s.todos[:index], s.todos[index+1:]...)
	if err := s.persistTodos(ctx); err != nil {
		return err
	}
	s.log.Info("task deleted", "text", removed.Text, "date", removed.Date)
	s.RenderList()
	return nil
}

// ToggleTheme flips between dark and light, persists and applies it.
func (s *Store) ToggleTheme(ctx context.Context) (model.Theme, error) {
	next := s.theme.Toggle()
	if err := s.kv.Set(ctx, KeyTheme, next.String()); err != nil {
		return s.theme, fmt.Errorf("persist theme: %w", err)
	}
	s.theme = next
	s.log.Debug("theme persisted", "theme", next)
	if s.view != nil {
		s.view.ApplyTheme(next)
	}
	return next, nil
}

// RenderList hands the current list to the view.
func (s *Store) RenderList() {
	if s.view != nil {
		s.view.RenderList(s.Todos())
	}
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.todos) {
		return fmt.Errorf("%w: have %d, got %d", ErrIndexOutOfRange, len(s.todos), index)
	}
	return nil
}

func (s *Store) persistTodos(ctx context.Context) error {
	b, err := json.Marshal(s.todos)
	if err != nil {
		return fmt.Errorf("persist todos: %w", err)
	}
	if err := s.kv.Set(ctx, KeyTodos, string(b)); err != nil {
		return fmt.Errorf("persist todos: %w", err)
	}
	s.log.Debug("todos persisted", "count", len(s.todos))
	return nil
}
