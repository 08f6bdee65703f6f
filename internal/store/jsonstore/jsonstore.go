package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSON-backed key-value storage. Single file, human-readable, portable.
// No locking; fine for a local single-user CLI.

// DefaultFileName is used when no path is configured.
const DefaultFileName = "todos.json"

// Store keeps every key in one JSON object. Values that are themselves
// valid JSON are embedded as-is so the file stays readable; anything else
// is stored as a JSON string.
type Store struct {
	path string
}

// New returns a store backed by path. An empty path means DefaultFileName
// in the working directory.
func New(path string) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	doc, err := s.read()
	if err != nil {
		return "", false, err
	}
	raw, ok := doc[key]
	if !ok {
		return "", false, nil
	}
	if !isJSONString(raw) {
		return string(raw), true, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return "", false, fmt.Errorf("json unmarshal %q: %w", key, err)
	}
	return str, true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	raw := json.RawMessage(value)
	if !json.Valid(raw) || isJSONString(raw) {
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		raw = b
	}
	doc[key] = raw
	return s.write(doc)
}

func (s *Store) Close() error { return nil }

func (s *Store) read() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	doc := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(b)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal %s: %w", s.path, err)
	}
	return doc, nil
}

// write replaces the file through a temp file in the same directory so a
// reader never sees a partial document.
func (s *Store) write(doc map[string]json.RawMessage) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tada-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func isJSONString(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}
