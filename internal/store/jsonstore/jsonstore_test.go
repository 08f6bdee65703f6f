package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGetMissingFile(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "todos.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v, ok, err := s.Get(context.Background(), "todos")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || v != "" {
		t.Errorf("Get on missing file: got (%q, %v), want (\"\", false)", v, ok)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "todos.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	values := map[string]string{
		"theme":  "light",
		"quoted": `"dark"`,
		"number": "42",
		"broken": `[{"text":`,
	}
	for k, v := range values {
		if err := s.Set(ctx, k, v); err != nil {
			t.Fatalf("Set(%q): %v", k, err)
		}
	}
	for k, want := range values {
		got, ok, err := s.Get(ctx, k)
		if err != nil || !ok {
			t.Fatalf("Get(%q): ok=%v err=%v", k, ok, err)
		}
		if got != want {
			t.Errorf("Get(%q): got %q, want %q", k, got, want)
		}
	}
}

func TestJSONValuesStayInline(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.json")
	s, _ := New(path)

	if err := s.Set(ctx, "todos", `[{"text":"Buy milk","date":"2024-01-01","completed":false}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("file is not JSON: %v", err)
	}
	list, ok := doc["todos"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("todos should be an inline array, got %T", doc["todos"])
	}

	got, _, _ := s.Get(ctx, "todos")
	var todos []map[string]any
	if err := json.Unmarshal([]byte(got), &todos); err != nil {
		t.Fatalf("Get returned invalid JSON: %v", err)
	}
	if todos[0]["text"] != "Buy milk" {
		t.Errorf("text: got %v, want Buy milk", todos[0]["text"])
	}
}

func TestSetKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := New(filepath.Join(t.TempDir(), "todos.json"))

	if err := s.Set(ctx, "theme", "dark"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "todos", "[]"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := s.Get(ctx, "theme"); !ok || v != "dark" {
		t.Errorf("theme after second Set: got (%q, %v)", v, ok)
	}
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := New(path)
	if _, _, err := s.Get(context.Background(), "todos"); err == nil {
		t.Error("Get on corrupt file: expected error")
	}
}

func TestNullValueIsNotEmptyString(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.json")
	if err := os.WriteFile(path, []byte(`{"todos":null,"theme":"dark"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := New(path)

	v, ok, err := s.Get(ctx, "todos")
	if err != nil || !ok || v != "null" {
		t.Errorf("Get null: got (%q, %v, %v), want (\"null\", true, nil)", v, ok, err)
	}
	if err := s.Set(ctx, "other", "null"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _, _ := s.Get(ctx, "other"); v != "null" {
		t.Errorf("round trip of null: got %q", v)
	}
	if v, _, _ := s.Get(ctx, "theme"); v != "dark" {
		t.Errorf("string value: got %q", v)
	}
}
