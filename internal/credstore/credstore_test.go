package credstore

import (
	"testing"
)

func TestSetGetClear(t *testing.T) {
	s := New(t.TempDir())

	if got := s.Get(); got != "" {
		t.Errorf("Get on empty store = %q, want empty", got)
	}

	if err := s.Set("token_u1_abc"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if got := s.Get(); got != "token_u1_abc" {
		t.Errorf("Get = %q, want %q", got, "token_u1_abc")
	}

	if err := s.Set("token_u1_def"); err != nil {
		t.Fatalf("Set (overwrite) returned error: %v", err)
	}
	if got := s.Get(); got != "token_u1_def" {
		t.Errorf("Get after overwrite = %q, want %q", got, "token_u1_def")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if got := s.Get(); got != "" {
		t.Errorf("Get after Clear = %q, want empty", got)
	}
}

func TestClearIdempotent(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear on empty store returned error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	if err := New(dir).Set("persisted"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	// A fresh Store over the same directory must see the token.
	if got := New(dir).Get(); got != "persisted" {
		t.Errorf("Get from reopened store = %q, want %q", got, "persisted")
	}
}

func TestCreatesStateDir(t *testing.T) {
	dir := t.TempDir() + "/nested/state"
	s := New(dir)

	if err := s.Set("tok"); err != nil {
		t.Fatalf("Set should create missing state dir: %v", err)
	}
	if got := s.Get(); got != "tok" {
		t.Errorf("Get = %q, want %q", got, "tok")
	}
}
