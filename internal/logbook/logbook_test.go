package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTailReturnsRecentLines(t *testing.T) {
	dir := t.TempDir()
	book, err := New(filepath.Join(dir, "session.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	defer book.Close()
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines := book.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestTailHandlesShortAndEmptyLogs(t *testing.T) {
	dir := t.TempDir()
	book, err := New(filepath.Join(dir, "session.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer book.Close()
	if lines := book.Tail(8); lines != nil {
		t.Fatalf("empty log returned %v", lines)
	}
	book.Warn("only-entry")
	lines := book.Tail(8)
	if len(lines) != 1 || !strings.Contains(lines[0], "only-entry") {
		t.Fatalf("lines = %v", lines)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	book.Warn("ignored")
	book.Error("ignored")
	if book.Path() != "" {
		t.Fatal("nil path should be empty")
	}
	if err := book.Close(); err != nil {
		t.Fatal(err)
	}
	if lines := book.Tail(4); lines != nil {
		t.Fatalf("nil Tail returned %v", lines)
	}
}

func TestEntriesCarryLevels(t *testing.T) {
	dir := t.TempDir()
	book, err := New(filepath.Join(dir, "session.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer book.Close()
	book.Info("all good")
	book.Error("all bad")
	lines := book.Tail(2)
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d", len(lines))
	}
	if !strings.Contains(strings.ToLower(lines[0]), "info") {
		t.Fatalf("line 0 missing level: %q", lines[0])
	}
	if !strings.Contains(strings.ToLower(lines[1]), "erro") {
		t.Fatalf("line 1 missing level: %q", lines[1])
	}
}
