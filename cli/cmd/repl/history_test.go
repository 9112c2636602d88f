package repl

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()

	return NewHistory(filepath.Join(t.TempDir(), baseHistory))
}

func TestHistory_AppendAndEntry(t *testing.T) {
	h := newTestHistory(t)

	if err := h.Append("let x = 1", modeEval); err != nil {
		t.Fatal(err)
	}

	if err := h.Append(":help", modeCtrl); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 2 {
		t.Fatalf("len = %d, want 2", h.Len())
	}

	entry, err := h.Entry(0)
	if err != nil {
		t.Fatal(err)
	}

	if entry.Line != "let x = 1" || entry.Mode != modeEval {
		t.Errorf("entry 0 = %+v", entry)
	}

	entry, err = h.Entry(1)
	if err != nil {
		t.Fatal(err)
	}

	if entry.Line != ":help" || entry.Mode != modeCtrl {
		t.Errorf("entry 1 = %+v", entry)
	}

	if _, err := h.Entry(2); err == nil {
		t.Error("no error for out-of-range index")
	}

	if _, err := h.Entry(-1); err == nil {
		t.Error("no error for negative index")
	}
}

func TestHistory_SkipsBlanksAndRepeats(t *testing.T) {
	h := newTestHistory(t)

	for _, line := range []string{"", "   ", "let x = 1", "let x = 1"} {
		if err := h.Append(line, modeEval); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != 1 {
		t.Errorf("len = %d, want 1", h.Len())
	}
}

func TestHistory_DuplicateMovesToEnd(t *testing.T) {
	h := newTestHistory(t)

	for _, line := range []string{"first", "second", "first"} {
		if err := h.Append(line, modeEval); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != 2 {
		t.Fatalf("len = %d, want 2", h.Len())
	}

	last, err := h.Entry(1)
	if err != nil {
		t.Fatal(err)
	}

	if last.Line != "first" {
		t.Errorf("last entry = %q, want %q", last.Line, "first")
	}
}

func TestHistory_SameLineDifferentModes(t *testing.T) {
	h := newTestHistory(t)

	if err := h.Append("tokens", modeEval); err != nil {
		t.Fatal(err)
	}

	if err := h.Append("tokens", modeCtrl); err != nil {
		t.Fatal(err)
	}

	// Mode is part of identity, so both entries survive.
	if h.Len() != 2 {
		t.Errorf("len = %d, want 2", h.Len())
	}
}

func TestHistory_PersistsAcrossLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Append("let x = 1", modeEval); err != nil {
		t.Fatal(err)
	}

	if err := h.Append(":quit", modeCtrl); err != nil {
		t.Fatal(err)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if reloaded.Len() != 2 {
		t.Fatalf("len = %d, want 2", reloaded.Len())
	}

	entry, err := reloaded.Entry(1)
	if err != nil {
		t.Fatal(err)
	}

	if entry.Line != ":quit" || entry.Mode != modeCtrl {
		t.Errorf("entry 1 = %+v", entry)
	}
}

func TestHistory_LoadMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent"))

	if err := h.Load(); err != nil {
		t.Fatalf("missing file: %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("len = %d, want 0", h.Len())
	}
}

func TestHistory_LoadLegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	// Unprefixed lines predate the mode tag and default to eval mode.
	if err := os.WriteFile(path,
		[]byte("let old = 1\nC:help\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	first, err := h.Entry(0)
	if err != nil {
		t.Fatal(err)
	}

	if first.Line != "let old = 1" || first.Mode != modeEval {
		t.Errorf("entry 0 = %+v", first)
	}

	second, err := h.Entry(1)
	if err != nil {
		t.Fatal(err)
	}

	if second.Line != "help" || second.Mode != modeCtrl {
		t.Errorf("entry 1 = %+v", second)
	}
}
