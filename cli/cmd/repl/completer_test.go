package repl

import "testing"

func TestWordBounds_SlateOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "let", 3, "let", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"after_try", "fetch()? ma", 11, "ma", 9, 11},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "let", 0, "let", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		// Underscores are part of identifiers, not word boundaries.
		{"underscored", "max_depth", 9, "max_depth", 0, 9},
		{"underscored_partial", "max_de", 6, "max_de", 0, 6},
		// After a member dot is an empty word.
		{"empty_after_dot", "config.", 7, "", 7, 7},
		{"after_dot_word", "config.le", 9, "le", 7, 9},
		// Path separator breaks words.
		{"after_path_sep", "vec::ne", 7, "ne", 5, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestKeywordCandidates_SortedAndReserved(t *testing.T) {
	if len(keywordCandidates) == 0 {
		t.Fatal("no keyword candidates")
	}

	for i := 1; i < len(keywordCandidates); i++ {
		if keywordCandidates[i-1] >= keywordCandidates[i] {
			t.Errorf("candidates not sorted: %q before %q",
				keywordCandidates[i-1], keywordCandidates[i])
		}
	}

	want := map[string]bool{"let": false, "fn": false, "match": false}
	for _, name := range keywordCandidates {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}

	for name, seen := range want {
		if !seen {
			t.Errorf("keyword %q missing from candidates", name)
		}
	}
}
