package repl

import "testing"

func TestLeadingKeyword(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   string
	}{
		{"bare_keyword", "let", 3, ""},
		{"keyword_with_space", "let ", 4, "let"},
		{"keyword_and_name", "let x", 5, "let"},
		{"cursor_inside_keyword", "let x", 2, ""},
		{"indented", "  fn main", 9, "fn"},
		{"not_a_keyword", "foo bar", 7, ""},
		{"keyword_mid_line", "x let y", 7, ""},
		{"match_statement", "match x", 7, "match"},
		{"empty", "", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := leadingKeyword(tt.input, tt.cursor)
			if got != tt.want {
				t.Errorf("leadingKeyword(%q, %d) = %q, want %q",
					tt.input, tt.cursor, got, tt.want)
			}
		})
	}
}

func TestTemplateSegment(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   int
	}{
		{"keyword_only", "let", 3, 0},
		{"at_name", "let x", 5, 1},
		{"at_value", "let x = 1", 9, 3},
		{"cursor_before_end", "let x = 1", 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := templateSegment(tt.input, tt.cursor)
			if got != tt.want {
				t.Errorf("templateSegment(%q, %d) = %d, want %d",
					tt.input, tt.cursor, got, tt.want)
			}
		})
	}
}

func TestRenderTemplateHint_NoTemplate(t *testing.T) {
	if hint := renderTemplateHint("foo bar", 7); hint != "" {
		t.Errorf("renderTemplateHint returned %q for non-keyword input", hint)
	}

	if hint := renderTemplateHint("let x", 5); hint == "" {
		t.Error("renderTemplateHint returned empty for let statement")
	}
}
