package pkg

import (
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "slate"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file, so it should be a
	// non-empty dotted version string.
	v := strings.TrimSpace(Version)
	if v == "" {
		t.Fatal("Expected Version to be non-empty")
	}

	if strings.Count(v, ".") != 2 {
		t.Errorf("Expected Version %q to have major.minor.patch form", v)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Expected Author to have at least one entry")
	}

	if slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "" && a.Email == ""
	}) {
		t.Error("Every author must define at least Name or Email")
	}
}
