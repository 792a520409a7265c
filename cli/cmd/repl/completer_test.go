package repl

import (
	"slices"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_caret", "a^fo", 4, "fo", 2, 4},
		{"after_assign", "var x = fo", 10, "fo", 8, 10},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "my_var", 6, "my_var", 0, 6},
		{"cursor_past_end", "ab", 10, "ab", 0, 2},
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

func TestComputeMatches(t *testing.T) {
	candidates := []string{"lambda", "print", "square", "sum", "var"}

	tests := []struct {
		name   string
		input  string
		cursor int
		want   []string
	}{
		{"prefix", "pr", 2, []string{"print"}},
		{"fuzzy", "print(sq", 8, []string{"square"}},
		{"several", "s", 1, []string{"square", "sum"}},
		{"empty_word", "print(", 6, nil},
		{"number", "12", 2, nil},
		{"no_match", "zz", 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, _, _ := computeMatches(tt.input, tt.cursor, candidates)

			var got []string
			for _, m := range matches {
				got = append(got, m.Str)
			}

			slices.Sort(got)

			if !slices.Equal(got, tt.want) {
				t.Errorf("computeMatches(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompletions(t *testing.T) {
	head, found, tail := completions("print(sq + 1", 8, []string{"square", "sum"})

	if head != "print(" || tail != " + 1" {
		t.Errorf("head, tail = %q, %q", head, tail)
	}

	if !slices.Equal(found, []string{"square"}) {
		t.Errorf("found = %v, want [square]", found)
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches, _, _ := computeMatches("s", 1, []string{"square", "sum"})

	bar := renderCandidateBar(matches, -1, false, 80, func(string) bool { return false })
	if bar == "" {
		t.Fatal("expected a candidate bar")
	}

	if renderCandidateBar(nil, -1, false, 80, nil) != "" {
		t.Error("expected an empty bar without matches")
	}
}
