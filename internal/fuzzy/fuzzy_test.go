package fuzzy

import "testing"

func TestFindBest(t *testing.T) {
	m := NewMatcher(2)
	candidates := []string{"verbose", "version", "output", "help"}

	tests := []struct {
		input string
		want  string
	}{
		{"verbse", "verbose"},
		{"versoin", "version"},
		{"outpt", "output"},
		{"zzzzzz", ""},
		{"v", ""}, // too short to suggest
	}

	for _, tt := range tests {
		if got := m.FindBest(tt.input, candidates); got != tt.want {
			t.Errorf("FindBest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFindBestExcludesExact(t *testing.T) {
	m := NewMatcher(2)
	if got := m.FindBest("help", []string{"help"}); got != "" {
		t.Errorf("exact match suggested: %q", got)
	}
}

func TestFindBestCaseInsensitive(t *testing.T) {
	m := NewMatcher(2)
	if got := m.FindBest("VERBSE", []string{"verbose"}); got != "verbose" {
		t.Errorf("got %q, want %q", got, "verbose")
	}
}

func TestFindMatchesOrdering(t *testing.T) {
	m := NewMatcher(3)
	matches := m.FindMatches("lst", []string{"last", "list", "lost", "reset"})
	if len(matches) < 2 {
		t.Fatalf("got %d matches, want at least 2", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("matches out of order at %d: %v before %v", i, matches[i-1], matches[i])
		}
	}
}

func TestDistance(t *testing.T) {
	m := NewMatcher(5)

	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		if got := m.distance(tt.a, tt.b); got != tt.want {
			t.Errorf("distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDistanceEarlyTermination(t *testing.T) {
	m := NewMatcher(1)
	if got := m.distance("short", "completelydifferent"); got != 2 {
		t.Errorf("got %d, want maxDistance+1", got)
	}
}
