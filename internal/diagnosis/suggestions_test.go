package diagnosis

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMatchCaseInsensitive(t *testing.T) {
	table := DefaultTable()
	upper := table.Match("LOUD GRINDING when braking")
	lower := table.Match("loud grinding when braking")
	if len(upper) == 0 {
		t.Fatalf("no suggestions for grinding")
	}
	if len(upper) != len(lower) {
		t.Fatalf("case changed match count: %d vs %d", len(upper), len(lower))
	}
	for i := range upper {
		if upper[i] != lower[i] {
			t.Fatalf("case changed suggestion %d: %+v vs %+v", i, upper[i], lower[i])
		}
	}
}

func TestMatchDedupesByURL(t *testing.T) {
	table := DefaultTable()
	// "grinding" and "brake" sit in the same group; its suggestions must
	// appear once each.
	got := table.Match("grinding noise from the brake")
	seen := map[string]bool{}
	for _, s := range got {
		if seen[s.URL] {
			t.Fatalf("duplicate suggestion url: %s", s.URL)
		}
		seen[s.URL] = true
	}
	if len(got) != 2 {
		t.Fatalf("expected the two brake suggestions, got %d: %+v", len(got), got)
	}
}

func TestMatchNoKeywords(t *testing.T) {
	got := DefaultTable().Match("everything sounds perfectly fine")
	if got == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no suggestions, got %+v", got)
	}
}

func TestMatchScopedToGroup(t *testing.T) {
	got := DefaultTable().Match("grinding")
	for _, s := range got {
		if s.URL == "https://www.youtube.com/watch?v=I0o7n6nzt_8" {
			t.Fatalf("coolant suggestion leaked into brake match: %+v", got)
		}
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestions.yaml")
	data := `- keywords: ["hiss"]
  suggestions:
    - text: "Check vacuum lines"
      url: "https://example.com/vacuum"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := table.Match("a hissing hiss sound")
	if len(got) != 1 || got[0].Text != "Check vacuum lines" {
		t.Fatalf("unexpected match: %+v", got)
	}
}

func TestLoadTableRejectsEmptyGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(`- keywords: []
  suggestions:
    - text: "x"
      url: "https://example.com"
`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadTable(path); err == nil {
		t.Fatalf("expected validation error for empty keywords")
	}
}
