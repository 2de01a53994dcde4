package diagnosis

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Group maps a set of trigger keywords onto the suggestions they unlock.
type Group struct {
	Keywords    []string     `yaml:"keywords"`
	Suggestions []Suggestion `yaml:"suggestions"`
}

// Table is an ordered, read-only list of suggestion groups. It is built
// once at startup and shared across requests.
type Table []Group

// Match returns every suggestion whose group has at least one keyword
// appearing as a case-insensitive substring of text. A group contributes
// once per matching keyword; duplicates are then collapsed by URL, first
// occurrence winning, so relative order follows table order.
func (t Table) Match(text string) []Suggestion {
	lower := strings.ToLower(text)

	matched := []Suggestion{}
	for _, g := range t {
		for _, kw := range g.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(kw)) {
				matched = append(matched, g.Suggestions...)
			}
		}
	}

	seen := make(map[string]bool, len(matched))
	out := []Suggestion{}
	for _, s := range matched {
		if seen[s.URL] {
			continue
		}
		seen[s.URL] = true
		out = append(out, s)
	}
	return out
}

// LoadTable reads a YAML suggestion table, used to override the built-in
// one without a rebuild.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suggestions file: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse suggestions file: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t Table) validate() error {
	if len(t) == 0 {
		return fmt.Errorf("suggestions table is empty")
	}
	for i, g := range t {
		if len(g.Keywords) == 0 {
			return fmt.Errorf("suggestions group %d has no keywords", i)
		}
		if len(g.Suggestions) == 0 {
			return fmt.Errorf("suggestions group %d has no suggestions", i)
		}
		for j, s := range g.Suggestions {
			if strings.TrimSpace(s.URL) == "" {
				return fmt.Errorf("suggestions group %d entry %d has no url", i, j)
			}
		}
	}
	return nil
}

// DefaultTable returns the built-in keyword map. Keywords include a few
// French synonyms because the original user base was bilingual.
func DefaultTable() Table {
	return Table{
		{
			Keywords: []string{"cliquetis", "ticking", "clatter"},
			Suggestions: []Suggestion{
				{Text: "Check the timing belt tensioner", URL: "https://www.youtube.com/watch?v=yWsdEWh_4Co"},
				{Text: "Fix engine clatter (video)", URL: "https://www.youtube.com/watch?v=CEZ8kG9pU_I"},
			},
		},
		{
			Keywords: []string{"squealing", "belt", "sifflement", "serpentine"},
			Suggestions: []Suggestion{
				{Text: "Inspect serpentine belt", URL: "https://www.youtube.com/watch?v=UFjYbzQ0kAw"},
				{Text: "Replace squeaky belt", URL: "https://www.youtube.com/watch?v=1t4QzOAQf5A"},
			},
		},
		{
			Keywords: []string{"grinding", "brake", "frein", "screeching"},
			Suggestions: []Suggestion{
				{Text: "Replace brake pads", URL: "https://www.youtube.com/watch?v=lU6OKQxSg8U"},
				{Text: "Brake pad guide", URL: "https://www.autozone.com/diy/brakes/how-to-replace-brake-pads"},
			},
		},
		{
			Keywords: []string{"knocking", "engine knock"},
			Suggestions: []Suggestion{
				{Text: "Check engine oil level", URL: "https://www.youtube.com/watch?v=agS-LsOY7L0"},
			},
		},
		{
			Keywords: []string{"rattling", "loose part", "vibration"},
			Suggestions: []Suggestion{
				{Text: "Check for loose heat shield", URL: "https://www.youtube.com/watch?v=ul_Sg2g5PiE"},
				{Text: "Diagnose rattling sounds", URL: "https://www.youtube.com/watch?v=lGRuFzTyI1I"},
			},
		},
		{
			Keywords: []string{"battery", "won't start", "clicking", "electrical"},
			Suggestions: []Suggestion{
				{Text: "How to test a car battery", URL: "https://www.youtube.com/watch?v=COJr7OB23Hw"},
				{Text: "Jump-start your car", URL: "https://www.youtube.com/watch?v=Fe2tqCzpF2Q"},
			},
		},
		{
			Keywords: []string{"overheating", "coolant", "temperature", "radiator"},
			Suggestions: []Suggestion{
				{Text: "Check coolant levels", URL: "https://www.youtube.com/watch?v=I0o7n6nzt_8"},
				{Text: "Signs of a bad thermostat", URL: "https://www.youtube.com/watch?v=PI6I5xkfpDs"},
			},
		},
		{
			Keywords: []string{"exhaust", "smoke", "muffler", "loud"},
			Suggestions: []Suggestion{
				{Text: "Diagnose exhaust smoke", URL: "https://www.youtube.com/watch?v=q9aM9Ch97U8"},
				{Text: "Fix exhaust leak (DIY)", URL: "https://www.youtube.com/watch?v=x5BvL1BeBLs"},
			},
		},
		{
			Keywords: []string{"check engine", "code", "OBD", "light"},
			Suggestions: []Suggestion{
				{Text: "How to scan OBD2 codes", URL: "https://www.youtube.com/watch?v=6TlcPRlau2Q"},
				{Text: "Free engine code check at AutoZone", URL: "https://www.autozone.com/landing/page.jsp?name=free-check-engine-light-service"},
			},
		},
	}
}

// TableFromEnv loads the override file named by SUGGESTIONS_FILE, falling
// back to the built-in table.
func TableFromEnv() (Table, error) {
	path := strings.TrimSpace(os.Getenv("SUGGESTIONS_FILE"))
	if path == "" {
		return DefaultTable(), nil
	}
	return LoadTable(path)
}
