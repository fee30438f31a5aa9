package scoring

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestKnownEventsMatch(t *testing.T) {
	events := DefaultKnownEvents()
	tests := []struct {
		name    string
		text    string
		phrase  string
		matched bool
	}{
		{"case insensitive", "NEPAL CRISIS deepens", "nepal crisis", true},
		{"second phrase", "Rumours of a Selena Gomez engagement", "selena gomez engagement", true},
		{"no match", "Local bakery wins award", "", false},
		{"partial phrase", "nepal is calm", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			phrase, ok := events.Match(tc.text)
			if ok != tc.matched {
				t.Fatalf("expected matched=%v got %v", tc.matched, ok)
			}
			if phrase != tc.phrase {
				t.Fatalf("expected phrase %q got %q", tc.phrase, phrase)
			}
		})
	}
}

func TestLoadKnownEventsMergesAfterDefaults(t *testing.T) {
	path := tempJSON(t, []string{"  Moon Landing ", "nepal crisis", "", "moon landing"})
	events, err := LoadKnownEvents(path)
	if err != nil {
		t.Fatalf("load known events: %v", err)
	}
	expected := []string{"nepal crisis", "selena gomez engagement", "moon landing"}
	if got := events.Phrases(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v got %v", expected, got)
	}
	if events.Len() != 3 {
		t.Fatalf("expected 3 phrases got %d", events.Len())
	}
}

func TestLoadKnownEventsEmptyPath(t *testing.T) {
	events, err := LoadKnownEvents("")
	if err != nil {
		t.Fatalf("load known events: %v", err)
	}
	if !reflect.DeepEqual(events.Phrases(), DefaultKnownEvents().Phrases()) {
		t.Fatalf("expected defaults got %v", events.Phrases())
	}
}

func TestLoadKnownEventsErrors(t *testing.T) {
	if _, err := LoadKnownEvents(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadKnownEvents(bad); err == nil {
		t.Fatalf("expected error for malformed file")
	}
}

func TestShippedKnownEventsFile(t *testing.T) {
	events, err := LoadKnownEvents("known_events.json")
	if err != nil {
		t.Fatalf("load shipped file: %v", err)
	}
	if !reflect.DeepEqual(events.Phrases(), DefaultKnownEvents().Phrases()) {
		t.Fatalf("shipped file diverged from defaults: %v", events.Phrases())
	}
}

func TestPhrasesReturnsCopy(t *testing.T) {
	events := DefaultKnownEvents()
	phrases := events.Phrases()
	phrases[0] = "mutated"
	if events.Phrases()[0] != "nepal crisis" {
		t.Fatalf("allow-list was mutated through Phrases")
	}
}

func tempJSON(t *testing.T, value any) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "events-*.json")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return f.Name()
}
