package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KnownEvents is an ordered, read-only set of lowercase phrases describing events known
// to be true. Any text containing one of them is reported as real.
type KnownEvents struct {
	phrases []string
}

func defaultKnownEventPhrases() []string {
	return []string{
		"nepal crisis",
		"selena gomez engagement",
	}
}

// DefaultKnownEvents returns the built-in allow-list.
func DefaultKnownEvents() *KnownEvents {
	return newKnownEvents(defaultKnownEventPhrases())
}

// NewKnownEvents builds an allow-list from the defaults followed by the extra phrases.
func NewKnownEvents(extra ...string) *KnownEvents {
	return newKnownEvents(append(defaultKnownEventPhrases(), extra...))
}

// LoadKnownEvents reads a JSON array of phrases and merges it after the defaults. An
// empty path yields the defaults.
func LoadKnownEvents(path string) (*KnownEvents, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultKnownEvents(), nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read known events: %w", err)
	}
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal known events: %w", err)
	}
	return NewKnownEvents(entries...), nil
}

func newKnownEvents(entries []string) *KnownEvents {
	seen := make(map[string]struct{}, len(entries))
	phrases := make([]string, 0, len(entries))
	for _, entry := range entries {
		normalized := normalizePhrase(entry)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		phrases = append(phrases, normalized)
	}
	return &KnownEvents{phrases: phrases}
}

// Match reports the first phrase contained in the lowercased text.
func (k *KnownEvents) Match(text string) (string, bool) {
	if k == nil || len(k.phrases) == 0 {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, phrase := range k.phrases {
		if strings.Contains(lower, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// Phrases returns a copy of the allow-list in match order.
func (k *KnownEvents) Phrases() []string {
	if k == nil {
		return nil
	}
	out := make([]string, len(k.phrases))
	copy(out, k.phrases)
	return out
}

// Len reports the number of phrases.
func (k *KnownEvents) Len() int {
	if k == nil {
		return 0
	}
	return len(k.phrases)
}

func normalizePhrase(phrase string) string {
	return strings.ToLower(strings.TrimSpace(phrase))
}
