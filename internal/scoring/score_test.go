package scoring

import (
	"fmt"
	"math"
	"testing"
)

func TestBaseScores(t *testing.T) {
	tests := []struct {
		name     string
		in       Input
		expected float64
	}{
		{"text sample", TextInput("Breaking news: Scientists discover a new cure for cancer.", ""), 0.43335},
		{"text hello", TextInput("hello world", ""), 0.683405},
		{"empty text", TextInput("", ""), 0.73872},
		{"bytes hello", BytesInput([]byte("hello world"), ""), 0.825968},
		{"empty bytes", BytesInput(nil, ""), 0.880432},
		{"byte ramp", BytesInput(byteRamp(), ""), 0.769776},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got float64
			if tc.in.Kind == KindText {
				got = BaseTextScore(tc.in.Text)
			} else {
				got = BaseBytesScore(tc.in.Data)
			}
			if math.Abs(got-tc.expected) > 1e-12 {
				t.Fatalf("expected %v got %v", tc.expected, got)
			}
		})
	}
}

func TestBaseScoreRanges(t *testing.T) {
	for i := 0; i < 2000; i++ {
		text := fmt.Sprintf("sample headline number %d", i)
		if s := BaseTextScore(text); s < 0.2 || s >= 0.85 {
			t.Fatalf("text score out of range for %q: %v", text, s)
		}
		data := []byte{byte(i), byte(i >> 8), 0xff, byte(i * 7)}
		if s := BaseBytesScore(data); s < 0.35 || s >= 0.99 {
			t.Fatalf("bytes score out of range for %v: %v", data, s)
		}
	}
}

func TestFilenameHint(t *testing.T) {
	data := []byte("hello world")
	base := BaseBytesScore(data)
	scorer := NewScorer(nil)

	tests := []struct {
		name     string
		filename string
		expected float64
	}{
		{"deepfake hint", "photo_deepfake.png", math.Min(0.995, base+0.12)},
		{"fake hint upper case", "FAKE.jpg", math.Min(0.995, base+0.12)},
		{"no hint", "photo.png", base},
		{"empty filename", "", base},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := scorer.Score(BytesInput(data, tc.filename)).Value
			if got != tc.expected {
				t.Fatalf("expected %v got %v", tc.expected, got)
			}
		})
	}
}

func TestFilenameHintMonotonicAndCapped(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		s := float64(i) / 1000
		text := ApplyFilenameHint(KindText, s, "deepfake.txt")
		if text < s && s <= 0.95 {
			t.Fatalf("text hint decreased %v to %v", s, text)
		}
		if text > 0.95 && s <= 0.95 {
			t.Fatalf("text hint exceeded cap: %v", text)
		}
		bytes := ApplyFilenameHint(KindBytes, s, "fake.mp4")
		if bytes < s && s <= 0.995 {
			t.Fatalf("bytes hint decreased %v to %v", s, bytes)
		}
		if bytes > 0.995 && s <= 0.995 {
			t.Fatalf("bytes hint exceeded cap: %v", bytes)
		}
	}
}

func TestKnownEventShortCircuit(t *testing.T) {
	scorer := NewScorer(nil)
	score := scorer.Score(TextInput("Nepal crisis updates: relief efforts underway after earthquake.", "deepfake.txt"))
	if !score.KnownEvent {
		t.Fatalf("expected known event match")
	}
	if score.Value != 0.1 {
		t.Fatalf("expected 0.1 got %v", score.Value)
	}
	if score.Event != "nepal crisis" {
		t.Fatalf("expected matched phrase %q got %q", "nepal crisis", score.Event)
	}
}

func TestKnownEventsIgnoredForBytes(t *testing.T) {
	scorer := NewScorer(nil)
	data := []byte("Nepal crisis updates")
	score := scorer.Score(BytesInput(data, ""))
	if score.KnownEvent {
		t.Fatalf("byte inputs must not match the allow-list")
	}
	if score.Value != BaseBytesScore(data) {
		t.Fatalf("expected base bytes score")
	}
}

func TestScoreDeterministic(t *testing.T) {
	a := NewScorer(nil)
	b := NewScorer(NewKnownEvents())
	inputs := []Input{
		TextInput("hello world", "story_fake.txt"),
		TextInput("", ""),
		BytesInput([]byte{0, 1, 2}, "clip.mp4"),
	}
	for _, in := range inputs {
		if a.Score(in) != b.Score(in) {
			t.Fatalf("score differs between scorers for %+v", in)
		}
	}
}

func byteRamp() []byte {
	out := make([]byte, 256)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}
