package scoring

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		score    float64
		expected Status
	}{
		{"text fake", KindText, 0.81, StatusFake},
		{"text boundary fake", KindText, 0.80, StatusSuspicious},
		{"text suspicious", KindText, 0.56, StatusSuspicious},
		{"text boundary suspicious", KindText, 0.55, StatusReal},
		{"text real", KindText, 0.2, StatusReal},
		{"bytes fake", KindBytes, 0.95, StatusFake},
		{"bytes boundary fake", KindBytes, 0.94, StatusSuspicious},
		{"bytes suspicious", KindBytes, 0.8, StatusSuspicious},
		{"bytes boundary suspicious", KindBytes, 0.78, StatusReal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFor(tc.kind, tc.score); got != tc.expected {
				t.Fatalf("expected %s got %s", tc.expected, got)
			}
		})
	}
}

func TestAnalyzeGolden(t *testing.T) {
	scorer := NewScorer(nil)
	tests := []struct {
		name     string
		in       Input
		expected Result
	}{
		{
			name: "known event",
			in:   TextInput("Nepal crisis updates: relief efforts underway after earthquake.", ""),
			expected: Result{
				Status:     StatusReal,
				Confidence: 0.1,
				Reasons:    []string{"Matched known true event"},
				Timeline:   repeat(0.1),
			},
		},
		{
			name: "plain headline",
			in:   TextInput("Breaking news: Scientists discover a new cure for cancer.", ""),
			expected: Result{
				Status:     StatusReal,
				Confidence: 0.433,
				Reasons:    []string{"No strong fake-news indicators detected"},
				Timeline: []float64{0.386, 0.421, 0.354, 0.305, 0.415, 0.398, 0.301, 0.357, 0.267, 0.26,
					0.266, 0.273, 0.433, 0.416, 0.362, 0.37, 0.27, 0.322, 0.336, 0.286},
			},
		},
		{
			name: "text with fake filename",
			in:   TextInput("hello world", "fake_story.txt"),
			expected: Result{
				Status:     StatusSuspicious,
				Confidence: 0.763,
				Reasons:    []string{"Detected unusual phrasing patterns", "Certain sensational keywords present"},
				Timeline: []float64{0.63, 0.462, 0.754, 0.762, 0.47, 0.633, 0.641, 0.47, 0.74, 0.624,
					0.755, 0.631, 0.644, 0.492, 0.556, 0.654, 0.72, 0.712, 0.594, 0.653},
			},
		},
		{
			name: "bytes",
			in:   BytesInput([]byte("hello world"), "photo.png"),
			expected: Result{
				Status:     StatusSuspicious,
				Confidence: 0.826,
				Reasons:    []string{"Skin-tone inconsistencies"},
				Timeline: []float64{0.55, 0.558, 0.517, 0.546, 0.676, 0.603, 0.598, 0.58, 0.624, 0.519,
					0.632, 0.6, 0.506, 0.661, 0.634, 0.551, 0.674, 0.668, 0.652, 0.628},
			},
		},
		{
			name: "bytes with deepfake filename",
			in:   BytesInput([]byte("hello world"), "photo_deepfake.png"),
			expected: Result{
				Status:     StatusFake,
				Confidence: 0.946,
				Reasons:    []string{"High-frequency blending artifacts", "Skin-tone inconsistencies"},
				Timeline: []float64{0.63, 0.639, 0.593, 0.625, 0.774, 0.691, 0.684, 0.664, 0.714, 0.594,
					0.724, 0.687, 0.58, 0.757, 0.726, 0.632, 0.772, 0.765, 0.747, 0.719},
			},
		},
		{
			name: "empty bytes capped",
			in:   BytesInput(nil, "deepfake.mp4"),
			expected: Result{
				Status:     StatusFake,
				Confidence: 0.995,
				Reasons:    []string{"High-frequency blending artifacts", "Skin-tone inconsistencies"},
				Timeline: []float64{0.704, 0.67, 0.811, 0.605, 0.82, 0.822, 0.697, 0.794, 0.782, 0.639,
					0.598, 0.822, 0.83, 0.75, 0.672, 0.812, 0.789, 0.669, 0.833, 0.764},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := scorer.Analyze(tc.in)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Fatalf("expected %+v got %+v", tc.expected, got)
			}
		})
	}
}

func TestAnalyzeInvariants(t *testing.T) {
	scorer := NewScorer(nil)
	for i := 0; i < 300; i++ {
		inputs := []Input{
			TextInput(fmt.Sprintf("Report %d: officials confirm the story", i), ""),
			TextInput(fmt.Sprintf("clip %d", i), "deepfake_clip.txt"),
			BytesInput([]byte(fmt.Sprintf("frame-%d", i)), ""),
			BytesInput([]byte(fmt.Sprintf("frame-%d", i)), "fake.mov"),
		}
		for _, in := range inputs {
			result := scorer.Analyze(in)
			if len(result.Timeline) != TimelineSegments {
				t.Fatalf("expected %d segments got %d", TimelineSegments, len(result.Timeline))
			}
			for _, v := range result.Timeline {
				if v < 0 || v > 1 {
					t.Fatalf("timeline value out of range: %v", v)
				}
				if round3(v) != v {
					t.Fatalf("timeline value not rounded: %v", v)
				}
			}
			if len(result.Reasons) == 0 {
				t.Fatalf("expected at least one reason for %+v", in)
			}
			if result.Confidence < 0 || result.Confidence > 1 {
				t.Fatalf("confidence out of range: %v", result.Confidence)
			}
			if result.Status != StatusFor(in.Kind, scorer.Score(in).Value) {
				t.Fatalf("status not derived from score for %+v", in)
			}
		}
	}
}

func TestAnalyzeDeterministicJSON(t *testing.T) {
	scorer := NewScorer(nil)
	in := BytesInput(byteRamp(), "sample.jpg")
	first, err := json.Marshal(scorer.Analyze(in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(scorer.Analyze(in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("expected identical output\n%s\n%s", first, second)
	}
}

func TestReasonsFallback(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		score    float64
		timeline []float64
		expected []string
	}{
		{"text low", KindText, 0.3, repeat(0.3), []string{ReasonNoFakeNewsSignals}},
		{"text segment only", KindText, 0.5, []float64{0.86}, []string{ReasonTextSegments}},
		{"bytes low", KindBytes, 0.5, repeat(0.5), []string{ReasonNoArtifactsInBytes}},
		{"bytes all", KindBytes, 0.99, []float64{0.91}, []string{ReasonBlendingArtifacts, ReasonSkinTone, ReasonTemporalFlicker}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Reasons(tc.kind, tc.score, tc.timeline)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Fatalf("expected %v got %v", tc.expected, got)
			}
		})
	}
}

func TestRound3(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{0.43335, 0.433},
		{0.6834049, 0.683},
		{0.9999, 1},
		{0.0004, 0},
	}
	for _, tc := range tests {
		if got := round3(tc.in); got != tc.expected {
			t.Fatalf("round3(%v): expected %v got %v", tc.in, tc.expected, got)
		}
	}
}

func repeat(v float64) []float64 {
	out := make([]float64, TimelineSegments)
	for i := range out {
		out[i] = v
	}
	return out
}
