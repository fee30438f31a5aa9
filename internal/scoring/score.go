package scoring

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
)

const (
	knownEventScore = 0.1

	textBase    = 0.2
	textSpan    = 0.65
	textBonus   = 0.08
	textCeiling = 0.95

	bytesBase    = 0.35
	bytesSpan    = 0.64
	bytesBonus   = 0.12
	bytesCeiling = 0.995
)

var filenameHints = []string{"fake", "deepfake"}

// Scorer maps inputs to deterministic pseudo-confidence scores.
type Scorer struct {
	events *KnownEvents
}

// NewScorer builds a scorer over the given allow-list. A nil list uses the defaults.
func NewScorer(events *KnownEvents) *Scorer {
	if events == nil {
		events = DefaultKnownEvents()
	}
	return &Scorer{events: events}
}

// KnownEvents returns the allow-list consulted for text inputs.
func (s *Scorer) KnownEvents() *KnownEvents {
	if s == nil || s.events == nil {
		return DefaultKnownEvents()
	}
	return s.events
}

// Score computes the (possibly filename-adjusted) score for the input. Text that matches
// a known true event short-circuits to the fixed override score.
func (s *Scorer) Score(in Input) Score {
	if in.Kind == KindText {
		if event, ok := s.KnownEvents().Match(in.Text); ok {
			return Score{Value: knownEventScore, KnownEvent: true, Event: event}
		}
		return Score{Value: ApplyFilenameHint(KindText, BaseTextScore(in.Text), in.Filename)}
	}
	return Score{Value: ApplyFilenameHint(KindBytes, BaseBytesScore(in.Data), in.Filename)}
}

// Analyze scores and classifies the input in one step.
func (s *Scorer) Analyze(in Input) Result {
	return Classify(s.Score(in), in)
}

// BaseTextScore returns a value in [0.2, 0.85) derived from the SHA-256 of the UTF-8 text.
func BaseTextScore(text string) float64 {
	// The conversion forces rounding so no fused multiply-add changes the result.
	return textBase + float64(digestFraction([]byte(text))*textSpan)
}

// BaseBytesScore returns a value in [0.35, 0.99) derived from the SHA-256 of the bytes.
func BaseBytesScore(data []byte) float64 {
	return bytesBase + float64(digestFraction(data)*bytesSpan)
}

// ApplyFilenameHint bumps the score when the filename suggests fabricated content. The
// result never decreases and never exceeds the kind's ceiling.
func ApplyFilenameHint(kind Kind, score float64, filename string) float64 {
	if !filenameSuggestsFake(filename) {
		return score
	}
	if kind == KindText {
		return math.Min(textCeiling, score+textBonus)
	}
	return math.Min(bytesCeiling, score+bytesBonus)
}

func filenameSuggestsFake(filename string) bool {
	lower := strings.ToLower(strings.TrimSpace(filename))
	if lower == "" {
		return false
	}
	for _, hint := range filenameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// Digest returns the SHA-256 of the raw payload.
func Digest(in Input) [sha256.Size]byte {
	return sha256.Sum256(in.payload())
}

// digestFraction reduces the leading 16 bits of the digest into [0, 1).
func digestFraction(data []byte) float64 {
	sum := sha256.Sum256(data)
	x := binary.BigEndian.Uint16(sum[:2])
	return float64(x%10000) / 10000.0
}

// digestSeed is the big-endian integer formed by the first four digest bytes.
func digestSeed(data []byte) uint32 {
	sum := sha256.Sum256(data)
	return binary.BigEndian.Uint32(sum[:4])
}
