package scoring

import (
	"crypto/sha256"
	"strconv"

	"deepfake-defender/backend/internal/prng"
)

// Thresholds holds the strict lower bounds for the fake and suspicious verdicts.
type Thresholds struct {
	Fake       float64 `json:"fake"`
	Suspicious float64 `json:"suspicious"`
}

// ThresholdsFor returns the verdict thresholds for the input kind.
func ThresholdsFor(kind Kind) Thresholds {
	if kind == KindText {
		return Thresholds{Fake: 0.80, Suspicious: 0.55}
	}
	return Thresholds{Fake: 0.94, Suspicious: 0.78}
}

// StatusFor maps a score onto a verdict using strict comparisons.
func StatusFor(kind Kind, score float64) Status {
	th := ThresholdsFor(kind)
	if score > th.Fake {
		return StatusFake
	}
	if score > th.Suspicious {
		return StatusSuspicious
	}
	return StatusReal
}

// Classify turns a score into the full result: verdict, rounded confidence, a
// 20-segment timeline and the canned reasons.
func Classify(score Score, in Input) Result {
	if score.KnownEvent {
		return knownEventResult()
	}

	timeline := Timeline(in, score.Value)
	return Result{
		Status:     StatusFor(in.Kind, score.Value),
		Confidence: round3(score.Value),
		Reasons:    Reasons(in.Kind, score.Value, timeline),
		Timeline:   timeline,
	}
}

func knownEventResult() Result {
	timeline := make([]float64, TimelineSegments)
	for i := range timeline {
		timeline[i] = knownEventScore
	}
	return Result{
		Status:     StatusReal,
		Confidence: knownEventScore,
		Reasons:    []string{ReasonKnownEvent},
		Timeline:   timeline,
	}
}

// Timeline synthesizes the per-segment scores. Text draws from a Mersenne Twister
// stream seeded by the digest; bytes re-hash the payload with each segment index.
func Timeline(in Input, score float64) []float64 {
	timeline := make([]float64, TimelineSegments)
	if in.Kind == KindText {
		rng := prng.NewMT19937(digestSeed([]byte(in.Text)))
		for i := range timeline {
			timeline[i] = round3(clamp01(score * (0.6 + float64(rng.Float64()*0.4))))
		}
		return timeline
	}

	buf := make([]byte, len(in.Data)+1)
	copy(buf, in.Data)
	for i := range timeline {
		buf[len(buf)-1] = byte(i)
		sum := sha256.Sum256(buf)
		jitter := float64(float64(sum[0]) / 255 * 0.25) // explicit rounding, see BaseTextScore
		timeline[i] = round3(clamp01(score * (0.6 + jitter)))
	}
	return timeline
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// round3 rounds to three decimals using exact decimal conversion, so ties resolve the
// same way as correctly rounded formatting.
func round3(v float64) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	if err != nil {
		return v
	}
	return out
}
