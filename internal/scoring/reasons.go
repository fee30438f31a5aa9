package scoring

// Canned explanation strings.
const (
	ReasonKnownEvent = "Matched known true event"

	ReasonUnusualPhrasing    = "Detected unusual phrasing patterns"
	ReasonSensationalWords   = "Certain sensational keywords present"
	ReasonTextSegments       = "Per-segment inconsistency detected"
	ReasonNoFakeNewsSignals  = "No strong fake-news indicators detected"
	ReasonBlendingArtifacts  = "High-frequency blending artifacts"
	ReasonSkinTone           = "Skin-tone inconsistencies"
	ReasonTemporalFlicker    = "Temporal flicker / per-segment inconsistency"
	ReasonNoArtifactsInBytes = "Low-confidence (no strong artifacts detected)"
)

type reasonRule struct {
	scoreAbove    float64
	timelineAbove float64
	reason        string
}

var (
	textRules = []reasonRule{
		{scoreAbove: 0.75, reason: ReasonUnusualPhrasing},
		{scoreAbove: 0.6, reason: ReasonSensationalWords},
		{timelineAbove: 0.85, reason: ReasonTextSegments},
	}
	bytesRules = []reasonRule{
		{scoreAbove: 0.85, reason: ReasonBlendingArtifacts},
		{scoreAbove: 0.7, reason: ReasonSkinTone},
		{timelineAbove: 0.9, reason: ReasonTemporalFlicker},
	}
)

// Reasons evaluates each rule independently, in order, and falls back to the kind's
// "nothing found" reason so the list is never empty.
func Reasons(kind Kind, score float64, timeline []float64) []string {
	rules, fallback := textRules, ReasonNoFakeNewsSignals
	if kind != KindText {
		rules, fallback = bytesRules, ReasonNoArtifactsInBytes
	}

	var reasons []string
	for _, rule := range rules {
		if rule.fires(score, timeline) {
			reasons = append(reasons, rule.reason)
		}
	}
	if len(reasons) == 0 {
		reasons = append(reasons, fallback)
	}
	return reasons
}

func (r reasonRule) fires(score float64, timeline []float64) bool {
	if r.timelineAbove > 0 {
		for _, t := range timeline {
			if t > r.timelineAbove {
				return true
			}
		}
		return false
	}
	return score > r.scoreAbove
}
