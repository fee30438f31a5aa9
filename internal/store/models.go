package store

import (
	"encoding/json"
	"strings"
	"time"
)

// Analysis is a persisted record of one verdict served to a client. Records are history
// only; verdicts are always recomputed from the input.
type Analysis struct {
	ID               uint   `gorm:"primaryKey"`
	RequestID        string `gorm:"size:64;uniqueIndex"`
	Kind             string `gorm:"size:16;index"`
	Filename         string `gorm:"size:256"`
	MediaType        string `gorm:"size:128"`
	MediaCategory    string `gorm:"size:32"`
	Digest           string `gorm:"size:64;index"`
	SizeBytes        int64
	Preview          string `gorm:"size:512"`
	Status           string `gorm:"size:16;index"`
	Confidence       float64
	KnownEvent       string `gorm:"size:256"`
	ReasonsJSON      string `gorm:"type:text"`
	TimelineJSON     string `gorm:"type:text"`
	ProcessingTimeMs int64
	CreatedAt        time.Time `gorm:"autoCreateTime;index"`
}

// SetReasons stores the reasons list as JSON.
func (a *Analysis) SetReasons(reasons []string) {
	if reasons == nil {
		a.ReasonsJSON = "[]"
		return
	}
	payload, _ := json.Marshal(reasons)
	a.ReasonsJSON = string(payload)
}

// Reasons decodes the stored reasons list.
func (a *Analysis) Reasons() []string {
	if strings.TrimSpace(a.ReasonsJSON) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(a.ReasonsJSON), &out); err != nil {
		return nil
	}
	return out
}

// SetTimeline stores the timeline as JSON.
func (a *Analysis) SetTimeline(timeline []float64) {
	if timeline == nil {
		a.TimelineJSON = "[]"
		return
	}
	payload, _ := json.Marshal(timeline)
	a.TimelineJSON = string(payload)
}

// Timeline decodes the stored timeline.
func (a *Analysis) Timeline() []float64 {
	if strings.TrimSpace(a.TimelineJSON) == "" {
		return nil
	}
	var out []float64
	if err := json.Unmarshal([]byte(a.TimelineJSON), &out); err != nil {
		return nil
	}
	return out
}

// StatusCount is one row of the history summary.
type StatusCount struct {
	Kind   string
	Status string
	Total  int64
}
