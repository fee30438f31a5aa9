package api

import (
	"strings"
	"time"

	"deepfake-defender/backend/internal/scoring"
	"deepfake-defender/backend/internal/store"
)

// AnalyzeTextRequest is the body accepted by the text analysis endpoint. Text is a
// pointer so an empty string can be analyzed while a missing field is rejected.
type AnalyzeTextRequest struct {
	Text     *string `json:"text"`
	Filename string  `json:"filename"`
}

// AnalysisDTO is the API representation of one verdict.
type AnalysisDTO struct {
	ID               uint      `json:"id"`
	RequestID        string    `json:"request_id"`
	Kind             string    `json:"kind"`
	Filename         string    `json:"filename"`
	MediaType        string    `json:"media_type"`
	MediaCategory    string    `json:"media_category"`
	Digest           string    `json:"digest"`
	SizeBytes        int64     `json:"size_bytes"`
	Status           string    `json:"status"`
	Confidence       float64   `json:"confidence"`
	KnownEvent       string    `json:"known_event,omitempty"`
	Reasons          []string  `json:"reasons"`
	Timeline         []float64 `json:"timeline"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// AnalysesResponse is the paginated history listing.
type AnalysesResponse struct {
	Items []AnalysisDTO `json:"items"`
	Total int64         `json:"total"`
}

// StatusCountDTO is one bucket of the history summary.
type StatusCountDTO struct {
	Kind   string `json:"kind"`
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

// SummaryResponse groups the history by kind and verdict.
type SummaryResponse struct {
	Items []StatusCountDTO `json:"items"`
	Total int64            `json:"total"`
}

// ConfigResponse describes the active detector configuration.
type ConfigResponse struct {
	KnownEvents      []string                      `json:"known_events"`
	Thresholds       map[string]scoring.Thresholds `json:"thresholds"`
	TimelineSegments int                           `json:"timeline_segments"`
	MaxUploadBytes   int64                         `json:"max_upload_bytes"`
	HistoryEnabled   bool                          `json:"history_enabled"`
	Heatmap          HeatmapConfigDTO              `json:"heatmap"`
}

// HeatmapConfigDTO reports the heatmap render settings.
type HeatmapConfigDTO struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	BlurSigma float64 `json:"blur_sigma"`
}

// FromModel converts a store.Analysis into the DTO representation.
func FromModel(a store.Analysis) AnalysisDTO {
	reasons := a.Reasons()
	if reasons == nil {
		reasons = []string{}
	}
	timeline := a.Timeline()
	if timeline == nil {
		timeline = []float64{}
	}
	return AnalysisDTO{
		ID:               a.ID,
		RequestID:        a.RequestID,
		Kind:             a.Kind,
		Filename:         strings.TrimSpace(a.Filename),
		MediaType:        a.MediaType,
		MediaCategory:    a.MediaCategory,
		Digest:           a.Digest,
		SizeBytes:        a.SizeBytes,
		Status:           a.Status,
		Confidence:       a.Confidence,
		KnownEvent:       a.KnownEvent,
		Reasons:          reasons,
		Timeline:         timeline,
		ProcessingTimeMs: a.ProcessingTimeMs,
		CreatedAt:        a.CreatedAt,
	}
}

// StatusCountsFromModel converts summary rows and totals them.
func StatusCountsFromModel(rows []store.StatusCount) SummaryResponse {
	resp := SummaryResponse{Items: make([]StatusCountDTO, 0, len(rows))}
	for _, row := range rows {
		resp.Items = append(resp.Items, StatusCountDTO{Kind: row.Kind, Status: row.Status, Total: row.Total})
		resp.Total += row.Total
	}
	return resp
}
