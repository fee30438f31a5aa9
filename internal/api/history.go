package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"deepfake-defender/backend/internal/store"
)

const (
	defaultPageSize = 25
	maxPageSize     = 200
)

func (s *Server) requireHistory(c *gin.Context) bool {
	if s.db == nil {
		s.renderError(c, http.StatusServiceUnavailable, ErrHistoryDisabled)
		return false
	}
	return true
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	if !s.requireHistory(c) {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	rows, total, err := s.db.ListAnalyses(store.AnalysisQuery{
		Query:  strings.TrimSpace(c.Query("q")),
		Kind:   strings.TrimSpace(c.Query("kind")),
		Status: strings.TrimSpace(c.Query("status")),
		Sort:   strings.TrimSpace(c.Query("sort")),
		Offset: page * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, AnalysesResponse{Items: toDTOs(rows), Total: total})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	if !s.requireHistory(c) {
		return
	}
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	analysis, err := s.db.GetAnalysis(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("analysis %d not found", id))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, FromModel(*analysis))
}

func (s *Server) handleSummary(c *gin.Context) {
	if !s.requireHistory(c) {
		return
	}
	rows, err := s.db.SummarizeAnalyses()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, StatusCountsFromModel(rows))
}

func (s *Server) handleExportCSV(c *gin.Context) {
	if !s.requireHistory(c) {
		return
	}
	rows, _, err := s.db.ListAnalyses(store.AnalysisQuery{Sort: "created_asc", Limit: -1})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=deepfake-defender-export.csv")
	c.Header("Content-Type", "text/csv")

	writer := csv.NewWriter(c.Writer)
	headers := []string{"id", "created_at", "kind", "filename", "media_type", "digest", "status", "confidence", "known_event", "reasons", "timeline", "processing_time_ms"}
	if err := writer.Write(headers); err != nil {
		return
	}
	for _, row := range rows {
		dto := FromModel(row)
		line := []string{
			strconv.FormatUint(uint64(dto.ID), 10),
			dto.CreatedAt.UTC().Format(time.RFC3339),
			dto.Kind,
			dto.Filename,
			dto.MediaType,
			dto.Digest,
			dto.Status,
			strconv.FormatFloat(dto.Confidence, 'f', 3, 64),
			dto.KnownEvent,
			strings.Join(dto.Reasons, "|"),
			joinTimeline(dto.Timeline),
			strconv.FormatInt(dto.ProcessingTimeMs, 10),
		}
		if err := writer.Write(line); err != nil {
			return
		}
	}
	writer.Flush()
}

func (s *Server) handleExportJSON(c *gin.Context) {
	if !s.requireHistory(c) {
		return
	}
	rows, _, err := s.db.ListAnalyses(store.AnalysisQuery{Sort: "created_asc", Limit: -1})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=deepfake-defender-export.json")
	c.JSON(http.StatusOK, toDTOs(rows))
}

func toDTOs(rows []store.Analysis) []AnalysisDTO {
	dtos := make([]AnalysisDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row))
	}
	return dtos
}

func joinTimeline(values []float64) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return strings.Join(parts, ";")
}
