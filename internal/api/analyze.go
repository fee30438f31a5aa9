package api

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"deepfake-defender/backend/internal/metrics"
	"deepfake-defender/backend/internal/scoring"
	"deepfake-defender/backend/internal/store"
	"deepfake-defender/backend/internal/util"
)

const (
	uploadField   = "file"
	previewLength = 160

	textMediaType = "text/plain; charset=utf-8"
)

// Media categories reported alongside a verdict. They only label the upload for the UI.
const (
	CategoryText  = "text"
	CategoryImage = "image"
	CategoryVideo = "video"
	CategoryAudio = "audio"
	CategoryOther = "other"
)

var errUploadTooLarge = errors.New("upload exceeds size limit")

// mediaInfo describes an input for display purposes.
type mediaInfo struct {
	mediaType string
	category  string
	size      int64
	preview   string
}

func (s *Server) handleAnalyzeText(c *gin.Context) {
	var req AnalyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Text == nil {
		s.renderError(c, http.StatusBadRequest, errors.New("text is required"))
		return
	}

	in := scoring.TextInput(*req.Text, strings.TrimSpace(req.Filename))
	media := mediaInfo{
		mediaType: textMediaType,
		category:  CategoryText,
		size:      int64(len(*req.Text)),
		preview:   previewText(*req.Text),
	}
	c.JSON(http.StatusOK, s.analyze(requestID(c), in, media))
}

func (s *Server) handleAnalyzeFile(c *gin.Context) {
	data, filename, ok := s.readUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.analyze(requestID(c), scoring.BytesInput(data, filename), detectMedia(data)))
}

func (s *Server) handleHeatmap(c *gin.Context) {
	data, filename, ok := s.readUpload(c)
	if !ok {
		return
	}
	png, err := s.renderer.RenderPNG(data)
	metrics.RecordHeatmap(err)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"filename": filename,
		"bytes":    len(png),
	}).Debug("heatmap rendered")
	c.Data(http.StatusOK, "image/png", png)
}

// analyze runs the detector, records the outcome and notifies stream listeners.
// History failures are logged; the verdict is still returned.
func (s *Server) analyze(reqID string, in scoring.Input, media mediaInfo) AnalysisDTO {
	timer := util.StartTimer()
	score := s.scorer.Score(in)
	result := scoring.Classify(score, in)
	digest := scoring.Digest(in)
	elapsed := timer.Elapsed()

	record := &store.Analysis{
		RequestID:        reqID,
		Kind:             string(in.Kind),
		Filename:         in.Filename,
		MediaType:        media.mediaType,
		MediaCategory:    media.category,
		Digest:           hex.EncodeToString(digest[:]),
		SizeBytes:        media.size,
		Preview:          media.preview,
		Status:           string(result.Status),
		Confidence:       result.Confidence,
		KnownEvent:       score.Event,
		ProcessingTimeMs: elapsed.Milliseconds(),
		CreatedAt:        time.Now().UTC(),
	}
	record.SetReasons(result.Reasons)
	record.SetTimeline(result.Timeline)

	if s.db != nil {
		if err := s.db.SaveAnalysis(record); err != nil {
			logrus.WithError(err).WithField("request_id", reqID).Warn("save analysis history")
		}
	}

	metrics.RecordAnalysis(string(in.Kind), string(result.Status), int(media.size), score.KnownEvent, elapsed)
	logrus.WithFields(logrus.Fields{
		"request_id": reqID,
		"kind":       in.Kind,
		"status":     result.Status,
		"confidence": result.Confidence,
		"known":      score.KnownEvent,
	}).Info("analysis complete")

	dto := FromModel(*record)
	dto.Reasons = result.Reasons
	dto.Timeline = result.Timeline
	s.notifier.Broadcast(AnalysisEvent{Type: "analysis", Analysis: &dto})
	return dto
}

// readUpload reads the multipart file field, enforcing the upload limit. It renders
// the error response itself and reports whether the handler should continue.
func (s *Server) readUpload(c *gin.Context) ([]byte, string, bool) {
	if c.Request.ContentLength > s.maxUpload+multipartOverhead {
		s.renderError(c, http.StatusRequestEntityTooLarge, errUploadTooLarge)
		return nil, "", false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload+multipartOverhead)

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.renderError(c, http.StatusRequestEntityTooLarge, errUploadTooLarge)
		case errors.Is(err, http.ErrMissingFile):
			s.renderError(c, http.StatusBadRequest, errors.New("file is required"))
		default:
			s.renderError(c, http.StatusBadRequest, err)
		}
		return nil, "", false
	}
	if header.Size > s.maxUpload {
		s.renderError(c, http.StatusRequestEntityTooLarge, errUploadTooLarge)
		return nil, "", false
	}

	data, err := readFormFile(header, s.maxUpload)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			s.renderError(c, http.StatusRequestEntityTooLarge, err)
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return nil, "", false
	}
	return data, header.Filename, true
}

// multipartOverhead leaves room for the boundary and part headers around the file.
const multipartOverhead = 64 << 10

func readFormFile(header *multipart.FileHeader, limit int64) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, errUploadTooLarge
	}
	return data, nil
}

// detectMedia sniffs the content type of an upload and maps it onto a display category.
func detectMedia(data []byte) mediaInfo {
	mtype := mimetype.Detect(data)
	return mediaInfo{
		mediaType: mtype.String(),
		category:  categoryFor(mtype),
		size:      int64(len(data)),
	}
}

func categoryFor(mtype *mimetype.MIME) string {
	for m := mtype; m != nil; m = m.Parent() {
		switch {
		case strings.HasPrefix(m.String(), "image/"):
			return CategoryImage
		case strings.HasPrefix(m.String(), "video/"):
			return CategoryVideo
		case strings.HasPrefix(m.String(), "audio/"):
			return CategoryAudio
		case strings.HasPrefix(m.String(), "text/"):
			return CategoryText
		}
	}
	return CategoryOther
}

func previewText(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength])
}
