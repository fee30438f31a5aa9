package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"deepfake-defender/backend/internal/heatmap"
	"deepfake-defender/backend/internal/scoring"
	"deepfake-defender/backend/internal/store"
)

// DefaultMaxUploadBytes caps uploaded files when no limit is configured.
const DefaultMaxUploadBytes int64 = 50 << 20

// ErrHistoryDisabled is returned by history endpoints when persistence is off.
var ErrHistoryDisabled = errors.New("analysis history is disabled")

// Config defines server dependencies.
type Config struct {
	DBPath          string
	DisableHistory  bool
	SilentDB        bool
	KnownEventsPath string
	MaxUploadBytes  int64
	AllowedOrigins  []string
	Heatmap         heatmap.Renderer
}

// Server wires HTTP handlers with scoring, rendering and persistence.
type Server struct {
	db             *store.Database
	scorer         *scoring.Scorer
	renderer       heatmap.Renderer
	notifier       *AnalysisNotifier
	allowedOrigins []string
	maxUpload      int64
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.Heatmap.Validate(); err != nil {
		return nil, fmt.Errorf("heatmap renderer: %w", err)
	}

	events, err := scoring.LoadKnownEvents(cfg.KnownEventsPath)
	if err != nil {
		logrus.WithError(err).WithField("path", cfg.KnownEventsPath).Warn("falling back to default known events")
		events = scoring.DefaultKnownEvents()
	}
	logrus.WithField("known_events", events.Len()).Info("known event allow-list ready")

	var db *store.Database
	if cfg.DisableHistory {
		logrus.Info("analysis history disabled via configuration")
	} else {
		if strings.TrimSpace(cfg.DBPath) == "" {
			return nil, errors.New("db path required")
		}
		db, err = store.Open(cfg.DBPath, cfg.SilentDB)
		if err != nil {
			return nil, err
		}
	}

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	return &Server{
		db:             db,
		scorer:         scoring.NewScorer(events),
		renderer:       cfg.Heatmap,
		notifier:       NewAnalysisNotifier(),
		allowedOrigins: cfg.AllowedOrigins,
		maxUpload:      maxUpload,
	}, nil
}

// Close releases the history database, if any.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Notifier exposes the websocket broadcaster.
func (s *Server) Notifier() *AnalysisNotifier {
	return s.notifier
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), metricsMiddleware())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(corsCfg))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/config", s.handleConfig)
		api.POST("/analyze/text", s.handleAnalyzeText)
		api.POST("/analyze/file", s.handleAnalyzeFile)
		api.POST("/heatmap", s.handleHeatmap)
		api.GET("/analyses", s.handleListAnalyses)
		api.GET("/analyses/summary", s.handleSummary)
		api.GET("/analyses/:id", s.handleGetAnalysis)
		api.GET("/export.csv", s.handleExportCSV)
		api.GET("/export.json", s.handleExportJSON)
		api.GET("/stream", s.handleStream)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	renderer := s.renderer
	if renderer.Width == 0 {
		renderer.Width = heatmap.DefaultWidth
	}
	if renderer.Height == 0 {
		renderer.Height = heatmap.DefaultHeight
	}
	if renderer.BlurSigma == 0 {
		renderer.BlurSigma = heatmap.DefaultBlurSigma
	}

	c.JSON(http.StatusOK, ConfigResponse{
		KnownEvents: s.scorer.KnownEvents().Phrases(),
		Thresholds: map[string]scoring.Thresholds{
			string(scoring.KindText):  scoring.ThresholdsFor(scoring.KindText),
			string(scoring.KindBytes): scoring.ThresholdsFor(scoring.KindBytes),
		},
		TimelineSegments: scoring.TimelineSegments,
		MaxUploadBytes:   s.maxUpload,
		HistoryEnabled:   s.db != nil,
		Heatmap: HeatmapConfigDTO{
			Width:     renderer.Width,
			Height:    renderer.Height,
			BlurSigma: renderer.BlurSigma,
		},
	})
}

func (s *Server) handleStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				return true
			}
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("analysis websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("analysis websocket closed")
			} else {
				logrus.WithError(err).Warn("analysis websocket unexpected close")
			}
			break
		}
	}
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseUintParam(value string) (uint, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errors.New("identifier is required")
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier: %w", err)
	}
	if parsed == 0 {
		return 0, errors.New("identifier must be greater than zero")
	}
	return uint(parsed), nil
}
