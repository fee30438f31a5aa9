package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"deepfake-defender/backend/internal/api"
	"deepfake-defender/backend/internal/heatmap"
)

func main() {
	configureLogging()

	baseDir, err := os.Getwd()
	if err != nil {
		logrus.Fatalf("determine working directory: %v", err)
	}

	disableHistory := strings.EqualFold(strings.TrimSpace(os.Getenv("DISABLE_HISTORY")), "true")

	dbPath := filepath.Join(baseDir, "data", "deepfake-defender.db")
	if override := strings.TrimSpace(os.Getenv("DEEPFAKE_DB_PATH")); override != "" {
		dbPath = override
	}
	if !disableHistory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			logrus.Fatalf("create data directory: %v", err)
		}
	}

	knownEventsPath := filepath.Join(baseDir, "internal", "scoring", "known_events.json")
	if override := strings.TrimSpace(os.Getenv("KNOWN_EVENTS_PATH")); override != "" {
		knownEventsPath = override
	}

	maxUpload := api.DefaultMaxUploadBytes
	if v := strings.TrimSpace(os.Getenv("MAX_UPLOAD_BYTES")); v != "" {
		if val, err := strconv.ParseInt(v, 10, 64); err == nil && val > 0 {
			maxUpload = val
		} else {
			logrus.WithField("value", v).Warn("ignoring invalid MAX_UPLOAD_BYTES")
		}
	}

	renderer := heatmap.Renderer{
		Width:     envInt("HEATMAP_WIDTH", heatmap.DefaultWidth),
		Height:    envInt("HEATMAP_HEIGHT", heatmap.DefaultHeight),
		BlurSigma: heatmap.DefaultBlurSigma,
	}
	if v := strings.TrimSpace(os.Getenv("HEATMAP_BLUR")); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val >= 0 {
			renderer.BlurSigma = val
		}
	}

	allowedOrigins := []string{
		"http://localhost:8501",
		"http://127.0.0.1:8501",
		"http://localhost:5173",
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		allowedOrigins = splitList(v)
	}

	cfg := api.Config{
		DBPath:          dbPath,
		DisableHistory:  disableHistory,
		SilentDB:        true,
		KnownEventsPath: knownEventsPath,
		MaxUploadBytes:  maxUpload,
		AllowedOrigins:  allowedOrigins,
		Heatmap:         renderer,
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}
	defer func() {
		if cerr := server.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close database")
		}
	}()

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8501"
	}

	logrus.WithFields(logrus.Fields{
		"history":    !disableHistory,
		"max_upload": maxUpload,
		"heatmap":    strconv.Itoa(renderer.Width) + "x" + strconv.Itoa(renderer.Height),
	}).Infof("starting deepfake-defender backend on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}

func configureLogging() {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			logrus.WithError(err).Warn("ignoring invalid LOG_LEVEL")
			return
		}
		logrus.SetLevel(level)
	}
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	val, err := strconv.Atoi(v)
	if err != nil || val <= 0 {
		logrus.WithField(key, v).Warn("ignoring invalid integer setting")
		return fallback
	}
	return val
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
