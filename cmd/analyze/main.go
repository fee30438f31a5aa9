package main

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"deepfake-defender/backend/internal/heatmap"
	"deepfake-defender/backend/internal/scoring"
)

func main() {
	var (
		text        = flag.String("text", "", "Text snippet to analyze")
		filePath    = flag.String("file", "", "Image, video or other binary file to analyze")
		filename    = flag.String("filename", "", "Filename hint (defaults to the base name of -file)")
		heatmapOut  = flag.String("heatmap", "", "Optional path to write a PNG heatmap for -file")
		knownEvents = flag.String("known-events", "", "JSON array of extra known true event phrases")
	)
	flag.Parse()

	textSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "text" {
			textSet = true
		}
	})
	if textSet == (*filePath != "") {
		logrus.Fatalf("exactly one of -text or -file is required")
	}
	if *heatmapOut != "" && *filePath == "" {
		logrus.Fatalf("-heatmap requires -file")
	}

	events, err := scoring.LoadKnownEvents(strings.TrimSpace(*knownEvents))
	if err != nil {
		logrus.Fatalf("load known events: %v", err)
	}
	scorer := scoring.NewScorer(events)

	var in scoring.Input
	if textSet {
		in = scoring.TextInput(*text, *filename)
	} else {
		data, err := os.ReadFile(*filePath)
		if err != nil {
			logrus.Fatalf("read input: %v", err)
		}
		hint := *filename
		if hint == "" {
			hint = filepath.Base(*filePath)
		}
		in = scoring.BytesInput(data, hint)

		if *heatmapOut != "" {
			png, err := heatmap.Renderer{}.RenderPNG(data)
			if err != nil {
				logrus.Fatalf("render heatmap: %v", err)
			}
			if err := os.WriteFile(*heatmapOut, png, 0o644); err != nil {
				logrus.Fatalf("write heatmap: %v", err)
			}
			logrus.WithField("path", *heatmapOut).Info("heatmap written")
		}
	}

	result := scorer.Analyze(in)
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		logrus.Fatalf("encode result: %v", err)
	}
}
