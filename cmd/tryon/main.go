// Command tryon classifies the face in a photo and renders a glasses overlay
// onto it without running the server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/asset"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/catalog"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/config"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/face"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/overlay"
)

type output struct {
	Classification faceshape.Result  `json:"classification"`
	Placement      *overlay.Placement `json:"placement"`
	Suggestions    []string           `json:"suggestions"`
	Output         string             `json:"output,omitempty"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	photoPath := flag.String("photo", "", "Photo to classify (required)")
	framePath := flag.String("frame", "", "Glasses overlay image, a path, URL or data URL")
	landmarksPath := flag.String("landmarks", "", "JSON file with normalized landmarks; detected when empty")
	providerName := flag.String("provider", "mock", "Landmark provider when -landmarks is empty: mock or mediapipe")
	landmarkURL := flag.String("landmark-url", "http://localhost:5006", "Face-mesh sidecar URL")
	outPath := flag.String("out", "tryon.png", "Where to write the composite")
	flag.Parse()

	if *photoPath == "" {
		flag.Usage()
		return errors.New("-photo is required")
	}

	logger := config.NewLoggerTo(os.Stderr, "cli")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	data, err := os.ReadFile(*photoPath)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}
	photo, err := asset.Decode(data)
	if err != nil {
		return err
	}

	landmarks, err := loadLandmarks(ctx, *landmarksPath, *providerName, *landmarkURL, data)
	if err != nil {
		return err
	}

	result := faceshape.Classify(landmarks, photo.Width, photo.Height)
	logger.Debug("face shape scores", slog.Any("scores", result.Scores))

	out := output{
		Classification: result,
		Suggestions:    []string{},
	}
	for _, f := range catalog.Suggest(result.Shape, catalog.Builtin()) {
		out.Suggestions = append(out.Suggestions, f.ID)
	}

	if *framePath != "" {
		glasses, err := asset.NewLoader(".").Load(ctx, *framePath)
		if err != nil {
			return fmt.Errorf("load frame: %w", err)
		}

		composite, placement := overlay.Render(photo.Image, glasses.Image, landmarks)
		encoded, err := asset.EncodePNG(composite)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*outPath, encoded, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		out.Placement = placement
		out.Output = *outPath
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func loadLandmarks(ctx context.Context, path, providerName, url string, photo []byte) ([]faceshape.Point, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read landmarks: %w", err)
		}
		var points []faceshape.Point
		if err := json.Unmarshal(raw, &points); err != nil {
			return nil, fmt.Errorf("decode landmarks: %w", err)
		}
		return points, nil
	}

	detector, err := face.NewLandmarkDetector(&config.Config{
		LandmarkProvider: providerName,
		LandmarkURL:      url,
	})
	if err != nil {
		return nil, err
	}
	points, err := detector.Detect(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("detect landmarks: %w", err)
	}
	return points, nil
}
