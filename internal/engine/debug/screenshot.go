// Package debug provides developer tooling for the viewer.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/depthview/internal/logger"
)

// PixelSource reads back the last drawn frame.
type PixelSource interface {
	ReadPixels() *image.RGBA
}

// Screenshots saves frames as timestamped PNG files. Capture requests are queued
// and served after the next frame is drawn, before the buffers are swapped.
type Screenshots struct {
	outputDir string
	prefix    string
	source    PixelSource
	pending   bool
	now       func() time.Time

	log *zap.Logger
}

// NewScreenshots creates a screenshot writer for source.
func NewScreenshots(source PixelSource, outputDir, prefix string) *Screenshots {
	return &Screenshots{
		outputDir: outputDir,
		prefix:    prefix,
		source:    source,
		now:       time.Now,
		log:       logger.Named("screenshot"),
	}
}

// Request queues a capture of the next frame.
func (s *Screenshots) Request() {
	s.pending = true
}

// Pending reports whether a capture is queued.
func (s *Screenshots) Pending() bool {
	return s.pending
}

// AfterFrame serves a queued capture. It is meant as a frame loop hook.
func (s *Screenshots) AfterFrame() {
	if !s.pending {
		return
	}
	s.pending = false

	filename, err := s.Save(s.source.ReadPixels())
	if err != nil {
		s.log.Error("screenshot failed", zap.Error(err))
		return
	}
	s.log.Info("screenshot saved", zap.String("file", filename))
}

// Save writes img to a new file and returns its path.
func (s *Screenshots) Save(img image.Image) (string, error) {
	if b := img.Bounds(); b.Empty() {
		return "", fmt.Errorf("empty frame %dx%d", b.Dx(), b.Dy())
	}

	if s.outputDir != "" {
		if err := os.MkdirAll(s.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := s.filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	return filename, nil
}

func (s *Screenshots) filename() string {
	timestamp := s.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.png", s.prefix, timestamp)
	if s.outputDir != "" {
		filename = filepath.Join(s.outputDir, filename)
	}
	return filename
}
