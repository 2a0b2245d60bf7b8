package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	img   *image.RGBA
	reads int
}

func (s *stubSource) ReadPixels() *image.RGBA {
	s.reads++
	return s.img
}

func TestScreenshotsServeRequestOnce(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.SetRGBA(1, 1, color.RGBA{R: 200, A: 255})
	src := &stubSource{img: img}

	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(src, dir, "depthview")
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	s.AfterFrame()
	assert.Zero(t, src.reads, "nothing requested")

	s.Request()
	assert.True(t, s.Pending())
	s.AfterFrame()
	s.AfterFrame()
	assert.Equal(t, 1, src.reads)
	assert.False(t, s.Pending())

	path := filepath.Join(dir, "depthview_2024-05-01_12-30-00.000.png")
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
	r, _, _, _ := decoded.At(1, 1).RGBA()
	assert.Equal(t, uint32(200)<<8|200, r)
}

func TestScreenshotsRejectEmptyFrame(t *testing.T) {
	s := NewScreenshots(&stubSource{}, t.TempDir(), "x")
	_, err := s.Save(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)
}
