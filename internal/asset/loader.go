// Package asset loads model hierarchies asynchronously.
package asset

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/depthview/internal/engine/scene"
	"github.com/Faultbox/depthview/internal/logger"
)

// Stage names the part of a load that progressed or failed.
type Stage string

const (
	StageMaterials Stage = "materials"
	StageGeometry  Stage = "geometry"
	StageDecode    Stage = "decode"
)

// Progress reports bytes fetched for one stage.
type Progress struct {
	Stage  Stage
	Loaded int64
	Total  int64 // -1 when unknown
}

// Fraction returns Loaded/Total in [0, 1], or 0 when the total is unknown.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Loaded) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// LoadError is a failed fetch or decode.
type LoadError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s %q: %v", e.Stage, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Handle is a loaded model hierarchy.
type Handle struct {
	Root *scene.Node
}

// Lookup returns the submesh with the given name.
func (h *Handle) Lookup(name string) (*scene.Submesh, bool) {
	return h.Root.Submesh(name)
}

// Submeshes returns every submesh of the model.
func (h *Handle) Submeshes() []*scene.Submesh {
	return h.Root.Submeshes
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Handle *Handle
	Err    error
}

// Decoder turns a material library and a geometry document into submeshes.
type Decoder interface {
	Decode(materials, geometry []byte) ([]*scene.Submesh, error)
}

// Loader fetches and decodes models.
type Loader struct {
	source  Source
	decoder Decoder
	cache   *Cache
	log     *zap.Logger
}

// NewLoader creates a loader reading from src.
func NewLoader(src Source, dec Decoder) *Loader {
	return &Loader{
		source:  src,
		decoder: dec,
		cache:   NewCache(),
		log:     logger.Named("asset"),
	}
}

// Load fetches the material library and geometry concurrently, then decodes them into a
// node named rootName. Progress is sent without blocking the fetch; a slow consumer
// misses intermediate updates. progress may be nil.
func (l *Loader) Load(ctx context.Context, materialPath, geometryPath, rootName string, progress chan<- Progress) (*Handle, error) {
	var materials, geometry []byte

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := l.fetch(ctx, StageMaterials, materialPath, progress)
		materials = data
		return err
	})
	g.Go(func() error {
		data, err := l.fetch(ctx, StageGeometry, geometryPath, progress)
		geometry = data
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	submeshes, err := l.decoder.Decode(materials, geometry)
	if err != nil {
		return nil, &LoadError{Stage: StageDecode, Path: geometryPath, Err: err}
	}

	l.log.Info("model loaded",
		zap.String("root", rootName),
		zap.Int("submeshes", len(submeshes)),
		zap.Int("material_bytes", len(materials)),
		zap.Int("geometry_bytes", len(geometry)),
	)
	return &Handle{Root: &scene.Node{Name: rootName, Submeshes: submeshes}}, nil
}

// LoadAsync runs Load in a goroutine. The result channel receives exactly one value;
// the progress channel is closed when loading ends.
func (l *Loader) LoadAsync(ctx context.Context, materialPath, geometryPath, rootName string) (<-chan Result, <-chan Progress) {
	results := make(chan Result, 1)
	progress := make(chan Progress, 16)

	go func() {
		h, err := l.Load(ctx, materialPath, geometryPath, rootName, progress)
		close(progress)
		if err != nil {
			l.log.Error("model load failed", zap.Error(err))
		}
		results <- Result{Handle: h, Err: err}
	}()

	return results, progress
}

func (l *Loader) fetch(ctx context.Context, stage Stage, path string, progress chan<- Progress) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Stage: stage, Path: path, Err: err}
	}

	var mu sync.Mutex
	report := func(read, total int64) {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		select {
		case progress <- Progress{Stage: stage, Loaded: read, Total: total}:
		default:
		}
	}

	data, err := fetch(l.source, l.cache, path, report)
	if err != nil {
		return nil, &LoadError{Stage: stage, Path: path, Err: err}
	}
	return data, nil
}

// IsLoadError reports whether err is, or wraps, a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
