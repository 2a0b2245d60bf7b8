package viewer

import (
	"fmt"
	"time"

	"github.com/Faultbox/depthview/internal/engine/camera"
	"github.com/Faultbox/depthview/internal/engine/scene"
)

type fakeTarget struct {
	backend  *fakeBackend
	w, h     int
	depthTex uint32
	disposed bool
}

func (t *fakeTarget) Size() (int, int)     { return t.w, t.h }
func (t *fakeTarget) DepthTexture() uint32 { return t.depthTex }
func (t *fakeTarget) Dispose() {
	if !t.disposed {
		t.disposed = true
		t.backend.live--
	}
}

// fakeBackend records the draw sequence as strings.
type fakeBackend struct {
	ops       []string
	current   RenderTarget
	live      int
	maxLive   int
	allocated []*fakeTarget
	opts      []TargetOptions
	nextTex   uint32
	failNew   error
	// sampled records the depth texture bound when the visualization quad is drawn.
	sampled []uint32
}

func (b *fakeBackend) SetRenderTarget(t RenderTarget) {
	b.current = t
	if t == nil {
		b.ops = append(b.ops, "target:display")
		return
	}
	b.ops = append(b.ops, fmt.Sprintf("target:%d", t.DepthTexture()))
}

func (b *fakeBackend) Render(s *scene.Scene, _ camera.Camera) error {
	if n, ok := s.Node("depth_quad"); ok {
		u := n.Submeshes[0].Materials[0].Depth()
		b.sampled = append(b.sampled, u.Texture)
		b.ops = append(b.ops, "render:quad")
		return nil
	}
	b.ops = append(b.ops, "render:scene")
	return nil
}

func (b *fakeBackend) NewRenderTarget(w, h int, opts TargetOptions) (RenderTarget, error) {
	if b.failNew != nil {
		return nil, b.failNew
	}
	b.nextTex++
	t := &fakeTarget{backend: b, w: w, h: h, depthTex: b.nextTex}
	b.live++
	if b.live > b.maxLive {
		b.maxLive = b.live
	}
	b.allocated = append(b.allocated, t)
	b.opts = append(b.opts, opts)
	return t, nil
}

type fakeDisplay struct {
	w, h      int
	ratio     float64
	listeners []func()
}

func (d *fakeDisplay) ClientSize() (int, int) { return d.w, d.h }
func (d *fakeDisplay) PixelRatio() float64    { return d.ratio }
func (d *fakeDisplay) OnResize(fn func())     { d.listeners = append(d.listeners, fn) }

func (d *fakeDisplay) resize(w, h int) {
	d.w, d.h = w, h
	for _, fn := range d.listeners {
		fn()
	}
}

type fakeSurface struct {
	w, h  int
	ratio float64
	calls int
}

func (s *fakeSurface) SetSize(w, h int) {
	s.w, s.h = w, h
	s.calls++
}
func (s *fakeSurface) SetPixelRatio(r float64) { s.ratio = r }

// fakeRefresh fires the installed callback on demand, like a vsync signal.
type fakeRefresh struct {
	fn       func(time.Time)
	installs int
	now      time.Time
}

func (r *fakeRefresh) SetAnimationLoop(fn func(time.Time)) {
	r.fn = fn
	if fn != nil {
		r.installs++
	}
}

func (r *fakeRefresh) fire(n int, interval time.Duration) {
	for i := 0; i < n; i++ {
		r.now = r.now.Add(interval)
		if r.fn != nil {
			r.fn(r.now)
		}
	}
}

type recordingUpdatable struct {
	name   string
	log    *[]string
	deltas []time.Duration
}

func (u *recordingUpdatable) Tick(d time.Duration) {
	u.deltas = append(u.deltas, d)
	*u.log = append(*u.log, "tick:"+u.name)
}

// testModel builds a node with single-slot submeshes named after names.
func testModel(names ...string) *scene.Node {
	n := &scene.Node{Name: "scene_root"}
	for _, name := range names {
		def := scene.NewMaterial("Default", scene.ShadingPhysical, scene.DefaultMaterialParams())
		n.Submeshes = append(n.Submeshes, scene.NewSubmesh(name, &scene.Geometry{}, def))
	}
	return n
}
