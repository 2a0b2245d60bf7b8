// Package renderer draws scene graphs with OpenGL 4.1.
package renderer

import (
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/depthview/internal/engine/camera"
	"github.com/Faultbox/depthview/internal/engine/framebuffer"
	"github.com/Faultbox/depthview/internal/engine/scene"
	"github.com/Faultbox/depthview/internal/engine/shader"
	"github.com/Faultbox/depthview/internal/engine/texture"
	"github.com/Faultbox/depthview/internal/logger"
	"github.com/Faultbox/depthview/internal/viewer"
)

// Config holds renderer configuration.
type Config struct {
	// TextureRoot resolves relative material map paths.
	TextureRoot string
}

// Renderer implements viewer.Backend and viewer.Surface on the current GL context.
type Renderer struct {
	config Config

	lit      *shader.Program
	basic    *shader.Program
	depthVis *shader.Program

	meshes   map[*scene.Geometry]*gpuMesh
	textures *textureCache

	target *framebuffer.Target
	width  int
	height int
	ratio  float64

	log *zap.Logger
}

// New creates a renderer.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		config: cfg,
		meshes: make(map[*scene.Geometry]*gpuMesh),
		ratio:  1,
		log:    logger.Named("renderer"),
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	var err error
	if r.lit, err = shader.Load("lit", "scene.vert", "lit.frag"); err != nil {
		return nil, err
	}
	if r.basic, err = shader.Load("basic", "scene.vert", "basic.frag"); err != nil {
		r.Close()
		return nil, err
	}
	if r.depthVis, err = shader.Load("depth_vis", "depth_vis.vert", "depth_vis.frag"); err != nil {
		r.Close()
		return nil, err
	}

	r.textures = newTextureCache(cfg.TextureRoot, r.log)
	return r, nil
}

// Close releases every GL resource owned by the renderer.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, m := range r.meshes {
		m.release()
	}
	r.meshes = map[*scene.Geometry]*gpuMesh{}
	if r.textures != nil {
		r.textures.release()
	}
	for _, p := range []*shader.Program{r.lit, r.basic, r.depthVis} {
		if p != nil {
			p.Delete()
		}
	}
}

// SetSize sets the logical drawable size.
func (r *Renderer) SetSize(width, height int) {
	r.width, r.height = width, height
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// SetPixelRatio sets physical pixels per logical unit.
func (r *Renderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	r.ratio = ratio
}

// DrawableSize returns the display size in physical pixels.
func (r *Renderer) DrawableSize() (width, height int) {
	return int(math.Round(float64(r.width) * r.ratio)), int(math.Round(float64(r.height) * r.ratio))
}

// NewRenderTarget allocates an off-screen framebuffer.
func (r *Renderer) NewRenderTarget(width, height int, opts viewer.TargetOptions) (viewer.RenderTarget, error) {
	fbOpts := framebuffer.DefaultOptions()
	if opts.Filter == viewer.FilterLinear {
		fbOpts.Filter = gl.LINEAR
	}
	if opts.DepthFormat == viewer.DepthUnsigned24 {
		fbOpts.DepthFormat = gl.DEPTH_COMPONENT24
	}
	t, err := framebuffer.New(width, height, fbOpts)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SetRenderTarget directs subsequent renders to t, or to the display when t is nil.
// Targets must come from NewRenderTarget.
func (r *Renderer) SetRenderTarget(t viewer.RenderTarget) {
	if t == nil {
		r.target = nil
		return
	}
	fb, ok := t.(*framebuffer.Target)
	if !ok {
		r.log.Error("foreign render target ignored", zap.String("type", fmt.Sprintf("%T", t)))
		r.target = nil
		return
	}
	r.target = fb
}

// Render clears the current target and draws every visible submesh of s.
func (r *Renderer) Render(s *scene.Scene, cam camera.Camera) error {
	if s == nil || cam == nil {
		return fmt.Errorf("render: nil scene or camera")
	}

	if r.target != nil {
		r.target.Bind()
	} else {
		framebuffer.Unbind()
		w, h := r.DrawableSize()
		gl.Viewport(0, 0, int32(w), int32(h))
	}

	bg := scene.Black
	if s.HasBackground {
		bg = s.Background
	}
	gl.ClearColor(bg.R, bg.G, bg.B, 1)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	frame := newFrameState(s, cam)

	s.Walk(func(n *scene.Node, sm *scene.Submesh) {
		if sm.Geometry == nil || len(sm.Geometry.Indices) == 0 {
			return
		}
		mesh := r.mesh(sm.Geometry)
		model := mgl32.Translate3D(
			n.Position[0]+sm.Position[0],
			n.Position[1]+sm.Position[1],
			n.Position[2]+sm.Position[2],
		)

		gl.BindVertexArray(mesh.vao)
		for _, g := range sm.Geometry.DrawGroups() {
			mat := sm.MaterialFor(g.Slot)
			if mat == nil || g.Count == 0 {
				continue
			}
			r.draw(frame, mat, model, g)
		}
	})

	gl.BindVertexArray(0)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.Disable(gl.BLEND)
	return nil
}

// frameState holds per-render values shared by every draw.
type frameState struct {
	view, proj mgl32.Mat4
	eye        mgl32.Vec3
	ambient    mgl32.Vec3
	lightDir   mgl32.Vec3
	lightColor mgl32.Vec3
}

func newFrameState(s *scene.Scene, cam camera.Camera) frameState {
	f := frameState{
		view:     cam.ViewMatrix(),
		proj:     cam.ProjectionMatrix(),
		lightDir: mgl32.Vec3{0, -1, 0},
	}
	f.eye = f.view.Inv().Col(3).Vec3()

	directional := false
	for _, l := range s.Lights {
		c := mgl32.Vec3{l.Color.R, l.Color.G, l.Color.B}.Mul(l.Intensity)
		if l.Ambient() {
			f.ambient = f.ambient.Add(c)
			continue
		}
		if !directional {
			f.lightDir = mgl32.Vec3(l.Direction).Normalize()
			f.lightColor = c
			directional = true
		}
	}
	return f
}

func (r *Renderer) draw(f frameState, mat *scene.Material, model mgl32.Mat4, g scene.Group) {
	p := mat.Params()

	var prog *shader.Program
	switch mat.Shading() {
	case scene.ShadingDepthVisualization:
		prog = r.depthVis
	case scene.ShadingBasic:
		prog = r.basic
	default:
		prog = r.lit
	}
	prog.Use()
	prog.SetMat4("uView", (*[16]float32)(&f.view))
	prog.SetMat4("uProjection", (*[16]float32)(&f.proj))

	if mat.Shading() == scene.ShadingDepthVisualization {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		gl.Disable(gl.BLEND)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, mat.Depth().Texture)
		prog.SetInt("depthTex", 0)
		drawGroup(g)
		return
	}

	prog.SetMat4("uModel", (*[16]float32)(&model))
	prog.SetVec3("uColor", p.Color.R, p.Color.G, p.Color.B)
	prog.SetFloat("uOpacity", p.Opacity)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.textures.get(p.Map))
	prog.SetInt("uMap", 0)
	ru, rv := float32(1), float32(1)
	if p.Map != nil {
		ru, rv = p.Map.Repeat()
	}
	prog.SetVec2("uMapRepeat", ru, rv)

	if prog == r.lit {
		prog.SetFloat("uRoughness", p.Roughness)
		prog.SetFloat("uMetalness", p.Metalness)
		prog.SetFloat("uClearcoat", p.Clearcoat)
		prog.SetFloat("uReflectivity", p.Reflectivity)
		prog.SetVec3("uCameraPos", f.eye[0], f.eye[1], f.eye[2])
		prog.SetVec3("uAmbient", f.ambient[0], f.ambient[1], f.ambient[2])
		prog.SetVec3("uLightDir", f.lightDir[0], f.lightDir[1], f.lightDir[2])
		prog.SetVec3("uLightColor", f.lightColor[0], f.lightColor[1], f.lightColor[2])
	}

	if p.Transparent || p.Opacity < 1 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	} else {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}

	if p.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	drawGroup(g)
	gl.DepthMask(true)
}

func drawGroup(g scene.Group) {
	gl.DrawElements(gl.TRIANGLES, g.Count, gl.UNSIGNED_INT, gl.PtrOffset(int(g.Start)*4))
}

// ReadPixels reads the display framebuffer as a top-down RGBA image.
func (r *Renderer) ReadPixels() *image.RGBA {
	w, h := r.DrawableSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img
	}

	framebuffer.Unbind()
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	texture.FlipVertical(img)
	return img
}

// textureCache uploads material maps once per path. Missing or undecodable files
// fall back to a white texture and are reported once.
type textureCache struct {
	root  string
	white uint32
	byKey map[string]uint32
	log   *zap.Logger
}

func newTextureCache(root string, log *zap.Logger) *textureCache {
	return &textureCache{
		root:  root,
		white: texture.White(),
		byKey: make(map[string]uint32),
		log:   log,
	}
}

func (c *textureCache) get(ref *scene.TextureRef) uint32 {
	if ref == nil || ref.Path == "" {
		return c.white
	}
	key := fmt.Sprintf("%s|%t", ref.Path, ref.SRGB)
	if id, ok := c.byKey[key]; ok {
		return id
	}

	path := ref.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.root, path)
	}
	img, err := texture.Load(path)
	if err != nil {
		c.log.Warn("texture unavailable, using white", zap.String("path", path), zap.Error(err))
		c.byKey[key] = c.white
		return c.white
	}

	id := texture.Upload(img, ref.SRGB)
	c.byKey[key] = id
	c.log.Debug("texture uploaded", zap.String("path", path), zap.Int("width", img.Bounds().Dx()))
	return id
}

func (c *textureCache) release() {
	for key, id := range c.byKey {
		if id != c.white {
			gl.DeleteTextures(1, &id)
		}
		delete(c.byKey, key)
	}
	if c.white != 0 {
		gl.DeleteTextures(1, &c.white)
		c.white = 0
	}
}
