package render

import (
	"errors"
	"sort"

	"github.com/gekko3d/scenegl"
	"github.com/gekko3d/scenegl/gl"
)

var ErrNoContext = errors.New("render: no gl context")

// Options configures NewRenderer.
type Options struct {
	Logger scenegl.Logger
	// Width and Height are in CSS-style pixels; the viewport is scaled by DPR.
	Width, Height int
	DPR           float32

	DisableDepth       bool
	Stencil            bool
	PremultipliedAlpha bool
	DisableAutoClear   bool
	// RestrictedNPOT is for drivers without full non-power-of-two texture
	// support (GLES 2, WebGL 1). Such textures then lose mipmaps and repeat
	// wrapping.
	RestrictedNPOT bool

	Profiler *Profiler
}

type Parameters struct {
	MaxTextureUnits  int32
	MaxTextureSize   int32
	MaxVertexAttribs int32
	RestrictedNPOT   bool
}

// RenderParams describes one frame. Scene and Camera are nodes of Graph;
// Camera may be zero. Target nil renders to the default framebuffer.
type RenderParams struct {
	Graph  *Graph
	Scene  NodeID
	Camera NodeID
	Target *RenderTarget

	SkipUpdate      bool
	SkipSort        bool
	SkipFrustumCull bool
	SkipDraw        bool
	// Clear overrides AutoClear when set.
	Clear *bool
}

// Renderer owns the GL context and the single cache of driver state. It is
// not safe for concurrent use; call it from the thread that owns the context.
type Renderer struct {
	Width, Height      int
	DPR                float32
	Color              bool
	Depth              bool
	Stencil            bool
	AutoClear          bool
	PremultipliedAlpha bool

	ctx          gl.Context
	logger       scenegl.Logger
	programWarn  *scenegl.WarnLimiter
	geometryWarn *scenegl.WarnLimiter
	profiler     *Profiler

	state      glState
	params     Parameters
	extensions map[string]bool
	lost       bool
	npot       bool

	ids       int
	resources map[ResourceID]resource

	lastGraph *Graph
	lastScene NodeID
	drawCalls int

	uniformCache map[gl.Program]map[int32]*cachedUniform
	scratchF     []float32
	scratchI     []int32
	scratchUnits []int32
}

func NewRenderer(ctx gl.Context, opts Options) (*Renderer, error) {
	if ctx == nil {
		return nil, ErrNoContext
	}
	logger := opts.Logger
	if logger == nil {
		logger = scenegl.NewDefaultLogger("scenegl", false)
	}
	r := &Renderer{
		Width:              opts.Width,
		Height:             opts.Height,
		DPR:                opts.DPR,
		Color:              true,
		Depth:              !opts.DisableDepth,
		Stencil:            opts.Stencil,
		AutoClear:          !opts.DisableAutoClear,
		PremultipliedAlpha: opts.PremultipliedAlpha,
		ctx:                ctx,
		logger:             logger,
		programWarn:        scenegl.NewWarnLimiter(logger, "program", scenegl.DefaultWarnLimit),
		geometryWarn:       scenegl.NewWarnLimiter(logger, "geometry", scenegl.DefaultWarnLimit),
		profiler:           opts.Profiler,
		npot:               !opts.RestrictedNPOT,
		resources:          make(map[ResourceID]resource),
		uniformCache:       make(map[gl.Program]map[int32]*cachedUniform),
	}
	if r.Width <= 0 {
		r.Width = 300
	}
	if r.Height <= 0 {
		r.Height = 150
	}
	if r.DPR <= 0 {
		r.DPR = 1
	}
	if r.profiler == nil {
		r.profiler = NewProfiler()
	}
	r.discover()
	r.resetState()
	return r, nil
}

// discover queries extensions and implementation limits.
func (r *Renderer) discover() {
	r.extensions = make(map[string]bool)
	for _, ext := range r.ctx.Extensions() {
		r.extensions[ext] = true
	}
	r.params = Parameters{
		MaxTextureUnits:  r.ctx.GetInteger(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS),
		MaxTextureSize:   r.ctx.GetInteger(gl.MAX_TEXTURE_SIZE),
		MaxVertexAttribs: r.ctx.GetInteger(gl.MAX_VERTEX_ATTRIBS),
		RestrictedNPOT:   !r.npot,
	}
	r.logger.Debugf("%d extensions, %d texture units", len(r.extensions), r.params.MaxTextureUnits)
}

// resetState forgets all cached driver state. The driver's depth func
// default (LESS) differs from the cache default, so it is set explicitly.
func (r *Renderer) resetState() {
	units := int(r.params.MaxTextureUnits)
	if units <= 0 {
		units = 16
	}
	r.state = defaultState(units)
	r.uniformCache = make(map[gl.Program]map[int32]*cachedUniform)
	r.ctx.DepthFunc(r.state.depthFunc)
}

func (r *Renderer) Context() gl.Context { return r.ctx }

func (r *Renderer) Logger() scenegl.Logger { return r.logger }

func (r *Renderer) Profiler() *Profiler { return r.profiler }

func (r *Renderer) Parameters() Parameters { return r.params }

func (r *Renderer) HasExtension(name string) bool { return r.extensions[name] }

// Extensions returns the supported extension names, sorted.
func (r *Renderer) Extensions() []string {
	out := make([]string, 0, len(r.extensions))
	for ext := range r.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// SetSize sets the drawing buffer size in unscaled pixels.
func (r *Renderer) SetSize(width, height int) {
	r.Width, r.Height = width, height
}

// DrawCalls is the number of draw calls issued by the last Render.
func (r *Renderer) DrawCalls() int { return r.drawCalls }

// LastScene returns the graph and root node passed to the last Render.
func (r *Renderer) LastScene() (*Graph, NodeID) { return r.lastGraph, r.lastScene }

// LoseContext marks the context lost. Render does nothing until
// RestoreContext is called.
func (r *Renderer) LoseContext() {
	if r.lost {
		return
	}
	r.lost = true
	r.logger.Warnf("gl context lost")
}

// RestoreContext marks the context live again and re-runs capability
// discovery. Cached driver state is dropped.
func (r *Renderer) RestoreContext() {
	if !r.lost {
		return
	}
	r.lost = false
	r.discover()
	r.resetState()
	r.logger.Infof("gl context restored")
}

func (r *Renderer) IsContextLost() bool { return r.lost }

// Render draws one frame and returns the render list. While the context is
// lost it returns nil without touching the driver.
func (r *Renderer) Render(p RenderParams) []*Mesh {
	if r.lost || p.Graph == nil {
		return nil
	}
	r.drawCalls = 0
	r.profiler.BeginFrame()

	r.profiler.BeginScope("prep")
	r.prepRender(p)
	r.profiler.EndScope("prep")

	camera := p.Graph.Camera(p.Camera)

	r.profiler.BeginScope("list")
	list := r.RenderList(p.Graph, p.Scene, camera, !p.SkipFrustumCull, !p.SkipSort)
	r.profiler.EndScope("list")

	if !p.SkipDraw {
		r.profiler.BeginScope("draw")
		for _, m := range list {
			if err := m.Draw(camera); err != nil {
				r.programWarn.Warnf("mesh %d not drawn: %v", m.node.id, err)
			}
		}
		r.profiler.EndScope("draw")
	}

	r.lastGraph, r.lastScene = p.Graph, p.Scene

	stats := r.Resources()
	r.profiler.SetCount("drawCalls", r.drawCalls)
	r.profiler.SetCount("renderList", len(list))
	r.profiler.SetCount("programs", stats.Programs)
	r.profiler.SetCount("geometries", stats.Geometries)
	r.profiler.SetCount("textures", stats.Textures)
	r.profiler.EndFrame(r.drawCalls, len(list))
	return list
}

// prepRender binds the target, clears, and updates world matrices.
func (r *Renderer) prepRender(p RenderParams) {
	if p.Target == nil {
		r.BindFramebuffer(gl.FRAMEBUFFER, 0)
		r.SetViewport(0, 0, int32(float32(r.Width)*r.DPR), int32(float32(r.Height)*r.DPR))
	} else {
		r.BindFramebuffer(p.Target.Target, p.Target.buffer)
		r.SetViewport(0, 0, int32(p.Target.Width), int32(p.Target.Height))
	}

	clear := r.AutoClear
	if p.Clear != nil {
		clear = *p.Clear
	}
	if clear {
		// A depth clear only takes effect with depth writes enabled.
		if r.Depth && (p.Target == nil || p.Target.Depth) {
			r.Enable(gl.DEPTH_TEST)
			r.SetDepthMask(true)
		}
		var mask gl.Enum
		if r.Color {
			mask |= gl.COLOR_BUFFER_BIT
		}
		if r.Depth {
			mask |= gl.DEPTH_BUFFER_BIT
		}
		if r.Stencil {
			mask |= gl.STENCIL_BUFFER_BIT
		}
		r.ctx.Clear(mask)
	}

	if p.SkipUpdate {
		return
	}
	p.Graph.UpdateMatrixWorld(p.Scene, false)
	if p.Camera != 0 && p.Camera != p.Scene && p.Graph.Parent(p.Camera) == 0 {
		p.Graph.UpdateMatrixWorld(p.Camera, false)
	}
}
