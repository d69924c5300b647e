package render

import (
	"github.com/gekko3d/scenegl/gl"
)

type rect struct {
	x, y, width, height int32
}

// glState mirrors the driver state the renderer has set. Every mutator
// below compares against it first and skips the driver call when nothing
// changes.
type glState struct {
	enabled          map[gl.Enum]bool
	blendFunc        BlendFunc
	blendEquation    BlendEquation
	cullFace         gl.Enum
	frontFace        gl.Enum
	depthMask        bool
	depthFunc        gl.Enum
	premultiplyAlpha bool
	flipY            bool
	unpackAlignment  int32
	framebuffer      gl.Framebuffer
	viewport         rect
	scissor          rect
	textureUnits     []gl.Texture
	activeTexture    int
	boundBuffer      gl.Buffer
	vertexArray      gl.VertexArray
	currentProgram   gl.Program
	currentGeometry  string
}

func defaultState(textureUnits int) glState {
	return glState{
		enabled:         make(map[gl.Enum]bool),
		blendFunc:       BlendFunc{Src: gl.ONE, Dst: gl.ZERO, SrcAlpha: gl.ONE, DstAlpha: gl.ZERO},
		blendEquation:   BlendEquation{ModeRGB: gl.FUNC_ADD, ModeAlpha: gl.FUNC_ADD},
		frontFace:       gl.CCW,
		depthMask:       true,
		depthFunc:       gl.LEQUAL,
		unpackAlignment: 4,
		viewport:        rect{width: -1, height: -1},
		scissor:         rect{width: -1, height: -1},
		textureUnits:    make([]gl.Texture, textureUnits),
	}
}

// Enable turns on a capability. Capabilities start unknown, so the first
// call for each one always reaches the driver.
func (r *Renderer) Enable(capability gl.Enum) {
	if on, ok := r.state.enabled[capability]; ok && on {
		return
	}
	r.ctx.Enable(capability)
	r.state.enabled[capability] = true
}

func (r *Renderer) Disable(capability gl.Enum) {
	if on, ok := r.state.enabled[capability]; ok && !on {
		return
	}
	r.ctx.Disable(capability)
	r.state.enabled[capability] = false
}

// SetBlendFunc uses the separate-alpha entry point only when the alpha
// factors differ from the color ones.
func (r *Renderer) SetBlendFunc(f BlendFunc) {
	if r.state.blendFunc == f {
		return
	}
	r.state.blendFunc = f
	if f.SrcAlpha == f.Src && f.DstAlpha == f.Dst {
		r.ctx.BlendFunc(f.Src, f.Dst)
	} else {
		r.ctx.BlendFuncSeparate(f.Src, f.Dst, f.SrcAlpha, f.DstAlpha)
	}
}

func (r *Renderer) SetBlendEquation(e BlendEquation) {
	if r.state.blendEquation == e {
		return
	}
	r.state.blendEquation = e
	if e.ModeAlpha == e.ModeRGB {
		r.ctx.BlendEquation(e.ModeRGB)
	} else {
		r.ctx.BlendEquationSeparate(e.ModeRGB, e.ModeAlpha)
	}
}

func (r *Renderer) SetCullFace(mode gl.Enum) {
	if r.state.cullFace == mode {
		return
	}
	r.state.cullFace = mode
	r.ctx.CullFace(mode)
}

func (r *Renderer) SetFrontFace(mode gl.Enum) {
	if r.state.frontFace == mode {
		return
	}
	r.state.frontFace = mode
	r.ctx.FrontFace(mode)
}

func (r *Renderer) SetDepthMask(flag bool) {
	if r.state.depthMask == flag {
		return
	}
	r.state.depthMask = flag
	r.ctx.DepthMask(flag)
}

func (r *Renderer) SetDepthFunc(fn gl.Enum) {
	if r.state.depthFunc == fn {
		return
	}
	r.state.depthFunc = fn
	r.ctx.DepthFunc(fn)
}

func (r *Renderer) ActiveTexture(unit int) {
	if r.state.activeTexture == unit {
		return
	}
	r.state.activeTexture = unit
	r.ctx.ActiveTexture(gl.TEXTURE0 + gl.Enum(unit))
}

func (r *Renderer) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	if r.state.framebuffer == fb {
		return
	}
	r.state.framebuffer = fb
	r.ctx.BindFramebuffer(target, fb)
}

func (r *Renderer) SetViewport(x, y, width, height int32) {
	v := rect{x, y, width, height}
	if r.state.viewport == v {
		return
	}
	r.state.viewport = v
	r.ctx.Viewport(x, y, width, height)
}

func (r *Renderer) SetScissor(x, y, width, height int32) {
	s := rect{x, y, width, height}
	if r.state.scissor == s {
		return
	}
	r.state.scissor = s
	r.ctx.Scissor(x, y, width, height)
}

func (r *Renderer) BindVertexArray(v gl.VertexArray) {
	if r.state.vertexArray == v {
		return
	}
	r.state.vertexArray = v
	r.ctx.BindVertexArray(v)
}

func (r *Renderer) bindBuffer(target gl.Enum, b gl.Buffer) {
	if r.state.boundBuffer == b {
		return
	}
	r.state.boundBuffer = b
	r.ctx.BindBuffer(target, b)
}

// bindTexture binds t on the active unit.
func (r *Renderer) bindTexture(target gl.Enum, t gl.Texture) {
	unit := r.state.activeTexture
	if unit >= len(r.state.textureUnits) {
		grown := make([]gl.Texture, unit+1)
		copy(grown, r.state.textureUnits)
		r.state.textureUnits = grown
	}
	if r.state.textureUnits[unit] == t {
		return
	}
	r.state.textureUnits[unit] = t
	r.ctx.BindTexture(target, t)
}

func (r *Renderer) boundTexture(unit int) gl.Texture {
	if unit < len(r.state.textureUnits) {
		return r.state.textureUnits[unit]
	}
	return 0
}

func (r *Renderer) setFlipY(flip bool) {
	if r.state.flipY == flip {
		return
	}
	r.state.flipY = flip
	r.ctx.PixelStorei(gl.UNPACK_FLIP_Y_WEBGL, boolInt(flip))
}

func (r *Renderer) setPremultiplyAlpha(premultiply bool) {
	if r.state.premultiplyAlpha == premultiply {
		return
	}
	r.state.premultiplyAlpha = premultiply
	r.ctx.PixelStorei(gl.UNPACK_PREMULTIPLY_ALPHA_WEBGL, boolInt(premultiply))
}

func (r *Renderer) setUnpackAlignment(alignment int32) {
	if r.state.unpackAlignment == alignment {
		return
	}
	r.state.unpackAlignment = alignment
	r.ctx.PixelStorei(gl.UNPACK_ALIGNMENT, alignment)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
