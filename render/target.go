package render

import (
	"fmt"

	"github.com/gekko3d/scenegl/gl"
)

type RenderTargetOptions struct {
	Width, Height int
	// Color is the number of color attachments, default 1.
	Color     int
	NoDepth   bool
	MinFilter gl.Enum
	MagFilter gl.Enum
	Label     string
}

// RenderTarget is an offscreen framebuffer with one or more color textures
// and an optional depth renderbuffer.
type RenderTarget struct {
	ID            int
	Label         string
	Width, Height int
	Target        gl.Enum
	Textures      []*Texture
	Depth         bool

	renderer    *Renderer
	rid         ResourceID
	buffer      gl.Framebuffer
	depthBuffer gl.Renderbuffer
}

func NewRenderTarget(r *Renderer, opts RenderTargetOptions) (*RenderTarget, error) {
	rt := &RenderTarget{
		ID:       r.nextID(),
		Label:    opts.Label,
		Width:    opts.Width,
		Height:   opts.Height,
		Target:   gl.FRAMEBUFFER,
		Depth:    !opts.NoDepth,
		renderer: r,
	}
	if rt.Width <= 0 {
		rt.Width = r.Width
	}
	if rt.Height <= 0 {
		rt.Height = r.Height
	}
	color := opts.Color
	if color <= 0 {
		color = 1
	}
	rt.rid = r.register(ResourceRenderTarget, rt)
	if rt.Label == "" {
		rt.Label = string(rt.rid)
	}

	rt.buffer = r.ctx.CreateFramebuffer()
	r.BindFramebuffer(rt.Target, rt.buffer)

	attachments := make([]gl.Enum, 0, color)
	for i := 0; i < color; i++ {
		tex := NewTexture(r, TextureOptions{
			Width:     rt.Width,
			Height:    rt.Height,
			MinFilter: orEnum(opts.MinFilter, gl.LINEAR),
			MagFilter: orEnum(opts.MagFilter, gl.LINEAR),
			NoMipmaps: true,
		})
		tex.Update(0)
		attachment := gl.COLOR_ATTACHMENT0 + gl.Enum(i)
		r.ctx.FramebufferTexture2D(rt.Target, attachment, gl.TEXTURE_2D, tex.Handle(), 0)
		rt.Textures = append(rt.Textures, tex)
		attachments = append(attachments, attachment)
	}
	if color > 1 {
		r.ctx.DrawBuffers(attachments)
	}

	if rt.Depth {
		rt.depthBuffer = r.ctx.CreateRenderbuffer()
		r.ctx.BindRenderbuffer(gl.RENDERBUFFER, rt.depthBuffer)
		r.ctx.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT16, int32(rt.Width), int32(rt.Height))
		r.ctx.FramebufferRenderbuffer(rt.Target, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rt.depthBuffer)
	}

	status := r.ctx.CheckFramebufferStatus(rt.Target)
	r.BindFramebuffer(rt.Target, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return rt, fmt.Errorf("render target %s: framebuffer incomplete (0x%X)", rt.Label, uint32(status))
	}
	return rt, nil
}

func (rt *RenderTarget) ResourceID() ResourceID { return rt.rid }

// Texture returns the first color attachment.
func (rt *RenderTarget) Texture() *Texture {
	if len(rt.Textures) == 0 {
		return nil
	}
	return rt.Textures[0]
}

// SetSize reallocates the attachments at the new size.
func (rt *RenderTarget) SetSize(width, height int) {
	if rt.Width == width && rt.Height == height {
		return
	}
	r := rt.renderer
	rt.Width, rt.Height = width, height
	for _, tex := range rt.Textures {
		tex.SetImage(nil, width, height)
		tex.Update(0)
	}
	if rt.Depth {
		r.ctx.BindRenderbuffer(gl.RENDERBUFFER, rt.depthBuffer)
		r.ctx.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT16, int32(width), int32(height))
	}
}

func (rt *RenderTarget) Remove() {
	r := rt.renderer
	for _, tex := range rt.Textures {
		tex.Remove()
	}
	rt.Textures = nil
	if rt.depthBuffer != 0 {
		r.ctx.DeleteRenderbuffer(rt.depthBuffer)
		rt.depthBuffer = 0
	}
	if r.state.framebuffer == rt.buffer {
		r.BindFramebuffer(rt.Target, 0)
	}
	r.ctx.DeleteFramebuffer(rt.buffer)
	rt.buffer = 0
	r.unregister(rt.rid)
}

func orEnum(v, def gl.Enum) gl.Enum {
	if v == 0 {
		return def
	}
	return v
}
