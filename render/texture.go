package render

import (
	"image"

	"github.com/gekko3d/scenegl/gl"
)

// TextureOptions configures NewTexture. Image is a raw []uint8 pixel slice
// or an *image.RGBA; nil allocates storage of Width x Height.
type TextureOptions struct {
	Image          any
	Width, Height  int
	Target         gl.Enum
	Type           gl.Enum
	Format         gl.Enum
	InternalFormat gl.Enum
	WrapS, WrapT   gl.Enum
	MinFilter      gl.Enum
	MagFilter      gl.Enum
	NoMipmaps      bool

	FlipY            bool
	PremultiplyAlpha bool
	UnpackAlignment  int32
	Label            string
}

type textureParams struct {
	minFilter, magFilter gl.Enum
	wrapS, wrapT         gl.Enum
}

// Texture is a 2D texture that uploads lazily the first time it is bound to
// a unit, and again after NeedsUpdate is set.
type Texture struct {
	ID     int
	Label  string
	Target gl.Enum

	Image          any
	Width, Height  int
	Type           gl.Enum
	Format         gl.Enum
	InternalFormat gl.Enum
	MinFilter      gl.Enum
	MagFilter      gl.Enum
	WrapS, WrapT   gl.Enum
	Mipmaps        bool

	FlipY            bool
	PremultiplyAlpha bool
	UnpackAlignment  int32

	// NeedsUpdate forces a re-upload on the next Update.
	NeedsUpdate bool

	renderer *Renderer
	rid      ResourceID
	handle   gl.Texture
	// params is the sampler state last applied to the driver.
	params   textureParams
	uploaded bool
}

func NewTexture(r *Renderer, opts TextureOptions) *Texture {
	t := &Texture{
		ID:               r.nextID(),
		Label:            opts.Label,
		Target:           opts.Target,
		Image:            opts.Image,
		Width:            opts.Width,
		Height:           opts.Height,
		Type:             opts.Type,
		Format:           opts.Format,
		InternalFormat:   opts.InternalFormat,
		MinFilter:        opts.MinFilter,
		MagFilter:        opts.MagFilter,
		WrapS:            opts.WrapS,
		WrapT:            opts.WrapT,
		Mipmaps:          !opts.NoMipmaps,
		FlipY:            opts.FlipY,
		PremultiplyAlpha: opts.PremultiplyAlpha,
		UnpackAlignment:  opts.UnpackAlignment,
		renderer:         r,
		handle:           r.ctx.CreateTexture(),
		params: textureParams{
			minFilter: gl.NEAREST_MIPMAP_LINEAR,
			magFilter: gl.LINEAR,
			wrapS:     gl.REPEAT,
			wrapT:     gl.REPEAT,
		},
	}
	if t.Target == 0 {
		t.Target = gl.TEXTURE_2D
	}
	if t.Type == 0 {
		t.Type = gl.UNSIGNED_BYTE
	}
	if t.Format == 0 {
		t.Format = gl.RGBA
	}
	if t.InternalFormat == 0 {
		t.InternalFormat = t.Format
	}
	if t.MinFilter == 0 {
		if t.Mipmaps {
			t.MinFilter = gl.NEAREST_MIPMAP_LINEAR
		} else {
			t.MinFilter = gl.LINEAR
		}
	}
	if t.MagFilter == 0 {
		t.MagFilter = gl.LINEAR
	}
	if t.WrapS == 0 {
		t.WrapS = gl.CLAMP_TO_EDGE
	}
	if t.WrapT == 0 {
		t.WrapT = gl.CLAMP_TO_EDGE
	}
	if t.UnpackAlignment == 0 {
		t.UnpackAlignment = 4
	}
	if img, ok := t.Image.(*image.RGBA); ok && t.Width == 0 && t.Height == 0 {
		b := img.Bounds()
		t.Width, t.Height = b.Dx(), b.Dy()
	}
	t.rid = r.register(ResourceTexture, t)
	if t.Label == "" {
		t.Label = string(t.rid)
	}
	return t
}

func (t *Texture) ResourceID() ResourceID { return t.rid }

// Handle is zero for a nil texture.
func (t *Texture) Handle() gl.Texture {
	if t == nil {
		return 0
	}
	return t.handle
}

// SetImage replaces the pixel source and schedules an upload.
func (t *Texture) SetImage(img any, width, height int) {
	t.Image = img
	t.Width, t.Height = width, height
	t.NeedsUpdate = true
}

func (t *Texture) bind() {
	r := t.renderer
	if r.boundTexture(r.state.activeTexture) == t.handle {
		return
	}
	r.bindTexture(t.Target, t.handle)
}

// Update binds the texture on unit and uploads it if needed. A nil texture
// does nothing.
func (t *Texture) Update(unit int) {
	if t == nil {
		return
	}
	r := t.renderer
	needsUpload := !t.uploaded || t.NeedsUpdate
	if r.boundTexture(unit) != t.handle || needsUpload {
		r.ActiveTexture(unit)
		t.bind()
	}
	if !needsUpload {
		return
	}
	t.NeedsUpdate = false

	if r.params.RestrictedNPOT && (!isPowerOf2(t.Width) || !isPowerOf2(t.Height)) {
		t.Mipmaps = false
		t.WrapS, t.WrapT = gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE
		if t.MinFilter != gl.NEAREST && t.MinFilter != gl.LINEAR {
			t.MinFilter = gl.LINEAR
		}
	}
	t.applyParams()

	r.setFlipY(t.FlipY)
	r.setPremultiplyAlpha(t.PremultiplyAlpha)
	r.setUnpackAlignment(t.UnpackAlignment)

	pixels := t.Image
	if img, ok := pixels.(*image.RGBA); ok {
		pixels = img.Pix
	}
	r.ctx.TexImage2D(t.Target, 0, t.InternalFormat, int32(t.Width), int32(t.Height), t.Format, t.Type, pixels)
	if t.Mipmaps && pixels != nil {
		r.ctx.GenerateMipmap(t.Target)
	}
	t.uploaded = true
}

// applyParams sets only the sampler parameters that changed.
func (t *Texture) applyParams() {
	ctx := t.renderer.ctx
	if t.params.minFilter != t.MinFilter {
		ctx.TexParameteri(t.Target, gl.TEXTURE_MIN_FILTER, int32(t.MinFilter))
		t.params.minFilter = t.MinFilter
	}
	if t.params.magFilter != t.MagFilter {
		ctx.TexParameteri(t.Target, gl.TEXTURE_MAG_FILTER, int32(t.MagFilter))
		t.params.magFilter = t.MagFilter
	}
	if t.params.wrapS != t.WrapS {
		ctx.TexParameteri(t.Target, gl.TEXTURE_WRAP_S, int32(t.WrapS))
		t.params.wrapS = t.WrapS
	}
	if t.params.wrapT != t.WrapT {
		ctx.TexParameteri(t.Target, gl.TEXTURE_WRAP_T, int32(t.WrapT))
		t.params.wrapT = t.WrapT
	}
}

// Remove deletes the texture and unbinds it from every unit.
func (t *Texture) Remove() {
	r := t.renderer
	for i, bound := range r.state.textureUnits {
		if bound == t.handle {
			r.state.textureUnits[i] = 0
		}
	}
	r.ctx.DeleteTexture(t.handle)
	t.handle = 0
	r.unregister(t.rid)
}

func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
