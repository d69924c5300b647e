package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/scenegl"
	"github.com/gekko3d/scenegl/gl"
	"github.com/gekko3d/scenegl/gl/glmock"
)

func TestTexture_UploadsOnceUntilNeedsUpdate(t *testing.T) {
	r, ctx := newTestRenderer(t)
	tex := NewTexture(r, TextureOptions{Image: image.NewRGBA(image.Rect(0, 0, 4, 4))})
	assert.Equal(t, 4, tex.Width)

	ctx.Reset()
	tex.Update(0)
	tex.Update(0)
	assert.Equal(t, 1, ctx.Count("TexImage2D"))
	assert.Equal(t, 1, ctx.Count("BindTexture"))
	assert.Equal(t, 1, ctx.Count("GenerateMipmap"))
	call, _ := ctx.Last("TexImage2D")
	assert.Equal(t, 4*4*4, call.Args[7])

	tex.NeedsUpdate = true
	tex.Update(0)
	assert.Equal(t, 2, ctx.Count("TexImage2D"))
	assert.Equal(t, 1, ctx.Count("BindTexture"), "still bound on unit 0")
}

func TestTexture_NonPowerOfTwo(t *testing.T) {
	r, ctx := newTestRenderer(t)
	tex := NewTexture(r, TextureOptions{Image: make([]uint8, 3*5*4), Width: 3, Height: 5, WrapS: gl.REPEAT})

	ctx.Reset()
	tex.Update(2)
	assert.True(t, tex.Mipmaps)
	assert.Equal(t, 1, ctx.Count("GenerateMipmap"))
	assert.Equal(t, gl.Enum(gl.REPEAT), tex.WrapS)

	call, ok := ctx.Last("ActiveTexture")
	require.True(t, ok)
	assert.Equal(t, []any{gl.TEXTURE0 + 2}, call.Args)
	assert.Equal(t, tex.Handle(), r.boundTexture(2))
}

func TestTexture_RestrictedNonPowerOfTwoDisablesMipmaps(t *testing.T) {
	ctx := glmock.New()
	r, err := NewRenderer(ctx, Options{Logger: scenegl.NewNopLogger(), RestrictedNPOT: true})
	require.NoError(t, err)
	assert.True(t, r.Parameters().RestrictedNPOT)

	tex := NewTexture(r, TextureOptions{Image: make([]uint8, 3*5*4), Width: 3, Height: 5, WrapS: gl.REPEAT})
	ctx.Reset()
	tex.Update(0)
	assert.False(t, tex.Mipmaps)
	assert.Equal(t, 0, ctx.Count("GenerateMipmap"))
	assert.Equal(t, gl.Enum(gl.LINEAR), tex.MinFilter)
	assert.Equal(t, gl.Enum(gl.CLAMP_TO_EDGE), tex.WrapS)

	r.LoseContext()
	r.RestoreContext()
	assert.True(t, r.Parameters().RestrictedNPOT, "kept across a restore")
}

func TestTexture_PixelStoreIsDiffed(t *testing.T) {
	r, ctx := newTestRenderer(t)
	a := NewTexture(r, TextureOptions{Image: make([]uint8, 16), Width: 2, Height: 2, FlipY: true})
	b := NewTexture(r, TextureOptions{Image: make([]uint8, 16), Width: 2, Height: 2, FlipY: true})

	ctx.Reset()
	a.Update(0)
	b.Update(1)
	assert.Equal(t, 1, ctx.Count("PixelStorei"))
}

func TestTexture_Remove(t *testing.T) {
	r, ctx := newTestRenderer(t)
	tex := NewTexture(r, TextureOptions{Image: make([]uint8, 16), Width: 2, Height: 2})
	tex.Update(0)
	h := tex.Handle()
	assert.Equal(t, 1, r.Resources().Textures)

	tex.Remove()
	call, ok := ctx.Last("DeleteTexture")
	require.True(t, ok)
	assert.Equal(t, []any{h}, call.Args)
	assert.Equal(t, gl.Texture(0), r.boundTexture(0))
	assert.Equal(t, 0, r.Resources().Textures)
}

func TestRenderTarget_Attachments(t *testing.T) {
	r, ctx := newTestRenderer(t)
	ctx.Reset()
	rt, err := NewRenderTarget(r, RenderTargetOptions{Width: 8, Height: 8, Color: 2})
	require.NoError(t, err)

	assert.Len(t, rt.Textures, 2)
	assert.Equal(t, 2, ctx.Count("FramebufferTexture2D"))
	assert.Equal(t, 1, ctx.Count("DrawBuffers"))
	call, _ := ctx.Last("RenderbufferStorage")
	assert.Equal(t, []any{gl.RENDERBUFFER, gl.DEPTH_COMPONENT16, int32(8), int32(8)}, call.Args)

	rt.SetSize(16, 4)
	call, _ = ctx.Last("RenderbufferStorage")
	assert.Equal(t, []any{gl.RENDERBUFFER, gl.DEPTH_COMPONENT16, int32(16), int32(4)}, call.Args)

	rt.Remove()
	assert.Equal(t, 1, ctx.Count("DeleteFramebuffer"))
	assert.Equal(t, 2, ctx.Count("DeleteTexture"))
	assert.Equal(t, ResourceStats{}, r.Resources())
}
