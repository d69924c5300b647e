package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/scenegl/gl"
)

func TestState_DepthMaskIsDiffed(t *testing.T) {
	r, ctx := newTestRenderer(t)
	r.SetDepthMask(false)
	ctx.Reset()

	r.SetDepthMask(true)
	r.SetDepthMask(true)
	assert.Equal(t, 1, ctx.Count("DepthMask"))
}

func TestState_CapabilitiesStartUnknown(t *testing.T) {
	r, ctx := newTestRenderer(t)

	r.Disable(gl.BLEND)
	r.Disable(gl.BLEND)
	r.Enable(gl.DEPTH_TEST)
	r.Enable(gl.DEPTH_TEST)
	r.Enable(gl.BLEND)

	assert.Equal(t, 1, ctx.Count("Disable"))
	assert.Equal(t, 2, ctx.Count("Enable"))
}

func TestState_DepthFuncSyncedOnCreate(t *testing.T) {
	r, ctx := newTestRenderer(t)
	call, ok := ctx.Last("DepthFunc")
	assert.True(t, ok)
	assert.Equal(t, []any{gl.LEQUAL}, call.Args)

	ctx.Reset()
	r.SetDepthFunc(gl.LEQUAL)
	assert.Equal(t, 0, ctx.Count("DepthFunc"))
}

func TestState_BlendFuncSeparateOnlyWhenNeeded(t *testing.T) {
	r, ctx := newTestRenderer(t)

	r.SetBlendFunc(BlendFunc{Src: gl.SRC_ALPHA, Dst: gl.ONE_MINUS_SRC_ALPHA, SrcAlpha: gl.SRC_ALPHA, DstAlpha: gl.ONE_MINUS_SRC_ALPHA})
	r.SetBlendFunc(BlendFunc{Src: gl.SRC_ALPHA, Dst: gl.ONE_MINUS_SRC_ALPHA, SrcAlpha: gl.ONE, DstAlpha: gl.ONE_MINUS_SRC_ALPHA})
	r.SetBlendFunc(BlendFunc{Src: gl.SRC_ALPHA, Dst: gl.ONE_MINUS_SRC_ALPHA, SrcAlpha: gl.ONE, DstAlpha: gl.ONE_MINUS_SRC_ALPHA})

	assert.Equal(t, 1, ctx.Count("BlendFunc"))
	assert.Equal(t, 1, ctx.Count("BlendFuncSeparate"))

	r.SetBlendEquation(BlendEquation{ModeRGB: gl.FUNC_ADD, ModeAlpha: gl.FUNC_ADD})
	assert.Equal(t, 0, ctx.Count("BlendEquation"), "FUNC_ADD is the initial equation")
}

func TestState_ViewportAndFramebuffer(t *testing.T) {
	r, ctx := newTestRenderer(t)

	r.SetViewport(0, 0, 10, 10)
	r.SetViewport(0, 0, 10, 10)
	r.SetViewport(0, 0, 20, 10)
	r.BindFramebuffer(gl.FRAMEBUFFER, 0)
	r.BindFramebuffer(gl.FRAMEBUFFER, 7)
	r.BindFramebuffer(gl.FRAMEBUFFER, 7)

	assert.Equal(t, 2, ctx.Count("Viewport"))
	assert.Equal(t, 1, ctx.Count("BindFramebuffer"))
}

func TestState_TextureUnits(t *testing.T) {
	r, ctx := newTestRenderer(t)

	r.ActiveTexture(0)
	r.ActiveTexture(3)
	r.bindTexture(gl.TEXTURE_2D, 5)
	r.bindTexture(gl.TEXTURE_2D, 5)
	r.ActiveTexture(40)
	r.bindTexture(gl.TEXTURE_2D, 5)

	assert.Equal(t, 2, ctx.Count("ActiveTexture"))
	assert.Equal(t, 2, ctx.Count("BindTexture"))
	assert.Equal(t, gl.Texture(5), r.boundTexture(3))
	assert.Equal(t, gl.Texture(5), r.boundTexture(40))
	assert.Equal(t, gl.Texture(0), r.boundTexture(99))
}

func TestState_PixelStore(t *testing.T) {
	r, ctx := newTestRenderer(t)
	r.setFlipY(false)
	r.setFlipY(true)
	r.setPremultiplyAlpha(true)
	r.setUnpackAlignment(4)
	r.setUnpackAlignment(1)

	calls := ctx.Filter("PixelStorei")
	assert.Equal(t, []any{gl.UNPACK_FLIP_Y_WEBGL, int32(1)}, calls[0].Args)
	assert.Equal(t, []any{gl.UNPACK_PREMULTIPLY_ALPHA_WEBGL, int32(1)}, calls[1].Args)
	assert.Equal(t, []any{gl.UNPACK_ALIGNMENT, int32(1)}, calls[2].Args)
	assert.Len(t, calls, 3)
}
