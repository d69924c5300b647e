package glmock

import (
	"testing"

	"github.com/gekko3d/scenegl/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_RecordsAndCounts(t *testing.T) {
	ctx := New()
	ctx.Enable(gl.DEPTH_TEST)
	ctx.Enable(gl.BLEND)
	ctx.DepthMask(true)

	assert.Equal(t, 2, ctx.Count("Enable"))
	assert.Equal(t, 3, ctx.Total())
	last, ok := ctx.Last("Enable")
	require.True(t, ok)
	assert.Equal(t, []any{gl.BLEND}, last.Args)

	ctx.Reset()
	assert.Equal(t, 0, ctx.Total())
	assert.Equal(t, 0, ctx.Count("Enable"))
}

func TestContext_ProgramIntrospection(t *testing.T) {
	ctx := New()
	ctx.Spec = ProgramSpec{
		Uniforms: []gl.ActiveInfo{{Name: "uColor", Type: gl.FLOAT_VEC3, Size: 1}},
		Attribs:  []Attrib{{ActiveInfo: gl.ActiveInfo{Name: "position", Type: gl.FLOAT_VEC3, Size: 1}, Location: 0}},
	}
	p := ctx.CreateProgram()
	assert.Empty(t, ctx.ActiveUniforms(p), "nothing is active before linking")

	ctx.LinkProgram(p)
	require.True(t, ctx.ProgramLinked(p))
	assert.Len(t, ctx.ActiveUniforms(p), 1)
	assert.Equal(t, int32(0), ctx.UniformLocation(p, "uColor"))
	assert.Equal(t, int32(-1), ctx.UniformLocation(p, "missing"))
	assert.Equal(t, int32(0), ctx.AttribLocation(p, "position"))
}

func TestContext_LinkFailure(t *testing.T) {
	ctx := New()
	ctx.FailLink = true
	ctx.InfoLog = "boom"
	p := ctx.CreateProgram()
	ctx.LinkProgram(p)
	assert.False(t, ctx.ProgramLinked(p))
	assert.Equal(t, "boom", ctx.ProgramInfoLog(p))
}
