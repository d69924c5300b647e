package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gekko3d/scenegl"
	"github.com/gekko3d/scenegl/gl"
	"github.com/gekko3d/scenegl/gl/glmock"
)

const (
	testVertex   = "#version 330 core\nin vec3 position;\nvoid main() { gl_Position = vec4(position, 1.0); }"
	testFragment = "#version 330 core\nout vec4 color;\nvoid main() { color = vec4(1.0); }"
)

func newTestRenderer(t *testing.T) (*Renderer, *glmock.Context) {
	t.Helper()
	ctx := glmock.New()
	r, err := NewRenderer(ctx, Options{Logger: scenegl.NewNopLogger()})
	require.NoError(t, err)
	return r, ctx
}

func positionSpec(attribs ...glmock.Attrib) glmock.ProgramSpec {
	if len(attribs) == 0 {
		attribs = []glmock.Attrib{{ActiveInfo: gl.ActiveInfo{Name: "position", Type: gl.FLOAT_VEC3, Size: 1}, Location: 0}}
	}
	return glmock.ProgramSpec{Attribs: attribs}
}

func newTestProgram(t *testing.T, r *Renderer, ctx *glmock.Context, opts ProgramOptions) *Program {
	t.Helper()
	if len(ctx.Spec.Attribs) == 0 {
		ctx.Spec = positionSpec()
	}
	if opts.Vertex == "" {
		opts.Vertex = testVertex
	}
	if opts.Fragment == "" {
		opts.Fragment = testFragment
	}
	p, err := NewProgram(r, opts)
	require.NoError(t, err)
	return p
}

func triangleGeometry(r *Renderer) *Geometry {
	return NewGeometry(r, map[string]AttributeSpec{
		"position": {Size: 3, Data: []float32{-1, -1, 0, 1, -1, 0, 0, 1, 0}},
	})
}
