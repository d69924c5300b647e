package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/scenegl"
	"github.com/gekko3d/scenegl/gl"
	"github.com/gekko3d/scenegl/gl/glmock"
)

type testScene struct {
	graph  *Graph
	root   NodeID
	camera NodeID
}

func newTestScene() *testScene {
	g := NewGraph()
	return &testScene{graph: g, root: g.NewGroup(), camera: g.NewCamera(CameraOptions{})}
}

func (s *testScene) add(t *testing.T, opts MeshOptions, z float32) NodeID {
	t.Helper()
	id := s.graph.NewMesh(opts)
	s.graph.Node(id).Position = mgl32.Vec3{0, 0, z}
	require.NoError(t, s.graph.AddChild(s.root, id))
	return id
}

func (s *testScene) params() RenderParams {
	return RenderParams{Graph: s.graph, Scene: s.root, Camera: s.camera}
}

func TestNewRenderer_RequiresContext(t *testing.T) {
	_, err := NewRenderer(nil, Options{})
	assert.ErrorIs(t, err, ErrNoContext)
}

func TestNewRenderer_Discovery(t *testing.T) {
	ctx := glmock.New()
	ctx.Exts = []string{"GL_EXT_b", "GL_EXT_a"}
	r, err := NewRenderer(ctx, Options{Logger: scenegl.NewNopLogger()})
	require.NoError(t, err)

	assert.Equal(t, []string{"GL_EXT_a", "GL_EXT_b"}, r.Extensions())
	assert.True(t, r.HasExtension("GL_EXT_a"))
	assert.False(t, r.HasExtension("GL_EXT_c"))
	assert.Equal(t, int32(32), r.Parameters().MaxTextureUnits)
	assert.Equal(t, 300, r.Width)
	assert.Equal(t, 150, r.Height)
}

func TestRenderList_SortOrder(t *testing.T) {
	r, ctx := newTestRenderer(t)
	opaque := newTestProgram(t, r, ctx, ProgramOptions{})
	transparent := newTestProgram(t, r, ctx, ProgramOptions{Transparent: true})

	s := newTestScene()
	far := s.add(t, MeshOptions{Program: opaque}, -3)
	near := s.add(t, MeshOptions{Program: opaque}, -1)
	mid := s.add(t, MeshOptions{Program: opaque}, -2)
	tNear := s.add(t, MeshOptions{Program: transparent}, -1)
	tFar := s.add(t, MeshOptions{Program: transparent}, -3)

	list := r.Render(s.params())
	require.Len(t, list, 5)
	var got []NodeID
	for _, m := range list {
		got = append(got, m.Node().ID())
	}
	assert.Equal(t, []NodeID{near, mid, far, tFar, tNear}, got)
	assert.Less(t, list[0].ZDepth, list[1].ZDepth)
	assert.Less(t, list[1].ZDepth, list[2].ZDepth)
}

func TestRenderList_RenderOrderAndUI(t *testing.T) {
	r, ctx := newTestRenderer(t)
	opaque := newTestProgram(t, r, ctx, ProgramOptions{})
	ui := newTestProgram(t, r, ctx, ProgramOptions{Transparent: true, DisableDepthTest: true})

	s := newTestScene()
	overlay := s.add(t, MeshOptions{Program: ui}, -1)
	late := s.add(t, MeshOptions{Program: opaque, RenderOrder: 1}, -1)
	early := s.add(t, MeshOptions{Program: opaque}, -5)

	list := r.RenderList(s.graph, s.root, nil, false, true)
	require.Len(t, list, 3)
	assert.Equal(t, early, list[0].Node().ID())
	assert.Equal(t, late, list[1].Node().ID())
	assert.Equal(t, overlay, list[2].Node().ID())
	assert.Zero(t, list[1].ZDepth, "explicit render order skips depth")
}

func TestRenderList_InvisibleSubtreeAndCulling(t *testing.T) {
	r, ctx := newTestRenderer(t)
	p := newTestProgram(t, r, ctx, ProgramOptions{})
	geom := triangleGeometry(r)

	s := newTestScene()
	hidden := s.graph.NewGroup()
	require.NoError(t, s.graph.AddChild(s.root, hidden))
	s.graph.Node(hidden).Visible = false
	child := s.graph.NewMesh(MeshOptions{Program: p, Geometry: geom})
	require.NoError(t, s.graph.AddChild(hidden, child))

	visible := s.add(t, MeshOptions{Program: p, Geometry: geom}, -5)
	behind := s.add(t, MeshOptions{Program: p, Geometry: geom}, 50)
	unculled := s.add(t, MeshOptions{Program: p, Geometry: geom, DisableFrustumCull: true}, 50)

	list := r.Render(s.params())
	var got []NodeID
	for _, m := range list {
		got = append(got, m.Node().ID())
	}
	assert.ElementsMatch(t, []NodeID{visible, unculled}, got)
	assert.NotContains(t, got, behind)

	p2 := s.params()
	p2.SkipFrustumCull = true
	assert.Len(t, r.Render(p2), 3)
}

func TestRenderer_ContextLoss(t *testing.T) {
	r, ctx := newTestRenderer(t)
	p := newTestProgram(t, r, ctx, ProgramOptions{})
	s := newTestScene()
	s.add(t, MeshOptions{Program: p, Geometry: triangleGeometry(r)}, -5)

	require.Len(t, r.Render(s.params()), 1)
	assert.Equal(t, 1, r.DrawCalls())

	r.LoseContext()
	require.True(t, r.IsContextLost())
	ctx.Reset()
	assert.Nil(t, r.Render(s.params()))
	assert.Equal(t, 0, ctx.Total())

	r.RestoreContext()
	assert.False(t, r.IsContextLost())
	assert.Equal(t, 1, ctx.Count("Extensions"))
	ctx.Reset()
	require.Len(t, r.Render(s.params()), 1)
	assert.Equal(t, 1, ctx.Count("DrawArrays"))
	assert.Equal(t, 1, ctx.Count("UseProgram"), "cached state was dropped on restore")
}

func TestRenderer_PrepRender(t *testing.T) {
	ctx := glmock.New()
	r, err := NewRenderer(ctx, Options{Logger: scenegl.NewNopLogger(), Width: 100, Height: 50, DPR: 2})
	require.NoError(t, err)
	s := newTestScene()

	r.SetDepthMask(false)
	ctx.Reset()
	r.Render(s.params())

	call, ok := ctx.Last("Viewport")
	require.True(t, ok)
	assert.Equal(t, []any{int32(0), int32(0), int32(200), int32(100)}, call.Args)
	call, ok = ctx.Last("Clear")
	require.True(t, ok)
	assert.Equal(t, []any{gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT}, call.Args)
	assert.Equal(t, 1, ctx.Count("DepthMask"), "depth writes forced on for the clear")

	noClear := false
	p := s.params()
	p.Clear = &noClear
	ctx.Reset()
	r.Render(p)
	assert.Equal(t, 0, ctx.Count("Clear"))

	graph, scene := r.LastScene()
	assert.Same(t, s.graph, graph)
	assert.Equal(t, s.root, scene)
}

func TestRenderer_UpdatesDetachedCamera(t *testing.T) {
	r, _ := newTestRenderer(t)
	s := newTestScene()
	s.graph.Node(s.camera).Position = mgl32.Vec3{0, 0, 7}

	r.Render(s.params())
	assert.Equal(t, mgl32.Vec3{0, 0, 7}, s.graph.Camera(s.camera).WorldPosition)
}

func TestRenderer_RenderTarget(t *testing.T) {
	r, ctx := newTestRenderer(t)
	rt, err := NewRenderTarget(r, RenderTargetOptions{Width: 64, Height: 32})
	require.NoError(t, err)
	s := newTestScene()

	ctx.Reset()
	p := s.params()
	p.Target = rt
	r.Render(p)

	call, ok := ctx.Last("BindFramebuffer")
	require.True(t, ok)
	assert.Equal(t, []any{gl.FRAMEBUFFER, rt.buffer}, call.Args)
	call, _ = ctx.Last("Viewport")
	assert.Equal(t, []any{int32(0), int32(0), int32(64), int32(32)}, call.Args)

	ctx.Reset()
	r.Render(s.params())
	call, _ = ctx.Last("BindFramebuffer")
	assert.Equal(t, []any{gl.FRAMEBUFFER, gl.Framebuffer(0)}, call.Args)
}

func TestRenderer_ProfilerCounters(t *testing.T) {
	r, ctx := newTestRenderer(t)
	p := newTestProgram(t, r, ctx, ProgramOptions{})
	s := newTestScene()
	geom := triangleGeometry(r)
	s.add(t, MeshOptions{Program: p, Geometry: geom}, -2)
	s.add(t, MeshOptions{Program: p, Geometry: geom}, -3)

	r.Render(s.params())
	prof := r.Profiler()
	assert.Equal(t, 2, prof.Count("drawCalls"))
	assert.Equal(t, 2, prof.Count("renderList"))
	assert.Equal(t, 1, prof.Count("programs"))
	assert.Equal(t, 1, prof.Count("geometries"))
	assert.Equal(t, []string{"prep", "list", "draw"}, prof.Order())
	assert.Contains(t, prof.String(), "drawCalls")

	s2 := s.params()
	s2.SkipDraw = true
	r.Render(s2)
	assert.Equal(t, 0, r.DrawCalls())

	frames := prof.Frames()
	assert.Len(t, frames, 2)
	assert.Equal(t, 2, frames[0].DrawCalls)
	assert.Equal(t, 0, frames[1].DrawCalls)
	assert.Equal(t, 2, frames[1].RenderList)
	_, peak := prof.DrawCallRange()
	assert.Equal(t, 2, peak)
}
