package raycast

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/scenegl"
	"github.com/gekko3d/scenegl/gl/glmock"
	"github.com/gekko3d/scenegl/render"
)

type fixture struct {
	r *render.Renderer
	g *render.Graph
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r, err := render.NewRenderer(glmock.New(), render.Options{Logger: scenegl.NewNopLogger()})
	require.NoError(t, err)
	return &fixture{r: r, g: render.NewGraph()}
}

// octahedron has a bounding sphere of radius 1 and a box of [-1, 1].
func (f *fixture) octahedron() *render.Geometry {
	return render.NewGeometry(f.r, map[string]render.AttributeSpec{
		"position": {Size: 3, Data: []float32{
			1, 0, 0, -1, 0, 0,
			0, 1, 0, 0, -1, 0,
			0, 0, 1, 0, 0, -1,
		}},
	})
}

func (f *fixture) quad() *render.Geometry {
	g := render.NewGeometry(f.r, map[string]render.AttributeSpec{
		"position": {Size: 3, Data: []float32{-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0}},
		"uv":       {Size: 2, Data: []float32{0, 0, 1, 0, 1, 1, 0, 1}},
		"normal":   {Size: 3, Data: []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1}},
	})
	g.SetIndex(render.AttributeSpec{Data: []uint16{0, 1, 2, 0, 2, 3}})
	return g
}

func (f *fixture) mesh(geom *render.Geometry, pos mgl32.Vec3, scale float32) *render.Mesh {
	id := f.g.NewMesh(render.MeshOptions{Geometry: geom})
	n := f.g.Node(id)
	n.Position = pos
	n.Scale = mgl32.Vec3{scale, scale, scale}
	f.g.UpdateMatrixWorld(id, false)
	return f.g.Mesh(id)
}

func TestIntersectBounds_SortsAndSkipsMisses(t *testing.T) {
	f := newFixture(t)
	geom := f.octahedron()
	far := f.mesh(geom, mgl32.Vec3{0, 0, -10}, 1)
	near := f.mesh(geom, mgl32.Vec3{}, 1)
	aside := f.mesh(geom, mgl32.Vec3{5, 0, 0}, 1)

	ray := &Ray{Origin: fromFront, Direction: down}
	hits := ray.IntersectBounds([]*render.Mesh{far, near, aside}, Options{})
	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0])
	assert.Same(t, far, hits[1])
	assert.InDelta(t, 4, near.Hit.Distance, 1e-5)
	assert.InDelta(t, 14, far.Hit.Distance, 1e-5)
	assert.True(t, near.Hit.Point.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5))

	hits = ray.IntersectBounds([]*render.Mesh{far, near}, Options{MaxDistance: 10})
	require.Len(t, hits, 1)
	assert.Same(t, near, hits[0])
}

func TestIntersectBounds_BoxMode(t *testing.T) {
	f := newFixture(t)
	geom := f.octahedron()
	geom.Raycast = render.BoundsBox
	m := f.mesh(geom, mgl32.Vec3{}, 1)

	ray := &Ray{Origin: fromFront, Direction: down}
	require.Len(t, ray.IntersectBounds([]*render.Mesh{m}, Options{}), 1)
	assert.InDelta(t, 4, m.Hit.Distance, 1e-5)

	ray.Origin = fromSide
	assert.Empty(t, ray.IntersectBounds([]*render.Mesh{m}, Options{}))
}

func TestIntersectBounds_OriginOnSurfaceIsInside(t *testing.T) {
	f := newFixture(t)
	geom := f.octahedron()
	geom.Raycast = render.BoundsBox
	m := f.mesh(geom, mgl32.Vec3{}, 1)

	ray := &Ray{Origin: mgl32.Vec3{1, 0, 0}, Direction: mgl32.Vec3{1, 0, 0}}
	require.Len(t, ray.IntersectBounds([]*render.Mesh{m}, Options{}), 1)
	assert.Zero(t, m.Hit.Distance)
}

func TestIntersectBounds_ScaledMesh(t *testing.T) {
	f := newFixture(t)
	m := f.mesh(f.octahedron(), mgl32.Vec3{}, 2)

	ray := &Ray{Origin: fromFront, Direction: down}
	require.Len(t, ray.IntersectBounds([]*render.Mesh{m}, Options{}), 1)
	assert.InDelta(t, 3, m.Hit.Distance, 1e-5)
}

func TestIntersectMeshes_InterpolatesAttributes(t *testing.T) {
	f := newFixture(t)
	m := f.mesh(f.quad(), mgl32.Vec3{}, 1)

	ray := &Ray{Origin: mgl32.Vec3{0.5, -0.5, 5}, Direction: down}
	hits := ray.IntersectMeshes([]*render.Mesh{m}, Options{})
	require.Len(t, hits, 1)

	hit := m.Hit
	assert.InDelta(t, 5, hit.Distance, 1e-5)
	assert.True(t, hit.Point.ApproxEqualThreshold(mgl32.Vec3{0.5, -0.5, 0}, 1e-5))
	assert.True(t, hit.FaceNormal.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5))
	require.True(t, hit.HasUV)
	assert.True(t, hit.UV.ApproxEqualThreshold(mgl32.Vec2{0.75, 0.25}, 1e-5), "%v", hit.UV)
	require.True(t, hit.HasNormal)
	assert.True(t, hit.Normal.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5))

	hits = ray.IntersectMeshes([]*render.Mesh{m}, Options{SkipUV: true, SkipNormal: true})
	require.Len(t, hits, 1)
	assert.False(t, m.Hit.HasUV)
	assert.False(t, m.Hit.HasNormal)
}

func TestIntersectMeshes_RemovesBoundsOnlyHits(t *testing.T) {
	f := newFixture(t)
	half := render.NewGeometry(f.r, map[string]render.AttributeSpec{
		"position": {Size: 3, Data: []float32{-1, -1, 0, 1, -1, 0, -1, 1, 0}},
	})
	quad := f.mesh(f.quad(), mgl32.Vec3{0, 0, -3}, 1)
	tri := f.mesh(half, mgl32.Vec3{}, 1)

	ray := &Ray{Origin: mgl32.Vec3{0.5, 0.5, 5}, Direction: down}
	require.Len(t, ray.IntersectBounds([]*render.Mesh{tri, quad}, Options{}), 2)

	hits := ray.IntersectMeshes([]*render.Mesh{tri, quad}, Options{})
	require.Len(t, hits, 1)
	assert.Same(t, quad, hits[0])
	assert.InDelta(t, 8, quad.Hit.Distance, 1e-5)
}

func TestIntersectMeshes_BackFaces(t *testing.T) {
	f := newFixture(t)
	m := f.mesh(f.quad(), mgl32.Vec3{}, 1)

	ray := &Ray{Origin: mgl32.Vec3{0.5, -0.5, -5}, Direction: mgl32.Vec3{0, 0, 1}}
	assert.Empty(t, ray.IntersectMeshes([]*render.Mesh{m}, Options{}))
	assert.Len(t, ray.IntersectMeshes([]*render.Mesh{m}, Options{DoubleSided: true}), 1)
}

func TestIntersectMeshes_TransformedAndReused(t *testing.T) {
	f := newFixture(t)
	near := f.mesh(f.quad(), mgl32.Vec3{0, 0, -2}, 2)
	far := f.mesh(f.quad(), mgl32.Vec3{0, 0, -6}, 2)

	out := make([]*render.Mesh, 0, 4)
	ray := &Ray{Origin: mgl32.Vec3{1, -1, 5}, Direction: down}
	hits := ray.IntersectMeshes([]*render.Mesh{far, near}, Options{Output: out})
	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0])
	assert.Same(t, far, hits[1])
	assert.InDelta(t, 7, near.Hit.Distance, 1e-4)
	assert.True(t, near.Hit.Point.ApproxEqualThreshold(mgl32.Vec3{1, -1, -2}, 1e-4))
	assert.Equal(t, cap(out), cap(hits), "output slice reused")

	hits = ray.IntersectMeshes([]*render.Mesh{far, near}, Options{MaxDistance: 9})
	require.Len(t, hits, 1)
	assert.Same(t, near, hits[0])
}

func TestCastMouse(t *testing.T) {
	g := render.NewGraph()
	id := g.NewCamera(render.CameraOptions{})
	g.Node(id).Position = mgl32.Vec3{0, 0, 5}
	g.UpdateMatrixWorld(id, false)
	cam := g.Camera(id)

	ray := New()
	ray.CastMouse(cam, mgl32.Vec2{})
	assert.True(t, ray.Origin.ApproxEqualThreshold(mgl32.Vec3{0, 0, 5}, 1e-5))
	assert.True(t, ray.Direction.ApproxEqualThreshold(down, 1e-4), "%v", ray.Direction)

	ray.CastMouse(cam, mgl32.Vec2{1, 0})
	assert.Greater(t, ray.Direction.X(), float32(0))
	assert.InDelta(t, 1, ray.Direction.Len(), 1e-5)

	cam.SetOrthographic(-2, 2, -1, 1, 0.1, 100, 1)
	ray.CastMouse(cam, mgl32.Vec2{1, 1})
	assert.True(t, ray.Origin.ApproxEqualThreshold(mgl32.Vec3{2, 1, 5}, 1e-5), "%v", ray.Origin)
	assert.True(t, ray.Direction.ApproxEqualThreshold(down, 1e-5))
}
