package render

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCamera_FrustumIntersectsSphere(t *testing.T) {
	g := NewGraph()
	id := g.NewCamera(CameraOptions{Fov: 90, Near: 1, Far: 100})
	g.UpdateMatrixWorld(id, false)
	cam := g.Camera(id)
	cam.UpdateFrustum()

	tests := []struct {
		name     string
		center   mgl32.Vec3
		radius   float32
		expected bool
	}{
		{name: "Inside (center)", center: mgl32.Vec3{0, 0, -10}, radius: 1, expected: true},
		{name: "Outside (Left)", center: mgl32.Vec3{-20, 0, -10}, radius: 1, expected: false},
		{name: "Outside (Right)", center: mgl32.Vec3{20, 0, -10}, radius: 1, expected: false},
		{name: "Outside (Behind)", center: mgl32.Vec3{0, 0, 10}, radius: 1, expected: false},
		{name: "Outside (Far)", center: mgl32.Vec3{0, 0, -200}, radius: 1, expected: false},
		{name: "Intersecting (Left Plane)", center: mgl32.Vec3{-10.5, 0, -10}, radius: 1, expected: true},
		{name: "Encompassing", center: mgl32.Vec3{}, radius: 1000, expected: true},
		{name: "At camera position", center: mgl32.Vec3{}, radius: 1.5, expected: true},
		// The near plane lies 1 unit in front of the eye, so a sphere at
		// the eye only reaches it once its radius exceeds near.
		{name: "At camera position, smaller than near", center: mgl32.Vec3{}, radius: 0.5, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cam.FrustumIntersectsSphere(tt.center, tt.radius))
		})
	}
}

func TestCamera_FrustumFollowsCameraTransform(t *testing.T) {
	g := NewGraph()
	id := g.NewCamera(CameraOptions{})
	n := g.Node(id)
	n.Position = mgl32.Vec3{3, 4, 5}
	g.Camera(id).LookAt(mgl32.Vec3{})
	g.UpdateMatrixWorld(id, false)
	cam := g.Camera(id)
	cam.UpdateFrustum()

	assert.True(t, cam.FrustumIntersectsSphere(n.Position, 0.5))
	assert.True(t, cam.FrustumIntersectsSphere(mgl32.Vec3{}, 0.5))

	behind := n.Position.Add(n.Position.Normalize().Mul(cam.Far * 2))
	assert.False(t, cam.FrustumIntersectsSphere(behind, 1))
	beyondFar := n.Position.Sub(n.Position.Normalize().Mul(cam.Far * 2))
	assert.False(t, cam.FrustumIntersectsSphere(beyondFar, 1))
}

func TestCamera_ViewTracksWorld(t *testing.T) {
	g := NewGraph()
	id := g.NewCamera(CameraOptions{})
	g.Node(id).Position = mgl32.Vec3{1, 2, 3}
	g.UpdateMatrixWorld(id, false)
	cam := g.Camera(id)

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.WorldPosition)
	assert.True(t, cam.ViewMatrix.Mul4(g.Node(id).WorldMatrix).ApproxEqualThreshold(mgl32.Ident4(), 1e-5))
	assert.True(t, cam.ProjectionViewMatrix.ApproxEqualThreshold(cam.ProjectionMatrix.Mul4(cam.ViewMatrix), 1e-5))
}

func TestCamera_ProjectUnproject(t *testing.T) {
	g := NewGraph()
	id := g.NewCamera(CameraOptions{Fov: 60, Aspect: 1.5})
	g.Node(id).Position = mgl32.Vec3{0, 1, 4}
	g.UpdateMatrixWorld(id, false)
	cam := g.Camera(id)

	p := mgl32.Vec3{0.5, 0.25, -2}
	ndc := cam.Project(p)
	assert.True(t, cam.Unproject(ndc).ApproxEqualThreshold(p, 1e-3), "%v", cam.Unproject(ndc))
}

func TestCamera_Orthographic(t *testing.T) {
	g := NewGraph()
	id := g.NewCamera(CameraOptions{})
	cam := g.Camera(id)
	cam.SetOrthographic(-2, 2, -1, 1, 0.1, 10, 2)
	g.UpdateMatrixWorld(id, false)

	assert.Equal(t, Orthographic, cam.Projection)
	edge := cam.Project(mgl32.Vec3{1, 0.5, -1})
	assert.InDelta(t, 1, edge.X(), 1e-5)
	assert.InDelta(t, 1, edge.Y(), 1e-5)

	cam.SetPerspective(45, 1, 0.1, 100)
	assert.Equal(t, Perspective, cam.Projection)
}

func TestCamera_FrustumIntersectsMeshUsesWorldScale(t *testing.T) {
	r, _ := newTestRenderer(t)
	geom := NewGeometry(r, map[string]AttributeSpec{
		"position": {Size: 3, Data: []float32{-1, -1, -1, 1, 1, 1}},
	})
	g := NewGraph()
	camID := g.NewCamera(CameraOptions{Fov: 90, Near: 1, Far: 100})
	meshID := g.NewMesh(MeshOptions{Geometry: geom})
	mesh := g.Node(meshID)
	// The sphere (radius sqrt(3)) sits 2.47 units outside the left plane.
	mesh.Position = mgl32.Vec3{-13.5, 0, -10}
	g.UpdateMatrixWorld(camID, false)
	g.UpdateMatrixWorld(meshID, false)
	cam := g.Camera(camID)
	cam.UpdateFrustum()

	assert.False(t, cam.FrustumIntersectsMesh(g.Mesh(meshID)))
	assert.InDelta(t, math32.Sqrt(3), geom.Bounds.Radius, 1e-5)

	mesh.Scale = mgl32.Vec3{2, 2, 2}
	g.UpdateMatrixWorld(meshID, false)
	assert.True(t, cam.FrustumIntersectsMesh(g.Mesh(meshID)))
}
