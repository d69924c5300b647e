package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Projection uint8

const (
	Perspective Projection = iota
	Orthographic
)

// CameraOptions configures a new camera. Zero fields take the defaults
// near 0.1, far 100, fov 45 degrees, aspect 1, zoom 1 and ortho bounds ±1.
type CameraOptions struct {
	Projection Projection

	Near, Far   float32
	Fov, Aspect float32

	Left, Right, Bottom, Top float32
	Zoom                     float32
}

// Camera is the camera variant of a Node. Its view matrices are refreshed
// whenever the graph updates the node's world matrix.
type Camera struct {
	node *Node

	Projection Projection
	Near, Far  float32
	// Fov is the vertical field of view in degrees.
	Fov, Aspect              float32
	Left, Right, Bottom, Top float32
	Zoom                     float32

	ProjectionMatrix     mgl32.Mat4
	ViewMatrix           mgl32.Mat4
	ProjectionViewMatrix mgl32.Mat4
	WorldPosition        mgl32.Vec3

	// Frustum planes as (normal, constant), normals unit length.
	// Order: left, right, bottom, top, near, far.
	Frustum [6]mgl32.Vec4
}

func newCamera(n *Node, opts CameraOptions) *Camera {
	c := &Camera{
		node:       n,
		Projection: opts.Projection,
		Near:       orDefault(opts.Near, 0.1),
		Far:        orDefault(opts.Far, 100),
		Fov:        orDefault(opts.Fov, 45),
		Aspect:     orDefault(opts.Aspect, 1),
		Left:       orDefault(opts.Left, -1),
		Right:      orDefault(opts.Right, 1),
		Bottom:     orDefault(opts.Bottom, -1),
		Top:        orDefault(opts.Top, 1),
		Zoom:       orDefault(opts.Zoom, 1),
		ViewMatrix: mgl32.Ident4(),
	}
	c.UpdateProjectionMatrix()
	c.ProjectionViewMatrix = c.ProjectionMatrix
	return c
}

func orDefault(v, def float32) float32 {
	if v == 0 {
		return def
	}
	return v
}

func (c *Camera) Node() *Node { return c.node }

// SetPerspective switches to a perspective projection.
func (c *Camera) SetPerspective(fov, aspect, near, far float32) {
	c.Projection = Perspective
	c.Fov, c.Aspect, c.Near, c.Far = fov, aspect, near, far
	c.UpdateProjectionMatrix()
}

// SetOrthographic switches to an orthographic projection. The bounds are
// divided by zoom.
func (c *Camera) SetOrthographic(left, right, bottom, top, near, far, zoom float32) {
	c.Projection = Orthographic
	c.Left, c.Right, c.Bottom, c.Top = left, right, bottom, top
	c.Near, c.Far = near, far
	c.Zoom = orDefault(zoom, 1)
	c.UpdateProjectionMatrix()
}

// UpdateProjectionMatrix rebuilds the projection from the current fields,
// e.g. after changing Aspect on resize.
func (c *Camera) UpdateProjectionMatrix() {
	if c.Projection == Orthographic {
		z := c.Zoom
		c.ProjectionMatrix = mgl32.Ortho(c.Left/z, c.Right/z, c.Bottom/z, c.Top/z, c.Near, c.Far)
		return
	}
	c.ProjectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

func (c *Camera) updateView() {
	world := c.node.WorldMatrix
	if world.Det() != 0 {
		c.ViewMatrix = world.Inv()
	}
	c.WorldPosition = world.Col(3).Vec3()
	c.ProjectionViewMatrix = c.ProjectionMatrix.Mul4(c.ViewMatrix)
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.node.LookAt(target, true)
}

// Project maps a world-space point to normalized device coordinates.
func (c *Camera) Project(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(v, c.ProjectionViewMatrix)
}

// Unproject maps normalized device coordinates back to world space.
func (c *Camera) Unproject(v mgl32.Vec3) mgl32.Vec3 {
	v = mgl32.TransformCoordinate(v, c.ProjectionMatrix.Inv())
	return mgl32.TransformCoordinate(v, c.node.WorldMatrix)
}

// UpdateFrustum extracts the six clip planes from ProjectionViewMatrix.
func (c *Camera) UpdateFrustum() {
	c.Frustum = extractFrustum(c.ProjectionViewMatrix)
}

// extractFrustum returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0 with (A, B, C) normalized.
func extractFrustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	var planes [6]mgl32.Vec4
	row3 := vp.Row(3)
	planes[0] = row3.Add(vp.Row(0))
	planes[1] = row3.Sub(vp.Row(0))
	planes[2] = row3.Add(vp.Row(1))
	planes[3] = row3.Sub(vp.Row(1))
	// OpenGL-style -1..1 depth.
	planes[4] = row3.Add(vp.Row(2))
	planes[5] = row3.Sub(vp.Row(2))

	for i := range planes {
		length := planes[i].Vec3().Len()
		if length > 0 {
			planes[i] = planes[i].Mul(1 / length)
		}
	}
	return planes
}

// FrustumIntersectsSphere is a conservative test: it rejects only spheres
// fully behind one of the planes.
func (c *Camera) FrustumIntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, p := range c.Frustum {
		if p.Vec3().Dot(center)+p.W() < -radius {
			return false
		}
	}
	return true
}

// FrustumIntersectsMesh tests the mesh's bounding sphere in world space. The
// radius is scaled by the largest axis scale of the world matrix. Meshes
// without position data are always considered visible.
func (c *Camera) FrustumIntersectsMesh(m *Mesh) bool {
	geom := m.Geometry
	if geom == nil || geom.Attributes["position"] == nil {
		return true
	}
	if geom.Bounds == nil || !geom.Bounds.hasSphere {
		geom.ComputeBoundingSphere(nil)
	}
	if geom.Bounds == nil {
		return true
	}
	world := m.node.WorldMatrix
	center := mgl32.TransformCoordinate(geom.Bounds.Center, world)
	radius := geom.Bounds.Radius * mgl32.ExtractMaxScale(world)
	return c.FrustumIntersectsSphere(center, radius)
}
