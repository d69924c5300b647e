package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/scenegl/gl"
)

type MeshOptions struct {
	Geometry *Geometry
	Program  *Program
	// Mode defaults to TRIANGLES.
	Mode               gl.Enum
	DisableFrustumCull bool
	RenderOrder        int
}

// RenderCallback runs around a mesh's draw call. camera is nil when the
// mesh is drawn without one.
type RenderCallback func(m *Mesh, camera *Camera)

// Hit is the result of the last raycast that reached a mesh. The raycast
// package reuses it across calls.
type Hit struct {
	LocalPoint mgl32.Vec3
	Point      mgl32.Vec3
	Distance   float32

	LocalFaceNormal mgl32.Vec3
	FaceNormal      mgl32.Vec3

	HasUV bool
	UV    mgl32.Vec2

	HasNormal   bool
	LocalNormal mgl32.Vec3
	Normal      mgl32.Vec3
}

// Mesh is the drawable variant of a Node. Geometry and Program are shared,
// non-owning references.
type Mesh struct {
	node *Node

	Geometry      *Geometry
	Program       *Program
	Mode          gl.Enum
	FrustumCulled bool
	RenderOrder   int

	// ZDepth is the clip-space depth used by the last sorted render list.
	ZDepth          float32
	ModelViewMatrix mgl32.Mat4
	NormalMatrix    mgl32.Mat3
	Hit             *Hit

	beforeRender []RenderCallback
	afterRender  []RenderCallback
}

func newMesh(n *Node, opts MeshOptions) *Mesh {
	m := &Mesh{
		node:            n,
		Geometry:        opts.Geometry,
		Program:         opts.Program,
		Mode:            opts.Mode,
		FrustumCulled:   !opts.DisableFrustumCull,
		RenderOrder:     opts.RenderOrder,
		ModelViewMatrix: mgl32.Ident4(),
		NormalMatrix:    mgl32.Ident3(),
	}
	if m.Mode == 0 {
		m.Mode = gl.TRIANGLES
	}
	return m
}

func (m *Mesh) Node() *Node { return m.node }

func (m *Mesh) OnBeforeRender(fn RenderCallback) *Mesh {
	m.beforeRender = append(m.beforeRender, fn)
	return m
}

func (m *Mesh) OnAfterRender(fn RenderCallback) *Mesh {
	m.afterRender = append(m.afterRender, fn)
	return m
}

var cameraUniforms = [...]string{
	"modelMatrix",
	"viewMatrix",
	"modelViewMatrix",
	"normalMatrix",
	"projectionMatrix",
	"cameraPosition",
}

// Draw uploads the camera matrices and issues the mesh's draw call. Meshes
// with a mirrored world matrix have their winding flipped when culling.
// A mesh without a program or geometry draws nothing and runs no callbacks.
func (m *Mesh) Draw(camera *Camera) error {
	if m.Program == nil || m.Geometry == nil {
		return nil
	}
	for _, fn := range m.beforeRender {
		fn(m, camera)
	}
	world := m.node.WorldMatrix
	if camera != nil {
		u := m.Program.Uniforms
		for _, name := range cameraUniforms {
			if u[name] == nil {
				u[name] = &Uniform{}
			}
		}
		m.ModelViewMatrix = camera.ViewMatrix.Mul4(world)
		m.NormalMatrix = mgl32.Mat4Normal(m.ModelViewMatrix)

		u["projectionMatrix"].Value = camera.ProjectionMatrix
		u["cameraPosition"].Value = camera.WorldPosition
		u["viewMatrix"].Value = camera.ViewMatrix
		u["modelMatrix"].Value = world
		u["modelViewMatrix"].Value = m.ModelViewMatrix
		u["normalMatrix"].Value = m.NormalMatrix
	}

	flipFaces := m.Program.CullFace != 0 && world.Det() < 0
	if err := m.Program.Use(flipFaces); err != nil {
		return err
	}
	m.Geometry.Draw(m.Program, m.Mode)

	for _, fn := range m.afterRender {
		fn(m, camera)
	}
	return nil
}
