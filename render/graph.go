// Package render is a retained-mode 3D rendering core on top of gl.Context:
// a scene graph of transform nodes, GPU geometry and program wrappers, and a
// Renderer that caches GL state so redundant driver calls are never issued.
package render

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeID addresses a node inside a Graph. The zero value means "no node".
type NodeID uint32

type Kind uint8

const (
	KindGroup Kind = iota
	KindCamera
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindCamera:
		return "camera"
	case KindMesh:
		return "mesh"
	}
	return "group"
}

// ErrCycle is returned when attaching a node would make it its own ancestor.
var ErrCycle = errors.New("render: node cannot be attached below itself")

// Graph is an arena of scene nodes. Nodes are never freed: detaching a node
// leaves it in the arena so its handle stays valid.
type Graph struct {
	nodes []*Node
}

func NewGraph() *Graph {
	return &Graph{}
}

// Node returns the node record for id, or nil for an invalid handle.
func (g *Graph) Node(id NodeID) *Node {
	if id == 0 || int(id) > len(g.nodes) {
		return nil
	}
	return g.nodes[id-1]
}

// Len is the number of nodes ever created in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

func (g *Graph) add(kind Kind) *Node {
	n := newNode(kind)
	g.nodes = append(g.nodes, n)
	n.id = NodeID(len(g.nodes))
	return n
}

func (g *Graph) NewGroup() NodeID {
	return g.add(KindGroup).id
}

func (g *Graph) NewCamera(opts CameraOptions) NodeID {
	n := g.add(KindCamera)
	n.Camera = newCamera(n, opts)
	return n.id
}

func (g *Graph) NewMesh(opts MeshOptions) NodeID {
	n := g.add(KindMesh)
	n.Mesh = newMesh(n, opts)
	return n.id
}

// Camera returns the camera variant of id, or nil if id is not a camera.
func (g *Graph) Camera(id NodeID) *Camera {
	if n := g.Node(id); n != nil {
		return n.Camera
	}
	return nil
}

// Mesh returns the mesh variant of id, or nil if id is not a mesh.
func (g *Graph) Mesh(id NodeID) *Mesh {
	if n := g.Node(id); n != nil {
		return n.Mesh
	}
	return nil
}

func (g *Graph) Parent(id NodeID) NodeID {
	if n := g.Node(id); n != nil {
		return n.parent
	}
	return 0
}

// Children returns the ordered child list of id. The slice must not be modified.
func (g *Graph) Children(id NodeID) []NodeID {
	if n := g.Node(id); n != nil {
		return n.children
	}
	return nil
}

// SetParent moves child under parent, detaching it from any previous parent.
// A zero parent detaches the node.
func (g *Graph) SetParent(child, parent NodeID) error {
	c := g.Node(child)
	if c == nil {
		return nil
	}
	if parent != 0 {
		if g.Node(parent) == nil {
			return nil
		}
		for p := parent; p != 0; p = g.nodes[p-1].parent {
			if p == child {
				return ErrCycle
			}
		}
	}
	if c.parent == parent {
		return nil
	}
	if old := g.Node(c.parent); old != nil {
		old.removeChild(child)
	}
	c.parent = parent
	if p := g.Node(parent); p != nil {
		p.children = append(p.children, child)
	}
	return nil
}

func (g *Graph) AddChild(parent, child NodeID) error {
	return g.SetParent(child, parent)
}

// RemoveChild detaches child if it is currently a child of parent.
func (g *Graph) RemoveChild(parent, child NodeID) {
	c := g.Node(child)
	if c == nil || c.parent != parent {
		return
	}
	_ = g.SetParent(child, 0)
}

func (n *Node) removeChild(child NodeID) {
	for i, id := range n.children {
		if id == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// UpdateMatrixWorld recomputes world matrices for id and its whole subtree.
// Once a node recomputes, every descendant recomputes as well.
func (g *Graph) UpdateMatrixWorld(id NodeID, force bool) {
	if n := g.Node(id); n != nil {
		g.updateMatrixWorld(n, force)
	}
}

func (g *Graph) updateMatrixWorld(n *Node, force bool) {
	if n.MatrixAutoUpdate {
		n.UpdateMatrix()
	}
	if n.WorldMatrixNeedsUpdate || force {
		if p := g.Node(n.parent); p != nil {
			n.WorldMatrix = p.WorldMatrix.Mul4(n.Matrix)
		} else {
			n.WorldMatrix = n.Matrix
		}
		n.WorldMatrixNeedsUpdate = false
		force = true
	}
	if n.Kind == KindCamera && n.Camera != nil {
		n.Camera.updateView()
	}
	for _, c := range n.children {
		g.updateMatrixWorld(g.nodes[c-1], force)
	}
}

// Traverse visits id and its descendants depth-first, parents before
// children. Returning true from fn skips the subtree below that node.
func (g *Graph) Traverse(id NodeID, fn func(NodeID, *Node) bool) {
	n := g.Node(id)
	if n == nil {
		return
	}
	if fn(id, n) {
		return
	}
	for _, c := range n.children {
		g.Traverse(c, fn)
	}
}

// LookAt orients id toward target. With invert the node's -Z axis points at
// the target, which is what cameras want.
func (g *Graph) LookAt(id NodeID, target mgl32.Vec3, invert bool) {
	if n := g.Node(id); n != nil {
		n.LookAt(target, invert)
	}
}
