package render

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderList collects the visible meshes below scene. Invisible nodes hide
// their whole subtree. With sort the list is ordered opaque first, then
// depth-tested transparent meshes, then the rest (ui).
func (r *Renderer) RenderList(g *Graph, scene NodeID, camera *Camera, frustumCull, sortList bool) []*Mesh {
	var list []*Mesh
	if camera != nil && frustumCull {
		camera.UpdateFrustum()
	}
	g.Traverse(scene, func(_ NodeID, n *Node) bool {
		if !n.Visible {
			return true
		}
		m := n.Mesh
		if n.Kind != KindMesh || m == nil || m.Program == nil {
			return false
		}
		if frustumCull && m.FrustumCulled && camera != nil && !camera.FrustumIntersectsMesh(m) {
			return false
		}
		list = append(list, m)
		return false
	})
	if !sortList {
		return list
	}

	var opaque, transparent, ui []*Mesh
	for _, m := range list {
		switch {
		case !m.Program.Transparent:
			opaque = append(opaque, m)
		case m.Program.DepthTest:
			transparent = append(transparent, m)
		default:
			ui = append(ui, m)
		}
		m.ZDepth = 0
		if m.RenderOrder != 0 || !m.Program.DepthTest || camera == nil {
			continue
		}
		pos := m.node.WorldMatrix.Col(3).Vec3()
		m.ZDepth = mgl32.TransformCoordinate(pos, camera.ProjectionViewMatrix).Z()
	}

	sort.Slice(opaque, func(i, j int) bool { return lessOpaque(opaque[i], opaque[j]) })
	sort.Slice(transparent, func(i, j int) bool { return lessTransparent(transparent[i], transparent[j]) })
	sort.Slice(ui, func(i, j int) bool { return lessUI(ui[i], ui[j]) })

	out := make([]*Mesh, 0, len(list))
	out = append(out, opaque...)
	out = append(out, transparent...)
	return append(out, ui...)
}

// Opaque meshes draw front to back, grouped by program.
func lessOpaque(a, b *Mesh) bool {
	if a.RenderOrder != b.RenderOrder {
		return a.RenderOrder < b.RenderOrder
	}
	if a.Program.ID != b.Program.ID {
		return a.Program.ID < b.Program.ID
	}
	if a.ZDepth != b.ZDepth {
		return a.ZDepth < b.ZDepth
	}
	return a.node.id > b.node.id
}

// Transparent meshes draw back to front.
func lessTransparent(a, b *Mesh) bool {
	if a.RenderOrder != b.RenderOrder {
		return a.RenderOrder < b.RenderOrder
	}
	if a.ZDepth != b.ZDepth {
		return a.ZDepth > b.ZDepth
	}
	return a.node.id > b.node.id
}

func lessUI(a, b *Mesh) bool {
	if a.RenderOrder != b.RenderOrder {
		return a.RenderOrder < b.RenderOrder
	}
	if a.Program.ID != b.Program.ID {
		return a.Program.ID < b.Program.ID
	}
	return a.node.id > b.node.id
}
