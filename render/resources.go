package render

import (
	"sort"

	"github.com/google/uuid"
)

// ResourceID identifies a GPU resource wrapper for the lifetime of its
// renderer. It doubles as the default label in log output.
type ResourceID string

type ResourceKind uint8

const (
	ResourceGeometry ResourceKind = iota
	ResourceProgram
	ResourceTexture
	ResourceRenderTarget
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceGeometry:
		return "geometry"
	case ResourceProgram:
		return "program"
	case ResourceTexture:
		return "texture"
	case ResourceRenderTarget:
		return "render target"
	}
	return "unknown"
}

type ResourceStats struct {
	Geometries    int
	Programs      int
	Textures      int
	RenderTargets int
}

type resource struct {
	kind  ResourceKind
	value any
}

func makeResourceID() ResourceID {
	return ResourceID(uuid.NewString())
}

func (r *Renderer) nextID() int {
	r.ids++
	return r.ids
}

func (r *Renderer) register(kind ResourceKind, v any) ResourceID {
	id := makeResourceID()
	r.resources[id] = resource{kind: kind, value: v}
	r.logger.Debugf("created %s %s", kind, id)
	return id
}

func (r *Renderer) unregister(id ResourceID) {
	if res, ok := r.resources[id]; ok {
		delete(r.resources, id)
		r.logger.Debugf("removed %s %s", res.kind, id)
	}
}

// Resources counts the live (not yet removed) resources per kind.
func (r *Renderer) Resources() ResourceStats {
	var s ResourceStats
	for _, res := range r.resources {
		switch res.kind {
		case ResourceGeometry:
			s.Geometries++
		case ResourceProgram:
			s.Programs++
		case ResourceTexture:
			s.Textures++
		case ResourceRenderTarget:
			s.RenderTargets++
		}
	}
	return s
}

// Resource looks up a live resource: a *Geometry, *Program, *Texture or
// *RenderTarget.
func (r *Renderer) Resource(id ResourceID) (any, ResourceKind, bool) {
	res, ok := r.resources[id]
	return res.value, res.kind, ok
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
