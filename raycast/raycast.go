// Package raycast intersects rays with render meshes. IntersectBounds is a
// broad phase against each geometry's bounding sphere or box; IntersectMeshes
// refines the survivors against their triangles.
//
// Tests run in each mesh's local space: the ray is moved by the inverse world
// matrix instead of moving the geometry. Results are written to Mesh.Hit,
// which is reused between calls.
package raycast

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/scenegl/gl"
	"github.com/gekko3d/scenegl/render"
)

// Ray is a world-space ray. Direction is expected to be unit length.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Options tunes IntersectBounds and IntersectMeshes.
type Options struct {
	// MaxDistance limits hits to this world distance. Zero is unlimited.
	MaxDistance float32
	// DoubleSided also accepts triangles facing away from the ray.
	DoubleSided bool
	SkipUV      bool
	SkipNormal  bool
	// Output is truncated and reused for the result.
	Output []*render.Mesh
}

func New() *Ray {
	return &Ray{Direction: mgl32.Vec3{0, 0, -1}}
}

// CastMouse points the ray from camera through mouse, given in normalized
// device coordinates (-1..1, y up).
func (r *Ray) CastMouse(camera *render.Camera, mouse mgl32.Vec2) {
	world := camera.Node().WorldMatrix
	if camera.Projection == render.Orthographic {
		z := camera.Zoom
		x := camera.Left/z + (camera.Right-camera.Left)/z*(mouse[0]*0.5+0.5)
		y := camera.Bottom/z + (camera.Top-camera.Bottom)/z*(mouse[1]*0.5+0.5)
		r.Origin = mgl32.TransformCoordinate(mgl32.Vec3{x, y, 0}, world)
		r.Direction = normalize(world.Col(2).Vec3().Mul(-1))
		return
	}
	r.Origin = world.Col(3).Vec3()
	p := camera.Unproject(mgl32.Vec3{mouse[0], mouse[1], 0.5})
	r.Direction = normalize(p.Sub(r.Origin))
}

// local is the ray expressed in a mesh's local space.
type local struct {
	origin, direction mgl32.Vec3
	maxDistance       float32
}

func (r *Ray) toLocal(world mgl32.Mat4, maxDistance float32) (local, bool) {
	if world.Det() == 0 {
		return local{}, false
	}
	inv := world.Inv()
	l := local{
		origin:    mgl32.TransformCoordinate(r.Origin, inv),
		direction: normalize(mgl32.TransformNormal(r.Direction, inv)),
	}
	if maxDistance > 0 {
		l.maxDistance = maxDistance * mgl32.TransformNormal(r.Direction, inv).Len()
	}
	return l, true
}

// IntersectBounds returns the meshes whose bounding volume the ray hits,
// nearest first. A ray starting inside a bound hits it at distance zero.
func (r *Ray) IntersectBounds(meshes []*render.Mesh, opts Options) []*render.Mesh {
	hits := opts.Output[:0]
	for _, m := range meshes {
		geom := m.Geometry
		if geom == nil || geom.Attributes["position"] == nil {
			continue
		}
		if !geom.Bounds.HasSphere() || math32.IsInf(geom.Bounds.Radius, 1) {
			geom.ComputeBoundingSphere(nil)
		}
		bounds := geom.Bounds
		if bounds == nil {
			continue
		}
		world := m.Node().WorldMatrix
		l, ok := r.toLocal(world, opts.MaxDistance)
		if !ok {
			continue
		}
		if l.maxDistance > 0 && l.origin.Sub(bounds.Center).Len()-bounds.Radius > l.maxDistance {
			continue
		}

		var dist float32
		if geom.Raycast == render.BoundsBox {
			if !insideBox(l.origin, bounds) {
				if dist, ok = IntersectBox(bounds.Min, bounds.Max, l.origin, l.direction); !ok {
					continue
				}
			}
		} else if l.origin.Sub(bounds.Center).Len() > bounds.Radius {
			if dist, ok = IntersectSphere(bounds.Center, bounds.Radius, l.origin, l.direction); !ok {
				continue
			}
		}
		if l.maxDistance > 0 && dist > l.maxDistance {
			continue
		}

		if m.Hit == nil {
			m.Hit = &render.Hit{}
		}
		m.Hit.LocalPoint = l.origin.Add(l.direction.Mul(dist))
		m.Hit.Point = mgl32.TransformCoordinate(m.Hit.LocalPoint, world)
		m.Hit.Distance = m.Hit.Point.Sub(r.Origin).Len()
		m.Hit.HasUV, m.Hit.HasNormal = false, false
		hits = append(hits, m)
	}
	sortByDistance(hits)
	return hits
}

// IntersectMeshes runs IntersectBounds and then tests every triangle of the
// surviving meshes, keeping those with a real hit. The closest triangle's
// face normal is stored on the hit, and uv and normal are interpolated from
// their attributes when present.
func (r *Ray) IntersectMeshes(meshes []*render.Mesh, opts Options) []*render.Mesh {
	hits := r.IntersectBounds(meshes, opts)
	for i := len(hits) - 1; i >= 0; i-- {
		m := hits[i]
		world := m.Node().WorldMatrix
		l, _ := r.toLocal(world, opts.MaxDistance)
		tri, ok := closestTriangle(m.Geometry, l, !opts.DoubleSided)
		if !ok {
			hits = append(hits[:i], hits[i+1:]...)
			continue
		}

		hit := m.Hit
		hit.LocalPoint = l.origin.Add(l.direction.Mul(tri.distance))
		hit.Point = mgl32.TransformCoordinate(hit.LocalPoint, world)
		hit.Distance = hit.Point.Sub(r.Origin).Len()

		normalMatrix := mgl32.Mat4Normal(world)
		hit.LocalFaceNormal = normalize(tri.normal)
		hit.FaceNormal = normalize(normalMatrix.Mul3x1(hit.LocalFaceNormal))

		if opts.SkipUV && opts.SkipNormal {
			continue
		}
		attrs := m.Geometry.Attributes
		pos := attrs["position"]
		bary := Barycoord(hit.LocalPoint,
			vec3At(pos, tri.a), vec3At(pos, tri.b), vec3At(pos, tri.c))

		if uv := attrs["uv"]; !opts.SkipUV && uv != nil {
			a, b, c := vec2At(uv, tri.a), vec2At(uv, tri.b), vec2At(uv, tri.c)
			hit.UV = a.Mul(bary[0]).Add(b.Mul(bary[1])).Add(c.Mul(bary[2]))
			hit.HasUV = true
		}
		if n := attrs["normal"]; !opts.SkipNormal && n != nil {
			a, b, c := vec3At(n, tri.a), vec3At(n, tri.b), vec3At(n, tri.c)
			hit.LocalNormal = normalize(a.Mul(bary[0]).Add(b.Mul(bary[1])).Add(c.Mul(bary[2])))
			hit.Normal = normalize(normalMatrix.Mul3x1(hit.LocalNormal))
			hit.HasNormal = true
		}
	}
	sortByDistance(hits)
	return hits
}

type triangleHit struct {
	a, b, c  int
	distance float32
	normal   mgl32.Vec3
}

// closestTriangle scans the geometry's draw range, three vertices at a time.
func closestTriangle(g *render.Geometry, l local, cullFace bool) (triangleHit, bool) {
	pos := g.Attributes["position"]
	index := g.Attributes["index"]
	count := pos.Count
	if index != nil {
		count = index.Count
	}
	start := max(0, g.DrawRange.Start)
	end := min(count, g.DrawRange.Start+g.DrawRange.Count)

	var best triangleHit
	found := false
	for j := start; j+2 < end; j += 3 {
		ai, bi, ci := j, j+1, j+2
		if index != nil {
			ai, bi, ci = gl.Index(index.Data, j), gl.Index(index.Data, j+1), gl.Index(index.Data, j+2)
		}
		a, b, c := vec3At(pos, ai), vec3At(pos, bi), vec3At(pos, ci)
		t, ok := IntersectTriangle(a, b, c, l.origin, l.direction, cullFace)
		if !ok {
			continue
		}
		if l.maxDistance > 0 && t > l.maxDistance {
			continue
		}
		if !found || t < best.distance {
			normal := b.Sub(a).Cross(c.Sub(a))
			best = triangleHit{a: ai, b: bi, c: ci, distance: t, normal: normal}
			found = true
		}
	}
	return best, found
}

func sortByDistance(hits []*render.Mesh) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Hit.Distance < hits[j].Hit.Distance
	})
}

func insideBox(p mgl32.Vec3, b *render.Bounds) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func vec3At(a *render.Attribute, i int) mgl32.Vec3 {
	step, offset := stride(a)
	base := offset + i*step
	var v mgl32.Vec3
	for c := 0; c < min(a.Size, 3); c++ {
		v[c] = gl.Float(a.Data, base+c)
	}
	return v
}

func vec2At(a *render.Attribute, i int) mgl32.Vec2 {
	step, offset := stride(a)
	base := offset + i*step
	var v mgl32.Vec2
	for c := 0; c < min(a.Size, 2); c++ {
		v[c] = gl.Float(a.Data, base+c)
	}
	return v
}

func stride(a *render.Attribute) (step, offset int) {
	bpe := gl.BytesPerElement(a.Type)
	step = a.Size
	if a.Stride > 0 && bpe > 0 {
		step = a.Stride / bpe
	}
	if bpe > 0 {
		offset = a.Offset / bpe
	}
	return step, offset
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
