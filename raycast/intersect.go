package raycast

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// IntersectSphere returns the distance along direction to the first sphere
// surface in front of origin. Both roots behind the origin is a miss.
func IntersectSphere(center mgl32.Vec3, radius float32, origin, direction mgl32.Vec3) (float32, bool) {
	ray := center.Sub(origin)
	tca := ray.Dot(direction)
	d2 := ray.Dot(ray) - tca*tca
	r2 := radius * radius
	if d2 > r2 {
		return 0, false
	}
	thc := math32.Sqrt(r2 - d2)
	t0, t1 := tca-thc, tca+thc
	if t0 < 0 && t1 < 0 {
		return 0, false
	}
	if t0 < 0 {
		return t1, true
	}
	return t0, true
}

// IntersectBox is the slab test against the box [lo, hi]. A box entirely
// behind the origin is a miss; an origin inside the box returns the exit
// distance.
func IntersectBox(lo, hi, origin, direction mgl32.Vec3) (float32, bool) {
	tmin, tmax := slab(lo[0], hi[0], origin[0], direction[0])
	tymin, tymax := slab(lo[1], hi[1], origin[1], direction[1])
	if tmin > tymax || tymin > tmax {
		return 0, false
	}
	tmin, tmax = math32.Max(tmin, tymin), math32.Min(tmax, tymax)

	tzmin, tzmax := slab(lo[2], hi[2], origin[2], direction[2])
	if tmin > tzmax || tzmin > tmax {
		return 0, false
	}
	tmin, tmax = math32.Max(tmin, tzmin), math32.Min(tmax, tzmax)

	if tmax < 0 {
		return 0, false
	}
	if tmin >= 0 {
		return tmin, true
	}
	return tmax, true
}

// slab returns the entry and exit distances along one axis. A zero
// direction component gives an infinite inverse.
func slab(lo, hi, origin, dir float32) (float32, float32) {
	inv := 1 / dir
	if inv >= 0 {
		return (lo - origin) * inv, (hi - origin) * inv
	}
	return (hi - origin) * inv, (lo - origin) * inv
}

// IntersectTriangle returns the distance to triangle abc along direction.
// A ray parallel to the triangle's plane misses. With cullFace, triangles
// wound clockwise as seen from the origin are ignored.
func IntersectTriangle(a, b, c, origin, direction mgl32.Vec3, cullFace bool) (float32, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	normal := edge1.Cross(edge2)

	ddn := direction.Dot(normal)
	if ddn == 0 {
		return 0, false
	}
	var sign float32
	if ddn > 0 {
		if cullFace {
			return 0, false
		}
		sign = 1
	} else {
		sign = -1
		ddn = -ddn
	}

	diff := origin.Sub(a)
	ddqxe2 := sign * direction.Dot(diff.Cross(edge2))
	if ddqxe2 < 0 {
		return 0, false
	}
	dde1xq := sign * direction.Dot(edge1.Cross(diff))
	if dde1xq < 0 {
		return 0, false
	}
	if ddqxe2+dde1xq > ddn {
		return 0, false
	}
	qdn := -sign * diff.Dot(normal)
	if qdn < 0 {
		return 0, false
	}
	return qdn / ddn, true
}

// IntersectPlane returns the distance to the plane through point with the
// given normal. Parallel rays and planes behind the origin miss.
func IntersectPlane(point, normal, origin, direction mgl32.Vec3) (float32, bool) {
	denom := normal.Dot(direction)
	if denom == 0 {
		return 0, false
	}
	t := normal.Dot(point.Sub(origin)) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Barycoord returns the barycentric weights of p in triangle abc, ordered
// (a, b, c). A degenerate triangle returns (-2, -1, -1).
func Barycoord(p, a, b, c mgl32.Vec3) mgl32.Vec3 {
	v0 := c.Sub(a)
	v1 := b.Sub(a)
	v2 := p.Sub(a)
	dot00 := v0.Dot(v0)
	dot01 := v0.Dot(v1)
	dot02 := v0.Dot(v2)
	dot11 := v1.Dot(v1)
	dot12 := v1.Dot(v2)
	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return mgl32.Vec3{-2, -1, -1}
	}
	inv := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * inv
	v := (dot00*dot12 - dot01*dot02) * inv
	return mgl32.Vec3{1 - u - v, v, u}
}
