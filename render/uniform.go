package render

import (
	"reflect"
	"regexp"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/scenegl/gl"
)

// Uniform holds the value a program uploads for one named uniform. Value may
// be a number, bool, mgl32 vector or matrix, a slice of those, a Sampler or
// []Sampler, a Struct, or a []Struct.
type Uniform struct {
	Value any
}

type Uniforms map[string]*Uniform

// Struct is the value of a GLSL struct uniform, keyed by member name.
type Struct map[string]*Uniform

// Sampler is anything a program can bind to a texture unit. Update is called
// with the unit right before the sampler uniform is set.
type Sampler interface {
	Update(unit int)
	Handle() gl.Texture
}

// isNilSampler reports whether s is nil or a nil pointer, as an unloaded
// texture stored in a uniform is.
func isNilSampler(s Sampler) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

type uniformKind uint8

const (
	uniformScalar uniformKind = iota
	uniformStructMember
	uniformStructArrayMember
)

// uniformInfo is an active uniform with its name parsed once at link time.
type uniformInfo struct {
	gl.ActiveInfo
	Location int32

	kind  uniformKind
	base  string
	index int
	field string
}

// name, name[0], name.field, name[i].field, with an optional trailing [0]
// for array members.
var uniformNamePattern = regexp.MustCompile(`^(\w+)(?:\[(\d+)\])?(?:\.(\w+))?(?:\[0\])?$`)

func parseUniform(info gl.ActiveInfo, location int32) uniformInfo {
	u := uniformInfo{ActiveInfo: info, Location: location, base: info.Name}
	m := uniformNamePattern.FindStringSubmatch(info.Name)
	if m == nil {
		return u
	}
	u.base = m[1]
	switch {
	case m[3] == "":
	case m[2] != "":
		u.kind = uniformStructArrayMember
		u.index, _ = strconv.Atoi(m[2])
		u.field = m[3]
	default:
		u.kind = uniformStructMember
		u.field = m[3]
	}
	return u
}

func (u *uniformInfo) resolve(uniforms Uniforms) *Uniform {
	root := uniforms[u.base]
	if root == nil {
		return nil
	}
	switch u.kind {
	case uniformStructMember:
		s, ok := root.Value.(Struct)
		if !ok {
			return nil
		}
		return s[u.field]
	case uniformStructArrayMember:
		arr, ok := root.Value.([]Struct)
		if !ok || u.index >= len(arr) {
			return nil
		}
		return arr[u.index][u.field]
	}
	return root
}

func isIntUniform(typ gl.Enum) bool {
	switch typ {
	case gl.INT, gl.BOOL, gl.INT_VEC2, gl.INT_VEC3, gl.INT_VEC4,
		gl.BOOL_VEC2, gl.BOOL_VEC3, gl.BOOL_VEC4,
		gl.SAMPLER_2D, gl.SAMPLER_3D, gl.SAMPLER_CUBE, gl.SAMPLER_2D_ARRAY, gl.UNSIGNED_INT_SAMPLER_2D:
		return true
	}
	return false
}

type cachedUniform struct {
	f []float32
	i []int32
}

// setUniform uploads value for u unless the per-location cache already holds
// it. Vector and matrix arrays are flattened into the renderer's scratch
// buffers first so each upload is a single call.
func (r *Renderer) setUniform(program gl.Program, u *uniformInfo, value any) bool {
	if isIntUniform(u.Type) {
		vals, ok := appendInts(r.scratchI[:0], value)
		r.scratchI = vals
		if !ok || len(vals) == 0 {
			return false
		}
		if !r.uniformChanged(program, u.Location, nil, vals) {
			return true
		}
		switch u.Type {
		case gl.INT_VEC2, gl.BOOL_VEC2:
			r.ctx.Uniform2iv(u.Location, vals)
		case gl.INT_VEC3, gl.BOOL_VEC3:
			r.ctx.Uniform3iv(u.Location, vals)
		case gl.INT_VEC4, gl.BOOL_VEC4:
			r.ctx.Uniform4iv(u.Location, vals)
		default:
			if len(vals) == 1 {
				r.ctx.Uniform1i(u.Location, vals[0])
			} else {
				r.ctx.Uniform1iv(u.Location, vals)
			}
		}
		return true
	}

	vals, ok := appendFloats(r.scratchF[:0], value)
	r.scratchF = vals
	if !ok || len(vals) == 0 {
		return false
	}
	switch u.Type {
	case gl.FLOAT, gl.FLOAT_VEC2, gl.FLOAT_VEC3, gl.FLOAT_VEC4,
		gl.FLOAT_MAT2, gl.FLOAT_MAT3, gl.FLOAT_MAT4:
	default:
		return false
	}
	if !r.uniformChanged(program, u.Location, vals, nil) {
		return true
	}
	switch u.Type {
	case gl.FLOAT:
		if len(vals) == 1 {
			r.ctx.Uniform1f(u.Location, vals[0])
		} else {
			r.ctx.Uniform1fv(u.Location, vals)
		}
	case gl.FLOAT_VEC2:
		r.ctx.Uniform2fv(u.Location, vals)
	case gl.FLOAT_VEC3:
		r.ctx.Uniform3fv(u.Location, vals)
	case gl.FLOAT_VEC4:
		r.ctx.Uniform4fv(u.Location, vals)
	case gl.FLOAT_MAT2:
		r.ctx.UniformMatrix2fv(u.Location, vals)
	case gl.FLOAT_MAT3:
		r.ctx.UniformMatrix3fv(u.Location, vals)
	case gl.FLOAT_MAT4:
		r.ctx.UniformMatrix4fv(u.Location, vals)
	}
	return true
}

// uniformChanged compares against the cached value for (program, location)
// and stores the new one when it differs.
func (r *Renderer) uniformChanged(program gl.Program, location int32, f []float32, i []int32) bool {
	locs := r.uniformCache[program]
	if locs == nil {
		locs = make(map[int32]*cachedUniform)
		r.uniformCache[program] = locs
	}
	c := locs[location]
	if c == nil {
		c = &cachedUniform{}
		locs[location] = c
	} else if f != nil && equalFloats(c.f, f) {
		return false
	} else if i != nil && equalInts(c.i, i) {
		return false
	}
	if f != nil {
		c.f = append(c.f[:0], f...)
		c.i = nil
	} else {
		c.i = append(c.i[:0], i...)
		c.f = nil
	}
	return true
}

func (r *Renderer) forgetUniforms(program gl.Program) {
	delete(r.uniformCache, program)
}

func equalFloats(a, b []float32) bool {
	if a == nil || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInts(a, b []int32) bool {
	if a == nil || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func appendFloats(dst []float32, v any) ([]float32, bool) {
	switch x := v.(type) {
	case float32:
		return append(dst, x), true
	case float64:
		return append(dst, float32(x)), true
	case int:
		return append(dst, float32(x)), true
	case bool:
		if x {
			return append(dst, 1), true
		}
		return append(dst, 0), true
	case mgl32.Vec2:
		return append(dst, x[:]...), true
	case mgl32.Vec3:
		return append(dst, x[:]...), true
	case mgl32.Vec4:
		return append(dst, x[:]...), true
	case mgl32.Quat:
		return append(dst, x.V[0], x.V[1], x.V[2], x.W), true
	case mgl32.Mat2:
		return append(dst, x[:]...), true
	case mgl32.Mat3:
		return append(dst, x[:]...), true
	case mgl32.Mat4:
		return append(dst, x[:]...), true
	case []float32:
		return append(dst, x...), true
	case []mgl32.Vec2:
		for _, e := range x {
			dst = append(dst, e[:]...)
		}
		return dst, true
	case []mgl32.Vec3:
		for _, e := range x {
			dst = append(dst, e[:]...)
		}
		return dst, true
	case []mgl32.Vec4:
		for _, e := range x {
			dst = append(dst, e[:]...)
		}
		return dst, true
	case []mgl32.Mat3:
		for _, e := range x {
			dst = append(dst, e[:]...)
		}
		return dst, true
	case []mgl32.Mat4:
		for _, e := range x {
			dst = append(dst, e[:]...)
		}
		return dst, true
	}
	return dst, false
}

func appendInts(dst []int32, v any) ([]int32, bool) {
	switch x := v.(type) {
	case int:
		return append(dst, int32(x)), true
	case int32:
		return append(dst, x), true
	case uint32:
		return append(dst, int32(x)), true
	case float32:
		return append(dst, int32(x)), true
	case bool:
		if x {
			return append(dst, 1), true
		}
		return append(dst, 0), true
	case []int32:
		return append(dst, x...), true
	case []int:
		for _, e := range x {
			dst = append(dst, int32(e))
		}
		return dst, true
	case []bool:
		for _, e := range x {
			if e {
				dst = append(dst, 1)
			} else {
				dst = append(dst, 0)
			}
		}
		return dst, true
	}
	return dst, false
}
