// Package gogl implements gl.Context on top of go-gl's OpenGL 4.1 core
// bindings. Init must be called once a context is current on the calling
// thread.
package gogl

import (
	"fmt"
	"strings"
	"unsafe"

	gogl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gekko3d/scenegl/gl"
)

// Context forwards to the current OpenGL context. The WebGL-only pixel
// store flags are applied to 8-bit RGBA uploads on the CPU.
type Context struct {
	flipY       bool
	premultiply bool
}

// Init loads the GL function pointers. Call it after making a window's
// context current.
func Init() (*Context, error) {
	if err := gogl.Init(); err != nil {
		return nil, fmt.Errorf("gogl: init: %w", err)
	}
	return &Context{}, nil
}

// Version returns the driver's GL_VERSION string.
func (c *Context) Version() string {
	return gogl.GoStr(gogl.GetString(gogl.VERSION))
}

func (c *Context) Enable(capability gl.Enum)  { gogl.Enable(capability) }
func (c *Context) Disable(capability gl.Enum) { gogl.Disable(capability) }
func (c *Context) BlendFunc(src, dst gl.Enum) { gogl.BlendFunc(src, dst) }
func (c *Context) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gl.Enum) {
	gogl.BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha)
}
func (c *Context) BlendEquation(mode gl.Enum) { gogl.BlendEquation(mode) }
func (c *Context) BlendEquationSeparate(modeRGB, modeAlpha gl.Enum) {
	gogl.BlendEquationSeparate(modeRGB, modeAlpha)
}
func (c *Context) CullFace(mode gl.Enum)  { gogl.CullFace(mode) }
func (c *Context) FrontFace(mode gl.Enum) { gogl.FrontFace(mode) }
func (c *Context) DepthMask(flag bool)    { gogl.DepthMask(flag) }
func (c *Context) DepthFunc(fn gl.Enum)   { gogl.DepthFunc(fn) }
func (c *Context) Viewport(x, y, width, height int32) {
	gogl.Viewport(x, y, width, height)
}
func (c *Context) Scissor(x, y, width, height int32) {
	gogl.Scissor(x, y, width, height)
}
func (c *Context) ClearColor(r, g, b, a float32) { gogl.ClearColor(r, g, b, a) }
func (c *Context) Clear(mask gl.Enum)            { gogl.Clear(mask) }

func (c *Context) CreateBuffer() gl.Buffer {
	var b uint32
	gogl.GenBuffers(1, &b)
	return gl.Buffer(b)
}
func (c *Context) BindBuffer(target gl.Enum, b gl.Buffer) { gogl.BindBuffer(target, uint32(b)) }
func (c *Context) BufferData(target gl.Enum, data any, usage gl.Enum) {
	gogl.BufferData(target, gl.ByteLen(data), ptr(data), usage)
}
func (c *Context) BufferSubData(target gl.Enum, offset int, data any) {
	gogl.BufferSubData(target, offset, gl.ByteLen(data), ptr(data))
}
func (c *Context) DeleteBuffer(b gl.Buffer) {
	id := uint32(b)
	gogl.DeleteBuffers(1, &id)
}

func (c *Context) CreateVertexArray() gl.VertexArray {
	var v uint32
	gogl.GenVertexArrays(1, &v)
	return gl.VertexArray(v)
}
func (c *Context) BindVertexArray(v gl.VertexArray) { gogl.BindVertexArray(uint32(v)) }
func (c *Context) DeleteVertexArray(v gl.VertexArray) {
	id := uint32(v)
	gogl.DeleteVertexArrays(1, &id)
}
func (c *Context) VertexAttribPointer(index uint32, size int32, typ gl.Enum, normalized bool, stride int32, offset int) {
	gogl.VertexAttribPointerWithOffset(index, size, typ, normalized, stride, uintptr(offset))
}
func (c *Context) EnableVertexAttribArray(index uint32) { gogl.EnableVertexAttribArray(index) }
func (c *Context) VertexAttribDivisor(index, divisor uint32) {
	gogl.VertexAttribDivisor(index, divisor)
}

func (c *Context) DrawArrays(mode gl.Enum, first, count int32) {
	gogl.DrawArrays(mode, first, count)
}
func (c *Context) DrawElements(mode gl.Enum, count int32, typ gl.Enum, offset int) {
	gogl.DrawElementsWithOffset(mode, count, typ, uintptr(offset))
}
func (c *Context) DrawArraysInstanced(mode gl.Enum, first, count, instances int32) {
	gogl.DrawArraysInstanced(mode, first, count, instances)
}
func (c *Context) DrawElementsInstanced(mode gl.Enum, count int32, typ gl.Enum, offset int, instances int32) {
	gogl.DrawElementsInstanced(mode, count, typ, gogl.PtrOffset(offset), instances)
}

func (c *Context) CreateShader(stage gl.Enum) gl.Shader { return gl.Shader(gogl.CreateShader(stage)) }
func (c *Context) ShaderSource(s gl.Shader, src string) {
	csrc, free := gogl.Strs(src + "\x00")
	gogl.ShaderSource(uint32(s), 1, csrc, nil)
	free()
}
func (c *Context) CompileShader(s gl.Shader) { gogl.CompileShader(uint32(s)) }
func (c *Context) ShaderCompiled(s gl.Shader) bool {
	var status int32
	gogl.GetShaderiv(uint32(s), gogl.COMPILE_STATUS, &status)
	return status == gogl.TRUE
}
func (c *Context) ShaderInfoLog(s gl.Shader) string {
	var n int32
	gogl.GetShaderiv(uint32(s), gogl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	gogl.GetShaderInfoLog(uint32(s), n, nil, gogl.Str(log))
	return strings.TrimRight(log, "\x00")
}
func (c *Context) DeleteShader(s gl.Shader)   { gogl.DeleteShader(uint32(s)) }
func (c *Context) CreateProgram() gl.Program { return gl.Program(gogl.CreateProgram()) }
func (c *Context) AttachShader(p gl.Program, s gl.Shader) {
	gogl.AttachShader(uint32(p), uint32(s))
}
func (c *Context) DetachShader(p gl.Program, s gl.Shader) {
	gogl.DetachShader(uint32(p), uint32(s))
}
func (c *Context) LinkProgram(p gl.Program) { gogl.LinkProgram(uint32(p)) }
func (c *Context) ProgramLinked(p gl.Program) bool {
	var status int32
	gogl.GetProgramiv(uint32(p), gogl.LINK_STATUS, &status)
	return status == gogl.TRUE
}
func (c *Context) ProgramInfoLog(p gl.Program) string {
	var n int32
	gogl.GetProgramiv(uint32(p), gogl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	gogl.GetProgramInfoLog(uint32(p), n, nil, gogl.Str(log))
	return strings.TrimRight(log, "\x00")
}
func (c *Context) UseProgram(p gl.Program)    { gogl.UseProgram(uint32(p)) }
func (c *Context) DeleteProgram(p gl.Program) { gogl.DeleteProgram(uint32(p)) }

func (c *Context) ActiveUniforms(p gl.Program) []gl.ActiveInfo {
	return activeInfos(uint32(p), gogl.ACTIVE_UNIFORMS, gogl.ACTIVE_UNIFORM_MAX_LENGTH, gogl.GetActiveUniform)
}
func (c *Context) UniformLocation(p gl.Program, name string) int32 {
	return gogl.GetUniformLocation(uint32(p), gogl.Str(name+"\x00"))
}
func (c *Context) ActiveAttribs(p gl.Program) []gl.ActiveInfo {
	return activeInfos(uint32(p), gogl.ACTIVE_ATTRIBUTES, gogl.ACTIVE_ATTRIBUTE_MAX_LENGTH, gogl.GetActiveAttrib)
}
func (c *Context) AttribLocation(p gl.Program, name string) int32 {
	return gogl.GetAttribLocation(uint32(p), gogl.Str(name+"\x00"))
}

type activeFunc func(program, index uint32, bufSize int32, length, size *int32, typ *uint32, name *uint8)

func activeInfos(program uint32, countParam, lenParam uint32, get activeFunc) []gl.ActiveInfo {
	var count, maxLen int32
	gogl.GetProgramiv(program, countParam, &count)
	gogl.GetProgramiv(program, lenParam, &maxLen)
	if count == 0 {
		return nil
	}
	buf := make([]uint8, maxLen+1)
	out := make([]gl.ActiveInfo, 0, count)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var typ uint32
		get(program, uint32(i), int32(len(buf)), &length, &size, &typ, &buf[0])
		out = append(out, gl.ActiveInfo{Name: string(buf[:length]), Type: typ, Size: size})
	}
	return out
}

func (c *Context) Uniform1f(location int32, v float32) { gogl.Uniform1f(location, v) }
func (c *Context) Uniform1fv(location int32, v []float32) {
	if len(v) > 0 {
		gogl.Uniform1fv(location, int32(len(v)), &v[0])
	}
}
func (c *Context) Uniform2fv(location int32, v []float32) {
	if len(v) > 0 {
		gogl.Uniform2fv(location, int32(len(v)/2), &v[0])
	}
}
func (c *Context) Uniform3fv(location int32, v []float32) {
	if len(v) > 0 {
		gogl.Uniform3fv(location, int32(len(v)/3), &v[0])
	}
}
func (c *Context) Uniform4fv(location int32, v []float32) {
	if len(v) > 0 {
		gogl.Uniform4fv(location, int32(len(v)/4), &v[0])
	}
}
func (c *Context) Uniform1i(location int32, v int32) { gogl.Uniform1i(location, v) }
func (c *Context) Uniform1iv(location int32, v []int32) {
	if len(v) > 0 {
		gogl.Uniform1iv(location, int32(len(v)), &v[0])
	}
}
func (c *Context) Uniform2iv(location int32, v []int32) {
	if len(v) > 0 {
		gogl.Uniform2iv(location, int32(len(v)/2), &v[0])
	}
}
func (c *Context) Uniform3iv(location int32, v []int32) {
	if len(v) > 0 {
		gogl.Uniform3iv(location, int32(len(v)/3), &v[0])
	}
}
func (c *Context) Uniform4iv(location int32, v []int32) {
	if len(v) > 0 {
		gogl.Uniform4iv(location, int32(len(v)/4), &v[0])
	}
}
func (c *Context) UniformMatrix2fv(location int32, v []float32) {
	if len(v) > 0 {
		gogl.UniformMatrix2fv(location, int32(len(v)/4), false, &v[0])
	}
}
func (c *Context) UniformMatrix3fv(location int32, v []float32) {
	if len(v) > 0 {
		gogl.UniformMatrix3fv(location, int32(len(v)/9), false, &v[0])
	}
}
func (c *Context) UniformMatrix4fv(location int32, v []float32) {
	if len(v) > 0 {
		gogl.UniformMatrix4fv(location, int32(len(v)/16), false, &v[0])
	}
}

func (c *Context) CreateTexture() gl.Texture {
	var t uint32
	gogl.GenTextures(1, &t)
	return gl.Texture(t)
}
func (c *Context) ActiveTexture(unit gl.Enum)               { gogl.ActiveTexture(unit) }
func (c *Context) BindTexture(target gl.Enum, t gl.Texture) { gogl.BindTexture(target, uint32(t)) }
func (c *Context) TexImage2D(target gl.Enum, level int32, internalFormat gl.Enum, width, height int32, format, typ gl.Enum, pixels any) {
	if px, ok := pixels.([]uint8); ok && format == gl.RGBA && typ == gl.UNSIGNED_BYTE && (c.flipY || c.premultiply) {
		pixels = c.unpack(px, int(width), int(height))
	}
	gogl.TexImage2D(target, level, int32(internalFormat), width, height, 0, format, typ, ptr(pixels))
}

// unpack applies the emulated WebGL pixel store flags to a copy of px.
func (c *Context) unpack(px []uint8, width, height int) []uint8 {
	row := width * 4
	if len(px) < row*height {
		return px
	}
	out := make([]uint8, row*height)
	for y := 0; y < height; y++ {
		src := y
		if c.flipY {
			src = height - 1 - y
		}
		copy(out[y*row:(y+1)*row], px[src*row:(src+1)*row])
	}
	if c.premultiply {
		for i := 0; i < len(out); i += 4 {
			a := uint32(out[i+3])
			out[i] = uint8(uint32(out[i]) * a / 255)
			out[i+1] = uint8(uint32(out[i+1]) * a / 255)
			out[i+2] = uint8(uint32(out[i+2]) * a / 255)
		}
	}
	return out
}

func (c *Context) TexParameteri(target, pname gl.Enum, param int32) {
	gogl.TexParameteri(target, pname, param)
}
func (c *Context) GenerateMipmap(target gl.Enum) { gogl.GenerateMipmap(target) }
func (c *Context) PixelStorei(pname gl.Enum, param int32) {
	switch pname {
	case gl.UNPACK_FLIP_Y_WEBGL:
		c.flipY = param != 0
	case gl.UNPACK_PREMULTIPLY_ALPHA_WEBGL:
		c.premultiply = param != 0
	default:
		gogl.PixelStorei(pname, param)
	}
}
func (c *Context) DeleteTexture(t gl.Texture) {
	id := uint32(t)
	gogl.DeleteTextures(1, &id)
}

func (c *Context) CreateFramebuffer() gl.Framebuffer {
	var fb uint32
	gogl.GenFramebuffers(1, &fb)
	return gl.Framebuffer(fb)
}
func (c *Context) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	gogl.BindFramebuffer(target, uint32(fb))
}
func (c *Context) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int32) {
	gogl.FramebufferTexture2D(target, attachment, texTarget, uint32(t), level)
}
func (c *Context) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	return gogl.CheckFramebufferStatus(target)
}
func (c *Context) DrawBuffers(buffers []gl.Enum) {
	if len(buffers) > 0 {
		gogl.DrawBuffers(int32(len(buffers)), &buffers[0])
	}
}
func (c *Context) DeleteFramebuffer(fb gl.Framebuffer) {
	id := uint32(fb)
	gogl.DeleteFramebuffers(1, &id)
}
func (c *Context) CreateRenderbuffer() gl.Renderbuffer {
	var rb uint32
	gogl.GenRenderbuffers(1, &rb)
	return gl.Renderbuffer(rb)
}
func (c *Context) BindRenderbuffer(target gl.Enum, rb gl.Renderbuffer) {
	gogl.BindRenderbuffer(target, uint32(rb))
}
func (c *Context) RenderbufferStorage(target, internalFormat gl.Enum, width, height int32) {
	gogl.RenderbufferStorage(target, internalFormat, width, height)
}
func (c *Context) FramebufferRenderbuffer(target, attachment, rbTarget gl.Enum, rb gl.Renderbuffer) {
	gogl.FramebufferRenderbuffer(target, attachment, rbTarget, uint32(rb))
}
func (c *Context) DeleteRenderbuffer(rb gl.Renderbuffer) {
	id := uint32(rb)
	gogl.DeleteRenderbuffers(1, &id)
}

func (c *Context) GetInteger(pname gl.Enum) int32 {
	var v int32
	gogl.GetIntegerv(pname, &v)
	return v
}

func (c *Context) Extensions() []string {
	var n int32
	gogl.GetIntegerv(gogl.NUM_EXTENSIONS, &n)
	out := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		out = append(out, gogl.GoStr(gogl.GetStringi(gogl.EXTENSIONS, uint32(i))))
	}
	return out
}

// ptr returns a driver pointer for a typed slice. gogl.Ptr panics on empty
// slices, so those map to nil.
func ptr(data any) unsafe.Pointer {
	if data == nil || gl.Len(data) == 0 {
		return nil
	}
	return gogl.Ptr(data)
}

var _ gl.Context = (*Context)(nil)
