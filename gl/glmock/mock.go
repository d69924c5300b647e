// Package glmock provides an instrumented gl.Context that records every
// driver call instead of talking to a GPU.
package glmock

import (
	"github.com/gekko3d/scenegl/gl"
)

type Call struct {
	Name string
	Args []any
}

// Attrib is an active attribute reported by a mocked program.
type Attrib struct {
	gl.ActiveInfo
	Location int32
}

// ProgramSpec is what the mocked linker reports for a program: its active
// uniforms (locations are assigned by index) and attributes.
type ProgramSpec struct {
	Uniforms []gl.ActiveInfo
	Attribs  []Attrib
}

type programState struct {
	spec   ProgramSpec
	linked bool
}

// Context records calls. Handles are allocated from one counter so every
// object gets a distinct non-zero id.
type Context struct {
	Calls []Call

	// Spec is captured by each program at link time.
	Spec        ProgramSpec
	FailCompile bool
	FailLink    bool
	InfoLog     string

	Exts   []string
	Params map[gl.Enum]int32

	next     uint32
	counts   map[string]int
	programs map[gl.Program]*programState
	shaders  map[gl.Shader]bool
}

func New() *Context {
	return &Context{
		counts:   make(map[string]int),
		programs: make(map[gl.Program]*programState),
		shaders:  make(map[gl.Shader]bool),
		Params: map[gl.Enum]int32{
			gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS: 32,
			gl.MAX_TEXTURE_SIZE:                 4096,
			gl.MAX_VERTEX_ATTRIBS:               16,
		},
	}
}

func (c *Context) record(name string, args ...any) {
	c.Calls = append(c.Calls, Call{Name: name, Args: args})
	c.counts[name]++
}

func (c *Context) handle() uint32 {
	c.next++
	return c.next
}

// Count returns how many times the named method was called since the last Reset.
func (c *Context) Count(name string) int {
	return c.counts[name]
}

// Total returns the number of recorded calls.
func (c *Context) Total() int {
	return len(c.Calls)
}

// Last returns the most recent call with the given name.
func (c *Context) Last(name string) (Call, bool) {
	for i := len(c.Calls) - 1; i >= 0; i-- {
		if c.Calls[i].Name == name {
			return c.Calls[i], true
		}
	}
	return Call{}, false
}

// Filter returns every recorded call with the given name, oldest first.
func (c *Context) Filter(name string) []Call {
	var out []Call
	for _, call := range c.Calls {
		if call.Name == name {
			out = append(out, call)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps created objects alive.
func (c *Context) Reset() {
	c.Calls = c.Calls[:0]
	for k := range c.counts {
		delete(c.counts, k)
	}
}

func (c *Context) Enable(capability gl.Enum)  { c.record("Enable", capability) }
func (c *Context) Disable(capability gl.Enum) { c.record("Disable", capability) }
func (c *Context) BlendFunc(src, dst gl.Enum) { c.record("BlendFunc", src, dst) }
func (c *Context) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gl.Enum) {
	c.record("BlendFuncSeparate", srcRGB, dstRGB, srcAlpha, dstAlpha)
}
func (c *Context) BlendEquation(mode gl.Enum) { c.record("BlendEquation", mode) }
func (c *Context) BlendEquationSeparate(modeRGB, modeAlpha gl.Enum) {
	c.record("BlendEquationSeparate", modeRGB, modeAlpha)
}
func (c *Context) CullFace(mode gl.Enum)   { c.record("CullFace", mode) }
func (c *Context) FrontFace(mode gl.Enum)  { c.record("FrontFace", mode) }
func (c *Context) DepthMask(flag bool)     { c.record("DepthMask", flag) }
func (c *Context) DepthFunc(fn gl.Enum)    { c.record("DepthFunc", fn) }
func (c *Context) Clear(mask gl.Enum)      { c.record("Clear", mask) }
func (c *Context) Viewport(x, y, width, height int32) {
	c.record("Viewport", x, y, width, height)
}
func (c *Context) Scissor(x, y, width, height int32) {
	c.record("Scissor", x, y, width, height)
}
func (c *Context) ClearColor(r, g, b, a float32) { c.record("ClearColor", r, g, b, a) }

func (c *Context) CreateBuffer() gl.Buffer {
	b := gl.Buffer(c.handle())
	c.record("CreateBuffer", b)
	return b
}
func (c *Context) BindBuffer(target gl.Enum, b gl.Buffer) { c.record("BindBuffer", target, b) }
func (c *Context) BufferData(target gl.Enum, data any, usage gl.Enum) {
	c.record("BufferData", target, gl.ByteLen(data), usage)
}
func (c *Context) BufferSubData(target gl.Enum, offset int, data any) {
	c.record("BufferSubData", target, offset, gl.ByteLen(data))
}
func (c *Context) DeleteBuffer(b gl.Buffer) { c.record("DeleteBuffer", b) }

func (c *Context) CreateVertexArray() gl.VertexArray {
	v := gl.VertexArray(c.handle())
	c.record("CreateVertexArray", v)
	return v
}
func (c *Context) BindVertexArray(v gl.VertexArray)   { c.record("BindVertexArray", v) }
func (c *Context) DeleteVertexArray(v gl.VertexArray) { c.record("DeleteVertexArray", v) }
func (c *Context) VertexAttribPointer(index uint32, size int32, typ gl.Enum, normalized bool, stride int32, offset int) {
	c.record("VertexAttribPointer", index, size, typ, normalized, stride, offset)
}
func (c *Context) EnableVertexAttribArray(index uint32) { c.record("EnableVertexAttribArray", index) }
func (c *Context) VertexAttribDivisor(index, divisor uint32) {
	c.record("VertexAttribDivisor", index, divisor)
}

func (c *Context) DrawArrays(mode gl.Enum, first, count int32) {
	c.record("DrawArrays", mode, first, count)
}
func (c *Context) DrawElements(mode gl.Enum, count int32, typ gl.Enum, offset int) {
	c.record("DrawElements", mode, count, typ, offset)
}
func (c *Context) DrawArraysInstanced(mode gl.Enum, first, count, instances int32) {
	c.record("DrawArraysInstanced", mode, first, count, instances)
}
func (c *Context) DrawElementsInstanced(mode gl.Enum, count int32, typ gl.Enum, offset int, instances int32) {
	c.record("DrawElementsInstanced", mode, count, typ, offset, instances)
}

func (c *Context) CreateShader(stage gl.Enum) gl.Shader {
	s := gl.Shader(c.handle())
	c.record("CreateShader", stage, s)
	return s
}
func (c *Context) ShaderSource(s gl.Shader, src string) { c.record("ShaderSource", s, src) }
func (c *Context) CompileShader(s gl.Shader) {
	c.record("CompileShader", s)
	c.shaders[s] = !c.FailCompile
}
func (c *Context) ShaderCompiled(s gl.Shader) bool { return c.shaders[s] }
func (c *Context) ShaderInfoLog(s gl.Shader) string {
	if c.shaders[s] {
		return ""
	}
	return c.InfoLog
}
func (c *Context) DeleteShader(s gl.Shader) {
	c.record("DeleteShader", s)
	delete(c.shaders, s)
}
func (c *Context) CreateProgram() gl.Program {
	p := gl.Program(c.handle())
	c.programs[p] = &programState{}
	c.record("CreateProgram", p)
	return p
}
func (c *Context) AttachShader(p gl.Program, s gl.Shader) { c.record("AttachShader", p, s) }
func (c *Context) DetachShader(p gl.Program, s gl.Shader) { c.record("DetachShader", p, s) }
func (c *Context) LinkProgram(p gl.Program) {
	c.record("LinkProgram", p)
	st, ok := c.programs[p]
	if !ok {
		return
	}
	st.linked = !c.FailLink && !c.FailCompile
	st.spec = c.Spec
}
func (c *Context) ProgramLinked(p gl.Program) bool {
	st, ok := c.programs[p]
	return ok && st.linked
}
func (c *Context) ProgramInfoLog(p gl.Program) string {
	if c.ProgramLinked(p) {
		return ""
	}
	return c.InfoLog
}
func (c *Context) UseProgram(p gl.Program) { c.record("UseProgram", p) }
func (c *Context) DeleteProgram(p gl.Program) {
	c.record("DeleteProgram", p)
	delete(c.programs, p)
}
func (c *Context) ActiveUniforms(p gl.Program) []gl.ActiveInfo {
	st, ok := c.programs[p]
	if !ok || !st.linked {
		return nil
	}
	return append([]gl.ActiveInfo(nil), st.spec.Uniforms...)
}
func (c *Context) UniformLocation(p gl.Program, name string) int32 {
	st, ok := c.programs[p]
	if !ok {
		return -1
	}
	for i, u := range st.spec.Uniforms {
		if u.Name == name {
			return int32(i)
		}
	}
	return -1
}
func (c *Context) ActiveAttribs(p gl.Program) []gl.ActiveInfo {
	st, ok := c.programs[p]
	if !ok || !st.linked {
		return nil
	}
	out := make([]gl.ActiveInfo, len(st.spec.Attribs))
	for i, a := range st.spec.Attribs {
		out[i] = a.ActiveInfo
	}
	return out
}
func (c *Context) AttribLocation(p gl.Program, name string) int32 {
	st, ok := c.programs[p]
	if !ok {
		return -1
	}
	for _, a := range st.spec.Attribs {
		if a.Name == name {
			return a.Location
		}
	}
	return -1
}

func (c *Context) Uniform1f(location int32, v float32) { c.record("Uniform1f", location, v) }
func (c *Context) Uniform1fv(location int32, v []float32) {
	c.record("Uniform1fv", location, cloneF(v))
}
func (c *Context) Uniform2fv(location int32, v []float32) {
	c.record("Uniform2fv", location, cloneF(v))
}
func (c *Context) Uniform3fv(location int32, v []float32) {
	c.record("Uniform3fv", location, cloneF(v))
}
func (c *Context) Uniform4fv(location int32, v []float32) {
	c.record("Uniform4fv", location, cloneF(v))
}
func (c *Context) Uniform1i(location int32, v int32) { c.record("Uniform1i", location, v) }
func (c *Context) Uniform1iv(location int32, v []int32) {
	c.record("Uniform1iv", location, cloneI(v))
}
func (c *Context) Uniform2iv(location int32, v []int32) {
	c.record("Uniform2iv", location, cloneI(v))
}
func (c *Context) Uniform3iv(location int32, v []int32) {
	c.record("Uniform3iv", location, cloneI(v))
}
func (c *Context) Uniform4iv(location int32, v []int32) {
	c.record("Uniform4iv", location, cloneI(v))
}
func (c *Context) UniformMatrix2fv(location int32, v []float32) {
	c.record("UniformMatrix2fv", location, cloneF(v))
}
func (c *Context) UniformMatrix3fv(location int32, v []float32) {
	c.record("UniformMatrix3fv", location, cloneF(v))
}
func (c *Context) UniformMatrix4fv(location int32, v []float32) {
	c.record("UniformMatrix4fv", location, cloneF(v))
}

func (c *Context) CreateTexture() gl.Texture {
	t := gl.Texture(c.handle())
	c.record("CreateTexture", t)
	return t
}
func (c *Context) ActiveTexture(unit gl.Enum)              { c.record("ActiveTexture", unit) }
func (c *Context) BindTexture(target gl.Enum, t gl.Texture) { c.record("BindTexture", target, t) }
func (c *Context) TexImage2D(target gl.Enum, level int32, internalFormat gl.Enum, width, height int32, format, typ gl.Enum, pixels any) {
	c.record("TexImage2D", target, level, internalFormat, width, height, format, typ, gl.ByteLen(pixels))
}
func (c *Context) TexParameteri(target, pname gl.Enum, param int32) {
	c.record("TexParameteri", target, pname, param)
}
func (c *Context) GenerateMipmap(target gl.Enum)          { c.record("GenerateMipmap", target) }
func (c *Context) PixelStorei(pname gl.Enum, param int32) { c.record("PixelStorei", pname, param) }
func (c *Context) DeleteTexture(t gl.Texture)             { c.record("DeleteTexture", t) }

func (c *Context) CreateFramebuffer() gl.Framebuffer {
	fb := gl.Framebuffer(c.handle())
	c.record("CreateFramebuffer", fb)
	return fb
}
func (c *Context) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	c.record("BindFramebuffer", target, fb)
}
func (c *Context) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int32) {
	c.record("FramebufferTexture2D", target, attachment, texTarget, t, level)
}
func (c *Context) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	c.record("CheckFramebufferStatus", target)
	return gl.FRAMEBUFFER_COMPLETE
}
func (c *Context) DrawBuffers(buffers []gl.Enum)     { c.record("DrawBuffers", append([]gl.Enum(nil), buffers...)) }
func (c *Context) DeleteFramebuffer(fb gl.Framebuffer) { c.record("DeleteFramebuffer", fb) }
func (c *Context) CreateRenderbuffer() gl.Renderbuffer {
	rb := gl.Renderbuffer(c.handle())
	c.record("CreateRenderbuffer", rb)
	return rb
}
func (c *Context) BindRenderbuffer(target gl.Enum, rb gl.Renderbuffer) {
	c.record("BindRenderbuffer", target, rb)
}
func (c *Context) RenderbufferStorage(target, internalFormat gl.Enum, width, height int32) {
	c.record("RenderbufferStorage", target, internalFormat, width, height)
}
func (c *Context) FramebufferRenderbuffer(target, attachment, rbTarget gl.Enum, rb gl.Renderbuffer) {
	c.record("FramebufferRenderbuffer", target, attachment, rbTarget, rb)
}
func (c *Context) DeleteRenderbuffer(rb gl.Renderbuffer) { c.record("DeleteRenderbuffer", rb) }

func (c *Context) GetInteger(pname gl.Enum) int32 {
	c.record("GetInteger", pname)
	return c.Params[pname]
}
func (c *Context) Extensions() []string {
	c.record("Extensions")
	return append([]string(nil), c.Exts...)
}

func cloneF(v []float32) []float32 { return append([]float32(nil), v...) }
func cloneI(v []int32) []int32     { return append([]int32(nil), v...) }

var _ gl.Context = (*Context)(nil)
