// Package gl defines the driver surface the rendering core talks to. The
// renderer never calls a GL binding directly: it issues calls through a
// Context, which lets the production backend (gl/gogl) and the recording
// test double (gl/glmock) be swapped freely.
//
// A Context is bound to one OS thread. It must only be used from the
// goroutine that created it.
package gl

// Driver object handles. Zero means "no object" for every kind.
type (
	Buffer       uint32
	VertexArray  uint32
	Shader       uint32
	Program      uint32
	Texture      uint32
	Framebuffer  uint32
	Renderbuffer uint32
)

// ActiveInfo describes an active uniform or attribute reported by the linker.
type ActiveInfo struct {
	Name string
	Type Enum
	Size int32
}

type Context interface {
	Enable(capability Enum)
	Disable(capability Enum)
	BlendFunc(src, dst Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	BlendEquation(mode Enum)
	BlendEquationSeparate(modeRGB, modeAlpha Enum)
	CullFace(mode Enum)
	FrontFace(mode Enum)
	DepthMask(flag bool)
	DepthFunc(fn Enum)
	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)

	CreateBuffer() Buffer
	BindBuffer(target Enum, b Buffer)
	// BufferData uploads a typed slice ([]float32, []uint16, ...).
	BufferData(target Enum, data any, usage Enum)
	BufferSubData(target Enum, offset int, data any)
	DeleteBuffer(b Buffer)

	CreateVertexArray() VertexArray
	BindVertexArray(v VertexArray)
	DeleteVertexArray(v VertexArray)
	VertexAttribPointer(index uint32, size int32, typ Enum, normalized bool, stride int32, offset int)
	EnableVertexAttribArray(index uint32)
	VertexAttribDivisor(index, divisor uint32)

	DrawArrays(mode Enum, first, count int32)
	DrawElements(mode Enum, count int32, typ Enum, offset int)
	DrawArraysInstanced(mode Enum, first, count, instances int32)
	DrawElementsInstanced(mode Enum, count int32, typ Enum, offset int, instances int32)

	CreateShader(stage Enum) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)
	CreateProgram() Program
	AttachShader(p Program, s Shader)
	DetachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	UseProgram(p Program)
	DeleteProgram(p Program)
	ActiveUniforms(p Program) []ActiveInfo
	UniformLocation(p Program, name string) int32
	ActiveAttribs(p Program) []ActiveInfo
	AttribLocation(p Program, name string) int32

	Uniform1f(location int32, v float32)
	Uniform1fv(location int32, v []float32)
	Uniform2fv(location int32, v []float32)
	Uniform3fv(location int32, v []float32)
	Uniform4fv(location int32, v []float32)
	Uniform1i(location int32, v int32)
	Uniform1iv(location int32, v []int32)
	Uniform2iv(location int32, v []int32)
	Uniform3iv(location int32, v []int32)
	Uniform4iv(location int32, v []int32)
	UniformMatrix2fv(location int32, v []float32)
	UniformMatrix3fv(location int32, v []float32)
	UniformMatrix4fv(location int32, v []float32)

	CreateTexture() Texture
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, typ Enum, pixels any)
	TexParameteri(target, pname Enum, param int32)
	GenerateMipmap(target Enum)
	PixelStorei(pname Enum, param int32)
	DeleteTexture(t Texture)

	CreateFramebuffer() Framebuffer
	BindFramebuffer(target Enum, fb Framebuffer)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int32)
	CheckFramebufferStatus(target Enum) Enum
	DrawBuffers(buffers []Enum)
	DeleteFramebuffer(fb Framebuffer)
	CreateRenderbuffer() Renderbuffer
	BindRenderbuffer(target Enum, rb Renderbuffer)
	RenderbufferStorage(target, internalFormat Enum, width, height int32)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, rb Renderbuffer)
	DeleteRenderbuffer(rb Renderbuffer)

	GetInteger(pname Enum) int32
	Extensions() []string
}
