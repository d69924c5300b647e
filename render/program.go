package render

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/gekko3d/scenegl/gl"
)

var (
	ErrCompile = errors.New("render: shader compile failed")
	ErrLink    = errors.New("render: program link failed")
	ErrRemoved = errors.New("render: program has been removed")
)

type BlendFunc struct {
	Src, Dst           gl.Enum
	SrcAlpha, DstAlpha gl.Enum
}

type BlendEquation struct {
	ModeRGB, ModeAlpha gl.Enum
}

// ProgramOptions configures NewProgram. Zero values mean: cull back faces,
// counter-clockwise front faces, depth test and depth write on, LEQUAL.
type ProgramOptions struct {
	Vertex   string
	Fragment string
	Uniforms Uniforms
	// Defines are injected as #define lines after any #version line.
	Defines map[string]string
	Label   string

	Transparent bool
	// DoubleSided disables face culling.
	DoubleSided       bool
	CullFace          gl.Enum
	FrontFace         gl.Enum
	DisableDepthTest  bool
	DisableDepthWrite bool
	DepthFunc         gl.Enum
}

type attributeInfo struct {
	gl.ActiveInfo
	Location int32
}

// Program is a linked shader program plus the fixed-function state it
// applies when used.
type Program struct {
	ID       int
	Label    string
	Uniforms Uniforms
	Defines  map[string]string

	Transparent bool
	// CullFace is zero when culling is disabled.
	CullFace      gl.Enum
	FrontFace     gl.Enum
	DepthTest     bool
	DepthWrite    bool
	DepthFunc     gl.Enum
	BlendFunc     BlendFunc
	BlendEquation BlendEquation

	renderer       *Renderer
	rid            ResourceID
	handle         gl.Program
	vertex         string
	fragment       string
	blending       bool
	active         []uniformInfo
	attributes     []attributeInfo
	attributeOrder string
	err            error
}

// NewProgram compiles and links a program. The returned program is never
// nil: on failure it is unusable until SetShaders succeeds, and the error is
// also available from Err.
func NewProgram(r *Renderer, opts ProgramOptions) (*Program, error) {
	p := &Program{
		ID:          r.nextID(),
		Label:       opts.Label,
		Uniforms:    opts.Uniforms,
		Defines:     opts.Defines,
		Transparent: opts.Transparent,
		CullFace:    opts.CullFace,
		FrontFace:   opts.FrontFace,
		DepthTest:   !opts.DisableDepthTest,
		DepthWrite:  !opts.DisableDepthWrite,
		DepthFunc:   opts.DepthFunc,
		BlendEquation: BlendEquation{
			ModeRGB:   gl.FUNC_ADD,
			ModeAlpha: gl.FUNC_ADD,
		},
		renderer: r,
		vertex:   opts.Vertex,
		fragment: opts.Fragment,
	}
	if p.Uniforms == nil {
		p.Uniforms = make(Uniforms)
	}
	if p.CullFace == 0 && !opts.DoubleSided {
		p.CullFace = gl.BACK
	}
	if opts.DoubleSided {
		p.CullFace = 0
	}
	if p.FrontFace == 0 {
		p.FrontFace = gl.CCW
	}
	if p.DepthFunc == 0 {
		p.DepthFunc = gl.LEQUAL
	}
	if p.Transparent {
		if r.PremultipliedAlpha {
			p.SetBlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
		} else {
			p.SetBlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		}
	}
	p.rid = r.register(ResourceProgram, p)
	if p.Label == "" {
		p.Label = string(p.rid)
	}
	return p, p.build()
}

func (p *Program) ResourceID() ResourceID { return p.rid }

// Err reports why the last build failed, or nil if the program is usable.
func (p *Program) Err() error { return p.err }

func (p *Program) Handle() gl.Program { return p.handle }

// AttributeOrder is the program's attribute layout signature: names and
// locations in ascending location order.
func (p *Program) AttributeOrder() string { return p.attributeOrder }

// SetBlendFunc enables blending with the given factors and marks the
// program transparent.
func (p *Program) SetBlendFunc(src, dst gl.Enum) {
	p.SetBlendFuncSeparate(src, dst, src, dst)
}

func (p *Program) SetBlendFuncSeparate(src, dst, srcAlpha, dstAlpha gl.Enum) {
	p.BlendFunc = BlendFunc{Src: src, Dst: dst, SrcAlpha: srcAlpha, DstAlpha: dstAlpha}
	p.blending = true
	p.Transparent = true
}

func (p *Program) SetBlendEquation(modeRGB, modeAlpha gl.Enum) {
	p.BlendEquation = BlendEquation{ModeRGB: modeRGB, ModeAlpha: modeAlpha}
}

// SetShaders replaces the shader sources and rebuilds.
func (p *Program) SetShaders(vertex, fragment string) error {
	p.vertex, p.fragment = vertex, fragment
	return p.build()
}

// SetDefines replaces the define set and rebuilds.
func (p *Program) SetDefines(defines map[string]string) error {
	p.Defines = defines
	return p.build()
}

func (p *Program) build() error {
	r := p.renderer
	ctx := r.ctx
	p.release()
	p.err = nil

	if p.vertex == "" {
		r.programWarn.Warnf("program %s: vertex shader not supplied", p.Label)
	}
	if p.fragment == "" {
		r.programWarn.Warnf("program %s: fragment shader not supplied", p.Label)
	}

	vs, err := p.compile(gl.VERTEX_SHADER, "Vertex", p.vertex)
	if err != nil {
		p.err = err
		return err
	}
	fs, err := p.compile(gl.FRAGMENT_SHADER, "Fragment", p.fragment)
	if err != nil {
		ctx.DeleteShader(vs)
		p.err = err
		return err
	}

	h := ctx.CreateProgram()
	ctx.AttachShader(h, vs)
	ctx.AttachShader(h, fs)
	ctx.LinkProgram(h)
	ctx.DetachShader(h, vs)
	ctx.DetachShader(h, fs)
	ctx.DeleteShader(vs)
	ctx.DeleteShader(fs)

	if !ctx.ProgramLinked(h) {
		log := ctx.ProgramInfoLog(h)
		ctx.DeleteProgram(h)
		p.err = fmt.Errorf("%w: %s", ErrLink, log)
		r.logger.Warnf("program %s: %s", p.Label, log)
		return p.err
	}
	p.handle = h
	p.introspect()
	return nil
}

func (p *Program) compile(stage gl.Enum, name, src string) (gl.Shader, error) {
	ctx := p.renderer.ctx
	s := ctx.CreateShader(stage)
	ctx.ShaderSource(s, injectDefines(src, p.Defines))
	ctx.CompileShader(s)
	if ctx.ShaderCompiled(s) {
		return s, nil
	}
	log := ctx.ShaderInfoLog(s)
	ctx.DeleteShader(s)
	p.renderer.logger.Warnf("program %s: %s\n%s Shader\n%s", p.Label, log, name, addLineNumbers(src))
	return 0, fmt.Errorf("%w: %s shader: %s", ErrCompile, strings.ToLower(name), log)
}

func (p *Program) introspect() {
	ctx := p.renderer.ctx
	for _, info := range ctx.ActiveUniforms(p.handle) {
		loc := ctx.UniformLocation(p.handle, info.Name)
		if loc < 0 {
			continue
		}
		p.active = append(p.active, parseUniform(info, loc))
	}
	for _, info := range ctx.ActiveAttribs(p.handle) {
		loc := ctx.AttribLocation(p.handle, info.Name)
		// Built-ins such as gl_VertexID report -1.
		if loc < 0 {
			continue
		}
		p.attributes = append(p.attributes, attributeInfo{ActiveInfo: info, Location: loc})
	}
	sort.Slice(p.attributes, func(i, j int) bool {
		return p.attributes[i].Location < p.attributes[j].Location
	})
	parts := make([]string, len(p.attributes))
	for i, a := range p.attributes {
		parts[i] = fmt.Sprintf("%s=%d", a.Name, a.Location)
	}
	p.attributeOrder = strings.Join(parts, ",")
}

// release deletes the GPU program, if any, and forgets its cached state.
func (p *Program) release() {
	r := p.renderer
	if p.handle != 0 {
		if r.state.currentProgram == p.handle {
			r.state.currentProgram = 0
		}
		r.ctx.DeleteProgram(p.handle)
		r.forgetUniforms(p.handle)
		p.handle = 0
	}
	p.active = nil
	p.attributes = nil
	p.attributeOrder = ""
}

// Remove deletes the GPU program. The program must not be used afterwards.
func (p *Program) Remove() {
	p.release()
	p.err = ErrRemoved
	p.renderer.unregister(p.rid)
}

// Use makes the program current, uploads every changed uniform and applies
// the program's render state. flipFaces inverts the front-face winding.
func (p *Program) Use(flipFaces bool) error {
	if p.err != nil {
		return p.err
	}
	r := p.renderer
	if r.state.currentProgram != p.handle {
		r.ctx.UseProgram(p.handle)
		r.state.currentProgram = p.handle
	}

	unit := -1
	for i := range p.active {
		u := &p.active[i]
		uniform := u.resolve(p.Uniforms)
		if uniform == nil {
			r.programWarn.Warnf("active uniform %s has not been supplied", u.Name)
			continue
		}
		if uniform.Value == nil {
			r.programWarn.Warnf("%s uniform is missing a value parameter", u.Name)
			continue
		}
		switch v := uniform.Value.(type) {
		case Sampler:
			if isNilSampler(v) {
				r.programWarn.Warnf("%s uniform is missing a value parameter", u.Name)
				continue
			}
			unit++
			v.Update(unit)
			r.setUniform(p.handle, u, int32(unit))
		case []Sampler:
			if slices.ContainsFunc(v, isNilSampler) {
				r.programWarn.Warnf("%s uniform has a texture that is not loaded", u.Name)
				continue
			}
			units := r.scratchUnits[:0]
			for _, s := range v {
				unit++
				s.Update(unit)
				units = append(units, int32(unit))
			}
			r.scratchUnits = units
			r.setUniform(p.handle, u, units)
		default:
			if !r.setUniform(p.handle, u, v) {
				r.programWarn.Warnf("uniform %s: unsupported value %T for type 0x%X", u.Name, v, u.Type)
			}
		}
	}

	p.applyState()
	if flipFaces {
		if p.FrontFace == gl.CCW {
			r.SetFrontFace(gl.CW)
		} else {
			r.SetFrontFace(gl.CCW)
		}
	}
	return nil
}

func (p *Program) applyState() {
	r := p.renderer
	if p.DepthTest {
		r.Enable(gl.DEPTH_TEST)
	} else {
		r.Disable(gl.DEPTH_TEST)
	}
	if p.CullFace != 0 {
		r.Enable(gl.CULL_FACE)
	} else {
		r.Disable(gl.CULL_FACE)
	}
	if p.blending {
		r.Enable(gl.BLEND)
	} else {
		r.Disable(gl.BLEND)
	}
	if p.CullFace != 0 {
		r.SetCullFace(p.CullFace)
	}
	r.SetFrontFace(p.FrontFace)
	r.SetDepthMask(p.DepthWrite)
	r.SetDepthFunc(p.DepthFunc)
	if p.blending {
		r.SetBlendFunc(p.BlendFunc)
	}
	r.SetBlendEquation(p.BlendEquation)
}

func injectDefines(src string, defines map[string]string) string {
	if len(defines) == 0 {
		return src
	}
	var defs strings.Builder
	for _, k := range sortedKeys(defines) {
		if v := defines[k]; v != "" {
			fmt.Fprintf(&defs, "#define %s %s\n", k, v)
		} else {
			fmt.Fprintf(&defs, "#define %s\n", k)
		}
	}
	trimmed := strings.TrimLeft(src, " \t\r\n")
	if !strings.HasPrefix(trimmed, "#version") {
		return defs.String() + src
	}
	head, body := trimmed+"\n", ""
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		head, body = trimmed[:i+1], trimmed[i+1:]
	}
	return head + defs.String() + body
}

func addLineNumbers(src string) string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = fmt.Sprintf("%d: %s", i+1, l)
	}
	return strings.Join(lines, "\n")
}
