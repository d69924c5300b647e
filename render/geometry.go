package render

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/scenegl/gl"
)

// AttributeSpec describes vertex data handed to Geometry.AddAttribute.
// Data is a typed slice ([]float32, []uint16, []uint32, ...). Type is
// inferred from it when zero.
type AttributeSpec struct {
	Data       any
	Size       int
	Type       gl.Enum
	Normalized bool
	// Stride and Offset are in bytes.
	Stride int
	Offset int
	Usage  gl.Enum
	// Instanced is the instance divisor; zero means per-vertex data.
	Instanced int
	// Buffer, when set, is used as-is and nothing is uploaded.
	Buffer gl.Buffer
	Count  int
}

type Attribute struct {
	Name       string
	Data       any
	Size       int
	Type       gl.Enum
	Target     gl.Enum
	Normalized bool
	Stride     int
	Offset     int
	Usage      gl.Enum
	Divisor    int
	Count      int
	Buffer     gl.Buffer
	// NeedsUpdate re-uploads Data on the next draw.
	NeedsUpdate bool
}

// stepOffset returns the element step between vertices and the element
// offset of the first one.
func (a *Attribute) stepOffset() (step, offset int) {
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

// BoundsMode selects the bounding volume raycasts test against.
type BoundsMode uint8

const (
	BoundsSphere BoundsMode = iota
	BoundsBox
)

type Bounds struct {
	Min, Max mgl32.Vec3
	Center   mgl32.Vec3
	Scale    mgl32.Vec3
	Radius   float32

	hasSphere bool
}

// HasSphere reports whether Radius is valid for the current box.
func (b *Bounds) HasSphere() bool { return b != nil && b.hasSphere }

type DrawRange struct {
	Start, Count int
}

// Geometry owns a set of named vertex attributes and the vertex array
// objects built for them, one per program attribute layout.
type Geometry struct {
	ID    int
	Label string

	Attributes     map[string]*Attribute
	DrawRange      DrawRange
	InstancedCount int
	IsInstanced    bool
	// Bounds is nil until computed.
	Bounds  *Bounds
	Raycast BoundsMode

	renderer *Renderer
	rid      ResourceID
	names    []string
	vaos     map[string]gl.VertexArray

	warnedNoPosition bool
}

// NewGeometry creates a geometry and uploads the given attributes. Names are
// added in sorted order.
func NewGeometry(r *Renderer, attributes map[string]AttributeSpec) *Geometry {
	g := &Geometry{
		ID:         r.nextID(),
		Attributes: make(map[string]*Attribute),
		renderer:   r,
		vaos:       make(map[string]gl.VertexArray),
	}
	g.rid = r.register(ResourceGeometry, g)
	g.Label = string(g.rid)
	for _, name := range sortedKeys(attributes) {
		g.AddAttribute(name, attributes[name])
	}
	return g
}

func (g *Geometry) ResourceID() ResourceID { return g.rid }

// AddAttribute adds or replaces a named attribute. The attribute named
// "index" becomes the element buffer.
func (g *Geometry) AddAttribute(name string, spec AttributeSpec) *Attribute {
	a := &Attribute{
		Name:       name,
		Data:       spec.Data,
		Size:       spec.Size,
		Type:       spec.Type,
		Normalized: spec.Normalized,
		Stride:     spec.Stride,
		Offset:     spec.Offset,
		Usage:      spec.Usage,
		Divisor:    spec.Instanced,
		Buffer:     spec.Buffer,
		Count:      spec.Count,
		Target:     gl.ARRAY_BUFFER,
	}
	if a.Size <= 0 {
		a.Size = 1
	}
	if a.Type == 0 {
		a.Type = inferType(spec.Data)
	}
	if name == "index" {
		a.Target = gl.ELEMENT_ARRAY_BUFFER
	}
	if a.Usage == 0 {
		a.Usage = gl.STATIC_DRAW
	}
	if a.Count == 0 {
		if a.Stride > 0 {
			a.Count = gl.ByteLen(a.Data) / a.Stride
		} else {
			a.Count = gl.Len(a.Data) / a.Size
		}
	}

	if _, ok := g.Attributes[name]; !ok {
		g.names = append(g.names, name)
	}
	g.Attributes[name] = a

	// The attribute set changed: cached layouts are stale.
	g.invalidateVAOs()

	if a.Buffer == 0 {
		g.UpdateAttribute(a)
	}

	if a.Divisor > 0 {
		g.IsInstanced = true
		n := a.Count * a.Divisor
		if g.InstancedCount != 0 && g.InstancedCount != n {
			g.renderer.geometryWarn.Warnf("geometry %s has multiple instanced buffers of different length", g.Label)
			g.InstancedCount = min(g.InstancedCount, n)
		} else {
			g.InstancedCount = n
		}
	} else if name == "index" {
		g.DrawRange.Count = a.Count
	} else if g.Attributes["index"] == nil {
		g.DrawRange.Count = max(g.DrawRange.Count, a.Count)
	}
	return a
}

// SetIndex installs the element buffer.
func (g *Geometry) SetIndex(spec AttributeSpec) *Attribute {
	return g.AddAttribute("index", spec)
}

func (g *Geometry) SetDrawRange(start, count int) {
	g.DrawRange = DrawRange{Start: start, Count: count}
}

func (g *Geometry) SetInstancedCount(n int) {
	g.InstancedCount = n
}

func inferType(data any) gl.Enum {
	if data == nil {
		return gl.FLOAT
	}
	switch data.(type) {
	case []float32:
		return gl.FLOAT
	case []uint16:
		return gl.UNSIGNED_SHORT
	}
	if t, ok := gl.ElementType(data); ok {
		return t
	}
	return gl.UNSIGNED_INT
}

func (g *Geometry) invalidateVAOs() {
	r := g.renderer
	for key, vao := range g.vaos {
		r.ctx.DeleteVertexArray(vao)
		if r.state.vertexArray == vao {
			r.state.vertexArray = 0
		}
		delete(g.vaos, key)
	}
	r.BindVertexArray(0)
	r.state.currentGeometry = ""
}

// UpdateAttribute uploads a's data, creating its buffer on first use.
func (g *Geometry) UpdateAttribute(a *Attribute) {
	r := g.renderer
	created := false
	if a.Buffer == 0 {
		a.Buffer = r.ctx.CreateBuffer()
		created = true
	}
	r.bindBuffer(a.Target, a.Buffer)
	if created {
		r.ctx.BufferData(a.Target, a.Data, a.Usage)
	} else {
		r.ctx.BufferSubData(a.Target, 0, a.Data)
	}
	a.NeedsUpdate = false
}

func (g *Geometry) vaoKey(p *Program) string {
	return fmt.Sprintf("%d_%s", g.ID, p.AttributeOrder())
}

func (g *Geometry) createVAO(p *Program) {
	vao := g.renderer.ctx.CreateVertexArray()
	g.vaos[p.AttributeOrder()] = vao
	g.renderer.BindVertexArray(vao)
	g.bindAttributes(p)
}

// bindAttributes points every attribute the program consumes at its buffer.
// Matrix attributes span 2, 3 or 4 consecutive locations.
func (g *Geometry) bindAttributes(p *Program) {
	r := g.renderer
	for _, loc := range p.attributes {
		a := g.Attributes[loc.Name]
		if a == nil {
			r.geometryWarn.Warnf("active attribute %s not being supplied", loc.Name)
			continue
		}
		r.ctx.BindBuffer(a.Target, a.Buffer)
		r.state.boundBuffer = a.Buffer

		numLoc := gl.MatrixLocations(loc.Type)
		size := a.Size / numLoc
		stride, offset := 0, 0
		if numLoc > 1 {
			stride = numLoc * numLoc * 4
			offset = numLoc * 4
		}
		for i := 0; i < numLoc; i++ {
			index := uint32(loc.Location) + uint32(i)
			r.ctx.VertexAttribPointer(index, int32(size), a.Type, a.Normalized, int32(a.Stride+stride), a.Offset+i*offset)
			r.ctx.EnableVertexAttribArray(index)
			r.ctx.VertexAttribDivisor(index, uint32(a.Divisor))
		}
	}
	if idx := g.Attributes["index"]; idx != nil {
		r.ctx.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, idx.Buffer)
		r.state.boundBuffer = idx.Buffer
	}
}

// Draw issues one draw call with p's attribute layout. The vertex array for
// that layout is built on first use and reused after.
func (g *Geometry) Draw(p *Program, mode gl.Enum) {
	r := g.renderer
	key := g.vaoKey(p)
	if r.state.currentGeometry != key {
		if vao, ok := g.vaos[p.AttributeOrder()]; ok {
			r.BindVertexArray(vao)
		} else {
			g.createVAO(p)
		}
		r.state.currentGeometry = key
	}

	index := g.Attributes["index"]
	if index != nil && index.NeedsUpdate {
		g.UpdateAttribute(index)
	}
	for _, name := range g.names {
		if a := g.Attributes[name]; a != index && a.NeedsUpdate {
			g.UpdateAttribute(a)
		}
	}

	start, count := int32(g.DrawRange.Start), int32(g.DrawRange.Count)
	if index != nil {
		bpe := 2
		if index.Type == gl.UNSIGNED_INT {
			bpe = 4
		}
		offset := index.Offset + g.DrawRange.Start*bpe
		if g.IsInstanced {
			r.ctx.DrawElementsInstanced(mode, count, index.Type, offset, int32(g.InstancedCount))
		} else {
			r.ctx.DrawElements(mode, count, index.Type, offset)
		}
	} else if g.IsInstanced {
		r.ctx.DrawArraysInstanced(mode, start, count, int32(g.InstancedCount))
	} else {
		r.ctx.DrawArrays(mode, start, count)
	}
	r.drawCalls++
}

func (g *Geometry) position(attr *Attribute) *Attribute {
	if attr == nil {
		attr = g.Attributes["position"]
	}
	if attr == nil || gl.Len(attr.Data) == 0 {
		if !g.warnedNoPosition {
			g.renderer.geometryWarn.Warnf("geometry %s: no position buffer data found to compute bounds", g.Label)
			g.warnedNoPosition = true
		}
		return nil
	}
	return attr
}

// ComputeBoundingBox takes the component-wise min and max over the position
// attribute (or attr when given).
func (g *Geometry) ComputeBoundingBox(attr *Attribute) {
	attr = g.position(attr)
	if attr == nil {
		return
	}
	if g.Bounds == nil {
		g.Bounds = &Bounds{}
	}
	b := g.Bounds
	b.hasSphere = false
	inf := math32.Inf(1)
	b.Min = mgl32.Vec3{inf, inf, inf}
	b.Max = mgl32.Vec3{-inf, -inf, -inf}

	size := min(attr.Size, 3)
	step, offset := attr.stepOffset()
	n := gl.Len(attr.Data)
	for i := offset; i+size <= n; i += step {
		for c := 0; c < 3; c++ {
			var v float32
			if c < size {
				v = gl.Float(attr.Data, i+c)
			}
			b.Min[c] = math32.Min(b.Min[c], v)
			b.Max[c] = math32.Max(b.Max[c], v)
		}
	}
	b.Scale = b.Max.Sub(b.Min)
	b.Center = b.Min.Add(b.Max).Mul(0.5)
}

// ComputeBoundingSphere sets Radius to the largest distance of any vertex
// from the bounding box center. This is not a minimal enclosing sphere.
func (g *Geometry) ComputeBoundingSphere(attr *Attribute) {
	attr = g.position(attr)
	if attr == nil {
		return
	}
	g.ComputeBoundingBox(attr)
	b := g.Bounds

	size := min(attr.Size, 3)
	step, offset := attr.stepOffset()
	n := gl.Len(attr.Data)
	var maxSq float32
	for i := offset; i+size <= n; i += step {
		var v mgl32.Vec3
		for c := 0; c < size; c++ {
			v[c] = gl.Float(attr.Data, i+c)
		}
		if d := v.Sub(b.Center).LenSqr(); d > maxSq {
			maxSq = d
		}
	}
	b.Radius = math32.Sqrt(maxSq)
	b.hasSphere = true
}

// Remove deletes the vertex arrays and every attribute buffer. The geometry
// must not be drawn afterwards.
func (g *Geometry) Remove() {
	r := g.renderer
	g.invalidateVAOs()
	for _, name := range g.names {
		a := g.Attributes[name]
		if a.Buffer != 0 {
			r.ctx.DeleteBuffer(a.Buffer)
			if r.state.boundBuffer == a.Buffer {
				r.state.boundBuffer = 0
			}
		}
		delete(g.Attributes, name)
	}
	g.names = nil
	r.unregister(g.rid)
}
