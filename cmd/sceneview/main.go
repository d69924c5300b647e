// Command sceneview opens a window and renders a small scene with the
// scenegl renderer. Shaders can be loaded from disk and are rebuilt when
// the files change.
//
// Keys: Escape quits, L simulates a lost context, R restores it, P prints
// the profiler. Clicking picks the mesh under the cursor.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/scenegl"
	"github.com/gekko3d/scenegl/gl/gogl"
	"github.com/gekko3d/scenegl/raycast"
	"github.com/gekko3d/scenegl/render"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "sceneview.toml", "TOML config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	width := flag.Int("width", 0, "window width, overrides the config")
	height := flag.Int("height", 0, "window height, overrides the config")
	vertex := flag.String("vertex", "", "vertex shader file, overrides the config")
	fragment := flag.String("fragment", "", "fragment shader file, overrides the config")
	flag.Parse()

	cfg, err := scenegl.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	if *vertex != "" {
		cfg.Shader.Vertex = *vertex
	}
	if *fragment != "" {
		cfg.Shader.Fragment = *fragment
	}

	logger := scenegl.NewDefaultLogger("sceneview", cfg.Debug)
	if err := run(cfg, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg *scenegl.Config, logger scenegl.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	if cfg.Render.Stencil {
		glfw.WindowHint(glfw.StencilBits, 8)
	}

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	ctx, err := gogl.Init()
	if err != nil {
		return err
	}
	logger.Infof("OpenGL %s", ctx.Version())

	profiler := render.NewProfiler()
	renderer, err := render.NewRenderer(ctx, render.Options{
		Logger:             logger,
		Width:              cfg.Window.Width,
		Height:             cfg.Window.Height,
		DPR:                cfg.Window.DPR,
		DisableDepth:       !scenegl.Bool(cfg.Render.Depth),
		Stencil:            cfg.Render.Stencil,
		PremultipliedAlpha: cfg.Render.PremultipliedAlpha,
		DisableAutoClear:   !scenegl.Bool(cfg.Render.AutoClear),
		Profiler:           profiler,
	})
	if err != nil {
		return err
	}
	c := cfg.Render.ClearColor
	ctx.ClearColor(c[0], c[1], c[2], c[3])

	v := &viewer{cfg: cfg, logger: logger, renderer: renderer}
	if err := v.buildScene(); err != nil {
		return err
	}

	if cfg.Shader.Watch && cfg.Shader.Vertex != "" && cfg.Shader.Fragment != "" {
		w, err := newShaderWatcher(logger, cfg.Shader.Vertex, cfg.Shader.Fragment)
		if err != nil {
			logger.Warnf("shader watch disabled: %v", err)
		} else {
			defer w.Close()
			v.shaders = w
		}
	}

	fbw, fbh := window.GetFramebufferSize()
	v.resize(fbw, fbh)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		v.resize(width, height)
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		v.mouseX, v.mouseY = x, y
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button == glfw.MouseButtonLeft && action == glfw.Press {
			ww, wh := w.GetSize()
			v.pick(ww, wh)
		}
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyL:
			renderer.LoseContext()
		case glfw.KeyR:
			renderer.RestoreContext()
		case glfw.KeyP:
			fmt.Println(profiler.String())
		}
	})

	last := glfw.GetTime()
	for !window.ShouldClose() {
		glfw.PollEvents()
		now := glfw.GetTime()
		v.update(float32(now - last))
		last = now

		profiler.Reset()
		renderer.Render(render.RenderParams{
			Graph:           v.graph,
			Scene:           v.scene,
			Camera:          v.camera,
			SkipFrustumCull: !scenegl.Bool(cfg.Render.FrustumCull),
			SkipSort:        !scenegl.Bool(cfg.Render.Sort),
		})
		window.SwapBuffers()
	}
	return nil
}

type viewer struct {
	cfg      *scenegl.Config
	logger   scenegl.Logger
	renderer *render.Renderer
	shaders  *shaderWatcher

	graph   *render.Graph
	scene   render.NodeID
	camera  render.NodeID
	cubes   []render.NodeID
	program *render.Program

	mouseX, mouseY float64
	ray            *raycast.Ray
	hits           []*render.Mesh
}

func (v *viewer) buildScene() error {
	vs, fs := defaultVertex, defaultFragment
	if v.cfg.Shader.Vertex != "" && v.cfg.Shader.Fragment != "" {
		var err error
		if vs, fs, err = readShaders(v.cfg.Shader.Vertex, v.cfg.Shader.Fragment); err != nil {
			return err
		}
	}

	program, err := render.NewProgram(v.renderer, render.ProgramOptions{
		Vertex:   vs,
		Fragment: fs,
		Label:    "cube",
		Uniforms: render.Uniforms{
			"uTint": {Value: mgl32.Vec3{1, 1, 1}},
		},
	})
	if err != nil {
		// A shader error is logged and the program is retried on reload.
		v.logger.Errorf("%v", err)
	}
	v.program = program

	geometry := cubeGeometry(v.renderer)

	v.graph = render.NewGraph()
	v.scene = v.graph.NewGroup()
	v.camera = v.graph.NewCamera(render.CameraOptions{Fov: 45, Near: 0.1, Far: 100})
	v.graph.Node(v.camera).Position = mgl32.Vec3{0, 2, 8}
	v.graph.LookAt(v.camera, mgl32.Vec3{}, true)

	for i := -1; i <= 1; i++ {
		id := v.graph.NewMesh(render.MeshOptions{Geometry: geometry, Program: program})
		v.graph.Node(id).Position = mgl32.Vec3{float32(i) * 2.5, 0, 0}
		v.graph.Mesh(id).OnBeforeRender(v.tint)
		if err := v.graph.AddChild(v.scene, id); err != nil {
			return err
		}
		v.cubes = append(v.cubes, id)
	}
	v.ray = raycast.New()
	return nil
}

// tint colours each cube by its position along x before it is drawn.
func (v *viewer) tint(m *render.Mesh, _ *render.Camera) {
	x := m.Node().Position.X()
	m.Program.Uniforms["uTint"].Value = mgl32.Vec3{0.6 + x*0.15, 0.7, 0.9 - x*0.15}
}

// cubeGeometry welds the 36 corners of a triangle-list cube down to the 8
// unique positions.
func cubeGeometry(r *render.Renderer) *render.Geometry {
	corners := [8]mgl32.Vec3{
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	}
	faces := [6][4]int{
		{0, 1, 2, 3}, {5, 4, 7, 6}, {4, 0, 3, 7},
		{1, 5, 6, 2}, {3, 2, 6, 7}, {4, 5, 1, 0},
	}
	soup := make([]float32, 0, 36*3)
	for _, f := range faces {
		for _, c := range [6]int{f[0], f[1], f[2], f[0], f[2], f[3]} {
			p := corners[c]
			soup = append(soup, p[0], p[1], p[2])
		}
	}
	positions, index := render.WeldVertices(soup, 3, 1e-4)

	g := render.NewGeometry(r, map[string]render.AttributeSpec{
		"position": {Size: 3, Data: positions},
	})
	g.SetIndex(render.AttributeSpec{Data: index})
	g.Label = "cube"
	return g
}

func (v *viewer) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	dpr := v.renderer.DPR
	v.renderer.SetSize(int(float32(width)/dpr), int(float32(height)/dpr))
	cam := v.graph.Camera(v.camera)
	cam.Aspect = float32(width) / float32(height)
	cam.UpdateProjectionMatrix()
}

func (v *viewer) update(dt float32) {
	if v.shaders != nil {
		v.shaders.Apply(v.program)
	}
	for i, id := range v.cubes {
		n := v.graph.Node(id)
		r := n.Rotation()
		r[1] += dt * float32(i+1) * 0.5
		n.SetRotation(r)
	}
}

// pick casts a ray through the cursor and enlarges the nearest cube it hits.
func (v *viewer) pick(windowWidth, windowHeight int) {
	if windowWidth == 0 || windowHeight == 0 {
		return
	}
	mouse := mgl32.Vec2{
		float32(v.mouseX/float64(windowWidth))*2 - 1,
		1 - float32(v.mouseY/float64(windowHeight))*2,
	}
	meshes := make([]*render.Mesh, 0, len(v.cubes))
	for _, id := range v.cubes {
		meshes = append(meshes, v.graph.Mesh(id))
	}

	v.ray.CastMouse(v.graph.Camera(v.camera), mouse)
	v.hits = v.ray.IntersectMeshes(meshes, raycast.Options{Output: v.hits})
	if len(v.hits) == 0 {
		v.logger.Debugf("pick: no hit")
		return
	}
	hit := v.hits[0]
	v.logger.Infof("pick: node %d at %v (distance %.2f)", hit.Node().ID(), hit.Hit.Point, hit.Hit.Distance)
	for _, id := range v.cubes {
		n := v.graph.Node(id)
		n.Scale = mgl32.Vec3{1, 1, 1}
		if id == hit.Node().ID() {
			n.Scale = mgl32.Vec3{1.25, 1.25, 1.25}
		}
	}
}
