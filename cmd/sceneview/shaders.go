package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gekko3d/scenegl"
	"github.com/gekko3d/scenegl/render"
)

const defaultVertex = `#version 330 core
in vec3 position;
uniform mat4 modelViewMatrix;
uniform mat4 projectionMatrix;
out vec3 vPosition;
void main() {
	vPosition = position;
	gl_Position = projectionMatrix * modelViewMatrix * vec4(position, 1.0);
}
`

const defaultFragment = `#version 330 core
in vec3 vPosition;
uniform vec3 uTint;
out vec4 fragColor;
void main() {
	fragColor = vec4(uTint * (0.5 + 0.5 * abs(normalize(vPosition))), 1.0);
}
`

func readShaders(vertexPath, fragmentPath string) (string, string, error) {
	vs, err := os.ReadFile(vertexPath)
	if err != nil {
		return "", "", fmt.Errorf("read vertex shader: %w", err)
	}
	fs, err := os.ReadFile(fragmentPath)
	if err != nil {
		return "", "", fmt.Errorf("read fragment shader: %w", err)
	}
	return string(vs), string(fs), nil
}

// shaderWatcher reports shader file changes. Events arrive on the watcher's
// goroutine; Apply drains them on the render thread, which owns the context.
type shaderWatcher struct {
	logger   scenegl.Logger
	vertex   string
	fragment string
	watcher  *fsnotify.Watcher
	changed  chan struct{}
	done     chan struct{}
}

func newShaderWatcher(logger scenegl.Logger, vertex, fragment string) (*shaderWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors often replace files on save, so watch the directories.
	dirs := map[string]bool{filepath.Dir(vertex): true, filepath.Dir(fragment): true}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w := &shaderWatcher{
		logger:   logger,
		vertex:   filepath.Clean(vertex),
		fragment: filepath.Clean(fragment),
		watcher:  watcher,
		changed:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *shaderWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Clean(event.Name)
			if name != w.vertex && name != w.fragment {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("shader watch: %v", err)
		}
	}
}

// Apply rebuilds p if a shader file changed since the last call.
func (w *shaderWatcher) Apply(p *render.Program) {
	select {
	case <-w.changed:
	default:
		return
	}
	vs, fs, err := readShaders(w.vertex, w.fragment)
	if err != nil {
		w.logger.Warnf("shader reload: %v", err)
		return
	}
	if err := p.SetShaders(vs, fs); err != nil {
		w.logger.Errorf("shader reload: %v", err)
		return
	}
	w.logger.Infof("shaders reloaded")
}

func (w *shaderWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
