package scenegl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.True(t, Bool(cfg.Render.FrustumCull))
	assert.True(t, Bool(cfg.Render.Sort))
}

func TestLoadConfig_OverridesAndFills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.toml")
	src := `
debug = true

[window]
width = 640
title = "test"

[render]
sort = false
clear_color = [1.0, 0.0, 0.0, 1.0]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset height falls back to default")
	assert.Equal(t, "test", cfg.Window.Title)
	assert.False(t, Bool(cfg.Render.Sort))
	assert.True(t, Bool(cfg.Render.AutoClear))
	assert.Equal(t, [4]float32{1, 0, 0, 1}, cfg.Render.ClearColor)
}

func TestLoadConfig_BadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window\nwidth ="), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

type recordingLogger struct {
	nopLogger
	warns []string
}

func (r *recordingLogger) Warnf(format string, args ...any) {
	r.warns = append(r.warns, format)
}

func TestWarnLimiter_Caps(t *testing.T) {
	rec := &recordingLogger{}
	w := NewWarnLimiter(rec, "program", 3)
	for i := 0; i < 10; i++ {
		w.Warnf("uniform %d missing", i)
	}
	// 4 forwarded warnings (count runs past the limit once) plus the stop notice.
	assert.Len(t, rec.warns, 5)
	assert.Equal(t, "more than %d %s warnings - stopping logs", rec.warns[4])
	assert.True(t, w.Exhausted())
}
