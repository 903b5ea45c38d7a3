package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Viewer", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, uint32(4), cfg.Renderer.MSAA)
	assert.True(t, cfg.Renderer.VSync)
	assert.Equal(t, uint64(256), cfg.Renderer.MinimumAllocation)
	assert.Equal(t, "color", cfg.Renderer.PresentSource)
	assert.Equal(t, float64(60), cfg.Engine.TickRate)
	assert.Zero(t, cfg.Engine.FrameLimit)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
title = "Inspector"
width = 1920
height = 1080

[renderer]
msaa = 8
vsync = false
minimum_allocation = 1024
present_source = "normal"

[engine]
tick_rate = 120
frame_limit = 144
profiling = true

[log]
level = "debug"
`))
	require.NoError(t, err)

	assert.Equal(t, "Inspector", cfg.Window.Title)
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 1080, cfg.Window.Height)
	assert.Equal(t, uint32(8), cfg.Renderer.MSAA)
	assert.False(t, cfg.Renderer.VSync)
	assert.Equal(t, uint64(1024), cfg.Renderer.MinimumAllocation)
	assert.Equal(t, "normal", cfg.Renderer.PresentSource)
	assert.Equal(t, float64(120), cfg.Engine.TickRate)
	assert.Equal(t, float64(144), cfg.Engine.FrameLimit)
	assert.True(t, cfg.Engine.Profiling)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParsePartialDocumentKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
width = 800
`))
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, "Viewer", cfg.Window.Title)
	assert.Equal(t, uint32(4), cfg.Renderer.MSAA)
}

func TestParseNormalizesInvalidValues(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
width = -5
height = 0

[renderer]
msaa = 3
present_source = ""

[engine]
tick_rate = -1
frame_limit = -30
`))
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, uint32(4), cfg.Renderer.MSAA)
	assert.Equal(t, "color", cfg.Renderer.PresentSource)
	assert.Equal(t, float64(60), cfg.Engine.TickRate)
	assert.Zero(t, cfg.Engine.FrameLimit)
}

func TestParseMalformedDocument(t *testing.T) {
	_, err := Parse([]byte(`[window`))
	assert.Error(t, err)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\ntitle = \"FromFile\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FromFile", cfg.Window.Title)
}
