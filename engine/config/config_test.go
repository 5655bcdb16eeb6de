package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.Stars.Count)
	assert.Equal(t, float32(50), cfg.Camera.Fov)
	assert.Equal(t, float32(20), cfg.Controls.TranslatePower)
	assert.Equal(t, 100, cfg.Controls.WheelDecayMs)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stars.toml")
	doc := `
[stars]
count = 500
seed = 7

[controls]
translate_power = 1.5
pan_normalize = "height"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Stars.Count)
	assert.Equal(t, int64(7), cfg.Stars.Seed)
	assert.Equal(t, float32(1.5), cfg.Controls.TranslatePower)
	assert.Equal(t, "height", cfg.Controls.PanNormalize)
	assert.Equal(t, float32(10), cfg.Controls.ZoomPower)
	assert.Equal(t, 1280, cfg.Window.Width)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[stars\ncount = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":     func(c *Config) { c.Window.Width = 0 },
		"negative count": func(c *Config) { c.Stars.Count = -1 },
		"inverted bounds": func(c *Config) {
			c.Stars.Min[1] = 3
		},
		"fov too wide":      func(c *Config) { c.Camera.Fov = 180 },
		"near beyond far":   func(c *Config) { c.Camera.Near = 2000 },
		"camera behind":     func(c *Config) { c.Camera.Position[2] = -1 },
		"zero tick rate":    func(c *Config) { c.Engine.TickRate = 0 },
		"zero decay":        func(c *Config) { c.Controls.WheelDecayMs = 0 },
		"unknown normalize": func(c *Config) { c.Controls.PanNormalize = "diagonal" },
		"zero pick chunk":   func(c *Config) { c.Engine.PickChunk = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestEncodeDecodeKeepsValues(t *testing.T) {
	cfg := Default()
	cfg.Bloom.Strength = 3.5
	cfg.Window.Title = "test"

	data, err := Encode(cfg)
	require.NoError(t, err)

	got := Default()
	require.NoError(t, Decode(data, &got))
	assert.Equal(t, cfg, got)
}
