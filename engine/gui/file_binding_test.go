package gui

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBloomPanel() (*Panel, *Control, *Control) {
	p := NewPanel("test")
	f := p.AddFolder("Bloom Parameters")
	exposure := f.Add("exposure", 0.1, 2).Init(1)
	strength := f.Add("bloomStrength", 0, 10).Init(2)
	return p, exposure, strength
}

func writeFile(t *testing.T, path, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func TestFileBindingLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.toml")
	writeFile(t, path, "[\"Bloom Parameters\"]\nexposure = 1.5\nbloomStrength = 4\n")
	p, exposure, strength := newBloomPanel()

	require.NoError(t, NewFileBinding(p, path).Load())

	assert.Equal(t, float32(1.5), exposure.Value())
	assert.Equal(t, float32(4), strength.Value())
}

func TestFileBindingLoadAppliesKnownNamesDespiteUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.toml")
	writeFile(t, path, "[\"Bloom Parameters\"]\nexposure = 0.5\nglow = 3\n")
	p, exposure, _ := newBloomPanel()

	err := NewFileBinding(p, path).Load()

	assert.ErrorContains(t, err, "glow")
	assert.Equal(t, float32(0.5), exposure.Value())
}

func TestFileBindingLoadRejectsNonNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.toml")
	writeFile(t, path, "[\"Bloom Parameters\"]\nexposure = \"bright\"\n")
	p, exposure, _ := newBloomPanel()

	assert.Error(t, NewFileBinding(p, path).Load())
	assert.Equal(t, float32(1), exposure.Value())
}

func TestFileBindingSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.toml")
	p, exposure, strength := newBloomPanel()
	exposure.SetValue(0.75)
	strength.SetValue(6)
	require.NoError(t, NewFileBinding(p, path).Save())

	q, exposure2, strength2 := newBloomPanel()
	require.NoError(t, NewFileBinding(q, path).Load())

	assert.Equal(t, float32(0.75), exposure2.Value())
	assert.Equal(t, float32(6), strength2.Value())
}

func TestFileBindingWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.toml")
	writeFile(t, path, "[\"Bloom Parameters\"]\nexposure = 1.0\n")
	p, exposure, _ := newBloomPanel()

	var reloads atomic.Int32
	fb := NewFileBinding(p, path,
		WithDebounce(10*time.Millisecond),
		WithReloadHandler(func() { reloads.Add(1) }),
	)
	require.NoError(t, fb.Watch())
	defer fb.Close()

	writeFile(t, path, "[\"Bloom Parameters\"]\nexposure = 1.25\n")

	assert.Eventually(t, func() bool {
		return exposure.Value() == 1.25
	}, 3*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, reloads.Load(), int32(1))
}

func TestFileBindingCloseWithoutWatch(t *testing.T) {
	p, _, _ := newBloomPanel()
	fb := NewFileBinding(p, filepath.Join(t.TempDir(), "params.toml"))

	assert.NoError(t, fb.Close())
	require.NoError(t, fb.Watch())
	assert.NoError(t, fb.Close())
	assert.NoError(t, fb.Close())
}
