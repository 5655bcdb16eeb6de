package gui

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

// FileBinding mirrors a Panel to a TOML file. Each top-level table is a folder and each key a
// control:
//
//	["Bloom Parameters"]
//	exposure = 1.0
//	bloomStrength = 2.0
//
// Watch reloads the file whenever it changes on disk.
type FileBinding struct {
	mu       sync.Mutex
	panel    *Panel
	path     string
	debounce time.Duration
	onError  func(error)
	onReload func()

	watcher *fsnotify.Watcher
	timer   *time.Timer
	done    chan struct{}
}

// FileBindingOption is a functional option for configuring a FileBinding.
type FileBindingOption func(*FileBinding)

// WithDebounce sets the quiet period between the last file event and the reload.
//
// Parameters:
//   - d: debounce duration (default 200ms)
//
// Returns:
//   - FileBindingOption: functional option to set the debounce
func WithDebounce(d time.Duration) FileBindingOption {
	return func(fb *FileBinding) {
		fb.debounce = d
	}
}

// WithErrorHandler replaces the default error logger for reloads triggered by Watch.
func WithErrorHandler(fn func(error)) FileBindingOption {
	return func(fb *FileBinding) {
		if fn != nil {
			fb.onError = fn
		}
	}
}

// WithReloadHandler registers a callback run after every reload triggered by Watch.
func WithReloadHandler(fn func()) FileBindingOption {
	return func(fb *FileBinding) {
		fb.onReload = fn
	}
}

// NewFileBinding binds panel to the TOML file at path. Nothing is read until Load or Watch.
//
// Parameters:
//   - panel: the panel to update
//   - path: the TOML file
//   - options: functional options
//
// Returns:
//   - *FileBinding: the binding
func NewFileBinding(panel *Panel, path string, options ...FileBindingOption) *FileBinding {
	fb := &FileBinding{
		panel:    panel,
		path:     path,
		debounce: 200 * time.Millisecond,
		onError: func(err error) {
			log.Printf("[Panel] reload %s: %v", path, err)
		},
	}
	for _, option := range options {
		option(fb)
	}
	return fb
}

// Path returns the bound file path.
func (fb *FileBinding) Path() string {
	return fb.path
}

// Load reads the file and applies its values to the panel. Unknown folders or controls are
// reported together but known ones are still applied.
//
// Returns:
//   - error: read or decode failure, or the joined unknown-name errors
func (fb *FileBinding) Load() error {
	data, err := os.ReadFile(fb.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fb.path, err)
	}
	values, err := decodeValues(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", fb.path, err)
	}
	return errors.Join(fb.panel.Apply(values)...)
}

// Save writes the panel's current values to the file.
//
// Returns:
//   - error: encode or write failure
func (fb *FileBinding) Save() error {
	data, err := toml.Marshal(fb.panel.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode panel %s: %w", fb.panel.Name(), err)
	}
	if err := os.WriteFile(fb.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", fb.path, err)
	}
	return nil
}

// Watch starts reloading the file on every write. The parent directory is watched so editors
// that replace the file on save are still picked up.
//
// Returns:
//   - error: watcher setup failure
func (fb *FileBinding) Watch() error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.watcher != nil {
		return nil
	}

	absPath, err := filepath.Abs(fb.path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", fb.path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(absPath)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	fb.watcher = w
	fb.done = make(chan struct{})
	go fb.loop(w, absPath, fb.done)
	return nil
}

func (fb *FileBinding) loop(w *fsnotify.Watcher, absPath string, done chan struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fb.scheduleReload()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			fb.onError(err)
		}
	}
}

func (fb *FileBinding) scheduleReload() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.watcher == nil {
		return
	}
	if fb.timer != nil {
		fb.timer.Stop()
	}
	fb.timer = time.AfterFunc(fb.debounce, fb.reload)
}

func (fb *FileBinding) reload() {
	if err := fb.Load(); err != nil {
		fb.onError(err)
	}
	if fb.onReload != nil {
		fb.onReload()
	}
}

// Close stops watching. Safe to call when Watch was never called.
//
// Returns:
//   - error: watcher close failure
func (fb *FileBinding) Close() error {
	fb.mu.Lock()
	w, done := fb.watcher, fb.done
	fb.watcher = nil
	if fb.timer != nil {
		fb.timer.Stop()
		fb.timer = nil
	}
	fb.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}

// decodeValues parses a TOML document of tables of numbers. Integers are accepted for floats.
func decodeValues(data []byte) (map[string]map[string]float32, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]map[string]float32, len(raw))
	for folder, v := range raw {
		table, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q is not a table", folder)
		}
		values := make(map[string]float32, len(table))
		for name, raw := range table {
			switch n := raw.(type) {
			case float64:
				values[name] = float32(n)
			case int64:
				values[name] = float32(n)
			default:
				return nil, fmt.Errorf("%s.%s: expected a number, got %T", folder, name, raw)
			}
		}
		out[folder] = values
	}
	return out, nil
}
