// Package gui provides a parameter panel: named folders of bounded float controls with change
// callbacks. The panel has no widgets of its own; values arrive from a FileBinding or from code.
package gui

import (
	"fmt"
	"sort"
	"sync"

	"github.com/chewxy/math32"
)

// Panel is an ordered collection of folders.
type Panel struct {
	mu      sync.Mutex
	name    string
	folders []*Folder
}

// Folder is an ordered, named group of controls.
type Folder struct {
	mu       sync.Mutex
	name     string
	controls []*Control
}

// Control is a float parameter bounded to [min, max] and optionally snapped to a step.
type Control struct {
	mu       sync.Mutex
	name     string
	min      float32
	max      float32
	step     float32
	value    float32
	onChange []func(float32)
}

// NewPanel creates an empty panel.
//
// Parameters:
//   - name: the panel title
//
// Returns:
//   - *Panel: the panel
func NewPanel(name string) *Panel {
	return &Panel{name: name}
}

// Name returns the panel title.
func (p *Panel) Name() string {
	return p.name
}

// AddFolder returns the folder with the given name, creating it if needed.
//
// Parameters:
//   - name: folder name
//
// Returns:
//   - *Folder: the folder
func (p *Panel) AddFolder(name string) *Folder {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, f := range p.folders {
		if f.name == name {
			return f
		}
	}
	f := &Folder{name: name}
	p.folders = append(p.folders, f)
	return f
}

// Folder looks up a folder by name.
//
// Parameters:
//   - name: folder name
//
// Returns:
//   - *Folder: the folder, or nil
//   - bool: false if no folder has that name
func (p *Panel) Folder(name string) (*Folder, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, f := range p.folders {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// Folders returns the folders in creation order.
func (p *Panel) Folders() []*Folder {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Folder, len(p.folders))
	copy(out, p.folders)
	return out
}

// Apply sets control values by folder and control name. Unknown names are reported but do not
// stop the remaining updates.
//
// Parameters:
//   - values: folder name -> control name -> value
//
// Returns:
//   - []error: one error per unknown folder or control, in sorted name order
func (p *Panel) Apply(values map[string]map[string]float32) []error {
	var errs []error
	for _, folderName := range sortedKeys(values) {
		f, ok := p.Folder(folderName)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown folder %q", folderName))
			continue
		}
		controls := values[folderName]
		for _, controlName := range sortedKeys(controls) {
			c, ok := f.Control(controlName)
			if !ok {
				errs = append(errs, fmt.Errorf("unknown control %q in folder %q", controlName, folderName))
				continue
			}
			c.SetValue(controls[controlName])
		}
	}
	return errs
}

// Snapshot returns every control value keyed by folder and control name.
//
// Returns:
//   - map[string]map[string]float32: folder name -> control name -> value
func (p *Panel) Snapshot() map[string]map[string]float32 {
	out := make(map[string]map[string]float32)
	for _, f := range p.Folders() {
		values := make(map[string]float32)
		for _, c := range f.Controls() {
			values[c.Name()] = c.Value()
		}
		out[f.name] = values
	}
	return out
}

// Name returns the folder name.
func (f *Folder) Name() string {
	return f.name
}

// Add creates a control bounded to [min, max] whose initial value is min. Adding a name that
// already exists returns the existing control.
//
// Parameters:
//   - name: control name, unique within the folder
//   - min: lower bound
//   - max: upper bound
//
// Returns:
//   - *Control: the control
func (f *Folder) Add(name string, min, max float32) *Control {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.controls {
		if c.name == name {
			return c
		}
	}
	if max < min {
		min, max = max, min
	}
	c := &Control{name: name, min: min, max: max, value: min}
	f.controls = append(f.controls, c)
	return c
}

// Control looks up a control by name.
func (f *Folder) Control(name string) (*Control, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.controls {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Controls returns the controls in creation order.
func (f *Folder) Controls() []*Control {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Control, len(f.controls))
	copy(out, f.controls)
	return out
}

// Name returns the control name.
func (c *Control) Name() string {
	return c.name
}

// Range returns the control bounds.
func (c *Control) Range() (min, max float32) {
	return c.min, c.max
}

// Step sets the snapping increment. Zero disables snapping.
//
// Parameters:
//   - step: the increment
//
// Returns:
//   - *Control: the control, for chaining
func (c *Control) Step(step float32) *Control {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = math32.Max(step, 0)
	return c
}

// OnChange registers a callback fired after the value changes.
//
// Parameters:
//   - fn: receives the new value
//
// Returns:
//   - *Control: the control, for chaining
func (c *Control) OnChange(fn func(float32)) *Control {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
	return c
}

// Init sets the value without firing callbacks. Used to seed a control from the current state
// of what it edits.
//
// Parameters:
//   - v: the value, clamped and snapped
//
// Returns:
//   - *Control: the control, for chaining
func (c *Control) Init(v float32) *Control {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = c.normalize(v)
	return c
}

// Value returns the current value.
func (c *Control) Value() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// SetValue clamps v to the range, snaps it to the step, and fires OnChange callbacks if the
// result differs from the current value.
//
// Parameters:
//   - v: the requested value
//
// Returns:
//   - bool: true if the value changed
func (c *Control) SetValue(v float32) bool {
	c.mu.Lock()
	if math32.IsNaN(v) {
		c.mu.Unlock()
		return false
	}
	next := c.normalize(v)
	if next == c.value {
		c.mu.Unlock()
		return false
	}
	c.value = next
	callbacks := make([]func(float32), len(c.onChange))
	copy(callbacks, c.onChange)
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn(next)
	}
	return true
}

// normalize clamps and snaps v. Caller must hold the mutex.
func (c *Control) normalize(v float32) float32 {
	v = math32.Max(c.min, math32.Min(c.max, v))
	if c.step > 0 {
		v = c.min + math32.Floor((v-c.min)/c.step+0.5)*c.step
		v = math32.Min(v, c.max)
	}
	return v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
