// Package input routes keyboard and pointer events between the UI overlay and
// the camera depending on which of them currently holds input focus.
package input

import (
	"github.com/soypat/sdfview/camera"
)

// Key identifies a keyboard key. Values match GLFW key tokens so hosts
// built on GLFW may convert with a plain type conversion.
type Key int

const (
	KeyUnknown Key = -1
	KeyA       Key = 65
	KeyD       Key = 68
	KeyE       Key = 69
	KeyQ       Key = 81
	KeyS       Key = 83
	KeyW       Key = 87
	KeyEscape  Key = 256
	KeyF1      Key = 290
	KeyF12     Key = 301
)

// Action is a key or button transition. Values match GLFW actions.
type Action int

const (
	Release Action = 0
	Press   Action = 1
	Repeat  Action = 2
)

// Mode selects the consumer of input events.
type Mode uint8

const (
	// ModeUI forwards events to the overlay. The cursor is free.
	ModeUI Mode = iota
	// ModeCamera feeds pointer motion to the camera and hides the cursor.
	ModeCamera
)

func (m Mode) String() string {
	switch m {
	case ModeUI:
		return "ui"
	case ModeCamera:
		return "camera"
	}
	return "unknown"
}

// Overlay is the UI drawn over the scene. It reports whether it wants to keep
// pointer or keyboard input for itself and receives forwarded events.
type Overlay interface {
	WantCaptureMouse() bool
	WantCaptureKeyboard() bool
	KeyEvent(k Key, a Action)
	PointerMove(x, y float32)
	PointerButton(x, y float32, button int, pressed bool)
	Scroll(dx, dy float32)
	Char(r rune)
}

// KeySet is the set of currently held keys.
type KeySet map[Key]struct{}

// Has reports whether k is held.
func (ks KeySet) Has(k Key) bool {
	_, ok := ks[k]
	return ok
}

func (ks KeySet) apply(k Key, a Action) {
	switch a {
	case Press:
		ks[k] = struct{}{}
	case Release:
		delete(ks, k)
	}
}

// movementKeys maps held keys to camera motion.
var movementKeys = [...]struct {
	key Key
	dir camera.Motion
}{
	{KeyW, camera.MoveForward},
	{KeyS, camera.MoveBack},
	{KeyA, camera.MoveLeft},
	{KeyD, camera.MoveRight},
	{KeyE, camera.MoveUp},
	{KeyQ, camera.MoveDown},
}

// Motion returns the camera motion requested by the held keys.
func (ks KeySet) Motion() (m camera.Motion) {
	for _, mk := range movementKeys {
		if ks.Has(mk.key) {
			m |= mk.dir
		}
	}
	return m
}

// Router is the two-state input machine. It starts in [ModeUI].
// Router is not safe for concurrent use; hosts deliver events on the render thread.
type Router struct {
	ui     Overlay
	mode   Mode
	keys   KeySet
	onMode func(Mode)

	// Pointer tracking. Deltas are derived from absolute positions.
	lastX, lastY float32
	havePointer  bool
	// Look delta accumulated in camera mode since the last TakeLook.
	lookX, lookY float32
}

// NewRouter returns a Router forwarding to ui.
func NewRouter(ui Overlay) *Router {
	return &Router{ui: ui, keys: make(KeySet)}
}

// OnModeChange sets a function called after every mode transition.
func (r *Router) OnModeChange(fn func(Mode)) { r.onMode = fn }

// Mode returns the current mode.
func (r *Router) Mode() Mode { return r.mode }

// Keys returns the held key set. It must not be modified.
func (r *Router) Keys() KeySet { return r.keys }

// Held reports whether k is held.
func (r *Router) Held(k Key) bool { return r.keys.Has(k) }

// Motion returns the camera motion requested by the held keys.
func (r *Router) Motion() camera.Motion { return r.keys.Motion() }

func (r *Router) setMode(m Mode) {
	if m == r.mode {
		return
	}
	r.mode = m
	// Cursor grabbing warps the pointer, don't count the jump as motion.
	r.havePointer = false
	if r.onMode != nil {
		r.onMode(m)
	}
}

// Key records a key transition. The held key set is always updated so movement
// reflects the true keyboard state. The event is forwarded only in [ModeUI].
func (r *Router) Key(k Key, a Action) {
	r.keys.apply(k, a)
	if r.mode == ModeUI {
		r.ui.KeyEvent(k, a)
	}
}

// PointerMove records the absolute pointer position. In [ModeCamera] the delta from
// the previous position accumulates as look input and is not forwarded.
func (r *Router) PointerMove(x, y float32) {
	dx, dy := x-r.lastX, y-r.lastY
	first := !r.havePointer
	r.lastX, r.lastY = x, y
	r.havePointer = true
	switch r.mode {
	case ModeUI:
		r.ui.PointerMove(x, y)
	case ModeCamera:
		if !first {
			r.lookX += dx
			r.lookY += dy
		}
	}
}

// PointerButton handles a pointer button transition. A press the overlay does not
// claim switches to [ModeCamera]. Events are forwarded only while in [ModeUI].
func (r *Router) PointerButton(x, y float32, button int, pressed bool) {
	if pressed && !r.ui.WantCaptureMouse() {
		r.setMode(ModeCamera)
	}
	if r.mode == ModeUI {
		r.ui.PointerButton(x, y, button, pressed)
	}
}

// Scroll forwards scrolling to the overlay in [ModeUI] and drops it otherwise.
func (r *Router) Scroll(dx, dy float32) {
	if r.mode == ModeUI {
		r.ui.Scroll(dx, dy)
	}
}

// Char forwards text entry to the overlay in [ModeUI] and drops it otherwise.
func (r *Router) Char(c rune) {
	if r.mode == ModeUI {
		r.ui.Char(c)
	}
}

// Update runs once per frame before camera integration. Holding escape while the
// overlay does not capture the keyboard releases camera mode.
func (r *Router) Update() {
	if r.mode == ModeCamera && r.keys.Has(KeyEscape) && !r.ui.WantCaptureKeyboard() {
		r.setMode(ModeUI)
	}
}

// Release returns to [ModeUI], for instance when the window loses focus.
func (r *Router) Release() { r.setMode(ModeUI) }

// TakeLook returns the look delta accumulated since the previous call and resets it.
func (r *Router) TakeLook() (dx, dy float32) {
	dx, dy = r.lookX, r.lookY
	r.lookX, r.lookY = 0, 0
	return dx, dy
}
