package input

import (
	"testing"

	"github.com/soypat/sdfview/camera"
)

type recordingOverlay struct {
	wantMouse, wantKeyboard bool

	keys    []Key
	moves   int
	buttons int
	scrolls int
	chars   []rune
}

func (o *recordingOverlay) WantCaptureMouse() bool    { return o.wantMouse }
func (o *recordingOverlay) WantCaptureKeyboard() bool { return o.wantKeyboard }
func (o *recordingOverlay) KeyEvent(k Key, a Action)  { o.keys = append(o.keys, k) }
func (o *recordingOverlay) PointerMove(x, y float32)  { o.moves++ }
func (o *recordingOverlay) Scroll(dx, dy float32)     { o.scrolls++ }
func (o *recordingOverlay) Char(r rune)               { o.chars = append(o.chars, r) }
func (o *recordingOverlay) PointerButton(x, y float32, button int, pressed bool) {
	o.buttons++
}

func TestRouterInitialMode(t *testing.T) {
	r := NewRouter(&recordingOverlay{})
	if r.Mode() != ModeUI {
		t.Fatalf("initial mode %v, want ui", r.Mode())
	}
}

func TestRouterPressEntersCamera(t *testing.T) {
	ui := &recordingOverlay{}
	r := NewRouter(ui)
	var transitions []Mode
	r.OnModeChange(func(m Mode) { transitions = append(transitions, m) })

	r.PointerMove(100, 100)
	if ui.moves != 1 {
		t.Fatal("pointer motion in ui mode not forwarded")
	}
	r.PointerButton(100, 100, 0, true)
	if r.Mode() != ModeCamera {
		t.Fatalf("mode %v after unclaimed press, want camera", r.Mode())
	}
	if ui.buttons != 0 {
		t.Error("press forwarded to overlay after entering camera mode")
	}
	r.PointerMove(100, 100) // First motion after grabbing is a reference.
	r.PointerMove(110, 100)
	if ui.moves != 1 {
		t.Error("pointer motion forwarded to overlay in camera mode")
	}
	dx, dy := r.TakeLook()
	if dx != 10 || dy != 0 {
		t.Errorf("look delta (%v,%v), want (10,0)", dx, dy)
	}
	dx, dy = r.TakeLook()
	if dx != 0 || dy != 0 {
		t.Error("TakeLook did not reset delta")
	}

	r.Key(KeyEscape, Press)
	r.Update()
	if r.Mode() != ModeUI {
		t.Fatalf("mode %v after escape, want ui", r.Mode())
	}
	if len(transitions) != 2 || transitions[0] != ModeCamera || transitions[1] != ModeUI {
		t.Errorf("unexpected transitions %v", transitions)
	}
}

func TestRouterClaimedPressStaysUI(t *testing.T) {
	ui := &recordingOverlay{wantMouse: true}
	r := NewRouter(ui)
	r.PointerButton(5, 5, 0, true)
	r.PointerButton(5, 5, 0, false)
	if r.Mode() != ModeUI {
		t.Fatal("claimed press must not enter camera mode")
	}
	if ui.buttons != 2 {
		t.Errorf("want press and release forwarded, got %d", ui.buttons)
	}
}

func TestRouterEscapeCapturedByKeyboard(t *testing.T) {
	ui := &recordingOverlay{}
	r := NewRouter(ui)
	r.PointerButton(0, 0, 0, true)
	ui.wantKeyboard = true
	r.Key(KeyEscape, Press)
	r.Update()
	if r.Mode() != ModeCamera {
		t.Fatal("escape must not release camera while overlay captures keyboard")
	}
	ui.wantKeyboard = false
	r.Update()
	if r.Mode() != ModeUI {
		t.Fatal("held escape must release camera once keyboard is free")
	}
}

func TestRouterKeysAlwaysTracked(t *testing.T) {
	ui := &recordingOverlay{}
	r := NewRouter(ui)
	r.Key(KeyW, Press)
	if len(ui.keys) != 1 {
		t.Fatal("key not forwarded in ui mode")
	}
	r.PointerButton(0, 0, 0, true)
	r.Key(KeyA, Press)
	r.Key(KeyW, Release)
	if len(ui.keys) != 1 {
		t.Error("keys forwarded in camera mode")
	}
	if r.Held(KeyW) || !r.Held(KeyA) {
		t.Errorf("held keys not tracked in camera mode: %v", r.Keys())
	}
	// Release of a key never pressed is harmless.
	r.Key(KeyF1, Release)
	r.Key(KeyD, Press)
	r.Key(KeyD, Repeat)
	if got := r.Motion(); got != camera.MoveLeft|camera.MoveRight {
		t.Errorf("motion %06b", got)
	}
}

func TestRouterDropsEventsInCameraMode(t *testing.T) {
	ui := &recordingOverlay{}
	r := NewRouter(ui)
	r.Scroll(0, 1)
	r.Char('x')
	r.PointerButton(0, 0, 0, true)
	r.Scroll(0, 1)
	r.Char('y')
	r.PointerButton(0, 0, 0, false)
	if ui.scrolls != 1 || len(ui.chars) != 1 || ui.buttons != 0 {
		t.Errorf("events leaked in camera mode: scrolls=%d chars=%q buttons=%d", ui.scrolls, ui.chars, ui.buttons)
	}
	r.Release()
	if r.Mode() != ModeUI {
		t.Error("Release did not return to ui mode")
	}
}

func TestKeySetMotion(t *testing.T) {
	ks := make(KeySet)
	for _, k := range []Key{KeyW, KeyS, KeyA, KeyD, KeyQ, KeyE} {
		ks.apply(k, Press)
	}
	want := camera.MoveForward | camera.MoveBack | camera.MoveLeft | camera.MoveRight | camera.MoveUp | camera.MoveDown
	if got := ks.Motion(); got != want {
		t.Errorf("motion %06b, want %06b", got, want)
	}
	if ModeCamera.String() != "camera" || ModeUI.String() != "ui" {
		t.Error("mode names")
	}
}
