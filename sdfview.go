// Package sdfview implements an interactive viewer for signed distance field
// fragment shaders. The shader file is watched and hot swapped when it changes
// while a first person fly camera is driven with the keyboard and pointer.
//
// [Viewer] holds all application state and runs one frame per [Viewer.Frame]
// call, so the render loop can be driven by a window host ([Run]) or by tests.
package sdfview

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/sdfview/camera"
	"github.com/soypat/sdfview/config"
	"github.com/soypat/sdfview/filewatch"
	"github.com/soypat/sdfview/input"
	"github.com/soypat/sdfview/overlay"
	"github.com/soypat/sdfview/shader"
	"go.uber.org/zap"
)

// Surface draws the full screen triangle that drives the fragment shader.
type Surface interface {
	// Draw issues the draw call with prog bound.
	Draw(prog shader.Program) error
	// Resize sets the viewport size in pixels.
	Resize(width, height int)
	// Snapshot reads back the color buffer, top row first.
	Snapshot(width, height int) (*image.RGBA, error)
	Delete()
}

// Overlay is the UI layer drawn over the scene.
type Overlay interface {
	input.Overlay
	Resize(width, height int)
	Render(t overlay.Telemetry) error
	Delete()
}

var errClosed = errors.New("sdfview: viewer closed")

// Viewer is the application state threaded through the render loop.
// It is not safe for concurrent use.
type Viewer struct {
	log      *zap.Logger
	watch    *filewatch.Watch
	notifier *filewatch.Notifier
	shaders  *shader.Manager
	surface  Surface
	ui       Overlay
	router   *input.Router
	cam      *camera.Camera

	move, turn float32
	render     config.Render

	width, height  int
	frame          uint64
	elapsed, delta float64
	snapshot       bool
	closed         bool
}

// NewViewer creates the viewer and loads the shader named in cfg for the first time.
// A missing or unreadable shader file is an error. A shader that fails to compile
// is not: the viewer starts without a program and shows the diagnostic.
// On error s and ui are left for the caller to delete. log may be nil.
func NewViewer(cfg config.Config, c shader.Compiler, s Surface, ui Overlay, log *zap.Logger) (*Viewer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c == nil || s == nil || ui == nil {
		return nil, errors.New("sdfview: nil compiler, surface or overlay")
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := cfg.Camera.Position
	v := &Viewer{
		log:     log,
		shaders: shader.NewManager(c, log.Named("shader")),
		surface: s,
		ui:      ui,
		router:  input.NewRouter(ui),
		cam: camera.New(camera.Pose{
			Position: ms3.Vec{X: p[0], Y: p[1], Z: p[2]},
			Pitch:    cfg.Camera.Pitch,
			Yaw:      cfg.Camera.Yaw,
		}),
		move:   cfg.Camera.MoveSpeed,
		turn:   cfg.Camera.TurnSpeed,
		render: cfg.Render,
	}
	v.watch = filewatch.New(cfg.Shader, v.reloadShader)
	v.Resize(cfg.Window.Width, cfg.Window.Height)
	// The notifier is attached before the first check so a save landing
	// right after the initial load still raises a pending event.
	if cfg.Notify {
		n, err := filewatch.NewNotifier(cfg.Shader, log.Named("notify"))
		if err != nil {
			log.Warn("file notifications unavailable, polling", zap.Error(err))
		} else {
			v.notifier = n
			v.watch.SetNotifier(n)
		}
	}
	err := v.checkShader()
	if err != nil {
		v.shaders.Release()
		if v.notifier != nil {
			v.notifier.Close()
		}
		return nil, err
	}
	return v, nil
}

func (v *Viewer) reloadShader(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return v.shaders.Reload(string(src))
}

// checkShader runs the file watch. Compile errors are already logged by the
// shader manager and are kept as the telemetry diagnostic, they are not returned.
func (v *Viewer) checkShader() error {
	err := v.watch.Check()
	var cerr *shader.CompileError
	if errors.As(err, &cerr) {
		return nil
	}
	return err
}

// Frame runs one iteration of the render loop. elapsed is the time in seconds
// since start and delta the time since the previous frame.
// A frame always completes; errors from the file watch, drawing, snapshots and
// the overlay are joined and returned after the frame is done.
func (v *Viewer) Frame(elapsed, delta float64) error {
	if v.closed {
		return errClosed
	}
	v.elapsed, v.delta = elapsed, delta
	watchErr := v.checkShader()

	v.router.Update()
	dx, dy := v.router.TakeLook()
	var motion camera.Motion
	if v.router.Mode() == input.ModeCamera && !v.ui.WantCaptureKeyboard() {
		motion = v.router.Motion()
	}
	v.cam.Integrate(motion, v.move, v.turn, dx, dy)

	var drawErr error
	if prog := v.shaders.Active(); prog != nil {
		v.upload(prog)
		drawErr = v.surface.Draw(prog)
	}
	var snapErr error
	if v.snapshot {
		v.snapshot = false
		snapErr = v.saveSnapshot()
	}
	uiErr := v.ui.Render(v.Telemetry())
	v.frame++
	return errors.Join(watchErr, drawErr, snapErr, uiErr)
}

func (v *Viewer) upload(prog shader.Program) {
	prog.Bind()
	view := v.cam.ViewMatrix()
	prog.SetMat4(shader.UniformViewMatrix, &view)
	prog.SetVec2(shader.UniformResolution, float32(v.width), float32(v.height))
	prog.SetFloat(shader.UniformEpsilon, v.render.Epsilon)
	prog.SetFloat(shader.UniformFOV, v.render.FOV)
	prog.SetInt(shader.UniformMaxSteps, int32(v.render.MaxSteps))
	prog.SetFloat(shader.UniformTime, float32(v.elapsed))
	prog.SetInt(shader.UniformFrame, int32(v.frame))
}

func (v *Viewer) saveSnapshot() error {
	img, err := v.surface.Snapshot(v.width, v.height)
	if err != nil {
		return fmt.Errorf("sdfview: snapshot: %w", err)
	}
	path := snapshotPath(v.watch.Path(), v.frame)
	err = writePNG(path, img)
	if err != nil {
		return fmt.Errorf("sdfview: snapshot: %w", err)
	}
	v.log.Info("snapshot saved", zap.String("file", path))
	return nil
}

// RequestSnapshot saves the rendered scene to a PNG next to the shader file at
// the end of the next frame's scene draw.
func (v *Viewer) RequestSnapshot() { v.snapshot = true }

// Resize sets the framebuffer size in pixels.
func (v *Viewer) Resize(width, height int) {
	v.width, v.height = width, height
	v.surface.Resize(width, height)
	v.ui.Resize(width, height)
}

// Key routes a key transition. F12 pressed while the UI has focus requests a snapshot.
func (v *Viewer) Key(k input.Key, a input.Action) {
	v.router.Key(k, a)
	if k == input.KeyF12 && a == input.Press && v.router.Mode() == input.ModeUI {
		v.RequestSnapshot()
	}
}

func (v *Viewer) PointerMove(x, y float32) { v.router.PointerMove(x, y) }

// toFramebuffer converts a position in window screen coordinates to framebuffer
// pixels, the units of [Viewer.Resize]. The two differ on HiDPI displays.
func toFramebuffer(x, y float64, winW, winH, fbW, fbH int) (float32, float32) {
	if winW <= 0 || winH <= 0 {
		return float32(x), float32(y)
	}
	return float32(x * float64(fbW) / float64(winW)), float32(y * float64(fbH) / float64(winH))
}

func (v *Viewer) PointerButton(x, y float32, button int, pressed bool) {
	v.router.PointerButton(x, y, button, pressed)
}

func (v *Viewer) Scroll(dx, dy float32) { v.router.Scroll(dx, dy) }

func (v *Viewer) Char(c rune) { v.router.Char(c) }

// Router returns the input state machine.
func (v *Viewer) Router() *input.Router { return v.router }

// Shaders returns the shader manager.
func (v *Viewer) Shaders() *shader.Manager { return v.shaders }

// Pose returns the camera pose.
func (v *Viewer) Pose() camera.Pose { return v.cam.Pose() }

// Telemetry returns the state shown in the overlay.
func (v *Viewer) Telemetry() overlay.Telemetry {
	pose := v.cam.Pose()
	t := overlay.Telemetry{
		Frame:      v.frame,
		Time:       v.elapsed,
		Delta:      v.delta,
		Position:   pose.Position,
		Pitch:      pose.Pitch,
		Yaw:        pose.Yaw,
		Mode:       v.router.Mode(),
		Generation: v.shaders.Generation(),
	}
	var cerr *shader.CompileError
	if errors.As(v.shaders.LastError(), &cerr) {
		t.Diagnostic = cerr.Log
	}
	return t
}

// Close releases the shader program, surface, overlay and file notifier.
// Calling Close more than once is a no-op.
func (v *Viewer) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	v.shaders.Release()
	v.surface.Delete()
	v.ui.Delete()
	if v.notifier != nil {
		return v.notifier.Close()
	}
	return nil
}
