//go:build !tinygo && cgo

package sdfview

import (
	"runtime"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/sdfview/config"
	"github.com/soypat/sdfview/input"
	"github.com/soypat/sdfview/overlay"
	"github.com/soypat/sdfview/shader"
	"go.uber.org/zap"
)

// Run opens a window and runs the viewer until the window is closed.
// It fails if the shader file named in cfg cannot be read at startup.
// log may be nil.
func Run(cfg config.Config, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	// GLFW and OpenGL calls must all happen on the main thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	window, term, err := glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   cfg.Window.Title,
		Version: [2]int{4, 6},
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
	})
	if err != nil {
		return err
	}
	defer term()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	log.Info("window ready",
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
	)

	panel, err := overlay.NewPanel(overlay.Config{})
	if err != nil {
		return err
	}
	ui, err := overlay.NewRenderer(panel)
	if err != nil {
		return err
	}
	surface, err := NewGLSurface()
	if err != nil {
		ui.Delete()
		return err
	}
	v, err := NewViewer(cfg, shader.GLCompiler{}, surface, ui, log)
	if err != nil {
		surface.Delete()
		ui.Delete()
		return err
	}
	defer v.Close()
	fbw, fbh := window.GetFramebufferSize()
	v.Resize(fbw, fbh)

	v.Router().OnModeChange(func(m input.Mode) {
		if m == input.ModeCamera {
			window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else {
			window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
		log.Debug("input mode", zap.Stringer("mode", m))
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		v.Key(input.Key(key), input.Action(action))
	})
	window.SetCharCallback(func(w *glfw.Window, char rune) {
		v.Char(char)
	})
	// Pointer positions arrive in screen coordinates, the overlay works in pixels.
	pixels := func(w *glfw.Window, x, y float64) (float32, float32) {
		ww, wh := w.GetSize()
		fw, fh := w.GetFramebufferSize()
		return toFramebuffer(x, y, ww, wh, fw, fh)
	}
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		v.PointerMove(pixels(w, xpos, ypos))
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		cx, cy := w.GetCursorPos()
		x, y := pixels(w, cx, cy)
		v.PointerButton(x, y, int(button), action == glfw.Press)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		v.Scroll(float32(xoff), float32(yoff))
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		v.Resize(width, height)
	})
	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if !focused {
			v.Router().Release()
		}
	})

	// Errors are logged when they first appear and again once they change.
	var lastErr string
	previousTime := glfw.GetTime()
	for !window.ShouldClose() {
		currentTime := glfw.GetTime()
		delta := currentTime - previousTime
		previousTime = currentTime

		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		err = v.Frame(currentTime, delta)
		if err != nil && err.Error() != lastErr {
			log.Error("frame", zap.Error(err))
		} else if err == nil && lastErr != "" {
			log.Info("frame errors cleared")
		}
		lastErr = errString(err)
		window.SwapBuffers()
		glfw.PollEvents()
	}
	return v.Close()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
