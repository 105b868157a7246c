//go:build !tinygo && cgo

package sdfview

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/sdfview/shader"
)

// fullscreenTriangle covers clip space with a single oversized triangle.
var fullscreenTriangle = [...]float32{
	-1, -1,
	3, -1,
	-1, 3,
}

// GLSurface draws the full screen triangle on the current OpenGL context.
type GLSurface struct {
	vao, vbo uint32
	// Program whose position attribute is wired to vbo.
	wired shader.Program
}

var _ Surface = (*GLSurface)(nil)

// NewGLSurface uploads the triangle vertices. Requires a current context.
func NewGLSurface() (*GLSurface, error) {
	s := &GLSurface{}
	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)
	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(fullscreenTriangle), gl.Ptr(&fullscreenTriangle[0]), gl.STATIC_DRAW)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if s.vao == 0 || s.vbo == 0 {
		s.Delete()
		return nil, glErrOrMessage("sdfview: zero id for surface vertex array or buffer")
	}
	return s, nil
}

// Draw implements [Surface]. The position attribute location is looked up again
// whenever a different program is drawn.
func (s *GLSurface) Draw(prog shader.Program) error {
	gl.BindVertexArray(s.vao)
	if prog != s.wired {
		loc, ok := prog.AttribLocation(shader.AttribPosition)
		if !ok {
			gl.BindVertexArray(0)
			return errors.New("sdfview: shader program has no position attribute")
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
		s.wired = prog
	}
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(fullscreenTriangle)/2))
	gl.BindVertexArray(0)
	return glgl.Err()
}

func (s *GLSurface) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Snapshot implements [Surface].
func (s *GLSurface) Snapshot(width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	if err := glgl.Err(); err != nil {
		return nil, err
	}
	flipRows(img)
	return img, nil
}

// Delete releases GL resources. Calling Delete more than once is a no-op.
func (s *GLSurface) Delete() {
	if s.vbo != 0 {
		gl.DeleteBuffers(1, &s.vbo)
		s.vbo = 0
	}
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		s.vao = 0
	}
	s.wired = nil
}

func glErrOrMessage(defaultMsg string) (err error) {
	err = glgl.Err()
	if err == nil {
		err = errors.New(defaultMsg)
	} else {
		err = fmt.Errorf("%s: %w", defaultMsg, err)
	}
	return err
}
