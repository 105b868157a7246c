//go:build !tinygo && cgo

package overlay

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

const panelVertex = `#version 460
uniform vec4 rect; // Top-left and bottom-right corners in NDC.
out vec2 uv;
void main() {
    vec2 c = vec2(gl_VertexID & 1, gl_VertexID >> 1);
    uv = c;
    gl_Position = vec4(mix(rect.xy, rect.zw, c), 0.0, 1.0);
}
` + "\x00"

const panelFragment = `#version 460
uniform sampler2D panel;
in vec2 uv;
out vec4 color;
void main() {
    color = texture(panel, uv);
}
` + "\x00"

// Renderer draws a [Panel] with OpenGL as a textured rectangle blended over the scene.
type Renderer struct {
	*Panel
	prog    glgl.Program
	rectLoc int32
	texLoc  int32
	vao     uint32
	tex     uint32
}

// NewRenderer allocates the GL resources needed to draw p. Requires a current context.
func NewRenderer(p *Panel) (*Renderer, error) {
	if p == nil {
		return nil, errors.New("overlay: nil panel")
	}
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   panelVertex,
		Fragment: panelFragment,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay: compiling panel program: %w", err)
	}
	r := &Renderer{Panel: p, prog: prog}
	r.rectLoc, err = prog.UniformLocation("rect\x00")
	if err != nil {
		prog.Delete()
		return nil, err
	}
	r.texLoc, err = prog.UniformLocation("panel\x00")
	if err != nil {
		prog.Delete()
		return nil, err
	}
	gl.GenVertexArrays(1, &r.vao)
	gl.GenTextures(1, &r.tex)
	gl.BindTexture(gl.TEXTURE_2D, r.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if r.vao == 0 || r.tex == 0 {
		r.Delete()
		return nil, glErrOrMessage("overlay: zero id for panel vertex array or texture")
	}
	return r, nil
}

// Render rasterizes t and draws it at the top-left corner of the window.
func (r *Renderer) Render(t Telemetry) error {
	img, err := r.Rasterize(t)
	if err != nil || img == nil {
		return err
	}
	w, h := r.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	iw, ih := img.Rect.Dx(), img.Rect.Dy()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(iw), int32(ih), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	r.prog.Bind()
	x1 := -1 + 2*float32(iw)/float32(w)
	y1 := 1 - 2*float32(ih)/float32(h)
	gl.Uniform4f(r.rectLoc, -1, 1, x1, y1)
	gl.Uniform1i(r.texLoc, 0)

	// Panel pixels are premultiplied by alpha.
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	r.prog.Unbind()
	return glgl.Err()
}

// Delete releases GL resources. Calling Delete more than once is a no-op.
func (r *Renderer) Delete() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.tex != 0 {
		gl.DeleteTextures(1, &r.tex)
		r.tex = 0
	}
	if r.prog.ID() != 0 {
		r.prog.Delete()
		r.prog = glgl.Program{}
	}
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
