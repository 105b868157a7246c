//go:build !tinygo && cgo

package shader

import (
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// GLCompiler compiles programs on the current OpenGL context.
type GLCompiler struct{}

var _ Compiler = GLCompiler{}

// Compile implements [Compiler]. Sources need not be NUL terminated.
func (GLCompiler) Compile(vertex, fragment string) (Program, error) {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   nulTerminate(vertex),
		Fragment: nulTerminate(fragment),
	})
	if err != nil {
		return nil, &CompileError{Log: err.Error()}
	}
	return &glProgram{
		prog:     prog,
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
	}, nil
}

func nulTerminate(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// glProgram caches locations. A negative location marks a name absent from the program.
type glProgram struct {
	prog     glgl.Program
	uniforms map[string]int32
	attribs  map[string]int32
}

func (p *glProgram) Bind() { p.prog.Bind() }

func (p *glProgram) Delete() {
	if p.prog.ID() == 0 {
		return
	}
	p.prog.Delete()
	p.prog = glgl.Program{}
}

func (p *glProgram) uniform(name string) (int32, bool) {
	loc, ok := p.uniforms[name]
	if !ok {
		var err error
		loc, err = p.prog.UniformLocation(nulTerminate(name))
		if err != nil {
			// Unused uniforms are optimized out by the driver too.
			loc = -1
		}
		p.uniforms[name] = loc
	}
	return loc, loc >= 0
}

func (p *glProgram) SetMat4(name string, m *mgl32.Mat4) bool {
	loc, ok := p.uniform(name)
	if ok {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
	return ok
}

func (p *glProgram) SetVec2(name string, x, y float32) bool {
	loc, ok := p.uniform(name)
	if ok {
		gl.Uniform2f(loc, x, y)
	}
	return ok
}

func (p *glProgram) SetFloat(name string, v float32) bool {
	loc, ok := p.uniform(name)
	if ok {
		gl.Uniform1f(loc, v)
	}
	return ok
}

func (p *glProgram) SetInt(name string, v int32) bool {
	loc, ok := p.uniform(name)
	if ok {
		gl.Uniform1i(loc, v)
	}
	return ok
}

func (p *glProgram) AttribLocation(name string) (uint32, bool) {
	loc, ok := p.attribs[name]
	if !ok {
		l, err := p.prog.AttribLocation(nulTerminate(name))
		loc = int32(l)
		if err != nil {
			loc = -1
		}
		p.attribs[name] = loc
	}
	return uint32(loc), loc >= 0
}
