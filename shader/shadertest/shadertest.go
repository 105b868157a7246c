// Package shadertest provides a GPU-free [shader.Compiler] for tests.
//
// The fake compiler accepts a fragment source when it declares a main function
// and its braces balance. Uniform declarations of the form
//
//	uniform <type> <name>;
//
// determine which uniform writes the resulting program accepts.
package shadertest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/sdfview/shader"
)

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*;`)

// Compiler is a fake [shader.Compiler].
type Compiler struct {
	// Compiled lists every program returned by Compile in order.
	Compiled []*Program
	// Calls counts calls to Compile, failed ones included.
	Calls int
}

var _ shader.Compiler = (*Compiler)(nil)

// Compile implements [shader.Compiler].
func (c *Compiler) Compile(vertex, fragment string) (shader.Program, error) {
	c.Calls++
	if !strings.Contains(vertex, "void main") {
		return nil, &shader.CompileError{Log: "0:1(1): error: vertex stage has no main"}
	}
	if !strings.Contains(fragment, "void main") {
		return nil, &shader.CompileError{Log: "0:1(1): error: fragment stage has no main"}
	}
	depth := 0
	for i, r := range fragment {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth < 0 {
			return nil, &shader.CompileError{Log: fmt.Sprintf("0:%d: error: syntax error, unexpected '}'", i)}
		}
	}
	if depth != 0 {
		return nil, &shader.CompileError{Log: "0:0: error: syntax error, unexpected end of file"}
	}
	p := &Program{
		ID:       len(c.Compiled) + 1,
		Source:   fragment,
		Uniforms: make(map[string]any),
		declared: make(map[string]bool),
	}
	for _, m := range uniformDecl.FindAllStringSubmatch(fragment, -1) {
		p.declared[m[1]] = true
	}
	c.Compiled = append(c.Compiled, p)
	return p, nil
}

// Program is a fake [shader.Program] recording uniform writes.
type Program struct {
	ID       int
	Source   string
	Deleted  int
	Binds    int
	Uniforms map[string]any
	declared map[string]bool
}

var _ shader.Program = (*Program)(nil)

func (p *Program) Bind()   { p.Binds++ }
func (p *Program) Delete() { p.Deleted++ }

func (p *Program) set(name string, v any) bool {
	if !p.declared[name] {
		return false
	}
	p.Uniforms[name] = v
	return true
}

func (p *Program) SetMat4(name string, m *mgl32.Mat4) bool { return p.set(name, *m) }
func (p *Program) SetVec2(name string, x, y float32) bool  { return p.set(name, [2]float32{x, y}) }
func (p *Program) SetFloat(name string, v float32) bool    { return p.set(name, v) }
func (p *Program) SetInt(name string, v int32) bool        { return p.set(name, v) }

// AttribLocation reports location 0 for "position" and absent otherwise.
func (p *Program) AttribLocation(name string) (uint32, bool) {
	return 0, name == shader.AttribPosition
}

// SceneSource returns a valid fragment source declaring the full uniform interface.
func SceneSource() string {
	return `#version 460
uniform mat4 view_matrix;
uniform vec2 resolution;
uniform float epsilon;
uniform float fov;
uniform int max_steps;
out vec4 color;
void main() {
    color = vec4(gl_FragCoord.xy / resolution, epsilon * fov, float(max_steps));
}
`
}
