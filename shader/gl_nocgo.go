//go:build tinygo || !cgo

package shader

import "errors"

var errNoCGO = errors.New("shader: OpenGL compilation requires CGo and is not supported on TinyGo")

// GLCompiler compiles programs on the current OpenGL context.
type GLCompiler struct{}

var _ Compiler = GLCompiler{}

// Compile implements [Compiler]. Always fails without CGo.
func (GLCompiler) Compile(vertex, fragment string) (Program, error) {
	return nil, errNoCGO
}
