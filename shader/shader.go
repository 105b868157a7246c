// Package shader manages the hot-swappable GL program that renders the SDF scene.
// A fixed passthrough vertex stage is linked against a reloadable fragment stage.
// A failed compile never disturbs the program currently in use.
package shader

import (
	"errors"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// VertexSource is the fixed vertex stage. It passes the full-screen triangle
// vertex positions through untouched.
const VertexSource = `#version 460
in vec2 position;
void main()
{
    gl_Position = vec4(position, 0.0, 1.0);
}
`

// Uniform and attribute names making up the interface between the viewer
// and the fragment shader.
const (
	UniformViewMatrix = "view_matrix"
	UniformResolution = "resolution"
	UniformEpsilon    = "epsilon"
	UniformFOV        = "fov"
	UniformMaxSteps   = "max_steps"
	// Optional uniforms. Most scenes ignore them.
	UniformTime  = "time"
	UniformFrame = "frame"

	AttribPosition = "position"
)

// Program is a linked GL program. Uniform setters report whether the uniform
// exists in the program: writing to an absent uniform does nothing.
type Program interface {
	// Bind makes the program current.
	Bind()
	SetMat4(name string, m *mgl32.Mat4) bool
	SetVec2(name string, x, y float32) bool
	SetFloat(name string, v float32) bool
	SetInt(name string, v int32) bool
	// AttribLocation returns the location of a vertex attribute.
	AttribLocation(name string) (uint32, bool)
	// Delete releases the GPU resources of the program.
	Delete()
}

// Compiler compiles and links a vertex and fragment stage into a Program.
type Compiler interface {
	Compile(vertex, fragment string) (Program, error)
}

// CompileError holds the driver diagnostic of a failed compile or link.
type CompileError struct {
	Log string
}

func (e *CompileError) Error() string {
	return "shader: " + strings.TrimRight(e.Log, "\x00\n ")
}

// Manager owns the active Program. The zero value is not usable, see [NewManager].
type Manager struct {
	compiler Compiler
	active   Program
	gen      int
	lastErr  error
	log      *zap.Logger
}

// NewManager returns a Manager with no active program. log may be nil.
func NewManager(c Compiler, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{compiler: c, log: log}
}

// Reload compiles fragment against [VertexSource]. On success the previously
// active program is deleted and replaced. On failure the active program is left
// untouched and a *CompileError describing the failure is returned.
func (m *Manager) Reload(fragment string) error {
	if strings.TrimSpace(fragment) == "" {
		return m.fail(&CompileError{Log: "empty fragment source"})
	}
	prog, err := m.compiler.Compile(VertexSource, fragment)
	if err != nil {
		var cerr *CompileError
		if !errors.As(err, &cerr) {
			cerr = &CompileError{Log: err.Error()}
		}
		return m.fail(cerr)
	} else if prog == nil {
		return m.fail(&CompileError{Log: "compiler returned nil program"})
	}
	if m.active != nil {
		m.active.Delete()
	}
	m.active = prog
	m.gen++
	m.lastErr = nil
	m.log.Info("shader program installed", zap.Int("generation", m.gen))
	return nil
}

func (m *Manager) fail(err *CompileError) error {
	m.lastErr = err
	m.log.Warn("shader reload failed, keeping previous program",
		zap.Bool("has_active", m.active != nil),
		zap.String("diagnostic", err.Log),
	)
	return err
}

// Active returns the program in use or nil if no compile has succeeded yet.
func (m *Manager) Active() Program { return m.active }

// Generation counts successful reloads.
func (m *Manager) Generation() int { return m.gen }

// LastError returns the error of the most recent reload or nil if it succeeded.
func (m *Manager) LastError() error { return m.lastErr }

// Release deletes the active program. Calling Release more than once is a no-op.
func (m *Manager) Release() {
	if m.active == nil {
		return
	}
	m.active.Delete()
	m.active = nil
	m.log.Debug("shader program released")
}
