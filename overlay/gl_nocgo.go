//go:build tinygo || !cgo

package overlay

import "errors"

var errNoCGO = errors.New("overlay: OpenGL rendering requires CGo and is not supported on TinyGo")

// Renderer draws a [Panel] with OpenGL as a textured rectangle blended over the scene.
type Renderer struct {
	*Panel
}

// NewRenderer always fails without CGo.
func NewRenderer(p *Panel) (*Renderer, error) {
	return nil, errNoCGO
}

func (r *Renderer) Render(t Telemetry) error { return errNoCGO }

func (r *Renderer) Delete() {}
