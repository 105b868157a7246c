// Package overlay draws the telemetry panel shown over the rendered scene and
// implements the input capture rules of a minimal immediate-mode UI: the panel
// claims the pointer while hovered or dragged.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/sdfview/input"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Telemetry is the read-only state displayed every frame.
type Telemetry struct {
	Frame    uint64
	Time     float64 // Seconds since start.
	Delta    float64 // Seconds since last frame.
	Position ms3.Vec
	Pitch    float32
	Yaw      float32
	Mode     input.Mode
	// Generation counts successfully installed shader programs.
	Generation int
	// Diagnostic holds the last shader error, empty when the last reload succeeded.
	Diagnostic string
}

// Lines formats the telemetry as the panel's text lines.
func (t Telemetry) Lines() []string {
	lines := []string{
		fmt.Sprintf("Frame: %d", t.Frame),
		fmt.Sprintf("Time: %.3f", t.Time),
		fmt.Sprintf("Frametime: %.3f", t.Delta),
		fmt.Sprintf("Pos: %.3f, %.3f, %.3f", t.Position.X, t.Position.Y, t.Position.Z),
		fmt.Sprintf("View(pitch,yaw): %.3f, %.3f", t.Pitch, t.Yaw),
		fmt.Sprintf("Input: %s", t.Mode),
	}
	if t.Generation == 0 {
		lines = append(lines, "Shader: none")
	} else {
		lines = append(lines, fmt.Sprintf("Shader: #%d", t.Generation))
	}
	if t.Diagnostic != "" {
		diag, _, _ := strings.Cut(strings.TrimSpace(t.Diagnostic), "\n")
		lines = append(lines, "Error: "+diag)
	}
	return lines
}

// Config configures a [Panel].
type Config struct {
	// TTF is a TrueType font file. If nil Go Mono is used.
	TTF []byte
	// FontSize in points at 72 DPI. If zero 14 is used.
	FontSize float64
	// Padding around text in pixels. If zero 6 is used.
	Padding int
	// Background is the panel color. If nil translucent black is used.
	Background color.Color
	// Foreground is the text color. If nil white is used.
	Foreground color.Color
}

// Panel rasterizes telemetry text and tracks pointer capture. Its image is
// anchored at the top-left corner of the window.
type Panel struct {
	face    font.Face
	ctx     *freetype.Context
	size    float64
	pad     int
	bg, fg  image.Image
	visible bool

	// Window size in pixels.
	width, height int
	// Pointer state in window pixel coordinates.
	px, py   float32
	dragging bool
	bounds   image.Rectangle
	img      *image.RGBA
}

var _ input.Overlay = (*Panel)(nil)

// NewPanel parses the configured font and returns a visible panel.
func NewPanel(cfg Config) (*Panel, error) {
	ttf := cfg.TTF
	if ttf == nil {
		ttf = gomono.TTF
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("overlay: parsing font: %w", err)
	}
	p := &Panel{
		size:    cfg.FontSize,
		pad:     cfg.Padding,
		visible: true,
		bg:      image.NewUniform(color.RGBA{A: 128}),
		fg:      image.White,
	}
	if p.size == 0 {
		p.size = 14
	}
	if p.pad == 0 {
		p.pad = 6
	}
	if cfg.Background != nil {
		p.bg = image.NewUniform(cfg.Background)
	}
	if cfg.Foreground != nil {
		p.fg = image.NewUniform(cfg.Foreground)
	}
	p.face = truetype.NewFace(f, &truetype.Options{Size: p.size, DPI: 72, Hinting: font.HintingFull})
	p.ctx = freetype.NewContext()
	p.ctx.SetDPI(72)
	p.ctx.SetFont(f)
	p.ctx.SetFontSize(p.size)
	p.ctx.SetHinting(font.HintingFull)
	p.ctx.SetSrc(p.fg)
	return p, nil
}

// Visible reports whether the panel is drawn.
func (p *Panel) Visible() bool { return p.visible }

// SetVisible shows or hides the panel. A hidden panel never captures input.
func (p *Panel) SetVisible(v bool) {
	p.visible = v
	if !v {
		p.dragging = false
	}
}

// Bounds returns the window-space rectangle covered by the last rasterized panel.
func (p *Panel) Bounds() image.Rectangle { return p.bounds }

// Resize records the window size in pixels.
func (p *Panel) Resize(width, height int) {
	p.width, p.height = width, height
}

// Size returns the window size set by Resize.
func (p *Panel) Size() (width, height int) { return p.width, p.height }

func (p *Panel) hovered() bool {
	pt := image.Pt(int(p.px), int(p.py))
	return pt.In(p.bounds)
}

// WantCaptureMouse reports whether the pointer is over the panel or a drag
// started on it is still in progress.
func (p *Panel) WantCaptureMouse() bool {
	return p.visible && (p.dragging || p.hovered())
}

// WantCaptureKeyboard is always false: the panel has no text inputs.
func (p *Panel) WantCaptureKeyboard() bool { return false }

// KeyEvent toggles visibility on F1.
func (p *Panel) KeyEvent(k input.Key, a input.Action) {
	if k == input.KeyF1 && a == input.Press {
		p.SetVisible(!p.visible)
	}
}

func (p *Panel) PointerMove(x, y float32) { p.px, p.py = x, y }

func (p *Panel) PointerButton(x, y float32, button int, pressed bool) {
	p.px, p.py = x, y
	if !pressed {
		p.dragging = false
	} else if p.visible && p.hovered() {
		p.dragging = true
	}
}

func (p *Panel) Scroll(dx, dy float32) {}

func (p *Panel) Char(r rune) {}

// Rasterize draws t into the panel image and returns it. The returned image is
// reused by the next call. Rasterize returns nil when the panel is hidden.
func (p *Panel) Rasterize(t Telemetry) (*image.RGBA, error) {
	if !p.visible {
		p.bounds = image.Rectangle{}
		return nil, nil
	}
	lines := t.Lines()
	metrics := p.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	textWidth := 0
	for _, line := range lines {
		textWidth = max(textWidth, font.MeasureString(p.face, line).Ceil())
	}
	w := textWidth + 2*p.pad
	h := len(lines)*lineHeight + 2*p.pad
	rect := image.Rect(0, 0, w, h)
	if p.img == nil || p.img.Rect != rect {
		p.img = image.NewRGBA(rect)
	}
	draw.Draw(p.img, rect, p.bg, image.Point{}, draw.Src)
	p.ctx.SetDst(p.img)
	p.ctx.SetClip(rect)
	for i, line := range lines {
		pt := freetype.Pt(p.pad, p.pad+ascent+i*lineHeight)
		_, err := p.ctx.DrawString(line, pt)
		if err != nil {
			return nil, fmt.Errorf("overlay: drawing %q: %w", line, err)
		}
	}
	p.bounds = rect
	return p.img, nil
}
