package overlay

import (
	"image"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/sdfview/input"
)

func TestTelemetryLines(t *testing.T) {
	tl := Telemetry{
		Frame:      42,
		Time:       1.23456,
		Delta:      0.016,
		Position:   ms3.Vec{X: -0.166, Y: 2.6, Z: -1.945},
		Pitch:      -0.435,
		Yaw:        3.487,
		Mode:       input.ModeCamera,
		Generation: 2,
		Diagnostic: "0:3(1): error: syntax error\nmore detail",
	}
	got := strings.Join(tl.Lines(), "\n")
	for _, want := range []string{
		"Frame: 42",
		"Time: 1.235",
		"Frametime: 0.016",
		"Pos: -0.166, 2.600, -1.945",
		"View(pitch,yaw): -0.435, 3.487",
		"Input: camera",
		"Shader: #2",
		"Error: 0:3(1): error: syntax error",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in\n%s", want, got)
		}
	}
	if strings.Contains(got, "more detail") {
		t.Error("only the first diagnostic line should be shown")
	}
	if lines := (Telemetry{}).Lines(); lines[len(lines)-1] != "Shader: none" {
		t.Errorf("no program: last line %q", lines[len(lines)-1])
	}
}

func TestPanelRasterize(t *testing.T) {
	p, err := NewPanel(Config{})
	if err != nil {
		t.Fatal(err)
	}
	img, err := p.Rasterize(Telemetry{Frame: 1})
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Dx() < 20 || img.Rect.Dy() < 20 {
		t.Fatalf("panel too small: %v", img.Rect)
	}
	if p.Bounds() != img.Rect {
		t.Error("bounds not updated by rasterize")
	}
	bright := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 200 {
			bright++
		}
	}
	if bright == 0 {
		t.Error("no text pixels drawn")
	}
	// Background is translucent.
	if a := img.RGBAAt(0, 0).A; a != 128 {
		t.Errorf("corner alpha %d, want 128", a)
	}
	// A longer diagnostic widens the panel.
	narrow := img.Rect
	wide, err := p.Rasterize(Telemetry{Diagnostic: strings.Repeat("x", 80)})
	if err != nil {
		t.Fatal(err)
	}
	if wide.Rect.Dx() <= narrow.Dx() || wide.Rect.Dy() <= narrow.Dy() {
		t.Error("panel did not grow")
	}
}

func TestPanelCapture(t *testing.T) {
	p, err := NewPanel(Config{})
	if err != nil {
		t.Fatal(err)
	}
	p.Resize(800, 800)
	if _, err = p.Rasterize(Telemetry{}); err != nil {
		t.Fatal(err)
	}
	b := p.Bounds()
	inside := b.Min.Add(image.Pt(2, 2))
	p.PointerMove(float32(inside.X), float32(inside.Y))
	if !p.WantCaptureMouse() {
		t.Error("hovered panel must capture mouse")
	}
	p.PointerButton(float32(inside.X), float32(inside.Y), 0, true)
	p.PointerMove(700, 700)
	if !p.WantCaptureMouse() {
		t.Error("drag started on panel must keep capturing")
	}
	p.PointerButton(700, 700, 0, false)
	if p.WantCaptureMouse() {
		t.Error("released pointer outside panel must not capture")
	}
	p.PointerButton(700, 700, 0, true)
	if p.WantCaptureMouse() {
		t.Error("press outside panel must not capture")
	}
	if p.WantCaptureKeyboard() {
		t.Error("panel never captures keyboard")
	}
}

func TestPanelToggle(t *testing.T) {
	p, err := NewPanel(Config{})
	if err != nil {
		t.Fatal(err)
	}
	p.Rasterize(Telemetry{})
	p.PointerMove(1, 1)
	p.KeyEvent(input.KeyF1, input.Press)
	if p.Visible() {
		t.Fatal("F1 did not hide panel")
	}
	if p.WantCaptureMouse() {
		t.Error("hidden panel captured mouse")
	}
	img, err := p.Rasterize(Telemetry{})
	if img != nil || err != nil {
		t.Error("hidden panel rasterized")
	}
	p.KeyEvent(input.KeyF1, input.Release)
	p.KeyEvent(input.KeyF1, input.Press)
	if !p.Visible() {
		t.Error("F1 did not show panel again")
	}
}

func TestPanelBadFont(t *testing.T) {
	_, err := NewPanel(Config{TTF: []byte("not a font")})
	if err == nil {
		t.Error("expected font parse error")
	}
}
