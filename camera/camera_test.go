package camera

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
)

const tol = 1e-5

func vecEqual(a, b ms3.Vec) bool {
	return ms3.Norm(ms3.Sub(a, b)) < tol
}

// matEqual compares element-wise with an absolute tolerance. Relative
// comparisons fail on entries that are exactly zero on one side only.
func matEqual(a, b mgl32.Mat4, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestMoveOpposingKeysCancel(t *testing.T) {
	start := Pose{Position: ms3.Vec{X: -0.166, Y: 2.6, Z: -1.945}, Pitch: -0.435, Yaw: 3.487}
	for _, m := range []Motion{
		MoveLeft | MoveRight,
		MoveForward | MoveBack,
		MoveForward | MoveBack | MoveLeft | MoveRight,
		MoveUp | MoveDown,
	} {
		c := New(start)
		got := c.Integrate(m, 0.05, 0.015, 0, 0)
		if got.Position != start.Position {
			t.Errorf("motion %06b moved camera from %v to %v", m, start.Position, got.Position)
		}
	}
}

func TestMoveVerticalIgnoresFacing(t *testing.T) {
	for _, yaw := range []float32{0, 1, math32.Pi, -7} {
		c := New(Pose{Yaw: yaw, Pitch: 0.3})
		c.Move(MoveUp, 0.5)
		if !vecEqual(c.Pose().Position, ms3.Vec{Y: 0.5}) {
			t.Errorf("yaw %v: up moved to %v", yaw, c.Pose().Position)
		}
		c.Move(MoveDown, 0.25)
		if !vecEqual(c.Pose().Position, ms3.Vec{Y: 0.25}) {
			t.Errorf("yaw %v: down moved to %v", yaw, c.Pose().Position)
		}
	}
}

func TestMoveHorizontal(t *testing.T) {
	const speed = 0.05
	c := New(Pose{})
	c.Move(MoveForward, speed)
	// Zero yaw plus half turn: forward points down -Z.
	if !vecEqual(c.Pose().Position, ms3.Vec{Z: -speed}) {
		t.Errorf("forward at zero yaw: got %v", c.Pose().Position)
	}
	c = New(Pose{})
	c.Move(MoveRight, speed)
	if !vecEqual(c.Pose().Position, ms3.Vec{X: -speed}) {
		t.Errorf("right at zero yaw: got %v", c.Pose().Position)
	}
	c = New(Pose{Yaw: math32.Pi / 2})
	c.Move(MoveForward, speed)
	if !vecEqual(c.Pose().Position, ms3.Vec{X: -speed}) {
		t.Errorf("forward at yaw π/2: got %v", c.Pose().Position)
	}
	// Diagonal movement is normalized.
	c = New(Pose{Yaw: 0.7})
	c.Move(MoveForward|MoveLeft, speed)
	if d := ms3.Norm(c.Pose().Position); math32.Abs(d-speed) > tol {
		t.Errorf("diagonal step length %v, want %v", d, speed)
	}
	if c.Pose().Position.Y != 0 {
		t.Error("horizontal movement changed height")
	}
}

func TestLookPitchClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := New(Pose{Pitch: 10})
	if c.Pose().Pitch != math32.Pi/2 {
		t.Fatalf("constructor did not clamp pitch: %v", c.Pose().Pitch)
	}
	for i := 0; i < 10000; i++ {
		dx := float32(rng.NormFloat64() * 200)
		dy := float32(rng.NormFloat64() * 200)
		c.Look(dx, dy, 0.015)
		p := c.Pose().Pitch
		if p < -math32.Pi/2 || p > math32.Pi/2 {
			t.Fatalf("iteration %d: pitch %v out of range", i, p)
		}
	}
}

func TestLookYawUnbounded(t *testing.T) {
	const turn = 0.015
	c := New(Pose{})
	c.Look(10, 0, turn)
	if got := c.Pose().Yaw; math32.Abs(got-turn*10) > tol {
		t.Fatalf("yaw=%v, want %v", got, turn*10)
	}
	if c.Pose().Pitch != 0 {
		t.Error("horizontal pointer motion changed pitch")
	}
	c.Look(0, -10, turn)
	if got := c.Pose().Pitch; math32.Abs(got-turn*10) > tol {
		t.Errorf("pitch=%v, want %v", got, turn*10)
	}

	base := New(Pose{Pitch: 0.2, Yaw: 0.5})
	wrapped := New(Pose{Pitch: 0.2, Yaw: 0.5})
	for i := 0; i < 100; i++ {
		// Total of exactly 2π split into steps.
		wrapped.Look(2*math32.Pi/100/turn, 0, turn)
	}
	if wrapped.Pose().Yaw < 2*math32.Pi {
		t.Fatalf("yaw was wrapped or clamped: %v", wrapped.Pose().Yaw)
	}
	if !matEqual(base.ViewMatrix(), wrapped.ViewMatrix(), 1e-3) {
		t.Error("view matrix not periodic in yaw")
	}
}

func TestViewMatrix(t *testing.T) {
	p := Pose{Position: ms3.Vec{X: -0.166, Y: 2.6, Z: -1.945}, Pitch: -0.435, Yaw: 3.487}
	c := New(p)
	got := c.ViewMatrix()
	q := mgl32.QuatRotate(p.Yaw, mgl32.Vec3{0, 1, 0}).Mul(mgl32.QuatRotate(p.Pitch, mgl32.Vec3{1, 0, 0}))
	want := mgl32.Translate3D(p.Position.X, p.Position.Y, p.Position.Z).Mul4(q.Mat4())
	if !matEqual(got, want, tol) {
		t.Errorf("view matrix mismatch\ngot  %v\nwant %v", got, want)
	}
	// Translation lives in the last column and is not rotated.
	col := got.Col(3)
	if !col.ApproxEqual(mgl32.Vec4{p.Position.X, p.Position.Y, p.Position.Z, 1}) {
		t.Errorf("translation column %v", col)
	}
	identity := New(Pose{}).ViewMatrix()
	if !matEqual(identity, mgl32.Ident4(), tol) {
		t.Error("zero pose must give identity view matrix")
	}
}

func TestMatEqualNearZero(t *testing.T) {
	a := mgl32.Ident4()
	b := a
	b[1] = -7.45e-9
	if !matEqual(a, b, tol) {
		t.Error("tiny difference against an exact zero rejected")
	}
	b[1] = 0.01
	if matEqual(a, b, tol) {
		t.Error("large difference accepted")
	}
}
