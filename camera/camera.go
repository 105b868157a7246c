// Package camera implements a first-person fly camera driven by discrete
// movement keys and pointer deltas.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
)

const maxPitch = math32.Pi / 2

// Motion is a set of movement directions requested for one frame.
type Motion uint8

const (
	MoveForward Motion = 1 << iota
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
)

// Has reports whether all directions in dir are set in m.
func (m Motion) Has(dir Motion) bool { return m&dir == dir }

// Pose is the camera state uploaded to the shader.
type Pose struct {
	Position ms3.Vec
	// Pitch is the rotation about the camera X axis in radians, within [-π/2, π/2].
	Pitch float32
	// Yaw is the rotation about the world Y axis in radians. Unbounded.
	Yaw float32
}

// Camera integrates movement and look input into a [Pose].
type Camera struct {
	pose Pose
}

// New returns a camera at pose p. Pitch is clamped.
func New(p Pose) *Camera {
	p.Pitch = ms1.Clamp(p.Pitch, -maxPitch, maxPitch)
	return &Camera{pose: p}
}

// Pose returns the current pose.
func (c *Camera) Pose() Pose { return c.pose }

// Integrate applies one frame of movement followed by the look delta (dx, dy)
// given in window coordinates, and returns the new pose.
func (c *Camera) Integrate(m Motion, moveSpeed, turnSpeed, dx, dy float32) Pose {
	c.Move(m, moveSpeed)
	c.Look(dx, dy, turnSpeed)
	return c.pose
}

// Move translates the camera. Up and down move along the world Y axis regardless
// of facing. Horizontal directions are combined in camera space, rotated by yaw
// plus a half turn (the scene looks down -Z at zero yaw), normalized and scaled
// by speed. Opposing directions cancel out and leave the position untouched.
func (c *Camera) Move(m Motion, speed float32) {
	if m.Has(MoveDown) {
		c.pose.Position.Y -= speed
	}
	if m.Has(MoveUp) {
		c.pose.Position.Y += speed
	}
	var local ms3.Vec
	if m.Has(MoveForward) {
		local.Z += 1
	}
	if m.Has(MoveBack) {
		local.Z -= 1
	}
	if m.Has(MoveLeft) {
		local.X -= 1
	}
	if m.Has(MoveRight) {
		local.X += 1
	}
	if local == (ms3.Vec{}) {
		return
	}
	world := rotateY(local, c.pose.Yaw+math32.Pi)
	c.pose.Position = ms3.Add(c.pose.Position, ms3.Scale(speed, ms3.Unit(world)))
}

// Look rotates the camera. Pitch follows -dy and is clamped to ±π/2, yaw follows dx.
func (c *Camera) Look(dx, dy, turnSpeed float32) {
	c.pose.Pitch = ms1.Clamp(c.pose.Pitch-turnSpeed*dy, -maxPitch, maxPitch)
	c.pose.Yaw += turnSpeed * dx
}

// ViewMatrix returns the translation to the camera position followed by the
// orientation built from (pitch, yaw, 0) Euler angles.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	p := c.pose
	orient := mgl32.HomogRotate3DY(p.Yaw).Mul4(mgl32.HomogRotate3DX(p.Pitch))
	return mgl32.Translate3D(p.Position.X, p.Position.Y, p.Position.Z).Mul4(orient)
}

func rotateY(v ms3.Vec, angle float32) ms3.Vec {
	s, c := math32.Sincos(angle)
	return ms3.Vec{
		X: c*v.X + s*v.Z,
		Y: v.Y,
		Z: -s*v.X + c*v.Z,
	}
}
