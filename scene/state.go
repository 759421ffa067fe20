// Package scene holds the per-frame state of the snowflake renderer.
//
// Nothing in here talks to OpenGL, so frames can be stepped without a display.
package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/glsnowflake/snowflake"
)

// RotationIncrement is added to every rotation axis once per frame, in
// radians. It does not depend on the frame rate.
const RotationIncrement = 0.000005

// Rotation is an XYZ euler rotation in radians.
type Rotation struct {
	X, Y, Z float32
}

func (r Rotation) Matrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(r.X).
		Mul4(mgl32.HomogRotate3DY(r.Y)).
		Mul4(mgl32.HomogRotate3DZ(r.Z))
}

// Add adds d to all three axes, wrapping into [0, 2pi).
func (r Rotation) Add(d float32) Rotation {
	return Rotation{
		X: wrapAngle(r.X + d),
		Y: wrapAngle(r.Y + d),
		Z: wrapAngle(r.Z + d),
	}
}

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// AxisRotation sets a single axis, leaving the other two as they are.
type AxisRotation struct {
	Axis  Axis
	Angle float32
}

// Apply returns r with the axis replaced by the wrapped angle.
// Unknown axes leave r unchanged.
func (a AxisRotation) Apply(r Rotation) Rotation {
	angle := wrapAngle(a.Angle)
	switch a.Axis {
	case AxisX:
		r.X = angle
	case AxisY:
		r.Y = angle
	case AxisZ:
		r.Z = angle
	}
	return r
}

func wrapAngle(a float32) float32 {
	a = float32(math.Mod(float64(a), 2*math.Pi))
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Uniforms are uploaded by field tag.
type Uniforms struct {
	Model      mgl32.Mat4 `uniform:"model"`
	View       mgl32.Mat4 `uniform:"view"`
	Projection mgl32.Mat4 `uniform:"projection"`
	Colour     mgl32.Vec3 `uniform:"colour"`
}

// RenderState is everything a frame needs.
// It is built once and only ever touched from the render thread.
type RenderState struct {
	// Mesh is interleaved xyz, one segment per two vertices.
	Mesh        []float32
	NeedsUpload bool

	Rotation  Rotation
	Increment float32
	Camera    *OrbitCamera
	Colour    mgl32.Vec3

	Frames uint64
}

func NewRenderState(vertices snowflake.Vertices) *RenderState {
	return &RenderState{
		Mesh:        vertices.Float32s(),
		NeedsUpload: true,
		Increment:   RotationIncrement,
		Camera:      NewOrbitCamera(),
		Colour:      snowflake.Skyblue,
	}
}

// VertexCount is the number of vertices in Mesh.
func (s *RenderState) VertexCount() int32 {
	return int32(len(s.Mesh) / 3)
}

// Step advances one frame. The mesh is flagged for re-upload every frame
// even though it never changes.
func (s *RenderState) Step() {
	s.NeedsUpload = true
	s.Rotation = s.Rotation.Add(s.Increment)
	s.Camera.Update()
	s.Frames++
}

// Uploaded clears NeedsUpload once the mesh reached the GPU.
func (s *RenderState) Uploaded() {
	s.NeedsUpload = false
}

func (s *RenderState) Uniforms(width, height int) Uniforms {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}

	return Uniforms{
		Model:      s.Rotation.Matrix(),
		View:       s.Camera.View(),
		Projection: s.Camera.Projection(aspect),
		Colour:     s.Colour,
	}
}
