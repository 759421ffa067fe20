package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	FieldOfView = 75 // degrees
	Near        = 0.1
	Far         = 1000

	StartDistance = 100
	MinDistance   = 1
	MaxDistance   = 1000

	// ZoomScale is the dolly factor of one scroll step.
	ZoomScale = 0.95

	polarLimit = 1e-3
)

// OrbitCamera orbits a target at a given distance.
// Polar is measured from +Y, Azimuth around +Y starting at +Z.
type OrbitCamera struct {
	Target   mgl32.Vec3
	Distance float32
	Azimuth  float32
	Polar    float32

	eye mgl32.Vec3
}

// NewOrbitCamera returns a camera at (0, 0, 100) looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		Distance: StartDistance,
		Polar:    math.Pi / 2,
	}
	c.Update()
	return c
}

// Rotate orbits by dAzimuth and dPolar radians.
func (c *OrbitCamera) Rotate(dAzimuth, dPolar float32) {
	c.Azimuth -= dAzimuth
	c.Polar = mgl32.Clamp(c.Polar-dPolar, polarLimit, math.Pi-polarLimit)
}

// RotatePixels orbits by a pointer drag of dx, dy pixels; dragging the
// full viewport height turns a full circle.
func (c *OrbitCamera) RotatePixels(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	h := float32(viewportHeight)
	c.Rotate(2*math.Pi*dx/h, 2*math.Pi*dy/h)
}

// Dolly scales the distance to the target.
func (c *OrbitCamera) Dolly(scale float32) {
	c.Distance = mgl32.Clamp(c.Distance*scale, MinDistance, MaxDistance)
}

func (c *OrbitCamera) ZoomIn() {
	c.Dolly(ZoomScale)
}

func (c *OrbitCamera) ZoomOut() {
	c.Dolly(1 / ZoomScale)
}

// Update recomputes the eye position.
func (c *OrbitCamera) Update() {
	sinPolar := float32(math.Sin(float64(c.Polar)))
	offset := mgl32.Vec3{
		sinPolar * float32(math.Sin(float64(c.Azimuth))),
		float32(math.Cos(float64(c.Polar))),
		sinPolar * float32(math.Cos(float64(c.Azimuth))),
	}.Mul(c.Distance)
	c.eye = c.Target.Add(offset)
}

func (c *OrbitCamera) Eye() mgl32.Vec3 {
	return c.eye
}

func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.eye, c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *OrbitCamera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(FieldOfView), aspect, Near, Far)
}
