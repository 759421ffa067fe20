package scene

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/glsnowflake/snowflake"
)

func newState(t *testing.T) *RenderState {
	t.Helper()
	v, err := snowflake.Generate(snowflake.Params{Branches: 4, Depth: 1, OffsetAngle: 90, Length: 10, HonourDepth: true})
	if err != nil {
		t.Fatalf("Generate err=%v", err)
	}
	return NewRenderState(v)
}

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func nearVec(a, b []float32, tol float32) bool {
	for i := range a {
		if !near(a[i], b[i], tol) {
			return false
		}
	}
	return len(a) == len(b)
}

func TestNewRenderState(t *testing.T) {
	s := newState(t)
	if s.VertexCount() != 24 || len(s.Mesh) != 72 {
		t.Fatalf("vertices=%d mesh=%d", s.VertexCount(), len(s.Mesh))
	}
	if !s.NeedsUpload {
		t.Fatalf("fresh state not flagged for upload")
	}
	if s.Rotation != (Rotation{}) {
		t.Fatalf("rotation=%+v", s.Rotation)
	}
	if s.Colour != snowflake.Skyblue {
		t.Fatalf("colour=%v", s.Colour)
	}
}

func TestStep_RotatesAndFlagsUpload(t *testing.T) {
	s := newState(t)
	mesh := s.Mesh

	for i := 1; i <= 1000; i++ {
		s.Uploaded()
		s.Step()
		if !s.NeedsUpload {
			t.Fatalf("frame %d not flagged for upload", i)
		}
	}

	if s.Frames != 1000 {
		t.Fatalf("frames=%d", s.Frames)
	}
	want := float32(1000 * RotationIncrement)
	for name, got := range map[string]float32{"x": s.Rotation.X, "y": s.Rotation.Y, "z": s.Rotation.Z} {
		if !near(got, want, 1e-6) {
			t.Fatalf("rotation %s=%v; want %v", name, got, want)
		}
	}
	if &s.Mesh[0] != &mesh[0] {
		t.Fatalf("mesh was rebuilt")
	}
}

func TestRotation_Wraps(t *testing.T) {
	r := Rotation{X: 2*math.Pi - 0.1, Y: 0, Z: 1}.Add(0.2)
	if !near(r.X, 0.1, 1e-5) {
		t.Fatalf("x=%v; want 0.1", r.X)
	}
	if !near(r.Y, 0.2, 1e-6) || !near(r.Z, 1.2, 1e-6) {
		t.Fatalf("rotation=%+v", r)
	}

	r = Rotation{X: 0.1}.Add(-0.2)
	if r.X < 0 || !near(r.X, 2*math.Pi-0.1, 1e-5) {
		t.Fatalf("negative wrap x=%v", r.X)
	}
}

func TestAxisRotation_Apply(t *testing.T) {
	start := Rotation{X: 1, Y: 2, Z: 3}

	tcs := []struct {
		msg  AxisRotation
		want Rotation
	}{
		{AxisRotation{AxisX, 0.5}, Rotation{X: 0.5, Y: 2, Z: 3}},
		{AxisRotation{AxisY, 0.25}, Rotation{X: 1, Y: 0.25, Z: 3}},
		{AxisRotation{AxisZ, 0}, Rotation{X: 1, Y: 2, Z: 0}},
		{AxisRotation{Axis(7), 0.5}, start},
	}
	for _, tc := range tcs {
		got := tc.msg.Apply(start)
		if got != tc.want {
			t.Fatalf("%v.Apply=%+v; want %+v", tc.msg, got, tc.want)
		}
	}

	// a full turn from the slider end wraps to zero
	got := AxisRotation{AxisY, 2 * math.Pi}.Apply(start)
	if got.X != 1 || got.Z != 3 || !(got.Y < 1e-5 || got.Y > 2*math.Pi-1e-5) {
		t.Fatalf("Apply(2pi)=%+v", got)
	}
}

func TestAxisRotation_KeepsAccumulatedAxes(t *testing.T) {
	s := newState(t)
	for i := 0; i < 1000; i++ {
		s.Step()
	}
	before := s.Rotation

	s.Rotation = AxisRotation{AxisX, 1}.Apply(s.Rotation)
	if s.Rotation.X != 1 || s.Rotation.Y != before.Y || s.Rotation.Z != before.Z {
		t.Fatalf("rotation=%+v; want X=1 Y=%v Z=%v", s.Rotation, before.Y, before.Z)
	}
}

func TestRotation_Matrix(t *testing.T) {
	if !(Rotation{}).Matrix().ApproxEqual(mgl32.Ident4()) {
		t.Fatalf("zero rotation is not identity")
	}

	// quarter turn around z takes +x to +y
	v := Rotation{Z: math.Pi / 2}.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !nearVec(v[:], []float32{0, 1, 0, 1}, 1e-6) {
		t.Fatalf("rotated=%v", v)
	}
}

func TestLoop_StopAfter(t *testing.T) {
	s := newState(t)
	renders := 0
	err := NewLoop(context.Background(), s, StopAfter(10)).Run(func(*RenderState) error {
		renders++
		return nil
	})
	if err != nil {
		t.Fatalf("Run err=%v", err)
	}
	if renders != 10 || s.Frames != 10 {
		t.Fatalf("renders=%d frames=%d; want 10", renders, s.Frames)
	}
}

func TestLoop_Cancel(t *testing.T) {
	s := newState(t)
	cause := errors.New("window closed")
	ctx, cancel := context.WithCancelCause(context.Background())

	err := NewLoop(ctx, s, nil).Run(func(s *RenderState) error {
		if s.Frames == 3 {
			cancel(cause)
		}
		return nil
	})
	if !errors.Is(err, cause) {
		t.Fatalf("Run err=%v; want %v", err, cause)
	}
	if s.Frames != 3 {
		t.Fatalf("frames=%d; want 3", s.Frames)
	}
}

func TestLoop_RenderError(t *testing.T) {
	s := newState(t)
	renderErr := errors.New("context lost")
	err := NewLoop(context.Background(), s, StopAfter(100)).Run(func(*RenderState) error {
		return renderErr
	})
	if !errors.Is(err, renderErr) || s.Frames != 1 {
		t.Fatalf("err=%v frames=%d", err, s.Frames)
	}
}

func TestLoop_FrameAfterStop(t *testing.T) {
	s := newState(t)
	l := NewLoop(context.Background(), s, StopAfter(1))
	if !l.Frame() {
		t.Fatalf("first frame refused")
	}
	if l.Frame() || l.Frame() {
		t.Fatalf("frame ran after stop")
	}
	if s.Frames != 1 {
		t.Fatalf("frames=%d", s.Frames)
	}
}

func TestOrbitCamera_Start(t *testing.T) {
	c := NewOrbitCamera()
	if eye := c.Eye(); !nearVec(eye[:], []float32{0, 0, 100}, 1e-4) {
		t.Fatalf("eye=%v", c.Eye())
	}

	// the origin projects to the centre of the screen
	clip := c.Projection(1.5).Mul4(c.View()).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !near(clip.X(), 0, 1e-4) || !near(clip.Y(), 0, 1e-4) {
		t.Fatalf("clip=%v", clip)
	}
}

func TestOrbitCamera_Rotate(t *testing.T) {
	c := NewOrbitCamera()
	c.Rotate(-math.Pi/2, 0)
	c.Update()
	if eye := c.Eye(); !nearVec(eye[:], []float32{100, 0, 0}, 1e-3) {
		t.Fatalf("eye=%v", c.Eye())
	}
	if !near(c.Eye().Len(), 100, 1e-3) {
		t.Fatalf("distance=%v", c.Eye().Len())
	}

	// the polar angle never reaches a pole
	c.Rotate(0, 10)
	c.Update()
	if c.Polar != polarLimit {
		t.Fatalf("polar=%v; want %v", c.Polar, float32(polarLimit))
	}
	if eye := c.Eye(); eye.X() == 0 && eye.Z() == 0 {
		t.Fatalf("eye=%v sits on the pole", eye)
	}
}

func TestOrbitCamera_RotatePixels(t *testing.T) {
	c := NewOrbitCamera()
	c.RotatePixels(400, 0, 800)
	if !near(c.Azimuth, -math.Pi, 1e-5) {
		t.Fatalf("azimuth=%v; want -pi", c.Azimuth)
	}

	c.RotatePixels(100, 100, 0)
	if !near(c.Azimuth, -math.Pi, 1e-5) {
		t.Fatalf("zero height viewport moved the camera")
	}
}

func TestOrbitCamera_Dolly(t *testing.T) {
	c := NewOrbitCamera()
	c.ZoomIn()
	if !near(c.Distance, 95, 1e-4) {
		t.Fatalf("distance=%v", c.Distance)
	}
	c.ZoomOut()
	if !near(c.Distance, 100, 1e-3) {
		t.Fatalf("distance=%v", c.Distance)
	}

	c.Dolly(1e-6)
	if c.Distance != MinDistance {
		t.Fatalf("distance=%v; want %v", c.Distance, MinDistance)
	}
	c.Dolly(1e6)
	if c.Distance != MaxDistance {
		t.Fatalf("distance=%v; want %v", c.Distance, MaxDistance)
	}
}

func TestUniforms(t *testing.T) {
	s := newState(t)
	s.Rotation = Rotation{Z: math.Pi / 2}

	u := s.Uniforms(1600, 800)
	if !u.Model.ApproxEqual(s.Rotation.Matrix()) {
		t.Fatalf("model=%v", u.Model)
	}
	if !u.Projection.ApproxEqual(mgl32.Perspective(mgl32.DegToRad(FieldOfView), 2, Near, Far)) {
		t.Fatalf("projection=%v", u.Projection)
	}
	if u.Colour != snowflake.Skyblue {
		t.Fatalf("colour=%v", u.Colour)
	}

	// degenerate viewport falls back to a square aspect
	u = s.Uniforms(0, 0)
	if !u.Projection.ApproxEqual(mgl32.Perspective(mgl32.DegToRad(FieldOfView), 1, Near, Far)) {
		t.Fatalf("projection=%v", u.Projection)
	}
}
