package snowflake

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGetImage_LineAndBackground(t *testing.T) {
	v, err := Generate(Params{Branches: 1, Depth: 0, OffsetAngle: 45, Length: 10, HonourDepth: true})
	if err != nil {
		t.Fatalf("Generate err=%v", err)
	}

	img := v.GetImage(200, 100, DefaultStyle)
	if img.Bounds() != image.Rect(-100, -50, 100, 50) {
		t.Fatalf("bounds=%v", img.Bounds())
	}

	if c := img.GetPixel(mgl32.Vec2{0.5, 0}); c.Sub(DefaultStyle.Colour).Len() > 1e-6 {
		t.Fatalf("on line=%v; want %v", c, DefaultStyle.Colour)
	}
	if c := img.GetPixel(mgl32.Vec2{0, 0.9}); c != DefaultStyle.Background {
		t.Fatalf("off line=%v; want %v", c, DefaultStyle.Background)
	}
	// the segment only runs along +x
	if c := img.GetPixel(mgl32.Vec2{-0.5, 0}); c != DefaultStyle.Background {
		t.Fatalf("behind origin=%v; want %v", c, DefaultStyle.Background)
	}
}

func TestGetImage_Empty(t *testing.T) {
	img := Vertices(nil).GetImage(10, 10, DefaultStyle)
	if c := img.GetPixel(mgl32.Vec2{}); c != DefaultStyle.Background {
		t.Fatalf("empty=%v; want background", c)
	}
}
