package snowflake

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	Skyblue    = mgl32.Vec3{135. / 255, 206. / 255, 235. / 255}
	NullColour = mgl32.Vec3{0.1, 0.1, 0.1}
)

// Image is a resolution independent picture.
// GetPixel takes positions in [-1, 1] along the longer image side.
type Image interface {
	GetPixel(mgl32.Vec2) mgl32.Vec3
	Bounds() image.Rectangle
}

type Style struct {
	Colour     mgl32.Vec3
	Background mgl32.Vec3

	// LineWidth is in pixels.
	LineWidth float64
	// Margin is the fraction of the image left empty around the figure.
	Margin float64
}

var DefaultStyle = Style{
	Colour:     Skyblue,
	Background: NullColour,
	LineWidth:  1.5,
	Margin:     0.05,
}

// GetImage rasterizes the segments on the CPU, scaled so the whole figure
// fits a width by height image centred on the origin.
func (v Vertices) GetImage(width, height int, style Style) Image {
	min, max := v.Bounds()
	extent := 0.
	for i := 0; i < 2; i++ {
		if -min[i] > extent {
			extent = -min[i]
		}
		if max[i] > extent {
			extent = max[i]
		}
	}
	if extent == 0 {
		extent = 1
	}
	extent *= 1 + style.Margin

	longest := width
	if height > longest {
		longest = height
	}

	width = width / 2
	height = height / 2

	return &segmentImage{
		segments:  v.Segments(),
		style:     style,
		extent:    extent,
		halfWidth: style.LineWidth * extent / float64(longest),
		bounds:    image.Rect(-width, -height, width, height),
	}
}

type segmentImage struct {
	segments  []Segment
	style     Style
	extent    float64
	halfWidth float64
	bounds    image.Rectangle
}

func (i *segmentImage) Bounds() image.Rectangle {
	return i.bounds
}

func (i *segmentImage) GetPixel(pos mgl32.Vec2) mgl32.Vec3 {
	p := mgl64.Vec3{float64(pos[0]) * i.extent, float64(pos[1]) * i.extent, 0}

	nearest := -1.
	for _, s := range i.segments {
		d := s.Distance(p)
		if nearest < 0 || d < nearest {
			nearest = d
		}
	}

	if nearest < 0 || nearest >= i.halfWidth {
		return i.style.Background
	}

	// linear falloff towards the line edge
	t := float32(1 - nearest/i.halfWidth)
	return i.style.Background.Mul(1 - t).Add(i.style.Colour.Mul(t))
}

// Distance is the shortest distance from p to the segment.
func (s Segment) Distance(p mgl64.Vec3) float64 {
	ab := s.B.Sub(s.A)
	lenSqr := ab.Dot(ab)
	if lenSqr == 0 {
		return p.Sub(s.A).Len()
	}

	t := mgl64.Clamp(p.Sub(s.A).Dot(ab)/lenSqr, 0, 1)
	return p.Sub(s.A.Add(ab.Mul(t))).Len()
}
