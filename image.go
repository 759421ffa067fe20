package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gotk3/gotk3/gdk"
	"github.com/stewi1014/glsnowflake/snowflake"
)

// WrapWithProgress replaces *img with an image counting its At calls and
// returns the fraction of pixels read so far.
func WrapWithProgress(img *image.Image) func() float64 {
	p := &ProgressImage{
		Image: *img,
	}

	*img = p
	return p.Progress
}

type ProgressImage struct {
	image.Image
	count atomic.Int64
}

func (i *ProgressImage) At(x, y int) color.Color {
	i.count.Add(1)
	return i.Image.At(x, y)
}

func (i *ProgressImage) Progress() float64 {
	end := i.Bounds().Dx() * i.Bounds().Dy()
	if end == 0 {
		return 1
	}
	return float64(i.count.Load()) / float64(end)
}

func (i *ProgressImage) Opaque() bool {
	return true
}

// AntiAlias9x samples 9 positions for each sampled position,
// returning the average colour.
//
// antialias is the number of pixels apart the sampled locations are.
func AntiAlias9x(img snowflake.Image, antialias float32) snowflake.Image {
	if antialias == 0 {
		log.Println("image uselessly antialiased with distance of 0")
	}

	scaleFactor := float32(img.Bounds().Dx())
	if img.Bounds().Dy() > img.Bounds().Dx() {
		scaleFactor = float32(img.Bounds().Dy())
	}

	return &antialias9xImage{
		Image:  img,
		offset: antialias / scaleFactor,
	}
}

type antialias9xImage struct {
	snowflake.Image
	offset float32
}

func (i *antialias9xImage) GetPixel(pos mgl32.Vec2) mgl32.Vec3 {
	sum := mgl32.Vec3{}
	for _, dx := range []float32{-i.offset, 0, i.offset} {
		for _, dy := range []float32{-i.offset, 0, i.offset} {
			sum = sum.Add(i.Image.GetPixel(mgl32.Vec2{pos[0] + dx, pos[1] + dy}))
		}
	}
	return sum.Mul(1 / float32(9))
}

// BufferImage caches every pixel of img once Buffer has run.
func BufferImage(img image.Image) *BufferedImage {
	return &BufferedImage{
		Image:  img,
		height: img.Bounds().Dy(),
	}
}

type BufferedImage struct {
	image.Image
	height int
	buff   []color.Color
}

func (b *BufferedImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Image.Bounds().Dx(), b.Image.Bounds().Dy())
}

func (b *BufferedImage) At(x, y int) color.Color {
	return b.buff[x*b.height+y]
}

// Buffer reads the wrapped image in column chunks on separate goroutines.
func (b *BufferedImage) Buffer(ctx context.Context) error {
	b.buff = make([]color.Color, b.Image.Bounds().Dx()*b.Image.Bounds().Dy())

	min, max := b.Image.Bounds().Min, b.Image.Bounds().Max
	chunkSize := 32
	var wg sync.WaitGroup

	for chunkMin := min.X; chunkMin < max.X; chunkMin += chunkSize {
		chunkMin := chunkMin
		chunkMax := chunkMin + chunkSize
		if chunkMax > max.X {
			chunkMax = max.X
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			i := (chunkMin - min.X) * b.height
			for x := chunkMin; x < chunkMax; x++ {
				if ctx.Err() != nil {
					return
				}

				for y := min.Y; y < max.Y; y++ {
					b.buff[i] = b.Image.At(x, y)
					i++
				}
			}
		}()
	}

	wg.Wait()

	return ctx.Err()
}

func (b *BufferedImage) Opaque() bool {
	return true
}

// ToImage samples img at pixel centres, with y pointing down.
func ToImage(img snowflake.Image) image.Image {
	scaleFactor := img.Bounds().Dx()
	if img.Bounds().Dy() > img.Bounds().Dx() {
		scaleFactor = img.Bounds().Dy()
	}

	return &imageImage{
		Image:       img,
		scaleFactor: float32(scaleFactor) / 2,
	}
}

type imageImage struct {
	snowflake.Image
	scaleFactor float32
}

func (i *imageImage) At(x, y int) color.Color {
	c := i.GetPixel(mgl32.Vec2{
		(float32(x) + .5) / i.scaleFactor,
		-(float32(y) + .5) / i.scaleFactor,
	})

	return color.NRGBA{
		R: uint8(mgl32.Clamp(c[0], 0, 1) * 255),
		G: uint8(mgl32.Clamp(c[1], 0, 1) * 255),
		B: uint8(mgl32.Clamp(c[2], 0, 1) * 255),
		A: 0xff,
	}
}

func (i *imageImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (i *imageImage) Opaque() bool {
	return true
}

// ToPixbuf copies img into a new RGB pixbuf.
// It must be called on the GTK thread.
func ToPixbuf(img image.Image) (*gdk.Pixbuf, error) {
	bounds := img.Bounds()
	pixbuf, err := gdk.PixbufNew(gdk.COLORSPACE_RGB, false, 8, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("gdk.PixbufNew: %w", err)
	}

	pixels := pixbuf.GetPixels()
	stride := pixbuf.GetRowstride()
	channels := pixbuf.GetNChannels()

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			i := y*stride + x*channels
			pixels[i] = c.R
			pixels[i+1] = c.G
			pixels[i+2] = c.B
		}
	}

	return pixbuf, nil
}
