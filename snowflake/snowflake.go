// Package snowflake generates the line geometry of a recursive snowflake.
//
// The figure is planar: every vertex has z == 0. Vertices are consumed in
// pairs, each pair is an independent segment.
package snowflake

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Vertices holds segment endpoints, two per segment.
type Vertices []mgl64.Vec3

// Segment is one line primitive.
type Segment struct {
	A, B mgl64.Vec3
}

// Generate builds the full snowflake for p.
// Each call returns a fresh slice; the result only depends on p.
func Generate(p Params) (Vertices, error) {
	if err := p.Validate(); err != nil {
		return nil, &ParamsError{Op: "generate", Params: p, Err: err}
	}

	branches := make([]Vertices, p.Branches)
	var wg sync.WaitGroup
	for i := range branches {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			branches[i] = Branch(i, p)
		}()
	}
	wg.Wait()

	vertices := make(Vertices, 0, VertexCount(p))
	for _, branch := range branches {
		vertices = append(vertices, branch...)
	}
	return vertices, nil
}

// Branch returns the trunk of main branch i followed by its sub-branches.
func Branch(i int, p Params) Vertices {
	angle := BranchAngle(i, p.Branches)
	origin := mgl64.Vec3{}
	end := advance(origin, angle, p.Length)

	bound := p.RecursionBound()
	v := make(Vertices, 0, 2*SegmentsPerBranch(bound))
	v = append(v, origin, end)
	return appendSubBranch(v, end, bound, angle, p)
}

// BranchAngle is the direction, in degrees, of main branch i out of n.
func BranchAngle(i, n int) float64 {
	return 360 * float64(i) / float64(n)
}

// SubBranch applies the branching rule at pos. Nothing is emitted once depth
// drops below 1, or when depth is beyond MaxDepth.
func SubBranch(pos mgl64.Vec3, depth int, angle float64, p Params) Vertices {
	if depth < 1 || depth > MaxDepth {
		return nil
	}
	return appendSubBranch(make(Vertices, 0, 2*(SegmentsPerBranch(depth)-1)), pos, depth, angle, p)
}

// appendSubBranch appends two children at pos and recurses into each.
//
// The running angle accumulates across both children, so they point along
// angle+offset and angle+2*offset. Their own sub-branches are referenced to
// the symmetric startAngle instead.
func appendSubBranch(dst Vertices, pos mgl64.Vec3, depth int, angle float64, p Params) Vertices {
	if depth < 1 {
		return dst
	}

	startAngle := angle - p.OffsetAngle/2
	for i := 0; i < children; i++ {
		angle += p.OffsetAngle
		next := advance(pos, angle, p.Length)
		dst = append(dst, pos, next)

		dst = appendSubBranch(dst, next, depth-1, startAngle, p)
		startAngle += p.OffsetAngle
	}
	return dst
}

func advance(pos mgl64.Vec3, degrees, length float64) mgl64.Vec3 {
	rad := mgl64.DegToRad(degrees)
	return mgl64.Vec3{
		math.Cos(rad)*length + pos.X(),
		math.Sin(rad)*length + pos.Y(),
		0,
	}
}

// SegmentsPerBranch counts the trunk plus every sub-branch segment of one
// main branch recursing to depth.
func SegmentsPerBranch(depth int) int {
	if depth < 0 {
		depth = 0
	}
	return 1<<(depth+1) - 1
}

// VertexCount is len(Generate(p)) for valid p.
func VertexCount(p Params) int {
	return 2 * p.Branches * SegmentsPerBranch(p.RecursionBound())
}

func (v Vertices) Segments() []Segment {
	segments := make([]Segment, len(v)/2)
	for i := range segments {
		segments[i] = Segment{A: v[2*i], B: v[2*i+1]}
	}
	return segments
}

// Float32s interleaves xyz for a vertex buffer.
func (v Vertices) Float32s() []float32 {
	out := make([]float32, 0, len(v)*3)
	for _, p := range v {
		out = append(out, float32(p[0]), float32(p[1]), float32(p[2]))
	}
	return out
}

// Bounds returns the axis aligned box around all vertices.
func (v Vertices) Bounds() (min, max mgl64.Vec3) {
	if len(v) == 0 {
		return
	}

	min, max = v[0], v[0]
	for _, p := range v[1:] {
		for i := range p {
			min[i] = math.Min(min[i], p[i])
			max[i] = math.Max(max[i], p[i])
		}
	}
	return
}

func (s Segment) String() string {
	return fmt.Sprintf("(%.3f, %.3f)-(%.3f, %.3f)", s.A.X(), s.A.Y(), s.B.X(), s.B.Y())
}
