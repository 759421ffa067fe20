package snowflake

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrInvalidParameter = errors.New("invalid snowflake parameter")

// ParamsError records the parameters of the snowflake an operation failed on.
type ParamsError struct {
	Op     string
	Params Params
	Err    error
}

func (e *ParamsError) Error() string {
	return fmt.Sprintf("%s snowflake %v: %v", e.Op, e.Params, e.Err)
}

func (e *ParamsError) Unwrap() error {
	return e.Err
}

// FixedDepth bounds sub-branch recursion unless Params.HonourDepth is set.
const FixedDepth = 5

// MaxDepth is the deepest recursion Generate accepts. One branch holds
// 2^(depth+1)-1 segments, so anything deeper is too large to draw.
const MaxDepth = 16

// children is the number of sub-branches spawned by every recursive step.
const children = 2

// Params are chosen once, before generation.
//
// Branches and Depth are conventionally equal. Other combinations are valid
// but tend to overlap into an unreadable tangle.
type Params struct {
	Branches    int
	Depth       int
	OffsetAngle float64 // degrees
	Length      float64

	// HonourDepth makes Depth the recursion bound instead of FixedDepth.
	HonourDepth bool
}

func (p Params) Validate() error {
	if p.Branches < 1 {
		return fmt.Errorf("%w: branches %v < 1", ErrInvalidParameter, p.Branches)
	}
	if p.Depth < 0 {
		return fmt.Errorf("%w: depth %v < 0", ErrInvalidParameter, p.Depth)
	}
	if bound := p.RecursionBound(); bound > MaxDepth {
		return fmt.Errorf("%w: depth %v > %v", ErrInvalidParameter, bound, MaxDepth)
	}
	if !(p.Length > 0) {
		return fmt.Errorf("%w: length %v <= 0", ErrInvalidParameter, p.Length)
	}
	return nil
}

func (p Params) String() string {
	depth := fmt.Sprint(p.Depth)
	if bound := p.RecursionBound(); bound != p.Depth {
		depth = fmt.Sprintf("%v (fixed %v)", p.Depth, bound)
	}
	return fmt.Sprintf("branches=%v angle=%v° depth=%v length=%.3f", p.Branches, p.OffsetAngle, depth, p.Length)
}

// RecursionBound returns the depth the sub-branch rule actually recurses to.
func (p Params) RecursionBound() int {
	if p.HonourDepth {
		return p.Depth
	}
	return FixedDepth
}

// RandomParams picks Branches and Depth as the same integer in [3,6], an
// offset angle in [20,90] degrees, and a segment length scaled to the
// viewport height.
func RandomParams(rng *rand.Rand, viewportHeight int) Params {
	branchesAndDepth := randInt(rng, 3, 6)
	return Params{
		Branches:    branchesAndDepth,
		Depth:       branchesAndDepth,
		OffsetAngle: float64(randInt(rng, 20, 90)),
		Length:      float64(viewportHeight) / 120,
	}
}

// randInt returns an int in [min, max].
func randInt(rng *rand.Rand, min, max int) int {
	return min + rng.Intn(max-min+1)
}
