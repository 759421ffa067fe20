// Package config turns command line flags into snowflake parameters.
package config

import (
	"flag"
	"io"
	"math/rand"
	"time"

	"github.com/stewi1014/glsnowflake/snowflake"
)

// Options come from the command line. Parameters that were not given on the
// command line are picked at random.
type Options struct {
	Seed        int64
	Branches    int
	Depth       int
	OffsetAngle float64
	Length      float64
	HonourDepth bool

	GLFW  bool
	Debug bool

	// set holds the names of flags given explicitly.
	set map[string]bool
}

func Parse(args []string, output io.Writer) (Options, error) {
	opts := Options{
		set: make(map[string]bool),
	}

	fs := flag.NewFlagSet("glsnowflake", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Int64Var(&opts.Seed, "seed", 0, "random seed, 0 uses the current time")
	fs.IntVar(&opts.Branches, "branches", 0, "number of main branches")
	fs.IntVar(&opts.Depth, "depth", 0, "recursion depth, defaults to the branch count")
	fs.Float64Var(&opts.OffsetAngle, "angle", 0, "offset angle between sub-branches in degrees")
	fs.Float64Var(&opts.Length, "length", 0, "segment length, defaults to viewport height / 120")
	fs.BoolVar(&opts.HonourDepth, "honour-depth", false, "bound recursion by -depth instead of the fixed depth")
	fs.BoolVar(&opts.GLFW, "glfw", false, "render in a plain GLFW window without the config window")
	fs.BoolVar(&opts.Debug, "debug", false, "enable OpenGL debug output")

	err := fs.Parse(args)
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	return opts, err
}

// IsSet reports whether the named flag was given on the command line.
func (o Options) IsSet(name string) bool {
	return o.set[name]
}

// Params picks random parameters for the given viewport and applies any
// explicit flags. Depth follows an explicit branch count unless it is also
// given.
func (o Options) Params(viewportHeight int) snowflake.Params {
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	p := snowflake.RandomParams(rand.New(rand.NewSource(seed)), viewportHeight)
	if o.IsSet("branches") {
		p.Branches = o.Branches
		p.Depth = o.Branches
	}
	if o.IsSet("depth") {
		p.Depth = o.Depth
	}
	if o.IsSet("angle") {
		p.OffsetAngle = o.OffsetAngle
	}
	if o.IsSet("length") {
		p.Length = o.Length
	}
	p.HonourDepth = o.HonourDepth
	return p
}
