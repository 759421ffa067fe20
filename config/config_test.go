package config

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/stewi1014/glsnowflake/snowflake"
)

func parse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := Parse(args, io.Discard)
	if err != nil {
		t.Fatalf("Parse(%q) err=%v", args, err)
	}
	return opts
}

func TestParams_Random(t *testing.T) {
	p := parse(t, "-seed", "7").Params(960)

	if p.Branches < 3 || p.Branches > 6 || p.Depth != p.Branches {
		t.Fatalf("branches=%v depth=%v", p.Branches, p.Depth)
	}
	if p.OffsetAngle < 20 || p.OffsetAngle > 90 {
		t.Fatalf("angle=%v", p.OffsetAngle)
	}
	if p.Length != 8 {
		t.Fatalf("length=%v; want 8", p.Length)
	}
	if p.HonourDepth {
		t.Fatalf("HonourDepth set by default")
	}

	if again := parse(t, "-seed", "7").Params(960); again != p {
		t.Fatalf("same seed gave %+v then %+v", p, again)
	}
}

func TestParams_ExplicitZeroDepth(t *testing.T) {
	p := parse(t, "-seed", "3", "-depth", "0", "-honour-depth").Params(960)
	if p.Depth != 0 || p.RecursionBound() != 0 {
		t.Fatalf("depth=%v bound=%v; want 0", p.Depth, p.RecursionBound())
	}

	v, err := snowflake.Generate(p)
	if err != nil {
		t.Fatalf("Generate err=%v", err)
	}
	if len(v) != 2*p.Branches {
		t.Fatalf("len=%d; want trunks only (%d)", len(v), 2*p.Branches)
	}
}

func TestParams_ExplicitZeroAngle(t *testing.T) {
	p := parse(t, "-seed", "3", "-angle", "0").Params(960)
	if p.OffsetAngle != 0 {
		t.Fatalf("angle=%v; want 0", p.OffsetAngle)
	}
}

func TestParams_Overrides(t *testing.T) {
	p := parse(t, "-seed", "1", "-branches", "8", "-angle", "45", "-length", "2.5").Params(960)
	want := snowflake.Params{Branches: 8, Depth: 8, OffsetAngle: 45, Length: 2.5}
	if p != want {
		t.Fatalf("params=%+v; want %+v", p, want)
	}

	p = parse(t, "-seed", "1", "-branches", "8", "-depth", "2").Params(960)
	if p.Branches != 8 || p.Depth != 2 {
		t.Fatalf("branches=%v depth=%v; want 8 2", p.Branches, p.Depth)
	}
}

func TestParse_Flags(t *testing.T) {
	opts := parse(t, "-glfw", "-debug", "-honour-depth")
	if !opts.GLFW || !opts.Debug || !opts.HonourDepth {
		t.Fatalf("opts=%+v", opts)
	}
	if opts.IsSet("depth") || !opts.IsSet("glfw") {
		t.Fatalf("IsSet depth=%v glfw=%v", opts.IsSet("depth"), opts.IsSet("glfw"))
	}

	// options that were never parsed pick everything at random
	if (Options{}).IsSet("branches") {
		t.Fatalf("zero Options reports branches as set")
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]string{"-h"}, io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("-h err=%v; want flag.ErrHelp", err)
	}

	_, err = Parse([]string{"-depth", "deep"}, io.Discard)
	if err == nil {
		t.Fatalf("-depth deep parsed without error")
	}
}
