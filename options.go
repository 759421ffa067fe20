package main

import (
	"log"

	"github.com/stewi1014/glsnowflake/config"
	"github.com/stewi1014/glsnowflake/snowflake"
)

// glDebug enables OpenGL debug output.
var glDebug = false

func logParams(p snowflake.Params) {
	log.Printf("Branches: %v", p.Branches)
	log.Printf("Branch Angle: %v", p.OffsetAngle)
	log.Printf("Depth: %v (recursing to %v)", p.Depth, p.RecursionBound())
	log.Printf("Length: %v", p.Length)
}

// newSnowflake generates the snowflake shown in a viewport of the given height.
func newSnowflake(opts config.Options, viewportHeight int) (snowflake.Params, snowflake.Vertices, error) {
	params := opts.Params(viewportHeight)
	logParams(params)

	vertices, err := snowflake.Generate(params)
	if err != nil {
		return params, nil, err
	}
	log.Printf("generated %v segments", len(vertices)/2)
	return params, vertices, nil
}
