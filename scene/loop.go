package scene

import (
	"context"
)

// StopFunc reports whether the loop should end before the next frame.
type StopFunc func(s *RenderState) bool

// StopAfter stops once n frames have been stepped.
func StopAfter(n uint64) StopFunc {
	return func(s *RenderState) bool {
		return s.Frames >= n
	}
}

// Loop steps a RenderState until its context is done or Stop fires.
type Loop struct {
	ctx   context.Context
	State *RenderState
	Stop  StopFunc
}

func NewLoop(ctx context.Context, state *RenderState, stop StopFunc) *Loop {
	return &Loop{
		ctx:   ctx,
		State: state,
		Stop:  stop,
	}
}

// Frame steps the state once. It returns false without stepping when the
// loop is over, which also makes it usable as a toolkit timer callback.
func (l *Loop) Frame() bool {
	if l.ctx.Err() != nil {
		return false
	}
	if l.Stop != nil && l.Stop(l.State) {
		return false
	}

	l.State.Step()
	return true
}

// Run calls render after every frame until the loop is over.
// It returns the first render error, or the context's cause if it was
// cancelled.
func (l *Loop) Run(render func(*RenderState) error) error {
	for l.Frame() {
		if err := render(l.State); err != nil {
			return err
		}
	}
	return context.Cause(l.ctx)
}
