package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glsnowflake/scene"
	"github.com/stewi1014/glsnowflake/snowflake"
)

func NewRenderWindow(
	app *gtk.Application,
	ctx context.Context,
	quit context.CancelCauseFunc,
	conn net.Conn,
	state *scene.RenderState,
	params snowflake.Params,
) *RenderWindow {
	var err error
	w := &RenderWindow{
		state:       state,
		params:      params,
		sendMessage: make(chan interface{}, 1),
	}
	w.ctx, w.fail = context.WithCancelCause(ctx)

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}
	AttachErrorDialog(w.ApplicationWindow, w.ctx)
	w.SetDefaultSize(getWindowSize())

	w.gla, err = gtk.GLAreaNew()
	if err != nil {
		quit(fmt.Errorf("gtk.GLAreaNew: %w", err))
		return nil
	}

	w.gla.SetRequiredVersion(4, 6)
	w.gla.Connect("realize", w.glaRealize)
	w.gla.Connect("render", w.glaRender)
	w.gla.Connect("unrealize", w.glaUnrealize)
	w.gla.Connect("resize", w.resize)

	w.gla.SetEvents(
		int(gdk.BUTTON_PRESS_MASK) |
			int(gdk.BUTTON_RELEASE_MASK) |
			int(gdk.POINTER_MOTION_MASK) |
			int(gdk.SCROLL_MASK),
	)
	w.gla.Connect("button-press-event", w.button)
	w.gla.Connect("button-release-event", w.button)
	w.gla.Connect("motion-notify-event", w.motion)
	w.gla.Connect("scroll-event", w.scroll)

	w.Add(w.gla)
	w.ShowAll()

	handleConn(w.ctx, quit, conn, w.sendMessage, w.receive)

	return w
}

// RenderWindow shows the snowflake in a GLArea and drives the frame loop.
type RenderWindow struct {
	*gtk.ApplicationWindow
	gla *gtk.GLArea

	// fail stops rendering and reports the cause without closing the app.
	ctx  context.Context
	fail context.CancelCauseFunc

	state    *scene.RenderState
	params   snowflake.Params
	renderer *Renderer
	loop     *scene.Loop

	dragging bool
	dragPos  mgl32.Vec2
	width    int
	height   int

	sendMessage chan interface{}
}

func (w *RenderWindow) glaRealize(gla *gtk.GLArea) {
	gla.MakeCurrent()

	var err error
	w.renderer, err = NewRenderer(w.width, w.height)
	if err != nil {
		w.fail(&snowflake.ParamsError{Op: "render", Params: w.params, Err: err})
		return
	}

	// one step per frame clock tick, which follows the display refresh
	w.loop = scene.NewLoop(w.ctx, w.state, nil)
	gla.AddTickCallback(func(widget *gtk.Widget, frameClock *gdk.FrameClock) bool {
		if !w.loop.Frame() {
			return false
		}
		w.gla.QueueRender()
		return true
	})

	select {
	case w.sendMessage <- &w.params:
	default:
		log.Println("config window is not keeping up, parameters not sent")
	}
}

func (w *RenderWindow) glaRender(gla *gtk.GLArea) bool {
	if w.renderer == nil {
		return false
	}

	gla.AttachBuffers()
	w.renderer.Draw(w.state)
	return true
}

func (w *RenderWindow) glaUnrealize(gla *gtk.GLArea) {
	w.fail(nil)
	if w.renderer == nil {
		return
	}

	gla.MakeCurrent()
	w.renderer.Delete()
	w.renderer = nil
}

func (w *RenderWindow) resize(gla *gtk.GLArea, width, height int) {
	w.width, w.height = width, height
	if w.renderer != nil {
		w.renderer.Resize(width, height)
	}
}

func (w *RenderWindow) button(gla *gtk.GLArea, event *gdk.Event) {
	button := gdk.EventButtonNewFromEvent(event)
	if button.Button() != gdk.BUTTON_PRIMARY {
		return
	}

	switch button.Type() {
	case gdk.EVENT_BUTTON_PRESS:
		w.dragging = true
		w.dragPos = mgl32.Vec2{float32(button.X()), float32(button.Y())}
	case gdk.EVENT_BUTTON_RELEASE:
		w.dragging = false
	}
}

func (w *RenderWindow) motion(gla *gtk.GLArea, event *gdk.Event) {
	if !w.dragging {
		return
	}

	x, y := gdk.EventMotionNewFromEvent(event).MotionVal()
	pos := mgl32.Vec2{float32(x), float32(y)}
	d := pos.Sub(w.dragPos)
	w.dragPos = pos

	w.state.Camera.RotatePixels(d.X(), d.Y(), gla.GetAllocatedHeight())
	gla.QueueRender()
}

func (w *RenderWindow) scroll(gla *gtk.GLArea, event *gdk.Event) {
	scroll := gdk.EventScrollNewFromEvent(event)

	switch scroll.Direction() {
	case gdk.SCROLL_UP:
		w.state.Camera.ZoomIn()
	case gdk.SCROLL_DOWN:
		w.state.Camera.ZoomOut()
	case gdk.SCROLL_SMOOTH:
		if scroll.DeltaY() < 0 {
			w.state.Camera.ZoomIn()
		} else if scroll.DeltaY() > 0 {
			w.state.Camera.ZoomOut()
		}
	}

	gla.QueueRender()
}

// receive runs on the connection goroutine.
func (w *RenderWindow) receive(v interface{}) {
	switch msg := v.(type) {
	case *scene.AxisRotation:
		set := *msg
		glib.IdleAdd(func() {
			w.state.Rotation = set.Apply(w.state.Rotation)
			w.gla.QueueRender()
		})
	default:
		log.Println("render window received unknown message", reflect.TypeOf(v))
	}
}
