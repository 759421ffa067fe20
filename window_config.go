package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"reflect"
	"strconv"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glsnowflake/scene"
	"github.com/stewi1014/glsnowflake/snowflake"
)

const (
	previewSize      = 256
	previewAntialias = 1
)

func NewConfigWindow(
	app *gtk.Application,
	ctx context.Context,
	quit context.CancelCauseFunc,
	listener net.Listener,
) *ConfigWindow {
	var err error
	w := &ConfigWindow{
		ctx:         ctx,
		quit:        quit,
		labels:      make(map[string]*gtk.Label),
		sendMessage: make(chan interface{}, 1),
	}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	w.SetDefaultSize(280, 700)

	box, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 8)
	if err != nil {
		quit(fmt.Errorf("gtk.BoxNew: %w", err))
		return nil
	}
	box.SetMarginStart(8)
	box.SetMarginEnd(8)
	box.SetMarginTop(8)
	box.SetMarginBottom(8)

	for _, build := range []func() (gtk.IWidget, error){
		w.buildParams,
		w.buildRotation,
		w.buildPreview,
	} {
		widget, err := build()
		if err != nil {
			quit(err)
			return nil
		}
		box.Add(widget)
	}

	w.Add(box)
	w.ShowAll()

	go func() {
		defer CatchPanicToContext(quit)
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() == nil {
				quit(fmt.Errorf("accepting render window: %w", err))
			}
			return
		}
		handleConn(ctx, quit, conn, w.sendMessage, w.receive)
	}()

	return w
}

// ConfigWindow lists the generation parameters and controls the rotation.
type ConfigWindow struct {
	*gtk.ApplicationWindow
	ctx  context.Context
	quit context.CancelCauseFunc

	labels   map[string]*gtk.Label
	preview  *gtk.Image
	progress *gtk.ProgressBar

	sendMessage chan interface{}
}

var paramNames = []string{"Branches", "Branch Angle", "Depth", "Length"}

func (w *ConfigWindow) buildParams() (gtk.IWidget, error) {
	frame, err := gtk.FrameNew("Parameters")
	if err != nil {
		return nil, fmt.Errorf("gtk.FrameNew: %w", err)
	}

	grid, err := gtk.GridNew()
	if err != nil {
		return nil, fmt.Errorf("gtk.GridNew: %w", err)
	}
	grid.SetColumnSpacing(12)
	grid.SetRowSpacing(4)

	for i, name := range paramNames {
		nameLabel, err := gtk.LabelNew(name)
		if err != nil {
			return nil, fmt.Errorf("gtk.LabelNew: %w", err)
		}
		nameLabel.SetXAlign(0)

		valueLabel, err := gtk.LabelNew("-")
		if err != nil {
			return nil, fmt.Errorf("gtk.LabelNew: %w", err)
		}
		valueLabel.SetXAlign(1)
		valueLabel.SetHExpand(true)
		valueLabel.SetSelectable(true)

		grid.Attach(nameLabel, 0, i, 1, 1)
		grid.Attach(valueLabel, 1, i, 1, 1)
		w.labels[name] = valueLabel
	}

	frame.Add(grid)
	return frame, nil
}

func (w *ConfigWindow) buildRotation() (gtk.IWidget, error) {
	frame, err := gtk.FrameNew("Rotation")
	if err != nil {
		return nil, fmt.Errorf("gtk.FrameNew: %w", err)
	}

	grid, err := gtk.GridNew()
	if err != nil {
		return nil, fmt.Errorf("gtk.GridNew: %w", err)
	}
	grid.SetColumnSpacing(12)

	axes := []struct {
		name string
		axis scene.Axis
	}{
		{"X-Rotation", scene.AxisX},
		{"Y-Rotation", scene.AxisY},
		{"Z-Rotation", scene.AxisZ},
	}

	for i, axis := range axes {
		axis := axis
		label, err := gtk.LabelNew(axis.name)
		if err != nil {
			return nil, fmt.Errorf("gtk.LabelNew: %w", err)
		}

		scale, err := gtk.ScaleNewWithRange(gtk.ORIENTATION_HORIZONTAL, 0, 2*math.Pi, 0.001)
		if err != nil {
			return nil, fmt.Errorf("gtk.ScaleNewWithRange: %w", err)
		}
		scale.SetDigits(3)
		scale.SetHExpand(true)

		scale.Connect("value-changed", func(scale *gtk.Scale) {
			w.send(&scene.AxisRotation{
				Axis:  axis.axis,
				Angle: float32(scale.GetValue()),
			})
		})

		grid.Attach(label, 0, i, 1, 1)
		grid.Attach(scale, 1, i, 1, 1)
	}

	frame.Add(grid)
	return frame, nil
}

func (w *ConfigWindow) buildPreview() (gtk.IWidget, error) {
	frame, err := gtk.FrameNew("Preview")
	if err != nil {
		return nil, fmt.Errorf("gtk.FrameNew: %w", err)
	}

	box, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 4)
	if err != nil {
		return nil, fmt.Errorf("gtk.BoxNew: %w", err)
	}

	w.preview, err = gtk.ImageNew()
	if err != nil {
		return nil, fmt.Errorf("gtk.ImageNew: %w", err)
	}
	w.preview.SetSizeRequest(previewSize, previewSize)

	w.progress, err = gtk.ProgressBarNew()
	if err != nil {
		return nil, fmt.Errorf("gtk.ProgressBarNew: %w", err)
	}

	box.Add(w.preview)
	box.Add(w.progress)
	frame.Add(box)
	return frame, nil
}

// send queues msg for the render window. It must be called on the GTK thread.
func (w *ConfigWindow) send(msg *scene.AxisRotation) {
	select {
	case w.sendMessage <- msg:
	case <-w.ctx.Done():
	}
}

// receive runs on the connection goroutine.
func (w *ConfigWindow) receive(v interface{}) {
	switch msg := v.(type) {
	case *snowflake.Params:
		params := *msg
		glib.IdleAdd(func() {
			w.showParams(params)
		})
		go WrapErrorDialog(w.ApplicationWindow, func() error {
			return w.renderPreview(params)
		})()
	default:
		log.Println("config window received unknown message", reflect.TypeOf(v))
	}
}

func (w *ConfigWindow) showParams(p snowflake.Params) {
	w.labels["Branches"].SetText(strconv.Itoa(p.Branches))
	w.labels["Branch Angle"].SetText(strconv.FormatFloat(p.OffsetAngle, 'f', -1, 64) + "°")
	if p.RecursionBound() != p.Depth {
		w.labels["Depth"].SetText(fmt.Sprintf("%v (fixed %v)", p.Depth, p.RecursionBound()))
	} else {
		w.labels["Depth"].SetText(strconv.Itoa(p.Depth))
	}
	w.labels["Length"].SetText(strconv.FormatFloat(p.Length, 'f', 3, 64))
}

// renderPreview rasterizes the snowflake on the CPU and shows it.
func (w *ConfigWindow) renderPreview(p snowflake.Params) error {
	vertices, err := snowflake.Generate(p)
	if err != nil {
		return err
	}

	img := ToImage(AntiAlias9x(vertices.GetImage(previewSize, previewSize, snowflake.DefaultStyle), previewAntialias))
	progress := WrapWithProgress(&img)
	buff := BufferImage(img)

	glib.TimeoutAdd(100, func() bool {
		w.progress.SetFraction(progress())
		return progress() < 1 && w.ctx.Err() == nil
	})

	err = buff.Buffer(w.ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return &snowflake.ParamsError{Op: "preview", Params: p, Err: err}
	}

	glib.IdleAdd(func() {
		pixbuf, err := ToPixbuf(buff)
		if err != nil {
			log.Println(err)
			return
		}
		w.preview.SetFromPixbuf(pixbuf)
		w.progress.SetFraction(1)
	})
	return nil
}
