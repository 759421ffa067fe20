package main

import (
	"context"
	"encoding/gob"
	"errors"
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glsnowflake/config"
	"github.com/stewi1014/glsnowflake/scene"
	"github.com/stewi1014/glsnowflake/snowflake"
)

func init() {
	gob.Register(&snowflake.Params{})
	gob.Register(&scene.AxisRotation{})
}

func main() {
	opts, err := config.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	glDebug = opts.Debug

	run := gtkMain
	if opts.GLFW {
		run = glfwMain
	}

	mainContext, mainQuit := context.WithCancelCause(context.Background())

	go func() {
		defer CatchPanicToContext(mainQuit)
		mainQuit(run(mainContext, opts))
	}()

	<-mainContext.Done()
	if err := context.Cause(mainContext); err != nil && !errors.Is(err, context.Canceled) {
		log.Println(err)
		os.Exit(1)
	}
}

func gtkMain(ctx context.Context, opts config.Options) error {
	runtime.LockOSThread()

	gtk.Init(nil)
	app, err := NewApplication()
	if err != nil {
		return err
	}

	_, height := getWindowSize()
	params, vertices, err := newSnowflake(opts, height)
	if err != nil {
		return err
	}
	state := scene.NewRenderState(vertices)

	appContext, appQuit := context.WithCancelCause(ctx)
	app.Connect("activate", func() {
		client, listener := NewPipeListener(appContext)

		renderWindow := NewRenderWindow(app.Application, appContext, appQuit, client, state, params)
		if renderWindow == nil {
			return
		}
		renderWindow.Connect("destroy", func() {
			appQuit(nil)
		})
		renderWindow.SetTitle("GLSnowflake Render")

		configWindow := NewConfigWindow(app.Application, appContext, appQuit, listener)
		if configWindow == nil {
			return
		}
		configWindow.Connect("destroy", func() {
			appQuit(nil)
		})
		configWindow.SetTitle("GLSnowflake Config")
	})

	return app.Run(appContext)
}
