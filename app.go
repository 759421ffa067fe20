package main

import (
	"context"
	"fmt"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

const applicationID = "com.github.stewi1014.glsnowflake"

func NewApplication() (*Application, error) {
	app, err := gtk.ApplicationNew(applicationID, glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return nil, fmt.Errorf("gtk.ApplicationNew failed: %w", err)
	}

	a := &Application{
		Application: app,
	}

	return a, nil
}

type Application struct {
	*gtk.Application
}

// Run blocks in the GTK main loop until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		glib.IdleAdd(func() {
			a.Quit()
		})
	}()

	a.Application.Run(nil)
	return context.Cause(ctx)
}

// getWindowSize returns 60% of the primary monitor, or 1200x800.
func getWindowSize() (width, height int) {
	width = 1200
	height = 800

	display, err := gdk.DisplayGetDefault()
	if err != nil {
		return
	}

	monitor, err := display.GetPrimaryMonitor()
	if err != nil {
		return
	}

	width = int(float32(monitor.GetGeometry().GetWidth()) * .6)
	height = int(float32(monitor.GetGeometry().GetHeight()) * .6)
	return
}
