package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glsnowflake/snowflake"
)

// CatchPanicToContext turns a panic into the cancel cause of ctxCancel.
// It must be deferred.
func CatchPanicToContext(ctxCancel context.CancelCauseFunc) {
	if v := recover(); v != nil {
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", v)
		}
		err = fmt.Errorf("%w\n%v", err, string(debug.Stack()))
		if ctxCancel != nil {
			ctxCancel(err)
		}
	}
}

// WrapErrorDialog runs failable and shows any error it returns.
func WrapErrorDialog(parent *gtk.ApplicationWindow, failable func() error) func() {
	return func() {
		err := failable()
		if err != nil {
			log.Println(err)
			glib.IdleAdd(func() {
				NewErrorDialog(parent, err)
			})
		}
	}
}

// AttachErrorDialog shows the cause of ctx once it is cancelled with
// anything other than context.Canceled.
func AttachErrorDialog(parent *gtk.ApplicationWindow, ctx context.Context) {
	go func() {
		<-ctx.Done()
		err := context.Cause(ctx)
		if !errors.Is(err, context.Canceled) {
			log.Println(err)
			glib.IdleAdd(func() {
				NewErrorDialog(parent, err)
			})
		}
	}()
}

// NewErrorDialog shows err in a modal dialog. Errors carrying snowflake
// parameters list them under the message so the figure can be reproduced.
func NewErrorDialog(
	parent *gtk.ApplicationWindow,
	err error,
) {
	location := "unknown location"
	if _, file, line, ok := runtime.Caller(1); ok {
		location = fmt.Sprintf("%s:%v", filepath.Base(file), line)
	}

	title, details := describeError(err)

	dialog := gtk.MessageDialogNew(
		parent,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		gtk.MESSAGE_ERROR,
		gtk.BUTTONS_CLOSE,
		"%s",
		title,
	)
	dialog.FormatSecondaryText("%s\n\nreported from %s", details, location)
	dialog.Connect("response", dialog.Destroy)

	messageArea, err := dialog.GetMessageArea()
	if err != nil {
		log.Println(err)
	} else {
		messageArea.GetChildren().Foreach(func(item interface{}) {
			if widget, ok := item.(*gtk.Widget); ok {
				if l, err := gtk.WidgetToLabel(widget); err == nil {
					l.SetSelectable(true)
				}
			}
		})
	}

	dialog.SetKeepAbove(true)
	dialog.Run()
}

// describeError splits err into a dialog title and the text under it.
func describeError(err error) (title, details string) {
	var perr *snowflake.ParamsError
	if !errors.As(err, &perr) {
		return "Error", err.Error()
	}

	title = fmt.Sprintf("Failed to %s snowflake", perr.Op)
	details = fmt.Sprintf("%v\n\nParameters: %v", perr.Err, perr.Params)
	return title, details
}
