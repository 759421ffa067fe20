package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stewi1014/glsnowflake/config"
	"github.com/stewi1014/glsnowflake/scene"
)

// glfwMain renders in a single GLFW window, one frame per vertical sync.
func glfwMain(ctx context.Context, opts config.Options) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	err := glfw.Init()
	if err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	width, height := 1200, 800
	if monitor := glfw.GetPrimaryMonitor(); monitor != nil {
		if mode := monitor.GetVideoMode(); mode != nil {
			width = int(float32(mode.Width) * .6)
			height = int(float32(mode.Height) * .6)
		}
	}

	_, vertices, err := newSnowflake(opts, height)
	if err != nil {
		return err
	}
	state := scene.NewRenderState(vertices)

	window, err := NewGLFWWindow(width, height)
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := NewRenderer(window.GetFramebufferSize())
	if err != nil {
		return err
	}
	defer renderer.Delete()

	window.Attach(state, renderer)

	loop := scene.NewLoop(ctx, state, func(*scene.RenderState) bool {
		return window.ShouldClose()
	})
	return loop.Run(func(state *scene.RenderState) error {
		renderer.Draw(state)
		window.SwapBuffers()
		glfw.PollEvents()
		return nil
	})
}

func NewGLFWWindow(width, height int) (*GLFWWindow, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if glDebug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}

	window, err := glfw.CreateWindow(
		width,
		height,
		"GLSnowflake Render",
		nil,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w := &GLFWWindow{
		Window: window,
	}

	w.MakeContextCurrent()
	glfw.SwapInterval(1)

	return w, nil
}

// GLFWWindow orbits the camera on left drag and zooms on scroll.
type GLFWWindow struct {
	*glfw.Window
	dragging bool
	lastX    float64
	lastY    float64
}

func (w *GLFWWindow) Attach(state *scene.RenderState, renderer *Renderer) {
	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		renderer.Resize(width, height)
	})

	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		w.dragging = action == glfw.Press
		w.lastX, w.lastY = w.GetCursorPos()
	})

	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.dragging {
			_, height := w.GetSize()
			state.Camera.RotatePixels(float32(x-w.lastX), float32(y-w.lastY), height)
		}
		w.lastX, w.lastY = x, y
	})

	w.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if yoff > 0 {
			state.Camera.ZoomIn()
		} else if yoff < 0 {
			state.Camera.ZoomOut()
		}
	})
}
