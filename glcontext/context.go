// Package glcontext wraps GLFW window and context management.
package glcontext

import (
	"fmt"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Context wraps a GLFW window and implements graphics.Context.
type Context struct {
	window *glfw.Window
}

// New creates a window with a 4.1 core-profile GL context and makes it
// current on the calling thread. The window is hidden when visible is false
// (record mode renders offscreen).
func New(width, height int, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, "quadview", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	c := &Context{window: win}
	win.SetKeyCallback(c.keyCallback)
	win.MakeContextCurrent()
	return c, nil
}

func (c *Context) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

// MakeCurrent binds the GL context to the calling thread.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

// EndFrame presents the back buffer and pumps the event queue.
func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// Init initializes GLFW. Must be called from the main thread.
func Init(logger *zap.Logger) error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	logger.Debug("glfw initialized")
	return nil
}

// Terminate shuts the windowing subsystem down. Must be called from the main
// thread after every context is destroyed.
func Terminate(logger *zap.Logger) {
	glfw.Terminate()
	logger.Debug("glfw terminated")
}
