// Package graphics defines the boundary between the renderer and the
// windowing layer.
package graphics

// Context is the drawing surface the renderer targets.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
}
