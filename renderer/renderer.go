// Package renderer draws the color-cycling quad.
package renderer

import (
	"fmt"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"quadview/anim"
	"quadview/graphics"
	"quadview/shader"
)

var glInitOnce sync.Once

var quadPositions = []float32{
	-0.5, -0.5, // 0
	0.5, -0.5, // 1
	0.5, 0.5, // 2
	-0.5, 0.5, // 3
}

var quadIndices = []uint32{
	0, 1, 2,
	2, 3, 0,
}

// Renderer owns the quad geometry, the compiled program and the per-frame
// color oscillator. All methods must run on the thread holding the GL
// context.
type Renderer struct {
	context   graphics.Context
	logger    *zap.Logger
	program   uint32
	va        *VertexArray
	vb        *VertexBuffer
	ib        *IndexBuffer
	colorLoc  int32
	color     *anim.Oscillator
	offscreen *OffscreenRenderer
}

func New(ctx graphics.Context, logger *zap.Logger) (*Renderer, error) {
	r := &Renderer{
		context: ctx,
		logger:  logger,
		color:   anim.NewOscillator(),
	}

	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	return r, nil
}

// InitScene uploads the quad geometry, builds the program from src and
// resolves the color uniform.
func (r *Renderer) InitScene(src shader.Source) error {
	r.va = NewVertexArray()
	r.vb = NewVertexBuffer(quadPositions)
	layout := &Layout{}
	layout.PushFloats(2)
	r.va.AddBuffer(r.vb, layout)
	r.ib = NewIndexBuffer(quadIndices)

	program, err := newProgram(src)
	if err != nil {
		return fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program = program
	gl.UseProgram(r.program)

	loc, err := uniformLocation(r.program, "u_Color")
	if err != nil {
		return fmt.Errorf("resolve color uniform: %w", err)
	}
	r.colorLoc = loc
	gl.Uniform4f(r.colorLoc, 0.0, 0.3, 0.8, 1.0)

	// Leave nothing bound between init and the first frame.
	r.va.Unbind()
	gl.UseProgram(0)
	r.vb.Unbind()
	r.ib.Unbind()

	r.logger.Debug("scene initialized", zap.Uint32("program", r.program))
	return nil
}

// RenderFrame draws the quad once with the current oscillator value, then
// advances the oscillator.
func (r *Renderer) RenderFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.Uniform4f(r.colorLoc, r.color.Value(), 0.3, 0.8, 1.0)

	r.va.Bind()
	r.ib.Bind()
	gl.DrawElements(gl.TRIANGLES, r.ib.Count(), gl.UNSIGNED_INT, gl.PtrOffset(0))

	r.color.Advance()
}

// Run is the interactive loop: one frame per vsync until the window closes.
func (r *Renderer) Run() {
	r.logger.Info("starting interactive render loop")
	for !r.context.ShouldClose() {
		fbWidth, fbHeight := r.context.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		r.RenderFrame()
		r.context.EndFrame()
	}
}

// Shutdown releases every GL object and the window.
func (r *Renderer) Shutdown() {
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	if r.vb != nil {
		r.vb.Destroy()
	}
	if r.ib != nil {
		r.ib.Destroy()
	}
	if r.va != nil {
		r.va.Destroy()
	}
	if r.offscreen != nil {
		r.offscreen.Destroy()
	}
	r.context.Shutdown()
}
