package renderer

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"quadview/encoder"
	"quadview/options"
)

// OffscreenRenderer owns an FBO with one RGBA8 color attachment and a ring
// of pixel-pack buffers for asynchronous readback.
type OffscreenRenderer struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int
	pbos      []uint32
	pboIndex  int
}

func NewOffscreenRenderer(width, height, numPBOs int) (*OffscreenRenderer, error) {
	if numPBOs < 2 {
		return nil, fmt.Errorf("number of PBOs must be at least 2")
	}

	or := &OffscreenRenderer{
		width:  width,
		height: height,
		pbos:   make([]uint32, numPBOs),
	}

	gl.GenFramebuffers(1, &or.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, or.fbo)
	gl.GenTextures(1, &or.textureID)
	gl.BindTexture(gl.TEXTURE_2D, or.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, or.textureID, 0)
	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("offscreen fbo is not complete")
	}

	bufferSize := width * height * 4
	gl.GenBuffers(int32(len(or.pbos)), &or.pbos[0])
	for _, pbo := range or.pbos {
		gl.BindBuffer(gl.PIXEL_PACK_BUFFER, pbo)
		gl.BufferData(gl.PIXEL_PACK_BUFFER, bufferSize, nil, gl.STREAM_READ)
	}

	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return or, nil
}

func (or *OffscreenRenderer) Destroy() {
	gl.DeleteFramebuffers(1, &or.fbo)
	gl.DeleteTextures(1, &or.textureID)
	gl.DeleteBuffers(int32(len(or.pbos)), &or.pbos[0])
}

// readPixelsAsync starts a readback into the current PBO and returns the
// contents of the oldest one, keeping the GPU a ring-length ahead of the
// copy. The caller must have the FBO bound for reading.
func (or *OffscreenRenderer) readPixelsAsync() ([]byte, error) {
	bufferSize := or.width * or.height * 4
	nextIndex := (or.pboIndex + 1) % len(or.pbos)

	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, or.pbos[or.pboIndex])
	gl.ReadPixels(0, 0, int32(or.width), int32(or.height), gl.RGBA, gl.UNSIGNED_BYTE, nil)

	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, or.pbos[nextIndex])
	ptr := gl.MapBufferRange(gl.PIXEL_PACK_BUFFER, 0, bufferSize, gl.MAP_READ_BIT)
	if ptr == nil {
		gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
		return nil, fmt.Errorf("failed to map pixel pack buffer")
	}

	pixels := make([]byte, bufferSize)
	copy(pixels, (*[1 << 30]byte)(ptr)[:bufferSize:bufferSize])
	gl.UnmapBuffer(gl.PIXEL_PACK_BUFFER)
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)

	or.pboIndex = nextIndex
	return pixels, nil
}

// RunOffscreen is the producer half of the record pipeline: it renders a
// fixed number of frames into the offscreen target at simulated time steps
// and streams the pixels to the encoder.
func (r *Renderer) RunOffscreen(opts *options.Options) error {
	var err error
	r.offscreen, err = NewOffscreenRenderer(opts.Width, opts.Height, opts.NumPBOs)
	if err != nil {
		return fmt.Errorf("failed to create offscreen renderer: %w", err)
	}

	enc := encoder.New(opts, r.logger)
	frameChan := make(chan *encoder.Frame, opts.NumPBOs)
	doneChan := make(chan error, 1)
	go enc.Run(frameChan, doneChan)

	totalFrames := int(opts.Duration * float64(opts.FPS))
	r.logger.Info("starting record loop",
		zap.Int("frames", totalFrames),
		zap.Int("fps", opts.FPS),
		zap.String("output", opts.OutputFile))

	for i := 0; i < totalFrames; i++ {
		gl.BindFramebuffer(gl.FRAMEBUFFER, r.offscreen.fbo)
		gl.Viewport(0, 0, int32(opts.Width), int32(opts.Height))
		r.RenderFrame()

		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.offscreen.fbo)
		pixels, err := r.offscreen.readPixelsAsync()
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		if err != nil {
			r.logger.Error("pixel readback failed", zap.Int("frame", i), zap.Error(err))
			break
		}

		frameChan <- &encoder.Frame{Pixels: pixels, PTS: int64(i)}
	}

	close(frameChan)
	return <-doneChan
}
