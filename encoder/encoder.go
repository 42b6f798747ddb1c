// Package encoder pipes raw rendered frames into FFmpeg.
package encoder

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"

	"quadview/options"
)

// Frame is a single rendered frame's RGBA pixel data, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Encoder consumes frames from the render loop and feeds them to an FFmpeg
// child process over a pipe.
type Encoder struct {
	opts   *options.Options
	logger *zap.Logger
}

func New(opts *options.Options, logger *zap.Logger) *Encoder {
	return &Encoder{opts: opts, logger: logger}
}

// inputArgs describes the raw frame stream the renderer produces.
func (e *Encoder) inputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", e.opts.Width, e.opts.Height),
		"framerate": e.opts.FPS,
	}
}

// outputArgs selects the encode settings, preferring the platform's hardware
// encoder where one exists.
func (e *Encoder) outputArgs() ffmpeg.KwArgs {
	out := ffmpeg.KwArgs{
		// GL reads rows bottom-up.
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}

	hevc := e.opts.Codec == "hevc"
	switch runtime.GOOS {
	case "darwin":
		if hevc {
			out["c:v"] = "hevc_videotoolbox"
		} else {
			out["c:v"] = "h264_videotoolbox"
		}
	default:
		if hevc {
			out["c:v"] = "libx265"
		} else {
			out["c:v"] = "libx264"
		}
	}

	if hevc && strings.HasSuffix(e.opts.OutputFile, ".mp4") {
		out["tag:v"] = "hvc1"
	}
	return out
}

// Run is the consumer half of the record pipeline. It drains frames until
// the channel closes, then reports FFmpeg's exit status on done. When the
// FFmpeg process fails to start or dies mid-encode, the pipe is closed with
// its error so an in-flight Write unblocks; the channel is still drained so
// the producer never blocks.
func (e *Encoder) Run(frames <-chan *Frame, done chan<- error) {
	pipeReader, pipeWriter := io.Pipe()

	cmd := ffmpeg.Input("pipe:", e.inputArgs()).
		Output(e.opts.OutputFile, e.outputArgs()).
		OverWriteOutput().
		WithInput(pipeReader).
		ErrorToStdOut()
	if e.opts.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(e.opts.FFmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := cmd.Run()
		pipeReader.CloseWithError(err)
		errc <- err
	}()

	broken := false
	for frame := range frames {
		if broken {
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			e.logger.Error("write frame to ffmpeg",
				zap.Int64("pts", frame.PTS), zap.Error(err))
			broken = true
		}
	}

	pipeWriter.Close()
	done <- <-errc
}
