package encoder

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"quadview/options"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestInputArgs(t *testing.T) {
	opts := options.Default()
	opts.Width = 640
	opts.Height = 480
	opts.FPS = 30

	args := New(opts, zap.NewNop()).inputArgs()
	assert.Equal(t, "rawvideo", args["f"])
	assert.Equal(t, "rgba", args["pix_fmt"])
	assert.Equal(t, "640x480", args["s"])
	assert.Equal(t, 30, args["framerate"])
}

func TestOutputArgsH264(t *testing.T) {
	args := New(options.Default(), zap.NewNop()).outputArgs()
	assert.Equal(t, "vflip", args["vf"])
	assert.Equal(t, "yuv420p", args["pix_fmt"])
	assert.NotContains(t, args, "tag:v")
	if runtime.GOOS != "darwin" {
		assert.Equal(t, "libx264", args["c:v"])
	}
}

func TestOutputArgsHEVCMP4Tag(t *testing.T) {
	opts := options.Default()
	opts.Codec = "hevc"
	opts.OutputFile = "out.mp4"

	args := New(opts, zap.NewNop()).outputArgs()
	assert.Equal(t, "hvc1", args["tag:v"])
	if runtime.GOOS != "darwin" {
		assert.Equal(t, "libx265", args["c:v"])
	}
}

func TestRunReportsFFmpegStartFailure(t *testing.T) {
	dir := t.TempDir()
	opts := options.Default()
	opts.Width = 4
	opts.Height = 4
	opts.FPS = 30
	opts.FFmpegPath = filepath.Join(dir, "missing-ffmpeg")
	opts.OutputFile = filepath.Join(dir, "out.mp4")

	enc := New(opts, zap.NewNop())
	frames := make(chan *Frame, 2)
	done := make(chan error, 1)
	go enc.Run(frames, done)

	// Keep producing after the process has failed; Run must drain the
	// channel and still deliver the error instead of deadlocking.
	go func() {
		defer close(frames)
		pixels := make([]byte, 4*4*4)
		for i := 0; i < 100; i++ {
			frames <- &Frame{Pixels: pixels, PTS: int64(i)}
		}
	}()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("encoder never reported the ffmpeg failure")
	}
}

func TestOutputArgsHEVCNonMP4(t *testing.T) {
	opts := options.Default()
	opts.Codec = "hevc"
	opts.OutputFile = "out.mkv"

	args := New(opts, zap.NewNop()).outputArgs()
	assert.NotContains(t, args, "tag:v")
}
