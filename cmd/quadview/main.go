package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"quadview/glcontext"
	"quadview/options"
	"quadview/renderer"
	"quadview/shader"
)

var (
	opts       = options.Default()
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "quadview",
	Short: "quadview renders a color-cycling quad from a dual-source shader file",
	Long: `quadview loads a GLSL file holding both shader stages behind
#shader vertex / #shader fragment directives, compiles it and draws a single
quad whose red channel oscillates between 0 and 1.

With --record the quad is rendered offscreen for a fixed duration and the
frames are piped to FFmpeg, producing a video file instead of a window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Overlay the config file before the logger is built so a
		// file-set verbose knob takes effect too.
		if configPath != "" {
			if err := applyConfigFile(cmd.Flags(), opts, configPath); err != nil {
				return err
			}
		}

		config := zap.NewProductionConfig()
		if opts.Verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	// The GL context lives on the main OS thread for the process lifetime.
	runtime.LockOSThread()

	registerFlags(rootCmd.Flags(), opts, &configPath)
}

func registerFlags(f *pflag.FlagSet, o *options.Options, configPath *string) {
	f.StringVarP(configPath, "config", "c", "", "YAML config file")
	f.StringVar(&o.ShaderPath, "shader", "", "dual-source shader file (built-in quad shader if empty)")
	f.IntVar(&o.Width, "width", o.Width, "window or output width")
	f.IntVar(&o.Height, "height", o.Height, "window or output height")
	f.BoolVar(&o.Record, "record", false, "render offscreen and encode to a video file")
	f.Float64Var(&o.Duration, "duration", o.Duration, "seconds to record")
	f.IntVar(&o.FPS, "fps", o.FPS, "frames per second when recording")
	f.StringVar(&o.OutputFile, "output", o.OutputFile, "output file name for recording")
	f.StringVar(&o.Codec, "codec", o.Codec, "video codec for recording (h264 or hevc)")
	f.StringVar(&o.FFmpegPath, "ffmpeg", "", "path to the ffmpeg executable")
	f.IntVar(&o.NumPBOs, "num-pbos", o.NumPBOs, "pixel buffer ring size for readback")
	f.BoolVarP(&o.Verbose, "verbose", "v", false, "enable debug logging")
}

// applyConfigFile overlays the YAML config at path onto o. Flag values the
// user set explicitly beat the file.
func applyConfigFile(f *pflag.FlagSet, o *options.Options, path string) error {
	flagVals := *o
	if err := o.LoadFile(path); err != nil {
		return err
	}
	if f.Changed("shader") {
		o.ShaderPath = flagVals.ShaderPath
	}
	if f.Changed("width") {
		o.Width = flagVals.Width
	}
	if f.Changed("height") {
		o.Height = flagVals.Height
	}
	if f.Changed("record") {
		o.Record = flagVals.Record
	}
	if f.Changed("duration") {
		o.Duration = flagVals.Duration
	}
	if f.Changed("fps") {
		o.FPS = flagVals.FPS
	}
	if f.Changed("output") {
		o.OutputFile = flagVals.OutputFile
	}
	if f.Changed("codec") {
		o.Codec = flagVals.Codec
	}
	if f.Changed("ffmpeg") {
		o.FFmpegPath = flagVals.FFmpegPath
	}
	if f.Changed("num-pbos") {
		o.NumPBOs = flagVals.NumPBOs
	}
	if f.Changed("verbose") {
		o.Verbose = flagVals.Verbose
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	var src shader.Source
	if opts.ShaderPath != "" {
		var err error
		src, err = shader.ParseFile(opts.ShaderPath)
		if err != nil {
			return err
		}
		logger.Info("loaded shader", zap.String("path", opts.ShaderPath))
	} else {
		src = shader.Default()
		logger.Info("using built-in shader")
	}
	if src.Discarded > 0 {
		logger.Warn("shader has payload lines before the first #shader directive, ignoring them",
			zap.Int("lines", src.Discarded))
	}

	if err := glcontext.Init(logger); err != nil {
		return err
	}
	defer glcontext.Terminate(logger)

	ctx, err := glcontext.New(opts.Width, opts.Height, !opts.Record)
	if err != nil {
		return fmt.Errorf("failed to initialize glfw context: %w", err)
	}

	r, err := renderer.New(ctx, logger)
	if err != nil {
		ctx.Shutdown()
		return err
	}
	defer r.Shutdown()

	if err := r.InitScene(src); err != nil {
		return err
	}

	if opts.Record {
		if err := r.RunOffscreen(opts); err != nil {
			return fmt.Errorf("offscreen rendering failed: %w", err)
		}
		logger.Info("recording finished", zap.String("output", opts.OutputFile))
		return nil
	}

	r.Run()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
