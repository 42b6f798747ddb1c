// Package options holds the runtime configuration for quadview.
package options

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options collects every knob the CLI and the optional config file can set.
type Options struct {
	ShaderPath string  `yaml:"shader"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Record     bool    `yaml:"record"`
	Duration   float64 `yaml:"duration"`
	FPS        int     `yaml:"fps"`
	OutputFile string  `yaml:"output"`
	Codec      string  `yaml:"codec"`
	FFmpegPath string  `yaml:"ffmpeg"`
	NumPBOs    int     `yaml:"num_pbos"`
	Verbose    bool    `yaml:"verbose"`
}

// Default returns the options used when neither a config file nor a flag
// sets a value.
func Default() *Options {
	return &Options{
		Width:      1280,
		Height:     720,
		Duration:   10.0,
		FPS:        60,
		OutputFile: "output.mp4",
		Codec:      "h264",
		NumPBOs:    3,
	}
}

// LoadFile overlays the YAML config at path onto o. Fields absent from the
// file keep their current values.
func (o *Options) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

// Validate rejects option combinations the renderer cannot honor.
func (o *Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", o.Width, o.Height)
	}
	if o.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", o.FPS)
	}
	if o.Record && o.Duration <= 0 {
		return fmt.Errorf("record duration must be positive, got %g", o.Duration)
	}
	if o.NumPBOs < 2 {
		return fmt.Errorf("num_pbos must be at least 2, got %d", o.NumPBOs)
	}
	if o.Codec != "h264" && o.Codec != "hevc" {
		return fmt.Errorf("unknown codec %q", o.Codec)
	}
	return nil
}
