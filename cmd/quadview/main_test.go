package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quadview/options"
)

func newFlagSet(o *options.Options) (*pflag.FlagSet, *string) {
	var cfg string
	f := pflag.NewFlagSet("quadview", pflag.ContinueOnError)
	registerFlags(f, o, &cfg)
	return f, &cfg
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quadview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestApplyConfigFileOverlay(t *testing.T) {
	path := writeConfig(t, "width: 320\nfps: 24\nverbose: true\n")

	o := options.Default()
	f, _ := newFlagSet(o)
	require.NoError(t, f.Parse([]string{"--width", "800"}))

	require.NoError(t, applyConfigFile(f, o, path))

	// Flags beat the file, the file beats the defaults.
	assert.Equal(t, 800, o.Width)
	assert.Equal(t, 24, o.FPS)
	assert.Equal(t, 720, o.Height)
	// A file-set verbose knob must survive the overlay so the logger
	// picks it up.
	assert.True(t, o.Verbose)
}

func TestApplyConfigFileVerboseFlagWins(t *testing.T) {
	path := writeConfig(t, "verbose: false\n")

	o := options.Default()
	f, _ := newFlagSet(o)
	require.NoError(t, f.Parse([]string{"--verbose"}))

	require.NoError(t, applyConfigFile(f, o, path))
	assert.True(t, o.Verbose)
}

func TestApplyConfigFileMissing(t *testing.T) {
	o := options.Default()
	f, _ := newFlagSet(o)
	require.NoError(t, f.Parse(nil))

	err := applyConfigFile(f, o, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
