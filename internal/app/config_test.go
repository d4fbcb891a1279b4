package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := configFromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromEnvironment(t *testing.T) {
	cfg, err := configFromLookup(lookupFrom(map[string]string{
		EnvOutput:    "png",
		EnvPNGPath:   "/tmp/x.png",
		EnvFrames:    "120",
		EnvDebug:     "true",
		EnvQRPayload: "hi",
		EnvFBDevice:  "/dev/fb1",
	}))
	require.NoError(t, err)
	assert.Equal(t, OutputPNG, cfg.Output)
	assert.Equal(t, "/tmp/x.png", cfg.PNGPath)
	assert.Equal(t, 120, cfg.MaxFrames)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "hi", cfg.QRPayload)
	assert.Equal(t, "/dev/fb1", cfg.FBDevice)
}

func TestConfigBadValues(t *testing.T) {
	_, err := configFromLookup(lookupFrom(map[string]string{EnvFrames: "many"}))
	assert.ErrorContains(t, err, EnvFrames)

	_, err = configFromLookup(lookupFrom(map[string]string{EnvDebug: "maybe"}))
	assert.ErrorContains(t, err, EnvDebug)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "svg"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxFrames = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Output = OutputPNG
	cfg.PNGPath = ""
	assert.Error(t, cfg.Validate())
}
