package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromBytes(t *testing.T) {
	t.Parallel()

	doc := `
version = "v1"

[script]
path = "games/pong.star"

[channel]
mode = "shared-memory"

[canvas]
width = 320
height = 240
fps = 30

[logging]
level = "debug"
format = "json"

[[assets]]
name = "ball"
path = "assets/ball.png"

[[assets]]
name = "paddle"
path = "assets/paddle.png"
`
	cfg, err := NewConfigFromBytes([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "games/pong.star", cfg.Script.Path)
	assert.Equal(t, "shared-memory", cfg.Channel.Mode)
	assert.Equal(t, int32(320), cfg.Canvas.Width)
	assert.Equal(t, int32(240), cfg.Canvas.Height)
	assert.Equal(t, 30, cfg.Canvas.FPS)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.Assets, 2)
	assert.Equal(t, "ball", cfg.Assets[0].Name)
}

func TestNewConfigFromBytesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfigFromBytes([]byte("[script]\npath = \"game.star\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "automatic", cfg.Channel.Mode)
	assert.Equal(t, int32(800), cfg.Canvas.Width)
	assert.Equal(t, int32(600), cfg.Canvas.Height)
	assert.Equal(t, 60, cfg.Canvas.FPS)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestNewConfigFromBytesErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		_, err := NewConfigFromBytes(nil)
		assert.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		t.Parallel()
		_, err := NewConfigFromBytes([]byte("[script\npath ="))
		assert.Error(t, err)
	})

	t.Run("missing script path", func(t *testing.T) {
		t.Parallel()
		_, err := NewConfigFromBytes([]byte("version = \"v1\"\n"))
		assert.ErrorIs(t, err, ErrMissingScript)
	})
}

func TestValidateCollectsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Version: "v99",
		Channel: ChannelConfig{Mode: "carrier-pigeon"},
		Canvas:  CanvasConfig{Width: -1, Height: 0, FPS: 500},
		Logging: LogConfig{Format: "yaml"},
		Assets: []AssetEntry{
			{Name: "dup", Path: "a.png"},
			{Name: "dup", Path: "b.png"},
			{Name: "", Path: ""},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
	assert.ErrorIs(t, err, ErrMissingScript)
	assert.ErrorIs(t, err, ErrInvalidCanvas)
	assert.ErrorIs(t, err, ErrInvalidFPS)
	assert.Contains(t, err.Error(), "carrier-pigeon")
	assert.Contains(t, err.Error(), "duplicate name")
}

func TestConfigEnvInterpolation(t *testing.T) {
	t.Setenv("PIXELBUS_GAME_DIR", "/opt/games")

	cfg, err := NewConfigFromBytes([]byte(`
[script]
path = "${PIXELBUS_GAME_DIR}/pong.star"

[[assets]]
name = "ball"
path = "${PIXELBUS_ASSET_DIR:assets}/ball.png"
`))
	require.NoError(t, err)
	assert.Equal(t, "/opt/games/pong.star", cfg.Script.Path)
	assert.Equal(t, "assets/ball.png", cfg.Assets[0].Path)
}

func TestConfigTree(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Script.Path = "games/pong.star"
	cfg.Assets = []AssetEntry{{Name: "ball", Path: "assets/ball.png"}}

	out := cfg.Tree().String()
	assert.Contains(t, out, "pong.star")
	assert.Contains(t, out, "Canvas")
	assert.Contains(t, out, "ball")
}

func TestNewConfigFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(path, []byte("[script]\npath = \"game.star\"\n"), 0o644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "game.star", cfg.Script.Path)

	_, err = NewConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
