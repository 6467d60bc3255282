package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelbus/pixelbus/internal/host/finitestate"
	"github.com/pixelbus/pixelbus/internal/wire"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.star")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunnerValidation(t *testing.T) {
	t.Parallel()

	pair := newTestPair(t)
	_, err := NewRunner("", pair.Background)
	assert.Error(t, err)
	_, err = NewRunner("game.star", nil)
	assert.Error(t, err)
}

func TestRunnerLifecycle(t *testing.T) {
	t.Parallel()

	path := writeScript(t, "def draw():\n    clear()\n\non_frame(draw)\n")
	pair := newTestPair(t)

	r, err := NewRunner(path, pair.Background)
	require.NoError(t, err)
	assert.Equal(t, "host.Runner", r.String())

	runDone := make(chan error, 1)
	go func() { runDone <- r.Run(context.Background()) }()

	cmds := drainFrame(t, pair.Main)
	assert.Equal(t, []wire.DrawCommand{wire.Clear()}, cmds)
	assert.Equal(t, finitestate.StatusRunning, r.Host().State())

	r.Stop()
	select {
	case err := <-runDone:
		require.NoError(t, err)
	case <-time.After(waitTimeout):
		t.Fatal("runner did not stop")
	}
}

func TestRunnerMissingScript(t *testing.T) {
	t.Parallel()

	pair := newTestPair(t)
	r, err := NewRunner(filepath.Join(t.TempDir(), "absent.star"), pair.Background)
	require.NoError(t, err)
	assert.Error(t, r.Run(context.Background()))
}

func TestRunnerBrokenScript(t *testing.T) {
	t.Parallel()

	path := writeScript(t, "def draw(:\n")
	pair := newTestPair(t)
	r, err := NewRunner(path, pair.Background)
	require.NoError(t, err)

	err = r.Run(context.Background())
	require.Error(t, err)

	var serr *ScriptError
	assert.ErrorAs(t, err, &serr)
}

func TestRunnerScriptWithoutCallback(t *testing.T) {
	t.Parallel()

	path := writeScript(t, "x = 1\n")
	pair := newTestPair(t)
	r, err := NewRunner(path, pair.Background)
	require.NoError(t, err)

	assert.ErrorIs(t, r.Run(context.Background()), ErrNoCallback)
}
