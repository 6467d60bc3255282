package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCommands(t *testing.T) {
	t.Parallel()

	cmds := []DrawCommand{
		Clear(),
		FillColor(255, 0, 0, 255),
		FillRect(0, 0, 10, 10),
		Text("score: 42", 4, 12),
		Arc(50, 50, 20, 0, 3.14159, 1),
		Image("hero", 8, 8, 2),
		SetTransform(1, 0, 0, 1, 0, 0),
	}

	buf := make([]byte, 4096)
	n, count := EncodeCommands(buf, cmds)
	require.Equal(t, len(cmds), count)
	require.Positive(t, n)

	decoded, err := DecodeCommands(buf[:n], count)
	require.NoError(t, err)
	assert.Equal(t, cmds, decoded)
}

func TestEncodeCommandsTruncates(t *testing.T) {
	t.Parallel()

	cmds := []DrawCommand{
		FillRect(0, 0, 1, 1),  // 36 bytes
		FillRect(1, 1, 2, 2),  // 36 bytes
		FillRect(2, 2, 3, 3),  // does not fit
	}

	buf := make([]byte, 80)
	n, count := EncodeCommands(buf, cmds)
	assert.Equal(t, 2, count)
	assert.Equal(t, 72, n)

	decoded, err := DecodeCommands(buf[:n], count)
	require.NoError(t, err)
	assert.Equal(t, cmds[:2], decoded)
}

func TestEncodeCommandsNeverSplitsACommand(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 35) // one byte short of a FillRect
	n, count := EncodeCommands(buf, []DrawCommand{FillRect(0, 0, 1, 1)})
	assert.Zero(t, count)
	assert.Zero(t, n)
}

func TestDecodeCommandsMalformed(t *testing.T) {
	t.Parallel()

	t.Run("header overrun", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeCommands([]byte{1, 0}, 1)
		assert.Error(t, err)
	})

	t.Run("body overrun", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, 4096)
		n, count := EncodeCommands(buf, []DrawCommand{FillRect(0, 0, 1, 1)})
		require.Equal(t, 1, count)
		_, err := DecodeCommands(buf[:n-1], count)
		assert.Error(t, err)
	})

	t.Run("count beyond payload", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, 4096)
		n, count := EncodeCommands(buf, []DrawCommand{Clear()})
		require.Equal(t, 1, count)
		_, err := DecodeCommands(buf[:n], 2)
		assert.Error(t, err)
	})

	t.Run("garbage bytes", func(t *testing.T) {
		t.Parallel()
		garbage := []byte{0xff, 0xff, 0xff, 0xff, 0xde, 0xad}
		_, err := DecodeCommands(garbage, 3)
		assert.Error(t, err)
	})

	t.Run("negative count", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeCommands(nil, -1)
		assert.Error(t, err)
	})

	t.Run("huge count over tiny payload", func(t *testing.T) {
		t.Parallel()
		// A corrupt count word must be rejected by the bounds checks, not
		// turned into a count-sized allocation first.
		buf := make([]byte, 64)
		n, count := EncodeCommands(buf, []DrawCommand{Clear()})
		require.Equal(t, 1, count)
		_, err := DecodeCommands(buf[:n], int(^uint32(0)))
		assert.Error(t, err)
	})
}

func TestDecodeCommandsPreservesUnknownOps(t *testing.T) {
	t.Parallel()

	future := DrawCommand{Op: Op(200), Args: []float64{1, 2}}
	buf := make([]byte, 64)
	n, count := EncodeCommands(buf, []DrawCommand{future})
	require.Equal(t, 1, count)

	decoded, err := DecodeCommands(buf[:n], count)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.False(t, decoded[0].Op.Known())
	assert.Equal(t, future.Args, decoded[0].Args)
}

func TestInputStateEdgeHelpers(t *testing.T) {
	t.Parallel()

	s := InputState{
		KeysDown:     []string{"ArrowLeft", "a"},
		KeysPressed:  []string{"a"},
		MouseDown:    0b101,
		MousePressed: 0b001,
	}

	assert.True(t, s.KeyDown("ArrowLeft"))
	assert.False(t, s.KeyPressed("ArrowLeft"))
	assert.True(t, s.KeyPressed("a"))
	assert.False(t, s.KeyDown("b"))

	assert.True(t, s.MouseButtonDown(0))
	assert.True(t, s.MouseButtonDown(2))
	assert.False(t, s.MouseButtonDown(1))
	assert.True(t, s.MouseButtonPressed(0))
	assert.False(t, s.MouseButtonPressed(2))
	assert.False(t, s.MouseButtonDown(99))
}

func TestInputStateClone(t *testing.T) {
	t.Parallel()

	s := InputState{
		KeysDown: []string{"x"},
		Gamepads: [MaxGamepads]Gamepad{{Connected: true, Pressed: []int{3}}},
	}
	c := s.Clone()
	c.KeysDown[0] = "y"
	c.Gamepads[0].Pressed[0] = 7

	assert.Equal(t, "x", s.KeysDown[0])
	assert.Equal(t, 3, s.Gamepads[0].Pressed[0])
	assert.True(t, c.Gamepads[0].Connected)
}

func TestGamepadButtonPressed(t *testing.T) {
	t.Parallel()

	g := Gamepad{Pressed: []int{0, 9}}
	assert.True(t, g.ButtonPressed(9))
	assert.False(t, g.ButtonPressed(1))
}
