package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelbus/pixelbus/internal/wire"
)

func TestKeyHeldAcrossFrames(t *testing.T) {
	t.Parallel()

	c := New()
	c.KeyDown("ArrowLeft")

	// Frame 1: both down and pressed.
	s := c.State()
	assert.True(t, s.KeyDown("ArrowLeft"))
	assert.True(t, s.KeyPressed("ArrowLeft"))
	c.Update()

	// Frame 2: still down, edge cleared.
	s = c.State()
	assert.True(t, s.KeyDown("ArrowLeft"))
	assert.False(t, s.KeyPressed("ArrowLeft"))
}

func TestKeyReleaseDropsPressedEdge(t *testing.T) {
	t.Parallel()

	c := New()
	c.KeyDown("Space")
	c.KeyUp("Space")

	// A key released before the snapshot reports neither down nor pressed;
	// the pressed set never holds a key the down set lacks.
	s := c.State()
	assert.False(t, s.KeyDown("Space"))
	assert.False(t, s.KeyPressed("Space"))
	assert.Empty(t, s.KeysPressed)
}

func TestPressedSubsetOfDown(t *testing.T) {
	t.Parallel()

	c := New()
	c.KeyDown("a")
	c.KeyDown("b")
	c.KeyUp("b")
	c.MouseButtonDown(0)
	c.MouseButtonUp(0)
	pad := wire.Gamepad{Connected: true}
	pad.Buttons[3] = 1.0
	c.SetGamepad(0, pad)
	pad.Buttons[3] = 0.0
	c.SetGamepad(0, pad)

	s := c.State()
	for _, k := range s.KeysPressed {
		assert.True(t, s.KeyDown(k), "pressed key %q not in down set", k)
	}
	assert.Zero(t, s.MousePressed&^s.MouseDown)
	for i := range s.Gamepads {
		for _, b := range s.Gamepads[i].Pressed {
			assert.Greater(t, s.Gamepads[i].Buttons[b], 0.5,
				"pressed button %d no longer held on pad %d", b, i)
		}
	}
	assert.Equal(t, []string{"a"}, s.KeysPressed)
	assert.Empty(t, s.Gamepads[0].Pressed)
}

func TestKeyAutoRepeatNoSecondEdge(t *testing.T) {
	t.Parallel()

	c := New()
	c.KeyDown("a")
	c.Update()
	c.KeyDown("a") // OS repeat while held

	s := c.State()
	assert.True(t, s.KeyDown("a"))
	assert.False(t, s.KeyPressed("a"))
}

func TestMouseButtons(t *testing.T) {
	t.Parallel()

	c := New()
	c.MouseButtonDown(0)
	c.MouseButtonDown(2)

	s := c.State()
	assert.True(t, s.MouseButtonDown(0))
	assert.False(t, s.MouseButtonDown(1))
	assert.True(t, s.MouseButtonDown(2))
	assert.True(t, s.MouseButtonPressed(0))
	assert.True(t, s.MouseButtonPressed(2))

	c.Update()
	c.MouseButtonUp(0)
	s = c.State()
	assert.False(t, s.MouseButtonDown(0))
	assert.True(t, s.MouseButtonDown(2))
	assert.False(t, s.MouseButtonPressed(2))
}

func TestMouseButtonOutOfRangeIgnored(t *testing.T) {
	t.Parallel()

	c := New()
	c.MouseButtonDown(-1)
	c.MouseButtonDown(wire.MaxMouseButtons)

	s := c.State()
	assert.Zero(t, s.MouseDown)
	assert.Zero(t, s.MousePressed)
}

func TestMouseMove(t *testing.T) {
	t.Parallel()

	c := New()
	c.MouseMove(120, 80)
	s := c.State()
	assert.Equal(t, int32(120), s.MouseX)
	assert.Equal(t, int32(80), s.MouseY)
}

func TestGamepadPressedEdges(t *testing.T) {
	t.Parallel()

	c := New()
	pad := wire.Gamepad{Connected: true, ID: "pad-1"}
	pad.Buttons[0] = 1.0
	pad.Buttons[6] = 0.4 // trigger below threshold
	c.SetGamepad(0, pad)

	s := c.State()
	require.True(t, s.Gamepads[0].Connected)
	assert.True(t, s.Gamepads[0].ButtonPressed(0))
	assert.False(t, s.Gamepads[0].ButtonPressed(6))

	// Re-poll while still held: edge already consumed, but preserved
	// within the same frame.
	c.SetGamepad(0, pad)
	s = c.State()
	assert.True(t, s.Gamepads[0].ButtonPressed(0))

	// Next frame the edge clears while the analog value persists.
	c.Update()
	c.SetGamepad(0, pad)
	s = c.State()
	assert.False(t, s.Gamepads[0].ButtonPressed(0))
	assert.Equal(t, 1.0, s.Gamepads[0].Buttons[0])
}

func TestGamepadTriggerThreshold(t *testing.T) {
	t.Parallel()

	c := New()
	pad := wire.Gamepad{Connected: true}
	pad.Buttons[6] = 0.5
	c.SetGamepad(0, pad)
	s := c.State()
	assert.False(t, s.Gamepads[0].ButtonPressed(6))

	pad.Buttons[6] = 0.51
	c.SetGamepad(0, pad)
	s = c.State()
	assert.True(t, s.Gamepads[0].ButtonPressed(6))
}

func TestGamepadDisconnect(t *testing.T) {
	t.Parallel()

	c := New()
	pad := wire.Gamepad{Connected: true, ID: "pad-1"}
	pad.Buttons[0] = 1.0
	c.SetGamepad(0, pad)

	c.SetGamepad(0, wire.Gamepad{})
	s := c.State()
	assert.False(t, s.Gamepads[0].Connected)
	assert.Zero(t, s.Gamepads[0].Buttons[0])
}

func TestGamepadSlotOutOfRangeIgnored(t *testing.T) {
	t.Parallel()

	c := New()
	c.SetGamepad(-1, wire.Gamepad{Connected: true})
	c.SetGamepad(wire.MaxGamepads, wire.Gamepad{Connected: true})
	for _, g := range c.State().Gamepads {
		assert.False(t, g.Connected)
	}
}

func TestStateIsSnapshot(t *testing.T) {
	t.Parallel()

	c := New()
	c.KeyDown("x")
	pad := wire.Gamepad{Connected: true}
	pad.Buttons[0] = 1.0
	c.SetGamepad(0, pad)

	s := c.State()
	c.Reset()

	// The earlier snapshot is unaffected by the reset.
	assert.True(t, s.KeyDown("x"))
	assert.True(t, s.Gamepads[0].ButtonPressed(0))
}

func TestReset(t *testing.T) {
	t.Parallel()

	c := New()
	c.KeyDown("x")
	c.MouseButtonDown(0)
	c.SetGamepad(0, wire.Gamepad{Connected: true})

	c.Reset()
	s := c.State()
	assert.Empty(t, s.KeysDown)
	assert.Empty(t, s.KeysPressed)
	assert.Zero(t, s.MouseDown)
	assert.False(t, s.Gamepads[0].Connected)
}
