// Package input collects UI events on the main thread and folds them into
// the per-frame snapshot the frame loop publishes to the script host. The
// capture distinguishes level state ("down right now") from edge state
// ("pressed since the last frame"); the pressed sets are always a subset
// of the down sets, so a release before the frame boundary drops its edge.
package input

import (
	"sync"

	"github.com/pixelbus/pixelbus/internal/wire"
)

// Capture accumulates input events between frames. Event methods are called
// from UI callbacks; State and Update are called once per frame by the
// frame loop. All methods are safe for concurrent use.
type Capture struct {
	mu           sync.Mutex
	keysDown     map[string]bool
	keysPressed  map[string]bool
	mouseX       int32
	mouseY       int32
	mouseDown    uint32
	mousePressed uint32
	gamepads     [wire.MaxGamepads]wire.Gamepad
}

// New returns an empty capture.
func New() *Capture {
	return &Capture{
		keysDown:    make(map[string]bool),
		keysPressed: make(map[string]bool),
	}
}

// KeyDown records a key going down. The pressed edge fires only on the
// initial transition, not on OS auto-repeat.
func (c *Capture) KeyDown(key string) {
	if key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.keysDown[key] {
		c.keysPressed[key] = true
	}
	c.keysDown[key] = true
}

// KeyUp records a key release. A pressed edge from the same frame is
// dropped with it; a released key never reports as pressed.
func (c *Capture) KeyUp(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keysDown, key)
	delete(c.keysPressed, key)
}

// MouseMove records the cursor position in canvas coordinates.
func (c *Capture) MouseMove(x, y int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mouseX, c.mouseY = x, y
}

// MouseButtonDown records a button going down, button 0 through 2.
func (c *Capture) MouseButtonDown(button int) {
	if button < 0 || button >= wire.MaxMouseButtons {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	bit := uint32(1) << button
	if c.mouseDown&bit == 0 {
		c.mousePressed |= bit
	}
	c.mouseDown |= bit
}

// MouseButtonUp records a button release.
func (c *Capture) MouseButtonUp(button int) {
	if button < 0 || button >= wire.MaxMouseButtons {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	bit := uint32(1) << button
	c.mouseDown &^= bit
	c.mousePressed &^= bit
}

// pressThreshold is the analog value past which a gamepad button counts as
// held, matching the browser convention for trigger buttons.
const pressThreshold = 0.5

// SetGamepad replaces the state of one pad slot, diffing button values
// against the previous poll to derive pressed edges. Out-of-range slots are
// ignored. Pass a zero Gamepad to mark a slot disconnected.
func (c *Capture) SetGamepad(slot int, pad wire.Gamepad) {
	if slot < 0 || slot >= wire.MaxGamepads {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := &c.gamepads[slot]
	pad.Pressed = nil
	for i := range pad.Buttons {
		if pad.Buttons[i] > pressThreshold && prev.Buttons[i] <= pressThreshold {
			pad.Pressed = append(pad.Pressed, i)
		}
	}
	// Edges already accumulated this frame survive a re-poll only while
	// the button is still held; a release takes its edge with it.
	for _, i := range prev.Pressed {
		if pad.Buttons[i] > pressThreshold && !containsButton(pad.Pressed, i) {
			pad.Pressed = append(pad.Pressed, i)
		}
	}
	c.gamepads[slot] = pad
}

func containsButton(s []int, b int) bool {
	for _, v := range s {
		if v == b {
			return true
		}
	}
	return false
}

// State snapshots the current input as an owned value; the caller may hold
// it across later events and Updates without seeing mutation.
func (c *Capture) State() wire.InputState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := wire.InputState{
		KeysDown:     keysOf(c.keysDown),
		KeysPressed:  keysOf(c.keysPressed),
		MouseX:       c.mouseX,
		MouseY:       c.mouseY,
		MouseDown:    c.mouseDown,
		MousePressed: c.mousePressed,
		Gamepads:     c.gamepads,
	}
	for i := range s.Gamepads {
		if n := len(s.Gamepads[i].Pressed); n > 0 {
			s.Gamepads[i].Pressed = append([]int(nil), s.Gamepads[i].Pressed...)
		}
	}
	return s
}

// Update ends the frame: pressed edges clear, held state persists. Called
// by the frame loop after the snapshot has been published.
func (c *Capture) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.keysPressed)
	c.mousePressed = 0
	for i := range c.gamepads {
		c.gamepads[i].Pressed = c.gamepads[i].Pressed[:0]
	}
}

// Reset drops all input state, held and edge alike. Used when the surface
// loses focus so keys do not stick down.
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.keysDown)
	clear(c.keysPressed)
	c.mouseDown = 0
	c.mousePressed = 0
	c.gamepads = [wire.MaxGamepads]wire.Gamepad{}
}

func keysOf(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
