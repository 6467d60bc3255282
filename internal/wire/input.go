package wire

// Fixed transfer capacities. The shared-memory transport moves variable-length
// sets through fixed-size slot arrays; entries beyond these limits are dropped
// by the producer, never silently corrupted.
const (
	// MaxKeySlots is the number of key-name slots per set (held / pressed).
	MaxKeySlots = 32
	// KeySlotBytes is the per-slot capacity: UTF-8 bytes, null-padded. Long
	// enough for the longest standard key name ("LaunchApplication2" fits).
	KeySlotBytes = 16
	// MaxMouseButtons covers the three standard buttons, one bit each.
	MaxMouseButtons = 3
	// MaxGamepads is the number of gamepad slots carried per snapshot.
	MaxGamepads = 4
	// GamepadButtons matches the standard-mapping button count.
	GamepadButtons = 17
	// GamepadAxes covers two sticks with two axes each.
	GamepadAxes = 4
	// GamepadIDBytes is the per-slot capacity for the gamepad id string.
	GamepadIDBytes = 32
)

// Gamepad is the state of one gamepad slot. Button values range 0.0-1.0
// (analog triggers report in between). Pressed lists the button indexes that
// transitioned from released to held during the current input sample.
type Gamepad struct {
	Connected bool
	ID        string
	Buttons   [GamepadButtons]float64
	Pressed   []int
	Axes      [GamepadAxes]float64
}

// ButtonPressed reports whether button idx was newly pressed this frame.
func (g *Gamepad) ButtonPressed(idx int) bool {
	for _, p := range g.Pressed {
		if p == idx {
			return true
		}
	}
	return false
}

// InputState is one snapshot of every input device, sampled on the main
// thread and read by the script on the background thread. The pressed sets
// are edge-triggered: strict subsets of the corresponding down sets,
// recomputed from a before/after diff once per sample and rolled back to
// empty at every frame boundary.
type InputState struct {
	KeysDown    []string
	KeysPressed []string

	// MouseX/MouseY are surface-relative pixel coordinates.
	MouseX int32
	MouseY int32

	// MouseDown and MousePressed hold one bit per button (bit 0 = left).
	MouseDown    uint32
	MousePressed uint32

	Gamepads [MaxGamepads]Gamepad
}

// KeyDown reports whether the named key is currently held.
func (s *InputState) KeyDown(name string) bool {
	return containsKey(s.KeysDown, name)
}

// KeyPressed reports whether the named key was newly pressed this frame.
func (s *InputState) KeyPressed(name string) bool {
	return containsKey(s.KeysPressed, name)
}

// MouseButtonDown reports whether mouse button b (0-2) is held.
func (s *InputState) MouseButtonDown(b int) bool {
	return b >= 0 && b < MaxMouseButtons && s.MouseDown&(1<<uint(b)) != 0
}

// MouseButtonPressed reports whether mouse button b was newly pressed.
func (s *InputState) MouseButtonPressed(b int) bool {
	return b >= 0 && b < MaxMouseButtons && s.MousePressed&(1<<uint(b)) != 0
}

// Clone returns a deep copy, detaching every slice from the receiver so the
// snapshot can cross a goroutine boundary without aliasing.
func (s InputState) Clone() InputState {
	out := s
	out.KeysDown = append([]string(nil), s.KeysDown...)
	out.KeysPressed = append([]string(nil), s.KeysPressed...)
	for i := range s.Gamepads {
		out.Gamepads[i].Pressed = append([]int(nil), s.Gamepads[i].Pressed...)
	}
	return out
}

func containsKey(keys []string, name string) bool {
	for _, k := range keys {
		if k == name {
			return true
		}
	}
	return false
}

// TimingInfo is written solely by the main thread once per frame and is
// read-only to the background thread.
type TimingInfo struct {
	// Delta is the elapsed time since the previous frame, in seconds.
	Delta float64
	// Total is the elapsed time since the run started, in seconds.
	Total float64
	// Frame is a monotonic frame counter.
	Frame uint32
}

// CanvasSize is the raster surface size in pixels.
type CanvasSize struct {
	Width  int32
	Height int32
}
